package main

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/hockey-ingest/internal/app"
	"github.com/spf13/cobra"
)

type validateOptions struct {
	dbURL  string
	driver string
	topN   int
}

func newValidateCmd(rt *runtime) *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the persisted dataset and print an integrity report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.cfg
			if cmd.Flags().Changed("db-url") {
				cfg.DBURL = strings.TrimSpace(opts.dbURL)
			}
			if cmd.Flags().Changed("driver") {
				cfg.DBDriver = strings.ToLower(strings.TrimSpace(opts.driver))
			}
			if cmd.Flags().Changed("top") {
				cfg.ValidatorTopN = opts.topN
			}

			svc, err := app.NewValidationService(cfg, rt.logger)
			if err != nil {
				return withCode(exitUsage, err)
			}

			report := svc.Validate(cmd.Context())
			if err := writeJSON(rt.out, report); err != nil {
				return err
			}
			if !report.Success {
				return withCode(exitFailure, fmt.Errorf("integrity validation failed with %d error(s)", len(report.Errors)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.dbURL, "db-url", "", "Database url or sqlite path (default: DB_URL)")
	cmd.Flags().StringVar(&opts.driver, "driver", "", "Database driver: postgres or sqlite3 (default: DB_DRIVER)")
	cmd.Flags().IntVar(&opts.topN, "top", 0, "Number of teams in the ranking (default: VALIDATOR_TOP_N)")

	return cmd
}
