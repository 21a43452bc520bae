package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/hockey-ingest/internal/app"
	"github.com/riskibarqy/hockey-ingest/internal/usecase"
	"github.com/spf13/cobra"
)

type ingestOptions struct {
	seasonID  string
	outputDir string
	endpoints []string
	rawDB     bool
}

func newIngestCmd(rt *runtime) *cobra.Command {
	var opts ingestOptions

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch one season from the stats API and write canonical JSON collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.cfg
			if cmd.Flags().Changed("season") {
				cfg.SeasonID = strings.TrimSpace(opts.seasonID)
			}
			if cmd.Flags().Changed("out") {
				cfg.OutputDir = strings.TrimSpace(opts.outputDir)
			}
			if cmd.Flags().Changed("raw-db") {
				cfg.RawArchiveDBEnabled = opts.rawDB
			}

			svc, cleanup, err := app.NewIngestionService(cmd.Context(), cfg, rt.logger)
			if err != nil {
				return fmt.Errorf("build ingestion: %w", err)
			}
			defer func() {
				if err := cleanup(); err != nil {
					rt.logger.Warn("close raw payload store failed", "error", err)
				}
			}()

			summary, err := svc.Run(cmd.Context(), usecase.IngestRequest{
				SeasonID:  cfg.SeasonID,
				Endpoints: opts.endpoints,
			})
			if err != nil {
				if errors.Is(err, usecase.ErrInvalidInput) {
					return withCode(exitUsage, err)
				}
				if !errors.Is(err, usecase.ErrNoDivisions) {
					return withCode(exitFailure, err)
				}
				rt.logger.Error("ingestion aborted", "error", err)
			}

			if err := writeJSON(rt.out, summary); err != nil {
				return err
			}
			if !summary.DataFetched {
				return withCode(exitFailure, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.seasonID, "season", "", "Season id (default: HOCKEY_SEASON_ID)")
	cmd.Flags().StringVar(&opts.outputDir, "out", "", "Output directory (default: HOCKEY_OUTPUT_DIR)")
	cmd.Flags().StringSliceVar(&opts.endpoints, "endpoints", nil, "Endpoints to fetch besides the schedule: season,divisions,standings")
	cmd.Flags().BoolVar(&opts.rawDB, "raw-db", false, "Also upsert raw payloads into the raw_data_payloads table")

	return cmd
}
