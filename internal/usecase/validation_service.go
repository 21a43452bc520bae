package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/hockey-ingest/internal/domain/integrity"
	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
)

const (
	defaultTopN            = 10
	defaultMaxGoalsPerGame = 10
)

type ValidationConfig struct {
	TopN            int
	MaxGoalsPerGame int
}

// ValidationService checks a persisted dataset and never writes to it.
type ValidationService struct {
	opener integrity.StoreOpener
	cfg    ValidationConfig
	logger *logging.Logger
}

func NewValidationService(opener integrity.StoreOpener, cfg ValidationConfig, logger *logging.Logger) *ValidationService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TopN <= 0 {
		cfg.TopN = defaultTopN
	}
	if cfg.MaxGoalsPerGame <= 0 {
		cfg.MaxGoalsPerGame = defaultMaxGoalsPerGame
	}
	return &ValidationService{opener: opener, cfg: cfg, logger: logger}
}

type integrityCheck struct {
	stat     string
	requires []string
	count    func(ctx context.Context, store integrity.Store) (int64, error)
	warning  func(n int64) string
}

func (s *ValidationService) checks() []integrityCheck {
	return []integrityCheck{
		{
			stat:     "orphaned_games",
			requires: []string{integrity.TableGames, integrity.TableTeams},
			count: func(ctx context.Context, store integrity.Store) (int64, error) {
				return store.CountOrphanedGames(ctx)
			},
			warning: func(n int64) string {
				return fmt.Sprintf("%d games reference a home or visitor team that does not exist", n)
			},
		},
		{
			stat:     "orphaned_goals",
			requires: []string{integrity.TableGoals, integrity.TableGames},
			count: func(ctx context.Context, store integrity.Store) (int64, error) {
				return store.CountOrphanedGoals(ctx)
			},
			warning: func(n int64) string {
				return fmt.Sprintf("%d goals reference a game that does not exist", n)
			},
		},
		{
			stat:     "teams_missing_stats",
			requires: []string{integrity.TableTeams, integrity.TableGames, integrity.TableTeamStats},
			count: func(ctx context.Context, store integrity.Store) (int64, error) {
				return store.CountTeamsMissingStats(ctx)
			},
			warning: func(n int64) string {
				return fmt.Sprintf("%d teams played games but have no team_stats row", n)
			},
		},
		{
			stat:     "implausible_player_games",
			requires: []string{integrity.TablePlayerGameLog},
			count: func(ctx context.Context, store integrity.Store) (int64, error) {
				return store.CountImplausiblePlayerGames(ctx, s.cfg.MaxGoalsPerGame)
			},
			warning: func(n int64) string {
				return fmt.Sprintf("%d player game log rows credit more than %d goals in one game", n, s.cfg.MaxGoalsPerGame)
			},
		},
		{
			stat:     "negative_scores",
			requires: []string{integrity.TableGames},
			count: func(ctx context.Context, store integrity.Store) (int64, error) {
				return store.CountNegativeScores(ctx)
			},
			warning: func(n int64) string {
				return fmt.Sprintf("%d games have a negative score", n)
			},
		},
		{
			stat:     "points_pct_out_of_range",
			requires: []string{integrity.TableTeamStats},
			count: func(ctx context.Context, store integrity.Store) (int64, error) {
				return store.CountPointsPctOutOfRange(ctx)
			},
			warning: func(n int64) string {
				return fmt.Sprintf("%d team_stats rows have points_pct outside [0, 1]", n)
			},
		},
	}
}

// Validate produces the integrity report. Only a store that cannot be
// opened or a missing expected table fails the report; every other finding
// is a warning and no check depends on another's outcome.
func (s *ValidationService) Validate(ctx context.Context) *integrity.Report {
	ctx, span := startUsecaseSpan(ctx, "usecase.ValidationService.Validate")
	defer span.End()

	report := integrity.NewReport()
	store, err := s.opener.Open(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "open integrity store failed", "error", err)
		report.AddError(fmt.Sprintf("open store: %v", err))
		return report.Finalize()
	}
	defer func() {
		if err := store.Close(); err != nil {
			s.logger.WarnContext(ctx, "close integrity store failed", "error", err)
		}
	}()

	present := s.checkTables(ctx, store, report)

	for _, check := range s.checks() {
		if !hasTables(present, check.requires) {
			continue
		}
		n, err := check.count(ctx, store)
		if err != nil {
			report.AddWarning(fmt.Sprintf("check %s failed: %v", check.stat, err))
			continue
		}
		report.Stats[check.stat] = n
		if n > 0 {
			report.AddWarning(check.warning(n))
		}
	}

	if hasTables(present, []string{integrity.TableTeams, integrity.TableTeamStats}) {
		top, err := store.TopTeams(ctx, s.cfg.TopN)
		if err != nil {
			report.AddWarning(fmt.Sprintf("rank top teams failed: %v", err))
		} else {
			report.TopTeams = top
		}
	}

	report.Finalize()
	s.logger.InfoContext(ctx, "integrity validation finished",
		"success", report.Success,
		"errors", len(report.Errors),
		"warnings", len(report.Warnings),
	)
	return report
}

// checkTables records row counts for every expected table and returns the
// set of tables that exist.
func (s *ValidationService) checkTables(ctx context.Context, store integrity.Store, report *integrity.Report) map[string]bool {
	present := make(map[string]bool, len(integrity.ExpectedTables))
	for _, table := range integrity.ExpectedTables {
		exists, err := store.TableExists(ctx, table)
		if err != nil {
			report.AddError(fmt.Sprintf("check table %s: %v", table, err))
			continue
		}
		if !exists {
			report.AddError(fmt.Sprintf("missing table: %s", table))
			continue
		}
		present[table] = true

		n, err := store.CountRows(ctx, table)
		if err != nil {
			report.AddWarning(fmt.Sprintf("count rows in %s failed: %v", table, err))
			continue
		}
		report.Stats[table] = n
		if n == 0 && integrity.IsMandatoryTable(table) {
			report.AddWarning(fmt.Sprintf("table %s is empty", table))
		}
	}
	return present
}

func hasTables(present map[string]bool, tables []string) bool {
	for _, table := range tables {
		if !present[table] {
			return false
		}
	}
	return true
}
