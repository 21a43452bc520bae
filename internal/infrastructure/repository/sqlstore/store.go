package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/hockey-ingest/internal/domain/integrity"
	qb "github.com/riskibarqy/hockey-ingest/internal/platform/querybuilder"
)

// Store answers integrity questions with read-only queries.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

var _ integrity.Store = (*Store)(nil)

func NewStore(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	var builder *qb.SelectBuilder
	switch s.dialect {
	case DialectSQLite:
		builder = qb.Select("COUNT(1)").
			From("sqlite_master").
			Where(qb.Eq("type", "table"), qb.Eq("name", table))
	default:
		builder = qb.Select("COUNT(1)").
			From("information_schema.tables").
			Where(qb.Expr("table_schema = current_schema()"), qb.Eq("table_name", table))
	}

	n, err := s.count(ctx, builder)
	if err != nil {
		return false, fmt.Errorf("check table %s exists: %w", table, err)
	}
	return n > 0, nil
}

// CountRows only accepts tables from the expected set since the name is
// interpolated into the query.
func (s *Store) CountRows(ctx context.Context, table string) (int64, error) {
	if !integrity.IsExpectedTable(table) {
		return 0, fmt.Errorf("count rows: table %q is not part of the dataset", table)
	}
	n, err := s.count(ctx, qb.Select("COUNT(1)").From(table))
	if err != nil {
		return 0, fmt.Errorf("count rows in %s: %w", table, err)
	}
	return n, nil
}

func teamByID(column string) *qb.SelectBuilder {
	return qb.Select("1").From("teams t").Where(qb.Expr("t.id = " + column))
}

func (s *Store) CountOrphanedGames(ctx context.Context) (int64, error) {
	n, err := s.count(ctx, qb.Select("COUNT(1)").
		From("games g").
		Where(qb.Or(
			qb.And(qb.Expr("g.home_team_id IS NOT NULL"), qb.NotExists(teamByID("g.home_team_id"))),
			qb.And(qb.Expr("g.visitor_team_id IS NOT NULL"), qb.NotExists(teamByID("g.visitor_team_id"))),
		)))
	if err != nil {
		return 0, fmt.Errorf("count orphaned games: %w", err)
	}
	return n, nil
}

func (s *Store) CountOrphanedGoals(ctx context.Context) (int64, error) {
	n, err := s.count(ctx, qb.Select("COUNT(1)").
		From("goals gl").
		Where(
			qb.Expr("gl.game_id IS NOT NULL"),
			qb.NotExists(qb.Select("1").From("games g").Where(qb.Expr("g.id = gl.game_id"))),
		))
	if err != nil {
		return 0, fmt.Errorf("count orphaned goals: %w", err)
	}
	return n, nil
}

func (s *Store) CountTeamsMissingStats(ctx context.Context) (int64, error) {
	played := qb.Select("1").
		From("games g").
		Where(qb.Or(qb.Expr("g.home_team_id = t.id"), qb.Expr("g.visitor_team_id = t.id")))
	n, err := s.count(ctx, qb.Select("COUNT(1)").
		From("teams t").
		Where(
			qb.Exists(played),
			qb.NotExists(qb.Select("1").From("team_stats ts").Where(qb.Expr("ts.team_id = t.id"))),
		))
	if err != nil {
		return 0, fmt.Errorf("count teams missing stats: %w", err)
	}
	return n, nil
}

func (s *Store) CountImplausiblePlayerGames(ctx context.Context, maxGoals int) (int64, error) {
	n, err := s.count(ctx, qb.Select("COUNT(1)").
		From("player_game_log").
		Where(qb.Expr("goals > ?", maxGoals)))
	if err != nil {
		return 0, fmt.Errorf("count implausible player games: %w", err)
	}
	return n, nil
}

func (s *Store) CountNegativeScores(ctx context.Context) (int64, error) {
	n, err := s.count(ctx, qb.Select("COUNT(1)").
		From("games").
		Where(qb.Or(qb.Expr("home_score < 0"), qb.Expr("visitor_score < 0"))))
	if err != nil {
		return 0, fmt.Errorf("count negative scores: %w", err)
	}
	return n, nil
}

func (s *Store) CountPointsPctOutOfRange(ctx context.Context) (int64, error) {
	n, err := s.count(ctx, qb.Select("COUNT(1)").
		From("team_stats").
		Where(qb.Or(qb.Expr("points_pct < 0"), qb.Expr("points_pct > 1"))))
	if err != nil {
		return 0, fmt.Errorf("count points pct out of range: %w", err)
	}
	return n, nil
}

type teamRankingRow struct {
	TeamID      int64   `db:"team_id"`
	Name        string  `db:"name"`
	GamesPlayed int64   `db:"games_played"`
	Points      int64   `db:"points"`
	PointsPct   float64 `db:"points_pct"`
}

// TopTeams ranks by points_pct, falling back to points / (2 * games_played)
// when the stored percentage is missing.
func (s *Store) TopTeams(ctx context.Context, limit int) ([]integrity.TeamRanking, error) {
	query, args, err := qb.Select(
		"t.id AS team_id",
		"t.name AS name",
		"COALESCE(ts.games_played, 0) AS games_played",
		"COALESCE(ts.points, 0) AS points",
		"COALESCE(ts.points_pct, CASE WHEN ts.games_played > 0 THEN CAST(ts.points AS DOUBLE PRECISION) / (2 * ts.games_played) ELSE 0 END) AS points_pct",
	).
		From("team_stats ts JOIN teams t ON t.id = ts.team_id").
		OrderBy("points_pct DESC", "t.name ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build top teams query: %w", err)
	}

	var rows []teamRankingRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select top teams: %w", err)
	}

	out := make([]integrity.TeamRanking, 0, len(rows))
	for _, row := range rows {
		out = append(out, integrity.TeamRanking{
			TeamID:      row.TeamID,
			Name:        row.Name,
			GamesPlayed: row.GamesPlayed,
			Points:      row.Points,
			PointsPct:   row.PointsPct,
		})
	}
	return out, nil
}

func (s *Store) count(ctx context.Context, builder *qb.SelectBuilder) (int64, error) {
	query, args, err := builder.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var n int64
	if err := s.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}
