package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
)

const migrationPath = "../../../../db/migrations/1760745600_create_hockey_store.up.sql"

func newTestDB(t *testing.T) (*sqlx.DB, OpenerConfig) {
	t.Helper()

	cfg := OpenerConfig{
		Driver: string(DialectSQLite),
		DSN:    filepath.Join(t.TempDir(), "hockey.db"),
	}
	dialect, err := DialectFromDriver(cfg.Driver)
	if err != nil {
		t.Fatalf("dialect: %v", err)
	}
	db, err := OpenDB(context.Background(), cfg, dialect)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	migration, err := os.ReadFile(migrationPath)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	for _, stmt := range strings.Split(string(migration), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("apply migration statement %q: %v", strings.TrimSpace(stmt), err)
		}
	}
	return db, cfg
}

func mustExec(t *testing.T, db *sqlx.DB, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
}

func seedDataset(t *testing.T, db *sqlx.DB) {
	t.Helper()
	mustExec(t, db,
		`INSERT INTO divisions (id, name, season_id) VALUES (10776, 'U12B', 13479)`,
		`INSERT INTO teams (id, name, division_id) VALUES (1, 'WHK', 10776), (2, 'Duxbury U12B', 10776), (3, 'Canton', 10776)`,
		`INSERT INTO games (id, division_id, home_team_id, visitor_team_id, home_score, visitor_score) VALUES
			(100, 10776, 1, 2, 3, 1),
			(101, 10776, 1, 99, 2, 2),
			(102, 10776, 2, 3, -1, 4),
			(103, 10776, NULL, 3, 0, 0)`,
		`INSERT INTO goals (id, game_id, team_id, player_id) VALUES (1, 100, 1, 10), (2, 500, 1, 10), (3, NULL, 2, 11)`,
		`INSERT INTO team_stats (team_id, games_played, points, points_pct) VALUES (1, 2, 3, 0.75), (2, 2, 2, NULL), (7, 1, 3, 1.5)`,
		`INSERT INTO player_game_log (game_id, player_id, team_id, goals) VALUES (100, 10, 1, 12), (100, 11, 1, 2), (101, 10, 1, 10)`,
	)
}
