package sqlstore

import (
	"context"
	"testing"

	"github.com/riskibarqy/hockey-ingest/internal/domain/integrity"
)

func TestStore_TableExists(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)
	store := NewStore(db, DialectSQLite)
	ctx := context.Background()

	for _, table := range integrity.ExpectedTables {
		ok, err := store.TableExists(ctx, table)
		if err != nil {
			t.Fatalf("table exists %s: %v", table, err)
		}
		if !ok {
			t.Fatalf("expected table %s to exist", table)
		}
	}

	mustExec(t, db, `DROP TABLE games`)
	ok, err := store.TableExists(ctx, integrity.TableGames)
	if err != nil {
		t.Fatalf("table exists games: %v", err)
	}
	if ok {
		t.Fatalf("expected games to be missing after drop")
	}
}

func TestStore_CountRowsRejectsUnknownTable(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)
	store := NewStore(db, DialectSQLite)

	if _, err := store.CountRows(context.Background(), "teams; DROP TABLE teams"); err == nil {
		t.Fatalf("expected error for table outside the dataset")
	}
}

func TestStore_IntegrityCounts(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)
	seedDataset(t, db)
	store := NewStore(db, DialectSQLite)
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() (int64, error)
		want int64
	}{
		{name: "rows teams", run: func() (int64, error) { return store.CountRows(ctx, integrity.TableTeams) }, want: 3},
		{name: "rows games", run: func() (int64, error) { return store.CountRows(ctx, integrity.TableGames) }, want: 4},
		{name: "rows penalties", run: func() (int64, error) { return store.CountRows(ctx, integrity.TablePenalties) }, want: 0},
		{name: "orphaned games", run: func() (int64, error) { return store.CountOrphanedGames(ctx) }, want: 1},
		{name: "orphaned goals", run: func() (int64, error) { return store.CountOrphanedGoals(ctx) }, want: 1},
		{name: "teams missing stats", run: func() (int64, error) { return store.CountTeamsMissingStats(ctx) }, want: 1},
		{name: "implausible player games", run: func() (int64, error) { return store.CountImplausiblePlayerGames(ctx, 10) }, want: 1},
		{name: "negative scores", run: func() (int64, error) { return store.CountNegativeScores(ctx) }, want: 1},
		{name: "points pct out of range", run: func() (int64, error) { return store.CountPointsPctOutOfRange(ctx) }, want: 1},
	}

	for _, tc := range cases {
		got, err := tc.run()
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %d, got=%d", tc.name, tc.want, got)
		}
	}
}

func TestStore_TopTeams(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)
	seedDataset(t, db)
	store := NewStore(db, DialectSQLite)

	teams, err := store.TopTeams(context.Background(), 10)
	if err != nil {
		t.Fatalf("top teams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 ranked teams, got=%d", len(teams))
	}
	if teams[0].Name != "WHK" || teams[0].PointsPct != 0.75 || teams[0].Points != 3 {
		t.Fatalf("unexpected leader: %+v", teams[0])
	}
	if teams[1].Name != "Duxbury U12B" || teams[1].PointsPct != 0.5 {
		t.Fatalf("expected derived points pct for Duxbury, got %+v", teams[1])
	}

	limited, err := store.TopTeams(context.Background(), 1)
	if err != nil {
		t.Fatalf("top teams limited: %v", err)
	}
	if len(limited) != 1 || limited[0].TeamID != 1 {
		t.Fatalf("expected only WHK with limit 1, got %+v", limited)
	}
}
