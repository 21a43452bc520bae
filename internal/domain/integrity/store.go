package integrity

import "context"

// Store is a read-only view of the persisted relational dataset.
type Store interface {
	TableExists(ctx context.Context, table string) (bool, error)
	CountRows(ctx context.Context, table string) (int64, error)
	CountOrphanedGames(ctx context.Context) (int64, error)
	CountOrphanedGoals(ctx context.Context) (int64, error)
	CountTeamsMissingStats(ctx context.Context) (int64, error)
	CountImplausiblePlayerGames(ctx context.Context, maxGoals int) (int64, error)
	CountNegativeScores(ctx context.Context) (int64, error)
	CountPointsPctOutOfRange(ctx context.Context) (int64, error)
	TopTeams(ctx context.Context, limit int) ([]TeamRanking, error)
	Close() error
}

type StoreOpener interface {
	Open(ctx context.Context) (Store, error)
}
