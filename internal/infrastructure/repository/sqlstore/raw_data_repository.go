package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/hockey-ingest/internal/domain/rawdata"
	qb "github.com/riskibarqy/hockey-ingest/internal/platform/querybuilder"
)

type RawDataRepository struct {
	db *sqlx.DB
}

var _ rawdata.Repository = (*RawDataRepository)(nil)

func NewRawDataRepository(db *sqlx.DB) *RawDataRepository {
	return &RawDataRepository{db: db}
}

func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert raw payloads: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("upsert raw payload: %w", err)
		}
		insertModel := rawDataPayloadInsertModel{
			Source:      item.Source,
			EntityType:  item.Endpoint,
			EntityKey:   item.Key(),
			SourceURL:   nullableString(item.URL),
			Payload:     string(item.Body),
			PayloadHash: item.Hash(),
			FetchedAt:   nullableTime(item.FetchedAt),
		}

		builder, err := qb.InsertModel("raw_data_payloads", insertModel)
		if err != nil {
			return fmt.Errorf("build upsert raw payload query: %w", err)
		}
		query, args, err := builder.
			OnConflict("source", "entity_type", "entity_key").
			UpdateExcluded("source_url", "payload", "payload_hash", "fetched_at").
			UpdateRaw("ingested_at = CURRENT_TIMESTAMP").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert raw payload query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert raw payload entity=%s key=%s: %w", item.Endpoint, item.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert raw payloads tx: %w", err)
	}
	return nil
}

type rawDataPayloadInsertModel struct {
	Source      string     `db:"source"`
	EntityType  string     `db:"entity_type"`
	EntityKey   string     `db:"entity_key"`
	SourceURL   *string    `db:"source_url"`
	Payload     string     `db:"payload"`
	PayloadHash string     `db:"payload_hash"`
	FetchedAt   *time.Time `db:"fetched_at"`
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func nullableTime(v time.Time) *time.Time {
	if v.IsZero() {
		return nil
	}
	utc := v.UTC()
	return &utc
}
