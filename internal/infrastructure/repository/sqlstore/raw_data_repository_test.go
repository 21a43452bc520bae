package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-ingest/internal/domain/rawdata"
	"github.com/stretchr/testify/require"
)

func TestRawDataRepository_UpsertManyOverwritesByKey(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)
	repo := NewRawDataRepository(db)
	ctx := context.Background()
	fetchedAt := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	first := []rawdata.Payload{
		{Source: "gamesheetstats", Endpoint: "standings", SeasonID: "10776", URL: "https://example.test/standings", Body: []byte(`{"a":1}`), FetchedAt: fetchedAt},
		{Source: "gamesheetstats", Endpoint: "schedules", SeasonID: "10776", PageOffset: rawdata.Offset(0), Body: []byte(`[]`), FetchedAt: fetchedAt},
	}
	require.NoError(t, repo.UpsertMany(ctx, first))

	updated := first[0]
	updated.Body = []byte(`{"a":2}`)
	require.NoError(t, repo.UpsertMany(ctx, []rawdata.Payload{updated}))

	var total int
	require.NoError(t, db.Get(&total, `SELECT COUNT(1) FROM raw_data_payloads`))
	require.Equal(t, 2, total)

	var row struct {
		Payload     string `db:"payload"`
		PayloadHash string `db:"payload_hash"`
	}
	require.NoError(t, db.Get(&row, `SELECT payload, payload_hash FROM raw_data_payloads WHERE entity_key = $1`, "standings_10776"))
	require.Equal(t, `{"a":2}`, row.Payload)
	require.Equal(t, updated.Hash(), row.PayloadHash)

	var sourceURL *string
	require.NoError(t, db.Get(&sourceURL, `SELECT source_url FROM raw_data_payloads WHERE entity_key = $1`, "schedules_10776_0"))
	require.Nil(t, sourceURL)
}

func TestRawDataRepository_RejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	db, _ := newTestDB(t)
	repo := NewRawDataRepository(db)

	err := repo.UpsertMany(context.Background(), []rawdata.Payload{{Endpoint: "standings", SeasonID: "10776"}})
	require.Error(t, err)

	var total int
	require.NoError(t, db.Get(&total, `SELECT COUNT(1) FROM raw_data_payloads`))
	require.Zero(t, total)
}
