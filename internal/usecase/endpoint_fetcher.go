package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/hockey-ingest/internal/domain/rawdata"
	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
)

const (
	// PayloadSource tags every raw payload fetched from the stats API.
	PayloadSource       = "gamesheetstats"
	defaultFetchWorkers = 4
	maxFetchWorkers     = 16
)

type EndpointResult struct {
	Endpoint   string
	Payload    rawdata.Payload
	Err        error
	ArchiveErr error
	DurationMs int64
}

func (r EndpointResult) OK() bool {
	return r.Err == nil
}

// EndpointFetcher fetches each named endpoint independently on a bounded
// worker pool. Every result lands in its own slot.
type EndpointFetcher struct {
	fetcher  RawFetcher
	archiver RawArchiver
	workers  int
	logger   *logging.Logger
	now      func() time.Time
}

func NewEndpointFetcher(fetcher RawFetcher, archiver RawArchiver, workers int, logger *logging.Logger) *EndpointFetcher {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultFetchWorkers
	}
	if workers > maxFetchWorkers {
		workers = maxFetchWorkers
	}
	return &EndpointFetcher{
		fetcher:  fetcher,
		archiver: archiver,
		workers:  workers,
		logger:   logger,
		now:      time.Now,
	}
}

// FetchAll returns one result per endpoint, in the order given. A failing
// endpoint never aborts the others; each success is archived before
// FetchAll returns.
func (f *EndpointFetcher) FetchAll(ctx context.Context, seasonID, divisionIDs string, endpoints []string) ([]EndpointResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EndpointFetcher.FetchAll")
	defer span.End()

	results := make([]EndpointResult, len(endpoints))
	if len(endpoints) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(minInt(f.workers, len(endpoints)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for idx, endpoint := range endpoints {
		idx, endpoint := idx, endpoint
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results[idx] = f.fetchOne(ctx, seasonID, divisionIDs, endpoint)
		}); err != nil {
			workers.Done()
			results[idx] = EndpointResult{Endpoint: endpoint, Err: fmt.Errorf("submit fetch task: %w", err)}
		}
	}
	workers.Wait()

	return results, nil
}

func (f *EndpointFetcher) fetchOne(ctx context.Context, seasonID, divisionIDs, endpoint string) (result EndpointResult) {
	start := f.now()
	result.Endpoint = endpoint
	defer func() {
		result.DurationMs = f.now().Sub(start).Milliseconds()
	}()

	resp, err := f.fetcher.FetchRaw(ctx, FetchRequest{
		Endpoint:    endpoint,
		SeasonID:    seasonID,
		DivisionIDs: divisionIDs,
	})
	if err != nil {
		f.logger.WarnContext(ctx, "endpoint fetch failed", "endpoint", endpoint, "season_id", seasonID, "error", err)
		result.Err = err
		return result
	}

	result.Payload = rawdata.Payload{
		Source:    PayloadSource,
		Endpoint:  endpoint,
		SeasonID:  seasonID,
		URL:       resp.URL,
		Body:      resp.Body,
		FetchedAt: f.now().UTC(),
	}
	if f.archiver != nil {
		if err := f.archiver.WriteRaw(ctx, result.Payload); err != nil {
			f.logger.ErrorContext(ctx, "archive raw payload failed", "key", result.Payload.Key(), "error", err)
			result.ArchiveErr = err
		}
	}
	return result
}

func minInt(left, right int) int {
	if left < right {
		return left
	}
	return right
}
