package usecase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/riskibarqy/hockey-ingest/internal/platform/cache"
)

// CachedFetcher remembers season-scoped lookups so the division resolver and
// the endpoint fetcher share one divisions request per run. Standings and
// schedule pages always go to the provider.
type CachedFetcher struct {
	next  RawFetcher
	store *cache.Store
}

var _ RawFetcher = (*CachedFetcher)(nil)

func NewCachedFetcher(next RawFetcher, store *cache.Store) *CachedFetcher {
	if store == nil {
		store = cache.NewStore(0)
	}
	return &CachedFetcher{next: next, store: store}
}

func (f *CachedFetcher) FetchRaw(ctx context.Context, req FetchRequest) (RawResponse, error) {
	if req.Endpoint != EndpointSeason && req.Endpoint != EndpointDivisions {
		return f.next.FetchRaw(ctx, req)
	}

	key := fmt.Sprintf("%s:%s", req.Endpoint, req.SeasonID)
	value, err := f.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return f.next.FetchRaw(ctx, req)
	})
	if err != nil {
		return RawResponse{}, err
	}
	resp := value.(RawResponse)
	return RawResponse{URL: resp.URL, Body: bytes.Clone(resp.Body)}, nil
}
