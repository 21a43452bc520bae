package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/hockey-ingest/internal/domain/division"
	"github.com/riskibarqy/hockey-ingest/internal/domain/rawdata"
	"github.com/riskibarqy/hockey-ingest/internal/normalizer"
	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// DivisionResolver looks up the divisions of a season. Any failure resolves
// to zero divisions; partial lists are never invented.
type DivisionResolver struct {
	fetcher RawFetcher
	logger  *logging.Logger
}

func NewDivisionResolver(fetcher RawFetcher, logger *logging.Logger) *DivisionResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &DivisionResolver{fetcher: fetcher, logger: logger}
}

// Resolve returns the season's divisions in source order. On failure the
// slice is empty and the error says why.
func (r *DivisionResolver) Resolve(ctx context.Context, seasonID string) ([]division.Division, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionResolver.Resolve", attribute.String("season_id", seasonID))
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return []division.Division{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	resp, err := r.fetcher.FetchRaw(ctx, FetchRequest{Endpoint: EndpointDivisions, SeasonID: seasonID})
	if err != nil {
		r.logger.WarnContext(ctx, "resolve divisions failed", "season_id", seasonID, "error", err)
		return []division.Division{}, fmt.Errorf("fetch divisions season_id=%s: %w", seasonID, err)
	}

	decoded, err := rawdata.DecodeResponse(resp.Body)
	if err != nil {
		r.logger.WarnContext(ctx, "decode divisions failed", "season_id", seasonID, "error", err)
		return []division.Division{}, fmt.Errorf("decode divisions season_id=%s: %w", seasonID, err)
	}

	items := normalizer.NormalizeDivisions(decoded, r.logger)
	if len(items) == 0 {
		r.logger.WarnContext(ctx, "no usable divisions", "season_id", seasonID, "records", len(decoded.Records()))
		return []division.Division{}, fmt.Errorf("%w: season_id=%s", ErrNoDivisions, seasonID)
	}

	r.logger.InfoContext(ctx, "divisions resolved", "season_id", seasonID, "count", len(items))
	return items, nil
}
