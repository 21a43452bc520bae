package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/hockey-ingest/internal/domain/division"
	"github.com/riskibarqy/hockey-ingest/internal/domain/rawdata"
	"github.com/riskibarqy/hockey-ingest/internal/normalizer"
	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
)

type IngestRequest struct {
	SeasonID  string   `validate:"required,numeric"`
	Endpoints []string `validate:"omitempty,dive,oneof=season divisions standings"`
}

type IngestionSummary struct {
	SeasonID           string   `json:"season_id"`
	Divisions          int      `json:"divisions"`
	Teams              int      `json:"teams"`
	Games              int      `json:"games"`
	Players            int      `json:"players"`
	SkippedRecords     int      `json:"skipped_records"`
	PageRequests       int      `json:"page_requests"`
	PagesWithData      int      `json:"pages_with_data"`
	CrawlStopReason    string   `json:"crawl_stop_reason,omitempty"`
	EndpointsSucceeded []string `json:"endpoints_succeeded"`
	EndpointsFailed    []string `json:"endpoints_failed"`
	RawPayloads        int      `json:"raw_payloads"`
	RawPersisted       bool     `json:"raw_persisted"`
	DataFetched        bool     `json:"data_fetched"`
	DurationMs         int64    `json:"duration_ms"`
}

// IngestionService runs one ingestion pass: resolve divisions, fetch the
// endpoints and crawl the schedule side by side, normalize, then write.
type IngestionService struct {
	resolver   *DivisionResolver
	fetcher    *EndpointFetcher
	crawler    *ScheduleCrawler
	normalizer *normalizer.Normalizer
	archiver   RawArchiver
	writer     CollectionWriter
	rawRepo    rawdata.Repository
	validate   *validator.Validate
	logger     *logging.Logger
	now        func() time.Time
}

type IngestionDeps struct {
	Resolver   *DivisionResolver
	Fetcher    *EndpointFetcher
	Crawler    *ScheduleCrawler
	Normalizer *normalizer.Normalizer
	Archiver   RawArchiver
	Writer     CollectionWriter
	// RawRepo is optional. When set, every raw payload is also upserted.
	RawRepo rawdata.Repository
	Logger  *logging.Logger
}

func NewIngestionService(deps IngestionDeps) *IngestionService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	norm := deps.Normalizer
	if norm == nil {
		norm = normalizer.New(logger)
	}
	return &IngestionService{
		resolver:   deps.Resolver,
		fetcher:    deps.Fetcher,
		crawler:    deps.Crawler,
		normalizer: norm,
		archiver:   deps.Archiver,
		writer:     deps.Writer,
		rawRepo:    deps.RawRepo,
		validate:   validator.New(),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *IngestionService) Run(ctx context.Context, req IngestRequest) (IngestionSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Run", attribute.String("season_id", req.SeasonID))
	defer span.End()

	started := s.now()
	req.SeasonID = strings.TrimSpace(req.SeasonID)
	if err := s.validate.Struct(req); err != nil {
		return IngestionSummary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	endpoints := req.Endpoints
	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints
	}

	summary := IngestionSummary{
		SeasonID:           req.SeasonID,
		EndpointsSucceeded: []string{},
		EndpointsFailed:    []string{},
	}

	divisions, err := s.resolver.Resolve(ctx, req.SeasonID)
	if len(divisions) == 0 {
		switch {
		case err == nil:
			err = ErrNoDivisions
		case !stderrors.Is(err, ErrNoDivisions):
			err = fmt.Errorf("%w: %w", ErrNoDivisions, err)
		}
		s.logger.ErrorContext(ctx, "no divisions resolved, aborting ingestion", "season_id", req.SeasonID, "error", err)
		summary.DurationMs = s.now().Sub(started).Milliseconds()
		return summary, err
	}
	summary.Divisions = len(divisions)
	divisionIDs := division.JoinIDs(divisions)

	var (
		endpointResults []EndpointResult
		fetchErr        error
		crawl           CrawlResult
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		endpointResults, fetchErr = s.fetcher.FetchAll(ctx, req.SeasonID, divisionIDs, endpoints)
	})
	wg.Go(func() {
		crawl = s.crawler.Crawl(ctx, req.SeasonID, divisionIDs)
	})
	wg.Wait()
	if fetchErr != nil {
		return summary, fmt.Errorf("fetch endpoints: %w", fetchErr)
	}

	payloads := make([]rawdata.Payload, 0, len(endpointResults)+len(crawl.Pages)+1)
	var standings *rawdata.Response
	standingsURL := ""
	for _, result := range endpointResults {
		if !result.OK() {
			summary.EndpointsFailed = append(summary.EndpointsFailed, result.Endpoint)
			continue
		}
		summary.EndpointsSucceeded = append(summary.EndpointsSucceeded, result.Endpoint)
		payloads = append(payloads, result.Payload)

		if result.Endpoint != EndpointStandings {
			continue
		}
		decoded, err := rawdata.DecodeResponse(result.Payload.Body)
		if err != nil {
			s.logger.WarnContext(ctx, "decode standings failed", "error", err)
			continue
		}
		standings = &decoded
		standingsURL = result.Payload.URL
	}

	summary.PageRequests = crawl.Requests
	summary.PagesWithData = len(crawl.Pages)
	summary.CrawlStopReason = crawl.StopReason
	for _, page := range crawl.Pages {
		payloads = append(payloads, page.Payload)
	}
	if crawl.Requests > 0 {
		merged, err := crawl.MergedPayload(req.SeasonID, s.now().UTC())
		if err != nil {
			return summary, err
		}
		if err := s.archiver.WriteRaw(ctx, merged); err != nil {
			s.logger.ErrorContext(ctx, "archive merged schedule failed", "key", merged.Key(), "error", err)
		}
		payloads = append(payloads, merged)
	}
	summary.RawPayloads = len(payloads)

	result := s.normalizer.Normalize(normalizer.Input{
		Divisions:    divisions,
		Schedule:     scheduleLists(crawl),
		StandingsURL: standingsURL,
		Standings:    standings,
	})
	summary.Teams = len(result.Teams)
	summary.Games = len(result.Games)
	summary.Players = len(result.Players)
	summary.SkippedRecords = result.Skipped

	if err := s.writer.WriteCollections(ctx, Collections{
		Games:     result.Games,
		Teams:     result.Teams,
		Divisions: result.Divisions,
		Players:   result.Players,
	}); err != nil {
		return summary, fmt.Errorf("write collections: %w", err)
	}

	if s.rawRepo != nil && len(payloads) > 0 {
		if err := s.rawRepo.UpsertMany(ctx, payloads); err != nil {
			s.logger.WarnContext(ctx, "persist raw payloads failed", "count", len(payloads), "error", err)
		} else {
			summary.RawPersisted = true
		}
	}

	summary.DataFetched = len(divisions) > 0 || len(summary.EndpointsSucceeded) > 0 || len(crawl.Pages) > 0
	s.logger.InfoContext(ctx, "ingestion finished",
		"season_id", req.SeasonID,
		"divisions", summary.Divisions,
		"teams", summary.Teams,
		"games", summary.Games,
		"skipped_records", summary.SkippedRecords,
		"page_requests", summary.PageRequests,
		"endpoints_failed", len(summary.EndpointsFailed),
	)
	summary.DurationMs = s.now().Sub(started).Milliseconds()
	return summary, nil
}

func scheduleLists(crawl CrawlResult) []normalizer.ScheduleList {
	out := make([]normalizer.ScheduleList, 0, len(crawl.Pages))
	for _, page := range crawl.Pages {
		for _, list := range page.Lists {
			out = append(out, normalizer.ScheduleList{
				Key:   pageListKey(page.Index, list.Key),
				URL:   page.Payload.URL,
				Items: list.Items,
			})
		}
	}
	return out
}
