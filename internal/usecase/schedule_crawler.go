package usecase

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/hockey-ingest/internal/domain/rawdata"
	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultPageSize = 10
	defaultMaxPages = 100
)

// Crawl stop reasons.
const (
	StopEmptyPage   = "empty_page"
	StopFetchError  = "fetch_error"
	StopDecodeError = "decode_error"
	StopMaxPages    = "max_pages"
	StopCanceled    = "canceled"
)

type ScheduleCrawlerConfig struct {
	PageSize int
	MaxPages int
	// TimeZoneOffset is in minutes east of UTC and picks the calendar day
	// used as the schedule start filter.
	TimeZoneOffset int
}

type SchedulePage struct {
	Index   int
	Offset  int
	Payload rawdata.Payload
	Lists   []rawdata.NamedList
}

type CrawlResult struct {
	Pages      []SchedulePage
	Requests   int
	StopReason string
}

// Merged returns every page list under a page qualified key so repeated
// keys across pages do not collide. Page order is preserved.
func (r CrawlResult) Merged() []rawdata.NamedList {
	out := make([]rawdata.NamedList, 0, len(r.Pages))
	for _, page := range r.Pages {
		for _, list := range page.Lists {
			out = append(out, rawdata.NamedList{
				Key:   pageListKey(page.Index, list.Key),
				Items: list.Items,
			})
		}
	}
	return out
}

func pageListKey(page int, key string) string {
	return fmt.Sprintf("page_%d_%s", page, key)
}

// MergedPayload renders the merged lists as one JSON object for archival.
func (r CrawlResult) MergedPayload(seasonID string, fetchedAt time.Time) (rawdata.Payload, error) {
	merged := r.Merged()
	body := make(map[string][]any, len(merged))
	for _, list := range merged {
		body[list.Key] = list.Items
	}
	raw, err := sonic.ConfigStd.Marshal(body)
	if err != nil {
		return rawdata.Payload{}, fmt.Errorf("encode merged schedule: %w", err)
	}
	return rawdata.Payload{
		Source:    PayloadSource,
		Endpoint:  EndpointSchedules,
		SeasonID:  seasonID,
		Paginated: true,
		Body:      raw,
		FetchedAt: fetchedAt,
	}, nil
}

// ScheduleCrawler walks the schedule endpoint one offset at a time. Pages
// are fetched strictly in sequence since each stop decision depends on the
// previous page.
type ScheduleCrawler struct {
	fetcher RawFetcher
	cfg     ScheduleCrawlerConfig
	logger  *logging.Logger
	now     func() time.Time
}

func NewScheduleCrawler(fetcher RawFetcher, cfg ScheduleCrawlerConfig, logger *logging.Logger) *ScheduleCrawler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	return &ScheduleCrawler{fetcher: fetcher, cfg: cfg, logger: logger, now: time.Now}
}

// Crawl fetches pages until one carries no non-empty list, a request fails,
// or MaxPages requests were made. Everything fetched so far is kept.
func (c *ScheduleCrawler) Crawl(ctx context.Context, seasonID, divisionIDs string) CrawlResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleCrawler.Crawl", attribute.String("season_id", seasonID))
	defer span.End()

	start := c.now().In(time.FixedZone("schedule", c.cfg.TimeZoneOffset*60))
	result := CrawlResult{StopReason: StopMaxPages}

	for page := 0; page < c.cfg.MaxPages; page++ {
		if ctx.Err() != nil {
			result.StopReason = StopCanceled
			break
		}

		offset := page * c.cfg.PageSize
		resp, err := c.fetcher.FetchRaw(ctx, FetchRequest{
			Endpoint:    EndpointSchedules,
			SeasonID:    seasonID,
			DivisionIDs: divisionIDs,
			Offset:      offset,
			Limit:       c.cfg.PageSize,
			Start:       start,
		})
		result.Requests++
		if err != nil {
			c.logger.WarnContext(ctx, "schedule page fetch failed, stopping crawl", "offset", offset, "error", err)
			result.StopReason = StopFetchError
			break
		}

		decoded, err := rawdata.DecodeResponse(resp.Body)
		if err != nil {
			c.logger.WarnContext(ctx, "schedule page decode failed, stopping crawl", "offset", offset, "error", err)
			result.StopReason = StopDecodeError
			break
		}

		lists := decoded.Lists()
		if len(lists) == 0 {
			result.StopReason = StopEmptyPage
			break
		}

		result.Pages = append(result.Pages, SchedulePage{
			Index:  page,
			Offset: offset,
			Lists:  lists,
			Payload: rawdata.Payload{
				Source:     PayloadSource,
				Endpoint:   EndpointSchedules,
				SeasonID:   seasonID,
				PageOffset: rawdata.Offset(offset),
				URL:        resp.URL,
				Body:       resp.Body,
				FetchedAt:  c.now().UTC(),
			},
		})
	}

	if result.StopReason == StopMaxPages {
		c.logger.WarnContext(ctx, "schedule crawl hit page limit", "max_pages", c.cfg.MaxPages)
	}
	c.logger.InfoContext(ctx, "schedule crawl finished",
		"season_id", seasonID,
		"requests", result.Requests,
		"pages_with_data", len(result.Pages),
		"stop_reason", result.StopReason,
	)
	return result
}
