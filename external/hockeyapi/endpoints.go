package hockeyapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/hockey-ingest/internal/usecase"
)

const (
	standingsLimit = 100
	startDateFmt   = "2006-01-02"
)

type endpointSpec struct {
	path string
	// filters reports whether the endpoint takes the division filter set.
	filters bool
	paged   bool
}

var endpointCatalogue = map[string]endpointSpec{
	usecase.EndpointSeason:    {path: "/useSeasonDivisions/getSeason/{season_id}"},
	usecase.EndpointDivisions: {path: "/useSeasonDivisions/getDivisions/{season_id}"},
	usecase.EndpointStandings: {path: "/useStandings/getDivisionStandings/{season_id}", filters: true},
	usecase.EndpointSchedules: {path: "/useSchedule/getSeasonSchedule/{season_id}", filters: true, paged: true},
}

func (c *Client) buildURL(req usecase.FetchRequest) (string, error) {
	spec, ok := endpointCatalogue[req.Endpoint]
	if !ok {
		return "", fmt.Errorf("%w: unknown endpoint %q", usecase.ErrInvalidInput, req.Endpoint)
	}
	seasonID := strings.TrimSpace(req.SeasonID)
	if seasonID == "" {
		return "", fmt.Errorf("%w: season id is required", usecase.ErrInvalidInput)
	}

	fullURL := c.baseURL + strings.ReplaceAll(spec.path, "{season_id}", url.PathEscape(seasonID))
	if !spec.filters {
		return fullURL, nil
	}

	values := url.Values{}
	values.Set("filter[divisions]", req.DivisionIDs)
	values.Set("filter[timeZoneOffset]", strconv.Itoa(c.timeZoneOffset))
	if spec.paged {
		values.Set("filter[gametype]", c.gameType)
		values.Set("filter[limit]", strconv.Itoa(req.Limit))
		values.Set("filter[offset]", strconv.Itoa(req.Offset))
		if !req.Start.IsZero() {
			values.Set("filter[start]", req.Start.Format(startDateFmt))
		}
	} else {
		values.Set("filter[limit]", strconv.Itoa(standingsLimit))
		values.Set("filter[offset]", "0")
	}
	return fullURL + "?" + values.Encode(), nil
}
