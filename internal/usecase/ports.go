package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/hockey-ingest/internal/domain/division"
	"github.com/riskibarqy/hockey-ingest/internal/domain/game"
	"github.com/riskibarqy/hockey-ingest/internal/domain/player"
	"github.com/riskibarqy/hockey-ingest/internal/domain/rawdata"
	"github.com/riskibarqy/hockey-ingest/internal/domain/team"
)

// Logical endpoint names of the stats API.
const (
	EndpointSeason    = "season"
	EndpointDivisions = "divisions"
	EndpointStandings = "standings"
	EndpointSchedules = "schedules"
)

// DefaultEndpoints are fetched once per run after divisions resolve.
var DefaultEndpoints = []string{EndpointSeason, EndpointDivisions, EndpointStandings}

type FetchRequest struct {
	Endpoint    string
	SeasonID    string
	DivisionIDs string
	Offset      int
	Limit       int
	// Start anchors the schedule window. Zero means no start filter.
	Start time.Time
}

type RawResponse struct {
	URL  string
	Body []byte
}

// RawFetcher issues one request against a named endpoint.
type RawFetcher interface {
	FetchRaw(ctx context.Context, req FetchRequest) (RawResponse, error)
}

// RawArchiver persists a raw payload verbatim.
type RawArchiver interface {
	WriteRaw(ctx context.Context, payload rawdata.Payload) error
}

type Collections struct {
	Games     []game.Game
	Teams     []team.Team
	Divisions []division.Division
	Players   []player.Player
}

// CollectionWriter persists the canonical collections of one run.
type CollectionWriter interface {
	WriteCollections(ctx context.Context, collections Collections) error
}
