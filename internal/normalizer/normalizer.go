package normalizer

import (
	"sort"

	"github.com/riskibarqy/hockey-ingest/internal/domain/division"
	"github.com/riskibarqy/hockey-ingest/internal/domain/game"
	"github.com/riskibarqy/hockey-ingest/internal/domain/player"
	"github.com/riskibarqy/hockey-ingest/internal/domain/rawdata"
	"github.com/riskibarqy/hockey-ingest/internal/domain/team"
	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
)

const (
	standingsShape    = "standings"
	maxStandingsDepth = 6
)

// ScheduleList is one list of day groups or games taken from a schedule page.
type ScheduleList struct {
	Key   string
	URL   string
	Items []any
}

type Input struct {
	Divisions    []division.Division
	Schedule     []ScheduleList
	StandingsURL string
	Standings    *rawdata.Response
}

type Result struct {
	Games     []game.Game
	Teams     []team.Team
	Divisions []division.Division
	Players   []player.Player
	// Skipped counts game records with no team name on either side.
	Skipped int
}

type Normalizer struct {
	logger *logging.Logger
}

func New(logger *logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize converts one run's raw schedule and standings data into canonical
// records. Malformed records are skipped and counted, never fatal.
func (n *Normalizer) Normalize(in Input) Result {
	teams := newTeamSet()
	result := Result{
		Games:     make([]game.Game, 0, 64),
		Divisions: in.Divisions,
		Players:   []player.Player{},
	}
	if result.Divisions == nil {
		result.Divisions = []division.Division{}
	}

	for _, list := range in.Schedule {
		for idx, record := range rawdata.ObjectsOf(list.Items) {
			games, skipped := n.normalizeEntry(list, idx, record, teams)
			result.Games = append(result.Games, games...)
			result.Skipped += skipped
		}
	}

	if in.Standings != nil {
		for _, record := range in.Standings.Records() {
			collectStandingTeams(record, in.StandingsURL, teams, 0)
		}
	}

	result.Teams = teams.teams()
	return result
}

// normalizeEntry handles one list element, either a day group holding a
// games list or a bare game record. A group whose games value is a single
// object is read as a one element list.
func (n *Normalizer) normalizeEntry(list ScheduleList, position int, record map[string]any, teams *teamSet) ([]game.Game, int) {
	groupDate := ""
	items := []any{record}
	if rawGames, isGroup := record["games"]; isGroup {
		groupDate = getString(record, "date")
		switch typed := rawGames.(type) {
		case []any:
			items = typed
		case map[string]any:
			items = []any{typed}
		default:
			n.logger.Warn("skip day group with unreadable games",
				"list", list.Key,
				"position", position,
				"games_kind", jsonKind(rawGames),
			)
			return nil, 1
		}
	}

	out := make([]game.Game, 0, len(items))
	skipped := 0
	for idx, item := range items {
		gameRecord, isObject := item.(map[string]any)
		if !isObject {
			skipped++
			n.logger.Warn("skip non-object game record",
				"list", list.Key,
				"position", position,
				"game_index", idx,
				"kind", jsonKind(item),
			)
			continue
		}
		parsed, ok := normalizeGame(gameRecord, groupDate, list.URL, teams)
		if !ok {
			skipped++
			n.logger.Warn("skip game record without team names",
				"list", list.Key,
				"position", position,
				"game_index", idx,
			)
			continue
		}
		out = append(out, parsed)
	}
	return out, skipped
}

func normalizeGame(record map[string]any, groupDate, sourceURL string, teams *teamSet) (game.Game, bool) {
	home, homeShape := extractTeam(record, SideHome)
	away, awayShape := extractTeam(record, SideAway)

	parsed := game.Game{
		Date:     firstNonEmpty(groupDate, getString(record, "date")),
		Time:     extractTime(record),
		HomeTeam: home,
		AwayTeam: away,
		Location: extractLocation(record),
	}
	if err := parsed.Validate(); err != nil {
		return game.Game{}, false
	}

	if home != "" {
		teams.add(home, provenance(sourceURL, homeShape))
	}
	if away != "" {
		teams.add(away, provenance(sourceURL, awayShape))
	}
	return parsed, true
}

// collectStandingTeams registers team rows found anywhere in a standings
// record. Objects that are not team rows are walked into.
func collectStandingTeams(node any, sourceURL string, teams *teamSet, depth int) {
	if depth > maxStandingsDepth {
		return
	}
	switch typed := node.(type) {
	case []any:
		for _, item := range typed {
			collectStandingTeams(item, sourceURL, teams, depth+1)
		}
	case map[string]any:
		if name := standingTeamName(typed); name != "" {
			teams.add(name, provenance(sourceURL, standingsShape))
			return
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			switch value := typed[key]; value.(type) {
			case []any, map[string]any:
				collectStandingTeams(value, sourceURL, teams, depth+1)
			}
		}
	}
}

func standingTeamName(row map[string]any) string {
	if nested, ok := row["team"].(map[string]any); ok {
		if name := firstString(nested, "name", "title"); name != "" {
			return name
		}
	}
	return getString(row, "name")
}

// NormalizeDivisions renames id and title on each division record. Records
// without a positive integral id are dropped with a warning.
func NormalizeDivisions(resp rawdata.Response, logger *logging.Logger) []division.Division {
	if logger == nil {
		logger = logging.Default()
	}

	records := resp.Records()
	out := make([]division.Division, 0, len(records))
	for idx, record := range records {
		id, err := getID(record, "id")
		if err == nil {
			item := division.Division{ID: id, Name: getString(record, "title")}
			if err = item.Validate(); err == nil {
				out = append(out, item)
				continue
			}
		}
		logger.Warn("skip division record",
			"position", idx,
			"title", getString(record, "title"),
			"error", err,
		)
	}
	return out
}

func provenance(sourceURL, shape string) string {
	if shape == "" {
		return sourceURL
	}
	return sourceURL + "#" + shape
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if item != "" {
			return item
		}
	}
	return ""
}
