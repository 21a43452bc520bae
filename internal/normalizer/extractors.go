package normalizer

// Side selects the home or away participant of a game record.
type Side int

const (
	SideHome Side = iota
	SideAway
)

// teamExtractor reads one side's team name from a single known shape.
type teamExtractor struct {
	shape   string
	extract func(record map[string]any, side Side) (string, bool)
}

func nestedTeam(homeKey, awayKey string, fields ...string) func(map[string]any, Side) (string, bool) {
	return func(record map[string]any, side Side) (string, bool) {
		key := homeKey
		if side == SideAway {
			key = awayKey
		}
		name := displayName(record[key], fields...)
		return name, name != ""
	}
}

// teamExtractors are tried in order, independently per side.
var teamExtractors = []teamExtractor{
	{shape: "homeTeam/visitorTeam", extract: nestedTeam("homeTeam", "visitorTeam", "name", "title")},
	{shape: "home/visitor", extract: nestedTeam("home", "visitor", "title", "name")},
}

// extractTeam returns the first name any extractor yields for side, with the
// shape that produced it.
func extractTeam(record map[string]any, side Side) (name, shape string) {
	for _, extractor := range teamExtractors {
		if name, ok := extractor.extract(record, side); ok {
			return name, extractor.shape
		}
	}
	return "", ""
}

func extractTime(record map[string]any) string {
	return firstString(record, "time", "scheduleStartTime")
}

func extractLocation(record map[string]any) string {
	return displayName(record["location"], "name", "title")
}
