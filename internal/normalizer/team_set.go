package normalizer

import (
	"strings"

	"github.com/riskibarqy/hockey-ingest/internal/domain/team"
)

// teamSet deduplicates teams by exact name for a single normalization pass,
// keeping first-seen order and provenance.
type teamSet struct {
	seen  map[string]struct{}
	items []team.Team
}

func newTeamSet() *teamSet {
	return &teamSet{seen: make(map[string]struct{}, 64)}
}

func (s *teamSet) add(name, sourceURL string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	s.items = append(s.items, team.Team{Name: name, SourceURL: sourceURL})
	return true
}

func (s *teamSet) teams() []team.Team {
	out := make([]team.Team, len(s.items))
	copy(out, s.items)
	return out
}
