package player

// Player is a roster entry. The schedule and standings endpoints never carry
// rosters, so ingestion emits an empty collection of these.
type Player struct {
	Name     string `json:"name"`
	Number   string `json:"number,omitempty"`
	Position string `json:"position,omitempty"`
	TeamName string `json:"team_name,omitempty"`
}
