package game

import "fmt"

// Game references its teams by name. The references are weak: nothing
// guarantees a matching team row in a persisted store.
type Game struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Location string `json:"location"`
}

func (g Game) Validate() error {
	if g.HomeTeam == "" && g.AwayTeam == "" {
		return fmt.Errorf("game needs at least one team name")
	}
	return nil
}
