package team

import "fmt"

// Team is identified by display name only; the schedule payloads carry no
// stable team id.
type Team struct {
	Name      string `json:"name"`
	SourceURL string `json:"source_url"`
}

func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}
