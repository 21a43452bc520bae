package division

import "fmt"

// Division is a named group of teams inside one season.
type Division struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (d Division) Validate() error {
	if d.ID <= 0 {
		return fmt.Errorf("division id must be greater than zero")
	}
	return nil
}
