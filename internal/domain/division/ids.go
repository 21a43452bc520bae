package division

import (
	"strconv"
	"strings"
)

// JoinIDs renders division ids as the comma separated filter value the stats
// API expects, preserving source order.
func JoinIDs(items []Division) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		parts = append(parts, strconv.FormatInt(item.ID, 10))
	}
	return strings.Join(parts, ",")
}
