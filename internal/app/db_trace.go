package app

import "strings"

const maxTracedQueryLength = 512

// formatDBQueryForTrace flattens a statement to one line without `--`
// comments so spans of the same query group together.
func formatDBQueryForTrace(query string) string {
	var b strings.Builder
	for _, line := range strings.Split(query, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		for _, token := range strings.Fields(line) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(token)
		}
		if b.Len() > maxTracedQueryLength {
			break
		}
	}

	out := b.String()
	if len(out) <= maxTracedQueryLength {
		return out
	}
	return out[:maxTracedQueryLength] + "..."
}
