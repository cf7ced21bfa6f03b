package scoring

import (
	"fmt"
	"sort"
)

// BatchEntry is one claimed result inside a same-match batch.
type BatchEntry struct {
	TeamCode string
	Position int
	Kills    int
}

// ValidateConsistency cross-checks a batch of entries that all claim to come
// from the same match. The warnings are informational: a duplicate position
// does not block either entry from being approved independently.
func ValidateConsistency(entries []BatchEntry, teamCount int) []string {
	var warnings []string

	byPosition := make(map[int][]string)
	maxPosition := 0
	for _, e := range entries {
		byPosition[e.Position] = append(byPosition[e.Position], e.TeamCode)
		if e.Position > maxPosition {
			maxPosition = e.Position
		}
	}

	positions := make([]int, 0, len(byPosition))
	for p := range byPosition {
		positions = append(positions, p)
	}
	sort.Ints(positions)

	for _, p := range positions {
		teams := byPosition[p]
		if len(teams) > 1 {
			warnings = append(warnings, fmt.Sprintf("position %d claimed by %d teams: %v", p, len(teams), teams))
		}
	}

	if teamCount > 0 && maxPosition > teamCount {
		warnings = append(warnings, fmt.Sprintf("maximum claimed position %d exceeds participating team count %d", maxPosition, teamCount))
	}

	return warnings
}
