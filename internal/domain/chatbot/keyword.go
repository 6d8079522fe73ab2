package chatbot

import (
	"fmt"
	"strings"
)

const (
	speciesWeight = 2
	countryWeight = 1
)

// matchKeyword scans rows in order and returns the row with the highest
// weight. Ties keep the first row encountered.
func matchKeyword(question string, rows []ReferenceRow) (ReferenceRow, bool) {
	lowered := strings.ToLower(question)
	var (
		best       ReferenceRow
		bestWeight int
	)
	for _, row := range rows {
		weight := 0
		if name := strings.ToLower(row.Species); name != "" && strings.Contains(lowered, name) {
			weight = speciesWeight
		} else if country := strings.ToLower(row.Country); country != "" && strings.Contains(lowered, country) {
			weight = countryWeight
		}
		if weight > bestWeight {
			best = row
			bestWeight = weight
		}
	}
	return best, bestWeight > 0
}

// formatAnswer keeps the separator after the period even when notes is empty.
func formatAnswer(row ReferenceRow) string {
	return fmt.Sprintf("%s blooms from %s to %s. %s", row.Species, row.BloomStart, row.BloomEnd, row.Notes)
}

// estimateBloomWindow returns the approximate bloom season for a point and
// year range. It is a fixed estimate and never calls a provider.
func estimateBloomWindow(_, _ float64, _, _ int) string {
	return "March-April"
}
