package analyzer

import (
	"regexp"
	"strings"
)

// Structural marker patterns: markdown headers, ALL-CAPS headings, numbered
// sections, named sections, bullet and numbered/lettered list items.
var markerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^#{1,6}\s+\S`),
	regexp.MustCompile(`^[A-Z][A-Z\s]{3,}$`),
	regexp.MustCompile(`^\d+\.\s+[A-Z]`),
	regexp.MustCompile(`(?i)^(CHAPTER|SECTION|PART)\s+\d+`),
	regexp.MustCompile(`^\s*[-*+]\s+\S`),
	regexp.MustCompile(`^\s*\d+\.\s+\S`),
	regexp.MustCompile(`^\s*[a-z]\)\s+\S`),
}

// markerStats summarizes the structural markers found in a text.
type markerStats struct {
	Count    int
	UnitSize int // mean characters between consecutive marker lines
}

// scanMarkers counts marker lines and measures the mean structural unit
// size (text between one marker line and the next).
func scanMarkers(text string) markerStats {
	if strings.TrimSpace(text) == "" {
		return markerStats{}
	}

	lines := strings.Split(text, "\n")
	var markerLines []int
	offset := 0
	offsets := make([]int, len(lines))
	for i, line := range lines {
		offsets[i] = offset
		offset += len(line) + 1
		if isMarkerLine(line) {
			markerLines = append(markerLines, i)
		}
	}

	stats := markerStats{Count: len(markerLines)}
	if len(markerLines) == 0 {
		return stats
	}

	// Unit size: characters from each marker line to the next marker line
	// (or end of text for the last one).
	total := 0
	for i, li := range markerLines {
		start := offsets[li]
		end := len(text)
		if i+1 < len(markerLines) {
			end = offsets[markerLines[i+1]]
		}
		total += end - start
	}
	stats.UnitSize = total / len(markerLines)
	return stats
}

func isMarkerLine(line string) bool {
	trimmed := strings.TrimRight(line, " \t\r")
	if strings.TrimSpace(trimmed) == "" {
		return false
	}
	for _, pat := range markerPatterns {
		if pat.MatchString(trimmed) {
			return true
		}
	}
	return false
}
