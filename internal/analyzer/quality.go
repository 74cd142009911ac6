package analyzer

import (
	"strings"
	"unicode"

	"docrouter/internal/models"
)

// Quality score weights. These are tuning constants, not contracts: the
// binding properties are determinism and monotonicity (richer structure
// never lowers the score, more noise never raises it).
const (
	weightDensity    = 0.45
	weightRegularity = 0.30
	weightCleanness  = 0.25

	markerBonus     = 0.05
	colocationBonus = 0.05

	// Blocks shorter than this count as noise (fragments, boilerplate).
	minBlockLength = 20
)

// qualityScore computes the composite score in [0,1] from content density,
// table regularity, and text cleanliness.
func qualityScore(bundle *models.RawContentBundle, markers markerStats) float64 {
	density := blockDensity(bundle.TextBlocks)
	clean := textCleanliness(bundle.TextBlocks)

	var score float64
	if len(bundle.Tables) > 0 {
		regularity := tableRegularity(bundle.Tables)
		score = weightDensity*density + weightRegularity*regularity + weightCleanness*clean
	} else {
		// No tables: regularity is not a signal, fold its weight into
		// density so table-less text is not penalized.
		score = (weightDensity+weightRegularity)*density + weightCleanness*clean
	}

	if markers.Count >= 2 {
		score += markerBonus
	}
	if len(bundle.Images) > 0 && len(bundle.TextBlocks) > 0 {
		score += colocationBonus
	}

	return clamp01(score)
}

// blockDensity is the ratio of non-empty blocks to total blocks.
func blockDensity(blocks []models.TextBlock) float64 {
	if len(blocks) == 0 {
		return 0
	}
	nonEmpty := 0
	for _, b := range blocks {
		if strings.TrimSpace(b.Text) != "" {
			nonEmpty++
		}
	}
	return float64(nonEmpty) / float64(len(blocks))
}

// tableRegularity is the ratio of well-formed tables to total tables. A
// table is well-formed when it has at least two rows and every row spans
// the full column count.
func tableRegularity(tables []models.TableGrid) float64 {
	if len(tables) == 0 {
		return 0
	}
	wellFormed := 0
	for _, t := range tables {
		if isWellFormed(t) {
			wellFormed++
		}
	}
	return float64(wellFormed) / float64(len(tables))
}

func isWellFormed(t models.TableGrid) bool {
	if t.NumRows < 2 || t.NumCols < 1 {
		return false
	}
	for _, row := range t.Rows {
		if len(row) != t.NumCols {
			return false
		}
	}
	return true
}

// textCleanliness combines the printable-character ratio with a penalty
// for fragmentary blocks.
func textCleanliness(blocks []models.TextBlock) float64 {
	if len(blocks) == 0 {
		return 0
	}
	short := 0
	var sb strings.Builder
	for _, b := range blocks {
		if len(strings.TrimSpace(b.Text)) < minBlockLength {
			short++
		}
		sb.WriteString(b.Text)
		sb.WriteByte('\n')
	}
	shortRatio := float64(short) / float64(len(blocks))
	return printableRatio(sb.String()) * (1 - 0.5*shortRatio)
}

// printableRatio is the share of printable characters in text. Private-use
// runes, the replacement character, and non-whitespace control characters
// indicate garbled extraction.
func printableRatio(text string) float64 {
	if len(text) == 0 {
		return 1.0
	}
	total, printable := 0, 0
	for _, r := range text {
		total++
		if isGarbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	return float64(printable) / float64(total)
}

func isGarbageRune(r rune) bool {
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	if r == 0xFFFD {
		return true
	}
	if r < 0x0020 && r != '\n' && r != '\r' && r != '\t' {
		return true
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
