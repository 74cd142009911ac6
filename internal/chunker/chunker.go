// Package chunker turns routed processing results into retrieval-ready
// chunks, honoring the analyzer's chunk size range and strategy tag.
package chunker

import (
	"fmt"
	"strings"

	"docrouter/internal/models"

	"github.com/tmc/langchaingo/textsplitter"
)

// Split produces metadata-tagged chunks for one successfully routed file.
func Split(result models.ProcessingResult, overlap int) ([]models.Chunk, error) {
	if result.Status == models.StatusFailed || result.Classification == nil {
		return nil, fmt.Errorf("cannot chunk %s: routing failed (%s)", result.FileID, result.ErrorDetail)
	}

	c := &chunkBuilder{
		fileID:      result.FileID,
		contentType: result.Classification.ContentType,
	}
	cls := result.Classification
	bundle := result.Bundle

	switch cls.Strategy {
	case models.RecursiveSplit:
		if err := c.recursiveBlocks(bundle.TextBlocks, midpoint(cls.ChunkRange), overlap); err != nil {
			return nil, err
		}

	case models.MediaAwareSplit:
		// Smaller chunks keep image-adjacent text together.
		size := midpoint(cls.ChunkRange) * 3 / 4
		if size < models.MinChunkSize {
			size = models.MinChunkSize
		}
		if err := c.recursiveBlocks(bundle.TextBlocks, size, overlap); err != nil {
			return nil, err
		}
		for _, img := range bundle.Images {
			c.add(fmt.Sprintf("[page %d] image: %s", img.Page, img.Ref), img.Page)
		}

	case models.TablePreservingSplit:
		if err := c.recursiveBlocks(bundle.TextBlocks, midpoint(cls.ChunkRange), overlap); err != nil {
			return nil, err
		}
		for _, table := range bundle.Tables {
			c.tableChunks(table, cls.ChunkRange.Max)
		}
		for _, img := range bundle.Images {
			c.add(fmt.Sprintf("[page %d] image: %s", img.Page, img.Ref), img.Page)
		}

	case models.MarkerAlignedSplit:
		c.markerAligned(bundle.TextBlocks, cls.ChunkRange, overlap)

	default:
		return nil, fmt.Errorf("unknown strategy %q", cls.Strategy)
	}

	return c.chunks, nil
}

type chunkBuilder struct {
	fileID      string
	contentType models.ContentType
	chunks      []models.Chunk
}

func (c *chunkBuilder) add(content string, page int) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	c.chunks = append(c.chunks, models.Chunk{
		Content:     content,
		FileID:      c.fileID,
		ContentType: c.contentType,
		PageNumber:  page,
		ChunkID:     len(c.chunks) + 1,
	})
}

// recursiveBlocks splits each text block with the recursive character
// splitter, preserving per-block page numbers.
func (c *chunkBuilder) recursiveBlocks(blocks []models.TextBlock, size, overlap int) error {
	if overlap >= size {
		overlap = size / 4
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", " "}),
	)
	for _, block := range blocks {
		pieces, err := splitter.SplitText(block.Text)
		if err != nil {
			return fmt.Errorf("split text block (page %d): %w", block.Page, err)
		}
		for _, p := range pieces {
			c.add(p, block.Page)
		}
	}
	return nil
}

// markerAligned groups lines into units at structural marker boundaries,
// merges small units up to the range max, and falls back to plain
// character chunking for oversize units.
func (c *chunkBuilder) markerAligned(blocks []models.TextBlock, r models.ChunkRange, overlap int) {
	for _, block := range blocks {
		for _, unit := range alignedUnits(block.Text, r.Max) {
			if len(unit) <= r.Max {
				c.add(unit, block.Page)
				continue
			}
			for _, piece := range chunkContent(unit, r.Max, overlap) {
				c.add(piece, block.Page)
			}
		}
	}
}

// alignedUnits splits text at marker lines (headers, list items), then
// merges consecutive units while they fit within maxSize.
func alignedUnits(text string, maxSize int) []string {
	lines := strings.Split(text, "\n")
	var units []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			units = append(units, s)
		}
		cur.Reset()
	}

	for _, line := range lines {
		if isBoundaryLine(line) && cur.Len() > 0 {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	flush()

	// Merge small neighbors so tiny sections do not become noise chunks.
	var merged []string
	for _, u := range units {
		if n := len(merged); n > 0 && len(merged[n-1])+len(u)+1 <= maxSize {
			merged[n-1] = merged[n-1] + "\n" + u
		} else {
			merged = append(merged, u)
		}
	}
	return merged
}

// isBoundaryLine mirrors the analyzer's structural markers for the cases
// that make good chunk boundaries: headers and section starts.
func isBoundaryLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "#") {
		return true
	}
	if len(trimmed) >= 4 && trimmed == strings.ToUpper(trimmed) && strings.IndexFunc(trimmed, isLowerAlpha) < 0 && hasAlpha(trimmed) {
		return true
	}
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	if i := strings.Index(trimmed, ". "); i > 0 && i <= 3 && isDigits(trimmed[:i]) {
		return true
	}
	return false
}

func isLowerAlpha(r rune) bool { return r >= 'a' && r <= 'z' }

func hasAlpha(s string) bool {
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func midpoint(r models.ChunkRange) int {
	return (r.Min + r.Max) / 2
}

// chunkContent splits content into chunks of at most maxChars with the
// given overlap, preferring to break at a space, newline, or period near
// the chunk end.
func chunkContent(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}
	content = strings.TrimSpace(content)
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}
	if contentLen <= maxChars {
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < contentLen {
		end := min(start+maxChars, contentLen)

		if end < contentLen {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
		}

		if chunk := strings.TrimSpace(content[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		start += maxChars - overlapChars
		if start >= contentLen {
			break
		}
	}
	return chunks
}
