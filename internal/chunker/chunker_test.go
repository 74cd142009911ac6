package chunker

import (
	"fmt"
	"strings"
	"testing"

	"docrouter/internal/models"
)

func resultWith(bundle *models.RawContentBundle, cls *models.ContentClassification) models.ProcessingResult {
	return models.ProcessingResult{
		FileID:         "docs/sample.txt",
		Bundle:         bundle,
		Classification: cls,
		Status:         models.StatusSuccess,
	}
}

func TestSplitFailedResult(t *testing.T) {
	res := models.ProcessingResult{
		FileID:      "docs/broken.pdf",
		Status:      models.StatusFailed,
		ErrorDetail: "extraction failed",
	}
	if _, err := Split(res, 100); err == nil {
		t.Fatal("expected error for failed result")
	}
}

func TestSplitUnknownStrategy(t *testing.T) {
	res := resultWith(
		&models.RawContentBundle{TextBlocks: []models.TextBlock{{Text: "text"}}},
		&models.ContentClassification{Strategy: models.Strategy("bogus")},
	)
	if _, err := Split(res, 0); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestSplitRecursive(t *testing.T) {
	bundle := &models.RawContentBundle{TextBlocks: []models.TextBlock{{
		Text: strings.Repeat("word ", 400),
		Page: 2,
	}}}
	cls := &models.ContentClassification{
		ContentType: models.TextOnly,
		Strategy:    models.RecursiveSplit,
		ChunkRange:  models.ChunkRange{Min: 600, Max: 1000},
	}

	chunks, err := Split(resultWith(bundle, cls), 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, want several for 2000 chars at size 800", len(chunks))
	}
	for i, c := range chunks {
		if len(c.Content) > 800 {
			t.Errorf("chunk %d is %d chars, above the 800 target", i, len(c.Content))
		}
		if c.ChunkID != i+1 {
			t.Errorf("chunk %d has id %d, want %d", i, c.ChunkID, i+1)
		}
		if c.FileID != "docs/sample.txt" || c.ContentType != models.TextOnly {
			t.Errorf("chunk %d metadata = %q/%q", i, c.FileID, c.ContentType)
		}
		if c.PageNumber != 2 {
			t.Errorf("chunk %d page = %d, want 2", i, c.PageNumber)
		}
	}
}

func TestSplitTablePreserving(t *testing.T) {
	bundle := &models.RawContentBundle{
		TextBlocks: []models.TextBlock{{Text: "Intro paragraph about the data.", Page: 1}},
		Tables: []models.TableGrid{{
			Page:    1,
			Rows:    [][]string{{"name", "value"}, {"alpha", "1"}, {"beta", "2"}},
			NumRows: 3,
			NumCols: 2,
		}},
	}
	cls := &models.ContentClassification{
		ContentType: models.TextTable,
		Strategy:    models.TablePreservingSplit,
		ChunkRange:  models.ChunkRange{Min: 600, Max: 1500},
	}

	chunks, err := Split(resultWith(bundle, cls), 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want text chunk plus one table chunk", len(chunks))
	}

	table := chunks[1].Content
	if !strings.HasPrefix(table, "| name | value |\n| --- | --- |") {
		t.Errorf("table chunk missing markdown header:\n%s", table)
	}
	// A small table stays atomic.
	if !strings.Contains(table, "| alpha | 1 |") || !strings.Contains(table, "| beta | 2 |") {
		t.Errorf("table rows split across chunks:\n%s", table)
	}
}

func TestTableChunksRowBoundary(t *testing.T) {
	rows := [][]string{{"h1", "h2"}}
	for i := 1; i <= 4; i++ {
		pad := strings.Repeat("x", 25)
		rows = append(rows, []string{fmt.Sprintf("row%d", i), pad})
	}
	table := models.TableGrid{Page: 5, Rows: rows, NumRows: 5, NumCols: 2}

	c := &chunkBuilder{fileID: "f", contentType: models.TextTable}
	c.tableChunks(table, 80)

	if len(c.chunks) != 4 {
		t.Fatalf("chunks = %d, want one per oversize row", len(c.chunks))
	}
	header := "| h1 | h2 |\n| --- | --- |"
	for i, chunk := range c.chunks {
		if !strings.HasPrefix(chunk.Content, header) {
			t.Errorf("chunk %d does not repeat the header:\n%s", i, chunk.Content)
		}
		if !strings.Contains(chunk.Content, fmt.Sprintf("row%d", i+1)) {
			t.Errorf("chunk %d missing row%d:\n%s", i, i+1, chunk.Content)
		}
		if chunk.PageNumber != 5 {
			t.Errorf("chunk %d page = %d, want 5", i, chunk.PageNumber)
		}
	}
}

func TestSplitMarkerAligned(t *testing.T) {
	body := strings.TrimSpace(strings.Repeat("alpha beta ", 28))
	text := "# One\n" + body + "\n# Two\n" + body
	bundle := &models.RawContentBundle{TextBlocks: []models.TextBlock{{Text: text, Page: 1}}}
	cls := &models.ContentClassification{
		ContentType: models.StructuredText,
		Strategy:    models.MarkerAlignedSplit,
		ChunkRange:  models.ChunkRange{Min: 200, Max: 400},
	}

	chunks, err := Split(resultWith(bundle, cls), 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want one per section", len(chunks))
	}
	if !strings.HasPrefix(chunks[0].Content, "# One") || !strings.HasPrefix(chunks[1].Content, "# Two") {
		t.Errorf("chunks not aligned to headers: %q / %q",
			firstLine(chunks[0].Content), firstLine(chunks[1].Content))
	}
}

func TestSplitMediaAware(t *testing.T) {
	bundle := &models.RawContentBundle{
		TextBlocks: []models.TextBlock{{Text: "Caption text near the figure.", Page: 1}},
		Images:     []models.ImageRef{{Page: 2, Ref: "word/media/image1.png"}},
	}
	cls := &models.ContentClassification{
		ContentType: models.MixedContent,
		Strategy:    models.MediaAwareSplit,
		ChunkRange:  models.ChunkRange{Min: 400, Max: 1200},
	}

	chunks, err := Split(resultWith(bundle, cls), 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want caption plus image reference", len(chunks))
	}
	last := chunks[len(chunks)-1]
	if last.Content != "[page 2] image: word/media/image1.png" {
		t.Errorf("image chunk = %q", last.Content)
	}
	if last.PageNumber != 2 {
		t.Errorf("image chunk page = %d, want 2", last.PageNumber)
	}
}

func TestAlignedUnits(t *testing.T) {
	text := "# A\nshort body\n# B\nanother body"

	if got := alignedUnits(text, 100); len(got) != 1 {
		t.Errorf("units = %d, want 1 (small sections merge)", len(got))
	}
	got := alignedUnits(text, 10)
	if len(got) != 2 {
		t.Fatalf("units = %d, want 2 (no room to merge)", len(got))
	}
	if !strings.HasPrefix(got[0], "# A") || !strings.HasPrefix(got[1], "# B") {
		t.Errorf("unit boundaries wrong: %q / %q", got[0], got[1])
	}
}

func TestChunkContent(t *testing.T) {
	if got := chunkContent("hello world", 50, 10); len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("short content = %v, want single chunk", got)
	}

	content := strings.TrimSpace(strings.Repeat("lorem ipsum dolor ", 20))
	chunks := chunkContent(content, 60, 10)
	if len(chunks) < 5 {
		t.Fatalf("chunks = %d, want several for %d chars at size 60", len(chunks), len(content))
	}
	for i, c := range chunks {
		if len(c) > 60 {
			t.Errorf("chunk %d is %d chars, above 60", i, len(c))
		}
		if c != strings.TrimSpace(c) {
			t.Errorf("chunk %d not trimmed: %q", i, c)
		}
	}

	if got := chunkContent("   ", 60, 0); got != nil {
		t.Errorf("blank content = %v, want nil", got)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
