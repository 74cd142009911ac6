package analyzer

import (
	"reflect"
	"strings"
	"testing"

	"docrouter/internal/models"
)

func textBundle(blocks ...string) *models.RawContentBundle {
	b := &models.RawContentBundle{}
	for i, t := range blocks {
		b.TextBlocks = append(b.TextBlocks, models.TextBlock{Text: t, Page: 1, Offset: i})
	}
	return b
}

func wellFormedTable(page int) models.TableGrid {
	return models.TableGrid{
		Page:    page,
		Rows:    [][]string{{"name", "value"}, {"a", "1"}, {"b", "2"}},
		NumRows: 3,
		NumCols: 2,
	}
}

func TestAnalyzeEmptyBundle(t *testing.T) {
	if _, err := Analyze(&models.RawContentBundle{}); err == nil {
		t.Fatal("expected error for bundle with no content and no format errors")
	}

	b := &models.RawContentBundle{}
	b.AddError(models.ChannelText, "nothing extracted")
	if _, err := Analyze(b); err == nil {
		t.Fatal("expected error for bundle with no usable content")
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	tests := []struct {
		name      string
		hasTables bool
		hasImages bool
		markers   int
		want      models.ContentType
	}{
		{"tables and images dominate", true, true, 5, models.TextTableImage},
		{"tables beat markers", true, false, 5, models.TextTable},
		{"markers alone", false, false, 2, models.StructuredText},
		{"images with a marker", false, true, 1, models.MixedContent},
		{"images without markers", false, true, 0, models.TextOnly},
		{"plain text", false, false, 0, models.TextOnly},
		{"one marker is not structured", false, false, 1, models.TextOnly},
	}

	for _, tt := range tests {
		if got := classify(tt.hasTables, tt.hasImages, tt.markers); got != tt.want {
			t.Errorf("%s: classify(%v, %v, %d) = %q, want %q",
				tt.name, tt.hasTables, tt.hasImages, tt.markers, got, tt.want)
		}
	}
}

func TestAnalyzeTextTableImage(t *testing.T) {
	b := textBundle("Some introduction text about the data below.")
	b.Tables = append(b.Tables, wellFormedTable(1))
	b.Images = append(b.Images, models.ImageRef{Page: 1, Ref: "img1.png"})

	cls, err := Analyze(b)
	if err != nil {
		t.Fatal(err)
	}
	if cls.ContentType != models.TextTableImage {
		t.Fatalf("content type = %q, want %q", cls.ContentType, models.TextTableImage)
	}
	if cls.Strategy != models.TablePreservingSplit {
		t.Fatalf("strategy = %q, want %q", cls.Strategy, models.TablePreservingSplit)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	b := textBundle(
		"# Heading One",
		"A paragraph of sufficient length to not be counted as noise.",
		"- first item\n- second item",
	)
	b.Tables = append(b.Tables, wellFormedTable(1))

	first, err := Analyze(b)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := Analyze(b)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("analysis not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestChunkRangeClamped(t *testing.T) {
	bundles := []*models.RawContentBundle{
		textBundle("short"),
		textBundle("# A\nbody\n# B\nbody"),
		textBundle(strings.Repeat("long paragraph text ", 200)),
	}
	bundles[0].Tables = append(bundles[0].Tables, models.TableGrid{
		Rows: [][]string{{"a"}, {"b", "c"}}, NumRows: 2, NumCols: 2, // ragged
	})

	for i, b := range bundles {
		cls, err := Analyze(b)
		if err != nil {
			t.Fatal(err)
		}
		r := cls.ChunkRange
		if r.Min > r.Max {
			t.Errorf("bundle %d: min %d > max %d", i, r.Min, r.Max)
		}
		if r.Min < models.MinChunkSize || r.Max > models.MaxChunkSize {
			t.Errorf("bundle %d: range [%d, %d] outside [%d, %d]",
				i, r.Min, r.Max, models.MinChunkSize, models.MaxChunkSize)
		}
		if cls.QualityScore < 0 || cls.QualityScore > 1 {
			t.Errorf("bundle %d: quality %f outside [0, 1]", i, cls.QualityScore)
		}
	}
}

func TestQualityMonotonicity(t *testing.T) {
	// A regular table must not score below the same bundle with the
	// table malformed.
	clean := textBundle("A paragraph of sufficient length to not be counted as noise.")
	clean.Tables = append(clean.Tables, wellFormedTable(1))

	ragged := textBundle("A paragraph of sufficient length to not be counted as noise.")
	ragged.Tables = append(ragged.Tables, models.TableGrid{
		Rows: [][]string{{"a", "b"}, {"c"}}, NumRows: 2, NumCols: 2,
	})

	cleanCls, err := Analyze(clean)
	if err != nil {
		t.Fatal(err)
	}
	raggedCls, err := Analyze(ragged)
	if err != nil {
		t.Fatal(err)
	}
	if cleanCls.QualityScore < raggedCls.QualityScore {
		t.Errorf("well-formed table scored %f, below malformed %f",
			cleanCls.QualityScore, raggedCls.QualityScore)
	}

	// Garbled text must not outscore clean text.
	garbled := textBundle("abc�def more garbage ")
	plain := textBundle("This is a perfectly ordinary paragraph with readable words.")

	garbledCls, err := Analyze(garbled)
	if err != nil {
		t.Fatal(err)
	}
	plainCls, err := Analyze(plain)
	if err != nil {
		t.Fatal(err)
	}
	if garbledCls.QualityScore > plainCls.QualityScore {
		t.Errorf("garbled text scored %f, above clean %f",
			garbledCls.QualityScore, plainCls.QualityScore)
	}
}

func TestStrategyTableTotal(t *testing.T) {
	for _, ct := range models.ContentTypes() {
		s, err := StrategyFor(ct)
		if err != nil {
			t.Errorf("no strategy for content type %q", ct)
		}
		if s == "" {
			t.Errorf("empty strategy for content type %q", ct)
		}
	}
}

func TestStructuredChunkRangeAlignsToUnits(t *testing.T) {
	// Sections of ~400 characters should pull the recommended minimum
	// toward the unit size.
	section := strings.Repeat("word ", 80)
	text := "# One\n" + section + "\n# Two\n" + section + "\n# Three\n" + section
	b := textBundle(text)

	cls, err := Analyze(b)
	if err != nil {
		t.Fatal(err)
	}
	if cls.ContentType != models.StructuredText {
		t.Fatalf("content type = %q, want %q", cls.ContentType, models.StructuredText)
	}
	if cls.ChunkRange.Min < 300 || cls.ChunkRange.Min > 600 {
		t.Errorf("min %d not near the ~400 char unit size", cls.ChunkRange.Min)
	}
}

func TestScanMarkers(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"# Header\nplain line\n## Another", 2},
		{"- one\n- two\n- three", 3},
		{"1. First point\n2. Second point", 2},
		{"CHAPTER 1\nsome prose", 1},
		{"INTRODUCTION AND SCOPE\nbody text", 1},
		{"just ordinary prose with nothing special", 0},
	}
	for _, tt := range tests {
		if got := scanMarkers(tt.text).Count; got != tt.want {
			t.Errorf("scanMarkers(%q).Count = %d, want %d", tt.text, got, tt.want)
		}
	}
}
