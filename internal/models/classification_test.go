package models

import "testing"

func TestChunkRangeClamp(t *testing.T) {
	tests := []struct {
		name string
		in   ChunkRange
		want ChunkRange
	}{
		{"inside range", ChunkRange{Min: 600, Max: 1500}, ChunkRange{Min: 600, Max: 1500}},
		{"below floor", ChunkRange{Min: 50, Max: 300}, ChunkRange{Min: MinChunkSize, Max: 300}},
		{"above ceiling", ChunkRange{Min: 600, Max: 5000}, ChunkRange{Min: 600, Max: MaxChunkSize}},
		{"tiny unit collapses to floor", ChunkRange{Min: 8, Max: 24}, ChunkRange{Min: MinChunkSize, Max: MinChunkSize}},
		{"inverted", ChunkRange{Min: 1500, Max: 600}, ChunkRange{Min: 1500, Max: 1500}},
	}
	for _, tt := range tests {
		if got := tt.in.Clamp(); got != tt.want {
			t.Errorf("%s: Clamp(%+v) = %+v, want %+v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestContentTypesCoverAll(t *testing.T) {
	seen := map[ContentType]bool{}
	for _, ct := range ContentTypes() {
		if seen[ct] {
			t.Errorf("duplicate content type %q", ct)
		}
		seen[ct] = true
	}
	for _, ct := range []ContentType{TextOnly, TextTable, TextTableImage, StructuredText, MixedContent} {
		if !seen[ct] {
			t.Errorf("content type %q missing from ContentTypes()", ct)
		}
	}
}

func TestBundleHasContent(t *testing.T) {
	if (&RawContentBundle{}).HasContent() {
		t.Error("empty bundle reports content")
	}
	b := &RawContentBundle{TextBlocks: []TextBlock{{Text: "x"}}}
	if !b.HasContent() {
		t.Error("bundle with a text block reports no content")
	}
	tb := &RawContentBundle{Tables: []TableGrid{{NumRows: 1}}}
	if !tb.HasContent() {
		t.Error("bundle with a table reports no content")
	}
}
