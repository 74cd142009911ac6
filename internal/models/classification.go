package models

// ContentType is the closed-set category describing a file's structural
// makeup. Exactly one is assigned per bundle.
type ContentType string

const (
	TextOnly       ContentType = "text_only"
	TextTable      ContentType = "text_table"
	TextTableImage ContentType = "text_table_image"
	StructuredText ContentType = "structured_text"
	MixedContent   ContentType = "mixed_content"
)

// ContentTypes lists every content type, in classification priority order.
func ContentTypes() []ContentType {
	return []ContentType{TextTableImage, TextTable, StructuredText, MixedContent, TextOnly}
}

// Strategy selects the downstream chunk-splitting treatment.
type Strategy string

const (
	RecursiveSplit       Strategy = "recursive-split"
	TablePreservingSplit Strategy = "table-preserving-split"
	MarkerAlignedSplit   Strategy = "marker-aligned-split"
	MediaAwareSplit      Strategy = "media-aware-split"
)

// Chunk size bounds in characters. Every recommendation is clamped here.
const (
	MinChunkSize = 200
	MaxChunkSize = 2000
)

// ChunkRange is the recommended chunk size window for a bundle.
type ChunkRange struct {
	Min int
	Max int
}

// Clamp forces the range into [MinChunkSize, MaxChunkSize] with Min <= Max.
func (r ChunkRange) Clamp() ChunkRange {
	if r.Min < MinChunkSize {
		r.Min = MinChunkSize
	}
	if r.Max > MaxChunkSize {
		r.Max = MaxChunkSize
	}
	if r.Min > MaxChunkSize {
		r.Min = MaxChunkSize
	}
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}

// ContentClassification is the analyzer's verdict for one bundle.
type ContentClassification struct {
	ContentType  ContentType
	QualityScore float64
	ChunkRange   ChunkRange
	Strategy     Strategy
	MarkerCount  int
	TableCount   int
	ImageCount   int
}
