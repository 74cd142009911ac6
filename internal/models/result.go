package models

// Status is the terminal state of routing one file.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// ProcessingResult is the uniform per-file record emitted by the router.
// Classification is nil when Status is StatusFailed.
type ProcessingResult struct {
	FileID         string
	Bundle         *RawContentBundle
	Classification *ContentClassification
	Status         Status
	FallbackUsed   bool
	ErrorDetail    string
}

// Chunk is one retrieval-ready piece of content with routing metadata.
type Chunk struct {
	Content     string
	FileID      string
	ContentType ContentType
	PageNumber  int
	ChunkID     int
}
