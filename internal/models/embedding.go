package models

// ChunkEmbedding pairs a chunk with its embedding vector for storage.
type ChunkEmbedding struct {
	Content        string
	Embedding      []float32
	SourceFilename string
	ContentType    ContentType
	PageNumber     int
	ChunkID        int
}

// PromptResponse is the answer-generation result returned to the caller.
type PromptResponse struct {
	Query   string
	Source  string
	Content string
}
