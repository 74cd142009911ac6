package models

const (
	ContextSeparator = "\n---\n"
	ThinkTag         = `(?s)<think>.*?</think>`

	SystemPrompt = "You are a helpful assistant. Use the provided context to answer the query."
)
