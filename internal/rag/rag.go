package rag

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"docrouter/internal/chromemdb"
	"docrouter/internal/config"
	"docrouter/internal/llmservice"
	"docrouter/internal/models"

	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

type RAG struct {
	vdb      *chromemdb.VectorDBManager
	embedder *embeddings.EmbedderImpl
	cfg      *config.Config
}

func NewRAG(vdb *chromemdb.VectorDBManager, embedder *embeddings.EmbedderImpl, cfg *config.Config) *RAG {
	return &RAG{vdb: vdb, embedder: embedder, cfg: cfg}
}

// Query retrieves the closest chunks and streams an answer grounded in
// them. Source attribution comes from the routing metadata stored with
// each chunk.
func (r *RAG) Query(ctx context.Context, query string) (*models.PromptResponse, error) {
	queryEmbedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.vdb.SearchWithQueryOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       r.cfg.RAG.TopK,
	})
	if err != nil {
		return nil, err
	}

	var contextText strings.Builder
	var sources []string
	seen := map[string]bool{}
	for _, res := range results {
		contextText.WriteString(res.Content)
		contextText.WriteString(models.ContextSeparator)
		src := res.Metadata["file_id"]
		if src != "" && !seen[src] {
			seen[src] = true
			sources = append(sources, fmt.Sprintf("%s (%s, page %s)", src, res.Metadata["content_type"], res.Metadata["page"]))
		}
	}

	var answer string
	if r.cfg.InferenceLLM.Stream {
		answer, err = r.streamCompletion(ctx, contextText.String(), query)
	} else {
		answer, err = r.generateCompletion(ctx, contextText.String(), query)
	}
	if err != nil {
		return nil, err
	}

	return &models.PromptResponse{
		Query:   query,
		Source:  strings.Join(sources, "\n"),
		Content: stripThink(answer),
	}, nil
}

var thinkRE = regexp.MustCompile(models.ThinkTag)

// stripThink removes reasoning blocks that local models emit before the
// answer.
func stripThink(answer string) string {
	return strings.TrimSpace(thinkRE.ReplaceAllString(answer, ""))
}

// generateCompletion asks the inference LLM for a single non-streamed
// response.
func (r *RAG) generateCompletion(ctx context.Context, contextText, query string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, models.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf("Context:\n%s\nQuery: %s", contextText, query)),
	}
	resp, err := llmservice.GenerateContent(ctx, &r.cfg.InferenceLLM, nil, messages)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	return resp.Choices[0].Content, nil
}

// streamCompletion calls the OpenRouter-compatible chat endpoint with
// streaming enabled and accumulates the deltas.
func (r *RAG) streamCompletion(ctx context.Context, contextText, query string) (string, error) {
	payload := struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Stream bool `json:"stream"`
	}{
		Model: r.cfg.InferenceLLM.Model,
		Messages: []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}{
			{Role: "system", Content: models.SystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Context:\n%s\nQuery: %s", contextText, query)},
		},
		Stream: true,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.cfg.InferenceLLM.BaseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Authorization", r.cfg.InferenceLLM.Key)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("request failed: %d, %s", resp.StatusCode, string(body))
	}

	var response strings.Builder
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		if line == "data: [DONE]" {
			break
		}

		if strings.HasPrefix(line, "data: ") {
			data := strings.TrimPrefix(line, "data: ")
			var chunk struct {
				Choices []struct {
					Delta struct {
						Content string `json:"content"`
					} `json:"delta"`
				} `json:"choices"`
			}
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				response.WriteString(chunk.Choices[0].Delta.Content)
			}
		}
	}

	return response.String(), nil
}
