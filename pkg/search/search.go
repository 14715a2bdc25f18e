// Package search provides shared types and logic for text-to-image
// similarity search over the loaded library. It is used by both the REST
// API endpoint and the one-shot CLI command.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lightboxd/lightbox/pkg/embeddings"
	"github.com/lightboxd/lightbox/pkg/vector"
)

// DefaultTopK is the result count used when the caller does not pick one.
const DefaultTopK = 5

// Input represents the arguments of a search request.
type Input struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// Result is a single matched image.
type Result struct {
	Path  string  `json:"path"`
	Score float32 `json:"score"`
}

// Output represents the outcome of a search operation.
type Output struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}

// Search embeds the query text and ranks the stored image embeddings by
// cosine similarity, returning at most topK matches.
func Search(
	ctx context.Context,
	query string,
	topK int,
	embedder embeddings.Embedder,
	vectorDriver vector.Driver,
	logger *slog.Logger,
) (*Output, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Debug("search request", "query", query, "topK", topK)

	queryEmbedding, err := embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := vectorDriver.Query(ctx, queryEmbedding, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		results = append(results, Result{
			Path:  match.ID,
			Score: match.Score,
		})
	}

	return &Output{
		Query:   query,
		Results: results,
		Count:   len(results),
	}, nil
}
