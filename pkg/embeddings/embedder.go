// Package embeddings
package embeddings

import "context"

// Embedder produces vector embeddings for images and text in a shared
// vector space, so a text query can be ranked against image embeddings.
type Embedder interface {
	// EmbedText converts text into a vector embedding.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedImage converts raw encoded image bytes into a vector embedding.
	EmbedImage(ctx context.Context, data []byte) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
