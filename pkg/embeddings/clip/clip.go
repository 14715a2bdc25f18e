// Package clip implements pkg/embeddings' Embedder against an HTTP CLIP
// inference server. The server is expected to expose two JSON endpoints:
//
//	POST /embed/text   {"model": "...", "texts": ["..."]}
//	POST /embed/image  {"model": "...", "images": ["<base64>"]}
//
// both responding with {"embeddings": [[...]]}. Any service hosting a
// CLIP-family model behind this shape works; text and image vectors share
// one embedding space.
package clip

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lightboxd/lightbox/pkg/embeddings"
	"github.com/lightboxd/lightbox/pkg/vector"
)

const (
	// DefaultModel is the default CLIP model used for embeddings.
	DefaultModel = "ViT-B-32"

	// DefaultBaseURL is the default inference server URL.
	DefaultBaseURL = "http://localhost:8765"
)

// Embedder wraps a CLIP inference server's embedding API.
type Embedder struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// EmbedderConfig holds configuration for the CLIP embedder.
type EmbedderConfig struct {
	// BaseURL is the inference server URL (e.g. "http://localhost:8765").
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the CLIP model to use (e.g. "ViT-B-32", "ViT-L-14").
	// Defaults to DefaultModel if empty.
	Model string
}

// textRequest is the request body for the text embedding endpoint.
type textRequest struct {
	Model string   `json:"model"`
	Texts []string `json:"texts"`
}

// imageRequest is the request body for the image embedding endpoint.
// Images are base64-encoded file contents.
type imageRequest struct {
	Model  string   `json:"model"`
	Images []string `json:"images"`
}

// embedResponse is the response from both embedding endpoints.
type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewEmbedder creates a new embedder backed by a CLIP inference server.
func NewEmbedder(cfg EmbedderConfig) (*Embedder, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Embedder{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// EmbedText converts text into a vector embedding.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, "/embed/text", textRequest{
		Model: e.model,
		Texts: []string{text},
	})
}

// EmbedImage converts raw encoded image bytes into a vector embedding.
func (e *Embedder) EmbedImage(ctx context.Context, data []byte) ([]float32, error) {
	return e.embed(ctx, "/embed/image", imageRequest{
		Model:  e.model,
		Images: []string{base64.StdEncoding.EncodeToString(data)},
	})
}

func (e *Embedder) embed(ctx context.Context, path string, reqBody any) ([]float32, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", vector.ErrEmbedding, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", vector.ErrEmbedding, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", vector.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: embedding server returned status %d: %s", vector.ErrEmbedding, resp.StatusCode, string(body))
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", vector.ErrEmbedding, err)
	}

	if len(embedResp.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", vector.ErrEmbedding)
	}

	return embedResp.Embeddings[0], nil
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// Ensure Embedder implements embeddings.Embedder
var _ embeddings.Embedder = (*Embedder)(nil)
