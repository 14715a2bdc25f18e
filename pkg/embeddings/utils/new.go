// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"github.com/lightboxd/lightbox/pkg/embeddings"
	"github.com/lightboxd/lightbox/pkg/embeddings/clip"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "clip":
		return clip.NewEmbedder(clip.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
