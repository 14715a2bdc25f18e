// Package memory provides an exact, brute-force in-memory vector driver.
// Every query scans all stored embeddings and ranks them by cosine
// similarity. For the session-sized image sets lightbox works with this is
// both simpler and faster than maintaining an index.
package memory

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/lightboxd/lightbox/pkg/vector"
)

// Driver implements vector.Driver with a map and a linear scan.
type Driver struct {
	mu     sync.RWMutex
	docs   map[string]vector.Document
	logger *slog.Logger
}

// NewDriver creates an empty in-memory vector driver.
func NewDriver(logger *slog.Logger) *Driver {
	return &Driver{
		docs:   make(map[string]vector.Document),
		logger: logger,
	}
}

// Add stores documents with their embeddings, replacing any existing
// documents with the same ID.
func (d *Driver) Add(_ context.Context, docs []vector.Document) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, doc := range docs {
		d.docs[doc.ID] = doc
	}

	d.logger.Debug("added documents to memory driver", "count", len(docs))
	return nil
}

// Query ranks every stored document by cosine similarity to the given
// embedding and returns the topK best, highest score first. Ties are
// broken arbitrarily.
func (d *Driver) Query(_ context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	results := make([]vector.QueryResult, 0, len(d.docs))
	for _, doc := range d.docs {
		if len(doc.Embedding) != len(embedding) {
			return nil, vector.ErrDimensionMismatch
		}
		results = append(results, vector.QueryResult{
			Document: doc,
			Score:    cosine(embedding, doc.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	d.logger.Debug("queried memory driver", "results", len(results))
	return results, nil
}

// Get retrieves documents by their IDs. Unknown IDs are skipped.
func (d *Driver) Get(_ context.Context, ids []string) ([]vector.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	docs := make([]vector.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := d.docs[id]; ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// Delete removes documents by their IDs.
func (d *Driver) Delete(_ context.Context, ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range ids {
		delete(d.docs, id)
	}
	return nil
}

// Count reports the number of stored documents.
func (d *Driver) Count(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.docs), nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.docs = make(map[string]vector.Document)
	return nil
}

// cosine computes the cosine similarity of two equal-length vectors.
// Zero vectors score 0.
func cosine(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Ensure Driver implements vector.Driver
var _ vector.Driver = (*Driver)(nil)
