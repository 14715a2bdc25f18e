// Package chromem provides a vector driver backed by chromem-go, an
// embeddable in-process vector database. Nothing is persisted: the DB is
// created fresh per session, matching lightbox's load-replaces-state model.
package chromem

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/lightboxd/lightbox/pkg/vector"
)

const collectionName = "lightbox"

// Driver implements vector.Driver on top of a chromem-go collection.
type Driver struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
	logger     *slog.Logger

	// byID mirrors stored documents so Get can return embeddings without
	// a similarity query. chromem only exposes embeddings via query results.
	mu   sync.RWMutex
	byID map[string]vector.Document
}

// NewDriver creates a new in-memory chromem-go driver.
func NewDriver(logger *slog.Logger) (*Driver, error) {
	db := chromemgo.NewDB()

	// All embeddings are precomputed by the embedder, so the collection's
	// embedding function must never be called.
	embedFn := func(_ context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("%w: no embedding function configured for %q", vector.ErrEmbedding, text)
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embedFn)
	if err != nil {
		return nil, fmt.Errorf("%w: creating chromem collection: %v", vector.ErrConnection, err)
	}

	logger.Info("chromem vector driver initialized", "collection", collectionName)

	return &Driver{
		db:         db,
		collection: collection,
		logger:     logger,
		byID:       make(map[string]vector.Document),
	}, nil
}

// Add stores documents with their embeddings. Existing documents with the
// same ID are replaced.
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	for _, doc := range docs {
		err := d.collection.AddDocument(ctx, chromemgo.Document{
			ID:        doc.ID,
			Embedding: doc.Embedding,
		})
		if err != nil {
			return fmt.Errorf("adding document %s: %w", doc.ID, err)
		}
	}

	d.mu.Lock()
	for _, doc := range docs {
		d.byID[doc.ID] = doc
	}
	d.mu.Unlock()

	d.logger.Debug("added documents to chromem", "count", len(docs))
	return nil
}

// Query finds the topK most similar documents to the given embedding.
// chromem rejects queries asking for more results than stored documents,
// so topK is clamped to the collection size.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	count := d.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := d.collection.QueryEmbedding(ctx, embedding, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying chromem: %w", err)
	}

	queryResults := make([]vector.QueryResult, 0, len(results))
	for _, res := range results {
		queryResults = append(queryResults, vector.QueryResult{
			Document: vector.Document{
				ID:        res.ID,
				Embedding: res.Embedding,
			},
			Score: res.Similarity,
		})
	}

	d.logger.Debug("queried chromem", "results", len(queryResults))
	return queryResults, nil
}

// Get retrieves documents by their IDs. Unknown IDs are skipped.
func (d *Driver) Get(_ context.Context, ids []string) ([]vector.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	docs := make([]vector.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := d.byID[id]; ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// Delete removes documents by their IDs.
func (d *Driver) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	if err := d.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}

	d.mu.Lock()
	for _, id := range ids {
		delete(d.byID, id)
	}
	d.mu.Unlock()

	return nil
}

// Count reports the number of stored documents.
func (d *Driver) Count(_ context.Context) (int, error) {
	return d.collection.Count(), nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	d.mu.Lock()
	d.byID = make(map[string]vector.Document)
	d.mu.Unlock()
	return nil
}

// Ensure Driver implements vector.Driver
var _ vector.Driver = (*Driver)(nil)
