// Package vector provides interfaces and implementations for in-memory
// storage and similarity search over image embeddings.
package vector

import "context"

// Document represents a stored embedding with its identity.
type Document struct {
	// ID is a unique identifier for the document. For images this is the
	// load path (local path or smb:// URL path) of the file.
	ID string

	// Embedding is the vector representation of the image content.
	Embedding []float32
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	Document

	// Score is the similarity score (higher = more similar). Drivers
	// report cosine similarity, so scores fall in [-1, 1].
	Score float32
}

// Driver handles storage and retrieval of vector embeddings for the
// duration of a session. Implementations are in-memory; a new load
// replaces the previous contents via Delete + Add.
type Driver interface {
	// Add stores documents with their embeddings.
	// If a document with the same ID already exists, implementers should
	// update the document.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK most similar documents to the given embedding.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Get retrieves documents by their IDs.
	Get(ctx context.Context, ids []string) ([]Document, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Count reports the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the driver.
	Close() error
}
