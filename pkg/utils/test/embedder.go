// Package testutils provides shared fakes for lightbox tests.
package testutils

import (
	"context"
	"fmt"
	"sync"
)

// MockEmbedder is a test embedder that returns predictable embeddings.
// Text embeddings are looked up by the text, image embeddings by the raw
// bytes interpreted as a string. Safe for concurrent use.
type MockEmbedder struct {
	TextEmbeddings  map[string][]float32
	ImageEmbeddings map[string][]float32

	// FailOn causes EmbedText/EmbedImage to return an error when the
	// input matches.
	FailOn string

	TextCalls  int
	ImageCalls int

	mu sync.Mutex
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		TextEmbeddings:  make(map[string][]float32),
		ImageEmbeddings: make(map[string][]float32),
	}
}

func (m *MockEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TextCalls++

	if m.FailOn != "" && text == m.FailOn {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	if emb, ok := m.TextEmbeddings[text]; ok {
		return emb, nil
	}

	// Return a default embedding for any text
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *MockEmbedder) EmbedImage(_ context.Context, data []byte) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ImageCalls++

	key := string(data)
	if m.FailOn != "" && key == m.FailOn {
		return nil, fmt.Errorf("mock embedding failure for image of %d bytes", len(data))
	}

	if emb, ok := m.ImageEmbeddings[key]; ok {
		return emb, nil
	}

	// Return a default embedding for any image
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}
