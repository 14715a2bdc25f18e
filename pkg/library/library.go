// Package library holds the in-memory session state: the set of loaded
// images and, through the vector driver, their embeddings. State lives for
// the duration of a session; a new load replaces everything.
package library

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"sort"
	"sync"

	// Decoders for the supported image formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/lightboxd/lightbox/pkg/embeddings"
	"github.com/lightboxd/lightbox/pkg/source"
	"github.com/lightboxd/lightbox/pkg/vector"
	"github.com/lightboxd/lightbox/pkg/worker"
)

// Image is a loaded image: its identifying path, original encoded bytes,
// and the decoded dimensions.
type Image struct {
	Path   string
	Data   []byte
	Format string
	Width  int
	Height int
}

// LoadSummary reports what a load did.
type LoadSummary struct {
	Loaded   int `json:"loaded"`
	Embedded int `json:"embedded"`
	Skipped  int `json:"skipped"`
}

func (s LoadSummary) String() string {
	return fmt.Sprintf("loaded %d images (%d embedded, %d skipped)", s.Loaded, s.Embedded, s.Skipped)
}

// Library is the session state. Every embedding stored in the driver has a
// matching image here; images that fail to embed are dropped so the two
// maps stay keyed identically.
type Library struct {
	mu     sync.RWMutex
	images map[string]Image

	embedder embeddings.Embedder
	driver   vector.Driver
	logger   *slog.Logger
}

// New creates an empty library over the given embedder and vector driver.
func New(embedder embeddings.Embedder, driver vector.Driver, logger *slog.Logger) *Library {
	return &Library{
		images:   make(map[string]Image),
		embedder: embedder,
		driver:   driver,
		logger:   logger,
	}
}

// Load walks the source, decodes and embeds every image it yields, and
// replaces the library contents with the result. Decoding happens inline
// during the walk; embedding goes through a worker pool so inference
// round trips overlap. Files that fail to decode or embed are logged and
// skipped. The walk itself is best-effort too; only a walk that yields
// nothing at all is an error for the caller to interpret.
func (l *Library) Load(ctx context.Context, src source.Source) (LoadSummary, error) {
	var summary LoadSummary

	staged := make(map[string]Image)

	pool, err := worker.NewPool(ctx, &worker.Config{
		Embedder: l.embedder,
		Logger:   l.logger,
	})
	if err != nil {
		return summary, fmt.Errorf("starting embed pool: %w", err)
	}

	// The collector owns docs and failed until collectDone closes.
	var docs []vector.Document
	var failed []string
	collectDone := make(chan struct{})
	go func() {
		defer close(collectDone)
		for res := range pool.Results() {
			if res.Err != nil {
				l.logger.Warn("error embedding image", "path", res.Path, "error", res.Err)
				failed = append(failed, res.Path)
				continue
			}
			docs = append(docs, vector.Document{ID: res.Path, Embedding: res.Embedding})
		}
	}()

	walkErr := src.Walk(ctx, func(f source.File) error {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(f.Data))
		if err != nil {
			l.logger.Warn("error decoding image", "path", f.Path, "error", err)
			summary.Skipped++
			return nil
		}
		summary.Loaded++

		staged[f.Path] = Image{
			Path:   f.Path,
			Data:   f.Data,
			Format: format,
			Width:  cfg.Width,
			Height: cfg.Height,
		}
		return pool.Enqueue(ctx, worker.Job{Path: f.Path, Data: f.Data})
	})

	pool.Close()
	<-collectDone

	if walkErr != nil {
		return summary, fmt.Errorf("walking source: %w", walkErr)
	}

	for _, path := range failed {
		delete(staged, path)
		summary.Loaded--
		summary.Skipped++
	}
	summary.Embedded = len(docs)

	if err := l.replace(ctx, staged, docs); err != nil {
		return summary, err
	}

	l.logger.Info("library loaded",
		"images", summary.Loaded,
		"embedded", summary.Embedded,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

// replace swaps the session state for the staged set, clearing the
// previous load from the vector driver first.
func (l *Library) replace(ctx context.Context, staged map[string]Image, docs []vector.Document) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	old := make([]string, 0, len(l.images))
	for path := range l.images {
		old = append(old, path)
	}
	if len(old) > 0 {
		if err := l.driver.Delete(ctx, old); err != nil {
			return fmt.Errorf("clearing previous load: %w", err)
		}
	}

	if len(docs) > 0 {
		if err := l.driver.Add(ctx, docs); err != nil {
			return fmt.Errorf("storing embeddings: %w", err)
		}
	}

	l.images = staged
	return nil
}

// Get returns the image stored under path.
func (l *Library) Get(path string) (Image, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	img, ok := l.images[path]
	return img, ok
}

// Paths returns the loaded image paths in sorted order.
func (l *Library) Paths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	paths := make([]string, 0, len(l.images))
	for path := range l.images {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Count reports the number of loaded images.
func (l *Library) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.images)
}

// Documents returns every stored embedding document, used by clustering.
func (l *Library) Documents(ctx context.Context) ([]vector.Document, error) {
	return l.driver.Get(ctx, l.Paths())
}

// Driver exposes the underlying vector driver for search.
func (l *Library) Driver() vector.Driver {
	return l.driver
}

// Embedder exposes the embedder for query embedding.
func (l *Library) Embedder() embeddings.Embedder {
	return l.embedder
}
