// Package worker provides a bounded worker pool for generating image
// embeddings during a load. Embedding requests go to an HTTP inference
// server, so keeping a few in flight stops large folders from being bound
// by round-trip latency.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/lightboxd/lightbox/pkg/embeddings"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Job is one image for the pool to embed.
type Job struct {
	Path string
	Data []byte
}

// Result pairs a job's path with its embedding, or the error that
// prevented one.
type Result struct {
	Path      string
	Embedding []float32
	Err       error
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Embedder generates the image embeddings.
	Embedder embeddings.Embedder

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided slog logger
	Logger *slog.Logger
}

// Pool embeds images asynchronously via a fixed set of workers.
type Pool struct {
	config  *Config
	queue   chan Job
	results chan Result
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewPool creates a new Pool and starts its worker goroutines. The context
// bounds every embedding request the workers make; cancelling it fails the
// remaining jobs instead of letting them run to completion.
func NewPool(ctx context.Context, c *Config) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	wp := &Pool{
		config:  c,
		queue:   make(chan Job, c.QueueSize),
		results: make(chan Result, c.QueueSize),
		logger:  c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(ctx, i)
	}

	// Results closes once every worker has drained and exited, so
	// consumers can range over it.
	go func() {
		wp.wg.Wait()
		close(wp.results)
	}()

	return wp, nil
}

// Enqueue submits a job, blocking until the pool accepts it or ctx ends.
func (p *Pool) Enqueue(ctx context.Context, job Job) error {
	select {
	case p.queue <- job:
		p.logger.Debug("embed job queued", "path", job.Path)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results yields one Result per enqueued job. The channel closes after
// Close once in-flight jobs drain. Consume it from a separate goroutine
// while enqueueing, or the pool backs up once the buffer fills.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// No Enqueue calls may follow.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(ctx context.Context, id uint) {
	defer p.wg.Done()
	p.logger.Debug("embed worker started", "worker_id", id)

	for job := range p.queue {
		p.results <- p.processJob(ctx, job)
	}

	p.logger.Debug("embed worker stopped", "worker_id", id)
}

func (p *Pool) processJob(ctx context.Context, job Job) Result {
	embedding, err := p.config.Embedder.EmbedImage(ctx, job.Data)
	if err != nil {
		p.logger.Warn("failed to generate embedding",
			"path", job.Path,
			"error", err,
		)
		return Result{Path: job.Path, Err: err}
	}

	p.logger.Debug("generated embedding",
		"path", job.Path,
		"embedding_dim", len(embedding),
	)

	return Result{Path: job.Path, Embedding: embedding}
}
