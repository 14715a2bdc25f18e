// Package cluster groups embedded images by visual similarity using
// k-means over their embedding vectors.
package cluster

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/lightboxd/lightbox/pkg/vector"
)

const (
	// DefaultK is the cluster count used when the caller does not pick one.
	DefaultK = 5

	// MinK and MaxK bound the cluster counts the surfaces offer.
	MinK = 2
	MaxK = 10
)

// Group is one cluster of image paths.
type Group struct {
	Label int      `json:"label"`
	Paths []string `json:"paths"`
}

// pathObservation carries the image path alongside its coordinates so
// cluster membership can be mapped back after partitioning.
type pathObservation struct {
	path   string
	coords clusters.Coordinates
}

func (o pathObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o pathObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Partition runs k-means over the document embeddings and returns k groups
// of image paths. Groups are labeled 0..k-1 and paths within a group are
// sorted. It fails when k is out of range for the document count.
func Partition(docs []vector.Document, k int, logger *slog.Logger) ([]Group, error) {
	if k < 1 {
		return nil, fmt.Errorf("cluster count must be at least 1, got %d", k)
	}
	if k > len(docs) {
		return nil, fmt.Errorf("cannot split %d images into %d clusters", len(docs), k)
	}

	observations := make(clusters.Observations, 0, len(docs))
	for _, doc := range docs {
		coords := make(clusters.Coordinates, len(doc.Embedding))
		for i, v := range doc.Embedding {
			coords[i] = float64(v)
		}
		observations = append(observations, pathObservation{path: doc.ID, coords: coords})
	}

	km := kmeans.New()
	partition, err := km.Partition(observations, k)
	if err != nil {
		return nil, fmt.Errorf("partitioning embeddings: %w", err)
	}

	groups := make([]Group, 0, len(partition))
	for i, c := range partition {
		group := Group{Label: i, Paths: make([]string, 0, len(c.Observations))}
		for _, obs := range c.Observations {
			group.Paths = append(group.Paths, obs.(pathObservation).path)
		}
		sort.Strings(group.Paths)
		groups = append(groups, group)
	}

	logger.Debug("partitioned images", "images", len(docs), "clusters", len(groups))

	return groups, nil
}

// ClampK snaps a requested cluster count into the supported range, further
// capped by the number of images available.
func ClampK(k, imageCount int) int {
	if k < MinK {
		k = MinK
	}
	if k > MaxK {
		k = MaxK
	}
	if k > imageCount {
		k = imageCount
	}
	return k
}
