// Package vectorutils is the vector store utility package
package vectorutils

import (
	"fmt"
	"log/slog"

	"github.com/lightboxd/lightbox/pkg/vector"
	"github.com/lightboxd/lightbox/pkg/vector/chromem"
	"github.com/lightboxd/lightbox/pkg/vector/memory"
)

type NewDriverOpts struct {
	ProviderType string
	Logger       *slog.Logger
}

func NewDriver(o *NewDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "memory":
		return memory.NewDriver(o.Logger), nil
	case "chromem":
		return chromem.NewDriver(o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
