// Package source provides image sources for the load operation. A source
// yields the raw bytes of every image file under a root, whether that root
// is a local directory or a remote SMB share.
package source

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrConnection is returned when a remote source cannot be reached.
	ErrConnection = errors.New("source connection failed")

	// ErrNotDir is returned when a local root is not a directory.
	ErrNotDir = errors.New("not a directory")
)

// File is a single image file yielded by a walk. Path is the canonical
// identifier used as the embedding key: an absolute local path, or the
// smb:// URL of the remote file.
type File struct {
	Path string
	Data []byte
}

// Source walks a tree of image files. Implementations skip unreadable
// files (logging them) and only yield paths that pass IsImagePath.
type Source interface {
	// Walk traverses the source and calls fn for each image file.
	// Returning an error from fn stops the walk.
	Walk(ctx context.Context, fn func(File) error) error

	// Close releases the source's resources (e.g. the SMB connection).
	Close() error
}

// imageExts is the set of file extensions treated as images. It matches
// the decoders registered by the library package.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// IsImagePath reports whether the path names a supported image file,
// by extension, case insensitively.
func IsImagePath(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// IsSMBURL reports whether the path is an SMB share URL.
func IsSMBURL(path string) bool {
	return strings.HasPrefix(path, "smb://")
}
