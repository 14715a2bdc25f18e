// Package local provides a source that walks a local directory tree.
// It is built on afero so tests can run against an in-memory filesystem.
package local

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/lightboxd/lightbox/pkg/source"
)

// Source yields image files from a local directory, recursively.
type Source struct {
	fs     afero.Fs
	root   string
	logger *slog.Logger
}

// NewSource creates a source rooted at the given directory on the OS
// filesystem.
func NewSource(root string, logger *slog.Logger) (*Source, error) {
	return NewSourceWithFs(afero.NewOsFs(), root, logger)
}

// NewSourceWithFs creates a source over an arbitrary afero filesystem.
func NewSourceWithFs(fs afero.Fs, root string, logger *slog.Logger) (*Source, error) {
	info, err := fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, source.ErrNotDir)
	}

	return &Source{
		fs:     fs,
		root:   root,
		logger: logger,
	}, nil
}

// Walk traverses the directory tree and calls fn for each readable image
// file. Unreadable files are logged and skipped; unreadable directories
// are logged and pruned.
func (s *Source) Walk(ctx context.Context, fn func(source.File) error) error {
	return afero.Walk(s.fs, s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if info.IsDir() || !source.IsImagePath(path) {
			return nil
		}

		data, err := afero.ReadFile(s.fs, path)
		if err != nil {
			s.logger.Warn("error loading local file", "path", path, "error", err)
			return nil
		}

		return fn(source.File{Path: path, Data: data})
	})
}

// Close is a no-op for local sources.
func (s *Source) Close() error {
	return nil
}

// FilesSource yields an explicit list of image files rather than walking
// a directory.
type FilesSource struct {
	fs     afero.Fs
	paths  []string
	logger *slog.Logger
}

// NewFilesSource creates a source over explicit file paths on the OS
// filesystem.
func NewFilesSource(paths []string, logger *slog.Logger) (*FilesSource, error) {
	return NewFilesSourceWithFs(afero.NewOsFs(), paths, logger)
}

// NewFilesSourceWithFs creates a files source over an arbitrary afero
// filesystem.
func NewFilesSourceWithFs(fs afero.Fs, paths []string, logger *slog.Logger) (*FilesSource, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no file paths given")
	}

	return &FilesSource{
		fs:     fs,
		paths:  paths,
		logger: logger,
	}, nil
}

// Walk visits each listed path in order. Paths that are not image files,
// or cannot be read, are logged and skipped.
func (s *FilesSource) Walk(ctx context.Context, fn func(source.File) error) error {
	for _, path := range s.paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !source.IsImagePath(path) {
			s.logger.Warn("skipping non-image path", "path", path)
			continue
		}

		data, err := afero.ReadFile(s.fs, path)
		if err != nil {
			s.logger.Warn("error loading local file", "path", path, "error", err)
			continue
		}

		if err := fn(source.File{Path: path, Data: data}); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for files sources.
func (s *FilesSource) Close() error {
	return nil
}

// Ensure both sources implement source.Source
var (
	_ source.Source = (*Source)(nil)
	_ source.Source = (*FilesSource)(nil)
)
