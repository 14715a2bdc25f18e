// Package sourceutils is the source utility package
package sourceutils

import (
	"log/slog"

	"github.com/lightboxd/lightbox/pkg/source"
	"github.com/lightboxd/lightbox/pkg/source/local"
	"github.com/lightboxd/lightbox/pkg/source/smb"
)

type NewSourceOpts struct {
	// Path is a local directory or an smb:// share URL.
	Path string

	// Paths is an explicit list of local image files. When set it takes
	// precedence over Path.
	Paths []string

	// SMB credentials, used only when Path is an SMB URL.
	SMBUsername   string
	SMBPassword   string
	SMBDomain     string
	SMBClientName string
	SMBPort       int

	Logger *slog.Logger
}

// NewSource picks the source implementation: an explicit file list gets
// a files source, smb:// URLs an SMB source, everything else a local
// directory source.
func NewSource(o *NewSourceOpts) (source.Source, error) {
	if len(o.Paths) > 0 {
		return local.NewFilesSource(o.Paths, o.Logger)
	}

	if source.IsSMBURL(o.Path) {
		return smb.NewSource(smb.Config{
			URL:        o.Path,
			Username:   o.SMBUsername,
			Password:   o.SMBPassword,
			Domain:     o.SMBDomain,
			ClientName: o.SMBClientName,
			Port:       o.SMBPort,
		}, o.Logger)
	}

	return local.NewSource(o.Path, o.Logger)
}
