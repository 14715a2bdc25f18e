// Package smb provides a source that walks a remote SMB share. The
// network work is done by go-smb2; this package only maps the share
// listing into the source.Source contract. The connection is opened once
// per source and closed by Close, matching the one-connection-per-load
// model.
package smb

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	smb2 "github.com/hirochachacha/go-smb2"

	"github.com/lightboxd/lightbox/pkg/source"
)

const dialTimeout = 10 * time.Second

// Config holds connection settings for an SMB source. Credentials come
// from the lightbox config (usually via LIGHTBOX_SMB_* env vars).
type Config struct {
	// URL is the share URL: smb://host/share/optional/path
	URL string

	Username   string
	Password   string
	Domain     string
	ClientName string

	// Port defaults to 445 when zero.
	Port int
}

// shareFS is the slice of *smb2.Share the walk needs: directory listings
// and whole-file reads, both taking backslash wire paths.
type shareFS interface {
	ReadDir(path string) ([]os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// Source yields image files from an SMB share, recursively.
type Source struct {
	conn    net.Conn
	session *smb2.Session
	mount   *smb2.Share
	share   shareFS

	host      string
	shareName string
	relPath   string
	logger    *slog.Logger
}

// ParseURL parses an SMB URL of the form smb://server[:port]/share/optional/path
// into (server, port, share, relative path). The port is 0 when the URL does
// not carry one. The relative path is slash-separated and empty for the
// share root.
func ParseURL(url string) (server string, port int, share, relPath string, err error) {
	if !source.IsSMBURL(url) {
		return "", 0, "", "", fmt.Errorf("not an SMB URL: %q", url)
	}

	trimmed := strings.TrimPrefix(url, "smb://")
	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", 0, "", "", fmt.Errorf("SMB URL must contain at least server and share: %q", url)
	}

	server = parts[0]
	if host, portStr, ok := strings.Cut(server, ":"); ok {
		port, err = strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 || host == "" {
			return "", 0, "", "", fmt.Errorf("invalid port in SMB URL: %q", url)
		}
		server = host
	}

	share = parts[1]
	relPath = strings.Join(parts[2:], "/")
	return server, port, share, relPath, nil
}

// NewSource parses the URL, dials the server and mounts the share. The port
// comes from the URL when present, then cfg.Port, then 445.
func NewSource(cfg Config, logger *slog.Logger) (*Source, error) {
	host, port, shareName, relPath, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if port == 0 {
		port = cfg.Port
	}
	if port == 0 {
		port = 445
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", source.ErrConnection, host, err)
	}

	dialer := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:        cfg.Username,
			Password:    cfg.Password,
			Domain:      cfg.Domain,
			Workstation: cfg.ClientName,
		},
	}

	session, err := dialer.Dial(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: authenticating to %s: %v", source.ErrConnection, host, err)
	}

	share, err := session.Mount(shareName)
	if err != nil {
		session.Logoff()
		conn.Close()
		return nil, fmt.Errorf("%w: mounting share %s: %v", source.ErrConnection, shareName, err)
	}

	return &Source{
		conn:      conn,
		session:   session,
		mount:     share,
		share:     share,
		host:      host,
		shareName: shareName,
		relPath:   relPath,
		logger:    logger,
	}, nil
}

// Walk traverses the share starting at the URL's path and calls fn for
// each image file it can download. Listing or read failures are logged
// and the walk continues with what remains.
func (s *Source) Walk(ctx context.Context, fn func(source.File) error) error {
	return s.walkDir(ctx, s.relPath, fn)
}

func (s *Source) walkDir(ctx context.Context, dir string, fn func(source.File) error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	entries, err := s.share.ReadDir(winPath(dir))
	if err != nil {
		s.logger.Warn("error listing share directory", "dir", dir, "error", err)
		return nil
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}

		full := path.Join(dir, name)
		if entry.IsDir() {
			subdirs = append(subdirs, full)
			continue
		}

		if !source.IsImagePath(name) {
			continue
		}

		data, err := s.share.ReadFile(winPath(full))
		if err != nil {
			s.logger.Warn("error loading SMB file", "path", full, "error", err)
			continue
		}

		if err := fn(source.File{Path: s.displayPath(full), Data: data}); err != nil {
			return err
		}
	}

	for _, sub := range subdirs {
		if err := s.walkDir(ctx, sub, fn); err != nil {
			return err
		}
	}

	return nil
}

// displayPath rebuilds the full smb:// URL for a file, which is what gets
// used as the embedding key and shown in results.
func (s *Source) displayPath(rel string) string {
	return "smb://" + s.host + "/" + path.Join(s.shareName, rel)
}

// winPath converts a slash-separated relative path to the backslash form
// the SMB wire protocol expects. The share root is the empty string.
func winPath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "."
	}
	return strings.ReplaceAll(p, "/", `\`)
}

// Close unmounts the share and tears down the connection.
func (s *Source) Close() error {
	var firstErr error
	if err := s.mount.Umount(); err != nil {
		firstErr = err
	}
	if err := s.session.Logoff(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.conn.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Ensure Source implements source.Source
var _ source.Source = (*Source)(nil)
