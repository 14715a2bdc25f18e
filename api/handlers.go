package api

import (
	"bytes"
	"errors"
	"image"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/lightboxd/lightbox/pkg/cluster"
	"github.com/lightboxd/lightbox/pkg/gallery"
	sourceutils "github.com/lightboxd/lightbox/pkg/source/utils"
)

// LoadRequest is the JSON body for POST /v1/load. The path may also be
// supplied as a form field, which the web UI uses.
type LoadRequest struct {
	// Path is a local directory or an smb://server/share/path URL.
	Path string `json:"path"`

	// Paths is an explicit list of local image files. When set it takes
	// precedence over Path.
	Paths []string `json:"paths,omitempty"`
}

// LoadResponse reports the outcome of a load.
type LoadResponse struct {
	Path     string `json:"path"`
	Loaded   int    `json:"loaded"`
	Embedded int    `json:"embedded"`
	Skipped  int    `json:"skipped"`
}

// ClusterResponse is the JSON body for GET /v1/cluster.
type ClusterResponse struct {
	K      int             `json:"k"`
	Groups []cluster.Group `json:"groups"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleLoad replaces the library contents with the images found under
// the requested path, or the explicitly listed files. Accepts a JSON body
// or a form field named "path".
func (s *Server) handleLoad(c *fiber.Ctx) error {
	var req LoadRequest
	if err := c.BodyParser(&req); err != nil || (req.Path == "" && len(req.Paths) == 0) {
		req.Path = c.FormValue("path")
	}
	if req.Path == "" && len(req.Paths) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "path is required"})
	}

	src, err := sourceutils.NewSource(&sourceutils.NewSourceOpts{
		Path:          req.Path,
		Paths:         req.Paths,
		SMBUsername:   s.config.SMB.Username,
		SMBPassword:   s.config.SMB.Password,
		SMBDomain:     s.config.SMB.Domain,
		SMBClientName: s.config.SMB.ClientName,
		SMBPort:       s.config.SMB.Port,
		Logger:        s.logger,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	defer src.Close()

	summary, err := s.library.Load(c.Context(), src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(LoadResponse{
		Path:     req.Path,
		Loaded:   summary.Loaded,
		Embedded: summary.Embedded,
		Skipped:  summary.Skipped,
	})
}

// handleCluster partitions the loaded images into k groups.
// Query parameters:
//   - k (optional, default 5): number of clusters
func (s *Server) handleCluster(c *fiber.Ctx) error {
	groups, k, status, err := s.partition(c)
	if err != nil {
		return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(ClusterResponse{K: k, Groups: groups})
}

// handleGallery partitions the loaded images and renders the result as a
// standalone HTML page with inline thumbnails.
func (s *Server) handleGallery(c *fiber.Ctx) error {
	groups, _, status, err := s.partition(c)
	if err != nil {
		return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
	}

	lookup := func(path string) (image.Image, bool) {
		img, ok := s.library.Get(path)
		if !ok {
			return nil, false
		}
		decoded, _, err := image.Decode(bytes.NewReader(img.Data))
		if err != nil {
			return nil, false
		}
		return decoded, true
	}

	page, err := gallery.Render(groups, lookup, s.logger)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}

// partition validates the k query parameter and clusters the loaded
// embeddings. On failure it returns the HTTP status the handler should
// respond with.
func (s *Server) partition(c *fiber.Ctx) ([]cluster.Group, int, int, error) {
	if s.library.Count() == 0 {
		return nil, 0, fiber.StatusConflict, errors.New("no images loaded")
	}

	k := cluster.DefaultK
	if kStr := c.Query("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil || parsed < 1 {
			return nil, 0, fiber.StatusBadRequest, errors.New("k must be a positive integer")
		}
		k = parsed
	}
	if k > s.library.Count() {
		return nil, 0, fiber.StatusBadRequest, errors.New("k cannot exceed the number of loaded images")
	}

	docs, err := s.library.Documents(c.Context())
	if err != nil {
		return nil, 0, fiber.StatusInternalServerError, err
	}

	groups, err := cluster.Partition(docs, k, s.logger)
	if err != nil {
		return nil, 0, fiber.StatusInternalServerError, err
	}

	return groups, k, 0, nil
}
