package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/lightboxd/lightbox/pkg/library"
)

// Server is the API server for the lightbox image library.
type Server struct {
	config  Config
	library *library.Library
	logger  *slog.Logger
	app     *fiber.App
}

// NewServer creates a new API server.
// The library is injected to allow sharing with other surfaces
// (e.g., the TUI when both run in one process).
func NewServer(config Config, lib *library.Library, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             64 * 1024 * 1024,
	})

	s := &Server{
		config:  config,
		library: lib,
		logger:  logger,
		app:     app,
	}

	app.Get("/", s.handleIndex)
	app.Get("/ping", s.handlePing)
	app.Post("/v1/load", s.handleLoad)
	app.Get("/v1/search", s.handleSearchEndpoint)
	app.Get("/v1/cluster", s.handleCluster)
	app.Get("/v1/gallery", s.handleGallery)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
