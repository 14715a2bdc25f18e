// Package servecmder provides the serve command running the lightbox
// web UI and JSON API.
package servecmder

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lightboxd/lightbox/api"
	"github.com/lightboxd/lightbox/pkg/config"
	embeddingutils "github.com/lightboxd/lightbox/pkg/embeddings/utils"
	"github.com/lightboxd/lightbox/pkg/library"
	"github.com/lightboxd/lightbox/pkg/logger"
	vectorutils "github.com/lightboxd/lightbox/pkg/vector/utils"
)

type ServeCommander struct {
	listen            string
	vectorProvider    string
	embeddingProvider string
	embeddingTarget   string
	embeddingModel    string
	logFile           string
	smb               api.SMBConfig
	debug             bool
	logger            *slog.Logger
}

const serveLongDesc string = `Run the lightbox server.

Serves the web form UI on / and the JSON API under /v1:
  POST /v1/load       Load images from a folder or SMB share
  GET  /v1/search     Find images matching a text description
  GET  /v1/cluster    Group images by visual similarity
  GET  /v1/gallery    Cluster results as an HTML thumbnail gallery

Requires a running CLIP inference server for embeddings
(see embedding.target in the config).

Examples:
  lightbox serve
  lightbox serve --listen :9090
  LIGHTBOX_SMB_USERNAME=alice LIGHTBOX_SMB_PASSWORD=secret lightbox serve`

const serveShortDesc string = "Run the lightbox server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	serveFlags := []string{
		config.FlagListen,
		config.FlagVectorStoreProv,
		config.FlagEmbeddingProv,
		config.FlagEmbeddingTgt,
		config.FlagEmbeddingModel,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)

			cmder.listen = v.GetString("server.listen")
			cmder.vectorProvider = v.GetString("vector_store.provider")
			cmder.embeddingProvider = v.GetString("embedding.provider")
			cmder.embeddingTarget = v.GetString("embedding.target")
			cmder.embeddingModel = v.GetString("embedding.model")
			cmder.smb = api.SMBConfig{
				Username:   v.GetString("smb.username"),
				Password:   v.GetString("smb.password"),
				Domain:     v.GetString("smb.domain"),
				ClientName: v.GetString("smb.client_name"),
				Port:       v.GetInt("smb.port"),
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run()
		},
	}

	for _, key := range serveFlags {
		config.AddStringFlag(cmd, config.Flags, key, stringTarget(cmder, key))
	}
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

// stringTarget maps a flag registry key to the commander field it fills.
func stringTarget(c *ServeCommander, key string) *string {
	switch key {
	case config.FlagListen:
		return &c.listen
	case config.FlagVectorStoreProv:
		return &c.vectorProvider
	case config.FlagEmbeddingProv:
		return &c.embeddingProvider
	case config.FlagEmbeddingTgt:
		return &c.embeddingTarget
	case config.FlagEmbeddingModel:
		return &c.embeddingModel
	}
	return new(string)
}

func (c *ServeCommander) run() error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	if c.logFile != "" {
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()

		c.logger = logger.Multi(
			c.logger,
			logger.New(logger.WithDebug(c.debug), logger.WithJSON(true), logger.WithWriter(f)),
		)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: c.embeddingProvider,
		TargetURL:    c.embeddingTarget,
		Model:        c.embeddingModel,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	driver, err := vectorutils.NewDriver(&vectorutils.NewDriverOpts{
		ProviderType: c.vectorProvider,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	defer driver.Close()

	lib := library.New(embedder, driver, c.logger)

	server := api.NewServer(api.Config{
		ListenAddr: c.listen,
		SMB:        c.smb,
	}, lib, c.logger)

	c.logger.Info("starting lightbox server",
		"listen", c.listen,
		"embedding_provider", c.embeddingProvider,
		"embedding_target", c.embeddingTarget,
		"vector_store", c.vectorProvider,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}
