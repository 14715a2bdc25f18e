// Package browsecmder provides the browse command, an interactive terminal
// UI over the image library.
package browsecmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lightboxd/lightbox/pkg/config"
	embeddingutils "github.com/lightboxd/lightbox/pkg/embeddings/utils"
	"github.com/lightboxd/lightbox/pkg/library"
	"github.com/lightboxd/lightbox/pkg/logger"
	vectorutils "github.com/lightboxd/lightbox/pkg/vector/utils"
)

const browseLongDesc string = `Browse is an interactive terminal UI for the image library.

Three tabs, switched with tab/shift+tab:
  Load     Point lightbox at a folder or smb:// share and load it
  Search   Type a description and see the closest matching images
  Cluster  Partition the loaded images into visually similar groups

Everything runs in-process; no lightbox serve is required, but a CLIP
inference server must be reachable for embeddings.

Examples:
  lightbox browse
  lightbox browse --embedding-target http://localhost:8765`

const browseShortDesc string = "Browse the image library interactively"

type browseCommander struct {
	vectorProvider    string
	embeddingProvider string
	embeddingTarget   string
	embeddingModel    string
	smb               smbSettings
}

type smbSettings struct {
	username   string
	password   string
	domain     string
	clientName string
	port       int
}

func NewBrowseCmd() *cobra.Command {
	cmder := &browseCommander{}

	browseFlags := []string{
		config.FlagVectorStoreProv,
		config.FlagEmbeddingProv,
		config.FlagEmbeddingTgt,
		config.FlagEmbeddingModel,
	}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: browseShortDesc,
		Long:  browseLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, browseFlags)

			cmder.vectorProvider = v.GetString("vector_store.provider")
			cmder.embeddingProvider = v.GetString("embedding.provider")
			cmder.embeddingTarget = v.GetString("embedding.target")
			cmder.embeddingModel = v.GetString("embedding.model")
			cmder.smb = smbSettings{
				username:   v.GetString("smb.username"),
				password:   v.GetString("smb.password"),
				domain:     v.GetString("smb.domain"),
				clientName: v.GetString("smb.client_name"),
				port:       v.GetInt("smb.port"),
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &cmder.embeddingProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.embeddingModel)

	return cmd
}

func (c *browseCommander) run(ctx context.Context) error {
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
		Logger:       logger.Nop(),
	})
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	defer driver.Close()

	lib := library.New(embedder, driver, logger.Nop())

	return runBrowseTUI(ctx, lib, c.smb)
}
