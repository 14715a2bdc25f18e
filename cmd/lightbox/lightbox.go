// Package lightboxcmder
package lightboxcmder

import (
	"github.com/spf13/cobra"

	browsecmder "github.com/lightboxd/lightbox/cmd/lightbox/browse"
	clustercmder "github.com/lightboxd/lightbox/cmd/lightbox/cluster"
	configcmder "github.com/lightboxd/lightbox/cmd/lightbox/config"
	initcmder "github.com/lightboxd/lightbox/cmd/lightbox/init"
	loadcmder "github.com/lightboxd/lightbox/cmd/lightbox/load"
	searchcmder "github.com/lightboxd/lightbox/cmd/lightbox/search"
	servecmder "github.com/lightboxd/lightbox/cmd/lightbox/serve"
	versioncmder "github.com/lightboxd/lightbox/cmd/version"
)

const lightboxLongDesc string = `Lightbox finds and organizes images with natural language.

Load a folder of images (local or an SMB share), then search them by
describing what you want, or cluster them into visually similar groups.

Interactive surfaces:
  lightbox browse      Open the terminal UI
  lightbox serve       Run the web UI and JSON API

One-shot commands (require a running lightbox serve):
  lightbox load        Load images from a folder or share
  lightbox search      Find images matching a description
  lightbox cluster     Group images by visual similarity`

const lightboxShortDesc string = "Lightbox - natural language image search"

func NewLightboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lightbox",
		Short: lightboxShortDesc,
		Long:  lightboxLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .lightbox/ directory location")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(loadcmder.NewLoadCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(clustercmder.NewClusterCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(browsecmder.NewBrowseCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
