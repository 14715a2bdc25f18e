// Package initcmder provides the init command for initializing a local
// .lightbox directory in the current working directory.
package initcmder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lightboxd/lightbox/pkg/cliui"
	"github.com/lightboxd/lightbox/pkg/config"
)

const (
	dirName = ".lightbox"
)

const initLongDesc string = `Initialize a new .lightbox/ directory in the current working directory.

Creates a local .lightbox/ directory that takes precedence over the default
~/.lightbox/ directory for configuration and other lightbox operations.

This is useful for maintaining separate lightbox settings per project or
image collection.

Examples:
  lightbox init`

const initShortDesc string = "Initialize a local .lightbox/ directory"

const quickStartMD = `## Quick start

1. Start the embedding server, then the API server:
   ` + "`lightbox serve`" + `
2. Load a folder of images:
   ` + "`lightbox load ./photos`" + ` (or an ` + "`smb://`" + ` share)
3. Search by description:
   ` + "`lightbox search \"a dog on a beach\"`" + `
4. Group similar images:
   ` + "`lightbox cluster --k 5`" + `

Settings live in ` + "`.lightbox/config.toml`" + `; see ` + "`lightbox config list`" + `.
`

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit()
		},
	}

	return cmd
}

func runInit() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		fmt.Printf("Already initialized: %s\n", dir)
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .lightbox directory: %w", err)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("preparing config: %w", err)
	}

	if err := cfger.SaveConfig(config.NewDefaultConfig()); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	fmt.Printf("Initialized .lightbox directory: %s\n", dir)

	if rendered, err := cliui.RenderMarkdown(quickStartMD); err == nil {
		fmt.Print(rendered)
	} else {
		fmt.Print(quickStartMD)
	}
	return nil
}
