// Package loadcmder provides the load command for pointing a running
// lightbox server at a folder of images.
package loadcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lightboxd/lightbox/api"
	"github.com/lightboxd/lightbox/pkg/cliui"
	"github.com/lightboxd/lightbox/pkg/config"
)

// loadTimeout bounds a single load request. SMB walks and embedding of
// large folders can take a while.
const loadTimeout = 10 * time.Minute

type loadCommander struct {
	paths     []string
	apiTarget string
}

const loadLongDesc string = `Load images into a running lightbox server.

Walks the given folder (or SMB share URL) recursively, decodes every image
found, and computes embeddings for search and clustering. Loading replaces
whatever was loaded before.

SMB URLs take the form smb://server/share/optional/path; credentials come
from the config file or LIGHTBOX_SMB_* environment variables.

With more than one argument, each argument is treated as an individual
image file instead of a folder to walk.

Example:
  lightbox load ~/Pictures/vacation
  lightbox load smb://nas/photos/2025
  lightbox load cat.png dog.jpg
  lightbox load ./shoot --api-target http://localhost:8090`

const loadShortDesc string = "Load images from a folder or share"

func NewLoadCmd() *cobra.Command {
	cmder := &loadCommander{}

	cmd := &cobra.Command{
		Use:   "load <path> [file...]",
		Short: loadShortDesc,
		Long:  loadLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.paths = args
			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVar(&cmder.apiTarget, "api-target", defaults.Client.APITarget, "Lightbox server URL")

	return cmd
}

func (c *loadCommander) run() error {
	var loadResp api.LoadResponse

	label := c.paths[0]
	if len(c.paths) > 1 {
		label = fmt.Sprintf("%d files", len(c.paths))
	}

	err := cliui.Step(os.Stdout, fmt.Sprintf("Loading %s", label), func() error {
		resp, err := LoadAPI(c.apiTarget, c.paths...)
		if err != nil {
			return err
		}
		loadResp = *resp
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  Loaded %d images (%d embedded, %d skipped)\n\n",
		loadResp.Loaded, loadResp.Embedded, loadResp.Skipped)

	return nil
}

// LoadAPI calls the lightbox load API and returns the parsed response.
// One path means a folder or share to walk; several mean explicit files.
func LoadAPI(apiTarget string, paths ...string) (*api.LoadResponse, error) {
	loadURL, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	loadURL.Path = "/v1/load"

	loadReq := api.LoadRequest{}
	if len(paths) == 1 {
		loadReq.Path = paths[0]
	} else {
		loadReq.Paths = paths
	}

	payload, err := json.Marshal(loadReq)
	if err != nil {
		return nil, fmt.Errorf("encoding load request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loadURL.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating load request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to lightbox server at %s: %w", apiTarget, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("load request failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var loadResp api.LoadResponse
	if err := json.Unmarshal(body, &loadResp); err != nil {
		return nil, fmt.Errorf("failed to parse load response: %w", err)
	}

	return &loadResp, nil
}
