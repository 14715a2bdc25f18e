// Package clustercmder provides the cluster command for grouping loaded
// images by visual similarity.
package clustercmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lightboxd/lightbox/api"
	"github.com/lightboxd/lightbox/pkg/cliui"
	"github.com/lightboxd/lightbox/pkg/cluster"
	"github.com/lightboxd/lightbox/pkg/config"
)

var (
	groupStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

type clusterCommander struct {
	k      int
	output string

	apiTarget string
}

const clusterLongDesc string = `Group loaded images into clusters of visually similar shots.

Partitions the loaded images by their embeddings using k-means and prints
the resulting groups. Requires a running lightbox server with images loaded.

Use --output to save an HTML gallery with thumbnails instead of printing
paths, then open it in a browser.

Example:
  lightbox cluster
  lightbox cluster --k 8
  lightbox cluster --k 4 --output clusters.html`

const clusterShortDesc string = "Group images by visual similarity"

func NewClusterCmd() *cobra.Command {
	cmder := &clusterCommander{}

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: clusterShortDesc,
		Long:  clusterLongDesc,
		Args:  cobra.NoArgs,
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
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().IntVar(&cmder.k, "k", cluster.DefaultK, "Number of clusters")
	cmd.Flags().StringVarP(&cmder.output, "output", "o", "", "Write an HTML gallery to this file instead of printing paths")
	cmd.Flags().StringVar(&cmder.apiTarget, "api-target", defaults.Client.APITarget, "Lightbox server URL")

	return cmd
}

func (c *clusterCommander) run() error {
	if c.output != "" {
		return c.saveGallery()
	}

	clusterResp, err := ClusterAPI(c.apiTarget, c.k)
	if err != nil {
		return err
	}

	for _, group := range clusterResp.Groups {
		fmt.Printf("\n%s\n", groupStyle.Render(fmt.Sprintf("Cluster %d (%d images)", group.Label, len(group.Paths))))
		for _, path := range group.Paths {
			fmt.Printf("  %s\n", path)
		}
	}
	fmt.Println()

	return nil
}

func (c *clusterCommander) saveGallery() error {
	return cliui.Step(os.Stdout, fmt.Sprintf("Writing gallery to %s", c.output), func() error {
		page, err := galleryAPI(c.apiTarget, c.k)
		if err != nil {
			return err
		}
		return os.WriteFile(c.output, page, 0o644)
	})
}

// ClusterAPI calls the lightbox cluster API and returns the parsed response.
func ClusterAPI(apiTarget string, k int) (*api.ClusterResponse, error) {
	body, err := clusterGet(apiTarget, "/v1/cluster", k)
	if err != nil {
		return nil, err
	}

	var clusterResp api.ClusterResponse
	if err := json.Unmarshal(body, &clusterResp); err != nil {
		return nil, fmt.Errorf("failed to parse cluster response: %w", err)
	}

	return &clusterResp, nil
}

func galleryAPI(apiTarget string, k int) ([]byte, error) {
	return clusterGet(apiTarget, "/v1/gallery", k)
}

func clusterGet(apiTarget, endpoint string, k int) ([]byte, error) {
	reqURL, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	reqURL.Path = endpoint
	q := reqURL.Query()
	q.Set("k", strconv.Itoa(k))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating cluster request: %w", err)
	}

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
		return nil, fmt.Errorf("cluster request failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
