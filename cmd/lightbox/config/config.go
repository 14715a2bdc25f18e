// Package configcmder provides the config command for managing persistent
// lightbox configuration stored in the .lightbox/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent lightbox configuration.

Configuration is stored as config.toml in the .lightbox/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  server.listen,
  client.api_target,
  vector_store.provider,
  embedding.provider, embedding.target, embedding.model,
  smb.username, smb.password, smb.domain, smb.client_name, smb.port

Use subcommands to get, set, or list configuration values:
  lightbox config set <key> <value>    Set a configuration value
  lightbox config get <key>            Get a configuration value
  lightbox config list                 List all configuration values

Examples:
  lightbox config set embedding.target http://localhost:8765
  lightbox config set smb.username alice
  lightbox config get embedding.model
  lightbox config list`

const configShortDesc string = "Manage persistent lightbox configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
