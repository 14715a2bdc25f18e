package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent lightbox configuration stored as
// config.toml in the .lightbox/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Server      ServerConfig      `toml:"server"`
	Client      ClientConfig      `toml:"client"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	SMB         SMBConfig         `toml:"smb"`
}

// ServerConfig holds settings for the lightbox API/web server.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// lightbox server (e.g. lightbox load, lightbox search, lightbox cluster).
// The value is a full URL (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider string `toml:"provider,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Model    string `toml:"model,omitempty"`
}

// SMBConfig holds credentials for loading images from SMB shares.
// These are usually supplied via environment variables
// (LIGHTBOX_SMB_USERNAME, LIGHTBOX_SMB_PASSWORD, ...) rather than the
// config file, since the file is plain text.
type SMBConfig struct {
	Username   string `toml:"username,omitempty"`
	Password   string `toml:"password,omitempty"`
	Domain     string `toml:"domain,omitempty"`
	ClientName string `toml:"client_name,omitempty"`
	Port       int    `toml:"port,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"smb.username": {
		get: func(c *Config) string { return c.SMB.Username },
		set: func(c *Config, v string) error { c.SMB.Username = v; return nil },
	},
	"smb.password": {
		get: func(c *Config) string { return c.SMB.Password },
		set: func(c *Config, v string) error { c.SMB.Password = v; return nil },
	},
	"smb.domain": {
		get: func(c *Config) string { return c.SMB.Domain },
		set: func(c *Config, v string) error { c.SMB.Domain = v; return nil },
	},
	"smb.client_name": {
		get: func(c *Config) string { return c.SMB.ClientName },
		set: func(c *Config, v string) error { c.SMB.ClientName = v; return nil },
	},
	"smb.port": {
		get: func(c *Config) string {
			if c.SMB.Port == 0 {
				return ""
			}
			return strconv.Itoa(c.SMB.Port)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid value for smb.port: %q", v)
			}
			c.SMB.Port = n
			return nil
		},
	},
}
