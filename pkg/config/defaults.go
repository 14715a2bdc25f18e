package config

const (
	defaultServerListen = ":8090"

	defaultClientAPITarget = "http://localhost:8090"

	defaultVectorProvider = "memory"

	defaultEmbeddingProvider = "clip"
	defaultEmbeddingTarget   = "http://localhost:8765"
	defaultEmbeddingModel    = "ViT-B-32"

	defaultSMBClientName = "lightbox"
	defaultSMBPort       = 445
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen: defaultServerListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
		},
		Embedding: EmbeddingConfig{
			Provider: defaultEmbeddingProvider,
			Target:   defaultEmbeddingTarget,
			Model:    defaultEmbeddingModel,
		},
		SMB: SMBConfig{
			ClientName: defaultSMBClientName,
			Port:       defaultSMBPort,
		},
	}
}
