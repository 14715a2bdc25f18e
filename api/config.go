// Package api provides the HTTP server for loading, searching, and
// clustering the image library.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// SMB holds share credentials used when a load path is an smb:// URL.
	SMB SMBConfig
}

// SMBConfig carries credentials for SMB share loads.
type SMBConfig struct {
	Username   string
	Password   string
	Domain     string
	ClientName string
	Port       int
}

// ErrorResponse is the JSON error body returned by all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
