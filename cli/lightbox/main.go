package main

import (
	"os"

	lightboxcmder "github.com/lightboxd/lightbox/cmd/lightbox"
)

func main() {
	cmd := lightboxcmder.NewLightboxCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
