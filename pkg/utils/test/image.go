package testutils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// PNGBytes renders a solid-color PNG of the given size, for tests that
// need bytes the image decoders accept.
func PNGBytes(width, height int, c color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
