package gallery_test

import (
	"image"
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lightboxd/lightbox/pkg/cluster"
	"github.com/lightboxd/lightbox/pkg/gallery"
	"github.com/lightboxd/lightbox/pkg/logger"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

var _ = Describe("Render", func() {
	var images map[string]image.Image

	lookup := func(path string) (image.Image, bool) {
		img, ok := images[path]
		return img, ok
	}

	BeforeEach(func() {
		images = map[string]image.Image{
			"/photos/red.png":  solid(8, 8, color.RGBA{R: 255, A: 255}),
			"/photos/blue.png": solid(8, 8, color.RGBA{B: 255, A: 255}),
			"/photos/wide.png": solid(400, 100, color.RGBA{G: 255, A: 255}),
		}
	})

	It("renders one section per cluster with inline thumbnails", func() {
		groups := []cluster.Group{
			{Label: 0, Paths: []string{"/photos/red.png"}},
			{Label: 1, Paths: []string{"/photos/blue.png", "/photos/wide.png"}},
		}

		page, err := gallery.Render(groups, lookup, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		html := string(page)
		Expect(html).To(ContainSubstring("Cluster 0"))
		Expect(html).To(ContainSubstring("Cluster 1"))
		Expect(html).To(ContainSubstring("/photos/red.png"))
		Expect(html).To(ContainSubstring("/photos/wide.png"))
		Expect(html).To(ContainSubstring("data:image/png;base64,"))
	})

	It("skips images missing from the lookup", func() {
		groups := []cluster.Group{
			{Label: 0, Paths: []string{"/photos/red.png", "/photos/gone.png"}},
		}

		page, err := gallery.Render(groups, lookup, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		html := string(page)
		Expect(html).To(ContainSubstring("/photos/red.png"))
		Expect(html).NotTo(ContainSubstring("/photos/gone.png"))
	})

	It("renders an empty page for no groups", func() {
		page, err := gallery.Render(nil, lookup, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(page)).To(ContainSubstring("Image clusters"))
		Expect(string(page)).NotTo(ContainSubstring("Cluster"))
	})
})
