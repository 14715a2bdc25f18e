package library_test

import (
	"context"
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/lightboxd/lightbox/pkg/library"
	"github.com/lightboxd/lightbox/pkg/logger"
	"github.com/lightboxd/lightbox/pkg/source/local"
	testutils "github.com/lightboxd/lightbox/pkg/utils/test"
	"github.com/lightboxd/lightbox/pkg/vector/memory"
)

var _ = Describe("Library", func() {
	var (
		fs       afero.Fs
		embedder *testutils.MockEmbedder
		driver   *memory.Driver
		lib      *library.Library
		ctx      context.Context

		redPNG  []byte
		bluePNG []byte
	)

	BeforeEach(func() {
		fs = afero.NewMemMapFs()
		embedder = testutils.NewMockEmbedder()
		driver = memory.NewDriver(logger.Nop())
		lib = library.New(embedder, driver, logger.Nop())
		ctx = context.Background()

		redPNG = testutils.PNGBytes(4, 2, color.RGBA{R: 255, A: 255})
		bluePNG = testutils.PNGBytes(2, 4, color.RGBA{B: 255, A: 255})

		embedder.ImageEmbeddings[string(redPNG)] = []float32{1, 0, 0}
		embedder.ImageEmbeddings[string(bluePNG)] = []float32{0, 0, 1}

		Expect(afero.WriteFile(fs, "/photos/red.png", redPNG, 0o644)).To(Succeed())
		Expect(afero.WriteFile(fs, "/photos/blue.png", bluePNG, 0o644)).To(Succeed())
	})

	newSource := func(root string) *local.Source {
		src, err := local.NewSourceWithFs(fs, root, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		return src
	}

	Describe("Load", func() {
		It("loads, decodes, and embeds every image", func() {
			summary, err := lib.Load(ctx, newSource("/photos"))
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Loaded).To(Equal(2))
			Expect(summary.Embedded).To(Equal(2))
			Expect(summary.Skipped).To(BeZero())

			Expect(lib.Count()).To(Equal(2))
			Expect(lib.Paths()).To(Equal([]string{"/photos/blue.png", "/photos/red.png"}))
		})

		It("records decoded dimensions and format", func() {
			_, err := lib.Load(ctx, newSource("/photos"))
			Expect(err).NotTo(HaveOccurred())

			img, ok := lib.Get("/photos/red.png")
			Expect(ok).To(BeTrue())
			Expect(img.Format).To(Equal("png"))
			Expect(img.Width).To(Equal(4))
			Expect(img.Height).To(Equal(2))
		})

		It("keeps embeddings keyed identically to images", func() {
			_, err := lib.Load(ctx, newSource("/photos"))
			Expect(err).NotTo(HaveOccurred())

			docs, err := lib.Documents(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(2))
			for _, doc := range docs {
				_, ok := lib.Get(doc.ID)
				Expect(ok).To(BeTrue(), "embedding %s has no image", doc.ID)
			}
		})

		It("skips files that fail to decode", func() {
			Expect(afero.WriteFile(fs, "/photos/broken.png", []byte("not a png"), 0o644)).To(Succeed())

			summary, err := lib.Load(ctx, newSource("/photos"))
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Loaded).To(Equal(2))
			Expect(summary.Skipped).To(Equal(1))
			Expect(lib.Count()).To(Equal(2))
		})

		It("drops images whose embedding fails", func() {
			embedder.FailOn = string(redPNG)

			summary, err := lib.Load(ctx, newSource("/photos"))
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Embedded).To(Equal(1))
			Expect(summary.Skipped).To(Equal(1))

			_, ok := lib.Get("/photos/red.png")
			Expect(ok).To(BeFalse())

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("replaces the previous load entirely", func() {
			_, err := lib.Load(ctx, newSource("/photos"))
			Expect(err).NotTo(HaveOccurred())

			Expect(afero.WriteFile(fs, "/other/green.png",
				testutils.PNGBytes(1, 1, color.RGBA{G: 255, A: 255}), 0o644)).To(Succeed())

			_, err = lib.Load(ctx, newSource("/other"))
			Expect(err).NotTo(HaveOccurred())

			Expect(lib.Count()).To(Equal(1))
			Expect(lib.Paths()).To(Equal([]string{"/other/green.png"}))

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("loads an empty directory into an empty library", func() {
			Expect(fs.MkdirAll("/empty", 0o755)).To(Succeed())

			summary, err := lib.Load(ctx, newSource("/empty"))
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Loaded).To(BeZero())
			Expect(lib.Count()).To(BeZero())
		})
	})
})
