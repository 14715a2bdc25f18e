package memory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lightboxd/lightbox/pkg/logger"
	"github.com/lightboxd/lightbox/pkg/vector"
	"github.com/lightboxd/lightbox/pkg/vector/memory"
)

var _ = Describe("Driver", func() {
	var (
		driver *memory.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = memory.NewDriver(logger.Nop())
		ctx = context.Background()
	})

	AfterEach(func() {
		driver.Close()
	})

	Describe("Add and Get", func() {
		It("stores and retrieves documents", func() {
			docs := []vector.Document{
				{ID: "/photos/cat.jpg", Embedding: []float32{1, 0, 0}},
				{ID: "/photos/dog.jpg", Embedding: []float32{0, 1, 0}},
			}
			Expect(driver.Add(ctx, docs)).To(Succeed())

			got, err := driver.Get(ctx, []string{"/photos/cat.jpg"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].Embedding).To(Equal([]float32{1, 0, 0}))
		})

		It("updates documents with the same ID", func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "/photos/cat.jpg", Embedding: []float32{1, 0, 0}},
			})).To(Succeed())
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "/photos/cat.jpg", Embedding: []float32{0, 0, 1}},
			})).To(Succeed())

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))

			got, err := driver.Get(ctx, []string{"/photos/cat.jpg"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got[0].Embedding).To(Equal([]float32{0, 0, 1}))
		})

		It("skips unknown IDs on Get", func() {
			got, err := driver.Get(ctx, []string{"/nope.png"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
		})
	})

	Describe("Query", func() {
		BeforeEach(func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "/photos/cat.jpg", Embedding: []float32{1, 0, 0}},
				{ID: "/photos/kitten.jpg", Embedding: []float32{0.9, 0.1, 0}},
				{ID: "/photos/car.jpg", Embedding: []float32{0, 0, 1}},
			})).To(Succeed())
		})

		It("returns results ordered by descending similarity", func() {
			results, err := driver.Query(ctx, []float32{1, 0, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].ID).To(Equal("/photos/cat.jpg"))
			Expect(results[1].ID).To(Equal("/photos/kitten.jpg"))
			Expect(results[2].ID).To(Equal("/photos/car.jpg"))
			Expect(results[0].Score).To(BeNumerically(">", results[1].Score))
			Expect(results[1].Score).To(BeNumerically(">", results[2].Score))
		})

		It("limits results to topK", func() {
			results, err := driver.Query(ctx, []float32{1, 0, 0}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("returns every document when topK exceeds the set", func() {
			results, err := driver.Query(ctx, []float32{1, 0, 0}, 50)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
		})

		It("reports perfect similarity as 1", func() {
			results, err := driver.Query(ctx, []float32{1, 0, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Score).To(BeNumerically("~", 1.0, 1e-6))
		})

		It("rejects mismatched dimensions", func() {
			_, err := driver.Query(ctx, []float32{1, 0}, 3)
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})

		It("returns empty results on an empty store", func() {
			empty := memory.NewDriver(logger.Nop())
			defer empty.Close()

			results, err := empty.Query(ctx, []float32{1, 0, 0}, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})

	Describe("Delete", func() {
		It("removes documents", func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "/photos/cat.jpg", Embedding: []float32{1, 0, 0}},
			})).To(Succeed())
			Expect(driver.Delete(ctx, []string{"/photos/cat.jpg"})).To(Succeed())

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})
})
