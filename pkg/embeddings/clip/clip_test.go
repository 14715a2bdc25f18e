package clip_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lightboxd/lightbox/pkg/embeddings/clip"
	"github.com/lightboxd/lightbox/pkg/vector"
)

var _ = Describe("Embedder", func() {
	var (
		server *httptest.Server
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	Describe("EmbedText", func() {
		It("sends the model and text and returns the first embedding", func() {
			var gotPath string
			var gotBody map[string]any

			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"embeddings": [][]float32{{0.1, 0.2, 0.3}},
				})
			}))

			embedder, err := clip.NewEmbedder(clip.EmbedderConfig{
				BaseURL: server.URL,
				Model:   "ViT-B-32",
			})
			Expect(err).NotTo(HaveOccurred())
			defer embedder.Close()

			emb, err := embedder.EmbedText(ctx, "a photo of a cat")
			Expect(err).NotTo(HaveOccurred())
			Expect(emb).To(Equal([]float32{0.1, 0.2, 0.3}))

			Expect(gotPath).To(Equal("/embed/text"))
			Expect(gotBody["model"]).To(Equal("ViT-B-32"))
			Expect(gotBody["texts"]).To(ConsistOf("a photo of a cat"))
		})
	})

	Describe("EmbedImage", func() {
		It("base64-encodes the image payload", func() {
			var gotPath string
			var gotBody map[string]any

			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"embeddings": [][]float32{{0.4, 0.5}},
				})
			}))

			embedder, err := clip.NewEmbedder(clip.EmbedderConfig{BaseURL: server.URL})
			Expect(err).NotTo(HaveOccurred())
			defer embedder.Close()

			raw := []byte{0x89, 0x50, 0x4e, 0x47}
			emb, err := embedder.EmbedImage(ctx, raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(emb).To(Equal([]float32{0.4, 0.5}))

			Expect(gotPath).To(Equal("/embed/image"))
			images, ok := gotBody["images"].([]any)
			Expect(ok).To(BeTrue())
			Expect(images).To(HaveLen(1))
			Expect(images[0]).To(Equal(base64.StdEncoding.EncodeToString(raw)))
		})
	})

	Describe("error handling", func() {
		It("wraps non-200 responses in ErrEmbedding", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
			}))

			embedder, err := clip.NewEmbedder(clip.EmbedderConfig{BaseURL: server.URL})
			Expect(err).NotTo(HaveOccurred())

			_, err = embedder.EmbedText(ctx, "query")
			Expect(err).To(MatchError(vector.ErrEmbedding))
		})

		It("errors when the server returns no embeddings", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{}})
			}))

			embedder, err := clip.NewEmbedder(clip.EmbedderConfig{BaseURL: server.URL})
			Expect(err).NotTo(HaveOccurred())

			_, err = embedder.EmbedText(ctx, "query")
			Expect(err).To(MatchError(vector.ErrEmbedding))
		})
	})

	Describe("defaults", func() {
		It("applies the default model and base URL", func() {
			embedder, err := clip.NewEmbedder(clip.EmbedderConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(embedder).NotTo(BeNil())
		})
	})
})
