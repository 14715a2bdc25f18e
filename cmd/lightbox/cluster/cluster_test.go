package clustercmder_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lightboxd/lightbox/api"
	clustercmder "github.com/lightboxd/lightbox/cmd/lightbox/cluster"
	"github.com/lightboxd/lightbox/pkg/cluster"
)

var _ = Describe("NewClusterCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := clustercmder.NewClusterCmd()
		Expect(cmd.Use).To(Equal("cluster"))
	})

	It("rejects positional arguments", func() {
		cmd := clustercmder.NewClusterCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})

	It("defaults --k to the standard cluster count", func() {
		cmd := clustercmder.NewClusterCmd()
		f := cmd.Flags().Lookup("k")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal("5"))
	})
})

var _ = Describe("ClusterAPI", func() {
	It("sends k and parses the groups", func() {
		var gotK string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/v1/cluster"))
			gotK = r.URL.Query().Get("k")

			_ = json.NewEncoder(w).Encode(api.ClusterResponse{
				K: 2,
				Groups: []cluster.Group{
					{Label: 0, Paths: []string{"/photos/red.png"}},
					{Label: 1, Paths: []string{"/photos/blue.png"}},
				},
			})
		}))
		defer server.Close()

		resp, err := clustercmder.ClusterAPI(server.URL, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(gotK).To(Equal("2"))
		Expect(resp.K).To(Equal(2))
		Expect(resp.Groups).To(HaveLen(2))
	})

	It("surfaces non-200 responses with the body", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"no images loaded"}`))
		}))
		defer server.Close()

		_, err := clustercmder.ClusterAPI(server.URL, 5)
		Expect(err).To(MatchError(ContainSubstring("HTTP 409")))
	})

	It("fails when the server is unreachable", func() {
		_, err := clustercmder.ClusterAPI("http://127.0.0.1:1", 5)
		Expect(err).To(MatchError(ContainSubstring("failed to connect")))
	})
})
