package browsecmder

import (
	"context"
	"errors"

	bubbletea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lightboxd/lightbox/pkg/cluster"
	"github.com/lightboxd/lightbox/pkg/library"
	"github.com/lightboxd/lightbox/pkg/logger"
	"github.com/lightboxd/lightbox/pkg/search"
	testutils "github.com/lightboxd/lightbox/pkg/utils/test"
	"github.com/lightboxd/lightbox/pkg/vector/memory"
)

var _ = Describe("Browse TUI model", func() {
	var model browseModel

	newLib := func() *library.Library {
		return library.New(testutils.NewMockEmbedder(), memory.NewDriver(logger.Nop()), logger.Nop())
	}

	BeforeEach(func() {
		model = newBrowseModel(context.Background(), newLib(), smbSettings{})
	})

	Describe("tab switching", func() {
		It("starts on the load tab with the path input focused", func() {
			Expect(model.tab).To(Equal(tabLoad))
			Expect(model.pathInput.Focused()).To(BeTrue())
		})

		It("cycles forward through all tabs", func() {
			m := model.switchTab(1)
			Expect(m.tab).To(Equal(tabSearch))
			Expect(m.queryInput.Focused()).To(BeTrue())

			m = m.switchTab(1)
			Expect(m.tab).To(Equal(tabCluster))

			m = m.switchTab(1)
			Expect(m.tab).To(Equal(tabLoad))
		})

		It("cycles backward from the first tab", func() {
			m := model.switchTab(-1)
			Expect(m.tab).To(Equal(tabCluster))
		})
	})

	Describe("runAction", func() {
		It("ignores enter on the load tab with an empty path", func() {
			updated, cmd := model.runAction()
			Expect(cmd).To(BeNil())
			Expect(updated.(browseModel).busy).To(BeFalse())
		})

		It("starts a load when a path is entered", func() {
			model.pathInput.SetValue("/photos")

			updated, cmd := model.runAction()
			Expect(cmd).NotTo(BeNil())
			Expect(updated.(browseModel).busy).To(BeTrue())
		})

		It("ignores enter while a previous action is running", func() {
			model.busy = true
			model.pathInput.SetValue("/photos")

			_, cmd := model.runAction()
			Expect(cmd).To(BeNil())
		})
	})

	Describe("result messages", func() {
		It("records a load summary and clears stale results", func() {
			model.busy = true
			model.results = []search.Result{{Path: "old.png"}}
			model.groups = []cluster.Group{{Label: 0}}

			updated, _ := model.Update(loadDoneMsg{
				path:    "/photos",
				summary: library.LoadSummary{Loaded: 3, Embedded: 3},
			})

			m := updated.(browseModel)
			Expect(m.busy).To(BeFalse())
			Expect(m.lastErr).To(BeNil())
			Expect(m.results).To(BeEmpty())
			Expect(m.groups).To(BeEmpty())
			Expect(m.status).To(ContainSubstring("/photos"))
		})

		It("keeps the error from a failed load", func() {
			model.busy = true

			updated, _ := model.Update(loadDoneMsg{err: errors.New("share unreachable")})

			m := updated.(browseModel)
			Expect(m.busy).To(BeFalse())
			Expect(m.lastErr).To(MatchError("share unreachable"))
		})

		It("stores search results", func() {
			updated, _ := model.Update(searchDoneMsg{
				output: &search.Output{
					Query:   "red",
					Count:   1,
					Results: []search.Result{{Path: "/photos/red.png", Score: 0.9}},
				},
			})

			m := updated.(browseModel)
			Expect(m.results).To(HaveLen(1))
			Expect(m.status).To(ContainSubstring(`"red"`))
		})

		It("stores cluster groups", func() {
			updated, _ := model.Update(clusterDoneMsg{
				groups: []cluster.Group{{Label: 0, Paths: []string{"a.png"}}},
			})

			m := updated.(browseModel)
			Expect(m.groups).To(HaveLen(1))
		})
	})

	Describe("cluster count bounds", func() {
		keyRune := func(r rune) bubbletea.KeyMsg {
			return bubbletea.KeyMsg{Type: bubbletea.KeyRunes, Runes: []rune{r}}
		}

		BeforeEach(func() {
			model = model.switchTab(1).switchTab(1)
			Expect(model.tab).To(Equal(tabCluster))
		})

		It("increments and decrements within range", func() {
			updated, _ := model.handleKey(keyRune('+'))
			Expect(updated.(browseModel).k).To(Equal(cluster.DefaultK + 1))

			updated, _ = updated.(browseModel).handleKey(keyRune('-'))
			Expect(updated.(browseModel).k).To(Equal(cluster.DefaultK))
		})

		It("never drops below the minimum", func() {
			model.k = cluster.MinK
			updated, _ := model.handleKey(keyRune('-'))
			Expect(updated.(browseModel).k).To(Equal(cluster.MinK))
		})

		It("never exceeds the maximum", func() {
			model.k = cluster.MaxK
			updated, _ := model.handleKey(keyRune('+'))
			Expect(updated.(browseModel).k).To(Equal(cluster.MaxK))
		})
	})

	Describe("in-process commands", func() {
		It("search yields zero results when nothing is loaded", func() {
			msg := model.searchCmd("anything")()
			result, ok := msg.(searchDoneMsg)
			Expect(ok).To(BeTrue())
			Expect(result.err).NotTo(HaveOccurred())
			Expect(result.output.Count).To(BeZero())
			Expect(result.output.Results).To(BeEmpty())

			updated, _ := model.Update(msg)
			Expect(updated.(browseModel).status).To(ContainSubstring("0 results"))
		})

		It("cluster fails cleanly when nothing is loaded", func() {
			msg := model.clusterCmd(3)()
			result, ok := msg.(clusterDoneMsg)
			Expect(ok).To(BeTrue())
			Expect(result.err).To(MatchError(ContainSubstring("no images loaded")))
		})

		It("load reports an error for a missing directory", func() {
			msg := model.loadCmd("/definitely/not/here")()
			result, ok := msg.(loadDoneMsg)
			Expect(ok).To(BeTrue())
			Expect(result.err).To(HaveOccurred())
		})
	})

	Describe("View", func() {
		It("renders the tab bar and image count", func() {
			view := model.View()
			Expect(view).To(ContainSubstring("lightbox"))
			Expect(view).To(ContainSubstring("Load"))
			Expect(view).To(ContainSubstring("Search"))
			Expect(view).To(ContainSubstring("Cluster"))
			Expect(view).To(ContainSubstring("0 images loaded"))
		})
	})
})
