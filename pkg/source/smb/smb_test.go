package smb_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lightboxd/lightbox/pkg/logger"
	"github.com/lightboxd/lightbox/pkg/source/smb"
)

var _ = Describe("ParseURL", func() {
	It("parses server, share, and path", func() {
		server, port, share, rel, err := smb.ParseURL("smb://ds912.local/images/holidays/2024")
		Expect(err).NotTo(HaveOccurred())
		Expect(server).To(Equal("ds912.local"))
		Expect(port).To(BeZero())
		Expect(share).To(Equal("images"))
		Expect(rel).To(Equal("holidays/2024"))
	})

	It("splits a port out of the server segment", func() {
		server, port, share, rel, err := smb.ParseURL("smb://nas:1445/photos/raw")
		Expect(err).NotTo(HaveOccurred())
		Expect(server).To(Equal("nas"))
		Expect(port).To(Equal(1445))
		Expect(share).To(Equal("photos"))
		Expect(rel).To(Equal("raw"))
	})

	It("parses a share root", func() {
		server, port, share, rel, err := smb.ParseURL("smb://nas/photos")
		Expect(err).NotTo(HaveOccurred())
		Expect(server).To(Equal("nas"))
		Expect(port).To(BeZero())
		Expect(share).To(Equal("photos"))
		Expect(rel).To(BeEmpty())
	})

	It("tolerates a trailing slash", func() {
		server, _, share, rel, err := smb.ParseURL("smb://nas/photos/")
		Expect(err).NotTo(HaveOccurred())
		Expect(server).To(Equal("nas"))
		Expect(share).To(Equal("photos"))
		Expect(rel).To(BeEmpty())
	})

	It("rejects non-SMB URLs", func() {
		_, _, _, _, err := smb.ParseURL("/local/path")
		Expect(err).To(HaveOccurred())
	})

	It("rejects URLs without a share", func() {
		_, _, _, _, err := smb.ParseURL("smb://serveronly")
		Expect(err).To(HaveOccurred())

		_, _, _, _, err = smb.ParseURL("smb://serveronly/")
		Expect(err).To(HaveOccurred())
	})

	It("rejects a malformed port", func() {
		_, _, _, _, err := smb.ParseURL("smb://nas:files/photos")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewSource", func() {
	It("fails fast when the server is unreachable", func() {
		_, err := smb.NewSource(smb.Config{
			URL:      "smb://127.0.0.1/share",
			Username: "guest",
			Port:     1, // nothing listens here
		}, logger.Nop())
		Expect(err).To(HaveOccurred())
	})
})
