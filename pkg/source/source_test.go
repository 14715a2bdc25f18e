package source_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lightboxd/lightbox/pkg/source"
)

var _ = Describe("IsImagePath", func() {
	It("accepts the supported extensions", func() {
		Expect(source.IsImagePath("photo.png")).To(BeTrue())
		Expect(source.IsImagePath("photo.jpg")).To(BeTrue())
		Expect(source.IsImagePath("photo.jpeg")).To(BeTrue())
		Expect(source.IsImagePath("photo.gif")).To(BeTrue())
		Expect(source.IsImagePath("photo.webp")).To(BeTrue())
		Expect(source.IsImagePath("photo.bmp")).To(BeTrue())
	})

	It("is case insensitive", func() {
		Expect(source.IsImagePath("PHOTO.PNG")).To(BeTrue())
		Expect(source.IsImagePath("Photo.JpEg")).To(BeTrue())
	})

	It("rejects other extensions", func() {
		Expect(source.IsImagePath("notes.txt")).To(BeFalse())
		Expect(source.IsImagePath("archive.tar.gz")).To(BeFalse())
		Expect(source.IsImagePath("noext")).To(BeFalse())
	})
})

var _ = Describe("IsSMBURL", func() {
	It("recognizes smb:// URLs", func() {
		Expect(source.IsSMBURL("smb://nas.local/photos")).To(BeTrue())
		Expect(source.IsSMBURL("/home/user/photos")).To(BeFalse())
		Expect(source.IsSMBURL("http://example.com")).To(BeFalse())
	})
})
