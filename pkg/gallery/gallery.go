// Package gallery renders cluster results as a self-contained HTML page
// with inline base64 thumbnails, so results can be viewed in any browser
// without serving the original files.
package gallery

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"log/slog"

	xdraw "golang.org/x/image/draw"

	"github.com/lightboxd/lightbox/pkg/cluster"
)

// ThumbnailSize is the bounding box edge for gallery thumbnails in pixels.
const ThumbnailSize = 160

type galleryGroup struct {
	Label  int
	Images []galleryImage
}

type galleryImage struct {
	Path    string
	DataURI template.URL
}

var pageTemplate = template.Must(template.New("gallery").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>lightbox clusters</title>
<style>
body { font-family: sans-serif; background: #111; color: #eee; margin: 2em; }
h2 { border-bottom: 1px solid #444; padding-bottom: 0.3em; }
.group { margin-bottom: 2em; }
.thumbs { display: flex; flex-wrap: wrap; gap: 8px; }
figure { margin: 0; width: {{.ThumbSize}}px; }
img { max-width: {{.ThumbSize}}px; max-height: {{.ThumbSize}}px; border-radius: 4px; }
figcaption { font-size: 0.7em; word-break: break-all; color: #aaa; }
</style>
</head>
<body>
<h1>Image clusters</h1>
{{range .Groups}}
<div class="group">
<h2>Cluster {{.Label}}</h2>
<div class="thumbs">
{{range .Images}}
<figure>
<img src="{{.DataURI}}" alt="{{.Path}}">
<figcaption>{{.Path}}</figcaption>
</figure>
{{end}}
</div>
</div>
{{end}}
</body>
</html>
`))

// ImageLookup resolves an image path to its decoded pixels. Missing or
// undecodable images are skipped from the rendered page.
type ImageLookup func(path string) (image.Image, bool)

// Render produces the HTML gallery page for the given cluster groups.
func Render(groups []cluster.Group, lookup ImageLookup, logger *slog.Logger) ([]byte, error) {
	page := struct {
		ThumbSize int
		Groups    []galleryGroup
	}{ThumbSize: ThumbnailSize}

	for _, g := range groups {
		gg := galleryGroup{Label: g.Label}
		for _, path := range g.Paths {
			img, ok := lookup(path)
			if !ok {
				logger.Warn("image missing from library, skipping thumbnail", "path", path)
				continue
			}

			uri, err := thumbnailDataURI(img)
			if err != nil {
				logger.Warn("failed to render thumbnail", "path", path, "error", err)
				continue
			}

			gg.Images = append(gg.Images, galleryImage{Path: path, DataURI: uri})
		}
		page.Groups = append(page.Groups, gg)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("rendering gallery page: %w", err)
	}

	return buf.Bytes(), nil
}

// thumbnailDataURI scales the image to fit the thumbnail bounding box and
// encodes it as a base64 PNG data URI.
func thumbnailDataURI(src image.Image) (template.URL, error) {
	thumb := scale(src, ThumbnailSize)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return "", fmt.Errorf("encoding thumbnail: %w", err)
	}

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return template.URL(uri), nil
}

// scale fits src inside a maxEdge square, preserving aspect ratio. Images
// already within bounds are returned unchanged.
func scale(src image.Image, maxEdge int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
