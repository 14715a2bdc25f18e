package api

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>lightbox</title>
<style>
body { font-family: sans-serif; background: #111; color: #eee; max-width: 40em; margin: 2em auto; }
section { border: 1px solid #333; border-radius: 6px; padding: 1em; margin-bottom: 1.5em; }
h2 { margin-top: 0; }
input[type=text], input[type=number] { background: #222; color: #eee; border: 1px solid #444; padding: 0.4em; }
input[type=submit] { background: #2a6; color: #fff; border: none; padding: 0.4em 1em; border-radius: 4px; }
.status { color: #aaa; font-size: 0.9em; }
</style>
</head>
<body>
<h1>lightbox</h1>
<p class="status">{{.Count}} images loaded</p>

<section>
<h2>Load</h2>
<form method="post" action="/v1/load">
<label>Folder path or smb:// URL<br>
<input type="text" name="path" size="40" placeholder="/photos or smb://server/share/folder"></label>
<input type="submit" value="Load">
</form>
</section>

<section>
<h2>Search</h2>
<form method="get" action="/v1/search">
<label>Describe the image<br>
<input type="text" name="query" size="40" placeholder="a dog on a beach"></label>
<label>Results <input type="number" name="top_k" value="5" min="1" max="50"></label>
<input type="submit" value="Search">
</form>
</section>

<section>
<h2>Cluster</h2>
<form method="get" action="/v1/gallery">
<label>Clusters <input type="number" name="k" value="5" min="2" max="10"></label>
<input type="submit" value="View gallery">
</form>
</section>
</body>
</html>
`))

// handleIndex serves the web form UI.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, struct{ Count int }{Count: s.library.Count()})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
