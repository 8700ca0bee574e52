// Package render turns a document.Model into bytes: a PDF for download, an HTML
// page for the browser preview, or an ESC/POS slip for a thermal printer.
package render

import (
	"context"
	"io"

	"github.com/sangkips/cactus-admin-api/internal/document"
)

// Renderer lays out a model. Layout errors are returned by Render, before any byte
// has been written; the returned WriterTo then only serializes and must be
// written exactly once.
type Renderer interface {
	Render(ctx context.Context, m *document.Model) (io.WriterTo, error)
	ContentType() string
}

// countingWriter records how many bytes went through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
