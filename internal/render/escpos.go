package render

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sangkips/cactus-admin-api/internal/document"
	"github.com/sangkips/cactus-admin-api/pkg/format"
	"github.com/sangkips/cactus-admin-api/pkg/printer"
)

// Slip widths in characters.
const (
	SlipWidth58mm = 32
	SlipWidth80mm = 48
)

// ESCPOSRenderer prints the delivery note as a thermal printer slip. Images and
// the watermark are left out.
type ESCPOSRenderer struct {
	width int
}

// NewESCPOSRenderer returns a renderer for paper that fits width characters.
func NewESCPOSRenderer(width int) *ESCPOSRenderer {
	if width <= 0 {
		width = SlipWidth80mm
	}
	return &ESCPOSRenderer{width: width}
}

// ContentType implements Renderer.
func (r *ESCPOSRenderer) ContentType() string {
	return "application/octet-stream"
}

// Render implements Renderer.
func (r *ESCPOSRenderer) Render(ctx context.Context, m *document.Model) (io.WriterTo, error) {
	if m == nil {
		return nil, errors.New("render: nil model")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := printer.NewDocument(r.width)
	for _, p := range m.Pages {
		for _, s := range p.Sections {
			slipSection(doc, s)
		}
	}
	doc.FeedLines(3).PartialCut()
	return doc, nil
}

func slipSection(doc *printer.Document, s document.Section) {
	switch s.Kind {
	case document.SectionHeader:
		doc.SetAlign(printer.AlignCenter)
		slipBlocks(doc, s, s.Blocks)
		doc.SetAlign(printer.AlignLeft).Separator('=')
		return
	case document.SectionSignatures:
		slipBlocks(doc, s, s.Blocks)
		return
	}

	if s.Title != "" {
		doc.LineFeed().SetBold(true).Text(s.Title).SetBold(false)
	}
	slipBlocks(doc, s, s.Blocks)
}

func slipBlocks(doc *printer.Document, s document.Section, blocks []document.Block) {
	for _, b := range blocks {
		switch b := b.(type) {
		case document.TextBlock:
			slipText(doc, b)
		case document.Table:
			if s.Kind == document.SectionItems {
				slipItems(doc, b)
			} else {
				slipKeyValues(doc, b)
			}
		case document.SignatureBlock:
			for _, label := range b.Labels {
				doc.FeedLines(3).Text(strings.Repeat("_", doc.Width())).Text(label)
			}
		case document.Columns:
			slipBlocks(doc, s, b.Left)
			slipBlocks(doc, s, b.Right)
		}
	}
}

func slipText(doc *printer.Document, tb document.TextBlock) {
	large := tb.Size >= document.TitleFontSize
	if large {
		doc.SetFontSize(printer.FontDouble)
	}
	for _, line := range tb.Lines {
		bold := len(line.Spans) > 0 && line.Spans[0].Weight == document.WeightSemiBold
		if tb.Align == document.AlignRight && len(line.Spans) == 2 && !large {
			doc.SetBold(bold).KeyValue(strings.TrimSpace(line.Spans[0].Text), line.Spans[1].Text).SetBold(false)
			continue
		}
		doc.SetBold(bold).Text(line.Text()).SetBold(false)
	}
	if large {
		doc.SetFontSize(printer.FontNormal)
	}
}

func slipKeyValues(doc *printer.Document, t document.Table) {
	if len(t.Rows) == 0 {
		return
	}
	row := t.Rows[0]
	for i, c := range t.Columns {
		if i < len(row.Cells) {
			doc.KeyValue(c.Header, row.Cells[i])
		}
	}
}

// slipItems prints "quantity x article (unit)" with the line total, and the unit
// price underneath. It expects the six item columns.
func slipItems(doc *printer.Document, t document.Table) {
	doc.Separator('-')
	for _, row := range t.Rows {
		if row.Placeholder || len(row.Cells) < 6 {
			doc.Text(strings.Join(row.Cells, " "))
			continue
		}
		name := row.Cells[1]
		if unit := row.Cells[2]; unit != "" && unit != format.Placeholder {
			name += " (" + unit + ")"
		}
		doc.ItemLine(row.Cells[3], name, row.Cells[5])
		doc.Text("  à " + row.Cells[4])
	}
	doc.Separator('-')
}
