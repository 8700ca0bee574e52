package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"github.com/sangkips/cactus-admin-api/internal/document"
)

// Page geometry in points.
const (
	padTop    = 20
	padBottom = 20
	padX      = 26

	lineHeight      = 1.3
	cellLineHeight  = 1.2
	cellPadY        = 3.5
	gridCellPadX    = 5
	rowsCellPadX    = 4
	headerGapAfter  = 15
	titleGapBefore  = 8
	titleGapAfter   = 5
	itemsTableGap   = 7
	imageGapAfter   = 5
	signatureWidth  = 42
	signatureLabelY = 4
)

var spaceBefore = map[document.SectionKind]float64{
	document.SectionMeta:       10,
	document.SectionSubtotal:   6,
	document.SectionSignatures: 70,
}

type rgb struct{ r, g, b int }

var (
	colorText     = rgb{17, 24, 39}
	colorBorder   = rgb{203, 213, 225}
	colorHeadFill = rgb{238, 242, 247}
	colorRowRule  = rgb{229, 231, 235}
)

var pageSizes = map[document.PageSize]fpdf.SizeType{
	document.PageA4: {Wd: 595.28, Ht: 841.89},
}

// PDFRenderer writes delivery notes as PDF.
type PDFRenderer struct {
	fonts    *Fonts
	assets   AssetLoader
	author   string
	compress bool
	log      zerolog.Logger
}

// NewPDFRenderer returns a renderer that sets every document in fonts and loads
// images through assets. author is written into the PDF metadata.
func NewPDFRenderer(fonts *Fonts, assets AssetLoader, author string, log zerolog.Logger) *PDFRenderer {
	return &PDFRenderer{
		fonts:    fonts,
		assets:   assets,
		author:   author,
		compress: true,
		log:      log.With().Str("component", "pdf_renderer").Logger(),
	}
}

// ContentType implements Renderer.
func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

// Render implements Renderer. A missing font fails the render. A missing image is
// logged and left out.
func (r *PDFRenderer) Render(ctx context.Context, m *document.Model) (io.WriterTo, error) {
	if m == nil {
		return nil, errors.New("render: nil model")
	}
	for _, p := range m.Pages {
		if _, ok := pageSizes[p.Size]; !ok {
			return nil, fmt.Errorf("render: unsupported page size %q", p.Size)
		}
	}

	faces, err := r.fonts.Load()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", string(document.PageA4), "")
	pdf.SetCompression(r.compress)
	for _, weight := range fontWeights {
		pdf.AddUTF8FontFromBytes(familyFor(weight), "", faces[weight])
	}
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, pdf.Error())
	}

	pdf.SetTitle(m.Title, true)
	pdf.SetSubject(m.Subject, true)
	pdf.SetAuthor(r.author, true)
	pdf.SetCreator(r.author, true)
	if !m.IssuedAt.IsZero() {
		pdf.SetCreationDate(m.IssuedAt)
		pdf.SetModificationDate(m.IssuedAt)
	}
	pdf.SetMargins(padX, padTop, padX)
	pdf.SetAutoPageBreak(false, padBottom)

	l := &layout{pdf: pdf, images: r.registerImages(ctx, pdf, m)}
	pdf.SetHeaderFuncMode(l.drawWatermark, true)
	for _, p := range m.Pages {
		l.page(p)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("render: layout %s: %w", m.FileName, pdf.Error())
	}
	return &pdfOutput{pdf: pdf}, nil
}

// registerImages loads every image the model references once and returns the
// PDF image name per reference. Images that fail to load are absent from the map.
func (r *PDFRenderer) registerImages(ctx context.Context, pdf *fpdf.Fpdf, m *document.Model) map[string]string {
	names := make(map[string]string)
	for i, ref := range imageRefs(m) {
		asset, err := r.assets.Load(ctx, ref)
		if err != nil {
			r.log.Warn().Err(err).Str("ref", ref).Msg("image skipped")
			continue
		}

		name := fmt.Sprintf("img%d", i)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: asset.PDFType}, bytes.NewReader(asset.Data))
		if pdf.Err() {
			r.log.Warn().Err(pdf.Error()).Str("ref", ref).Msg("image could not be embedded")
			pdf.ClearError()
			continue
		}
		names[ref] = name
	}
	return names
}

// imageRefs lists the distinct image references of m in first-use order.
func imageRefs(m *document.Model) []string {
	var refs []string
	seen := make(map[string]bool)
	add := func(ref string) {
		if ref != "" && !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	var walk func([]document.Block)
	walk = func(blocks []document.Block) {
		for _, b := range blocks {
			switch b := b.(type) {
			case document.Image:
				add(b.Ref)
			case document.Columns:
				walk(b.Left)
				walk(b.Right)
			}
		}
	}

	for _, p := range m.Pages {
		if p.Watermark != nil {
			add(p.Watermark.Ref)
		}
		for _, s := range p.Sections {
			walk(s.Blocks)
		}
	}
	return refs
}

type pdfOutput struct {
	pdf *fpdf.Fpdf
}

func (o *pdfOutput) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := o.pdf.Output(cw)
	return cw.n, err
}

// layout places blocks top to bottom and starts a new page when the next
// element would cross the bottom margin.
type layout struct {
	pdf       *fpdf.Fpdf
	images    map[string]string
	size      fpdf.SizeType
	watermark *document.Image
}

func (l *layout) page(p document.Page) {
	l.size = pageSizes[p.Size]
	l.watermark = p.Watermark
	l.newPage()

	for _, s := range p.Sections {
		l.section(s)
	}
}

func (l *layout) newPage() {
	l.pdf.AddPageFormat("P", l.size)
	l.pdf.SetTextColor(colorText.r, colorText.g, colorText.b)
	l.pdf.SetLineWidth(1)
}

// drawWatermark runs at the start of every page, before any content.
func (l *layout) drawWatermark() {
	wm := l.watermark
	if wm == nil {
		return
	}
	name, ok := l.images[wm.Ref]
	if !ok {
		return
	}

	w, h := l.pdf.GetPageSize()
	l.pdf.SetAlpha(wm.Opacity, "Normal")
	l.pdf.ImageOptions(name, (w-wm.Width)/2, (h-wm.Height)/2, wm.Width, wm.Height, false, fpdf.ImageOptions{}, 0, "")
	l.pdf.SetAlpha(1, "Normal")
}

func (l *layout) contentWidth() float64 {
	return l.size.Wd - 2*padX
}

func (l *layout) limit() float64 {
	return l.size.Ht - padBottom
}

// ensure starts a new page unless h more points fit on the current one.
func (l *layout) ensure(h float64) {
	if l.pdf.GetY()+h > l.limit() {
		l.newPage()
	}
}

func (l *layout) advance(dy float64) {
	l.pdf.SetY(l.pdf.GetY() + dy)
}

func (l *layout) setFont(weight document.FontWeight, size float64) {
	l.pdf.SetFont(familyFor(weight), "", size)
}

func (l *layout) section(s document.Section) {
	l.advance(spaceBefore[s.Kind])

	if s.Title != "" {
		title := document.TextBlock{
			Size:  document.SectionTitleFontSize,
			Lines: []document.Line{{Spans: []document.Span{{Text: s.Title, Weight: document.WeightSemiBold}}}},
		}
		// A title moves to the next page together with the header and first
		// row of the table below it.
		l.ensure(titleGapBefore + l.textHeight(title, l.contentWidth()) + titleGapAfter + l.leadHeight(s))
		l.advance(titleGapBefore)
		l.text(title, padX, l.contentWidth())
		l.advance(titleGapAfter)
	}

	for _, b := range s.Blocks {
		if t, ok := b.(document.Table); ok && s.Kind == document.SectionItems {
			l.advance(itemsTableGap)
			l.table(t, padX, l.contentWidth())
			continue
		}
		l.block(b, padX, l.contentWidth())
	}

	if s.Kind == document.SectionHeader {
		l.advance(headerGapAfter)
	}
}

// leadHeight is the room the first block of s needs before its first page
// break: a table's gap, header row and first body row.
func (l *layout) leadHeight(s document.Section) float64 {
	if len(s.Blocks) == 0 {
		return 0
	}
	t, ok := s.Blocks[0].(document.Table)
	if !ok {
		return 0
	}
	h := l.tableLead(t, l.contentWidth())
	if s.Kind == document.SectionItems {
		h += itemsTableGap
	}
	return h
}

func (l *layout) block(b document.Block, x, w float64) {
	switch b := b.(type) {
	case document.TextBlock:
		l.text(b, x, w)
	case document.Table:
		l.table(b, x, w)
	case document.Image:
		l.image(b, x, w)
	case document.SignatureBlock:
		l.signatures(b, x, w)
	case document.Columns:
		l.columns(b, x, w)
	}
}

func (l *layout) columns(c document.Columns, x, w float64) {
	leftW := w * c.LeftWidth / 100
	top := l.pdf.GetY()

	for _, b := range c.Left {
		l.block(b, x, leftW)
	}
	leftBottom := l.pdf.GetY()

	l.pdf.SetY(top)
	for _, b := range c.Right {
		l.block(b, x+leftW, w-leftW)
	}
	if leftBottom > l.pdf.GetY() {
		l.pdf.SetY(leftBottom)
	}
}

func (l *layout) image(img document.Image, x, w float64) {
	name, ok := l.images[img.Ref]
	if !ok {
		return
	}
	l.ensure(img.Height)

	ix := x
	switch img.Align {
	case document.AlignRight:
		ix = x + w - img.Width
	case document.AlignCenter:
		ix = x + (w-img.Width)/2
	}
	y := l.pdf.GetY()
	l.pdf.ImageOptions(name, ix, y, img.Width, img.Height, false, fpdf.ImageOptions{}, 0, "")
	l.pdf.SetY(y + img.Height + imageGapAfter)
}

// run is a piece of a visual line in one weight.
type run struct {
	text   string
	weight document.FontWeight
	width  float64
}

func textSize(tb document.TextBlock) float64 {
	if tb.Size == 0 {
		return document.BaseFontSize
	}
	return tb.Size
}

func (l *layout) textHeight(tb document.TextBlock, w float64) float64 {
	size := textSize(tb)
	var n int
	for _, line := range tb.Lines {
		n += len(l.wrap(line.Spans, size, w))
	}
	return float64(n) * size * lineHeight
}

func (l *layout) text(tb document.TextBlock, x, w float64) {
	size := textSize(tb)
	lh := size * lineHeight

	for _, line := range tb.Lines {
		for _, runs := range l.wrap(line.Spans, size, w) {
			l.ensure(lh)
			l.drawRuns(runs, x, w, size, lh, tb.Align)
		}
	}
}

// wrap breaks spans into visual lines no wider than w. Newlines force a break.
// A word wider than w is split between runes.
func (l *layout) wrap(spans []document.Span, size, w float64) [][]run {
	var lines [][]run
	var cur []run
	var curW float64

	flush := func() {
		if n := len(cur); n > 0 {
			last := &cur[n-1]
			last.text = strings.TrimRight(last.text, " ")
			l.setFont(last.weight, size)
			last.width = l.pdf.GetStringWidth(last.text)
		}
		lines = append(lines, cur)
		cur, curW = nil, 0
	}

	for _, sp := range spans {
		l.setFont(sp.Weight, size)
		for i, para := range strings.Split(sp.Text, "\n") {
			if i > 0 {
				flush()
				l.setFont(sp.Weight, size)
			}
			for _, word := range strings.SplitAfter(para, " ") {
				if word == "" {
					continue
				}
				ww := l.pdf.GetStringWidth(word)
				if curW+ww > w && len(cur) > 0 {
					flush()
					l.setFont(sp.Weight, size)
					word = strings.TrimLeft(word, " ")
				}
				for len(cur) == 0 && l.pdf.GetStringWidth(strings.TrimRight(word, " ")) > w {
					head := l.fitRunes(word, w)
					cur = append(cur, run{text: head, weight: sp.Weight, width: l.pdf.GetStringWidth(head)})
					flush()
					l.setFont(sp.Weight, size)
					word = word[len(head):]
				}
				if word == "" {
					continue
				}
				ww = l.pdf.GetStringWidth(word)
				cur = append(cur, run{text: word, weight: sp.Weight, width: ww})
				curW += ww
			}
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// fitRunes returns the longest prefix of s no wider than w, and at least its
// first rune.
func (l *layout) fitRunes(s string, w float64) string {
	end := 0
	for i, r := range s {
		next := i + utf8.RuneLen(r)
		if end > 0 && l.pdf.GetStringWidth(s[:next]) > w {
			break
		}
		end = next
	}
	return s[:end]
}

func (l *layout) drawRuns(runs []run, x, w, size, lh float64, align document.Align) {
	var total float64
	for _, r := range runs {
		total += r.width
	}

	start := x
	switch align {
	case document.AlignRight:
		start = x + w - total
	case document.AlignCenter:
		start = x + (w-total)/2
	}

	y := l.pdf.GetY()
	l.pdf.SetXY(start, y)
	for _, r := range runs {
		l.setFont(r.weight, size)
		l.pdf.CellFormat(r.width, lh, r.text, "", 0, "L", false, 0, "")
	}
	l.pdf.SetXY(x, y+lh)
}

type tableStyle struct {
	padX       float64
	headSize   float64
	bodySize   float64
	verticals  bool
	bodyRule   *rgb
	headerFill rgb
}

func styleFor(s document.TableStyle) tableStyle {
	if s == document.TableGrid {
		return tableStyle{
			padX:       gridCellPadX,
			headSize:   document.MetaHeadFontSize,
			bodySize:   document.MetaBodyFontSize,
			verticals:  true,
			headerFill: colorHeadFill,
		}
	}
	return tableStyle{
		padX:       rowsCellPadX,
		headSize:   document.BaseFontSize,
		bodySize:   document.BaseFontSize,
		bodyRule:   &colorRowRule,
		headerFill: colorHeadFill,
	}
}

type cellRow struct {
	lines  [][]string
	widths []float64
	aligns []document.Align
	height float64
}

// table draws t and repeats its header row on every page it spills onto.
func (l *layout) table(t document.Table, x, w float64) {
	st := styleFor(t.Style)
	widths, aligns, headers := tableColumns(t, w)

	header := l.measure(headers, widths, aligns, document.WeightSemiBold, st.headSize, st.padX)
	drawHeader := func() {
		l.hline(x, w, colorBorder)
		l.drawRow(header, x, document.WeightSemiBold, st.headSize, st, &st.headerFill, &colorBorder)
	}

	l.ensure(l.tableLead(t, w))
	drawHeader()

	for i, row := range t.Rows {
		cr := l.measureRow(row, widths, aligns, st, w)
		if l.pdf.GetY()+cr.height > l.limit() {
			l.hline(x, w, colorBorder)
			l.newPage()
			drawHeader()
		}

		rule := st.bodyRule
		if i == len(t.Rows)-1 {
			rule = nil
		}
		l.drawRow(cr, x, document.WeightLight, st.bodySize, st, nil, rule)
	}
	l.hline(x, w, colorBorder)
}

func tableColumns(t document.Table, w float64) ([]float64, []document.Align, []string) {
	widths := make([]float64, len(t.Columns))
	aligns := make([]document.Align, len(t.Columns))
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = w * c.Width / 100
		aligns[i] = c.Align
		headers[i] = c.Header
	}
	return widths, aligns, headers
}

// tableLead is the height of t's header row plus its first body row.
func (l *layout) tableLead(t document.Table, w float64) float64 {
	st := styleFor(t.Style)
	widths, aligns, headers := tableColumns(t, w)

	h := l.measure(headers, widths, aligns, document.WeightSemiBold, st.headSize, st.padX).height
	if len(t.Rows) > 0 {
		h += l.measureRow(t.Rows[0], widths, aligns, st, w).height
	}
	return h
}

func (l *layout) measureRow(row document.Row, widths []float64, aligns []document.Align, st tableStyle, w float64) cellRow {
	if row.Placeholder {
		text := ""
		if len(row.Cells) > 0 {
			text = row.Cells[0]
		}
		return l.measure([]string{text}, []float64{w}, []document.Align{document.AlignLeft}, document.WeightLight, st.bodySize, st.padX)
	}
	return l.measure(row.Cells, widths, aligns, document.WeightLight, st.bodySize, st.padX)
}

func (l *layout) measure(cells []string, widths []float64, aligns []document.Align, weight document.FontWeight, size, cellPadX float64) cellRow {
	l.setFont(weight, size)

	cr := cellRow{lines: make([][]string, len(widths)), widths: widths, aligns: aligns}
	maxLines := 1
	for i := range widths {
		var text string
		if i < len(cells) {
			text = cells[i]
		}
		lines := l.pdf.SplitText(text, widths[i]-2*cellPadX)
		if len(lines) == 0 {
			lines = []string{""}
		}
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
		cr.lines[i] = lines
	}
	cr.height = float64(maxLines)*size*cellLineHeight + 2*cellPadY
	return cr
}

// drawRow draws one row at the current position. fill and rule are optional.
func (l *layout) drawRow(cr cellRow, x float64, weight document.FontWeight, size float64, st tableStyle, fill, rule *rgb) {
	y := l.pdf.GetY()
	var total float64
	for _, w := range cr.widths {
		total += w
	}

	if fill != nil {
		l.pdf.SetFillColor(fill.r, fill.g, fill.b)
		l.pdf.Rect(x, y, total, cr.height, "F")
	}

	l.setFont(weight, size)
	lh := size * cellLineHeight
	cx := x
	for i, lines := range cr.lines {
		cw := cr.widths[i] - 2*st.padX
		for j, line := range lines {
			l.pdf.SetXY(cx+st.padX, y+cellPadY+float64(j)*lh)
			l.pdf.CellFormat(cw, lh, line, "", 0, string(cr.aligns[i]), false, 0, "")
		}
		cx += cr.widths[i]
	}

	l.pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)
	l.pdf.Line(x, y, x, y+cr.height)
	l.pdf.Line(x+total, y, x+total, y+cr.height)
	if st.verticals {
		cx = x
		for _, w := range cr.widths[:len(cr.widths)-1] {
			cx += w
			l.pdf.Line(cx, y, cx, y+cr.height)
		}
	}
	if rule != nil {
		l.hlineAt(x, y+cr.height, total, *rule)
	}

	l.pdf.SetXY(x, y+cr.height)
}

func (l *layout) hline(x, w float64, c rgb) {
	l.hlineAt(x, l.pdf.GetY(), w, c)
}

func (l *layout) hlineAt(x, y, w float64, c rgb) {
	l.pdf.SetDrawColor(c.r, c.g, c.b)
	l.pdf.Line(x, y, x+w, y)
}

func (l *layout) signatures(sb document.SignatureBlock, x, w float64) {
	n := len(sb.Labels)
	if n == 0 {
		return
	}
	lh := document.SignatureFontSize * lineHeight
	l.ensure(signatureLabelY + lh)

	bw := w * signatureWidth / 100
	step := 0.0
	if n > 1 {
		step = (w - bw) / float64(n-1)
	}

	y := l.pdf.GetY()
	l.pdf.SetDrawColor(colorText.r, colorText.g, colorText.b)
	l.setFont(document.WeightSemiBold, document.SignatureFontSize)
	for i, label := range sb.Labels {
		bx := x + float64(i)*step
		l.pdf.Line(bx, y, bx+bw, y)
		l.pdf.SetXY(bx, y+signatureLabelY)
		l.pdf.CellFormat(bw, lh, label, "", 0, "L", false, 0, "")
	}
	l.pdf.SetXY(x, y+signatureLabelY+lh)
}
