package printer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
	FontWide   = 0x10 // Double width only
	FontTall   = 0x01 // Double height only
)

// codePagePC858 selects the Western European table that carries the euro sign and umlauts.
const codePagePC858 = 19

// Document builds an ESC/POS byte stream for thermal printers. Text is passed in
// as UTF-8 and written in code page 858; characters outside it print as '?'.
type Document struct {
	buf   bytes.Buffer
	width int // print width in characters (default 32 for 58mm, 48 for 80mm)
	enc   *encoding.Encoder
}

// NewDocument creates a new ESC/POS document with the given character width.
// Common widths: 32 for 58mm paper, 48 for 80mm paper.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{
		width: charWidth,
		enc:   encoding.ReplaceUnsupported(charmap.CodePage858.NewEncoder()),
	}
	d.Init()
	return d
}

// Width returns the line width in characters.
func (d *Document) Width() int {
	return d.width
}

// Init resets the printer (ESC @) and selects code page 858.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	d.buf.Write([]byte{ESC, 't', codePagePC858})
	return d
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble, FontWide, or FontTall.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed. Lines longer than the
// paper width are wrapped at word boundaries.
func (d *Document) Text(s string) *Document {
	for _, line := range Wrap(s, d.width) {
		d.writeString(line)
		d.buf.WriteByte(LF)
	}
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width separator line (e.g. "--------------------------------").
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "Zwischensumme          20,00 €"
func (d *Document) KeyValue(key, value string) *Document {
	spaces := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if spaces < 1 {
		spaces = 1
	}
	d.writeString(key + strings.Repeat(" ", spaces) + value)
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints a line item: quantity x name, then the right-aligned total.
// Names that do not fit are wrapped and the total goes on the last line.
// Example: "2 x Widget              20,00 €"
func (d *Document) ItemLine(qty, name, total string) *Document {
	prefix := fmt.Sprintf("%s x %s", qty, name)
	room := d.width - utf8.RuneCountInString(total) - 1
	lines := Wrap(prefix, room)
	for _, l := range lines[:len(lines)-1] {
		d.writeString(l)
		d.buf.WriteByte(LF)
	}
	return d.KeyValue(lines[len(lines)-1], total)
}

// Cut sends the paper cut command (full cut).
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// WriteTo writes the byte stream to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.buf.Bytes())
	return int64(n), err
}

// Reset clears the buffer and reinitializes the document.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.Init()
	return d
}

func (d *Document) writeString(s string) {
	encoded, err := d.enc.String(s)
	if err != nil {
		encoded = s
	}
	d.buf.WriteString(encoded)
}

// Wrap splits s into lines of at most width runes, breaking on spaces where
// possible. It always returns at least one line.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		var cur string
		for _, w := range words {
			for utf8.RuneCountInString(w) > width {
				if cur != "" {
					lines = append(lines, cur)
					cur = ""
				}
				r := []rune(w)
				lines = append(lines, string(r[:width]))
				w = string(r[width:])
			}
			if w == "" {
				continue
			}
			switch {
			case cur == "":
				cur = w
			case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) <= width:
				cur += " " + w
			default:
				lines = append(lines, cur)
				cur = w
			}
		}
		lines = append(lines, cur)
	}
	return lines
}
