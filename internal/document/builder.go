package document

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	"github.com/sangkips/cactus-admin-api/pkg/format"
)

// ErrMissingOrder is returned by Build when no order is given.
var ErrMissingOrder = errors.New("document: order is required")

// Labels printed on the delivery note.
const (
	Title             = "Lieferschein"
	LabelPhone        = "Tel: "
	LabelEmail        = "E-Mail: "
	LabelWebsite      = "Website: "
	LabelOwner        = "Inhaber: "
	LabelRecipient    = "Empfänger (Kunde)"
	LabelInstructions = "Lieferhinweis"
	LabelNoNote       = "Kein Hinweis."
	LabelNoItems      = "Keine Artikel vorhanden."
	LabelSubtotal     = "Zwischensumme (inkl. MwSt.): "
	LabelSignDriver   = "Unterschrift Fahrer"
	LabelSignCustomer = "Unterschrift Kunde"
)

var metaHeaders = []string{"Kundennummer", "Lieferschein-Nr.", "Datum", "Bestellung erstellt", "Zahlungsart"}

var itemHeaders = [6]string{"Pos.", "Artikel", "Einheit", "Menge", "Einzelpreis (inkl. MwSt.)", "Gesamt (inkl. MwSt.)"}

var itemAligns = [6]Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight}

// Letterhead is the issuing company block in the page header.
type Letterhead struct {
	Name    string
	Street  string
	City    string
	Country string
	Phone   string
	Email   string
	Website string
}

// Builder assembles delivery note models. It holds no per-request state and is
// safe for concurrent use.
type Builder struct {
	letterhead Letterhead
	loc        *time.Location
}

// NewBuilder returns a Builder that prints letterhead and formats dates in loc.
// A nil loc formats in UTC.
func NewBuilder(letterhead Letterhead, loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{letterhead: letterhead, loc: loc}
}

// FileName is the download name of the delivery note for an order.
func FileName(orderID int64) string {
	return fmt.Sprintf("lieferschein_%d.pdf", orderID)
}

// Build lays out the delivery note for order. items must already be normalized;
// nil items are treated as an empty list. customer may be nil. logoRef is the
// absolute logo URL used for the header logo and the watermark; when it is empty
// neither is drawn.
func (b *Builder) Build(order *entity.Order, items []entity.OrderItem, customer *entity.Customer, logoRef string) (*Model, error) {
	if order == nil {
		return nil, ErrMissingOrder
	}

	page := Page{Size: PageA4}
	if logoRef != "" {
		page.Watermark = &Image{
			Ref:     logoRef,
			Width:   WatermarkSize,
			Height:  WatermarkSize,
			Opacity: WatermarkOpacity,
			Align:   AlignCenter,
		}
	}

	page.Sections = append(page.Sections,
		b.header(logoRef),
		recipient(order, customer),
		b.meta(order),
	)
	page.Sections = append(page.Sections,
		instructions(order),
		itemsSection(order, items),
		subtotal(order, items),
		signatures(),
	)

	model := &Model{
		Title:    Title,
		Subject:  fmt.Sprintf("%s #%d", Title, order.ID),
		FileName: FileName(order.ID),
		Pages:    []Page{page},
	}
	if t, ok := format.ParseTimestamp(order.CreatedAt); ok {
		model.IssuedAt = t.In(b.loc)
	}
	return model, nil
}

func (b *Builder) header(logoRef string) Section {
	lh := b.letterhead
	company := []Block{
		TextBlock{Size: CompanyNameFontSize, Lines: []Line{plain(lh.Name, WeightSemiBold)}},
	}

	var lines []Line
	for _, s := range []string{lh.Street, lh.City, lh.Country} {
		if s != "" {
			lines = append(lines, plain(s, WeightLight))
		}
	}
	lines = appendLabelled(lines, LabelPhone, lh.Phone)
	lines = appendLabelled(lines, LabelEmail, lh.Email)
	lines = appendLabelled(lines, LabelWebsite, lh.Website)
	company = append(company, TextBlock{Lines: lines})

	var right []Block
	if logoRef != "" {
		right = append(right, Image{Ref: logoRef, Width: LogoSize, Height: LogoSize, Opacity: 1, Align: AlignRight})
	}
	right = append(right, TextBlock{
		Size:  TitleFontSize,
		Align: AlignRight,
		Lines: []Line{plain(Title, WeightSemiBold)},
	})

	return Section{
		Kind:   SectionHeader,
		Blocks: []Block{Columns{Left: company, Right: right, LeftWidth: HeaderLeftWidth}},
	}
}

func recipient(order *entity.Order, customer *entity.Customer) Section {
	name := strings.TrimSpace(order.CustomerNumber)
	if customer != nil {
		if n := entity.Field(customer.Name); n != "" {
			name = n
		}
	}
	if name == "" {
		name = format.Placeholder
	}

	lines := []Line{plain(name, WeightSemiBold)}
	if customer != nil {
		lines = appendLabelled(lines, LabelOwner, entity.Field(customer.OwnerName))
		if street := entity.Field(customer.Street); street != "" {
			lines = append(lines, plain(street, WeightLight))
		}
		if place := strings.TrimSpace(entity.Field(customer.Zip) + " " + entity.Field(customer.City)); place != "" {
			lines = append(lines, plain(place, WeightLight))
		}
		lines = appendLabelled(lines, LabelPhone, entity.Field(customer.Phone))
		lines = appendLabelled(lines, LabelEmail, entity.Field(customer.Email))
	}

	return Section{
		Kind:   SectionRecipient,
		Title:  LabelRecipient,
		Blocks: []Block{TextBlock{Lines: lines}},
	}
}

func (b *Builder) meta(order *entity.Order) Section {
	values := []string{
		orPlaceholder(order.CustomerNumber),
		fmt.Sprintf("#%d", order.ID),
		format.Date(order.CreatedAt, b.loc),
		format.DateTime(order.CreatedAt, b.loc),
		format.PaymentLabel(order.PaymentMethodValue()),
	}

	cols := make([]Column, len(metaHeaders))
	width := 100 / float64(len(metaHeaders))
	for i, h := range metaHeaders {
		cols[i] = Column{Header: h, Width: width, Align: AlignLeft}
	}

	return Section{
		Kind: SectionMeta,
		Blocks: []Block{Table{
			Style:   TableGrid,
			Columns: cols,
			Rows:    []Row{{Cells: values}},
		}},
	}
}

func instructions(order *entity.Order) Section {
	note, ok := order.DeliveryInstructions()
	if !ok {
		note = LabelNoNote
	}
	return Section{
		Kind:   SectionInstructions,
		Title:  LabelInstructions,
		Blocks: []Block{TextBlock{Lines: []Line{plain(note, WeightLight)}}},
	}
}

func itemsSection(order *entity.Order, items []entity.OrderItem) Section {
	count := len(items)
	if order.TotalItems != nil {
		count = *order.TotalItems
	}
	title := fmt.Sprintf("Artikel · Anzahl: %d · Summe (inkl. MwSt.): %s",
		count, format.Currency(Subtotal(order, items)))

	cols := make([]Column, len(itemHeaders))
	for i := range itemHeaders {
		cols[i] = Column{Header: itemHeaders[i], Width: ItemColumnWidths[i], Align: itemAligns[i]}
	}

	rows := make([]Row, 0, len(items))
	for i, item := range items {
		rows = append(rows, Row{Cells: []string{
			strconv.Itoa(i + 1),
			orPlaceholder(item.Name),
			orPlaceholder(item.Unit),
			Quantity(item.Quantity),
			format.Currency(item.Price),
			format.Currency(LineTotal(item)),
		}})
	}
	if len(rows) == 0 {
		rows = append(rows, Row{Cells: []string{LabelNoItems}, Placeholder: true})
	}

	return Section{
		Kind:   SectionItems,
		Title:  title,
		Blocks: []Block{Table{Style: TableRows, Columns: cols, Rows: rows}},
	}
}

func subtotal(order *entity.Order, items []entity.OrderItem) Section {
	return Section{
		Kind: SectionSubtotal,
		Blocks: []Block{TextBlock{
			Align: AlignRight,
			Lines: []Line{{Spans: []Span{
				{Text: LabelSubtotal, Weight: WeightSemiBold},
				{Text: format.Currency(Subtotal(order, items)), Weight: WeightSemiBold},
			}}},
		}},
	}
}

func signatures() Section {
	return Section{
		Kind:   SectionSignatures,
		Blocks: []Block{SignatureBlock{Labels: []string{LabelSignDriver, LabelSignCustomer}}},
	}
}

// Quantity prints a quantity in its shortest form: 2 stays "2", 1.5 stays "1.5".
func Quantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func plain(text string, weight FontWeight) Line {
	return Line{Spans: []Span{{Text: text, Weight: weight}}}
}

// appendLabelled adds "label value" with the value emphasised, or nothing if value is blank.
func appendLabelled(lines []Line, label, value string) []Line {
	if strings.TrimSpace(value) == "" {
		return lines
	}
	return append(lines, Line{Spans: []Span{
		{Text: label, Weight: WeightLight},
		{Text: value, Weight: WeightSemiBold},
	}})
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return format.Placeholder
	}
	return s
}
