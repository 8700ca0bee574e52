package document

// Layout constants shared by every renderer. Sizes are in points.
const (
	BaseFontSize         = 8.6
	CompanyNameFontSize  = 11
	TitleFontSize        = 15
	SectionTitleFontSize = 9.6
	MetaHeadFontSize     = 8.1
	MetaBodyFontSize     = 8.4
	SignatureFontSize    = 9

	LogoSize      = 66
	WatermarkSize = 360
	// WatermarkOpacity keeps the background logo faint enough that text over it stays legible.
	WatermarkOpacity = 0.04

	HeaderLeftWidth = 60
)

// ItemColumnWidths are the item table column widths in percent:
// position, article, unit, quantity, unit price, line total.
var ItemColumnWidths = [6]float64{5, 40, 15, 8, 22, 19}
