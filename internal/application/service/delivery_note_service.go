package service

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sangkips/cactus-admin-api/internal/document"
	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	"github.com/sangkips/cactus-admin-api/internal/domain/repository"
	"github.com/sangkips/cactus-admin-api/internal/render"
	"github.com/sangkips/cactus-admin-api/pkg/apperror"
	"github.com/sangkips/cactus-admin-api/pkg/printer"
)

// Print formats accepted by DeliveryNoteConfig.PrintFormat.
const (
	PrintFormatPDF    = "pdf"
	PrintFormatESCPOS = "escpos"
)

// Renderers bundles the output formats of a delivery note. Preview and Slip may be nil.
type Renderers struct {
	PDF     render.Renderer
	Preview render.Renderer
	Slip    render.Renderer
}

// DeliveryNoteConfig holds the static settings of DeliveryNoteService.
type DeliveryNoteConfig struct {
	// LogoPath is joined to the caller's base URL to reference the logo.
	// An absolute http(s) URL is used as is.
	LogoPath    string
	PrintFormat string
	PrinterType string
}

// DeliveryNoteService fetches an order and its customer and renders the delivery note.
type DeliveryNoteService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	builder      *document.Builder
	renderers    Renderers
	printer      printer.Printer
	cfg          DeliveryNoteConfig
	log          zerolog.Logger
}

// NewDeliveryNoteService creates a new delivery note service
func NewDeliveryNoteService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	builder *document.Builder,
	renderers Renderers,
	p printer.Printer,
	cfg DeliveryNoteConfig,
	log zerolog.Logger,
) *DeliveryNoteService {
	if p == nil {
		p = printer.NewNullPrinter()
	}
	if cfg.PrintFormat == "" {
		cfg.PrintFormat = PrintFormatPDF
	}
	return &DeliveryNoteService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		builder:      builder,
		renderers:    renderers,
		printer:      p,
		cfg:          cfg,
		log:          log.With().Str("service", "delivery_note").Logger(),
	}
}

// RenderedDocument is a laid-out delivery note ready to be written.
type RenderedDocument struct {
	OrderID     int64
	FileName    string
	ContentType string
	Body        io.WriterTo
}

// Generate renders the PDF delivery note for the order identified by rawID.
// baseURL is the absolute origin the logo is referenced from.
func (s *DeliveryNoteService) Generate(ctx context.Context, rawID, baseURL string) (*RenderedDocument, error) {
	return s.renderWith(ctx, s.renderers.PDF, rawID, baseURL)
}

// Preview renders the HTML preview of the delivery note.
func (s *DeliveryNoteService) Preview(ctx context.Context, rawID, baseURL string) (*RenderedDocument, error) {
	if s.renderers.Preview == nil {
		return nil, apperror.NewRenderFailureError("Preview is not available")
	}
	return s.renderWith(ctx, s.renderers.Preview, rawID, baseURL)
}

func (s *DeliveryNoteService) renderWith(ctx context.Context, r render.Renderer, rawID, baseURL string) (*RenderedDocument, error) {
	id, err := ParseOrderID(rawID)
	if err != nil {
		return nil, err
	}

	model, err := s.Model(ctx, id, baseURL)
	if err != nil {
		return nil, err
	}

	body, err := r.Render(ctx, model)
	if err != nil {
		s.log.Error().Err(err).Int64("order_id", id).Str("content_type", r.ContentType()).Msg("delivery note render failed")
		return nil, apperror.ErrRenderFailure
	}

	return &RenderedDocument{
		OrderID:     id,
		FileName:    model.FileName,
		ContentType: r.ContentType(),
		Body:        body,
	}, nil
}

// Model loads the order and its customer and builds the document model. A
// customer that is missing or cannot be read does not fail the build.
func (s *DeliveryNoteService) Model(ctx context.Context, id int64, baseURL string) (*document.Model, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("order_id", id).Msg("order lookup failed")
		return nil, apperror.NewUpstreamUnavailableError("Order could not be loaded")
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order not found")
	}

	customer := s.customer(ctx, order)
	items := order.LineItems()

	model, err := s.builder.Build(order, items, customer, LogoURL(baseURL, s.cfg.LogoPath))
	if err != nil {
		s.log.Error().Err(err).Int64("order_id", id).Msg("delivery note build failed")
		return nil, apperror.ErrRenderFailure
	}
	return model, nil
}

func (s *DeliveryNoteService) customer(ctx context.Context, order *entity.Order) *entity.Customer {
	number := strings.TrimSpace(order.CustomerNumber)
	if number == "" {
		return nil
	}

	customer, err := s.customerRepo.GetByNumber(ctx, number)
	if err != nil {
		s.log.Warn().Err(err).Int64("order_id", order.ID).Str("customer_number", number).
			Msg("customer lookup failed, continuing without customer")
		return nil
	}
	return customer
}

// PrintResult describes a job sent to the printer.
type PrintResult struct {
	OrderID int64  `json:"order_id"`
	Format  string `json:"format"`
	Printer string `json:"printer"`
	Bytes   int64  `json:"bytes"`
}

// Print renders the delivery note in the configured print format and streams it
// to the printer.
func (s *DeliveryNoteService) Print(ctx context.Context, rawID, baseURL string) (*PrintResult, error) {
	r := s.renderers.PDF
	if s.cfg.PrintFormat == PrintFormatESCPOS {
		r = s.renderers.Slip
	}
	if r == nil {
		return nil, apperror.NewPrintFailureError("Print format is not available")
	}

	doc, err := s.renderWith(ctx, r, rawID, baseURL)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	written := make(chan int64, 1)
	go func() {
		n, err := doc.Body.WriteTo(pw)
		written <- n
		pw.CloseWithError(err)
	}()

	err = s.printer.Print(ctx, pr)
	// Unblocks the writer if the printer stopped reading early.
	pr.CloseWithError(io.ErrClosedPipe)
	n := <-written
	if err != nil {
		s.log.Error().Err(err).Int64("order_id", doc.OrderID).Str("printer", s.cfg.PrinterType).Msg("print failed")
		return nil, apperror.NewPrintFailureError("Printing failed")
	}

	s.log.Info().Int64("order_id", doc.OrderID).Str("format", s.cfg.PrintFormat).Int64("bytes", n).Msg("delivery note printed")
	return &PrintResult{
		OrderID: doc.OrderID,
		Format:  s.cfg.PrintFormat,
		Printer: s.cfg.PrinterType,
		Bytes:   n,
	}, nil
}

// PrinterStatus reports the printer configuration and reachability.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Format     string `json:"format"`
}

// GetPrinterStatus returns printer connection status.
func (s *DeliveryNoteService) GetPrinterStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.cfg.PrinterType != printer.TypeNone && s.cfg.PrinterType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.cfg.PrinterType,
		Format:     s.cfg.PrintFormat,
	}
}

// LogoURL joins baseURL and logoPath. An absolute logoPath (http, https or
// file URL) wins; an empty baseURL yields "" so no logo is drawn.
func LogoURL(baseURL, logoPath string) string {
	for _, scheme := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(logoPath, scheme) {
			return logoPath
		}
	}
	if baseURL == "" || logoPath == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(logoPath, "/")
}
