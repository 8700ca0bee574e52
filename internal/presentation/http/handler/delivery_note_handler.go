package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cactus-admin-api/internal/application/service"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/dto/response"
)

// DeliveryNoteHandler serves rendered delivery notes and sends them to the printer.
type DeliveryNoteHandler struct {
	deliveryNoteService *service.DeliveryNoteService
	publicURL           string
	proxies             *ProxyTrust
}

// NewDeliveryNoteHandler creates a new delivery note handler. publicURL may be
// empty, in which case the request's host is used to reference the logo;
// proxies decides whose forwarded host headers are believed.
func NewDeliveryNoteHandler(deliveryNoteService *service.DeliveryNoteService, publicURL string, proxies *ProxyTrust) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{
		deliveryNoteService: deliveryNoteService,
		publicURL:           publicURL,
		proxies:             proxies,
	}
}

func (h *DeliveryNoteHandler) baseURL(c *gin.Context) string {
	return BaseURL(c, h.publicURL, h.proxies)
}

// Download renders the delivery note PDF and streams it inline
// @Summary Delivery note PDF
// @Tags lieferschein
// @Produce application/pdf
// @Param id path int true "Order ID"
// @Success 200 {file} binary
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /orders/{id}/lieferschein [get]
func (h *DeliveryNoteHandler) Download(c *gin.Context) {
	doc, err := h.deliveryNoteService.Generate(c.Request.Context(), c.Param("id"), h.baseURL(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.write(c, doc, fmt.Sprintf("inline; filename=%q", doc.FileName))
}

// Preview renders the delivery note as an HTML page
// @Summary Delivery note HTML preview
// @Tags lieferschein
// @Produce html
// @Param id path int true "Order ID"
// @Success 200 {string} string
// @Router /orders/{id}/lieferschein/preview [get]
func (h *DeliveryNoteHandler) Preview(c *gin.Context) {
	doc, err := h.deliveryNoteService.Preview(c.Request.Context(), c.Param("id"), h.baseURL(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.write(c, doc, "inline")
}

// write streams a rendered document. Headers are committed only after the
// document was laid out, so failures above still produce a JSON error.
func (h *DeliveryNoteHandler) write(c *gin.Context, doc *service.RenderedDocument, disposition string) {
	c.Header("Content-Type", doc.ContentType)
	c.Header("Content-Disposition", disposition)
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)

	if _, err := doc.Body.WriteTo(c.Writer); err != nil {
		// The status line is already sent; record the error for the request log.
		_ = c.Error(err)
	}
}

// Print sends the delivery note to the configured printer
// @Summary Print delivery note
// @Tags lieferschein
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /orders/{id}/lieferschein/print [post]
func (h *DeliveryNoteHandler) Print(c *gin.Context) {
	result, err := h.deliveryNoteService.Print(c.Request.Context(), c.Param("id"), h.baseURL(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery note sent to printer", result)
}

// PrinterStatus returns the current printer connection status
// @Summary Printer status
// @Tags lieferschein
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /printer/status [get]
func (h *DeliveryNoteHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.deliveryNoteService.GetPrinterStatus())
}
