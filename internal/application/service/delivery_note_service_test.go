package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sangkips/cactus-admin-api/internal/application/service"
	"github.com/sangkips/cactus-admin-api/internal/document"
	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	"github.com/sangkips/cactus-admin-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

const baseURL = "https://admin.example.com"

func widgetOrder() *entity.Order {
	return &entity.Order{
		ID:             42,
		CustomerNumber: "K-1001",
		Items:          datatypes.JSON(`[{"name":"Widget","unit":"pc","price":10,"quantity":2}]`),
		CreatedAt:      "2024-03-05T10:00:00Z",
	}
}

func newDeliveryNoteService(orders *mockOrderRepository, customers *mockCustomerRepository, r *stubRenderer, p *stubPrinter) *service.DeliveryNoteService {
	return service.NewDeliveryNoteService(
		orders,
		customers,
		document.NewBuilder(document.Letterhead{Name: "Cactus Großhandel"}, time.UTC),
		service.Renderers{PDF: r, Preview: r},
		p,
		service.DeliveryNoteConfig{LogoPath: "/cactus-logo.png", PrintFormat: service.PrintFormatPDF, PrinterType: "network"},
		zerolog.Nop(),
	)
}

func TestDeliveryNoteService_Generate(t *testing.T) {
	noCustomer := func(context.Context, string) (*entity.Customer, error) { return nil, nil }

	tests := []struct {
		name            string
		rawID           string
		getByIDFunc     func(ctx context.Context, id int64) (*entity.Order, error)
		getByNumberFunc func(ctx context.Context, number string) (*entity.Customer, error)
		renderErr       error
		wantErrIs       error
		wantCode        int
		wantBody        string
	}{
		{
			name:  "invalid_id_does_not_touch_store",
			rawID: "abc",
			getByIDFunc: func(context.Context, int64) (*entity.Order, error) {
				panic("store must not be read")
			},
			wantErrIs: apperror.ErrInvalidInput,
			wantCode:  400,
		},
		{
			name:        "zero_id",
			rawID:       "0",
			getByIDFunc: func(context.Context, int64) (*entity.Order, error) { panic("store must not be read") },
			wantErrIs:   apperror.ErrInvalidInput,
			wantCode:    400,
		},
		{
			name:            "not_found",
			rawID:           "42",
			getByIDFunc:     func(context.Context, int64) (*entity.Order, error) { return nil, nil },
			getByNumberFunc: noCustomer,
			wantErrIs:       apperror.ErrNotFound,
			wantCode:        404,
		},
		{
			name:        "store_error_is_hidden",
			rawID:       "42",
			getByIDFunc: func(context.Context, int64) (*entity.Order, error) { return nil, errors.New("pq: connection refused") },
			wantErrIs:   apperror.ErrUpstreamUnavailable,
			wantCode:    404,
		},
		{
			name:            "render_failure",
			rawID:           "42",
			getByIDFunc:     func(context.Context, int64) (*entity.Order, error) { return widgetOrder(), nil },
			getByNumberFunc: noCustomer,
			renderErr:       errors.New("font missing"),
			wantErrIs:       apperror.ErrRenderFailure,
			wantCode:        500,
		},
		{
			name:            "success",
			rawID:           " 42 ",
			getByIDFunc:     func(context.Context, int64) (*entity.Order, error) { return widgetOrder(), nil },
			getByNumberFunc: noCustomer,
			wantBody:        "1|Widget|pc|2|10,00 €|20,00 €\n",
		},
		{
			name:        "customer_lookup_error_is_not_fatal",
			rawID:       "42",
			getByIDFunc: func(context.Context, int64) (*entity.Order, error) { return widgetOrder(), nil },
			getByNumberFunc: func(context.Context, string) (*entity.Customer, error) {
				return nil, errors.New("timeout")
			},
			wantBody: "1|Widget|pc|2|10,00 €|20,00 €\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &stubRenderer{err: tt.renderErr}
			svc := newDeliveryNoteService(
				&mockOrderRepository{getByIDFunc: tt.getByIDFunc},
				&mockCustomerRepository{getByNumberFunc: tt.getByNumberFunc},
				r, &stubPrinter{},
			)

			doc, err := svc.Generate(context.Background(), tt.rawID, baseURL)
			if tt.wantErrIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Equal(t, tt.wantCode, apperror.GetAppError(err).Code)
				assert.NotContains(t, err.Error(), "pq:")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(42), doc.OrderID)
			assert.Equal(t, "lieferschein_42.pdf", doc.FileName)
			assert.Equal(t, "application/pdf", doc.ContentType)

			var buf bytes.Buffer
			_, err = doc.Body.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, buf.String())

			require.NotNil(t, r.model.Pages[0].Watermark)
			assert.Equal(t, "https://admin.example.com/cactus-logo.png", r.model.Pages[0].Watermark.Ref)
		})
	}
}

func TestDeliveryNoteService_UsesCustomerName(t *testing.T) {
	r := &stubRenderer{}
	var asked string
	svc := newDeliveryNoteService(
		&mockOrderRepository{getByIDFunc: func(context.Context, int64) (*entity.Order, error) { return widgetOrder(), nil }},
		&mockCustomerRepository{getByNumberFunc: func(_ context.Context, n string) (*entity.Customer, error) {
			asked = n
			return &entity.Customer{CustomerNumber: n, Name: ptr("Kiosk am Markt")}, nil
		}},
		r, &stubPrinter{},
	)

	_, err := svc.Generate(context.Background(), "42", baseURL)
	require.NoError(t, err)
	assert.Equal(t, "K-1001", asked)

	recipient := r.model.Pages[0].Sections[1]
	require.Equal(t, document.SectionRecipient, recipient.Kind)
	assert.Equal(t, "Kiosk am Markt", recipient.Blocks[0].(document.TextBlock).Lines[0].Text())
}

func TestDeliveryNoteService_Print(t *testing.T) {
	orders := &mockOrderRepository{getByIDFunc: func(context.Context, int64) (*entity.Order, error) { return widgetOrder(), nil }}
	customers := &mockCustomerRepository{getByNumberFunc: func(context.Context, string) (*entity.Customer, error) { return nil, nil }}

	t.Run("streams_to_printer", func(t *testing.T) {
		p := &stubPrinter{}
		svc := newDeliveryNoteService(orders, customers, &stubRenderer{}, p)

		res, err := svc.Print(context.Background(), "42", baseURL)
		require.NoError(t, err)
		assert.Equal(t, "1|Widget|pc|2|10,00 €|20,00 €\n", p.received)
		assert.Equal(t, int64(len(p.received)), res.Bytes)
		assert.Equal(t, "pdf", res.Format)
	})

	t.Run("printer_failure", func(t *testing.T) {
		svc := newDeliveryNoteService(orders, customers, &stubRenderer{}, &stubPrinter{err: errors.New("connection refused")})

		_, err := svc.Print(context.Background(), "42", baseURL)
		assert.ErrorIs(t, err, apperror.ErrPrintFailure)
		assert.Equal(t, 502, apperror.GetAppError(err).Code)
	})
}

func TestDeliveryNoteService_PrinterStatus(t *testing.T) {
	svc := newDeliveryNoteService(&mockOrderRepository{}, &mockCustomerRepository{}, &stubRenderer{}, &stubPrinter{})
	status := svc.GetPrinterStatus()
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, "network", status.Type)
}

func TestLogoURL(t *testing.T) {
	assert.Equal(t, "https://a.example/cactus-logo.png", service.LogoURL("https://a.example/", "/cactus-logo.png"))
	assert.Equal(t, "https://a.example/cactus-logo.png", service.LogoURL("https://a.example", "cactus-logo.png"))
	assert.Equal(t, "https://cdn.example/logo.png", service.LogoURL("https://a.example", "https://cdn.example/logo.png"))
	assert.Equal(t, "file:///srv/public/cactus-logo.png", service.LogoURL("", "file:///srv/public/cactus-logo.png"))
	assert.Equal(t, "", service.LogoURL("", "/cactus-logo.png"))
}

func TestParseOrderID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: " 7 ", want: 7},
		{raw: "", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "+3", wantErr: true},
		{raw: "1.5", wantErr: true},
		{raw: "12abc", wantErr: true},
		{raw: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := service.ParseOrderID(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
