package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sangkips/cactus-admin-api/internal/application/service"
	"github.com/sangkips/cactus-admin-api/internal/document"
	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	"github.com/sangkips/cactus-admin-api/internal/domain/enum"
	"github.com/sangkips/cactus-admin-api/internal/domain/repository"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type mockOrderRepository struct {
	getByIDFunc      func(ctx context.Context, id int64) (*entity.Order, error)
	listFunc         func(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error)
	updateStatusFunc func(ctx context.Context, id int64, status enum.OrderStatus) error
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockOrderRepository) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	return m.listFunc(ctx, params)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id int64, status enum.OrderStatus) error {
	return m.updateStatusFunc(ctx, id, status)
}

type mockCustomerRepository struct {
	getByNumberFunc func(ctx context.Context, number string) (*entity.Customer, error)
}

func (m *mockCustomerRepository) GetByNumber(ctx context.Context, number string) (*entity.Customer, error) {
	return m.getByNumberFunc(ctx, number)
}

func (m *mockCustomerRepository) GetByNumbers(context.Context, []string) ([]entity.Customer, error) {
	return nil, nil
}

func (m *mockCustomerRepository) List(context.Context) ([]entity.Customer, error) {
	return nil, nil
}

// stubRenderer writes the logo reference followed by the file name.
type stubRenderer struct {
	err error
}

func (r *stubRenderer) Render(_ context.Context, m *document.Model) (io.WriterTo, error) {
	if r.err != nil {
		return nil, r.err
	}
	logo := ""
	if w := m.Pages[0].Watermark; w != nil {
		logo = w.Ref
	}
	return strings.NewReader(logo + " " + m.FileName), nil
}

func (r *stubRenderer) ContentType() string { return "application/pdf" }

func init() {
	gin.SetMode(gin.TestMode)
}

func newDeliveryNoteRouter(orders *mockOrderRepository, r *stubRenderer, publicURL string) *gin.Engine {
	customers := &mockCustomerRepository{
		getByNumberFunc: func(context.Context, string) (*entity.Customer, error) { return nil, nil },
	}
	svc := service.NewDeliveryNoteService(
		orders,
		customers,
		document.NewBuilder(document.Letterhead{Name: "Cactus Großhandel"}, time.UTC),
		service.Renderers{PDF: r},
		nil,
		service.DeliveryNoteConfig{LogoPath: "/cactus-logo.png"},
		zerolog.Nop(),
	)
	h := handler.NewDeliveryNoteHandler(svc, publicURL, nil)

	router := gin.New()
	router.GET("/orders/:id/lieferschein", h.Download)
	router.GET("/printer/status", h.PrinterStatus)
	return router
}

func TestDeliveryNoteHandler_Download(t *testing.T) {
	order := &entity.Order{
		ID:             42,
		CustomerNumber: "K-1001",
		Items:          datatypes.JSON(`[]`),
		CreatedAt:      "2024-03-05T10:00:00Z",
	}

	tests := []struct {
		name        string
		path        string
		getByIDFunc func(ctx context.Context, id int64) (*entity.Order, error)
		renderErr   error
		wantStatus  int
		wantBody    string
	}{
		{
			name:       "streams_document",
			path:       "/orders/42/lieferschein",
			wantStatus: http.StatusOK,
			wantBody:   "http://example.com/cactus-logo.png lieferschein_42.pdf",
		},
		{
			name:       "invalid_id",
			path:       "/orders/abc/lieferschein",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative_id",
			path:       "/orders/-1/lieferschein",
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown_order",
			path: "/orders/7/lieferschein",
			getByIDFunc: func(context.Context, int64) (*entity.Order, error) {
				return nil, nil
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "store_failure_is_hidden",
			path: "/orders/42/lieferschein",
			getByIDFunc: func(context.Context, int64) (*entity.Order, error) {
				return nil, errors.New("pq: connection refused")
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "render_failure",
			path:       "/orders/42/lieferschein",
			renderErr:  errors.New("font missing"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getByID := tt.getByIDFunc
			if getByID == nil {
				getByID = func(context.Context, int64) (*entity.Order, error) { return order, nil }
			}
			router := newDeliveryNoteRouter(&mockOrderRepository{getByIDFunc: getByID}, &stubRenderer{err: tt.renderErr}, "")

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Host = "example.com"
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
				assert.NotContains(t, rec.Body.String(), "pq:")
				assert.NotContains(t, rec.Body.String(), "font missing")
				return
			}
			assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
			assert.Equal(t, `inline; filename="lieferschein_42.pdf"`, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestDeliveryNoteHandler_PublicURLWins(t *testing.T) {
	orders := &mockOrderRepository{
		getByIDFunc: func(context.Context, int64) (*entity.Order, error) {
			return &entity.Order{ID: 5, CreatedAt: "2024-03-05T10:00:00Z"}, nil
		},
	}
	router := newDeliveryNoteRouter(orders, &stubRenderer{}, "https://admin.example.com/")

	req := httptest.NewRequest(http.MethodGet, "/orders/5/lieferschein", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://admin.example.com/cactus-logo.png lieferschein_5.pdf", rec.Body.String())
}

func TestDeliveryNoteHandler_PrinterStatus(t *testing.T) {
	router := newDeliveryNoteRouter(&mockOrderRepository{}, &stubRenderer{}, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/printer/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool                  `json:"success"`
		Data    service.PrinterStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.False(t, body.Data.Configured)
	assert.Equal(t, service.PrintFormatPDF, body.Data.Format)
}

func TestBaseURL(t *testing.T) {
	proxies, err := handler.NewProxyTrust([]string{"10.0.0.0/8", "192.168.1.5"})
	require.NoError(t, err)

	const proxyAddr = "10.1.2.3:4000"
	const clientAddr = "203.0.113.9:5000"

	tests := []struct {
		name       string
		publicURL  string
		remoteAddr string
		host       string
		headers    map[string]string
		want       string
	}{
		{name: "configured", publicURL: "https://admin.example.com/", want: "https://admin.example.com"},
		{name: "request_host", want: "http://example.com"},
		{name: "request_host_with_port", host: "example.com:8080", want: "http://example.com:8080"},
		{
			name:       "trusted_proxy",
			remoteAddr: proxyAddr,
			headers:    map[string]string{"X-Forwarded-Host": "shop.example.com, proxy", "X-Forwarded-Proto": "https"},
			want:       "https://shop.example.com",
		},
		{
			name:       "single_trusted_ip",
			remoteAddr: "192.168.1.5:80",
			headers:    map[string]string{"X-Forwarded-Host": "shop.example.com"},
			want:       "http://shop.example.com",
		},
		{
			name:       "untrusted_peer_ignores_forwarded",
			remoteAddr: clientAddr,
			headers:    map[string]string{"X-Forwarded-Host": "attacker.example", "X-Forwarded-Proto": "https"},
			want:       "http://example.com",
		},
		{
			name:       "host_with_path_and_query",
			remoteAddr: proxyAddr,
			headers:    map[string]string{"X-Forwarded-Host": "169.254.169.254/latest/meta-data?x="},
			want:       "http://example.com",
		},
		{
			name:       "host_with_userinfo",
			remoteAddr: proxyAddr,
			headers:    map[string]string{"X-Forwarded-Host": "user:pw@internal.example"},
			want:       "http://example.com",
		},
		{
			name:       "host_with_fragment",
			remoteAddr: proxyAddr,
			headers:    map[string]string{"X-Forwarded-Host": "internal.example#frag"},
			want:       "http://example.com",
		},
		{
			name:       "host_with_bad_port",
			remoteAddr: proxyAddr,
			headers:    map[string]string{"X-Forwarded-Host": "internal.example:99999"},
			want:       "http://example.com",
		},
		{
			name:       "file_scheme",
			remoteAddr: proxyAddr,
			headers:    map[string]string{"X-Forwarded-Proto": "file"},
			want:       "http://example.com",
		},
		{
			name:       "gopher_scheme",
			remoteAddr: proxyAddr,
			headers:    map[string]string{"X-Forwarded-Proto": "gopher"},
			want:       "http://example.com",
		},
		{name: "invalid_request_host", host: "example.com/evil", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Host = "example.com"
			if tt.host != "" {
				c.Request.Host = tt.host
			}
			if tt.remoteAddr != "" {
				c.Request.RemoteAddr = tt.remoteAddr
			}
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, handler.BaseURL(c, tt.publicURL, proxies))
		})
	}
}

func TestBaseURL_NoTrustedProxies(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Host = "example.com"
	c.Request.Header.Set("X-Forwarded-Host", "attacker.example")

	assert.Equal(t, "http://example.com", handler.BaseURL(c, "", nil))
}

func TestNewProxyTrust(t *testing.T) {
	_, err := handler.NewProxyTrust([]string{"not-an-ip"})
	assert.Error(t, err)

	trust, err := handler.NewProxyTrust([]string{"::1", "172.16.0.0/12"})
	require.NoError(t, err)
	assert.True(t, trust.Trusted("::1"))
	assert.True(t, trust.Trusted("172.20.1.1"))
	assert.False(t, trust.Trusted("8.8.8.8"))
	assert.False(t, trust.Trusted("garbage"))
}

func TestDeliveryNoteHandler_ForwardedHostFromClientIsIgnored(t *testing.T) {
	orders := &mockOrderRepository{
		getByIDFunc: func(context.Context, int64) (*entity.Order, error) {
			return &entity.Order{ID: 5, CreatedAt: "2024-03-05T10:00:00Z"}, nil
		},
	}
	router := newDeliveryNoteRouter(orders, &stubRenderer{}, "")

	req := httptest.NewRequest(http.MethodGet, "/orders/5/lieferschein", nil)
	req.Host = "example.com"
	req.Header.Set("X-Forwarded-Host", "169.254.169.254/latest/meta-data?x=")
	req.Header.Set("X-Forwarded-Proto", "file")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://example.com/cactus-logo.png lieferschein_5.pdf", rec.Body.String())
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	var updated enum.OrderStatus
	orders := &mockOrderRepository{
		getByIDFunc: func(context.Context, int64) (*entity.Order, error) {
			return &entity.Order{ID: 9, Status: enum.OrderStatusNew}, nil
		},
		updateStatusFunc: func(_ context.Context, _ int64, status enum.OrderStatus) error {
			updated = status
			return nil
		},
	}
	h := handler.NewOrderHandler(service.NewOrderService(orders, &mockCustomerRepository{}))
	router := gin.New()
	router.PUT("/orders/:id/status", h.UpdateStatus)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid", body: `{"status":"geliefert"}`, wantStatus: http.StatusOK},
		{name: "unknown_status", body: `{"status":"lost"}`, wantStatus: http.StatusBadRequest},
		{name: "missing_status", body: `{}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/orders/9/status", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
	assert.Equal(t, enum.OrderStatusDelivered, updated)
}
