package service_test

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/sangkips/cactus-admin-api/internal/document"
	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	"github.com/sangkips/cactus-admin-api/internal/domain/enum"
	"github.com/sangkips/cactus-admin-api/internal/domain/repository"
	"github.com/sangkips/cactus-admin-api/pkg/utils"
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
	getByNumberFunc  func(ctx context.Context, number string) (*entity.Customer, error)
	getByNumbersFunc func(ctx context.Context, numbers []string) ([]entity.Customer, error)
	listFunc         func(ctx context.Context) ([]entity.Customer, error)
}

func (m *mockCustomerRepository) GetByNumber(ctx context.Context, number string) (*entity.Customer, error) {
	return m.getByNumberFunc(ctx, number)
}

func (m *mockCustomerRepository) GetByNumbers(ctx context.Context, numbers []string) ([]entity.Customer, error) {
	return m.getByNumbersFunc(ctx, numbers)
}

func (m *mockCustomerRepository) List(ctx context.Context) ([]entity.Customer, error) {
	return m.listFunc(ctx)
}

// stubRenderer writes the cells of the items table, one row per line.
type stubRenderer struct {
	err   error
	model *document.Model
}

func (r *stubRenderer) Render(_ context.Context, m *document.Model) (io.WriterTo, error) {
	r.model = m
	if r.err != nil {
		return nil, r.err
	}
	var sb strings.Builder
	for _, s := range m.Pages[0].Sections {
		if s.Kind != document.SectionItems {
			continue
		}
		for _, row := range s.Blocks[0].(document.Table).Rows {
			sb.WriteString(strings.Join(row.Cells, "|"))
			sb.WriteString("\n")
		}
	}
	return strings.NewReader(sb.String()), nil
}

func (r *stubRenderer) ContentType() string { return "application/pdf" }

type stubPrinter struct {
	err      error
	received string
}

func (p *stubPrinter) Print(_ context.Context, r io.Reader) error {
	if p.err != nil {
		return p.err
	}
	b, err := io.ReadAll(r)
	p.received = string(b)
	return err
}

func (p *stubPrinter) Close() error      { return nil }
func (p *stubPrinter) IsConnected() bool { return true }

func ptr[T any](v T) *T { return &v }

func newJWT() *utils.JWTManager {
	return utils.NewJWTManager("test-secret", "cactus-admin-api", time.Hour)
}
