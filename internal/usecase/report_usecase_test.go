package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/domain/reporting"
	mock_interfaces "gestao_oficina/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func fixedNow() time.Time { return time.Date(2024, 5, 31, 15, 0, 0, 0, time.UTC) }

func TestReportUseCase_Generate(t *testing.T) {
	t.Run("default range is the last 30 days", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mock_interfaces.NewMockIServiceOrderRepository(ctrl)
		inv := mock_interfaces.NewMockIInventoryRepository(ctrl)
		clients := mock_interfaces.NewMockIClientRepository(ctrl)
		uc := NewReportUseCase(orders, inv, clients, nil, 0, time.UTC)
		uc.now = fixedNow

		wantFrom := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
		wantTo := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
		orders.EXPECT().ListByCreatedAtRange(gomock.Any(), wantFrom, wantTo).Return([]entities.ServiceOrder{
			{ID: "1", Status: entities.OrderStatusConcluido, TotalValue: decimal.NewFromInt(100)},
			{ID: "2", Status: entities.OrderStatusConcluido, TotalValue: decimal.NewFromInt(200)},
			{ID: "3", Status: entities.OrderStatusEmAndamento, TotalValue: decimal.NewFromInt(50)},
		}, nil)
		inv.EXPECT().List(gomock.Any()).Return(nil, nil)
		clients.EXPECT().List(gomock.Any()).Return(nil, nil)

		r, err := uc.Generate(context.Background(), ReportRange{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.TotalRevenue.Equal(decimal.NewFromInt(300)) || !r.PotentialRevenue.Equal(decimal.NewFromInt(50)) || !r.AverageTicket.Equal(decimal.NewFromInt(150)) {
			t.Fatalf("unexpected metrics: %+v", r)
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		uc := NewReportUseCase(nil, nil, nil, nil, 0, time.UTC)
		_, err := uc.Generate(context.Background(), ReportRange{
			From: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		})
		if !errors.Is(err, ErrInvalidDateRange) {
			t.Fatalf("expected ErrInvalidDateRange, got %v", err)
		}
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := mock_interfaces.NewMockIReportCache(ctrl)
		uc := NewReportUseCase(nil, nil, nil, cache, time.Minute, time.UTC)
		uc.now = fixedNow

		cached := reporting.Report{TotalOrdersCount: 7}
		cache.EXPECT().Get(gomock.Any(), "report:2024-04-01:2024-04-30:UTC").Return(cached, true, nil)

		r, err := uc.Generate(context.Background(), ReportRange{
			From: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.TotalOrdersCount != 7 {
			t.Fatalf("expected cached report, got %+v", r)
		}
	})

	t.Run("cache miss stores the result", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mock_interfaces.NewMockIServiceOrderRepository(ctrl)
		inv := mock_interfaces.NewMockIInventoryRepository(ctrl)
		clients := mock_interfaces.NewMockIClientRepository(ctrl)
		cache := mock_interfaces.NewMockIReportCache(ctrl)
		uc := NewReportUseCase(orders, inv, clients, cache, time.Minute, time.UTC)
		uc.now = fixedNow

		rng := ReportRange{From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)}
		key := "report:2024-01-01:2024-01-31:UTC"
		cache.EXPECT().Get(gomock.Any(), key).Return(reporting.Report{}, false, errors.New("redis down"))
		orders.EXPECT().ListByCreatedAtRange(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		inv.EXPECT().List(gomock.Any()).Return(nil, nil)
		clients.EXPECT().List(gomock.Any()).Return(nil, nil)
		cache.EXPECT().Set(gomock.Any(), key, gomock.Any(), time.Minute).Return(nil)

		r, err := uc.Generate(context.Background(), rng)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.TotalRevenue.IsZero() || !r.AverageTicket.IsZero() {
			t.Fatalf("expected zero metrics, got %+v", r)
		}
	})

	t.Run("range reaching today bypasses the cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mock_interfaces.NewMockIServiceOrderRepository(ctrl)
		inv := mock_interfaces.NewMockIInventoryRepository(ctrl)
		clients := mock_interfaces.NewMockIClientRepository(ctrl)
		cache := mock_interfaces.NewMockIReportCache(ctrl)
		uc := NewReportUseCase(orders, inv, clients, cache, time.Minute, time.UTC)
		uc.now = fixedNow

		orders.EXPECT().ListByCreatedAtRange(gomock.Any(), gomock.Any(), gomock.Any()).Return([]entities.ServiceOrder{
			{ID: "1", Status: entities.OrderStatusConcluido, TotalValue: decimal.NewFromInt(80)},
		}, nil)
		inv.EXPECT().List(gomock.Any()).Return(nil, nil)
		clients.EXPECT().List(gomock.Any()).Return(nil, nil)

		r, err := uc.Generate(context.Background(), ReportRange{
			From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.TotalRevenue.Equal(decimal.NewFromInt(80)) {
			t.Fatalf("expected fresh revenue, got %s", r.TotalRevenue)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mock_interfaces.NewMockIServiceOrderRepository(ctrl)
		uc := NewReportUseCase(orders, nil, nil, nil, 0, time.UTC)

		orders.EXPECT().ListByCreatedAtRange(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

		if _, err := uc.Generate(context.Background(), ReportRange{}); !errors.Is(err, ErrStore) {
			t.Fatalf("expected ErrStore, got %v", err)
		}
	})
}
