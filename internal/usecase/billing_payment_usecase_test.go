package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gestao_oficina/internal/domain/entities"
	mock_interfaces "gestao_oficina/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

const validPayload = `{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`

func completedOrder(total string) entities.ServiceOrder {
	return entities.ServiceOrder{ID: "os-1", Status: entities.OrderStatusConcluido, TotalValue: decimal.RequireFromString(total)}
}

type paymentFixture struct {
	repo    *mock_interfaces.MockIBillingPaymentRepository
	orders  *mock_interfaces.MockIServiceOrderRepository
	gateway *mock_interfaces.MockIPaymentGateway
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	ctrl := gomock.NewController(t)
	return &paymentFixture{
		repo:    mock_interfaces.NewMockIBillingPaymentRepository(ctrl),
		orders:  mock_interfaces.NewMockIServiceOrderRepository(ctrl),
		gateway: mock_interfaces.NewMockIPaymentGateway(ctrl),
	}
}

func (f *paymentFixture) useCase(opts PaymentOptions) *BillingPaymentUseCase {
	return NewBillingPaymentUseCase(f.repo, f.orders, f.gateway, opts)
}

func TestBillingPaymentUseCase_Pay_Validations(t *testing.T) {
	t.Run("empty order id", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, PaymentOptions{})
		_, err := uc.Pay(context.Background(), " ", json.RawMessage(`{}`))
		if !errors.Is(err, ErrInvalidOrderID) {
			t.Fatalf("expected ErrInvalidOrderID, got %v", err)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, PaymentOptions{})
		_, err := uc.Pay(context.Background(), "os-1", nil)
		if !errors.Is(err, ErrInvalidMPPayload) {
			t.Fatalf("expected ErrInvalidMPPayload, got %v", err)
		}
	})

	t.Run("invalid json payload", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, PaymentOptions{})
		_, err := uc.Pay(context.Background(), "os-1", json.RawMessage(`{`))
		if !errors.Is(err, ErrInvalidMPPayload) {
			t.Fatalf("expected ErrInvalidMPPayload, got %v", err)
		}
	})

	t.Run("gateway not configured", func(t *testing.T) {
		f := newPaymentFixture(t)
		uc := NewBillingPaymentUseCase(f.repo, f.orders, nil, PaymentOptions{})
		_, err := uc.Pay(context.Background(), "os-1", json.RawMessage(validPayload))
		if !errors.Is(err, ErrPaymentGatewayNotConfigured) {
			t.Fatalf("expected ErrPaymentGatewayNotConfigured, got %v", err)
		}
	})
}

func TestBillingPaymentUseCase_Pay_OrderChecks(t *testing.T) {
	t.Run("order repo returns error", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.orders.EXPECT().GetByID(gomock.Any(), "os-1").Return(entities.ServiceOrder{}, errors.New("db"))

		_, err := f.useCase(PaymentOptions{}).Pay(context.Background(), "os-1", json.RawMessage(validPayload))
		if !errors.Is(err, ErrStore) {
			t.Fatalf("expected ErrStore, got %v", err)
		}
	})

	t.Run("order not found", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.orders.EXPECT().GetByID(gomock.Any(), "os-1").Return(entities.ServiceOrder{}, nil)

		_, err := f.useCase(PaymentOptions{}).Pay(context.Background(), "os-1", json.RawMessage(validPayload))
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("order not completed", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.orders.EXPECT().GetByID(gomock.Any(), "os-1").Return(entities.ServiceOrder{ID: "os-1", Status: entities.OrderStatusEmAndamento}, nil)

		_, err := f.useCase(PaymentOptions{}).Pay(context.Background(), "os-1", json.RawMessage(validPayload))
		if !errors.Is(err, ErrOrderNotCompleted) {
			t.Fatalf("expected ErrOrderNotCompleted, got %v", err)
		}
	})
}

func TestBillingPaymentUseCase_Pay_PayloadValidation(t *testing.T) {
	t.Run("missing payment_method_id", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.orders.EXPECT().GetByID(gomock.Any(), "os-1").Return(completedOrder("10"), nil)

		_, err := f.useCase(PaymentOptions{}).Pay(context.Background(), "os-1", json.RawMessage(`{"payer":{"email":"x@test.com"}}`))
		if !errors.Is(err, ErrInvalidMPPayload) {
			t.Fatalf("expected ErrInvalidMPPayload, got %v", err)
		}
	})

	t.Run("missing payer outside sandbox", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.orders.EXPECT().GetByID(gomock.Any(), "os-1").Return(completedOrder("10"), nil)

		_, err := f.useCase(PaymentOptions{AccessToken: "APP_USR-1"}).Pay(context.Background(), "os-1", json.RawMessage(`{"payment_method_id":"pix"}`))
		if !errors.Is(err, ErrInvalidMPPayload) {
			t.Fatalf("expected ErrInvalidMPPayload, got %v", err)
		}
	})
}

func TestBillingPaymentUseCase_Pay_GatewayErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "customer not found", err: errors.New(`{"code":2002}`), want: ErrPaymentGatewayCustomerNotFound},
		{name: "invalid users", err: errors.New(`invalid users involved`), want: ErrPaymentGatewayInvalidUsers},
		{name: "unauthorized", err: errors.New(`{"error":"unauthorized"}`), want: ErrPaymentGatewayUnauthorized},
		{name: "bad request", err: errors.New(`{"status":400}`), want: ErrPaymentGatewayBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPaymentFixture(t)
			f.orders.EXPECT().GetByID(gomock.Any(), "os-1").Return(completedOrder("10"), nil)
			f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, tc.err)

			_, err := f.useCase(PaymentOptions{}).Pay(context.Background(), "os-1", json.RawMessage(validPayload))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	t.Run("unknown gateway error", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.orders.EXPECT().GetByID(gomock.Any(), "os-1").Return(completedOrder("10"), nil)
		f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, errors.New("boom"))

		_, err := f.useCase(PaymentOptions{}).Pay(context.Background(), "os-1", json.RawMessage(validPayload))
		if err == nil || err.Error() != "boom" {
			t.Fatalf("expected boom, got %v", err)
		}
	})
}

func TestBillingPaymentUseCase_Pay_SuccessAndStatuses(t *testing.T) {
	cases := []struct {
		name           string
		providerStatus string
		want           entities.PaymentStatus
		providerResp   json.RawMessage
	}{
		{name: "approved", providerStatus: "approved", want: entities.PaymentStatusAprovado, providerResp: json.RawMessage(`{"id":123}`)},
		{name: "rejected", providerStatus: "rejected", want: entities.PaymentStatusNegado, providerResp: json.RawMessage(`{"id":123}`)},
		{name: "pending default", providerStatus: "in_process", want: entities.PaymentStatusPendente, providerResp: json.RawMessage(`{"id":123}`)},
		{name: "invalid provider response json", providerStatus: "approved", want: entities.PaymentStatusAprovado, providerResp: json.RawMessage(`{`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPaymentFixture(t)
			uc := f.useCase(PaymentOptions{AccessToken: "TEST-token", TestPayerUserID: "123", TestPayerEmail: "sandbox@test.com"})

			f.orders.EXPECT().GetByID(gomock.Any(), "os-1").Return(completedOrder("77.20"), nil)
			f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, payload json.RawMessage) (string, string, json.RawMessage, error) {
					var body map[string]any
					if err := json.Unmarshal(payload, &body); err != nil {
						t.Fatalf("payload should be valid json: %v", err)
					}
					if body["external_reference"] != "os-1" {
						t.Fatalf("external_reference not set")
					}
					if body["description"] != "Ordem de serviço os-1" {
						t.Fatalf("description not set")
					}
					if body["transaction_amount"] != float64(77.2) {
						t.Fatalf("transaction_amount should come from the order")
					}
					payer := body["payer"].(map[string]any)
					if payer["email"] != "sandbox@test.com" || payer["id"] != nil {
						t.Fatalf("expected sandbox payer mapping, got %v", payer)
					}
					return "pay-1", tc.providerStatus, tc.providerResp, nil
				},
			)
			f.repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.BillingPayment{})).DoAndReturn(
				func(_ context.Context, p entities.BillingPayment) (entities.BillingPayment, error) {
					if p.ID != "pay-1" || p.OrderID != "os-1" || p.Status != tc.want {
						t.Fatalf("unexpected payment: %+v", p)
					}
					if p.Date.IsZero() || !p.Amount.Equal(decimal.RequireFromString("77.2")) {
						t.Fatalf("unexpected date or amount: %+v", p)
					}
					return p, nil
				},
			)

			res, err := uc.Pay(context.Background(), "os-1", json.RawMessage(`{"payment_method_id":"pix","payer":{"id":"123"}}`))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != tc.want {
				t.Fatalf("expected status %s, got %s", tc.want, res.Status)
			}
		})
	}

	t.Run("mock mode skips the gateway", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.orders.EXPECT().GetByID(gomock.Any(), "os-1").Return(completedOrder("30"), nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.BillingPayment) (entities.BillingPayment, error) { return p, nil })

		res, err := f.useCase(PaymentOptions{MockMode: true}).Pay(context.Background(), "os-1", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.PaymentStatusAprovado || res.MPPayload["external_reference"] != "os-1" {
			t.Fatalf("unexpected mock payment: %+v", res)
		}
	})

	t.Run("repository create error", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.orders.EXPECT().GetByID(gomock.Any(), "os-1").Return(completedOrder("11"), nil)
		f.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("pay-1", "approved", json.RawMessage(`{"id":123}`), nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.BillingPayment{}, errors.New("db-create"))

		_, err := f.useCase(PaymentOptions{}).Pay(context.Background(), "os-1", json.RawMessage(validPayload))
		if !errors.Is(err, ErrStore) {
			t.Fatalf("expected ErrStore, got %v", err)
		}
	})
}

func TestBillingPaymentUseCase_Getters(t *testing.T) {
	t.Run("GetByID invalid", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, PaymentOptions{})
		if _, err := uc.GetByID(context.Background(), ""); !errors.Is(err, ErrInvalidPaymentID) {
			t.Fatalf("expected ErrInvalidPaymentID, got %v", err)
		}
	})

	t.Run("GetByID not found", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.repo.EXPECT().GetByID(gomock.Any(), "id-1").Return(entities.BillingPayment{}, nil)

		if _, err := f.useCase(PaymentOptions{}).GetByID(context.Background(), "id-1"); !errors.Is(err, ErrBillingPaymentNotFound) {
			t.Fatalf("expected ErrBillingPaymentNotFound, got %v", err)
		}
	})

	t.Run("GetByID success", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.repo.EXPECT().GetByID(gomock.Any(), "id-1").Return(entities.BillingPayment{ID: "id-1"}, nil)

		res, err := f.useCase(PaymentOptions{}).GetByID(context.Background(), " id-1 ")
		if err != nil || res.ID != "id-1" {
			t.Fatalf("unexpected result err=%v res=%+v", err, res)
		}
	})

	t.Run("LatestByOrderID picks the newest", func(t *testing.T) {
		f := newPaymentFixture(t)
		now := time.Now()
		f.repo.EXPECT().ListByOrderID(gomock.Any(), "os-1").Return([]entities.BillingPayment{
			{ID: "old", Date: now.Add(-time.Hour)},
			{ID: "new", Date: now},
		}, nil)

		res, err := f.useCase(PaymentOptions{}).LatestByOrderID(context.Background(), " os-1 ")
		if err != nil || res.ID != "new" {
			t.Fatalf("unexpected result err=%v res=%+v", err, res)
		}
	})

	t.Run("LatestByOrderID without payments", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.repo.EXPECT().ListByOrderID(gomock.Any(), "os-1").Return(nil, nil)

		if _, err := f.useCase(PaymentOptions{}).LatestByOrderID(context.Background(), "os-1"); !errors.Is(err, ErrBillingPaymentNotFound) {
			t.Fatalf("expected ErrBillingPaymentNotFound, got %v", err)
		}
	})
}

func TestBillingPaymentUseCase_HelperFunctions(t *testing.T) {
	t.Run("hasNonEmptyString", func(t *testing.T) {
		if hasNonEmptyString(map[string]any{}, "x") {
			t.Fatalf("expected false")
		}
		if hasNonEmptyString(map[string]any{"x": 1}, "x") {
			t.Fatalf("expected false for non-string")
		}
		if hasNonEmptyString(map[string]any{"x": "   "}, "x") {
			t.Fatalf("expected false for empty string")
		}
		if !hasNonEmptyString(map[string]any{"x": "ok"}, "x") {
			t.Fatalf("expected true")
		}
	})

	t.Run("hasPayer and hasPayerID", func(t *testing.T) {
		if hasPayer(map[string]any{"payer": "x"}) {
			t.Fatalf("expected false")
		}
		if !hasPayer(map[string]any{"payer": map[string]any{"email": "a@b.com"}}) {
			t.Fatalf("expected true with email")
		}
		if !hasPayer(map[string]any{"payer": map[string]any{"id": 10}}) {
			t.Fatalf("expected true with id")
		}
		if hasPayerID(map[string]any{"id": " "}) {
			t.Fatalf("expected false for blank id")
		}
	})

	t.Run("sandbox payer default", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, PaymentOptions{AccessToken: "TEST-abc"})
		m := map[string]any{}
		uc.ensurePayerDefaults(m)
		payer := m["payer"].(map[string]any)
		if payer["email"] != "test_user_br@testuser.com" || payer["type"] != "customer" {
			t.Fatalf("unexpected payer: %v", payer)
		}
	})
}
