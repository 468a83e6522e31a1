package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gestao_oficina/internal/adapter/http/handlers"
	"gestao_oficina/internal/adapter/http/handlers/mocks"
	"gestao_oficina/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

type staticAuth map[string]entities.AuthSession

func (a staticAuth) Authenticate(_ context.Context, token string) (entities.AuthSession, error) {
	s, ok := a[token]
	if !ok {
		return entities.AuthSession{}, errors.New("unknown token")
	}
	return s, nil
}

type routerFixture struct {
	router    *gin.Engine
	inventory *mocks.MockIInventoryUseCase
	orders    *mocks.MockIServiceOrderUseCase
	auth      *mocks.MockIAuthUseCase
}

func newRouterFixture(t *testing.T) routerFixture {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	f := routerFixture{
		inventory: mocks.NewMockIInventoryUseCase(ctrl),
		orders:    mocks.NewMockIServiceOrderUseCase(ctrl),
		auth:      mocks.NewMockIAuthUseCase(ctrl),
	}
	h := Handlers{
		Auth:      handlers.NewAuthHandler(f.auth),
		Clients:   handlers.NewClientHandler(mocks.NewMockIClientUseCase(ctrl)),
		Inventory: handlers.NewInventoryHandler(f.inventory),
		Orders:    handlers.NewServiceOrderHandler(f.orders),
		Payments:  handlers.NewBillingPaymentHandler(mocks.NewMockIBillingPaymentUseCase(ctrl), false),
		Reports:   handlers.NewReportHandler(mocks.NewMockIReportUseCase(ctrl), nil),
	}
	f.router = NewRouter(h, staticAuth{
		"admin": {UserID: "a-1", Role: entities.RoleAdmin},
		"mec":   {UserID: "m-1", Role: entities.RoleMecanico},
	})
	return f
}

func (f routerFixture) do(method, path, token, body string) int {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w.Code
}

func TestRouter_PublicRoutes(t *testing.T) {
	f := newRouterFixture(t)

	if code := f.do(http.MethodGet, "/v1/ping", "", ""); code != http.StatusOK {
		t.Fatalf("expected ping 200, got %d", code)
	}
	if code := f.do(http.MethodPost, "/v1/auth/login", "", `{}`); code != http.StatusBadRequest {
		t.Fatalf("expected login to be reachable without token, got %d", code)
	}
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/v1/service-orders", "/v1/inventory", "/v1/clients", "/v1/reports", "/v1/auth/me", "/v1/payments/pay-1"} {
		if code := f.do(http.MethodGet, path, "", ""); code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, code)
		}
	}
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	f := newRouterFixture(t)

	cases := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/v1/inventory", `{"name":"x"}`},
		{http.MethodPut, "/v1/inventory/inv-1", `{"name":"x"}`},
		{http.MethodDelete, "/v1/inventory/inv-1", ""},
		{http.MethodPost, "/v1/inventory/inv-1/adjust", `{"delta":1}`},
		{http.MethodDelete, "/v1/service-orders/os-1", ""},
		{http.MethodPost, "/v1/service-orders/os-1/reopen", ""},
		{http.MethodGet, "/v1/users", ""},
		{http.MethodDelete, "/v1/users/u-1", ""},
	}
	for _, tc := range cases {
		if code := f.do(tc.method, tc.path, "mec", tc.body); code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403 for mecanico, got %d", tc.method, tc.path, code)
		}
	}

	f.inventory.EXPECT().Delete(gomock.Any(), "inv-1").Return(nil)
	if code := f.do(http.MethodDelete, "/v1/inventory/inv-1", "admin", ""); code != http.StatusNoContent {
		t.Fatalf("expected admin delete 204, got %d", code)
	}
}

func TestRouter_MecanicoCanWorkOrders(t *testing.T) {
	f := newRouterFixture(t)

	f.orders.EXPECT().List(gomock.Any()).Return(nil, nil)
	f.inventory.EXPECT().List(gomock.Any()).Return(nil, nil)

	if code := f.do(http.MethodGet, "/v1/service-orders", "mec", ""); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := f.do(http.MethodGet, "/v1/inventory", "mec", ""); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}
