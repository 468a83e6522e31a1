package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"gestao_oficina/internal/adapter/http/handlers/mocks"
	"gestao_oficina/internal/adapter/http/middleware"
	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func newInventoryRouter(h *InventoryHandler) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.WithSession(c, entities.AuthSession{UserID: "admin-1", Role: entities.RoleAdmin})
	})
	r.GET("/v1/inventory", h.ListInventoryItems)
	r.GET("/v1/inventory/low-stock", h.ListLowStockItems)
	r.GET("/v1/inventory/:id", h.GetInventoryItem)
	r.POST("/v1/inventory", h.CreateInventoryItem)
	r.PUT("/v1/inventory/:id", h.UpdateInventoryItem)
	r.DELETE("/v1/inventory/:id", h.DeleteInventoryItem)
	r.POST("/v1/inventory/:id/adjust", h.AdjustInventoryStock)
	return r
}

func TestInventoryHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIInventoryUseCase(ctrl)
	r := newInventoryRouter(NewInventoryHandler(uc))

	uc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, in usecase.InventoryInput) (entities.InventoryItem, error) {
		if in.InitialStock != 10 || in.UserID != "admin-1" || !in.SalePrice.Equal(decimal.RequireFromString("12.5")) {
			t.Fatalf("unexpected input: %+v", in)
		}
		return entities.InventoryItem{ID: "inv-1", Name: in.Name, CurrentStock: 10, MinimumStock: 9}, nil
	})

	w := serve(r, http.MethodPost, "/v1/inventory", `{"name":"Vela","current_stock":10,"minimum_stock":9,"cost_price":"8","sale_price":12.5}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["stock_level"] != "atencao" || body["is_low_stock"] != false {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestInventoryHandler_Adjust(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("insufficient stock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInventoryUseCase(ctrl)
		r := newInventoryRouter(NewInventoryHandler(uc))

		uc.EXPECT().AdjustStock(gomock.Any(), "inv-1", -50).Return(entities.InventoryItem{}, usecase.ErrInsufficientStock)

		w := serve(r, http.MethodPost, "/v1/inventory/inv-1/adjust", `{"delta":-50}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("zero delta is rejected before the use case", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInventoryUseCase(ctrl)
		r := newInventoryRouter(NewInventoryHandler(uc))

		w := serve(r, http.MethodPost, "/v1/inventory/inv-1/adjust", `{"delta":0}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestInventoryHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIInventoryUseCase(ctrl)
	r := newInventoryRouter(NewInventoryHandler(uc))

	uc.EXPECT().Delete(gomock.Any(), "inv-1").Return(usecase.ErrInventoryItemInUse)

	w := serve(r, http.MethodDelete, "/v1/inventory/inv-1", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestInventoryHandler_Lists(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIInventoryUseCase(ctrl)
	r := newInventoryRouter(NewInventoryHandler(uc))

	uc.EXPECT().ListLowStock(gomock.Any()).Return([]entities.InventoryItem{{ID: "inv-2", CurrentStock: 0, MinimumStock: 3}}, nil)
	uc.EXPECT().GetByID(gomock.Any(), "nope").Return(entities.InventoryItem{}, usecase.ErrInventoryItemNotFound)

	w := serve(r, http.MethodGet, "/v1/inventory/low-stock", "")
	var items []map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &items)
	if w.Code != http.StatusOK || len(items) != 1 || items[0]["stock_level"] != "baixo" {
		t.Fatalf("unexpected low-stock response %d: %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodGet, "/v1/inventory/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
