package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"gestao_oficina/internal/adapter/http/handlers/mocks"
	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newClientRouter(h *ClientHandler) *gin.Engine {
	r := gin.New()
	r.GET("/v1/clients", h.ListClients)
	r.POST("/v1/clients", h.CreateClient)
	r.GET("/v1/clients/:id", h.GetClient)
	r.GET("/v1/clients/:id/vehicles", h.ListClientVehicles)
	r.GET("/v1/vehicles", h.ListVehicles)
	r.POST("/v1/vehicles", h.CreateVehicle)
	r.GET("/v1/vehicles/:id", h.GetVehicle)
	return r
}

func TestClientHandler_Clients(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("create", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIClientUseCase(ctrl)
		r := newClientRouter(NewClientHandler(uc))

		uc.EXPECT().CreateClient(gomock.Any(), usecase.ClientInput{Name: "Maria", Email: "m@x.com"}).
			Return(entities.Client{ID: "c-1", Name: "Maria", Email: "m@x.com", Status: "ativo"}, nil)

		w := serve(r, http.MethodPost, "/v1/clients", `{"name":"Maria","email":"m@x.com"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["id"] != "c-1" || body["status"] != "ativo" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("create without name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIClientUseCase(ctrl)
		r := newClientRouter(NewClientHandler(uc))

		w := serve(r, http.MethodPost, "/v1/clients", `{"email":"m@x.com"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("vehicles of unknown client", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIClientUseCase(ctrl)
		r := newClientRouter(NewClientHandler(uc))

		uc.EXPECT().ListClientVehicles(gomock.Any(), "c-9").Return(nil, usecase.ErrClientNotFound)

		w := serve(r, http.MethodGet, "/v1/clients/c-9/vehicles", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestClientHandler_Vehicles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("create", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIClientUseCase(ctrl)
		r := newClientRouter(NewClientHandler(uc))

		uc.EXPECT().CreateVehicle(gomock.Any(), usecase.VehicleInput{ClientID: "c-1", LicensePlate: "abc1d23", Make: "Fiat", Model: "Uno", Year: 2015}).
			Return(entities.Vehicle{ID: "v-1", ClientID: "c-1", LicensePlate: "ABC1D23"}, nil)

		w := serve(r, http.MethodPost, "/v1/vehicles", `{"client_id":"c-1","license_plate":"abc1d23","make":"Fiat","model":"Uno","year":2015}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIClientUseCase(ctrl)
		r := newClientRouter(NewClientHandler(uc))

		uc.EXPECT().ListVehicles(gomock.Any()).Return([]entities.Vehicle{{ID: "v-1"}}, nil)

		w := serve(r, http.MethodGet, "/v1/vehicles", "")
		var body []map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if w.Code != http.StatusOK || len(body) != 1 {
			t.Fatalf("unexpected response %d: %s", w.Code, w.Body.String())
		}
	})
}
