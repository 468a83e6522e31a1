package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{usecase.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{usecase.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{usecase.ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{usecase.ErrInventoryItemInUse, http.StatusConflict, "INVENTORY_ITEM_IN_USE"},
		{usecase.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{usecase.ErrOrderNotCompleted, http.StatusConflict, "ORDER_NOT_COMPLETED"},
		{usecase.ErrInvalidMPPayload, http.StatusBadRequest, "INVALID_REQUEST"},
		{usecase.ErrPaymentGatewayBadRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{usecase.ErrPaymentGatewayCustomerNotFound, http.StatusBadRequest, "PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND"},
		{usecase.ErrPaymentGatewayInvalidUsers, http.StatusBadRequest, "PAYMENT_PROVIDER_INVALID_USERS"},
		{usecase.ErrPaymentGatewayUnauthorized, http.StatusUnauthorized, "PAYMENT_PROVIDER_UNAUTHORIZED"},
		{usecase.ErrPaymentGatewayNotConfigured, http.StatusServiceUnavailable, "PAYMENT_PROVIDER_UNAVAILABLE"},
		{usecase.ErrTerminalOrder, http.StatusBadRequest, "INVALID_REQUEST"},
		{entities.ErrInvalidLineKind, http.StatusBadRequest, "INVALID_REQUEST"},
		{usecase.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{usecase.ErrBillingPaymentNotFound, http.StatusNotFound, "PAYMENT_NOT_FOUND"},
		{usecase.ErrClientNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: get: timeout", usecase.ErrStore), http.StatusInternalServerError, "STORE_ERROR"},
		{errors.New("other"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		got := mapError(tc.err)
		if got.HTTPStatus != tc.status || got.Code != tc.code {
			t.Fatalf("for err %v expected %d/%s got %d/%s", tc.err, tc.status, tc.code, got.HTTPStatus, got.Code)
		}
	}
}

func TestMapError_ValidationMessage(t *testing.T) {
	got := mapError(usecase.ErrVehicleNotOwned)
	if got.Message != usecase.ErrVehicleNotOwned.Error() {
		t.Fatalf("expected validation message to be surfaced, got %q", got.Message)
	}
}
