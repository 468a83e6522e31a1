package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase/interfaces"
	"gestao_oficina/pkg/logger"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrBillingPaymentNotFound         = fmt.Errorf("billing payment %w", entities.ErrNotFound)
	ErrInvalidPaymentID               = fmt.Errorf("%w: invalid payment id", entities.ErrValidation)
	ErrInvalidMPPayload               = fmt.Errorf("%w: invalid mercado pago payload", entities.ErrValidation)
	ErrOrderNotCompleted              = fmt.Errorf("%w: only completed orders can be charged", entities.ErrValidation)
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// PaymentOptions configures how charges reach Mercado Pago.
//
// In mock mode the gateway is never called and every charge is approved;
// sandbox payer fields are only filled for TEST- access tokens.
type PaymentOptions struct {
	MockMode        bool
	AccessToken     string
	TestPayerEmail  string
	TestPayerUserID string
}

func (o PaymentOptions) sandbox() bool {
	return strings.HasPrefix(strings.TrimSpace(o.AccessToken), "TEST-")
}

// IBillingPaymentUseCase charges completed service orders.
type IBillingPaymentUseCase interface {
	Pay(ctx context.Context, orderID string, mpPayload json.RawMessage) (entities.BillingPayment, error)
	GetByID(ctx context.Context, id string) (entities.BillingPayment, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.BillingPayment, error)
	LatestByOrderID(ctx context.Context, orderID string) (entities.BillingPayment, error)
}

type BillingPaymentUseCase struct {
	repo    interfaces.IBillingPaymentRepository
	orders  interfaces.IServiceOrderRepository
	gateway interfaces.IPaymentGateway
	opts    PaymentOptions
}

var _ IBillingPaymentUseCase = (*BillingPaymentUseCase)(nil)

func NewBillingPaymentUseCase(repo interfaces.IBillingPaymentRepository, orders interfaces.IServiceOrderRepository, gateway interfaces.IPaymentGateway, opts PaymentOptions) *BillingPaymentUseCase {
	return &BillingPaymentUseCase{repo: repo, orders: orders, gateway: gateway, opts: opts}
}

// Pay charges the order's total through the gateway and stores the payment
// with the provider response.
func (u *BillingPaymentUseCase) Pay(ctx context.Context, orderID string, mpPayload json.RawMessage) (entities.BillingPayment, error) {
	orderID = strings.TrimSpace(orderID)
	log := logger.For("payment", "usecase").WithField("order_id", orderID)
	mock := u.opts.MockMode

	if orderID == "" {
		return entities.BillingPayment{}, ErrInvalidOrderID
	}
	if len(mpPayload) == 0 || !json.Valid(mpPayload) {
		if !mock {
			log.Warn("invalid payload")
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
		mpPayload = json.RawMessage("{}")
	}
	if u.gateway == nil && !mock {
		return entities.BillingPayment{}, ErrPaymentGatewayNotConfigured
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return entities.BillingPayment{}, storeErr("get service order", err)
	}
	if order.ID == "" {
		return entities.BillingPayment{}, ErrOrderNotFound
	}
	if order.Status != entities.OrderStatusConcluido {
		log.WithField("status", order.Status).Warn("order not completed")
		return entities.BillingPayment{}, ErrOrderNotCompleted
	}
	amount, _ := order.TotalValue.Round(2).Float64()

	var reqMap map[string]any
	if err := json.Unmarshal(mpPayload, &reqMap); err != nil || reqMap == nil {
		return entities.BillingPayment{}, ErrInvalidMPPayload
	}
	if !mock {
		if !hasNonEmptyString(reqMap, "payment_method_id") {
			log.Warn("missing payment_method_id")
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
		u.normalizeSandboxPayer(reqMap)
		u.ensurePayerDefaults(reqMap)
		if !hasPayer(reqMap) {
			log.Warn("missing or invalid payer")
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
	}
	if _, ok := reqMap["external_reference"]; !ok {
		reqMap["external_reference"] = orderID
	}
	if _, ok := reqMap["description"]; !ok {
		reqMap["description"] = fmt.Sprintf("Ordem de serviço %s", orderID)
	}
	// The charged amount always comes from the stored order.
	reqMap["transaction_amount"] = amount
	body, err := json.Marshal(reqMap)
	if err != nil {
		return entities.BillingPayment{}, err
	}

	var (
		providerID     string
		providerStatus string
		providerResp   json.RawMessage
	)
	if mock {
		providerID, providerStatus, providerResp, err = mockCharge(reqMap)
		if err != nil {
			return entities.BillingPayment{}, err
		}
		log.Info("mock mode: gateway skipped")
	} else {
		providerID, providerStatus, providerResp, err = u.gateway.CreatePayment(ctx, body)
		if err != nil {
			log.WithError(err).Error("payment gateway failed")
			return entities.BillingPayment{}, classifyGatewayError(err)
		}
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		log.WithError(err).Warn("provider response is not a json object")
	}

	p := entities.BillingPayment{
		ID:           providerID,
		OrderID:      orderID,
		Date:         time.Now().UTC(),
		Status:       entities.PaymentStatusFromProvider(providerStatus),
		Amount:       order.TotalValue,
		MPPayloadRaw: providerResp,
		MPPayload:    parsed,
	}
	created, err := u.repo.Create(ctx, p)
	if err != nil {
		log.WithError(err).WithField("payment_id", p.ID).Error("payment repository create failed")
		return entities.BillingPayment{}, storeErr("create payment", err)
	}
	log.WithFields(logrus.Fields{"payment_id": created.ID, "status": created.Status, "provider_status": providerStatus}).Info("payment recorded")
	return created, nil
}

func mockCharge(req map[string]any) (string, string, json.RawMessage, error) {
	id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	resp := make(map[string]any, len(req)+5)
	for k, v := range req {
		resp[k] = v
	}
	resp["id"] = id
	resp["status"] = "approved"
	resp["status_detail"] = "accredited"
	resp["date_created"] = now
	resp["date_approved"] = now
	b, err := json.Marshal(resp)
	if err != nil {
		return "", "", nil, err
	}
	return id, "approved", b, nil
}

func classifyGatewayError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002"):
		return fmt.Errorf("%w: %v", ErrPaymentGatewayCustomerNotFound, err)
	case strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034"):
		return fmt.Errorf("%w: %v", ErrPaymentGatewayInvalidUsers, err)
	case strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401"):
		return fmt.Errorf("%w: %v", ErrPaymentGatewayUnauthorized, err)
	case strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400"):
		return fmt.Errorf("%w: %v", ErrPaymentGatewayBadRequest, err)
	}
	return err
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

func (u *BillingPaymentUseCase) ensurePayerDefaults(m map[string]any) {
	if m["payer"] == nil {
		m["payer"] = map[string]any{}
	}
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}
	if hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	if email := strings.TrimSpace(u.opts.TestPayerEmail); email != "" {
		payer["email"] = email
	} else if u.opts.sandbox() {
		payer["email"] = "test_user_br@testuser.com"
	}
}

// normalizeSandboxPayer swaps the configured sandbox payer id for its email,
// which is what the sandbox accepts.
func (u *BillingPaymentUseCase) normalizeSandboxPayer(m map[string]any) {
	payer, ok := m["payer"].(map[string]any)
	if !ok || !hasPayerID(payer) || hasNonEmptyString(payer, "email") || !u.opts.sandbox() {
		return
	}
	userID := strings.TrimSpace(u.opts.TestPayerUserID)
	email := strings.TrimSpace(u.opts.TestPayerEmail)
	if userID == "" || email == "" {
		return
	}
	if strings.TrimSpace(fmt.Sprintf("%v", payer["id"])) != userID {
		return
	}
	payer["email"] = email
	delete(payer, "id")
}

func (u *BillingPaymentUseCase) GetByID(ctx context.Context, id string) (entities.BillingPayment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.BillingPayment{}, ErrInvalidPaymentID
	}
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.BillingPayment{}, storeErr("get payment", err)
	}
	if p.ID == "" {
		return entities.BillingPayment{}, ErrBillingPaymentNotFound
	}
	return p, nil
}

// ListByOrderID returns the order's payments, newest first.
func (u *BillingPaymentUseCase) ListByOrderID(ctx context.Context, orderID string) ([]entities.BillingPayment, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	list, err := u.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, storeErr("list payments", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

func (u *BillingPaymentUseCase) LatestByOrderID(ctx context.Context, orderID string) (entities.BillingPayment, error) {
	list, err := u.ListByOrderID(ctx, orderID)
	if err != nil {
		return entities.BillingPayment{}, err
	}
	if len(list) == 0 {
		return entities.BillingPayment{}, ErrBillingPaymentNotFound
	}
	return list[0], nil
}
