package usecase

import (
	"context"
	"errors"
	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase/interfaces"
	"gestao_oficina/pkg/logger"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	maxParallelMovements = 8
	maxMovementAttempts  = 3
)

// LineInput is a line item as submitted by a caller. A nil UnitPrice on a
// part that references the inventory is filled from the item's sale price.
type LineInput struct {
	Kind            string
	Description     string
	Quantity        int
	UnitPrice       *decimal.Decimal
	InventoryItemID string
}

type OrderInput struct {
	ClientID     string
	VehicleID    string
	Items        []LineInput
	Observations string
	// Status defaults to Orçamento when empty.
	Status string
	UserID string
}

// OrderPatch holds the fields to change on an existing order. Nil fields are
// left untouched.
type OrderPatch struct {
	ClientID     *string
	VehicleID    *string
	Items        []LineInput
	Observations *string
	Status       *string
}

func (p OrderPatch) itemsChanged() bool { return p.Items != nil }

// OrderSaveResult is the outcome of a save: the persisted order plus one
// entry per stock movement attempted by the commitment pass.
type OrderSaveResult struct {
	Order        entities.ServiceOrder
	StockResults []StockCommitResult
}

type IServiceOrderUseCase interface {
	Create(ctx context.Context, in OrderInput) (OrderSaveResult, error)
	Update(ctx context.Context, id string, patch OrderPatch) (OrderSaveResult, error)
	SetStatus(ctx context.Context, id string, status string) (OrderSaveResult, error)
	Reopen(ctx context.Context, id string) (entities.ServiceOrder, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (entities.ServiceOrder, error)
	List(ctx context.Context) ([]entities.ServiceOrder, error)
}

type ServiceOrderUseCase struct {
	repo     interfaces.IServiceOrderRepository
	stock    IStockLedger
	clients  interfaces.IClientRepository
	vehicles interfaces.IVehicleRepository
}

var _ IServiceOrderUseCase = (*ServiceOrderUseCase)(nil)

func NewServiceOrderUseCase(repo interfaces.IServiceOrderRepository, stock IStockLedger, clients interfaces.IClientRepository, vehicles interfaces.IVehicleRepository) *ServiceOrderUseCase {
	return &ServiceOrderUseCase{repo: repo, stock: stock, clients: clients, vehicles: vehicles}
}

// prevalidateLines checks everything that does not need a lookup.
func prevalidateLines(items []LineInput) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	for _, in := range items {
		kind, err := entities.ParseLineKind(in.Kind)
		if err != nil {
			return err
		}
		if in.Quantity < 1 {
			return entities.ErrInvalidLineQuantity
		}
		if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
			return entities.ErrInvalidLinePrice
		}
		ref := strings.TrimSpace(in.InventoryItemID)
		if kind == entities.LineKindServico && ref != "" {
			return ErrServiceLineInventory
		}
		if in.UnitPrice == nil && ref == "" {
			return ErrMissingUnitPrice
		}
		if strings.TrimSpace(in.Description) == "" && ref == "" {
			return entities.ErrEmptyLineDesc
		}
	}
	return nil
}

func parseStatusOrDefault(raw string) (entities.OrderStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return entities.OrderStatusOrcamento, nil
	}
	return entities.ParseOrderStatus(raw)
}

// buildLines turns caller input into line items, snapshotting name and sale
// price from the inventory for parts that omit them.
func (u *ServiceOrderUseCase) buildLines(ctx context.Context, items []LineInput) ([]entities.LineItem, error) {
	lookups := map[string]entities.InventoryItem{}
	out := make([]entities.LineItem, 0, len(items))
	for _, in := range items {
		kind, err := entities.ParseLineKind(in.Kind)
		if err != nil {
			return nil, err
		}
		details := entities.LineDetails{
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
		}
		if in.UnitPrice != nil {
			details.UnitPrice = *in.UnitPrice
		}

		if kind == entities.LineKindServico {
			if err := details.Validate(); err != nil {
				return nil, err
			}
			out = append(out, entities.ServiceLine{LineDetails: details})
			continue
		}

		ref := strings.TrimSpace(in.InventoryItemID)
		if ref != "" && (in.UnitPrice == nil || details.Description == "") {
			item, ok := lookups[ref]
			if !ok {
				item, err = u.stock.GetByID(ctx, ref)
				if err != nil {
					return nil, err
				}
				lookups[ref] = item
			}
			if in.UnitPrice == nil {
				details.UnitPrice = item.SalePrice
			}
			if details.Description == "" {
				details.Description = item.Name
			}
		}
		if err := details.Validate(); err != nil {
			return nil, err
		}
		out = append(out, entities.PartLine{LineDetails: details, InventoryItemID: ref})
	}
	return out, nil
}

// checkOwnership verifies the client exists and owns the vehicle.
func (u *ServiceOrderUseCase) checkOwnership(ctx context.Context, clientID, vehicleID string) error {
	c, err := u.clients.GetByID(ctx, clientID)
	if err != nil {
		return storeErr("get client", err)
	}
	if c.ID == "" {
		return ErrClientNotFound
	}
	v, err := u.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return storeErr("get vehicle", err)
	}
	if v.ID == "" {
		return ErrVehicleNotFound
	}
	if v.ClientID != c.ID {
		return ErrVehicleNotOwned
	}
	return nil
}

func (u *ServiceOrderUseCase) Create(ctx context.Context, in OrderInput) (OrderSaveResult, error) {
	log := logger.For("order", "usecase")
	clientID := strings.TrimSpace(in.ClientID)
	vehicleID := strings.TrimSpace(in.VehicleID)
	if clientID == "" {
		return OrderSaveResult{}, ErrInvalidClientID
	}
	if vehicleID == "" {
		return OrderSaveResult{}, ErrInvalidVehicleID
	}
	if err := prevalidateLines(in.Items); err != nil {
		return OrderSaveResult{}, err
	}
	status, err := parseStatusOrDefault(in.Status)
	if err != nil {
		return OrderSaveResult{}, err
	}

	if err := u.checkOwnership(ctx, clientID, vehicleID); err != nil {
		log.WithError(err).WithFields(logrus.Fields{"client_id": clientID, "vehicle_id": vehicleID}).Warn("create rejected")
		return OrderSaveResult{}, err
	}
	lines, err := u.buildLines(ctx, in.Items)
	if err != nil {
		return OrderSaveResult{}, err
	}

	now := time.Now().UTC()
	order := entities.ServiceOrder{
		ID:             uuid.NewString(),
		ClientID:       clientID,
		VehicleID:      vehicleID,
		Status:         status,
		Items:          lines,
		Observations:   strings.TrimSpace(in.Observations),
		UserID:         in.UserID,
		CommittedParts: entities.StockCommitment{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	order.RecomputeTotal()

	created, err := u.repo.Create(ctx, order)
	if err != nil {
		log.WithError(err).WithField("order_id", order.ID).Error("create failed")
		return OrderSaveResult{}, storeErr("create service order", err)
	}
	log.WithFields(logrus.Fields{"order_id": created.ID, "status": created.Status, "total": created.TotalValue.StringFixed(2)}).Info("service order created")

	return u.commitIfNeeded(ctx, created)
}

func (u *ServiceOrderUseCase) Update(ctx context.Context, id string, patch OrderPatch) (OrderSaveResult, error) {
	log := logger.For("order", "usecase")
	id = strings.TrimSpace(id)
	if id == "" {
		return OrderSaveResult{}, ErrInvalidOrderID
	}
	if patch.ClientID != nil && strings.TrimSpace(*patch.ClientID) == "" {
		return OrderSaveResult{}, ErrInvalidClientID
	}
	if patch.VehicleID != nil && strings.TrimSpace(*patch.VehicleID) == "" {
		return OrderSaveResult{}, ErrInvalidVehicleID
	}
	if patch.itemsChanged() {
		if err := prevalidateLines(patch.Items); err != nil {
			return OrderSaveResult{}, err
		}
	}
	var target entities.OrderStatus
	if patch.Status != nil {
		s, err := entities.ParseOrderStatus(*patch.Status)
		if err != nil {
			return OrderSaveResult{}, err
		}
		target = s
	}

	order, err := u.GetByID(ctx, id)
	if err != nil {
		return OrderSaveResult{}, err
	}
	if order.Status.IsTerminal() {
		return OrderSaveResult{}, ErrTerminalOrder
	}

	if patch.ClientID != nil || patch.VehicleID != nil {
		if patch.ClientID != nil {
			order.ClientID = strings.TrimSpace(*patch.ClientID)
		}
		if patch.VehicleID != nil {
			order.VehicleID = strings.TrimSpace(*patch.VehicleID)
		}
		if err := u.checkOwnership(ctx, order.ClientID, order.VehicleID); err != nil {
			return OrderSaveResult{}, err
		}
	}
	if patch.itemsChanged() {
		lines, err := u.buildLines(ctx, patch.Items)
		if err != nil {
			return OrderSaveResult{}, err
		}
		order.Items = lines
	}
	if patch.Observations != nil {
		order.Observations = strings.TrimSpace(*patch.Observations)
	}
	if target != "" {
		if !order.Status.CanTransitionTo(target) {
			return OrderSaveResult{}, ErrTerminalOrder
		}
		order.Status = target
	}
	order.RecomputeTotal()
	order.UpdatedAt = time.Now().UTC()

	updated, err := u.repo.Update(ctx, order)
	if err != nil {
		log.WithError(err).WithField("order_id", id).Error("update failed")
		return OrderSaveResult{}, storeErr("update service order", err)
	}
	if updated.ID == "" {
		return OrderSaveResult{}, ErrOrderNotFound
	}
	log.WithFields(logrus.Fields{"order_id": id, "status": updated.Status}).Info("service order updated")

	return u.commitIfNeeded(ctx, updated)
}

// SetStatus moves the order to status. The status is persisted before stock
// is touched and stays even when some movements fail.
func (u *ServiceOrderUseCase) SetStatus(ctx context.Context, id string, status string) (OrderSaveResult, error) {
	log := logger.For("order", "usecase")
	id = strings.TrimSpace(id)
	if id == "" {
		return OrderSaveResult{}, ErrInvalidOrderID
	}
	target, err := entities.ParseOrderStatus(status)
	if err != nil {
		return OrderSaveResult{}, err
	}

	order, err := u.GetByID(ctx, id)
	if err != nil {
		return OrderSaveResult{}, err
	}
	if !order.Status.CanTransitionTo(target) {
		log.WithFields(logrus.Fields{"order_id": id, "from": order.Status, "to": target}).Warn("transition rejected")
		return OrderSaveResult{}, ErrTerminalOrder
	}

	from := order.Status
	order.Status = target
	order.UpdatedAt = time.Now().UTC()
	updated, err := u.repo.Update(ctx, order)
	if err != nil {
		log.WithError(err).WithField("order_id", id).Error("status update failed")
		return OrderSaveResult{}, storeErr("update service order", err)
	}
	if updated.ID == "" {
		return OrderSaveResult{}, ErrOrderNotFound
	}
	log.WithFields(logrus.Fields{"order_id": id, "from": from, "to": target}).Info("status changed")

	return u.commitIfNeeded(ctx, updated)
}

// Reopen moves a completed or cancelled order back to Orçamento. Stock and
// the committed quantities are left as they are.
func (u *ServiceOrderUseCase) Reopen(ctx context.Context, id string) (entities.ServiceOrder, error) {
	log := logger.For("order", "usecase")
	order, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if !order.Status.IsTerminal() {
		return entities.ServiceOrder{}, ErrOrderNotTerminal
	}

	from := order.Status
	order.Status = entities.OrderStatusOrcamento
	order.UpdatedAt = time.Now().UTC()
	updated, err := u.repo.Update(ctx, order)
	if err != nil {
		return entities.ServiceOrder{}, storeErr("update service order", err)
	}
	if updated.ID == "" {
		return entities.ServiceOrder{}, ErrOrderNotFound
	}
	log.WithFields(logrus.Fields{"order_id": updated.ID, "from": from}).Info("service order reopened")
	return updated, nil
}

// Delete removes the order. Committed stock is not returned.
func (u *ServiceOrderUseCase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidOrderID
	}
	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		return storeErr("delete service order", err)
	}
	if deleted.ID == "" {
		return ErrOrderNotFound
	}
	logger.For("order", "usecase").WithField("order_id", id).Info("service order deleted")
	return nil
}

func (u *ServiceOrderUseCase) GetByID(ctx context.Context, id string) (entities.ServiceOrder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.ServiceOrder{}, ErrInvalidOrderID
	}
	o, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.ServiceOrder{}, storeErr("get service order", err)
	}
	if o.ID == "" {
		return entities.ServiceOrder{}, ErrOrderNotFound
	}
	return o, nil
}

// List returns all orders, newest first.
func (u *ServiceOrderUseCase) List(ctx context.Context) ([]entities.ServiceOrder, error) {
	orders, err := u.repo.List(ctx)
	if err != nil {
		return nil, storeErr("list service orders", err)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (u *ServiceOrderUseCase) commitIfNeeded(ctx context.Context, order entities.ServiceOrder) (OrderSaveResult, error) {
	if !order.Status.ImpactsStock() {
		return OrderSaveResult{Order: order}, nil
	}
	return u.commitStock(ctx, order)
}

// commitStock brings the stock taken by the order in line with its part
// lines. Every item moves in its own goroutine and each movement is written
// together with the order's committed quantity, so a failed or concurrent
// save never takes the same units twice.
func (u *ServiceOrderUseCase) commitStock(ctx context.Context, order entities.ServiceOrder) (OrderSaveResult, error) {
	log := logger.For("order", "usecase").WithField("order_id", order.ID)

	committed := order.CommittedParts.Clone()
	deltas := committed.DeltaTo(entities.DesiredCommitment(order.Items))
	if len(deltas) == 0 {
		return OrderSaveResult{Order: order}, nil
	}

	moves := make([]entities.StockMovement, len(deltas))
	for i, d := range deltas {
		from := committed[d.InventoryItemID]
		moves[i] = entities.StockMovement{OrderID: order.ID, InventoryItemID: d.InventoryItemID, From: from, To: from + d.Quantity}
	}

	outcomes := make([]moveOutcome, len(moves))
	g := new(errgroup.Group)
	g.SetLimit(maxParallelMovements)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			outcomes[i] = u.moveStock(ctx, m)
			return nil
		})
	}
	_ = g.Wait()

	results := make([]StockCommitResult, 0, len(outcomes))
	var failures []StockCommitResult
	for _, o := range outcomes {
		if !o.result.Succeeded() {
			failures = append(failures, o.result)
			results = append(results, o.result)
			log.WithError(o.result.Err).WithFields(logrus.Fields{"inventory_item_id": o.result.InventoryItemID, "quantity": o.result.Quantity}).Warn("stock movement failed")
			continue
		}
		committed[o.move.InventoryItemID] = o.move.To
		// zero means another save had already reached the target
		if o.result.Quantity != 0 {
			results = append(results, o.result)
		}
	}
	for id, q := range committed {
		if q == 0 {
			delete(committed, id)
		}
	}
	order.CommittedParts = committed

	log.WithFields(logrus.Fields{"movements": len(results), "failed": len(failures)}).Info("stock commitment pass done")
	res := OrderSaveResult{Order: order, StockResults: results}
	if len(failures) > 0 {
		return res, &StockCommitError{Failures: failures}
	}
	return res, nil
}

type moveOutcome struct {
	move   entities.StockMovement
	result StockCommitResult
}

// moveStock applies m. When another save changed the order's committed
// quantity first, the order is read again and the movement recomputed
// towards the same target.
func (u *ServiceOrderUseCase) moveStock(ctx context.Context, m entities.StockMovement) moveOutcome {
	for attempt := 1; ; attempt++ {
		_, err := u.stock.MoveForOrder(ctx, m)
		if err == nil {
			return moveOutcome{move: m, result: StockCommitResult{InventoryItemID: m.InventoryItemID, Quantity: m.Quantity()}}
		}
		if !errors.Is(err, ErrCommitmentChanged) || attempt == maxMovementAttempts {
			if !errors.Is(err, ErrInsufficientStock) && !errors.Is(err, entities.ErrNotFound) && !errors.Is(err, ErrStore) && !errors.Is(err, ErrCommitmentChanged) {
				err = storeErr("stock movement", err)
			}
			return moveOutcome{move: m, result: StockCommitResult{InventoryItemID: m.InventoryItemID, Quantity: m.Quantity(), Err: err}}
		}

		current, err := u.GetByID(ctx, m.OrderID)
		if err != nil {
			return moveOutcome{move: m, result: StockCommitResult{InventoryItemID: m.InventoryItemID, Quantity: m.Quantity(), Err: err}}
		}
		m.From = current.CommittedParts[m.InventoryItemID]
		if m.Quantity() == 0 {
			return moveOutcome{move: m, result: StockCommitResult{InventoryItemID: m.InventoryItemID}}
		}
	}
}
