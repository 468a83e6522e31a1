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
)

// InventoryInput carries the editable fields of an inventory item.
// InitialStock is only honoured on create.
type InventoryInput struct {
	Name         string
	InitialStock int
	MinimumStock int
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	CategoryID   string
	SupplierID   string
	UserID       string
}

// IStockLedger is the part of the inventory the order lifecycle depends on.
type IStockLedger interface {
	GetByID(ctx context.Context, id string) (entities.InventoryItem, error)
	MoveForOrder(ctx context.Context, m entities.StockMovement) (entities.InventoryItem, error)
}

type IInventoryUseCase interface {
	IStockLedger
	DecrementStock(ctx context.Context, id string, quantity int) (entities.InventoryItem, error)
	IncrementStock(ctx context.Context, id string, quantity int) (entities.InventoryItem, error)
	Create(ctx context.Context, in InventoryInput) (entities.InventoryItem, error)
	List(ctx context.Context) ([]entities.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]entities.InventoryItem, error)
	Update(ctx context.Context, id string, in InventoryInput) (entities.InventoryItem, error)
	Delete(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (entities.InventoryItem, error)
}

type InventoryUseCase struct {
	repo          interfaces.IInventoryRepository
	orders        interfaces.IServiceOrderRepository
	allowNegative bool
}

var _ IInventoryUseCase = (*InventoryUseCase)(nil)

// NewInventoryUseCase builds the ledger. allowNegative lets decrements take
// current_stock below zero instead of failing with ErrInsufficientStock.
func NewInventoryUseCase(repo interfaces.IInventoryRepository, orders interfaces.IServiceOrderRepository, allowNegative bool) *InventoryUseCase {
	return &InventoryUseCase{repo: repo, orders: orders, allowNegative: allowNegative}
}

func validateInventoryInput(in InventoryInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidInventoryName
	}
	if in.InitialStock < 0 || in.MinimumStock < 0 {
		return ErrInvalidStockLevel
	}
	if in.CostPrice.IsNegative() || in.SalePrice.IsNegative() {
		return ErrInvalidInventoryPrice
	}
	return nil
}

func (u *InventoryUseCase) Create(ctx context.Context, in InventoryInput) (entities.InventoryItem, error) {
	log := logger.For("inventory", "usecase")
	if err := validateInventoryInput(in); err != nil {
		return entities.InventoryItem{}, err
	}

	now := time.Now().UTC()
	item := entities.InventoryItem{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		CurrentStock: in.InitialStock,
		MinimumStock: in.MinimumStock,
		CostPrice:    in.CostPrice,
		SalePrice:    in.SalePrice,
		CategoryID:   strings.TrimSpace(in.CategoryID),
		SupplierID:   strings.TrimSpace(in.SupplierID),
		UserID:       in.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := u.repo.Create(ctx, item)
	if err != nil {
		log.WithError(err).WithField("name", item.Name).Error("create failed")
		return entities.InventoryItem{}, storeErr("create inventory item", err)
	}
	log.WithField("inventory_item_id", created.ID).Info("inventory item created")
	return created, nil
}

func (u *InventoryUseCase) GetByID(ctx context.Context, id string) (entities.InventoryItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.InventoryItem{}, ErrInvalidInventoryID
	}
	item, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.InventoryItem{}, storeErr("get inventory item", err)
	}
	if item.ID == "" {
		return entities.InventoryItem{}, ErrInventoryItemNotFound
	}
	return item, nil
}

// List returns every item ordered by name.
func (u *InventoryUseCase) List(ctx context.Context) ([]entities.InventoryItem, error) {
	items, err := u.repo.List(ctx)
	if err != nil {
		return nil, storeErr("list inventory", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

// ListLowStock returns items at or below their minimum stock, most depleted
// first.
func (u *InventoryUseCase) ListLowStock(ctx context.Context) ([]entities.InventoryItem, error) {
	items, err := u.List(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]entities.InventoryItem, 0)
	for _, it := range items {
		if it.IsLowStock() {
			low = append(low, it)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].CurrentStock-low[i].MinimumStock < low[j].CurrentStock-low[j].MinimumStock
	})
	return low, nil
}

// Update edits the descriptive fields and prices. Stock is left untouched;
// corrections go through AdjustStock.
func (u *InventoryUseCase) Update(ctx context.Context, id string, in InventoryInput) (entities.InventoryItem, error) {
	log := logger.For("inventory", "usecase")
	in.InitialStock = 0
	if err := validateInventoryInput(in); err != nil {
		return entities.InventoryItem{}, err
	}
	current, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.InventoryItem{}, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.MinimumStock = in.MinimumStock
	current.CostPrice = in.CostPrice
	current.SalePrice = in.SalePrice
	current.CategoryID = strings.TrimSpace(in.CategoryID)
	current.SupplierID = strings.TrimSpace(in.SupplierID)
	current.UpdatedAt = time.Now().UTC()

	updated, err := u.repo.Update(ctx, current)
	if err != nil {
		log.WithError(err).WithField("inventory_item_id", current.ID).Error("update failed")
		return entities.InventoryItem{}, storeErr("update inventory item", err)
	}
	if updated.ID == "" {
		return entities.InventoryItem{}, ErrInventoryItemNotFound
	}
	return updated, nil
}

// Delete removes an item that no service order references.
func (u *InventoryUseCase) Delete(ctx context.Context, id string) error {
	log := logger.For("inventory", "usecase")
	item, err := u.GetByID(ctx, id)
	if err != nil {
		return err
	}

	orders, err := u.orders.List(ctx)
	if err != nil {
		return storeErr("list service orders", err)
	}
	for _, o := range orders {
		for _, p := range o.PartLines() {
			if p.InventoryItemID == item.ID {
				log.WithFields(logrus.Fields{"inventory_item_id": item.ID, "order_id": o.ID}).Warn("delete blocked: item in use")
				return ErrInventoryItemInUse
			}
		}
	}

	deleted, err := u.repo.Delete(ctx, item.ID)
	if err != nil {
		return storeErr("delete inventory item", err)
	}
	if deleted.ID == "" {
		return ErrInventoryItemNotFound
	}
	log.WithField("inventory_item_id", item.ID).Info("inventory item deleted")
	return nil
}

// DecrementStock takes quantity units from the item in one relative store
// update.
func (u *InventoryUseCase) DecrementStock(ctx context.Context, id string, quantity int) (entities.InventoryItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.InventoryItem{}, ErrInvalidInventoryID
	}
	if quantity < 1 {
		return entities.InventoryItem{}, ErrInvalidStockQuantity
	}
	item, err := u.repo.DecrementStock(ctx, id, quantity, u.allowNegative)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return entities.InventoryItem{}, err
		}
		return entities.InventoryItem{}, storeErr("decrement stock", err)
	}
	if item.ID == "" {
		return entities.InventoryItem{}, ErrInventoryItemNotFound
	}
	return item, nil
}

// IncrementStock returns quantity units to the item.
func (u *InventoryUseCase) IncrementStock(ctx context.Context, id string, quantity int) (entities.InventoryItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.InventoryItem{}, ErrInvalidInventoryID
	}
	if quantity < 1 {
		return entities.InventoryItem{}, ErrInvalidStockQuantity
	}
	item, err := u.repo.IncrementStock(ctx, id, quantity)
	if err != nil {
		return entities.InventoryItem{}, storeErr("increment stock", err)
	}
	if item.ID == "" {
		return entities.InventoryItem{}, ErrInventoryItemNotFound
	}
	return item, nil
}

// MoveForOrder applies one order movement together with the order's new
// committed quantity. ErrCommitmentChanged means the order moved on since m
// was computed and nothing was written.
func (u *InventoryUseCase) MoveForOrder(ctx context.Context, m entities.StockMovement) (entities.InventoryItem, error) {
	if strings.TrimSpace(m.InventoryItemID) == "" {
		return entities.InventoryItem{}, ErrInvalidInventoryID
	}
	if strings.TrimSpace(m.OrderID) == "" {
		return entities.InventoryItem{}, ErrInvalidOrderID
	}
	if m.Quantity() == 0 || m.To < 0 {
		return entities.InventoryItem{}, ErrInvalidStockQuantity
	}
	item, err := u.repo.MoveForOrder(ctx, m, u.allowNegative)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrCommitmentChanged) {
			return entities.InventoryItem{}, err
		}
		return entities.InventoryItem{}, storeErr("move stock for order", err)
	}
	if item.ID == "" {
		return entities.InventoryItem{}, ErrInventoryItemNotFound
	}
	return item, nil
}

// AdjustStock applies a manual signed correction. Negative corrections are
// subject to the same floor as order consumption.
func (u *InventoryUseCase) AdjustStock(ctx context.Context, id string, delta int) (entities.InventoryItem, error) {
	log := logger.For("inventory", "usecase")
	var (
		item entities.InventoryItem
		err  error
	)
	switch {
	case delta > 0:
		item, err = u.IncrementStock(ctx, id, delta)
	case delta < 0:
		item, err = u.DecrementStock(ctx, id, -delta)
	default:
		return entities.InventoryItem{}, ErrInvalidStockQuantity
	}
	if err != nil {
		return entities.InventoryItem{}, err
	}
	log.WithFields(logrus.Fields{"inventory_item_id": item.ID, "delta": delta, "current_stock": item.CurrentStock}).Info("stock adjusted")
	return item, nil
}
