package usecase

import (
	"errors"
	"fmt"
	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase/interfaces"
	"strings"
)

// ErrStore marks failures reported by the persistence collaborator.
var ErrStore = errors.New("store error")

var (
	ErrInvalidOrderID        = fmt.Errorf("%w: invalid order id", entities.ErrValidation)
	ErrInvalidClientID       = fmt.Errorf("%w: client_id is required", entities.ErrValidation)
	ErrInvalidVehicleID      = fmt.Errorf("%w: vehicle_id is required", entities.ErrValidation)
	ErrEmptyItems            = fmt.Errorf("%w: order must have at least one item", entities.ErrValidation)
	ErrMissingUnitPrice      = fmt.Errorf("%w: unit_price is required", entities.ErrValidation)
	ErrServiceLineInventory  = fmt.Errorf("%w: only part items may reference inventory", entities.ErrValidation)
	ErrVehicleNotOwned       = fmt.Errorf("%w: vehicle does not belong to client", entities.ErrValidation)
	ErrTerminalOrder         = fmt.Errorf("%w: order is in a terminal status", entities.ErrValidation)
	ErrOrderNotTerminal      = fmt.Errorf("%w: only completed or cancelled orders can be reopened", entities.ErrValidation)
	ErrInvalidInventoryID    = fmt.Errorf("%w: invalid inventory item id", entities.ErrValidation)
	ErrInvalidInventoryName  = fmt.Errorf("%w: inventory item name is required", entities.ErrValidation)
	ErrInvalidStockQuantity  = fmt.Errorf("%w: stock quantity must be positive", entities.ErrValidation)
	ErrInvalidStockLevel     = fmt.Errorf("%w: stock levels must not be negative", entities.ErrValidation)
	ErrInvalidInventoryPrice = fmt.Errorf("%w: prices must not be negative", entities.ErrValidation)
	ErrInvalidClientName     = fmt.Errorf("%w: client name is required", entities.ErrValidation)
	ErrInvalidVehicleData    = fmt.Errorf("%w: license_plate, make and model are required", entities.ErrValidation)
	ErrInvalidDateRange      = fmt.Errorf("%w: invalid date range", entities.ErrValidation)
)

var (
	ErrOrderNotFound         = fmt.Errorf("service order %w", entities.ErrNotFound)
	ErrClientNotFound        = fmt.Errorf("client %w", entities.ErrNotFound)
	ErrVehicleNotFound       = fmt.Errorf("vehicle %w", entities.ErrNotFound)
	ErrInventoryItemNotFound = fmt.Errorf("inventory item %w", entities.ErrNotFound)
)

var (
	// ErrInsufficientStock is the floor-check rejection of a stock decrement.
	ErrInsufficientStock  = interfaces.ErrInsufficientStock
	ErrCommitmentChanged  = interfaces.ErrCommitmentChanged
	ErrInventoryItemInUse = errors.New("inventory item is referenced by service orders")
	ErrStockCommit        = errors.New("stock commit failed")
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// StockCommitResult is the outcome of one stock movement of a commitment pass.
// Quantity is signed: positive consumed, negative returned to stock.
type StockCommitResult struct {
	InventoryItemID string
	Quantity        int
	Err             error
}

func (r StockCommitResult) Succeeded() bool { return r.Err == nil }

// StockCommitError reports the movements that failed in a commitment pass.
// Movements that succeeded stay applied; the order keeps its new status.
type StockCommitError struct {
	Failures []StockCommitResult
}

func (e *StockCommitError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s (%+d): %v", f.InventoryItemID, f.Quantity, f.Err))
	}
	return fmt.Sprintf("%s for %d item(s): %s", ErrStockCommit, len(e.Failures), strings.Join(parts, "; "))
}

func (e *StockCommitError) Is(target error) bool {
	return target == ErrStockCommit
}

func (e *StockCommitError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
