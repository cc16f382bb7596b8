package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
)

const (
	ServiceUser    = "user-service"
	ServiceProduct = "product-service"
)

// UpstreamError reports a failed remote validation call. Status is the last
// HTTP status seen; 0 means the service could not be reached at all.
type UpstreamError struct {
	Service   string
	ProductID uint // zero for user lookups
	Status    int
	Err       error
}

func (e *UpstreamError) Error() string {
	if e.ProductID != 0 {
		return fmt.Sprintf("%s rejected product %d (status %d): %v", e.Service, e.ProductID, e.Status, e.Err)
	}
	return fmt.Sprintf("%s rejected request (status %d): %v", e.Service, e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

type InsufficientStockError struct {
	ProductID uint
	Name      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.Name)
}

// StockSyncError reports a stock decrement that failed after the order was
// already committed. The order is NOT rolled back.
type StockSyncError struct {
	ProductID uint
	Err       error
}

func (e *StockSyncError) Error() string {
	return fmt.Sprintf("failed to update stock for product %d: %v", e.ProductID, e.Err)
}

func (e *StockSyncError) Unwrap() error { return e.Err }
