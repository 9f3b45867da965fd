package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/warehouse/inventory/internal/domain"
)

// DeallocationStore is the slice of the repository the deallocation
// worker uses.
type DeallocationStore interface {
	GetOrderAllocation(ctx context.Context, sku, orderID string) (*domain.OrderAllocation, error)
	DeallocateOrderStock(ctx context.Context, snapshot domain.OrderAllocation) error
}

// DeallocateOrderPaymentRejectedWorker releases a previously made
// allocation when the order's payment is rejected.
type DeallocateOrderPaymentRejectedWorker struct {
	store DeallocationStore
	log   *zap.Logger
}

// NewDeallocateOrderPaymentRejectedWorker creates the deallocation worker.
func NewDeallocateOrderPaymentRejectedWorker(store DeallocationStore, log *zap.Logger) *DeallocateOrderPaymentRejectedWorker {
	return &DeallocateOrderPaymentRejectedWorker{store: store, log: log}
}

// Handle reads the allocation for the rejected order and commits the
// compensating transaction. Without an allocation record there is
// nothing to compensate and the fact is dropped. A snapshot mismatch at
// commit time surfaces as an invalid deallocation; compensations are
// never compensated automatically.
func (w *DeallocateOrderPaymentRejectedWorker) Handle(ctx context.Context, fact domain.PaymentRejected) error {
	snapshot, err := w.store.GetOrderAllocation(ctx, fact.SKU, fact.OrderID)
	if err != nil {
		return err
	}
	if snapshot == nil {
		w.log.Warn("no allocation found for rejected payment",
			zap.String("order_id", fact.OrderID),
			zap.String("sku", fact.SKU),
		)
		return nil
	}

	if err := w.store.DeallocateOrderStock(ctx, *snapshot); err != nil {
		return err
	}

	w.log.Info("order stock deallocated",
		zap.String("order_id", fact.OrderID),
		zap.String("sku", fact.SKU),
		zap.Int64("units", snapshot.Units),
	)
	return nil
}
