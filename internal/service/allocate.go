// Package service holds the worker services that drive the allocation
// protocol: the allocation state machine, the payment-rejected
// compensation flow, and the restock applier. Services decide which
// domain event a store outcome turns into; controllers above them only
// need to know whether an error is transient.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/domain"
)

// AllocationStore is the slice of the repository the allocation worker
// uses.
type AllocationStore interface {
	AllocateOrderStock(ctx context.Context, fact domain.OrderCreated) error
}

// EventRaiser records domain events with write-once semantics.
type EventRaiser interface {
	Raise(ctx context.Context, event domain.Event) error
}

// AllocateOrderStockWorker allocates stock for incoming order-created
// facts and raises the resulting domain event.
type AllocateOrderStockWorker struct {
	store  AllocationStore
	events EventRaiser
	log    *zap.Logger
}

// NewAllocateOrderStockWorker creates the allocation worker.
func NewAllocateOrderStockWorker(store AllocationStore, events EventRaiser, log *zap.Logger) *AllocateOrderStockWorker {
	return &AllocateOrderStockWorker{store: store, events: events, log: log}
}

// Handle runs one order-created fact through the allocation state
// machine. Redelivery of the same fact completes successfully without a
// second decrement: a duplicate allocation re-raises the allocated
// event, and an event already raised counts as done. Depleted stock is a
// business outcome, not a failure — it raises the depleted event
// instead. Everything else propagates for the delivery layer to retry.
func (w *AllocateOrderStockWorker) Handle(ctx context.Context, fact domain.OrderCreated) error {
	err := w.store.AllocateOrderStock(ctx, fact)

	switch apperr.KindOf(err) {
	case apperr.KindUnknown:
		if err != nil {
			return err
		}
		w.log.Info("order stock allocated",
			zap.String("order_id", fact.OrderID),
			zap.String("sku", fact.SKU),
			zap.Int64("units", fact.Units),
		)
		return w.raiseOnce(ctx, domain.NewStockAllocatedEvent(fact))

	case apperr.KindDuplicateAllocation:
		w.log.Info("order already allocated, confirming event",
			zap.String("order_id", fact.OrderID),
			zap.String("sku", fact.SKU),
		)
		return w.raiseOnce(ctx, domain.NewStockAllocatedEvent(fact))

	case apperr.KindDepletedStock:
		w.log.Info("stock depleted for order",
			zap.String("order_id", fact.OrderID),
			zap.String("sku", fact.SKU),
			zap.Int64("units", fact.Units),
		)
		return w.raiseOnce(ctx, domain.NewStockDepletedEvent(fact))

	default:
		return err
	}
}

// raiseOnce raises the event, absorbing an already-raised outcome.
func (w *AllocateOrderStockWorker) raiseOnce(ctx context.Context, event domain.Event) error {
	err := w.events.Raise(ctx, event)
	if apperr.KindOf(err) == apperr.KindDuplicateEvent {
		w.log.Info("domain event already raised",
			zap.String("event_name", event.Name),
			zap.String("subject", event.Subject),
		)
		return nil
	}
	return err
}
