package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/domain"
)

// RestockStore is the slice of the repository the restock worker uses.
type RestockStore interface {
	RestockSku(ctx context.Context, fact domain.SkuRestock) error
}

// RestockSkuWorker applies restock lots to SKU counters.
type RestockSkuWorker struct {
	store RestockStore
	log   *zap.Logger
}

// NewRestockSkuWorker creates the restock worker.
func NewRestockSkuWorker(store RestockStore, log *zap.Logger) *RestockSkuWorker {
	return &RestockSkuWorker{store: store, log: log}
}

// Handle applies one restock lot. A lot that was already applied is a
// completed delivery, not an error.
func (w *RestockSkuWorker) Handle(ctx context.Context, fact domain.SkuRestock) error {
	err := w.store.RestockSku(ctx, fact)
	if apperr.KindOf(err) == apperr.KindDuplicateEvent {
		w.log.Info("restock lot already applied",
			zap.String("sku", fact.SKU),
			zap.String("lot_id", fact.LotID),
		)
		return nil
	}
	if err != nil {
		return err
	}

	w.log.Info("sku restocked",
		zap.String("sku", fact.SKU),
		zap.String("lot_id", fact.LotID),
		zap.Int64("units", fact.Units),
	)
	return nil
}
