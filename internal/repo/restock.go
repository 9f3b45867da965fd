package repo

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/domain"
)

// RestockSku commits the restock event and the counter upsert in one
// transaction. The event item is keyed by lot, so a redelivered lot
// fails its precondition and classifies as a duplicate event instead of
// adding the units twice.
func (r *InventoryRepo) RestockSku(ctx context.Context, fact domain.SkuRestock) error {
	const op = "restock sku"

	items, err := BuildRestockTransaction(r.table, fact, time.Now())
	if err != nil {
		return apperr.New(apperr.KindInvalidInput, op, err)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}

	var cancelled *types.TransactionCanceledException
	if errors.As(err, &cancelled) && len(cancelled.CancellationReasons) == len(items) {
		if conditionalCheckFailed(cancelled.CancellationReasons[0]) {
			return apperr.Newf(apperr.KindDuplicateEvent, op, "restock lot %s already applied to sku %s", fact.LotID, fact.SKU)
		}
	}
	return apperr.New(apperr.KindInfrastructure, op, err)
}
