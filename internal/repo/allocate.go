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

// AllocateOrderStock commits the allocation record and the counter
// decrement in one transaction and classifies the outcome.
//
// Item 0's precondition is inspected first and wins: if the allocation
// record already exists the whole operation counts as already done,
// regardless of what happened to the counter. A retried invocation that
// crashed after commit must not be misclassified as stock depletion.
func (r *InventoryRepo) AllocateOrderStock(ctx context.Context, fact domain.OrderCreated) error {
	const op = "allocate order stock"

	items, err := BuildAllocateTransaction(r.table, fact, time.Now())
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
			return apperr.Newf(apperr.KindDuplicateAllocation, op, "order %s already allocated for sku %s", fact.OrderID, fact.SKU)
		}
		if conditionalCheckFailed(cancelled.CancellationReasons[1]) {
			return apperr.Newf(apperr.KindDepletedStock, op, "insufficient units of sku %s for order %s", fact.SKU, fact.OrderID)
		}
	}
	return apperr.New(apperr.KindInfrastructure, op, err)
}
