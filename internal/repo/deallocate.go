package repo

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/db"
	"github.com/warehouse/inventory/internal/domain"
)

// GetOrderAllocation reads the allocation record for (sku, orderID).
// Returns nil without error when no allocation exists.
func (r *InventoryRepo) GetOrderAllocation(ctx context.Context, sku, orderID string) (*domain.OrderAllocation, error) {
	const op = "get order allocation"

	pk, sk := db.AllocationKey(sku, orderID)
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key:       stringKey(pk, sk),
	})
	if err != nil {
		return nil, apperr.New(apperr.KindInfrastructure, op, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var record db.AllocationRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, apperr.New(apperr.KindInfrastructure, op, err)
	}
	allocation, err := record.ToOrderAllocation()
	if err != nil {
		return nil, apperr.New(apperr.KindInfrastructure, op, err)
	}
	return &allocation, nil
}

// DeallocateOrderStock commits the compensating transaction built from
// the given snapshot. Any precondition failure means the snapshot no
// longer matches store state — a genuine conflict or an already
// compensated order — and is reported as a non-retryable invalid
// deallocation.
func (r *InventoryRepo) DeallocateOrderStock(ctx context.Context, snapshot domain.OrderAllocation) error {
	const op = "deallocate order stock"

	items := BuildDeallocateTransaction(r.table, snapshot, time.Now())
	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}

	var cancelled *types.TransactionCanceledException
	if errors.As(err, &cancelled) {
		for _, reason := range cancelled.CancellationReasons {
			if conditionalCheckFailed(reason) {
				return apperr.Newf(apperr.KindInvalidDeallocation, op, "allocation for order %s sku %s no longer matches snapshot", snapshot.OrderID, snapshot.SKU)
			}
		}
	}
	return apperr.New(apperr.KindInfrastructure, op, err)
}
