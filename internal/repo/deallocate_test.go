package repo

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse/inventory/internal/apperr"
	"github.com/warehouse/inventory/internal/db"
	"github.com/warehouse/inventory/internal/db/dbtest"
	"github.com/warehouse/inventory/internal/domain"
)

func TestGetOrderAllocation(t *testing.T) {
	fake := dbtest.New()
	seedCounter(t, fake, "SKU-1", 10)
	repository := New(fake, testTable)

	require.NoError(t, repository.AllocateOrderStock(context.Background(), orderCreated(t, "order-1", "SKU-1", 4)))

	allocation, err := repository.GetOrderAllocation(context.Background(), "SKU-1", "order-1")
	require.NoError(t, err)
	require.NotNil(t, allocation)
	assert.Equal(t, "order-1", allocation.OrderID)
	assert.Equal(t, "SKU-1", allocation.SKU)
	assert.Equal(t, int64(4), allocation.Units)
	assert.Equal(t, domain.AllocationStatusAllocated, allocation.Status)
}

func TestGetOrderAllocationAbsent(t *testing.T) {
	fake := dbtest.New()
	repository := New(fake, testTable)

	allocation, err := repository.GetOrderAllocation(context.Background(), "SKU-1", "order-unknown")
	require.NoError(t, err)
	assert.Nil(t, allocation)
}

func TestDeallocateOrderStock(t *testing.T) {
	fake := dbtest.New()
	seedCounter(t, fake, "SKU-1", 10)
	repository := New(fake, testTable)
	ctx := context.Background()

	require.NoError(t, repository.AllocateOrderStock(ctx, orderCreated(t, "order-1", "SKU-1", 5)))
	assert.Equal(t, int64(5), counterUnits(t, fake, "SKU-1"))

	snapshot, err := repository.GetOrderAllocation(ctx, "SKU-1", "order-1")
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	require.NoError(t, repository.DeallocateOrderStock(ctx, *snapshot))

	// Net effect on the counter is zero.
	assert.Equal(t, int64(10), counterUnits(t, fake, "SKU-1"))

	after, err := repository.GetOrderAllocation(ctx, "SKU-1", "order-1")
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, domain.AllocationStatusPaymentRejected, after.Status)
	assert.Equal(t, int64(5), after.Units)
}

func TestDeallocateOrderStockTwice(t *testing.T) {
	fake := dbtest.New()
	seedCounter(t, fake, "SKU-1", 10)
	repository := New(fake, testTable)
	ctx := context.Background()

	require.NoError(t, repository.AllocateOrderStock(ctx, orderCreated(t, "order-1", "SKU-1", 5)))
	snapshot, err := repository.GetOrderAllocation(ctx, "SKU-1", "order-1")
	require.NoError(t, err)

	require.NoError(t, repository.DeallocateOrderStock(ctx, *snapshot))

	// The second compensation fails the status precondition and must not
	// credit the counter again.
	err = repository.DeallocateOrderStock(ctx, *snapshot)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidDeallocation, apperr.KindOf(err))
	assert.False(t, apperr.IsTransient(err))
	assert.Equal(t, int64(10), counterUnits(t, fake, "SKU-1"))
}

func TestDeallocateOrderStockStaleSnapshot(t *testing.T) {
	fake := dbtest.New()
	seedCounter(t, fake, "SKU-1", 10)
	repository := New(fake, testTable)
	ctx := context.Background()

	require.NoError(t, repository.AllocateOrderStock(ctx, orderCreated(t, "order-1", "SKU-1", 5)))
	snapshot, err := repository.GetOrderAllocation(ctx, "SKU-1", "order-1")
	require.NoError(t, err)

	// Simulate a concurrent modification: the stored record's units no
	// longer match the snapshot.
	pk, sk := db.AllocationKey("SKU-1", "order-1")
	item := fake.Item(pk, sk)
	var record db.AllocationRecord
	require.NoError(t, attributevalue.UnmarshalMap(item, &record))
	record.Units = 3
	mutated, err := attributevalue.MarshalMap(record)
	require.NoError(t, err)
	fake.Seed(mutated)

	err = repository.DeallocateOrderStock(ctx, *snapshot)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidDeallocation, apperr.KindOf(err))

	// The counter must not have been mutated.
	assert.Equal(t, int64(5), counterUnits(t, fake, "SKU-1"))
}
