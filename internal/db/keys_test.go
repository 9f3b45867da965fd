package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse/inventory/internal/domain"
)

// The key layout is a compatibility contract with the deployed table;
// these strings must not drift.
func TestCounterKey(t *testing.T) {
	pk, sk := CounterKey("SKU-42")
	assert.Equal(t, "SKU#SKU-42", pk)
	assert.Equal(t, "SKU#SKU-42", sk)
}

func TestAllocationKey(t *testing.T) {
	pk, sk := AllocationKey("SKU-42", "order-7")
	assert.Equal(t, "SKU#SKU-42", pk)
	assert.Equal(t, "SKU#SKU-42#ORDER_ID#order-7#ALLOCATION", sk)
}

func TestEventKeys(t *testing.T) {
	order, err := domain.NewOrderCreated("order-7", "SKU-42", "user-1", 2, 10)
	require.NoError(t, err)

	pk, sk := EventKey(domain.NewStockAllocatedEvent(order))
	assert.Equal(t, "ORDER_ID#order-7", pk)
	assert.Equal(t, "EVENT#STOCK_ALLOCATED", sk)

	pk, sk = EventKey(domain.NewStockDepletedEvent(order))
	assert.Equal(t, "ORDER_ID#order-7", pk)
	assert.Equal(t, "EVENT#STOCK_DEPLETED", sk)

	restock, err := domain.NewSkuRestock("SKU-42", "lot-3", 10)
	require.NoError(t, err)
	pk, sk = EventKey(domain.NewSkuRestockedEvent(restock))
	assert.Equal(t, "SKU#SKU-42", pk)
	assert.Equal(t, "EVENT#SKU_RESTOCKED#LOT_ID#lot-3", sk)
}
