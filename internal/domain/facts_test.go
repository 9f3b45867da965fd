package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse/inventory/internal/apperr"
)

func TestNewOrderCreated(t *testing.T) {
	fact, err := NewOrderCreated("order-1", "SKU-RED-01", "user-9", 3, 12.50)
	require.NoError(t, err)
	assert.Equal(t, "order-1", fact.OrderID)
	assert.Equal(t, "SKU-RED-01", fact.SKU)
	assert.Equal(t, int64(3), fact.Units)
	assert.Equal(t, 12.50, fact.Price)
	assert.Equal(t, "user-9", fact.UserID)
}

func TestNewOrderCreatedTrimsIdentifiers(t *testing.T) {
	fact, err := NewOrderCreated("  order-1 ", " SKU-1 ", " user-9 ", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "order-1", fact.OrderID)
	assert.Equal(t, "SKU-1", fact.SKU)
	assert.Equal(t, "user-9", fact.UserID)
}

func TestNewOrderCreatedInvalid(t *testing.T) {
	tests := []struct {
		name    string
		orderID string
		sku     string
		userID  string
		units   int64
		price   float64
	}{
		{"blank order id", "", "SKU-1", "user-1", 1, 1},
		{"whitespace order id", "   ", "SKU-1", "user-1", 1, 1},
		{"blank sku", "order-1", "", "user-1", 1, 1},
		{"blank user id", "order-1", "SKU-1", "", 1, 1},
		{"zero units", "order-1", "SKU-1", "user-1", 0, 1},
		{"negative units", "order-1", "SKU-1", "user-1", -2, 1},
		{"negative price", "order-1", "SKU-1", "user-1", 1, -0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrderCreated(tt.orderID, tt.sku, tt.userID, tt.units, tt.price)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
			assert.False(t, apperr.IsTransient(err))
		})
	}
}

func TestNewPaymentRejected(t *testing.T) {
	fact, err := NewPaymentRejected("order-1", "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", fact.OrderID)
	assert.Equal(t, "SKU-1", fact.SKU)

	_, err = NewPaymentRejected("", "SKU-1")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = NewPaymentRejected("order-1", " ")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestNewSkuRestock(t *testing.T) {
	fact, err := NewSkuRestock("SKU-1", "lot-42", 10)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", fact.SKU)
	assert.Equal(t, "lot-42", fact.LotID)
	assert.Equal(t, int64(10), fact.Units)

	_, err = NewSkuRestock("SKU-1", "", 10)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = NewSkuRestock("SKU-1", "lot-42", 0)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestEventSubjects(t *testing.T) {
	fact, err := NewOrderCreated("order-1", "SKU-1", "user-1", 2, 5)
	require.NoError(t, err)

	allocated := NewStockAllocatedEvent(fact)
	assert.Equal(t, EventStockAllocated, allocated.Name)
	assert.Equal(t, "ORDER_ID#order-1", allocated.Subject)
	assert.Empty(t, allocated.LotID)
	assert.Equal(t, "SKU-1", allocated.Data["sku"])

	depleted := NewStockDepletedEvent(fact)
	assert.Equal(t, EventStockDepleted, depleted.Name)
	assert.Equal(t, "ORDER_ID#order-1", depleted.Subject)

	restock, err := NewSkuRestock("SKU-1", "lot-42", 10)
	require.NoError(t, err)
	restocked := NewSkuRestockedEvent(restock)
	assert.Equal(t, EventSkuRestocked, restocked.Name)
	assert.Equal(t, "SKU#SKU-1", restocked.Subject)
	assert.Equal(t, "lot-42", restocked.LotID)
}
