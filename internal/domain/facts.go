// Package domain holds the validated facts, models and domain events of
// the warehouse inventory service. Facts are built through New*
// constructors that validate shape; services only ever see values that
// passed construction.
package domain

import (
	"strings"

	"github.com/warehouse/inventory/internal/apperr"
)

// OrderCreated is the validated order-created fact that triggers stock
// allocation.
type OrderCreated struct {
	OrderID string
	SKU     string
	Units   int64
	Price   float64
	UserID  string
}

// NewOrderCreated validates and builds an OrderCreated fact.
func NewOrderCreated(orderID, sku, userID string, units int64, price float64) (OrderCreated, error) {
	const op = "build order created fact"
	if err := requireID(op, "orderId", orderID); err != nil {
		return OrderCreated{}, err
	}
	if err := requireID(op, "sku", sku); err != nil {
		return OrderCreated{}, err
	}
	if err := requireID(op, "userId", userID); err != nil {
		return OrderCreated{}, err
	}
	if units < 1 {
		return OrderCreated{}, apperr.Newf(apperr.KindInvalidInput, op, "units must be a positive integer, got %d", units)
	}
	if price < 0 {
		return OrderCreated{}, apperr.Newf(apperr.KindInvalidInput, op, "price must be non-negative, got %f", price)
	}
	return OrderCreated{
		OrderID: strings.TrimSpace(orderID),
		SKU:     strings.TrimSpace(sku),
		Units:   units,
		Price:   price,
		UserID:  strings.TrimSpace(userID),
	}, nil
}

// PaymentRejected is the validated payment-rejected fact that triggers
// deallocation of a previously allocated order.
type PaymentRejected struct {
	OrderID string
	SKU     string
}

// NewPaymentRejected validates and builds a PaymentRejected fact.
func NewPaymentRejected(orderID, sku string) (PaymentRejected, error) {
	const op = "build payment rejected fact"
	if err := requireID(op, "orderId", orderID); err != nil {
		return PaymentRejected{}, err
	}
	if err := requireID(op, "sku", sku); err != nil {
		return PaymentRejected{}, err
	}
	return PaymentRejected{
		OrderID: strings.TrimSpace(orderID),
		SKU:     strings.TrimSpace(sku),
	}, nil
}

// SkuRestock is the validated restock fact. LotID identifies one physical
// restock lot and is the idempotency key for applying it.
type SkuRestock struct {
	SKU   string
	Units int64
	LotID string
}

// NewSkuRestock validates and builds a SkuRestock fact.
func NewSkuRestock(sku, lotID string, units int64) (SkuRestock, error) {
	const op = "build sku restock fact"
	if err := requireID(op, "sku", sku); err != nil {
		return SkuRestock{}, err
	}
	if err := requireID(op, "lotId", lotID); err != nil {
		return SkuRestock{}, err
	}
	if units < 1 {
		return SkuRestock{}, apperr.Newf(apperr.KindInvalidInput, op, "units must be a positive integer, got %d", units)
	}
	return SkuRestock{
		SKU:   strings.TrimSpace(sku),
		Units: units,
		LotID: strings.TrimSpace(lotID),
	}, nil
}

func requireID(op, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Newf(apperr.KindInvalidInput, op, "%s must not be blank", field)
	}
	return nil
}
