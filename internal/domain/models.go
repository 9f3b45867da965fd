package domain

import "time"

// AllocationStatus is the lifecycle state of an order allocation record.
type AllocationStatus string

const (
	AllocationStatusAllocated       AllocationStatus = "ALLOCATED"
	AllocationStatusPaymentRejected AllocationStatus = "PAYMENT_REJECTED"
)

// SkuCounter tracks the total available units for a stock-keeping unit.
// Units never goes negative: it is decremented only by a successful
// allocation and incremented only by restock or deallocation.
type SkuCounter struct {
	SKU       string
	Units     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderAllocation is the reservation of units for one order against one
// SKU. Exactly one record exists per (orderID, sku) pair once allocation
// succeeds; Units never changes after creation, only Status transitions.
// The record is never deleted; PAYMENT_REJECTED is the terminal state and
// doubles as the audit trail.
type OrderAllocation struct {
	OrderID   string
	SKU       string
	Units     int64
	Price     float64
	UserID    string
	Status    AllocationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
