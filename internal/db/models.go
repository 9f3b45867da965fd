package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warehouse/inventory/internal/domain"
)

// CounterRecord is the stored form of a SKU counter.
type CounterRecord struct {
	PK         string `dynamodbav:"pk"`
	SK         string `dynamodbav:"sk"`
	RecordType string `dynamodbav:"recordType"`
	SKU        string `dynamodbav:"sku"`
	Units      int64  `dynamodbav:"units"`
	CreatedAt  string `dynamodbav:"createdAt"`
	UpdatedAt  string `dynamodbav:"updatedAt"`
}

// AllocationRecord is the stored form of an order allocation.
type AllocationRecord struct {
	PK               string  `dynamodbav:"pk"`
	SK               string  `dynamodbav:"sk"`
	RecordType       string  `dynamodbav:"recordType"`
	OrderID          string  `dynamodbav:"orderId"`
	SKU              string  `dynamodbav:"sku"`
	Units            int64   `dynamodbav:"units"`
	Price            float64 `dynamodbav:"price"`
	UserID           string  `dynamodbav:"userId"`
	AllocationStatus string  `dynamodbav:"allocationStatus"`
	CreatedAt        string  `dynamodbav:"createdAt"`
	UpdatedAt        string  `dynamodbav:"updatedAt"`
}

// EventRecord is the stored form of a domain event.
type EventRecord struct {
	PK         string                 `dynamodbav:"pk"`
	SK         string                 `dynamodbav:"sk"`
	RecordType string                 `dynamodbav:"recordType"`
	EventID    string                 `dynamodbav:"eventId"`
	EventName  string                 `dynamodbav:"eventName"`
	EventData  map[string]interface{} `dynamodbav:"eventData"`
	CreatedAt  string                 `dynamodbav:"createdAt"`
	UpdatedAt  string                 `dynamodbav:"updatedAt"`
}

// NewAllocationRecord builds the allocation record created by the
// allocation transaction.
func NewAllocationRecord(fact domain.OrderCreated, now time.Time) AllocationRecord {
	pk, sk := AllocationKey(fact.SKU, fact.OrderID)
	ts := Timestamp(now)
	return AllocationRecord{
		PK:               pk,
		SK:               sk,
		RecordType:       RecordTypeOrderAllocation,
		OrderID:          fact.OrderID,
		SKU:              fact.SKU,
		Units:            fact.Units,
		Price:            fact.Price,
		UserID:           fact.UserID,
		AllocationStatus: string(domain.AllocationStatusAllocated),
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
}

// NewEventRecord builds the stored form of a domain event.
func NewEventRecord(event domain.Event, now time.Time) EventRecord {
	pk, sk := EventKey(event)
	ts := Timestamp(now)
	return EventRecord{
		PK:         pk,
		SK:         sk,
		RecordType: RecordTypeDomainEvent,
		EventID:    uuid.NewString(),
		EventName:  event.Name,
		EventData:  event.Data,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
}

// ToOrderAllocation converts a stored record back to the domain model.
func (r AllocationRecord) ToOrderAllocation() (domain.OrderAllocation, error) {
	createdAt, err := ParseTimestamp(r.CreatedAt)
	if err != nil {
		return domain.OrderAllocation{}, fmt.Errorf("invalid createdAt on allocation record: %w", err)
	}
	updatedAt, err := ParseTimestamp(r.UpdatedAt)
	if err != nil {
		return domain.OrderAllocation{}, fmt.Errorf("invalid updatedAt on allocation record: %w", err)
	}
	return domain.OrderAllocation{
		OrderID:   r.OrderID,
		SKU:       r.SKU,
		Units:     r.Units,
		Price:     r.Price,
		UserID:    r.UserID,
		Status:    domain.AllocationStatus(r.AllocationStatus),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// ToSkuCounter converts a stored record back to the domain model.
func (r CounterRecord) ToSkuCounter() (domain.SkuCounter, error) {
	createdAt, err := ParseTimestamp(r.CreatedAt)
	if err != nil {
		return domain.SkuCounter{}, fmt.Errorf("invalid createdAt on counter record: %w", err)
	}
	updatedAt, err := ParseTimestamp(r.UpdatedAt)
	if err != nil {
		return domain.SkuCounter{}, fmt.Errorf("invalid updatedAt on counter record: %w", err)
	}
	return domain.SkuCounter{
		SKU:       r.SKU,
		Units:     r.Units,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Timestamp formats a time the way records store it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp parses a stored timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
