package db

import "github.com/warehouse/inventory/internal/domain"

// Record type discriminator values.
const (
	RecordTypeSkuCounter      = "SKU_COUNTER"
	RecordTypeOrderAllocation = "ORDER_ALLOCATION"
	RecordTypeDomainEvent     = "DOMAIN_EVENT"
)

// CounterKey returns the pk/sk pair addressing a SKU counter. Counters
// are their own partition; the sort key repeats the partition key.
func CounterKey(sku string) (pk, sk string) {
	pk = "SKU#" + sku
	return pk, pk
}

// AllocationKey returns the pk/sk pair addressing an order allocation
// record. Allocations share the SKU partition with the counter.
func AllocationKey(sku, orderID string) (pk, sk string) {
	return "SKU#" + sku, "SKU#" + sku + "#ORDER_ID#" + orderID + "#ALLOCATION"
}

// EventKey returns the pk/sk pair addressing a domain event. The
// partition is the event subject; lot-scoped events extend the sort key
// with the lot identifier.
func EventKey(event domain.Event) (pk, sk string) {
	sk = "EVENT#" + event.Name
	if event.LotID != "" {
		sk += "#LOT_ID#" + event.LotID
	}
	return event.Subject, sk
}
