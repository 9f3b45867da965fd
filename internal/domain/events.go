package domain

// Domain event names.
const (
	EventStockAllocated = "STOCK_ALLOCATED"
	EventStockDepleted  = "STOCK_DEPLETED"
	EventSkuRestocked   = "SKU_RESTOCKED"
)

// Event is an immutable domain fact raised into the event store. Each
// event is written exactly once per (Subject, Name); a second raise is
// detected by the store, not retried.
type Event struct {
	Name    string
	Subject string
	// LotID scopes restock events so distinct lots for the same SKU do
	// not collide. Empty for all other events.
	LotID string
	Data  map[string]interface{}
}

// OrderSubject returns the event subject key for an order.
func OrderSubject(orderID string) string { return "ORDER_ID#" + orderID }

// SkuSubject returns the event subject key for a SKU.
func SkuSubject(sku string) string { return "SKU#" + sku }

// NewStockAllocatedEvent builds the event recording that stock was
// allocated for the order.
func NewStockAllocatedEvent(fact OrderCreated) Event {
	return Event{
		Name:    EventStockAllocated,
		Subject: OrderSubject(fact.OrderID),
		Data: map[string]interface{}{
			"orderId": fact.OrderID,
			"sku":     fact.SKU,
			"units":   fact.Units,
			"price":   fact.Price,
			"userId":  fact.UserID,
		},
	}
}

// NewStockDepletedEvent builds the event recording that the order could
// not be allocated for lack of units.
func NewStockDepletedEvent(fact OrderCreated) Event {
	return Event{
		Name:    EventStockDepleted,
		Subject: OrderSubject(fact.OrderID),
		Data: map[string]interface{}{
			"orderId": fact.OrderID,
			"sku":     fact.SKU,
			"units":   fact.Units,
			"price":   fact.Price,
			"userId":  fact.UserID,
		},
	}
}

// NewSkuRestockedEvent builds the event recording that a restock lot was
// applied to the SKU counter.
func NewSkuRestockedEvent(fact SkuRestock) Event {
	return Event{
		Name:    EventSkuRestocked,
		Subject: SkuSubject(fact.SKU),
		LotID:   fact.LotID,
		Data: map[string]interface{}{
			"sku":   fact.SKU,
			"units": fact.Units,
			"lotId": fact.LotID,
		},
	}
}
