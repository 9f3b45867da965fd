// Package queue defines the wire format of the service's SQS messages
// and the senders that enqueue them.
package queue

import "encoding/json"

// Message names carried in the envelope.
const (
	MessageOrderCreated        = "ORDER_CREATED"
	MessagePaymentRejected     = "ORDER_PAYMENT_REJECTED"
	MessageSkuRestockRequested = "SKU_RESTOCK_REQUESTED"
)

// Message is the envelope every queue message uses.
type Message struct {
	EventName string          `json:"eventName"`
	EventData json.RawMessage `json:"eventData"`
}

// OrderCreatedData is the payload of an ORDER_CREATED message.
type OrderCreatedData struct {
	OrderID string  `json:"orderId"`
	SKU     string  `json:"sku"`
	Units   int64   `json:"units"`
	Price   float64 `json:"price"`
	UserID  string  `json:"userId"`
}

// PaymentRejectedData is the payload of an ORDER_PAYMENT_REJECTED message.
type PaymentRejectedData struct {
	OrderID string `json:"orderId"`
	SKU     string `json:"sku"`
}

// RestockData is the payload of a SKU_RESTOCK_REQUESTED message.
type RestockData struct {
	SKU   string `json:"sku"`
	Units int64  `json:"units"`
	LotID string `json:"lotId"`
}
