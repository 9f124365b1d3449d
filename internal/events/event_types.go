package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderPaid          EventType = "order_paid"
	EventOrderPaymentFailed EventType = "order_payment_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OrderID   string      `json:"order_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderPaidPayload payload.
type OrderPaidPayload struct {
	OwnerID       string  `json:"owner_id"`
	TransactionID string  `json:"transaction_id"`
	Total         float64 `json:"total"`
}

// OrderPaymentFailedPayload payload.
type OrderPaymentFailedPayload struct {
	OwnerID string `json:"owner_id"`
	Reason  string `json:"reason"`
}
