package domain

import "time"

// OrderItem is a purchased line within an order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ShippingAddress is the delivery destination captured at checkout.
type ShippingAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// Order is the aggregate whose payment lifecycle this service owns.
// Orders arrive from the checkout collaborator unpaid; the only mutation
// performed here is the one-way unpaid -> paid settlement transition.
type Order struct {
	ID                   string
	OwnerID              string
	Items                []OrderItem
	NumberOfItems        int
	SubTotal             float64
	Tax                  float64
	Total                float64
	ShippingAddress      ShippingAddress
	IsPaid               bool
	PaymentTransactionID *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	PaidAt               *time.Time
}
