package dto

import "time"

// OrderItemResponse is a purchased line.
type OrderItemResponse struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ShippingAddressResponse mirrors the stored delivery destination.
type ShippingAddressResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// OrderResponse is the order detail shape.
type OrderResponse struct {
	ID                   string                  `json:"id"`
	OwnerID              string                  `json:"owner_id"`
	Items                []OrderItemResponse     `json:"items"`
	NumberOfItems        int                     `json:"number_of_items"`
	SubTotal             float64                 `json:"sub_total"`
	Tax                  float64                 `json:"tax"`
	Total                float64                 `json:"total"`
	ShippingAddress      ShippingAddressResponse `json:"shipping_address"`
	IsPaid               bool                    `json:"is_paid"`
	PaymentTransactionID *string                 `json:"payment_transaction_id,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
	PaidAt               *time.Time              `json:"paid_at,omitempty"`
}

// PayOrderRequest triggers settlement of one order.
type PayOrderRequest struct {
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId"`
}

// PayOrderResponse reports settlement outcome to the storefront.
type PayOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// DashboardSummaryResponse feeds the admin landing page counters.
type DashboardSummaryResponse struct {
	NumberOfOrders  int64 `json:"numberOfOrders"`
	PaidOrders      int64 `json:"paidOrders"`
	NotPaidOrders   int64 `json:"notPaidOrders"`
	NumberOfClients int64 `json:"numberOfClients"`
}
