package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-service/internal/api/dto"
	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/service"
	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

// OrdersHandler manages the storefront order endpoints.
type OrdersHandler struct {
	payments *service.PaymentService
	orders   *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(payments *service.PaymentService, orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{payments: payments, orders: orders}
}

// Pay POST /order/pay.
//
// Expected settlement failures come back as {success:false, message} so the
// storefront can surface the message and leave the order retryable.
func (h *OrdersHandler) Pay(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.PayOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.OrderID) == "" || strings.TrimSpace(req.TransactionID) == "" {
		return apperrors.NewValidationError("orderId and transactionId required", nil)
	}

	status, err := h.payments.Settle(c.UserContext(), req.OrderID, session.Identity, req.TransactionID)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.Code != "INTERNAL_ERROR" {
			return c.Status(domainErr.HTTPStatus).JSON(dto.PayOrderResponse{
				Success: false,
				Message: domainErr.Message,
			})
		}
		return err
	}

	message := "order paid"
	if status == service.SettleAlreadyPaid {
		message = "order was already paid"
	}
	return c.JSON(dto.PayOrderResponse{Success: true, Message: message})
}

// GetByID GET /order/id/:id.
func (h *OrdersHandler) GetByID(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	order, err := h.payments.GetOwned(c.UserContext(), c.Params("id"), session.Identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}

// History GET /order/history.
func (h *OrdersHandler) History(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	orders, err := h.orders.ListOwned(c.UserContext(), session.Identity, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

// CheckoutSummary GET /checkout/summary.
func (h *OrdersHandler) CheckoutSummary(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	orders, err := h.orders.ListUnpaidOwned(c.UserContext(), session.Identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

func orderResponse(order *domain.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return dto.OrderResponse{
		ID:                   order.ID,
		OwnerID:              order.OwnerID,
		Items:                items,
		NumberOfItems:        order.NumberOfItems,
		SubTotal:             order.SubTotal,
		Tax:                  order.Tax,
		Total:                order.Total,
		ShippingAddress:      shippingAddressResponse(order.ShippingAddress),
		IsPaid:               order.IsPaid,
		PaymentTransactionID: order.PaymentTransactionID,
		CreatedAt:            order.CreatedAt,
		PaidAt:               order.PaidAt,
	}
}

func orderResponses(orders []domain.Order) []dto.OrderResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, orderResponse(&orders[i]))
	}
	return items
}

func shippingAddressResponse(addr domain.ShippingAddress) dto.ShippingAddressResponse {
	return dto.ShippingAddressResponse{
		FirstName: addr.FirstName,
		LastName:  addr.LastName,
		Address:   addr.Address,
		Address2:  addr.Address2,
		City:      addr.City,
		Zip:       addr.Zip,
		Country:   addr.Country,
		Phone:     addr.Phone,
	}
}
