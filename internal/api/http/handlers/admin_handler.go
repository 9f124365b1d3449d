package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-service/internal/api/dto"
	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/service"
	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

// AdminHandler serves the back-office order views.
type AdminHandler struct {
	orders *service.OrderService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(orders *service.OrderService) *AdminHandler {
	return &AdminHandler{orders: orders}
}

// ListOrders GET /admin/orders.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
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
	orders, err := h.orders.ListForAdmin(c.UserContext(), session.Identity, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponses(orders)})
}

// GetOrder GET /admin/orders/:id.
func (h *AdminHandler) GetOrder(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	order, err := h.orders.GetForAdmin(c.UserContext(), session.Identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}

// Dashboard GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	summary, err := h.orders.Dashboard(c.UserContext(), session.Identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardSummaryResponse{
		NumberOfOrders:  summary.NumberOfOrders,
		PaidOrders:      summary.PaidOrders,
		NotPaidOrders:   summary.NotPaidOrders,
		NumberOfClients: summary.NumberOfClients,
	}})
}
