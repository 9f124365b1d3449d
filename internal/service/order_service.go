package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/repository"
	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

// DashboardSummary aggregates the admin landing page counters.
type DashboardSummary struct {
	NumberOfOrders  int64
	PaidOrders      int64
	NotPaidOrders   int64
	NumberOfClients int64
}

// OrderService serves order listings and the admin views. Writes stay with
// PaymentService; everything here is read-only.
type OrderService struct {
	orders     repository.OrderStore
	identities repository.IdentityStore
}

// NewOrderService constructs the service.
func NewOrderService(orders repository.OrderStore, identities repository.IdentityStore) *OrderService {
	return &OrderService{orders: orders, identities: identities}
}

// ListOwned returns the requester's order history.
func (s *OrderService) ListOwned(ctx context.Context, requester domain.Identity, limit, offset int) ([]domain.Order, error) {
	return s.orders.ListByOwner(ctx, requester.ID, limit, offset)
}

// ListUnpaidOwned returns the requester's unpaid orders for the checkout
// summary view.
func (s *OrderService) ListUnpaidOwned(ctx context.Context, requester domain.Identity) ([]domain.Order, error) {
	return s.orders.ListUnpaidByOwner(ctx, requester.ID)
}

// GetForAdmin fetches any order for back-office staff. The route gate
// already screens the admin prefix; the role is re-checked here so the rule
// holds even if the service is reached another way.
func (s *OrderService) GetForAdmin(ctx context.Context, requester domain.Identity, orderID string) (*domain.Order, error) {
	if !isBackOffice(requester.Role) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", nil)
		}
		return nil, err
	}
	return order, nil
}

// ListForAdmin returns all orders for the back-office listing.
func (s *OrderService) ListForAdmin(ctx context.Context, requester domain.Identity, limit, offset int) ([]domain.Order, error) {
	if !isBackOffice(requester.Role) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	return s.orders.ListAll(ctx, limit, offset)
}

// Dashboard returns order and client counters for the admin landing page.
func (s *OrderService) Dashboard(ctx context.Context, requester domain.Identity) (*DashboardSummary, error) {
	if !isBackOffice(requester.Role) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	counts, err := s.orders.Counts(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.identities.CountClients(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardSummary{
		NumberOfOrders:  counts.Total,
		PaidOrders:      counts.Paid,
		NotPaidOrders:   counts.NotPaid,
		NumberOfClients: clients,
	}, nil
}

func isBackOffice(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleSuperUser, domain.RoleSEO:
		return true
	default:
		return false
	}
}
