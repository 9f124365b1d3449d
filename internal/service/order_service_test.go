package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shop-service/internal/domain"
)

type fakeIdentityStore struct {
	clients int64
}

func (f *fakeIdentityStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeIdentityStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeIdentityStore) CountClients(ctx context.Context) (int64, error) {
	return f.clients, nil
}

func paidOrder(id, ownerID string) *domain.Order {
	order := unpaidOrder(id, ownerID)
	tx := "tx-" + id
	order.IsPaid = true
	order.PaymentTransactionID = &tx
	return order
}

func TestListOwnedOnlyReturnsRequesterOrders(t *testing.T) {
	store := newFakeOrderStore(unpaidOrder("o1", "u1"), unpaidOrder("o2", "u2"), paidOrder("o3", "u1"))
	svc := NewOrderService(store, &fakeIdentityStore{})

	orders, err := svc.ListOwned(context.Background(), domain.Identity{ID: "u1"}, 20, 0)
	if err != nil {
		t.Fatalf("ListOwned: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for u1, got %d", len(orders))
	}
	for _, order := range orders {
		if order.OwnerID != "u1" {
			t.Fatalf("foreign order %s leaked into history", order.ID)
		}
	}
}

func TestListUnpaidOwnedFiltersPaid(t *testing.T) {
	store := newFakeOrderStore(unpaidOrder("o1", "u1"), paidOrder("o2", "u1"))
	svc := NewOrderService(store, &fakeIdentityStore{})

	orders, err := svc.ListUnpaidOwned(context.Background(), domain.Identity{ID: "u1"})
	if err != nil {
		t.Fatalf("ListUnpaidOwned: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "o1" {
		t.Fatalf("expected only o1, got %+v", orders)
	}
}

func TestAdminViewsRequireBackOfficeRole(t *testing.T) {
	store := newFakeOrderStore(unpaidOrder("o1", "u1"))
	svc := NewOrderService(store, &fakeIdentityStore{clients: 3})
	client := domain.Identity{ID: "u1", Role: domain.RoleClient}

	if _, err := svc.GetForAdmin(context.Background(), client, "o1"); domainCode(t, err) != "FORBIDDEN" {
		t.Fatal("client must not read orders through the admin view")
	}
	if _, err := svc.ListForAdmin(context.Background(), client, 20, 0); domainCode(t, err) != "FORBIDDEN" {
		t.Fatal("client must not list orders through the admin view")
	}
	if _, err := svc.Dashboard(context.Background(), client); domainCode(t, err) != "FORBIDDEN" {
		t.Fatal("client must not read the dashboard")
	}
}

func TestAdminCanReadAnyOrder(t *testing.T) {
	store := newFakeOrderStore(unpaidOrder("o1", "u1"))
	svc := NewOrderService(store, &fakeIdentityStore{})

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSuperUser, domain.RoleSEO} {
		order, err := svc.GetForAdmin(context.Background(), domain.Identity{ID: "staff", Role: role}, "o1")
		if err != nil {
			t.Fatalf("role %s: %v", role, err)
		}
		if order.ID != "o1" {
			t.Fatalf("role %s: expected o1, got %s", role, order.ID)
		}
	}
}

func TestDashboardCounts(t *testing.T) {
	store := newFakeOrderStore(unpaidOrder("o1", "u1"), paidOrder("o2", "u1"), paidOrder("o3", "u2"))
	svc := NewOrderService(store, &fakeIdentityStore{clients: 7})

	summary, err := svc.Dashboard(context.Background(), domain.Identity{ID: "a1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if summary.NumberOfOrders != 3 || summary.PaidOrders != 2 || summary.NotPaidOrders != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.NumberOfClients != 7 {
		t.Fatalf("expected 7 clients, got %d", summary.NumberOfClients)
	}
}
