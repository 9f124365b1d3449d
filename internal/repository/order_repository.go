package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shop-service/internal/domain"
)

// OrderCounts aggregates dashboard totals.
type OrderCounts struct {
	Total   int64
	Paid    int64
	NotPaid int64
}

// OrderStore encapsulates order persistence. Create exists for the checkout
// collaborator; MarkPaid is the single write this service performs and is a
// compare-and-swap so concurrent settlements cannot double-apply.
type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Order, error)
	ListUnpaidByOwner(ctx context.Context, ownerID string) ([]domain.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Order, error)
	MarkPaid(ctx context.Context, orderID, transactionID string) (bool, error)
	Counts(ctx context.Context) (OrderCounts, error)
}

type orderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore instantiates the Postgres-backed store.
func NewOrderStore(pool *pgxpool.Pool) OrderStore {
	return &orderStore{pool: pool}
}

const orderColumns = `id, owner_user_id, items, number_of_items, sub_total, tax, total,
               shipping_address, is_paid, payment_transaction_id, created_at, updated_at, paid_at`

func (r *orderStore) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (owner_user_id, items, number_of_items, sub_total, tax, total, shipping_address)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		order.OwnerID,
		order.Items,
		order.NumberOfItems,
		order.SubTotal,
		order.Tax,
		order.Total,
		order.ShippingAddress,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderStore) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var order domain.Order
	if err := scanOrder(r.pool.QueryRow(ctx, query, id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderStore) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE owner_user_id=$1
             ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderStore) ListUnpaidByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE owner_user_id=$1 AND is_paid=FALSE
             ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderStore) ListAll(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// MarkPaid flips is_paid exactly once. The WHERE clause is the settlement
// guard: a second caller finds zero rows affected and reports (false, nil).
func (r *orderStore) MarkPaid(ctx context.Context, orderID, transactionID string) (bool, error) {
	const query = `
        UPDATE orders SET is_paid=TRUE, payment_transaction_id=$2, paid_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND is_paid=FALSE`
	cmd, err := r.pool.Exec(ctx, query, orderID, transactionID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *orderStore) Counts(ctx context.Context) (OrderCounts, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE is_paid),
               COUNT(*) FILTER (WHERE NOT is_paid)
        FROM orders`
	var counts OrderCounts
	if err := r.pool.QueryRow(ctx, query).Scan(&counts.Total, &counts.Paid, &counts.NotPaid); err != nil {
		return OrderCounts{}, err
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, order *domain.Order) error {
	return row.Scan(
		&order.ID,
		&order.OwnerID,
		&order.Items,
		&order.NumberOfItems,
		&order.SubTotal,
		&order.Tax,
		&order.Total,
		&order.ShippingAddress,
		&order.IsPaid,
		&order.PaymentTransactionID,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.PaidAt,
	)
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
