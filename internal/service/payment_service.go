package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/events"
	"github.com/spec-kit/shop-service/internal/locker"
	"github.com/spec-kit/shop-service/internal/repository"
	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

// SettleStatus is the terminal outcome of a successful settle call.
type SettleStatus string

const (
	// SettleCompleted means this call applied the unpaid -> paid transition.
	SettleCompleted SettleStatus = "SETTLED"
	// SettleAlreadyPaid means the order was settled earlier; the call is an
	// idempotent success and nothing was mutated.
	SettleAlreadyPaid SettleStatus = "ALREADY_PAID"
)

// PaymentService owns the order payment state machine: ownership-checked,
// idempotent, and serialized per order id.
type PaymentService struct {
	orders     repository.OrderStore
	locks      locker.Locker
	verifier   PaymentVerifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	lockWait   time.Duration
}

// PaymentDependencies bundles collaborators for the payment service.
type PaymentDependencies struct {
	OrderStore repository.OrderStore
	Locks      locker.Locker
	Verifier   PaymentVerifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	LockWait   time.Duration
}

// NewPaymentService constructs the service.
func NewPaymentService(deps PaymentDependencies) *PaymentService {
	wait := deps.LockWait
	if wait <= 0 {
		wait = 2 * time.Second
	}
	return &PaymentService{
		orders:     deps.OrderStore,
		locks:      deps.Locks,
		verifier:   deps.Verifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		lockWait:   wait,
	}
}

// Settle applies the one-way unpaid -> paid transition for the requester's
// own order. Repeated calls report the existing success instead of erroring,
// and concurrent first-time calls on the same order produce exactly one
// SettleCompleted.
func (s *PaymentService) Settle(ctx context.Context, orderID string, requester domain.Identity, transactionID string) (SettleStatus, error) {
	release, err := s.locks.Acquire(ctx, orderID, s.lockWait)
	if err != nil {
		if errors.Is(err, locker.ErrLockBusy) {
			s.logger.Warn("settlement lock wait exceeded", zap.String("order_id", orderID))
			return "", apperrors.NewBusy("order settlement in progress, retry shortly")
		}
		return "", err
	}
	defer release()

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("order", nil)
		}
		return "", err
	}

	// Non-owners learn nothing beyond the denial itself.
	if order.OwnerID != requester.ID {
		s.logger.Warn("settlement rejected for non-owner",
			zap.String("order_id", orderID),
			zap.String("requester_id", requester.ID))
		return "", apperrors.NewForbidden("access denied")
	}

	if order.IsPaid {
		return SettleAlreadyPaid, nil
	}

	if err := s.verifier.Confirm(ctx, orderID, transactionID, order.Total); err != nil {
		s.logger.Error("payment confirmation failed",
			zap.String("order_id", orderID),
			zap.Error(err))
		s.publish(ctx, events.Event{
			ID:      uuid.NewString(),
			Type:    events.EventOrderPaymentFailed,
			OrderID: orderID,
			ActorID: requester.ID,
			Payload: events.OrderPaymentFailedPayload{OwnerID: order.OwnerID, Reason: err.Error()},
		})
		return "", apperrors.NewUpstreamPayment(err)
	}

	updated, err := s.orders.MarkPaid(ctx, orderID, transactionID)
	if err != nil {
		return "", err
	}
	if !updated {
		// Another instance won the compare-and-swap between our read and
		// write; report the idempotent success.
		return SettleAlreadyPaid, nil
	}

	s.logger.Info("order settled",
		zap.String("order_id", orderID),
		zap.String("transaction_id", transactionID))
	s.publish(ctx, events.Event{
		ID:      uuid.NewString(),
		Type:    events.EventOrderPaid,
		OrderID: orderID,
		ActorID: requester.ID,
		Payload: events.OrderPaidPayload{
			OwnerID:       order.OwnerID,
			TransactionID: transactionID,
			Total:         order.Total,
		},
	})
	return SettleCompleted, nil
}

// GetOwned fetches an order, enforcing that the requester is its owner.
// A user can never read another user's order detail, even by direct id.
func (s *PaymentService) GetOwned(ctx context.Context, orderID string, requester domain.Identity) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", nil)
		}
		return nil, err
	}
	if order.OwnerID != requester.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return order, nil
}

func (s *PaymentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
