package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/config"
)

// PaymentVerifier confirms an external payment transaction before the
// settlement transition is applied. A confirmation failure leaves the order
// untouched and is retryable by the caller.
type PaymentVerifier interface {
	Confirm(ctx context.Context, orderID, transactionID string, amount float64) error
}

// httpPaymentVerifier posts the transaction to the configured provider.
// Without a provider URL it degrades to an accept-all stub, same pattern as
// the notification stubs.
type httpPaymentVerifier struct {
	cfg    config.PaymentConfig
	client *http.Client
	logger *zap.Logger
}

// NewPaymentVerifier builds the provider-backed verifier.
func NewPaymentVerifier(cfg config.PaymentConfig, logger *zap.Logger) PaymentVerifier {
	return &httpPaymentVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

func (v *httpPaymentVerifier) Confirm(ctx context.Context, orderID, transactionID string, amount float64) error {
	if v.cfg.ProviderURL == "" {
		v.logger.Debug("payment provider not configured; accepting transaction",
			zap.String("order_id", orderID),
			zap.String("transaction_id", transactionID))
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"order_id":       orderID,
		"transaction_id": transactionID,
		"amount":         amount,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.ProviderURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}
	return nil
}
