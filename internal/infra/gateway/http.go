package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"storefront/internal/domain/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrGatewayUnavailable = errs.New("payment gateway unavailable")
	ErrCaptureDeclined    = errs.New("payment capture declined")
)

type captureRequest struct {
	OrderID  uuid.UUID `json:"order_id"`
	Amount   float64   `json:"amount"`
	Currency string    `json:"currency"`
}

type captureResponse struct {
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
}

// httpCapture posts a capture to a remote processor and normalizes the
// response into the channel-independent PaymentResult shape.
func httpCapture(ctx context.Context, client *http.Client, baseURL, apiKey, channel string, o *order.Order) (order.PaymentResult, error) {
	body, err := json.Marshal(captureRequest{
		OrderID:  o.ID(),
		Amount:   o.TotalPrice(),
		Currency: "USD",
	})
	if err != nil {
		return order.PaymentResult{}, errs.Wrap(err, "failed to encode capture request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/captures", bytes.NewReader(body))
	if err != nil {
		return order.PaymentResult{}, errs.Wrap(err, "failed to build capture request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		metrics.PaymentCaptures.WithLabelValues(channel, "failure").Inc()
		return order.PaymentResult{}, errs.Mark(err, ErrGatewayUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.PaymentCaptures.WithLabelValues(channel, "failure").Inc()
		return order.PaymentResult{}, errs.Wrap(err, "failed to read capture response")
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		metrics.PaymentCaptures.WithLabelValues(channel, "failure").Inc()
		return order.PaymentResult{}, errs.Mark(
			fmt.Errorf("gateway returned status %d", resp.StatusCode), ErrGatewayUnavailable)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		metrics.PaymentCaptures.WithLabelValues(channel, "declined").Inc()
		return order.PaymentResult{}, errs.Mark(
			fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, raw), ErrCaptureDeclined)
	}

	var cr captureResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		metrics.PaymentCaptures.WithLabelValues(channel, "failure").Inc()
		return order.PaymentResult{}, errs.Wrap(err, "failed to decode capture response")
	}

	metrics.PaymentCaptures.WithLabelValues(channel, "success").Inc()
	return order.PaymentResult{
		ProviderTxID:   cr.TransactionID,
		Status:         cr.Status,
		AmountCaptured: cr.Amount,
	}, nil
}
