package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
	portssvc "github.com/quickpay/quickpay_backend/internal/core/ports/services"
	"github.com/quickpay/quickpay_backend/internal/dto"
)

// Notifier POSTs a resolved transfer to a configured webhook URL. Used when
// no message broker is configured.
type Notifier struct {
	url    string
	client *http.Client
}

// NewNotifier creates a webhook notifier. The HTTP client carries a short
// timeout so a slow receiver never stalls the dispatch goroutine.
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Ensure Notifier implements portssvc.Notifier
var _ portssvc.Notifier = (*Notifier)(nil)

// Notify delivers the transfer payload to the webhook URL.
func (n *Notifier) Notify(ctx context.Context, transfer domain.Transfer) error {
	payload, err := json.Marshal(dto.ToTransferResponse(&transfer))
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "QuickPay-Webhook/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook receiver returned status %d", resp.StatusCode)
	}
	return nil
}
