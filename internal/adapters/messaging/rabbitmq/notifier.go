package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
	portssvc "github.com/quickpay/quickpay_backend/internal/core/ports/services"
)

// transferEvent is the message published for a resolved transfer.
type transferEvent struct {
	Reference     string `json:"reference"`
	SourceID      string `json:"sourceAccountID"`
	DestinationID string `json:"destinationAccountID"`
	Amount        string `json:"amount"`
	Fee           string `json:"fee"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	CompletedAt   string `json:"completedAt,omitempty"`
}

// Notifier publishes transfer events to an AMQP exchange. Delivery is
// best-effort from the orchestrator's point of view; a publish failure is
// logged by the caller and never alters the transfer.
type Notifier struct {
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

// NewNotifier creates an AMQP notifier publishing on the given exchange and
// routing key.
func NewNotifier(ch *amqp.Channel, exchange, routingKey string) *Notifier {
	return &Notifier{channel: ch, exchange: exchange, routingKey: routingKey}
}

// Ensure Notifier implements portssvc.Notifier
var _ portssvc.Notifier = (*Notifier)(nil)

// Notify publishes a transfer.completed / transfer.failed event.
func (n *Notifier) Notify(ctx context.Context, transfer domain.Transfer) error {
	event := transferEvent{
		Reference:     transfer.Reference,
		SourceID:      transfer.SourceID,
		DestinationID: transfer.DestinationID,
		Amount:        transfer.Amount.String(),
		Fee:           transfer.Fee.String(),
		Currency:      transfer.CurrencyCode,
		Status:        string(transfer.Status),
	}
	if transfer.CompletedAt != nil {
		event.CompletedAt = transfer.CompletedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}

	bytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal transfer event: %w", err)
	}

	err = n.channel.PublishWithContext(ctx,
		n.exchange,
		n.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         bytes,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish transfer event: %w", err)
	}

	slog.Debug("Transfer event published", slog.String("reference", transfer.Reference), slog.String("routing_key", n.routingKey))
	return nil
}
