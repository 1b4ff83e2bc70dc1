package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
	portssvc "github.com/quickpay/quickpay_backend/internal/core/ports/services"
)

// auditDocument is the document stored per resolved transfer.
type auditDocument struct {
	Action        string    `bson:"action"`
	Reference     string    `bson:"reference"`
	SourceID      string    `bson:"source_account_id"`
	DestinationID string    `bson:"destination_account_id"`
	Amount        string    `bson:"amount"`
	Fee           string    `bson:"fee"`
	Currency      string    `bson:"currency"`
	Status        string    `bson:"status"`
	RiskScore     string    `bson:"risk_score"`
	Details       string    `bson:"details"`
	RecordedAt    time.Time `bson:"recorded_at"`
}

// AuditRepository appends transfer audit records to a Mongo collection. The
// trail is append-only; nothing in the service updates or deletes documents.
type AuditRepository struct {
	collection *mongo.Collection
}

// NewAuditRepository creates an audit repository over the "audit_logs"
// collection of the given database.
func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	return &AuditRepository{collection: client.Database(dbName).Collection("audit_logs")}
}

// Ensure AuditRepository implements portssvc.Auditor
var _ portssvc.Auditor = (*AuditRepository)(nil)

// Record appends one audit document for the transfer.
func (r *AuditRepository) Record(ctx context.Context, transfer domain.Transfer) error {
	doc := auditDocument{
		Action:        "MONEY_TRANSFER",
		Reference:     transfer.Reference,
		SourceID:      transfer.SourceID,
		DestinationID: transfer.DestinationID,
		Amount:        transfer.Amount.String(),
		Fee:           transfer.Fee.String(),
		Currency:      transfer.CurrencyCode,
		Status:        string(transfer.Status),
		RiskScore:     transfer.RiskScore.String(),
		Details: fmt.Sprintf("Transfer of %s %s from %s to %s",
			transfer.Amount, transfer.CurrencyCode, transfer.SourceID, transfer.DestinationID),
		RecordedAt: time.Now().UTC(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}
