package services

import (
	"context"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
)

// Notifier delivers a best-effort notification about a resolved transfer.
// Implementations must not panic into the caller; errors are logged by the
// orchestrator and never change the transfer's outcome.
type Notifier interface {
	Notify(ctx context.Context, transfer domain.Transfer) error
}

// Auditor records a resolved transfer in the audit trail. Best-effort: errors
// are logged only and never surface to the caller of the transfer.
type Auditor interface {
	Record(ctx context.Context, transfer domain.Transfer) error
}
