package repositories

import (
	"context"
	"time"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
)

// LedgerRepository defines persistence operations for transfers and their
// double-entry history lines. History rows are append-only.
type LedgerRepository interface {
	// SaveTransfer appends a transfer record.
	SaveTransfer(ctx context.Context, transfer domain.Transfer) error

	// FindTransferByReference looks a transfer up by its unique reference.
	// Returns apperrors.ErrNotFound if no such transfer exists.
	FindTransferByReference(ctx context.Context, reference string) (*domain.Transfer, error)

	// SaveHistoryEntries appends the given history lines.
	SaveHistoryEntries(ctx context.Context, entries []domain.TransactionHistory) error

	// FindHistoryByTransferID returns the history lines recorded for a
	// transfer, debit first.
	FindHistoryByTransferID(ctx context.Context, transferID string) ([]domain.TransactionHistory, error)

	// CountRecentTransfersBySource counts completed transfers initiated by the
	// given source account since the given instant. Feeds the risk scorer's
	// velocity rule.
	CountRecentTransfersBySource(ctx context.Context, sourceID string, since time.Time) (int64, error)

	// ListHistoryByAccount returns a page of history lines for an account,
	// newest first, with an opaque token for the next page.
	ListHistoryByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionHistory, *string, error)
}
