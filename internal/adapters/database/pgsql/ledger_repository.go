package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickpay/quickpay_backend/internal/apperrors"
	"github.com/quickpay/quickpay_backend/internal/core/domain"
	portsrepo "github.com/quickpay/quickpay_backend/internal/core/ports/repositories"
	"github.com/quickpay/quickpay_backend/internal/models"
	"github.com/quickpay/quickpay_backend/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new repository for transfer and history data.
func NewLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{pool: pool}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepository
var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

func toModelTransfer(d domain.Transfer) models.Transfer {
	return models.Transfer{
		TransferID:    d.TransferID,
		Reference:     d.Reference,
		SourceID:      d.SourceID,
		DestinationID: d.DestinationID,
		Amount:        d.Amount,
		Fee:           d.Fee,
		TotalAmount:   d.TotalAmount,
		CurrencyCode:  d.CurrencyCode,
		Status:        models.TransferStatus(d.Status),
		RiskScore:     d.RiskScore,
		Description:   d.Description,
		Remarks:       d.Remarks,
		CreatedAt:     d.CreatedAt,
		CompletedAt:   d.CompletedAt,
	}
}

func toDomainTransfer(m models.Transfer) domain.Transfer {
	return domain.Transfer{
		TransferID:    m.TransferID,
		Reference:     m.Reference,
		SourceID:      m.SourceID,
		DestinationID: m.DestinationID,
		Amount:        m.Amount,
		Fee:           m.Fee,
		TotalAmount:   m.TotalAmount,
		CurrencyCode:  m.CurrencyCode,
		Status:        domain.TransferStatus(m.Status),
		RiskScore:     m.RiskScore,
		Description:   m.Description,
		Remarks:       m.Remarks,
		CreatedAt:     m.CreatedAt,
		CompletedAt:   m.CompletedAt,
	}
}

const transferColumns = `transfer_id, reference, source_account_id, destination_account_id, amount, fee, total_amount, currency_code, status, risk_score, description, remarks, created_at, completed_at`

// SaveTransfer appends a transfer record.
func (r *PgxLedgerRepository) SaveTransfer(ctx context.Context, transfer domain.Transfer) error {
	modelTr := toModelTransfer(transfer)

	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	var completedAt sql.NullTime
	if modelTr.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *modelTr.CompletedAt, Valid: true}
	}

	_, err := queryEngine(ctx, r.pool).Exec(ctx, query,
		modelTr.TransferID,
		modelTr.Reference,
		modelTr.SourceID,
		modelTr.DestinationID,
		modelTr.Amount,
		modelTr.Fee,
		modelTr.TotalAmount,
		modelTr.CurrencyCode,
		modelTr.Status,
		modelTr.RiskScore,
		modelTr.Description,
		modelTr.Remarks,
		modelTr.CreatedAt,
		completedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation on reference
				return fmt.Errorf("%w: transfer reference %s already used", apperrors.ErrDuplicate, modelTr.Reference)
			}
		}
		return fmt.Errorf("failed to save transfer %s: %w", modelTr.Reference, err)
	}
	return nil
}

// FindTransferByReference looks a transfer up by its unique reference.
func (r *PgxLedgerRepository) FindTransferByReference(ctx context.Context, reference string) (*domain.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE reference = $1;
	`
	modelTr, err := scanTransfer(queryEngine(ctx, r.pool).QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transfer by reference %s: %w", reference, err)
	}

	domainTr := toDomainTransfer(*modelTr)
	return &domainTr, nil
}

func scanTransfer(row pgx.Row) (*models.Transfer, error) {
	var modelTr models.Transfer
	var completedAt sql.NullTime
	err := row.Scan(
		&modelTr.TransferID,
		&modelTr.Reference,
		&modelTr.SourceID,
		&modelTr.DestinationID,
		&modelTr.Amount,
		&modelTr.Fee,
		&modelTr.TotalAmount,
		&modelTr.CurrencyCode,
		&modelTr.Status,
		&modelTr.RiskScore,
		&modelTr.Description,
		&modelTr.Remarks,
		&modelTr.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		modelTr.CompletedAt = &t
	}
	return &modelTr, nil
}

// SaveHistoryEntries appends the given history lines in one batch.
func (r *PgxLedgerRepository) SaveHistoryEntries(ctx context.Context, entries []domain.TransactionHistory) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO transaction_history (entry_id, transfer_id, account_id, entry_type, amount, balance_before, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, entry := range entries {
		batch.Queue(query,
			entry.EntryID,
			entry.TransferID,
			entry.AccountID,
			entry.EntryType,
			entry.Amount,
			entry.BalanceBefore,
			entry.BalanceAfter,
			entry.CreatedAt,
		)
	}

	br := queryEngine(ctx, r.pool).SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute history batch: %w", err)
	}
	return nil
}

// FindHistoryByTransferID returns the history lines for a transfer, debit first.
func (r *PgxLedgerRepository) FindHistoryByTransferID(ctx context.Context, transferID string) ([]domain.TransactionHistory, error) {
	query := `
		SELECT entry_id, transfer_id, account_id, entry_type, amount, balance_before, balance_after, created_at
		FROM transaction_history
		WHERE transfer_id = $1
		ORDER BY entry_type DESC; -- DEBIT sorts after CREDIT, reversed for debit-first
	`
	rows, err := queryEngine(ctx, r.pool).Query(ctx, query, transferID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for transfer %s: %w", transferID, err)
	}
	defer rows.Close()

	return collectHistoryRows(rows)
}

// CountRecentTransfersBySource counts completed transfers the source account
// initiated since the given instant.
func (r *PgxLedgerRepository) CountRecentTransfersBySource(ctx context.Context, sourceID string, since time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transfers
		WHERE source_account_id = $1 AND status = $2 AND created_at >= $3;
	`
	var count int64
	err := queryEngine(ctx, r.pool).QueryRow(ctx, query, sourceID, models.TransferStatus(domain.TransferCompleted), since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent transfers for account %s: %w", sourceID, err)
	}
	return count, nil
}

// ListHistoryByAccount returns a page of history lines for an account, newest
// first, using (created_at, entry_id) cursor pagination.
func (r *PgxLedgerRepository) ListHistoryByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionHistory, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []any{accountID}
	query := `
		SELECT entry_id, transfer_id, account_id, entry_type, amount, balance_before, balance_after, created_at
		FROM transaction_history
		WHERE account_id = $1
	`
	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, cursorAt, cursorID)
	}
	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, entry_id DESC LIMIT %d;`, limit+1)

	rows, err := queryEngine(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query history for account %s: %w", accountID, err)
	}
	defer rows.Close()

	entries, err := collectHistoryRows(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeCursor(last.CreatedAt, last.EntryID)
		token = &t
	}
	return entries, token, nil
}

func collectHistoryRows(rows pgx.Rows) ([]domain.TransactionHistory, error) {
	entries := []domain.TransactionHistory{}
	for rows.Next() {
		var entry domain.TransactionHistory
		if err := rows.Scan(
			&entry.EntryID,
			&entry.TransferID,
			&entry.AccountID,
			&entry.EntryType,
			&entry.Amount,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}
	return entries, nil
}
