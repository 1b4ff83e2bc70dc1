package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickpay/quickpay_backend/internal/apperrors"
	"github.com/quickpay/quickpay_backend/internal/core/domain"
	portsrepo "github.com/quickpay/quickpay_backend/internal/core/ports/repositories"
	portssvc "github.com/quickpay/quickpay_backend/internal/core/ports/services"
	"github.com/quickpay/quickpay_backend/internal/dto"
	"github.com/quickpay/quickpay_backend/internal/middleware"
)

// transferService is the transfer orchestrator. It owns the in-flight
// Transfer and both Account aggregates for the duration of one attempt and
// defines the all-or-nothing failure boundary: validation and fraud
// rejections persist nothing; once account persistence begins, everything in
// the attempt commits together or rolls back together.
type transferService struct {
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
	txManager   portsrepo.TxManager
	feeCalc     *FeeCalculator
	riskScorer  *RiskScorer
	validator   *TransferValidator
	notifier    portssvc.Notifier
	auditor     portssvc.Auditor
	currency    string
	now         func() time.Time
}

// NewTransferService creates the transfer orchestrator. notifier and auditor
// may be nil; their side effects are skipped then.
func NewTransferService(
	accountRepo portsrepo.AccountRepository,
	ledgerRepo portsrepo.LedgerRepository,
	txManager portsrepo.TxManager,
	feeCalc *FeeCalculator,
	riskScorer *RiskScorer,
	validator *TransferValidator,
	notifier portssvc.Notifier,
	auditor portssvc.Auditor,
	currency string,
) portssvc.TransferSvcFacade {
	return &transferService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		txManager:   txManager,
		feeCalc:     feeCalc,
		riskScorer:  riskScorer,
		validator:   validator,
		notifier:    notifier,
		auditor:     auditor,
		currency:    currency,
		now:         time.Now,
	}
}

// Ensure transferService implements the portssvc.TransferSvcFacade interface
var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// Transfer runs one orchestrated transfer attempt.
// Implements portssvc.TransferSvcFacade.
func (s *transferService) Transfer(ctx context.Context, req dto.TransferRequest) (*dto.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Transfer initiated",
		slog.String("source", req.SourceAccountID),
		slog.String("destination", req.DestinationAccountID),
		slog.String("amount", req.Amount.String()),
	)

	// Idempotent replay: a reference the client already used returns the
	// stored outcome instead of moving money twice.
	if req.Reference != "" {
		result, err := s.replayByReference(ctx, req.Reference)
		if err != nil {
			return nil, err
		}
		if result != nil {
			logger.Info("Transfer replayed from stored record", slog.String("reference", req.Reference))
			return result, nil
		}
	}

	// 1. Load both accounts. A missing id aborts before any Transfer record exists.
	source, err := s.loadAccount(ctx, req.SourceAccountID, "source")
	if err != nil {
		return nil, err
	}
	destination, err := s.loadAccount(ctx, req.DestinationAccountID, "destination")
	if err != nil {
		return nil, err
	}

	// 2. Capture pre-transfer balances and versions before any mutation.
	sourceBalanceBefore := source.Balance
	destinationBalanceBefore := destination.Balance
	sourceVersion := source.Version
	destinationVersion := destination.Version

	// 3. Fee is computed from the requested amount; total is what the source pays.
	fee := s.feeCalc.CalculateFee(req.Amount)
	totalAmount := req.Amount.Add(fee)

	// 4. Validation failures are side-effect-free: no Transfer row, no mutation.
	if rejection := s.validator.Validate(req, source, destination, totalAmount); rejection != nil {
		logger.Warn("Transfer rejected by validation",
			slog.String("code", string(rejection.Code)),
			slog.String("reason", rejection.Message),
		)
		return nil, rejection
	}

	// 5. Risk scoring. Blocking is a policy decision; the score itself is
	// recorded on the transfer either way.
	since := s.now().Add(-s.riskScorer.VelocityWindow())
	recentTransfers, err := s.ledgerRepo.CountRecentTransfersBySource(ctx, source.AccountID, since)
	if err != nil {
		logger.Error("Failed to count recent transfers for risk scoring", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to evaluate transfer risk: %w", err)
	}
	riskScore := s.riskScorer.Score(*source, *destination, req.Amount, recentTransfers)
	if s.riskScorer.ShouldBlock(riskScore) {
		logger.Warn("Transfer blocked by fraud check", slog.String("risk_score", riskScore.String()))
		return nil, apperrors.NewRejection(apperrors.ErrFraudBlocked, apperrors.CodeFraudBlocked,
			fmt.Sprintf("transfer blocked due to fraud risk: score %s", riskScore),
			map[string]any{"riskScore": riskScore.String()})
	}

	now := s.now().UTC()
	transfer := domain.Transfer{
		TransferID:    uuid.NewString(),
		Reference:     req.Reference,
		SourceID:      source.AccountID,
		DestinationID: destination.AccountID,
		Amount:        req.Amount,
		Fee:           fee,
		TotalAmount:   totalAmount,
		CurrencyCode:  s.currency,
		Status:        domain.TransferProcessing,
		RiskScore:     riskScore,
		Description:   req.Description,
		CreatedAt:     now,
	}
	if transfer.Reference == "" {
		transfer.Reference = s.generateReference(now)
	}

	// 6. Apply the balance mutation in memory only.
	source.Debit(totalAmount)
	source.AddToDailyTransferred(req.Amount)
	source.LastUpdatedAt = now
	destination.Credit(req.Amount)
	destination.LastUpdatedAt = now

	entries := buildHistoryEntries(transfer, *source, *destination, sourceBalanceBefore, destinationBalanceBefore, now)

	// 7-9. One unit of work: both account writes (version-checked), the
	// COMPLETED transfer row and both history lines commit together or not at all.
	err = s.txManager.Run(ctx, func(txCtx context.Context) error {
		if err := s.accountRepo.UpdateAccountWithVersion(txCtx, *source, sourceVersion); err != nil {
			return fmt.Errorf("failed to persist source account %s: %w", source.AccountID, err)
		}
		if err := s.accountRepo.UpdateAccountWithVersion(txCtx, *destination, destinationVersion); err != nil {
			return fmt.Errorf("failed to persist destination account %s: %w", destination.AccountID, err)
		}

		completedAt := s.now().UTC()
		transfer.Status = domain.TransferCompleted
		transfer.CompletedAt = &completedAt

		if err := s.ledgerRepo.SaveTransfer(txCtx, transfer); err != nil {
			return fmt.Errorf("failed to persist transfer %s: %w", transfer.Reference, err)
		}
		if err := s.ledgerRepo.SaveHistoryEntries(txCtx, entries); err != nil {
			return fmt.Errorf("failed to persist history for transfer %s: %w", transfer.Reference, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrVersionConflict) {
			logger.Warn("Transfer aborted on version conflict", slog.String("reference", transfer.Reference))
			return nil, fmt.Errorf("%w: account modified concurrently, retry the transfer", apperrors.ErrVersionConflict)
		}
		logger.Error("Transfer unit of work failed", slog.String("reference", transfer.Reference), slog.String("error", err.Error()))
		s.recordFailedTransfer(ctx, transfer, err)
		return nil, fmt.Errorf("%w: transfer %s failed: %v", apperrors.ErrInternal, transfer.Reference, err)
	}

	// 10. Fire-and-forget side effects after the transactional boundary closes.
	s.dispatchSideEffects(transfer)

	logger.Info("Transfer completed successfully", slog.String("reference", transfer.Reference))

	// 11. Result with before/after balances on both sides.
	return &dto.TransferResult{
		TransferReference:        transfer.Reference,
		Status:                   string(transfer.Status),
		SourceAccountID:          source.AccountID,
		DestinationAccountID:     destination.AccountID,
		Amount:                   transfer.Amount,
		Fee:                      transfer.Fee,
		TotalAmount:              transfer.TotalAmount,
		SourceBalanceBefore:      sourceBalanceBefore,
		SourceBalanceAfter:       source.Balance,
		DestinationBalanceBefore: destinationBalanceBefore,
		DestinationBalanceAfter:  destination.Balance,
		CompletedAt:              transfer.CompletedAt,
		Message:                  "Transfer completed successfully",
	}, nil
}

// GetTransferByReference retrieves a resolved transfer record.
// Implements portssvc.TransferSvcFacade.
func (s *transferService) GetTransferByReference(ctx context.Context, reference string) (*domain.Transfer, error) {
	transfer, err := s.ledgerRepo.FindTransferByReference(ctx, reference)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find transfer by reference",
				slog.String("reference", reference), slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to find transfer %s: %w", reference, err)
	}
	return transfer, nil
}

// loadAccount fetches one account, mapping a miss to a structured rejection.
func (s *transferService) loadAccount(ctx context.Context, accountID, role string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewRejection(apperrors.ErrNotFound, apperrors.CodeAccountNotFound,
				fmt.Sprintf("%s account not found: %s", role, accountID),
				map[string]any{"accountID": accountID})
		}
		return nil, fmt.Errorf("failed to load %s account %s: %w", role, accountID, err)
	}
	return account, nil
}

// replayByReference returns the stored outcome for an already-used reference,
// or nil when the reference is unused and the attempt should proceed.
func (s *transferService) replayByReference(ctx context.Context, reference string) (*dto.TransferResult, error) {
	existing, err := s.ledgerRepo.FindTransferByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check reference %s: %w", reference, err)
	}

	result := &dto.TransferResult{
		TransferReference:    existing.Reference,
		Status:               string(existing.Status),
		SourceAccountID:      existing.SourceID,
		DestinationAccountID: existing.DestinationID,
		Amount:               existing.Amount,
		Fee:                  existing.Fee,
		TotalAmount:          existing.TotalAmount,
		CompletedAt:          existing.CompletedAt,
		Message:              "Transfer already processed with this reference",
	}
	if existing.Status == domain.TransferFailed {
		result.Message = fmt.Sprintf("Transfer previously failed: %s", existing.Remarks)
		return result, nil
	}

	// Recover the recorded balance movement from the history lines.
	entries, err := s.ledgerRepo.FindHistoryByTransferID(ctx, existing.TransferID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for transfer %s: %w", existing.Reference, err)
	}
	for _, entry := range entries {
		switch entry.EntryType {
		case domain.Debit:
			result.SourceBalanceBefore = entry.BalanceBefore
			result.SourceBalanceAfter = entry.BalanceAfter
		case domain.Credit:
			result.DestinationBalanceBefore = entry.BalanceBefore
			result.DestinationBalanceAfter = entry.BalanceAfter
		}
	}
	return result, nil
}

// recordFailedTransfer persists a FAILED record with a remark after the unit
// of work rolled back, so an attempt that got past validation never lingers
// in a non-terminal state. Best-effort: a failure here is logged only.
func (s *transferService) recordFailedTransfer(ctx context.Context, transfer domain.Transfer, cause error) {
	transfer.Status = domain.TransferFailed
	transfer.CompletedAt = nil
	transfer.Remarks = cause.Error()
	if err := s.ledgerRepo.SaveTransfer(ctx, transfer); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record FAILED transfer",
			slog.String("reference", transfer.Reference), slog.String("error", err.Error()))
	}
}

// dispatchSideEffects fires notification and audit on a detached goroutine.
// Neither outcome nor panic ever reaches the caller of Transfer.
func (s *transferService) dispatchSideEffects(transfer domain.Transfer) {
	if s.notifier == nil && s.auditor == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Panic in transfer side effects", slog.Any("panic", r), slog.String("reference", transfer.Reference))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if s.notifier != nil {
			if err := s.notifier.Notify(ctx, transfer); err != nil {
				slog.Error("Transfer notification failed", slog.String("reference", transfer.Reference), slog.String("error", err.Error()))
			}
		}
		if s.auditor != nil {
			if err := s.auditor.Record(ctx, transfer); err != nil {
				slog.Error("Transfer audit record failed", slog.String("reference", transfer.Reference), slog.String("error", err.Error()))
			}
		}
	}()
}

// generateReference builds a timestamp-derived, globally unique reference.
func (s *transferService) generateReference(now time.Time) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("TXN-%s-%s", now.Format("20060102-150405"), suffix)
}

// buildHistoryEntries produces the double-entry pair for a transfer: a DEBIT
// of the total (amount + fee) against the source and a CREDIT of the amount
// to the destination. The fee has no third leg; it is revenue leaving the
// two-account view, so debit.Amount == credit.Amount + fee holds.
func buildHistoryEntries(transfer domain.Transfer, source, destination domain.Account,
	sourceBalanceBefore, destinationBalanceBefore decimal.Decimal, now time.Time) []domain.TransactionHistory {
	return []domain.TransactionHistory{
		{
			EntryID:       uuid.NewString(),
			TransferID:    transfer.TransferID,
			AccountID:     source.AccountID,
			EntryType:     domain.Debit,
			Amount:        transfer.TotalAmount,
			BalanceBefore: sourceBalanceBefore,
			BalanceAfter:  source.Balance,
			CreatedAt:     now,
		},
		{
			EntryID:       uuid.NewString(),
			TransferID:    transfer.TransferID,
			AccountID:     destination.AccountID,
			EntryType:     domain.Credit,
			Amount:        transfer.Amount,
			BalanceBefore: destinationBalanceBefore,
			BalanceAfter:  destination.Balance,
			CreatedAt:     now,
		},
	}
}
