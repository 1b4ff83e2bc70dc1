package services

import (
	"context"

	"github.com/quickpay/quickpay_backend/internal/core/domain"
	"github.com/quickpay/quickpay_backend/internal/dto"
)

// TransferSvcFacade is the orchestrator contract exposed to the API layer.
type TransferSvcFacade interface {
	// Transfer runs one all-or-nothing transfer attempt. Business rejections
	// come back as *apperrors.Rejection; version conflicts as
	// apperrors.ErrVersionConflict.
	Transfer(ctx context.Context, req dto.TransferRequest) (*dto.TransferResult, error)

	// GetTransferByReference looks up a resolved transfer.
	GetTransferByReference(ctx context.Context, reference string) (*domain.Transfer, error)
}
