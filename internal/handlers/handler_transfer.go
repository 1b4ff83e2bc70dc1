package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/quickpay/quickpay_backend/internal/core/ports/services"
	"github.com/quickpay/quickpay_backend/internal/dto"
	"github.com/quickpay/quickpay_backend/internal/middleware"
)

// transferHandler handles HTTP requests related to money transfers.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

// newTransferHandler creates a new transferHandler.
func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{
		transferService: ts,
	}
}

// RegisterTransferRoutes registers routes related to transfers. Extra
// middleware (idempotency replay) applies to transfer creation only.
func RegisterTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade, extra ...gin.HandlerFunc) {
	h := newTransferHandler(transferService)

	transfers := rg.Group("/transfers")
	{
		chain := append(append([]gin.HandlerFunc{}, extra...), h.createTransfer)
		transfers.POST("", chain...)
		transfers.GET("/:reference", h.getTransfer)
	}
}

// createTransfer godoc
// @Summary Execute a money transfer
// @Description Moves money between two accounts, applying fees, fraud scoring and validation
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Key making the request safe to retry"
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResult
// @Failure 400 {object} RejectionResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} RejectionResponse "Account not found"
// @Failure 409 {object} ErrorResponse "Concurrent update, retry"
// @Failure 422 {object} RejectionResponse "Business rule rejection"
// @Failure 500 {object} ErrorResponse "Transfer failed"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.transferService.Transfer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// getTransfer godoc
// @Summary Get a transfer by reference
// @Description Returns the stored transfer record for the given reference
// @Tags transfers
// @Produce  json
// @Param   reference path string true "Transfer reference"
// @Success 200 {object} dto.TransferResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transfer not found"
// @Security BearerAuth
// @Router /transfers/{reference} [get]
func (h *transferHandler) getTransfer(c *gin.Context) {
	reference := c.Param("reference")

	transfer, err := h.transferService.GetTransferByReference(c.Request.Context(), reference)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}
