package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/quickpay/quickpay_backend/internal/apperrors"
	"github.com/quickpay/quickpay_backend/internal/core/domain"
	portssvc "github.com/quickpay/quickpay_backend/internal/core/ports/services"
	"github.com/quickpay/quickpay_backend/internal/dto"
	"github.com/quickpay/quickpay_backend/internal/handlers"
	"github.com/quickpay/quickpay_backend/internal/middleware"
)

// --- Mock TransferService ---
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, req dto.TransferRequest) (*dto.TransferResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransferResult), args.Error(1)
}

func (m *MockTransferService) GetTransferByReference(ctx context.Context, reference string) (*domain.Transfer, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.TransferSvcFacade = (*MockTransferService)(nil)

// --- Test Suite Setup ---

type TransferHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockTransferService *MockTransferService
	jwtSecret           string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *TransferHandlerTestSuite) generateTestToken(clientID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "quickpay-test",
		Subject:   clientID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tsignedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return tsignedString
}

func (suite *TransferHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterCustomValidators()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockTransferService = new(MockTransferService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterTransferRoutes(v1, suite.mockTransferService)
}

func (suite *TransferHandlerTestSuite) postTransfer(body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("client-1"))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TransferHandlerTestSuite) TestCreateTransfer_Success() {
	completedAt := time.Now().UTC()
	expected := &dto.TransferResult{
		TransferReference:        "TXN-20250615-120000-abc123",
		Status:                   "COMPLETED",
		SourceAccountID:          "src-1",
		DestinationAccountID:     "dst-1",
		Amount:                   decimal.NewFromInt(2000),
		Fee:                      decimal.NewFromInt(20),
		TotalAmount:              decimal.NewFromInt(2020),
		SourceBalanceBefore:      decimal.NewFromInt(5000),
		SourceBalanceAfter:       decimal.NewFromInt(2980),
		DestinationBalanceBefore: decimal.NewFromInt(1000),
		DestinationBalanceAfter:  decimal.NewFromInt(3000),
		CompletedAt:              &completedAt,
		Message:                  "Transfer completed successfully",
	}

	suite.mockTransferService.On("Transfer",
		mock.Anything,
		mock.MatchedBy(func(req dto.TransferRequest) bool {
			return req.SourceAccountID == "src-1" && req.Amount.Equal(decimal.NewFromInt(2000))
		}),
	).Return(expected, nil).Once()

	w := suite.postTransfer(gin.H{
		"sourceAccountID":      "src-1",
		"destinationAccountID": "dst-1",
		"amount":               "2000",
	})

	suite.Equal(http.StatusCreated, w.Code)

	var result dto.TransferResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	suite.Equal("TXN-20250615-120000-abc123", result.TransferReference)
	suite.Equal("COMPLETED", result.Status)
	suite.True(result.TotalAmount.Equal(decimal.NewFromInt(2020)))

	suite.mockTransferService.AssertExpectations(suite.T())
}

func (suite *TransferHandlerTestSuite) TestCreateTransfer_NonPositiveAmountFailsBinding() {
	w := suite.postTransfer(gin.H{
		"sourceAccountID":      "src-1",
		"destinationAccountID": "dst-1",
		"amount":               "-5",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransferService.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything)
}

func (suite *TransferHandlerTestSuite) TestCreateTransfer_RejectionMapsToUnprocessable() {
	rejection := apperrors.NewRejection(apperrors.ErrInsufficientBalance, apperrors.CodeInsufficientBalance,
		"insufficient balance in account ACC123456: required 2020, available 500",
		map[string]any{"required": "2020", "available": "500"})

	suite.mockTransferService.On("Transfer", mock.Anything, mock.AnythingOfType("dto.TransferRequest")).
		Return(nil, rejection).Once()

	w := suite.postTransfer(gin.H{
		"sourceAccountID":      "src-1",
		"destinationAccountID": "dst-1",
		"amount":               "2000",
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	var resp handlers.RejectionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("INSUFFICIENT_BALANCE", resp.Code)
	suite.Equal("2020", resp.Details["required"])
}

func (suite *TransferHandlerTestSuite) TestCreateTransfer_MissingAccountMapsToNotFound() {
	rejection := apperrors.NewRejection(apperrors.ErrNotFound, apperrors.CodeAccountNotFound,
		"source account not found: missing", map[string]any{"accountID": "missing"})

	suite.mockTransferService.On("Transfer", mock.Anything, mock.AnythingOfType("dto.TransferRequest")).
		Return(nil, rejection).Once()

	w := suite.postTransfer(gin.H{
		"sourceAccountID":      "missing",
		"destinationAccountID": "dst-1",
		"amount":               "100",
	})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransferHandlerTestSuite) TestCreateTransfer_VersionConflictMapsToConflict() {
	suite.mockTransferService.On("Transfer", mock.Anything, mock.AnythingOfType("dto.TransferRequest")).
		Return(nil, apperrors.ErrVersionConflict).Once()

	w := suite.postTransfer(gin.H{
		"sourceAccountID":      "src-1",
		"destinationAccountID": "dst-1",
		"amount":               "100",
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("1", w.Header().Get("Retry-After"))
}

func (suite *TransferHandlerTestSuite) TestCreateTransfer_Unauthorized() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTransferService.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything)
}

func (suite *TransferHandlerTestSuite) TestGetTransfer_Success() {
	created := time.Now().UTC().Add(-time.Hour)
	completed := created.Add(time.Second)
	stored := &domain.Transfer{
		TransferID:    "tr-1",
		Reference:     "TXN-20250615-120000-abc123",
		SourceID:      "src-1",
		DestinationID: "dst-1",
		Amount:        decimal.NewFromInt(2000),
		Fee:           decimal.NewFromInt(20),
		TotalAmount:   decimal.NewFromInt(2020),
		CurrencyCode:  "USD",
		Status:        domain.TransferCompleted,
		CreatedAt:     created,
		CompletedAt:   &completed,
	}

	suite.mockTransferService.On("GetTransferByReference", mock.Anything, "TXN-20250615-120000-abc123").
		Return(stored, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transfers/TXN-20250615-120000-abc123", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("client-1"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TransferResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("TXN-20250615-120000-abc123", resp.Reference)
	suite.Equal("COMPLETED", resp.Status)
}

func (suite *TransferHandlerTestSuite) TestGetTransfer_NotFound() {
	suite.mockTransferService.On("GetTransferByReference", mock.Anything, "TXN-NOPE").
		Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transfers/TXN-NOPE", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("client-1"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestTransferHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransferHandlerTestSuite))
}
