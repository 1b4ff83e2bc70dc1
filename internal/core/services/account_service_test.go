package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/quickpay/quickpay_backend/internal/apperrors"
	"github.com/quickpay/quickpay_backend/internal/core/domain"
	portssvc "github.com/quickpay/quickpay_backend/internal/core/ports/services"
	"github.com/quickpay/quickpay_backend/internal/core/services"
	"github.com/quickpay/quickpay_backend/internal/dto"
)

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockLedgerRepo  *MockLedgerRepository
	service         portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockLedgerRepo, services.DefaultAccountDefaults())
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		AccountNumber:  "ACC123456",
		HolderName:     "Alice Johnson",
		InitialBalance: decimal.NewFromInt(50000),
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdAccount)
	suite.NotEmpty(createdAccount.AccountID)
	suite.Equal(req.AccountNumber, createdAccount.AccountNumber)
	suite.Equal(req.HolderName, createdAccount.HolderName)
	suite.Equal(domain.StatusActive, createdAccount.Status)
	suite.True(createdAccount.Balance.Equal(decimal.NewFromInt(50000)))
	// Defaults fill the omitted fields.
	suite.Equal("USD", createdAccount.CurrencyCode)
	suite.True(createdAccount.DailyLimit.Equal(decimal.NewFromInt(10000)))
	suite.True(createdAccount.MinimumBalance.Equal(decimal.NewFromInt(100)))
	suite.True(createdAccount.DailyTransferred.IsZero())
	suite.Equal(int64(0), createdAccount.Version)
	suite.WithinDuration(time.Now(), createdAccount.CreatedAt, time.Second)

	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NegativeInitialBalance() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		AccountNumber:  "ACC000001",
		HolderName:     "Broke Bob",
		InitialBalance: decimal.NewFromInt(-1),
	}

	createdAccount, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdAccount)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidDailyLimit() {
	ctx := context.Background()
	zero := decimal.Zero
	req := dto.CreateAccountRequest{
		AccountNumber:  "ACC000002",
		HolderName:     "Limitless Lucy",
		InitialBalance: decimal.NewFromInt(100),
		DailyLimit:     &zero,
	}

	_, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateNumber() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		AccountNumber:  "ACC123456",
		HolderName:     "Alice Johnson",
		InitialBalance: decimal.NewFromInt(100),
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrDuplicate).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdAccount)
	suite.True(errors.Is(err, apperrors.ErrDuplicate))
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(ctx, "missing")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func (suite *AccountServiceTestSuite) TestListHistoryByAccount_Success() {
	ctx := context.Background()
	account := &domain.Account{AccountID: "acc-1", Status: domain.StatusActive}
	entries := []domain.TransactionHistory{
		{EntryID: "e2", AccountID: "acc-1", EntryType: domain.Credit, Amount: decimal.NewFromInt(200)},
		{EntryID: "e1", AccountID: "acc-1", EntryType: domain.Debit, Amount: decimal.NewFromInt(101)},
	}
	token := "next-token"

	suite.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").Return(account, nil).Once()
	suite.mockLedgerRepo.On("ListHistoryByAccount", ctx, "acc-1", 20, (*string)(nil)).Return(entries, &token, nil).Once()

	page, err := suite.service.ListHistoryByAccount(ctx, "acc-1", dto.ListHistoryParams{})

	suite.Require().NoError(err)
	suite.Require().NotNil(page)
	suite.Len(page.Entries, 2)
	suite.Equal("e2", page.Entries[0].EntryID)
	suite.Require().NotNil(page.NextToken)
	suite.Equal("next-token", *page.NextToken)

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListHistoryByAccount_AccountNotFound() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	page, err := suite.service.ListHistoryByAccount(ctx, "missing", dto.ListHistoryParams{})

	suite.Require().Error(err)
	suite.Nil(page)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ListHistoryByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
