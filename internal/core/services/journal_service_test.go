package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/klarbok/klarbok/internal/apperrors"
	"github.com/klarbok/klarbok/internal/core/domain"
	portssvc "github.com/klarbok/klarbok/internal/core/ports/services"
	"github.com/klarbok/klarbok/internal/core/services"
	"github.com/klarbok/klarbok/internal/dto"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockJournalRepository) PostEntry(ctx context.Context, entryID, fiscalYearID, postedBy string, postedAt time.Time) (int64, error) {
	args := m.Called(ctx, entryID, fiscalYearID, postedBy, postedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalEntryLine, originalEntryID string) (int64, error) {
	args := m.Called(ctx, reversing, lines, originalEntryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) SumPostedAmountsBefore(ctx context.Context, organizationID, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, accountID, before)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockJournalRepository) FindPostedLinesByAccountAndRange(ctx context.Context, organizationID, accountID string, from, to time.Time) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, organizationID, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock FiscalYearReader ---
type MockFiscalYearReader struct {
	mock.Mock
}

func (m *MockFiscalYearReader) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearReader) FindFiscalYearForDate(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalYear, error) {
	args := m.Called(ctx, organizationID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearReader) ListFiscalYearsByOrganization(ctx context.Context, organizationID string) ([]domain.FiscalYear, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

// --- Mock AccountService (as used by JournalService) ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, organizationID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, organizationID string) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, organizationID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, organizationID, accountID, userID string) error {
	args := m.Called(ctx, organizationID, accountID, userID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockFYReader    *MockFiscalYearReader
	mockAccountSvc  *MockAccountService
	service         portssvc.JournalSvcFacade
	orgID           string
	userID          string
	fiscalYear      domain.FiscalYear
	bankAccount     domain.Account
	rentAccount     domain.Account
	salesAccount    domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockFYReader = new(MockFiscalYearReader)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockFYReader, suite.mockAccountSvc)

	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.fiscalYear = domain.FiscalYear{
		FiscalYearID:           uuid.NewString(),
		OrganizationID:         suite.orgID,
		StartDate:              time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:                time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		IsClosed:               false,
		NextVerificationNumber: 1,
	}

	suite.bankAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		AccountNumber:  "1930",
		Name:           "Company bank account",
		AccountClass:   domain.Assets,
		AccountType:    domain.Detail,
		IsActive:       true,
	}
	suite.rentAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		AccountNumber:  "5010",
		Name:           "Rent",
		AccountClass:   domain.Expenses,
		AccountType:    domain.Detail,
		IsActive:       true,
	}
	suite.salesAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		AccountNumber:  "3010",
		Name:           "Sales",
		AccountClass:   domain.Revenue,
		AccountType:    domain.Detail,
		IsActive:       true,
	}
}

func (suite *JournalServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out
}

func (suite *JournalServiceTestSuite) balancedRequest() dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		FiscalYearID: suite.fiscalYear.FiscalYearID,
		EntryDate:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Description:  "Office rent March",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.rentAccount.AccountID, DebitAmount: decimal.NewFromInt(12500)},
			{AccountID: suite.bankAccount.AccountID, CreditAmount: decimal.NewFromInt(12500)},
		},
	}
}

// draftEntry builds a stored draft matching balancedRequest for read-back mocks.
func (suite *JournalServiceTestSuite) draftEntry() (*domain.JournalEntry, []domain.JournalEntryLine) {
	entryID := uuid.NewString()
	lines := []domain.JournalEntryLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.rentAccount.AccountID, DebitAmount: decimal.NewFromInt(12500), LineOrder: 0},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.bankAccount.AccountID, CreditAmount: decimal.NewFromInt(12500), LineOrder: 1},
	}
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.orgID,
		FiscalYearID:   suite.fiscalYear.FiscalYearID,
		EntryDate:      time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Description:    "Office rent March",
		Status:         domain.Draft,
		SourceType:     domain.SourceManual,
	}
	return entry, lines
}

// --- CreateDraftEntry ---

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.orgID, []string{suite.rentAccount.AccountID, suite.bankAccount.AccountID}).
		Return(suite.accountsMap(suite.rentAccount, suite.bankAccount), nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).Return(nil).Once()

	entry, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.Equal(domain.Draft, entry.Status)
	suite.Equal(int64(0), entry.VerificationNumber)
	suite.Nil(entry.PostedAt)
	suite.Equal(domain.SourceManual, entry.SourceType)
	suite.Equal(suite.userID, entry.CreatedBy)
	suite.Len(entry.Lines, 2)
	suite.Equal(0, entry.Lines[0].LineOrder)
	suite.Equal(1, entry.Lines[1].LineOrder)

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
	suite.mockFYReader.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_MissingDescription() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Description = ""

	_, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDescriptionMissing)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_LessThanTwoLines() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = req.Lines[:1]

	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()

	_, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryMinLines)
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_UnbalancedDraftAllowed() {
	ctx := context.Background()
	req := suite.balancedRequest()
	// Drafts may sit unbalanced while being edited; only posting enforces balance.
	req.Lines[1].CreditAmount = decimal.NewFromInt(12000)

	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.orgID, mock.Anything).
		Return(suite.accountsMap(suite.rentAccount, suite.bankAccount), nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	entry, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_LineWithBothSides() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].CreditAmount = decimal.NewFromInt(100)

	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()

	_, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_LineWithNeitherSide() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].DebitAmount = decimal.Zero

	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()

	_, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_NegativeAmount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].DebitAmount = decimal.NewFromInt(-12500)

	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()

	_, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_ClosedFiscalYear() {
	ctx := context.Background()
	req := suite.balancedRequest()

	closedAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	closed := suite.fiscalYear
	closed.IsClosed = true
	closed.ClosedAt = &closedAt
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&closed, nil).Once()

	_, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFiscalYearClosed)
	// The message identifies the period so the caller can tell which year refused.
	suite.Contains(err.Error(), "2025-01-01")
	suite.Contains(err.Error(), "2025-12-31")
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_ClosedFiscalYearWithoutTimestamp() {
	ctx := context.Background()
	req := suite.balancedRequest()

	// A closed year may carry no close timestamp; the rejection must still
	// identify the period instead of panicking.
	closed := suite.fiscalYear
	closed.IsClosed = true
	closed.ClosedAt = nil
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&closed, nil).Once()

	_, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFiscalYearClosed)
	suite.Contains(err.Error(), "closed at unknown")
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_DateOutsideFiscalYear() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.EntryDate = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()

	_, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDateOutsideFiscalYear)
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_FiscalYearBoundaryDates() {
	ctx := context.Background()

	for _, date := range []time.Time{suite.fiscalYear.StartDate, suite.fiscalYear.EndDate} {
		req := suite.balancedRequest()
		req.EntryDate = date

		suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
		suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.orgID, mock.Anything).
			Return(suite.accountsMap(suite.rentAccount, suite.bankAccount), nil).Once()
		suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		_, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)
		suite.NoError(err, "date %s should be inside the fiscal year", date.Format("2006-01-02"))
	}
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()

	inactiveBank := suite.bankAccount
	inactiveBank.IsActive = false

	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.orgID, mock.Anything).
		Return(suite.accountsMap(suite.rentAccount, inactiveBank), nil).Once()

	_, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountInactive)
	suite.Contains(err.Error(), "1930")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateDraftEntry_UnknownAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()

	// Only the rent account resolves.
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.orgID, mock.Anything).
		Return(suite.accountsMap(suite.rentAccount), nil).Once()

	_, err := suite.service.CreateDraftEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- GetEntryByID / ListEntries ---

func (suite *JournalServiceTestSuite) TestGetEntryByID_WrongOrganization() {
	ctx := context.Background()
	entry, _ := suite.draftEntry()
	entry.OrganizationID = uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.GetEntryByID(ctx, suite.orgID, entry.EntryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestListEntries_ClampsLimit() {
	ctx := context.Background()

	suite.mockJournalRepo.On("ListEntriesByOrganization", ctx, suite.orgID, 50, 0).Return([]domain.JournalEntry{}, nil).Once()

	entries, err := suite.service.ListEntries(ctx, suite.orgID, dto.ListJournalEntriesParams{Limit: 0, Offset: -3})

	suite.Require().NoError(err)
	suite.NotNil(entries)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

// --- UpdateDraftEntry ---

func (suite *JournalServiceTestSuite) TestUpdateDraftEntry_PostedRejected() {
	ctx := context.Background()
	entry, lines := suite.draftEntry()
	entry.Status = domain.Posted
	entry.VerificationNumber = 3

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()

	newDescription := "Changed after posting"
	_, err := suite.service.UpdateDraftEntry(ctx, suite.orgID, entry.EntryID, dto.UpdateJournalEntryRequest{Description: &newDescription}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotDraft)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateDraftEntry_ReplacesLines() {
	ctx := context.Background()
	entry, lines := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.orgID, mock.Anything).
		Return(suite.accountsMap(suite.bankAccount, suite.salesAccount), nil).Once()
	suite.mockJournalRepo.On("UpdateDraftEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine")).Return(nil).Once()

	newLines := []dto.EntryLineRequest{
		{AccountID: suite.bankAccount.AccountID, DebitAmount: decimal.NewFromInt(8750)},
		{AccountID: suite.salesAccount.AccountID, CreditAmount: decimal.NewFromInt(8750)},
	}
	updated, err := suite.service.UpdateDraftEntry(ctx, suite.orgID, entry.EntryID, dto.UpdateJournalEntryRequest{Lines: &newLines}, suite.userID)

	suite.Require().NoError(err)
	suite.Len(updated.Lines, 2)
	suite.Equal(suite.bankAccount.AccountID, updated.Lines[0].AccountID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestUpdateDraftEntry_LostRaceWithPost() {
	ctx := context.Background()
	entry, lines := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.orgID, mock.Anything).
		Return(suite.accountsMap(suite.rentAccount, suite.bankAccount), nil).Once()
	suite.mockJournalRepo.On("UpdateDraftEntry", ctx, mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()

	newDescription := "Updated rent"
	_, err := suite.service.UpdateDraftEntry(ctx, suite.orgID, entry.EntryID, dto.UpdateJournalEntryRequest{Description: &newDescription}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotDraft)
}

// --- PostEntry ---

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entry, lines := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.orgID, mock.Anything).
		Return(suite.accountsMap(suite.rentAccount, suite.bankAccount), nil).Once()
	suite.mockJournalRepo.On("PostEntry", ctx, entry.EntryID, suite.fiscalYear.FiscalYearID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(int64(1), nil).Once()

	posted, err := suite.service.PostEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Equal(int64(1), posted.VerificationNumber)
	suite.Require().NotNil(posted.PostedAt)
	suite.Equal(suite.userID, posted.LastUpdatedBy)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_UnbalancedRejectedWithDelta() {
	ctx := context.Background()
	entry, lines := suite.draftEntry()
	lines[0].DebitAmount = decimal.NewFromInt(1000)
	lines[1].CreditAmount = decimal.NewFromInt(900)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.orgID, mock.Anything).
		Return(suite.accountsMap(suite.rentAccount, suite.bankAccount), nil).Once()

	_, err := suite.service.PostEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryUnbalanced)
	// The exact imbalance is part of the message so the caller can show it.
	suite.Contains(err.Error(), "100")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entry, lines := suite.draftEntry()
	entry.Status = domain.Posted
	entry.VerificationNumber = 4

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()

	_, err := suite.service.PostEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotDraft)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_RetriesOnceOnCounterRace() {
	ctx := context.Background()
	entry, lines := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.orgID, mock.Anything).
		Return(suite.accountsMap(suite.rentAccount, suite.bankAccount), nil).Once()
	suite.mockJournalRepo.On("PostEntry", ctx, entry.EntryID, suite.fiscalYear.FiscalYearID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(int64(0), apperrors.ErrConcurrency).Once()
	suite.mockJournalRepo.On("PostEntry", ctx, entry.EntryID, suite.fiscalYear.FiscalYearID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(int64(7), nil).Once()

	posted, err := suite.service.PostEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(int64(7), posted.VerificationNumber)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_LostRaceBecomesNotDraft() {
	ctx := context.Background()
	entry, lines := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.orgID, mock.Anything).
		Return(suite.accountsMap(suite.rentAccount, suite.bankAccount), nil).Once()
	suite.mockJournalRepo.On("PostEntry", ctx, entry.EntryID, suite.fiscalYear.FiscalYearID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(int64(0), apperrors.ErrConflict).Once()

	_, err := suite.service.PostEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotDraft)
}

func (suite *JournalServiceTestSuite) TestPostEntry_ClosedFiscalYear() {
	ctx := context.Background()
	entry, lines := suite.draftEntry()

	closedAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	closed := suite.fiscalYear
	closed.IsClosed = true
	closed.ClosedAt = &closedAt

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&closed, nil).Once()

	_, err := suite.service.PostEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFiscalYearClosed)
}

// --- DeleteDraftEntry ---

func (suite *JournalServiceTestSuite) TestDeleteDraftEntry_Success() {
	ctx := context.Background()
	entry, _ := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("DeleteDraftEntry", ctx, entry.EntryID).Return(nil).Once()

	err := suite.service.DeleteDraftEntry(ctx, suite.orgID, entry.EntryID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteDraftEntry_PostedRejected() {
	ctx := context.Background()
	entry, _ := suite.draftEntry()
	entry.Status = domain.Posted
	entry.VerificationNumber = 2

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.DeleteDraftEntry(ctx, suite.orgID, entry.EntryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotDraft)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteDraftEntry", mock.Anything, mock.Anything)
}

// --- ReverseEntry ---

func (suite *JournalServiceTestSuite) postedEntry() (*domain.JournalEntry, []domain.JournalEntryLine) {
	entry, lines := suite.draftEntry()
	postedAt := time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC)
	entry.Status = domain.Posted
	entry.VerificationNumber = 12
	entry.PostedAt = &postedAt
	return entry, lines
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	entry, lines := suite.postedEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockJournalRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine"), entry.EntryID).
		Return(int64(13), nil).Once()

	reversing, err := suite.service.ReverseEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Equal(domain.Posted, reversing.Status)
	suite.Equal(int64(13), reversing.VerificationNumber)
	suite.Equal(entry.EntryDate, reversing.EntryDate)
	suite.Require().NotNil(reversing.OriginalEntryID)
	suite.Equal(entry.EntryID, *reversing.OriginalEntryID)
	suite.Contains(reversing.Description, "Reversal of #12")

	// Debits and credits swap, line order is preserved.
	suite.Require().Len(reversing.Lines, 2)
	suite.True(reversing.Lines[0].CreditAmount.Equal(lines[0].DebitAmount))
	suite.True(reversing.Lines[0].DebitAmount.Equal(lines[0].CreditAmount))
	suite.True(reversing.Lines[1].DebitAmount.Equal(lines[1].CreditAmount))
	suite.Equal(lines[0].LineOrder, reversing.Lines[0].LineOrder)

	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_DraftRejected() {
	ctx := context.Background()
	entry, lines := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotPosted)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_ReversalOfReversal() {
	ctx := context.Background()
	entry, lines := suite.postedEntry()
	someOriginal := uuid.NewString()
	entry.OriginalEntryID = &someOriginal

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrReversalOfReversal)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	entry, lines := suite.postedEntry()
	existingReversal := uuid.NewString()
	entry.ReversingEntryID = &existingReversal

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_ClosedFiscalYear() {
	ctx := context.Background()
	entry, lines := suite.postedEntry()

	closedAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	closed := suite.fiscalYear
	closed.IsClosed = true
	closed.ClosedAt = &closedAt

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&closed, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFiscalYearClosed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_LostLinkRace() {
	ctx := context.Background()
	entry, lines := suite.postedEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockFYReader.On("FindFiscalYearByID", ctx, suite.fiscalYear.FiscalYearID).Return(&suite.fiscalYear, nil).Once()
	suite.mockJournalRepo.On("SaveReversal", ctx, mock.Anything, mock.Anything, entry.EntryID).
		Return(int64(0), apperrors.ErrConflict).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

// --- Gap-free allocation under concurrency ---

// fakeAllocatingRepo is an in-memory journal repository whose PostEntry does
// real counter allocation under a mutex, so concurrent posts through the
// service exercise the numbering property end to end.
type fakeAllocatingRepo struct {
	mu      sync.Mutex
	next    int64
	entries map[string]*domain.JournalEntry
	lines   map[string][]domain.JournalEntryLine
}

func newFakeAllocatingRepo() *fakeAllocatingRepo {
	return &fakeAllocatingRepo{
		next:    1,
		entries: make(map[string]*domain.JournalEntry),
		lines:   make(map[string][]domain.JournalEntryLine),
	}
}

func (f *fakeAllocatingRepo) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeAllocatingRepo) FindLinesByEntryID(_ context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.JournalEntryLine(nil), f.lines[entryID]...), nil
}

func (f *fakeAllocatingRepo) ListEntriesByOrganization(context.Context, string, int, int) ([]domain.JournalEntry, error) {
	return nil, nil
}

func (f *fakeAllocatingRepo) SaveDraftEntry(_ context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := entry
	f.entries[entry.EntryID] = &stored
	f.lines[entry.EntryID] = lines
	return nil
}

func (f *fakeAllocatingRepo) UpdateDraftEntry(context.Context, domain.JournalEntry, []domain.JournalEntryLine) error {
	return nil
}

func (f *fakeAllocatingRepo) DeleteDraftEntry(context.Context, string) error { return nil }

func (f *fakeAllocatingRepo) PostEntry(_ context.Context, entryID, _, _ string, postedAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[entryID]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	if entry.Status != domain.Draft {
		return 0, apperrors.ErrConflict
	}
	number := f.next
	f.next++
	entry.Status = domain.Posted
	entry.VerificationNumber = number
	entry.PostedAt = &postedAt
	return number, nil
}

func (f *fakeAllocatingRepo) SaveReversal(context.Context, domain.JournalEntry, []domain.JournalEntryLine, string) (int64, error) {
	return 0, nil
}

func (f *fakeAllocatingRepo) SumPostedAmountsBefore(context.Context, string, string, time.Time) (decimal.Decimal, decimal.Decimal, error) {
	return decimal.Zero, decimal.Zero, nil
}

func (f *fakeAllocatingRepo) FindPostedLinesByAccountAndRange(context.Context, string, string, time.Time, time.Time) ([]domain.JournalEntryLine, error) {
	return nil, nil
}

func (f *fakeAllocatingRepo) Begin(context.Context) (pgx.Tx, error) { return nil, nil }
func (f *fakeAllocatingRepo) Commit(context.Context, pgx.Tx) error  { return nil }
func (f *fakeAllocatingRepo) Rollback(context.Context, pgx.Tx) error { return nil }

func TestPostEntry_ConcurrentPostsAllocateGapFreeNumbers(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.NewString()
	userID := uuid.NewString()

	fy := domain.FiscalYear{
		FiscalYearID:   uuid.NewString(),
		OrganizationID: orgID,
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	debitAccount := domain.Account{AccountID: uuid.NewString(), OrganizationID: orgID, AccountNumber: "1930", AccountClass: domain.Assets, IsActive: true}
	creditAccount := domain.Account{AccountID: uuid.NewString(), OrganizationID: orgID, AccountNumber: "3010", AccountClass: domain.Revenue, IsActive: true}

	repo := newFakeAllocatingRepo()

	fyReader := new(MockFiscalYearReader)
	fyReader.On("FindFiscalYearByID", mock.Anything, fy.FiscalYearID).Return(&fy, nil)

	accountSvc := new(MockAccountService)
	accountSvc.On("GetAccountsByIDs", mock.Anything, orgID, mock.Anything).
		Return(map[string]domain.Account{
			debitAccount.AccountID:  debitAccount,
			creditAccount.AccountID: creditAccount,
		}, nil)

	service := services.NewJournalService(repo, fyReader, accountSvc)

	const n = 20
	entryIDs := make([]string, n)
	for i := 0; i < n; i++ {
		req := dto.CreateJournalEntryRequest{
			FiscalYearID: fy.FiscalYearID,
			EntryDate:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Description:  "Concurrent sale",
			Lines: []dto.EntryLineRequest{
				{AccountID: debitAccount.AccountID, DebitAmount: decimal.NewFromInt(100)},
				{AccountID: creditAccount.AccountID, CreditAmount: decimal.NewFromInt(100)},
			},
		}
		entry, err := service.CreateDraftEntry(ctx, orgID, req, userID)
		if err != nil {
			t.Fatalf("CreateDraftEntry: %v", err)
		}
		entryIDs[i] = entry.EntryID
	}

	var wg sync.WaitGroup
	results := make(chan int64, n)
	for _, entryID := range entryIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			posted, err := service.PostEntry(ctx, orgID, id, userID)
			if err != nil {
				t.Errorf("PostEntry(%s): %v", id, err)
				return
			}
			results <- posted.VerificationNumber
		}(entryID)
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for number := range results {
		if seen[number] {
			t.Errorf("verification number %d allocated twice", number)
		}
		seen[number] = true
	}
	// Contiguous from 1 with no gaps.
	for i := int64(1); i <= n; i++ {
		if !seen[i] {
			t.Errorf("verification number %d missing from allocation", i)
		}
	}
}
