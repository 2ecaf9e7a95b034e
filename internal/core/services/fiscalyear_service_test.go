package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/klarbok/klarbok/internal/apperrors"
	"github.com/klarbok/klarbok/internal/core/domain"
	portsrepo "github.com/klarbok/klarbok/internal/core/ports/repositories"
	portssvc "github.com/klarbok/klarbok/internal/core/ports/services"
	"github.com/klarbok/klarbok/internal/core/services"
	"github.com/klarbok/klarbok/internal/dto"
)

// --- Mock FiscalYearRepository ---
type MockFiscalYearRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalYearRepositoryFacade = (*MockFiscalYearRepository)(nil)

func (m *MockFiscalYearRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearRepository) FindFiscalYearForDate(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalYear, error) {
	args := m.Called(ctx, organizationID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearRepository) ListFiscalYearsByOrganization(ctx context.Context, organizationID string) ([]domain.FiscalYear, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalYearRepository) SaveFiscalYear(ctx context.Context, fy domain.FiscalYear) error {
	args := m.Called(ctx, fy)
	return args.Error(0)
}

func (m *MockFiscalYearRepository) CloseFiscalYear(ctx context.Context, fiscalYearID, userID string, closedAt time.Time) error {
	args := m.Called(ctx, fiscalYearID, userID, closedAt)
	return args.Error(0)
}

// --- Test Suite Setup ---
type FiscalYearServiceTestSuite struct {
	suite.Suite
	mockRepo *MockFiscalYearRepository
	service  portssvc.FiscalYearSvcFacade
	orgID    string
	userID   string
}

func (suite *FiscalYearServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockFiscalYearRepository)
	suite.service = services.NewFiscalYearService(suite.mockRepo)
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *FiscalYearServiceTestSuite) year(start, end string) domain.FiscalYear {
	startDate, _ := time.Parse("2006-01-02", start)
	endDate, _ := time.Parse("2006-01-02", end)
	return domain.FiscalYear{
		FiscalYearID:           uuid.NewString(),
		OrganizationID:         suite.orgID,
		StartDate:              startDate,
		EndDate:                endDate,
		NextVerificationNumber: 1,
	}
}

func (suite *FiscalYearServiceTestSuite) TestCreateFiscalYear_Success() {
	ctx := context.Background()
	req := dto.CreateFiscalYearRequest{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	suite.mockRepo.On("ListFiscalYearsByOrganization", ctx, suite.orgID).Return([]domain.FiscalYear{}, nil).Once()
	suite.mockRepo.On("SaveFiscalYear", ctx, mock.AnythingOfType("domain.FiscalYear")).Return(nil).Once()

	fy, err := suite.service.CreateFiscalYear(ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(fy.FiscalYearID)
	suite.False(fy.IsClosed)
	// The counter starts at 1 for every new year.
	suite.Equal(int64(1), fy.NextVerificationNumber)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FiscalYearServiceTestSuite) TestCreateFiscalYear_InvertedRange() {
	ctx := context.Background()
	req := dto.CreateFiscalYearRequest{
		StartDate: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := suite.service.CreateFiscalYear(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFiscalYearInverted)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveFiscalYear", mock.Anything, mock.Anything)
}

func (suite *FiscalYearServiceTestSuite) TestCreateFiscalYear_SingleDayYear() {
	ctx := context.Background()
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateFiscalYearRequest{StartDate: day, EndDate: day}

	suite.mockRepo.On("ListFiscalYearsByOrganization", ctx, suite.orgID).Return([]domain.FiscalYear{}, nil).Once()
	suite.mockRepo.On("SaveFiscalYear", ctx, mock.AnythingOfType("domain.FiscalYear")).Return(nil).Once()

	_, err := suite.service.CreateFiscalYear(ctx, suite.orgID, req, suite.userID)

	suite.NoError(err)
}

func (suite *FiscalYearServiceTestSuite) TestCreateFiscalYear_OverlapRejected() {
	ctx := context.Background()
	existing := suite.year("2025-01-01", "2025-12-31")

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"straddles the end", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"contained inside", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)},
		{"touches one boundary day", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		suite.mockRepo.On("ListFiscalYearsByOrganization", ctx, suite.orgID).Return([]domain.FiscalYear{existing}, nil).Once()

		_, err := suite.service.CreateFiscalYear(ctx, suite.orgID, dto.CreateFiscalYearRequest{StartDate: tc.start, EndDate: tc.end}, suite.userID)

		suite.Require().Error(err, tc.name)
		suite.ErrorIs(err, services.ErrFiscalYearOverlap, tc.name)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveFiscalYear", mock.Anything, mock.Anything)
}

func (suite *FiscalYearServiceTestSuite) TestCreateFiscalYear_AdjacentYearAllowed() {
	ctx := context.Background()
	existing := suite.year("2025-01-01", "2025-12-31")

	suite.mockRepo.On("ListFiscalYearsByOrganization", ctx, suite.orgID).Return([]domain.FiscalYear{existing}, nil).Once()
	suite.mockRepo.On("SaveFiscalYear", ctx, mock.AnythingOfType("domain.FiscalYear")).Return(nil).Once()

	req := dto.CreateFiscalYearRequest{
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	_, err := suite.service.CreateFiscalYear(ctx, suite.orgID, req, suite.userID)

	suite.NoError(err)
}

func (suite *FiscalYearServiceTestSuite) TestGetFiscalYearByID_WrongOrganization() {
	ctx := context.Background()
	fy := suite.year("2025-01-01", "2025-12-31")
	fy.OrganizationID = uuid.NewString()

	suite.mockRepo.On("FindFiscalYearByID", ctx, fy.FiscalYearID).Return(&fy, nil).Once()

	_, err := suite.service.GetFiscalYearByID(ctx, suite.orgID, fy.FiscalYearID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *FiscalYearServiceTestSuite) TestCloseFiscalYear_Success() {
	ctx := context.Background()
	fy := suite.year("2025-01-01", "2025-12-31")

	suite.mockRepo.On("FindFiscalYearByID", ctx, fy.FiscalYearID).Return(&fy, nil).Once()
	suite.mockRepo.On("CloseFiscalYear", ctx, fy.FiscalYearID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	closed, err := suite.service.CloseFiscalYear(ctx, suite.orgID, fy.FiscalYearID, suite.userID)

	suite.Require().NoError(err)
	suite.True(closed.IsClosed)
	suite.NotNil(closed.ClosedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FiscalYearServiceTestSuite) TestCloseFiscalYear_AlreadyClosed() {
	ctx := context.Background()
	fy := suite.year("2025-01-01", "2025-12-31")
	closedAt := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	fy.IsClosed = true
	fy.ClosedAt = &closedAt

	suite.mockRepo.On("FindFiscalYearByID", ctx, fy.FiscalYearID).Return(&fy, nil).Once()

	_, err := suite.service.CloseFiscalYear(ctx, suite.orgID, fy.FiscalYearID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyClosed)
	suite.mockRepo.AssertNotCalled(suite.T(), "CloseFiscalYear", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FiscalYearServiceTestSuite) TestCloseFiscalYear_AlreadyClosedWithoutTimestamp() {
	ctx := context.Background()
	fy := suite.year("2025-01-01", "2025-12-31")
	fy.IsClosed = true
	fy.ClosedAt = nil

	suite.mockRepo.On("FindFiscalYearByID", ctx, fy.FiscalYearID).Return(&fy, nil).Once()

	_, err := suite.service.CloseFiscalYear(ctx, suite.orgID, fy.FiscalYearID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyClosed)
	suite.Contains(err.Error(), "closed at unknown")
}

func TestFiscalYearServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FiscalYearServiceTestSuite))
}
