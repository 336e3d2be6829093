package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"praenforce/internal/models"
	"praenforce/internal/reconciler"
	"praenforce/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type MockSkipReasonRepository struct {
	mock.Mock
}

func (m *MockSkipReasonRepository) Create(ctx context.Context, rec *models.SkipReasonRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) Fetch(ctx context.Context, table string) ([]models.RawRecord, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawRecord), args.Error(1)
}

func (m *MockTableSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type SkipReasonServiceTestSuite struct {
	suite.Suite
	repo    *MockSkipReasonRepository
	source  *MockTableSource
	service *skipReasonService
	ctx     context.Context
	now     time.Time
}

func (suite *SkipReasonServiceTestSuite) SetupTest() {
	suite.repo = new(MockSkipReasonRepository)
	suite.source = new(MockTableSource)
	suite.now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	suite.service = NewSkipReasonService(suite.repo, suite.source, zap.NewNop()).(*skipReasonService)
	suite.service.now = func() time.Time { return suite.now }
	suite.ctx = context.Background()
}

func (suite *SkipReasonServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
	suite.source.AssertExpectations(suite.T())
}

func TestSkipReasonServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SkipReasonServiceTestSuite))
}

func (suite *SkipReasonServiceTestSuite) TestSubmit_Success() {
	suite.repo.On("Create", suite.ctx, mock.MatchedBy(func(rec *models.SkipReasonRecord) bool {
		return rec.RestaurantID == "42" &&
			rec.OfficerEmail == "kamranpra@gmail.com" &&
			rec.Reason == models.SkipReasonClosed &&
			rec.Timestamp.Equal(suite.now)
	})).Return(nil).Once()

	rec, err := suite.service.Submit(suite.ctx, "42.0", " kamranpra@gmail.com ", models.SkipReasonClosed)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "42", rec.RestaurantID)
	assert.NotEqual(suite.T(), uuid.Nil, rec.ID)
}

func (suite *SkipReasonServiceTestSuite) TestSubmit_InvalidReason() {
	rec, err := suite.service.Submit(suite.ctx, "42", "a@b.c", "Officer on leave")

	assert.Nil(suite.T(), rec)
	assert.ErrorIs(suite.T(), err, ErrInvalidSkipReason)
}

func (suite *SkipReasonServiceTestSuite) TestSubmit_MissingRestaurant() {
	rec, err := suite.service.Submit(suite.ctx, "nan", "a@b.c", models.SkipReasonClosed)

	assert.Nil(suite.T(), rec)
	assert.ErrorIs(suite.T(), err, ErrInvalidRestaurant)
}

func (suite *SkipReasonServiceTestSuite) TestSubmit_AlreadySubmitted() {
	suite.repo.On("Create", suite.ctx, mock.Anything).Return(repositories.ErrSkipReasonExists).Once()

	rec, err := suite.service.Submit(suite.ctx, "42", "a@b.c", models.SkipReasonDuplicate)

	assert.Nil(suite.T(), rec)
	assert.ErrorIs(suite.T(), err, repositories.ErrSkipReasonExists)
}

func (suite *SkipReasonServiceTestSuite) TestActive() {
	suite.source.On("Fetch", suite.ctx, models.TableSkipReasons).Return([]models.RawRecord{
		{"restaurant_id": "42", "officer_email": "a@b.c", "reason": models.SkipReasonDuplicate, "timestamp": "2025-06-02T10:00:00"},
		{"restaurant_id": "42", "officer_email": "A@B.C", "reason": models.SkipReasonClosed, "timestamp": "2025-06-01T10:00:00"},
	}, nil).Once()

	rec, err := suite.service.Active(suite.ctx, "42", "a@b.c")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), rec)
	assert.Equal(suite.T(), models.SkipReasonClosed, rec.Reason)
}

func (suite *SkipReasonServiceTestSuite) TestActive_SourceUnavailable() {
	suite.source.On("Fetch", suite.ctx, models.TableSkipReasons).
		Return(nil, reconciler.Unavailable(models.TableSkipReasons, errors.New("timeout"))).Once()

	rec, err := suite.service.Active(suite.ctx, "42", "a@b.c")

	assert.Nil(suite.T(), rec)
	assert.ErrorIs(suite.T(), err, reconciler.ErrDataUnavailable)
}

func (suite *SkipReasonServiceTestSuite) TestListForOfficer_DegradesWithoutRestaurants() {
	suite.source.On("Fetch", suite.ctx, models.TableSkipReasons).Return([]models.RawRecord{
		{"restaurant_id": "42", "officer_email": "a@b.c", "reason": models.SkipReasonClosed},
	}, nil).Once()
	suite.source.On("Fetch", suite.ctx, models.TableRestaurants).
		Return(nil, reconciler.Unavailable(models.TableRestaurants, errors.New("timeout"))).Once()

	entries, err := suite.service.ListForOfficer(suite.ctx, "a@b.c")

	assert.ErrorIs(suite.T(), err, reconciler.ErrDataUnavailable)
	require.Len(suite.T(), entries, 1)
	assert.Equal(suite.T(), "42", entries[0].ID)
	assert.Empty(suite.T(), entries[0].Name)
}

func (suite *SkipReasonServiceTestSuite) TestListForOfficer_JoinsRestaurantNames() {
	suite.source.On("Fetch", suite.ctx, models.TableSkipReasons).Return([]models.RawRecord{
		{"restaurant_id": "42", "officer_email": "a@b.c", "reason": models.SkipReasonClosed},
		{"restaurant_id": "43", "officer_email": "other@b.c", "reason": models.SkipReasonClosed},
	}, nil).Once()
	suite.source.On("Fetch", suite.ctx, models.TableRestaurants).Return([]models.RawRecord{
		{"id": "42", "restaurant_name": "Tea Stop", "restaurant_address": "3 Jail Rd"},
	}, nil).Once()

	entries, err := suite.service.ListForOfficer(suite.ctx, "a@b.c")

	require.NoError(suite.T(), err)
	require.Len(suite.T(), entries, 1)
	assert.Equal(suite.T(), "Tea Stop", entries[0].Name)
}
