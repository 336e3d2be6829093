package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"praenforce/internal/models"
	"praenforce/internal/reconciler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

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

type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockReportCache) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReportCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type ReportServiceTestSuite struct {
	suite.Suite
	source      *MockTableSource
	cache       *MockReportCache
	service     *ReportService
	ctx         context.Context
	restaurants []models.RawRecord
	followups   []models.RawRecord
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.source = new(MockTableSource)
	suite.cache = new(MockReportCache)
	suite.service = NewReportService(suite.source, suite.cache, reconciler.NewComplianceReconciler(nil), time.Minute, zap.NewNop())
	suite.ctx = context.Background()

	suite.restaurants = []models.RawRecord{
		{"id": "1", "restaurant_name": "Lahore Grill", "restaurant_address": "1 Mall Rd", "officer_id": float64(7), "compliance_status": "Unregistered", "ntn": nil},
		{"id": "2", "restaurant_name": "Karahi House", "restaurant_address": "2 Canal Rd", "officer_id": "7", "compliance_status": "Unregistered", "ntn": "nan"},
		{"id": "3", "restaurant_name": "Tea Stop", "restaurant_address": "3 Jail Rd", "officer_id": "3", "compliance_status": "Registered", "ntn": "1234"},
		{"id": "nan", "restaurant_name": "Broken Row"},
	}
	suite.followups = []models.RawRecord{
		{"restaurant_id": "1", "delivery_status": "Returned", "correct_name": "None", "correct_address": "", "latest_formality_status": "Filed"},
		{"restaurant_id": "2", "delivery_status": "returned", "correct_name": "", "correct_address": "123 New St", "latest_formality_status": "Unregistered"},
		{"restaurant_id": "99", "delivery_status": "returned", "correct_name": "Ghost", "correct_address": "", "latest_formality_status": "Filed"},
	}
}

func (suite *ReportServiceTestSuite) TearDownTest() {
	suite.source.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

func (suite *ReportServiceTestSuite) expectTables() {
	suite.source.On("Fetch", mock.Anything, models.TableRestaurants).Return(suite.restaurants, nil)
	suite.source.On("Fetch", mock.Anything, models.TableNoticeFollowups).Return(suite.followups, nil)
}

func (suite *ReportServiceTestSuite) TestWorkload_CacheMissComputesAndStores() {
	suite.expectTables()
	suite.cache.On("Get", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > 0
	}), mock.Anything).Return(false, nil)
	suite.cache.On("Set", mock.Anything, mock.Anything, mock.AnythingOfType("models.OfficerWorkload"), time.Minute).Return(nil)

	w, err := suite.service.Workload(suite.ctx, "7")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, w.AssignedCount)
	assert.Equal(suite.T(), 2, w.ReturnedCount)
	assert.Equal(suite.T(), 1, w.ResendCount)
	assert.Equal(suite.T(), "2", w.ResendList[0].ID)
}

func (suite *ReportServiceTestSuite) TestWorkload_CacheHit() {
	suite.expectTables()
	suite.cache.On("Get", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*models.OfficerWorkload)
			*dest = models.OfficerWorkload{OfficerID: "7", AssignedCount: 42}
		}).
		Return(true, nil)

	w, err := suite.service.Workload(suite.ctx, "7")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 42, w.AssignedCount)
	suite.cache.AssertNotCalled(suite.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestWorkload_CacheErrorsAreNotFatal() {
	suite.expectTables()
	suite.cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
	suite.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	w, err := suite.service.Workload(suite.ctx, "7")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, w.AssignedCount)
}

func (suite *ReportServiceTestSuite) TestWorkload_DegradedWhenFollowupsUnavailable() {
	suite.source.On("Fetch", mock.Anything, models.TableRestaurants).Return(suite.restaurants, nil)
	suite.source.On("Fetch", mock.Anything, models.TableNoticeFollowups).
		Return(nil, reconciler.Unavailable(models.TableNoticeFollowups, errors.New("timeout")))

	w, err := suite.service.Workload(suite.ctx, "7")

	assert.ErrorIs(suite.T(), err, reconciler.ErrDataUnavailable)
	assert.Equal(suite.T(), []string{models.TableNoticeFollowups}, UnavailableTables(err))
	assert.Equal(suite.T(), 2, w.AssignedCount)
	assert.Equal(suite.T(), 0, w.FollowupCount)
	suite.cache.AssertNotCalled(suite.T(), "Get", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestWorkloads_DedupesOfficers() {
	suite.expectTables()
	suite.cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	suite.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	ws, err := suite.service.Workloads(suite.ctx, []string{"7", "3", "7", ""})

	require.NoError(suite.T(), err)
	require.Len(suite.T(), ws, 2)
	assert.Equal(suite.T(), "7", ws[0].OfficerID)
	assert.Equal(suite.T(), "3", ws[1].OfficerID)
	assert.Equal(suite.T(), 1, ws[1].AssignedCount)
}

func (suite *ReportServiceTestSuite) TestStatusChanges_ScopedToOfficer() {
	suite.expectTables()
	suite.source.On("Fetch", mock.Anything, models.TableComplianceUpdates).Return([]models.RawRecord{}, nil)
	suite.cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	suite.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	all, err := suite.service.StatusChanges(suite.ctx, "")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, all.TotalChanged)
	require.Len(suite.T(), all.Groups, 1)
	assert.Equal(suite.T(), "filed", all.Groups[0].StatusKey)

	other, err := suite.service.StatusChanges(suite.ctx, "3")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, other.TotalChanged)
}

func (suite *ReportServiceTestSuite) TestStatusChanges_VisitOverridesFollowup() {
	suite.expectTables()
	suite.source.On("Fetch", mock.Anything, models.TableComplianceUpdates).Return([]models.RawRecord{
		{"restaurant_id": "2", "officer_id": "7", "formality_status": models.FormalityRegisteredNotFiling, "created_at": "2025-06-01T09:00:00Z"},
	}, nil)
	suite.cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	suite.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	report, err := suite.service.StatusChanges(suite.ctx, "7")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, report.TotalChanged)
	keys := make([]string, 0, len(report.Groups))
	for _, g := range report.Groups {
		keys = append(keys, g.StatusKey)
	}
	assert.ElementsMatch(suite.T(), []string{"filed", "registered but not filing"}, keys)
}

func (suite *ReportServiceTestSuite) TestStatusChanges_DegradedWithoutVisits() {
	suite.expectTables()
	suite.source.On("Fetch", mock.Anything, models.TableComplianceUpdates).
		Return(nil, reconciler.Unavailable(models.TableComplianceUpdates, errors.New("relation does not exist")))

	report, err := suite.service.StatusChanges(suite.ctx, "")

	assert.ErrorIs(suite.T(), err, reconciler.ErrDataUnavailable)
	assert.Equal(suite.T(), []string{models.TableComplianceUpdates}, UnavailableTables(err))
	assert.Equal(suite.T(), 1, report.TotalChanged)
	suite.cache.AssertNotCalled(suite.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestComplianceSummary() {
	suite.source.On("Fetch", mock.Anything, models.TableRestaurants).Return(suite.restaurants, nil)
	suite.cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	suite.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	s, err := suite.service.ComplianceSummary(suite.ctx, "")

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), s.Registered, 1)
	assert.Len(suite.T(), s.Unregistered, 2)
	require.Len(suite.T(), s.Filers, 1)
	assert.Equal(suite.T(), "3", s.Filers[0].ID)
}

func (suite *ReportServiceTestSuite) TestDiagnostics() {
	suite.expectTables()
	suite.source.On("Fetch", mock.Anything, models.TableSkipReasons).
		Return(nil, reconciler.Unavailable(models.TableSkipReasons, errors.New("relation does not exist")))

	d, err := suite.service.Diagnostics(suite.ctx)

	assert.ErrorIs(suite.T(), err, reconciler.ErrDataUnavailable)
	assert.Equal(suite.T(), 1, d.UnresolvedFollowups)
	assert.Equal(suite.T(), 0, d.UnresolvedSkipReasons)
	assert.Equal(suite.T(), 1, d.DroppedRows)
	assert.Equal(suite.T(), []string{models.TableSkipReasons}, d.UnavailableTables)
	assert.Empty(suite.T(), d.MissingColumns)
}

func (suite *ReportServiceTestSuite) TestInvalidateCache() {
	suite.cache.On("InvalidateAll", mock.Anything).Return(nil)
	assert.NoError(suite.T(), suite.service.InvalidateCache(suite.ctx))
}

func TestReportService_WithoutCache(t *testing.T) {
	source := new(MockTableSource)
	source.On("Fetch", mock.Anything, models.TableRestaurants).Return([]models.RawRecord{
		{"id": "1", "officer_id": "7"},
	}, nil)
	source.On("Fetch", mock.Anything, models.TableNoticeFollowups).Return([]models.RawRecord{}, nil)

	service := NewReportService(source, nil, reconciler.NewComplianceReconciler(nil), 0, zap.NewNop())
	w, err := service.Workload(context.Background(), "7")

	require.NoError(t, err)
	assert.Equal(t, 1, w.AssignedCount)
	assert.NoError(t, service.InvalidateCache(context.Background()))
}

func TestUnavailableTables(t *testing.T) {
	assert.Empty(t, UnavailableTables(nil))
	assert.Empty(t, UnavailableTables(errors.New("other")))
}
