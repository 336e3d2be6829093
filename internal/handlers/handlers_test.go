package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"praenforce/internal/common"
	"praenforce/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	adminSession   = models.Session{Email: "pi@pra.gov.pk", Role: models.RoleAdmin}
	officerSession = models.Session{Email: "kamranpra@gmail.com", OfficerID: "2", Role: models.RoleOfficer}
)

// withSession stands in for the JWT and session middleware
func withSession(session *models.Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if session != nil {
				c.SetRequest(c.Request().WithContext(common.WithSession(c.Request().Context(), *session)))
			}
			return next(c)
		}
	}
}

func serve(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type MockReportProvider struct {
	mock.Mock
}

func (m *MockReportProvider) Workload(ctx context.Context, officerID string) (models.OfficerWorkload, error) {
	args := m.Called(ctx, officerID)
	return args.Get(0).(models.OfficerWorkload), args.Error(1)
}

func (m *MockReportProvider) Workloads(ctx context.Context, officerIDs []string) ([]models.OfficerWorkload, error) {
	args := m.Called(ctx, officerIDs)
	return args.Get(0).([]models.OfficerWorkload), args.Error(1)
}

func (m *MockReportProvider) StatusChanges(ctx context.Context, officerID string) (models.StatusChangeReport, error) {
	args := m.Called(ctx, officerID)
	return args.Get(0).(models.StatusChangeReport), args.Error(1)
}

func (m *MockReportProvider) ComplianceSummary(ctx context.Context, officerID string) (models.ComplianceSummary, error) {
	args := m.Called(ctx, officerID)
	return args.Get(0).(models.ComplianceSummary), args.Error(1)
}

func (m *MockReportProvider) Diagnostics(ctx context.Context) (models.Diagnostics, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Diagnostics), args.Error(1)
}

type staticRoster []string

func (r staticRoster) OfficerIDs() []string {
	return r
}

type MockSkipReasonService struct {
	mock.Mock
}

func (m *MockSkipReasonService) Submit(ctx context.Context, restaurantID, officerEmail, reason string) (*models.SkipReasonRecord, error) {
	args := m.Called(ctx, restaurantID, officerEmail, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SkipReasonRecord), args.Error(1)
}

func (m *MockSkipReasonService) Active(ctx context.Context, restaurantID, officerEmail string) (*models.SkipReasonRecord, error) {
	args := m.Called(ctx, restaurantID, officerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SkipReasonRecord), args.Error(1)
}

func (m *MockSkipReasonService) ListForOfficer(ctx context.Context, officerEmail string) ([]models.SkipReasonEntry, error) {
	args := m.Called(ctx, officerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SkipReasonEntry), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var errBoom = errors.New("boom")

type MockComplianceUpdateService struct {
	mock.Mock
}

func (m *MockComplianceUpdateService) Submit(ctx context.Context, session models.Session, restaurantID string, input models.ComplianceUpdateInput) (*models.ComplianceUpdateRecord, error) {
	args := m.Called(ctx, session, restaurantID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ComplianceUpdateRecord), args.Error(1)
}

func (m *MockComplianceUpdateService) ListForRestaurant(ctx context.Context, session models.Session, restaurantID string) ([]models.ComplianceUpdateRecord, error) {
	args := m.Called(ctx, session, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ComplianceUpdateRecord), args.Error(1)
}
