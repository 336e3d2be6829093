package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"praenforce/internal/analytics"
	"praenforce/internal/common"
	"praenforce/internal/middleware"
	"praenforce/internal/models"
	"praenforce/internal/reconciler"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ReportProvider computes reconciliation reports
type ReportProvider interface {
	Workload(ctx context.Context, officerID string) (models.OfficerWorkload, error)
	Workloads(ctx context.Context, officerIDs []string) ([]models.OfficerWorkload, error)
	StatusChanges(ctx context.Context, officerID string) (models.StatusChangeReport, error)
	ComplianceSummary(ctx context.Context, officerID string) (models.ComplianceSummary, error)
	Diagnostics(ctx context.Context) (models.Diagnostics, error)
}

// OfficerLister lists every rostered officer id
type OfficerLister interface {
	OfficerIDs() []string
}

// ReportResponse wraps every report. Degraded responses were computed with
// one or more tables missing and are sent with 206 Partial Content.
type ReportResponse struct {
	Data              any      `json:"data"`
	Degraded          bool     `json:"degraded"`
	UnavailableTables []string `json:"unavailable_tables,omitempty"`
	GeneratedAt       string   `json:"generated_at"`
}

// ReportHandlers serves workload, status-change and compliance reports
type ReportHandlers struct {
	reports ReportProvider
	roster  OfficerLister
	logger  *zap.Logger
}

func NewReportHandlers(reports ReportProvider, roster OfficerLister, logger *zap.Logger) *ReportHandlers {
	return &ReportHandlers{reports: reports, roster: roster, logger: logger}
}

// RegisterRoutes mounts the report routes on an authenticated group
func (h *ReportHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/me", h.Me)
	g.GET("/workloads", h.ListWorkloads)
	g.GET("/officers/:officer_id/workload", h.GetOfficerWorkload, middleware.RequireOfficerAccess("officer_id"))
	g.GET("/status-changes", h.GetStatusChanges)
	g.GET("/compliance-summary", h.GetComplianceSummary)
	g.GET("/reconciliation", h.GetReconciliation, middleware.RequireAdmin())
}

func (h *ReportHandlers) respond(c echo.Context, data any, err error) error {
	return respondReport(c, h.logger, data, err)
}

// respondReport sends 200, 206 for DataUnavailable, or 500 for anything else
func respondReport(c echo.Context, logger *zap.Logger, data any, err error) error {
	resp := ReportResponse{
		Data:        data,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err == nil {
		return c.JSON(http.StatusOK, resp)
	}
	if errors.Is(err, reconciler.ErrDataUnavailable) {
		resp.Degraded = true
		resp.UnavailableTables = analytics.UnavailableTables(err)
		logger.Warn("serving degraded report", zap.String("route", c.Path()), zap.Error(err))
		return c.JSON(http.StatusPartialContent, resp)
	}
	logger.Error("report failed", zap.String("route", c.Path()), zap.Error(err))
	return common.SendServerError(c, "Failed to compute report")
}

func sessionFrom(c echo.Context) (models.Session, bool) {
	return common.GetSessionFromContext(c.Request().Context())
}

// scopeFor returns the officer a report is restricted to. Admins may narrow
// with ?officer_id=; officers always see their own restaurants.
func scopeFor(c echo.Context, session models.Session) string {
	if session.IsAdmin() {
		return reconciler.NormalizeIdentifier(c.QueryParam("officer_id"))
	}
	return session.OfficerID
}

// Me godoc
// @Summary Current session
// @Tags session
// @Produce json
// @Success 200 {object} models.Session
// @Router /v1/me [get]
func (h *ReportHandlers) Me(c echo.Context) error {
	session, ok := sessionFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, session)
}

// ListWorkloads godoc
// @Summary Officer workloads
// @Description Admins get every rostered officer, officers get their own workload.
// @Tags reports
// @Produce json
// @Success 200 {object} ReportResponse
// @Success 206 {object} ReportResponse
// @Router /v1/workloads [get]
func (h *ReportHandlers) ListWorkloads(c echo.Context) error {
	session, ok := sessionFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	officerIDs := []string{session.OfficerID}
	if session.IsAdmin() {
		officerIDs = h.roster.OfficerIDs()
	}

	workloads, err := h.reports.Workloads(c.Request().Context(), officerIDs)
	return h.respond(c, workloads, err)
}

// GetOfficerWorkload godoc
// @Summary One officer's workload
// @Tags reports
// @Produce json
// @Param officer_id path string true "Officer ID"
// @Success 200 {object} ReportResponse
// @Success 206 {object} ReportResponse
// @Failure 403 {object} common.ErrorResponse
// @Router /v1/officers/{officer_id}/workload [get]
func (h *ReportHandlers) GetOfficerWorkload(c echo.Context) error {
	officerID := reconciler.NormalizeIdentifier(c.Param("officer_id"))
	if officerID == "" {
		return common.SendValidationError(c, "officer_id", "officer_id is required")
	}

	workload, err := h.reports.Workload(c.Request().Context(), officerID)
	return h.respond(c, workload, err)
}

// GetStatusChanges godoc
// @Summary Restaurants whose observed formality status differs from the recorded one
// @Tags reports
// @Produce json
// @Param officer_id query string false "Admin only: restrict to one officer"
// @Success 200 {object} ReportResponse
// @Success 206 {object} ReportResponse
// @Router /v1/status-changes [get]
func (h *ReportHandlers) GetStatusChanges(c echo.Context) error {
	session, ok := sessionFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	report, err := h.reports.StatusChanges(c.Request().Context(), scopeFor(c, session))
	return h.respond(c, report, err)
}

// GetComplianceSummary godoc
// @Summary Registered, unregistered and filer restaurants
// @Tags reports
// @Produce json
// @Param officer_id query string false "Admin only: restrict to one officer"
// @Success 200 {object} ReportResponse
// @Success 206 {object} ReportResponse
// @Router /v1/compliance-summary [get]
func (h *ReportHandlers) GetComplianceSummary(c echo.Context) error {
	session, ok := sessionFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	summary, err := h.reports.ComplianceSummary(c.Request().Context(), scopeFor(c, session))
	return h.respond(c, summary, err)
}

// GetReconciliation godoc
// @Summary Unresolved references and normalization losses
// @Tags reports
// @Produce json
// @Success 200 {object} ReportResponse
// @Success 206 {object} ReportResponse
// @Failure 403 {object} common.ErrorResponse
// @Router /v1/reconciliation [get]
func (h *ReportHandlers) GetReconciliation(c echo.Context) error {
	diagnostics, err := h.reports.Diagnostics(c.Request().Context())
	return h.respond(c, diagnostics, err)
}
