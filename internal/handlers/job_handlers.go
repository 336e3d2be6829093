package handlers

import (
	"context"
	"net/http"

	"praenforce/internal/common"
	"praenforce/internal/jobs/background"
	"praenforce/internal/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CacheInvalidator drops every cached report
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// JobRunner triggers a scheduled job outside its schedule
type JobRunner interface {
	RunNow(name string) error
}

// RefreshResponse reports what a manual refresh did
type RefreshResponse struct {
	Message          string `json:"message"`
	CacheInvalidated bool   `json:"cache_invalidated"`
	RefreshTriggered bool   `json:"refresh_triggered"`
}

// JobHandlers exposes admin controls over cached and archived reports
type JobHandlers struct {
	cache  CacheInvalidator
	runner JobRunner
	logger *zap.Logger
}

// NewJobHandlers creates job handlers. runner may be nil when background
// refreshes are disabled.
func NewJobHandlers(cache CacheInvalidator, runner JobRunner, logger *zap.Logger) *JobHandlers {
	return &JobHandlers{cache: cache, runner: runner, logger: logger}
}

func (h *JobHandlers) RegisterRoutes(g *echo.Group) {
	g.POST("/reports/refresh", h.TriggerReportRefresh, middleware.RequireAdmin())
}

// TriggerReportRefresh godoc
// @Summary Drop cached reports and re-archive snapshots
// @Description Admin only. The archive refresh runs in the background.
// @Tags jobs
// @Produce json
// @Success 202 {object} RefreshResponse
// @Failure 403 {object} common.ErrorResponse
// @Failure 500 {object} common.ErrorResponse
// @Router /v1/reports/refresh [post]
func (h *JobHandlers) TriggerReportRefresh(c echo.Context) error {
	if err := h.cache.InvalidateCache(c.Request().Context()); err != nil {
		h.logger.Error("failed to invalidate report cache", zap.Error(err))
		return common.SendServerError(c, "Failed to invalidate report cache")
	}

	resp := RefreshResponse{
		Message:          "Report cache cleared",
		CacheInvalidated: true,
	}
	if h.runner != nil {
		if err := h.runner.RunNow(background.ReportRefreshJob); err != nil {
			h.logger.Error("failed to trigger report refresh", zap.Error(err))
			return common.SendServerError(c, "Cache cleared but the report refresh could not be started")
		}
		resp.Message = "Report cache cleared, refresh started"
		resp.RefreshTriggered = true
	}

	h.logger.Info("manual report refresh", zap.Bool("refresh_triggered", resp.RefreshTriggered))
	return c.JSON(http.StatusAccepted, resp)
}
