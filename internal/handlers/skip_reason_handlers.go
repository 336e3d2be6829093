package handlers

import (
	"errors"
	"net/http"
	"strings"

	"praenforce/internal/common"
	"praenforce/internal/models"
	"praenforce/internal/reconciler"
	"praenforce/internal/repositories"
	"praenforce/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SkipReasonHandlers records why officers skipped sending a notice
type SkipReasonHandlers struct {
	skipReasons services.SkipReasonService
	logger      *zap.Logger
}

func NewSkipReasonHandlers(skipReasons services.SkipReasonService, logger *zap.Logger) *SkipReasonHandlers {
	return &SkipReasonHandlers{skipReasons: skipReasons, logger: logger}
}

func (h *SkipReasonHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/restaurants/:id/skip-reason", h.GetSkipReason)
	g.POST("/restaurants/:id/skip-reason", h.SubmitSkipReason)
	g.GET("/skip-reasons", h.ListSkipReasons)
}

type submitSkipReasonRequest struct {
	Reason string `json:"reason"`
}

// GetSkipReason godoc
// @Summary The caller's skip reason for a restaurant
// @Tags skip-reasons
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {object} models.SkipReasonRecord
// @Failure 404 {object} common.ErrorResponse
// @Router /v1/restaurants/{id}/skip-reason [get]
func (h *SkipReasonHandlers) GetSkipReason(c echo.Context) error {
	session, ok := sessionFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	rec, err := h.skipReasons.Active(c.Request().Context(), c.Param("id"), session.Email)
	if err != nil {
		if errors.Is(err, reconciler.ErrDataUnavailable) {
			return common.SendUnavailableError(c, "Skip reasons are unavailable")
		}
		h.logger.Error("failed to read skip reason", zap.Error(err))
		return common.SendServerError(c, "Failed to read skip reason")
	}
	if rec == nil {
		return common.SendNotFoundError(c, "Skip reason")
	}
	return c.JSON(http.StatusOK, rec)
}

// SubmitSkipReason godoc
// @Summary Record why a notice was not sent
// @Description Only the first reason per restaurant and officer is kept.
// @Tags skip-reasons
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 201 {object} models.SkipReasonRecord
// @Failure 400 {object} common.ErrorResponse
// @Failure 409 {object} common.ErrorResponse
// @Router /v1/restaurants/{id}/skip-reason [post]
func (h *SkipReasonHandlers) SubmitSkipReason(c echo.Context) error {
	session, ok := sessionFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req submitSkipReasonRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	rec, err := h.skipReasons.Submit(c.Request().Context(), c.Param("id"), session.Email, req.Reason)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, rec)
	case errors.Is(err, services.ErrInvalidSkipReason):
		return common.SendValidationError(c, "reason", "must be one of: "+strings.Join(models.SkipReasons, "; "))
	case errors.Is(err, services.ErrInvalidRestaurant):
		return common.SendValidationError(c, "id", err.Error())
	case errors.Is(err, repositories.ErrSkipReasonExists):
		return common.SendConflictError(c, "A skip reason was already submitted for this restaurant")
	default:
		h.logger.Error("failed to submit skip reason", zap.Error(err))
		return common.SendServerError(c, "Failed to submit skip reason")
	}
}

// ListSkipReasons godoc
// @Summary The caller's skip reasons
// @Tags skip-reasons
// @Produce json
// @Success 200 {object} ReportResponse
// @Success 206 {object} ReportResponse
// @Router /v1/skip-reasons [get]
func (h *SkipReasonHandlers) ListSkipReasons(c echo.Context) error {
	session, ok := sessionFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	entries, err := h.skipReasons.ListForOfficer(c.Request().Context(), session.Email)
	if err != nil && entries == nil {
		if errors.Is(err, reconciler.ErrDataUnavailable) {
			return common.SendUnavailableError(c, "Skip reasons are unavailable")
		}
		h.logger.Error("failed to list skip reasons", zap.Error(err))
		return common.SendServerError(c, "Failed to list skip reasons")
	}

	return respondReport(c, h.logger, entries, err)
}
