package handlers

import (
	"errors"
	"net/http"

	"praenforce/internal/common"
	"praenforce/internal/models"
	"praenforce/internal/reconciler"
	"praenforce/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ComplianceUpdateHandlers records officers' weekly compliance visits
type ComplianceUpdateHandlers struct {
	updates services.ComplianceUpdateService
	logger  *zap.Logger
}

func NewComplianceUpdateHandlers(updates services.ComplianceUpdateService, logger *zap.Logger) *ComplianceUpdateHandlers {
	return &ComplianceUpdateHandlers{updates: updates, logger: logger}
}

func (h *ComplianceUpdateHandlers) RegisterRoutes(g *echo.Group) {
	g.POST("/restaurants/:id/compliance-update", h.SubmitComplianceUpdate)
	g.GET("/restaurants/:id/compliance-updates", h.ListComplianceUpdates)
}

// SubmitComplianceUpdate godoc
// @Summary Record a compliance visit
// @Description compliance_status is required only for "Registered & Filing" and closure_reason only when the restaurant is Closed.
// @Tags compliance-updates
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID"
// @Param update body models.ComplianceUpdateInput true "Visit form"
// @Success 201 {object} models.ComplianceUpdateRecord
// @Failure 400 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Failure 503 {object} common.ErrorResponse
// @Router /v1/restaurants/{id}/compliance-update [post]
func (h *ComplianceUpdateHandlers) SubmitComplianceUpdate(c echo.Context) error {
	session, ok := sessionFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var input models.ComplianceUpdateInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	rec, err := h.updates.Submit(c.Request().Context(), session, c.Param("id"), input)
	var fieldErr *services.FieldError
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, rec)
	case errors.As(err, &fieldErr):
		return common.SendValidationError(c, fieldErr.Field, fieldErr.Message)
	case errors.Is(err, services.ErrInvalidRestaurant):
		return common.SendValidationError(c, "id", err.Error())
	case errors.Is(err, services.ErrRestaurantNotFound):
		return common.SendNotFoundError(c, "Restaurant")
	case errors.Is(err, services.ErrNotAssigned):
		return common.SendForbiddenError(c, "Restaurant is not assigned to you")
	case errors.Is(err, reconciler.ErrDataUnavailable):
		return common.SendUnavailableError(c, "Restaurant data is unavailable")
	default:
		h.logger.Error("failed to submit compliance update", zap.Error(err))
		return common.SendServerError(c, "Failed to submit compliance update")
	}
}

// ListComplianceUpdates godoc
// @Summary Compliance visits to a restaurant, newest first
// @Tags compliance-updates
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {array} models.ComplianceUpdateRecord
// @Failure 503 {object} common.ErrorResponse
// @Router /v1/restaurants/{id}/compliance-updates [get]
func (h *ComplianceUpdateHandlers) ListComplianceUpdates(c echo.Context) error {
	session, ok := sessionFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	visits, err := h.updates.ListForRestaurant(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		if errors.Is(err, reconciler.ErrDataUnavailable) {
			return common.SendUnavailableError(c, "Compliance updates are unavailable")
		}
		h.logger.Error("failed to list compliance updates", zap.Error(err))
		return common.SendServerError(c, "Failed to list compliance updates")
	}
	return c.JSON(http.StatusOK, visits)
}
