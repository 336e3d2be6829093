package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"praenforce/internal/models"
	"praenforce/internal/reconciler"
	"praenforce/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrNotAssigned        = errors.New("restaurant is not assigned to this officer")
)

// FieldError rejects a single form field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ComplianceUpdateService interface {
	Submit(ctx context.Context, session models.Session, restaurantID string, input models.ComplianceUpdateInput) (*models.ComplianceUpdateRecord, error)
	ListForRestaurant(ctx context.Context, session models.Session, restaurantID string) ([]models.ComplianceUpdateRecord, error)
}

type complianceUpdateService struct {
	repo   repositories.ComplianceUpdateRepository
	source repositories.TableSource
	logger *zap.Logger
	now    func() time.Time
}

func NewComplianceUpdateService(repo repositories.ComplianceUpdateRepository, source repositories.TableSource, logger *zap.Logger) ComplianceUpdateService {
	return &complianceUpdateService{
		repo:   repo,
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Submit validates and stores a visit. Officers may only report on restaurants
// assigned to them.
func (s *complianceUpdateService) Submit(ctx context.Context, session models.Session, restaurantID string, input models.ComplianceUpdateInput) (*models.ComplianceUpdateRecord, error) {
	restaurantID = reconciler.NormalizeIdentifier(restaurantID)
	if restaurantID == "" {
		return nil, ErrInvalidRestaurant
	}

	rec, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	restaurant, err := s.restaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if !session.CanView(restaurant.OfficerID) {
		return nil, ErrNotAssigned
	}

	rec.ID = uuid.New()
	rec.RestaurantID = restaurantID
	rec.OfficerEmail = strings.TrimSpace(session.Email)
	rec.OfficerID = restaurant.OfficerID
	rec.CreatedAt = s.now().UTC()

	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error("failed to store compliance update", zap.String("restaurant_id", restaurantID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("compliance update recorded",
		zap.String("restaurant_id", restaurantID),
		zap.String("officer_email", rec.OfficerEmail),
		zap.String("formality_status", rec.FormalityStatus),
		zap.String("status_today", rec.StatusToday))
	return rec, nil
}

func (s *complianceUpdateService) validate(input models.ComplianceUpdateInput) (*models.ComplianceUpdateRecord, error) {
	interviewDate, err := time.Parse(dateLayout, strings.TrimSpace(input.InterviewDate))
	if err != nil {
		return nil, &FieldError{Field: "interview_date", Message: "must be a date in YYYY-MM-DD form"}
	}
	rec := &models.ComplianceUpdateRecord{
		InterviewDate:    interviewDate,
		InterviewMethod:  strings.TrimSpace(input.InterviewMethod),
		FormalityStatus:  strings.TrimSpace(input.FormalityStatus),
		StatusToday:      strings.TrimSpace(input.StatusToday),
		FollowupRequired: input.FollowupRequired,
	}

	if !models.OneOf(rec.InterviewMethod, models.InterviewMethods) {
		return nil, oneOfError("interview_method", models.InterviewMethods)
	}
	if !models.OneOf(rec.FormalityStatus, models.FormalityStatuses) {
		return nil, oneOfError("formality_status", models.FormalityStatuses)
	}
	if rec.FormalityStatus == models.FormalityRegisteredAndFiling {
		rec.ComplianceStatus = strings.TrimSpace(input.ComplianceStatus)
		if !models.OneOf(rec.ComplianceStatus, models.ComplianceStatuses) {
			return nil, oneOfError("compliance_status", models.ComplianceStatuses)
		}
	}
	if !models.OneOf(rec.StatusToday, models.StatusesToday) {
		return nil, oneOfError("status_today", models.StatusesToday)
	}
	if rec.StatusToday == models.StatusTodayClosed {
		rec.ClosureReason = strings.TrimSpace(input.ClosureReason)
		if !models.OneOf(rec.ClosureReason, models.ClosureReasons) {
			return nil, oneOfError("closure_reason", models.ClosureReasons)
		}
	}
	if rec.FollowupRequired {
		followup, err := time.Parse(dateLayout, strings.TrimSpace(input.FollowupDate))
		if err != nil {
			return nil, &FieldError{Field: "followup_date", Message: "is required in YYYY-MM-DD form when a follow-up is required"}
		}
		rec.FollowupDate = &followup
	}
	return rec, nil
}

func oneOfError(field string, choices []string) error {
	return &FieldError{Field: field, Message: "must be one of: " + strings.Join(choices, "; ")}
}

func (s *complianceUpdateService) restaurant(ctx context.Context, restaurantID string) (*models.RestaurantRecord, error) {
	rows, err := s.source.Fetch(ctx, models.TableRestaurants)
	if err != nil {
		return nil, err
	}
	restaurants, _ := reconciler.NormalizeRestaurants(rows)
	for i := range restaurants {
		if restaurants[i].ID == restaurantID {
			return &restaurants[i], nil
		}
	}
	return nil, ErrRestaurantNotFound
}

// ListForRestaurant returns the visits to a restaurant, newest first. Officers
// only see visits recorded against their own assignments.
func (s *complianceUpdateService) ListForRestaurant(ctx context.Context, session models.Session, restaurantID string) ([]models.ComplianceUpdateRecord, error) {
	rows, err := s.source.Fetch(ctx, models.TableComplianceUpdates)
	if err != nil {
		return nil, err
	}
	updates, _ := reconciler.NormalizeComplianceUpdates(rows)
	visits := reconciler.ComplianceUpdatesFor(updates, reconciler.NormalizeIdentifier(restaurantID))
	if session.IsAdmin() {
		return visits, nil
	}
	out := make([]models.ComplianceUpdateRecord, 0, len(visits))
	for _, v := range visits {
		if session.CanView(v.OfficerID) {
			out = append(out, v)
		}
	}
	return out, nil
}
