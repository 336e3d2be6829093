package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"praenforce/internal/models"
	"praenforce/internal/reconciler"
	"praenforce/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidSkipReason = errors.New("reason is not one of the accepted skip reasons")
	ErrInvalidRestaurant = errors.New("restaurant id is required")
)

type SkipReasonService interface {
	Submit(ctx context.Context, restaurantID, officerEmail, reason string) (*models.SkipReasonRecord, error)
	Active(ctx context.Context, restaurantID, officerEmail string) (*models.SkipReasonRecord, error)
	ListForOfficer(ctx context.Context, officerEmail string) ([]models.SkipReasonEntry, error)
}

type skipReasonService struct {
	repo   repositories.SkipReasonRepository
	source repositories.TableSource
	logger *zap.Logger
	now    func() time.Time
}

func NewSkipReasonService(repo repositories.SkipReasonRepository, source repositories.TableSource, logger *zap.Logger) SkipReasonService {
	return &skipReasonService{
		repo:   repo,
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Submit records why the officer skipped a notice. Only the first submission
// per restaurant and officer is kept; later ones fail with
// repositories.ErrSkipReasonExists.
func (s *skipReasonService) Submit(ctx context.Context, restaurantID, officerEmail, reason string) (*models.SkipReasonRecord, error) {
	restaurantID = reconciler.NormalizeIdentifier(restaurantID)
	if restaurantID == "" {
		return nil, ErrInvalidRestaurant
	}
	reason = strings.TrimSpace(reason)
	if !models.IsSkipReason(reason) {
		return nil, ErrInvalidSkipReason
	}

	rec := &models.SkipReasonRecord{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		OfficerEmail: strings.TrimSpace(officerEmail),
		Reason:       reason,
		Timestamp:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if !errors.Is(err, repositories.ErrSkipReasonExists) {
			s.logger.Error("failed to store skip reason", zap.String("restaurant_id", restaurantID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("skip reason recorded",
		zap.String("restaurant_id", restaurantID),
		zap.String("officer_email", rec.OfficerEmail),
		zap.String("reason", reason))
	return rec, nil
}

// Active returns the officer's reason for the restaurant, or nil
func (s *skipReasonService) Active(ctx context.Context, restaurantID, officerEmail string) (*models.SkipReasonRecord, error) {
	rows, err := s.source.Fetch(ctx, models.TableSkipReasons)
	if err != nil {
		return nil, err
	}
	skips, _ := reconciler.NormalizeSkipReasons(rows)
	return reconciler.ActiveSkipReason(skips, restaurantID, officerEmail), nil
}

// ListForOfficer joins the officer's reasons with restaurant names. Without
// the restaurant table the entries carry ids only and the error is returned
// alongside them.
func (s *skipReasonService) ListForOfficer(ctx context.Context, officerEmail string) ([]models.SkipReasonEntry, error) {
	rows, err := s.source.Fetch(ctx, models.TableSkipReasons)
	if err != nil {
		return nil, err
	}
	skips, _ := reconciler.NormalizeSkipReasons(rows)

	restaurantRows, err := s.source.Fetch(ctx, models.TableRestaurants)
	if err != nil {
		s.logger.Warn("restaurant table unavailable for skip reason listing", zap.Error(err))
	}
	restaurants, _ := reconciler.NormalizeRestaurants(restaurantRows)

	return reconciler.SkipReasonsForOfficer(skips, restaurants, officerEmail), err
}
