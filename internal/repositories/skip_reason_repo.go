package repositories

import (
	"context"
	"errors"

	"praenforce/internal/models"
)

// ErrSkipReasonExists is returned when the officer already recorded a reason
// for the restaurant.
var ErrSkipReasonExists = errors.New("skip reason already submitted")

type SkipReasonRepository interface {
	Create(ctx context.Context, rec *models.SkipReasonRecord) error
}

type skipReasonRepo struct {
	db Database
}

func NewSkipReasonRepo(db Database) SkipReasonRepository {
	return &skipReasonRepo{db: db}
}

// Create inserts rec unless a reason already exists for the same restaurant
// and officer email.
func (r *skipReasonRepo) Create(ctx context.Context, rec *models.SkipReasonRecord) error {
	query := `
		INSERT INTO notice_skip_reasons (id, restaurant_id, officer_email, reason, timestamp)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM notice_skip_reasons
			WHERE restaurant_id = $2 AND LOWER(officer_email) = LOWER($3)
		)
	`
	tag, err := r.db.Exec(ctx, query, rec.ID, rec.RestaurantID, rec.OfficerEmail, rec.Reason, rec.Timestamp)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSkipReasonExists
	}
	return nil
}
