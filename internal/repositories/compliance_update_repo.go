package repositories

import (
	"context"

	"praenforce/internal/models"
)

type ComplianceUpdateRepository interface {
	Create(ctx context.Context, rec *models.ComplianceUpdateRecord) error
}

type complianceUpdateRepo struct {
	db Database
}

func NewComplianceUpdateRepo(db Database) ComplianceUpdateRepository {
	return &complianceUpdateRepo{db: db}
}

// Create appends a visit. Visits are a log; nothing is overwritten.
func (r *complianceUpdateRepo) Create(ctx context.Context, rec *models.ComplianceUpdateRecord) error {
	query := `
		INSERT INTO officer_compliance_updates (
			id, restaurant_id, officer_email, officer_id, interview_date, interview_method,
			formality_status, compliance_status, status_today, closure_reason,
			followup_required, followup_date, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.RestaurantID, rec.OfficerEmail, rec.OfficerID, rec.InterviewDate, rec.InterviewMethod,
		rec.FormalityStatus, rec.ComplianceStatus, rec.StatusToday, rec.ClosureReason,
		rec.FollowupRequired, rec.FollowupDate, rec.CreatedAt)
	return err
}
