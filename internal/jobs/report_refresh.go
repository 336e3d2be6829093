package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"praenforce/internal/analytics"
	"praenforce/internal/models"
	"praenforce/internal/reconciler"
	"praenforce/internal/services"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Snapshot names used in archive keys
const (
	SnapshotWorkloads     = "workloads"
	SnapshotStatusChanges = "status-changes"
)

// ReportSource computes the reports that get refreshed
type ReportSource interface {
	Workloads(ctx context.Context, officerIDs []string) ([]models.OfficerWorkload, error)
	StatusChanges(ctx context.Context, officerID string) (models.StatusChangeReport, error)
}

// OfficerLister supplies the officers whose workloads are refreshed
type OfficerLister interface {
	OfficerIDs() []string
}

// ArchivedReport is the document written to object storage
type ArchivedReport struct {
	GeneratedAt       time.Time `json:"generated_at"`
	Degraded          bool      `json:"degraded"`
	UnavailableTables []string  `json:"unavailable_tables,omitempty"`
	Data              any       `json:"data"`
}

type ReportRefreshResult struct {
	OfficersProcessed int
	ArchivedKeys      []string
	Degraded          bool
	LastRefreshAt     time.Time
}

// ReportRefreshService recomputes reports so the cache stays warm and keeps a
// timestamped copy of each in object storage
type ReportRefreshService struct {
	reports ReportSource
	roster  OfficerLister
	archive services.ReportArchive
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportRefreshService builds the refresher. archive may be nil, in which
// case reports are only recomputed.
func NewReportRefreshService(reports ReportSource, roster OfficerLister, archive services.ReportArchive, logger *zap.Logger) *ReportRefreshService {
	return &ReportRefreshService{
		reports: reports,
		roster:  roster,
		archive: archive,
		logger:  logger,
		now:     time.Now,
	}
}

// RefreshAll recomputes every roster officer's workload and the global
// status-change report. Degraded reports are archived with their
// unavailable tables listed; a report that failed outright is skipped.
func (r *ReportRefreshService) RefreshAll(ctx context.Context) (*ReportRefreshResult, error) {
	started := r.now()
	officerIDs := r.roster.OfficerIDs()
	result := &ReportRefreshResult{
		OfficersProcessed: len(officerIDs),
		ArchivedKeys:      make([]string, 0, 2),
		LastRefreshAt:     started,
	}
	r.logger.Info("refreshing reports", zap.Int("officers", len(officerIDs)))

	var errs error

	workloads, err := r.reports.Workloads(ctx, officerIDs)
	errs = multierr.Append(errs, r.store(ctx, result, started, SnapshotWorkloads, workloads, err))

	changes, err := r.reports.StatusChanges(ctx, "")
	errs = multierr.Append(errs, r.store(ctx, result, started, SnapshotStatusChanges, changes, err))

	r.logger.Info("report refresh finished",
		zap.Int("archived", len(result.ArchivedKeys)),
		zap.Bool("degraded", result.Degraded),
		zap.Duration("took", r.now().Sub(started)),
		zap.Error(errs))

	return result, errs
}

func (r *ReportRefreshService) store(ctx context.Context, result *ReportRefreshResult, at time.Time, name string, data any, reportErr error) error {
	degraded := errors.Is(reportErr, reconciler.ErrDataUnavailable)
	if reportErr != nil && !degraded {
		return fmt.Errorf("compute %s: %w", name, reportErr)
	}
	if degraded {
		result.Degraded = true
	}
	if r.archive == nil {
		return nil
	}

	doc := ArchivedReport{
		GeneratedAt:       at.UTC(),
		Degraded:          degraded,
		UnavailableTables: analytics.UnavailableTables(reportErr),
		Data:              data,
	}
	key, err := r.archive.Archive(ctx, at, name, doc)
	if err != nil {
		r.logger.Warn("failed to archive report", zap.String("report", name), zap.Error(err))
		return fmt.Errorf("archive %s: %w", name, err)
	}
	result.ArchivedKeys = append(result.ArchivedKeys, key)
	return nil
}
