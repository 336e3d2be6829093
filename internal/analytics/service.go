package analytics

import (
	"context"
	"errors"
	"time"

	"praenforce/internal/caching"
	"praenforce/internal/models"
	"praenforce/internal/reconciler"
	"praenforce/internal/repositories"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Report operations, used in cache keys
const (
	OpWorkload      = "workload"
	OpWorkloads     = "workloads"
	OpStatusChanges = "status-changes"
	OpComplianceSum = "compliance-summary"
)

const (
	DefaultReportTTL = 5 * time.Minute
	fetchTimeout     = 30 * time.Second
)

// ReportService fetches the source tables, normalizes them and runs the
// reconciler. Results computed from complete inputs are cached.
//
// When a table cannot be fetched the report is computed with zero rows for it
// and returned together with an error matching reconciler.ErrDataUnavailable.
type ReportService struct {
	source     repositories.TableSource
	cache      caching.ReportCache
	reconciler *reconciler.ComplianceReconciler
	cacheTTL   time.Duration
	logger     *zap.Logger
}

func NewReportService(source repositories.TableSource, cache caching.ReportCache, rec *reconciler.ComplianceReconciler, cacheTTL time.Duration, logger *zap.Logger) *ReportService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultReportTTL
	}
	return &ReportService{
		source:     source,
		cache:      cache,
		reconciler: rec,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Snapshot is one consistent read of the source tables
type Snapshot struct {
	Restaurants []models.RestaurantRecord
	Followups   []models.NoticeFollowupRecord
	SkipReasons []models.SkipReasonRecord
	// ComplianceUpdates are officer visits, a second source of observed status
	ComplianceUpdates []models.ComplianceUpdateRecord
	Reports           []reconciler.TableReport
	// Unavailable lists tables that were read as empty because the fetch failed
	Unavailable []string
}

// Degraded reports whether any table was unavailable
func (s *Snapshot) Degraded() bool {
	return len(s.Unavailable) > 0
}

// Load fetches and normalizes the requested tables. Fetch failures are
// collected; the returned snapshot is always usable.
func (s *ReportService) Load(ctx context.Context, tables ...string) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	snap := &Snapshot{
		Restaurants:       make([]models.RestaurantRecord, 0),
		Followups:         make([]models.NoticeFollowupRecord, 0),
		SkipReasons:       make([]models.SkipReasonRecord, 0),
		ComplianceUpdates: make([]models.ComplianceUpdateRecord, 0),
	}

	var errs error
	for _, table := range tables {
		rows, err := s.source.Fetch(ctx, table)
		if err != nil {
			s.logger.Warn("table unavailable, computing with zero rows",
				zap.String("table", table), zap.Error(err))
			snap.Unavailable = append(snap.Unavailable, table)
			errs = multierr.Append(errs, err)
			rows = nil
		}

		var report reconciler.TableReport
		switch table {
		case models.TableRestaurants:
			snap.Restaurants, report = reconciler.NormalizeRestaurants(rows)
		case models.TableNoticeFollowups:
			snap.Followups, report = reconciler.NormalizeFollowups(rows)
		case models.TableSkipReasons:
			snap.SkipReasons, report = reconciler.NormalizeSkipReasons(rows)
		case models.TableComplianceUpdates:
			snap.ComplianceUpdates, report = reconciler.NormalizeComplianceUpdates(rows)
		}
		if report.Dropped > 0 {
			s.logger.Debug("dropped rows without key", zap.String("table", table), zap.Int("dropped", report.Dropped))
		}
		snap.Reports = append(snap.Reports, report)
	}
	return snap, errs
}

// UnavailableTables lists the tables named by DataUnavailable errors in err
func UnavailableTables(err error) []string {
	tables := make([]string, 0)
	for _, e := range multierr.Errors(err) {
		var unavailable *reconciler.DataUnavailableError
		if errors.As(e, &unavailable) {
			tables = append(tables, unavailable.Table)
		}
	}
	return tables
}

// cached returns the report stored under the fingerprint of inputs, computing
// and storing it on a miss. Degraded snapshots bypass the cache entirely.
func cached[T any](ctx context.Context, s *ReportService, snap *Snapshot, op, officerID string, inputs []any, compute func() T) T {
	if s.cache == nil || snap.Degraded() {
		return compute()
	}

	fp, err := caching.Fingerprint(append([]any{op, officerID}, inputs...)...)
	if err != nil {
		s.logger.Warn("fingerprint failed", zap.String("operation", op), zap.Error(err))
		return compute()
	}
	key := caching.ReportKey(op, officerID, fp)

	var hit T
	found, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if found {
		return hit
	}

	result := compute()
	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return result
}

// Workload computes one officer's workload
func (s *ReportService) Workload(ctx context.Context, officerID string) (models.OfficerWorkload, error) {
	snap, err := s.Load(ctx, models.TableRestaurants, models.TableNoticeFollowups)
	w := cached(ctx, s, snap, OpWorkload, officerID, []any{snap.Restaurants, snap.Followups}, func() models.OfficerWorkload {
		return s.reconciler.Workload(officerID, snap.Restaurants, snap.Followups)
	})
	return w, err
}

// Workloads computes a workload per distinct officer id from a single read of
// the tables.
func (s *ReportService) Workloads(ctx context.Context, officerIDs []string) ([]models.OfficerWorkload, error) {
	snap, err := s.Load(ctx, models.TableRestaurants, models.TableNoticeFollowups)
	ws := cached(ctx, s, snap, OpWorkloads, "", []any{officerIDs, snap.Restaurants, snap.Followups}, func() []models.OfficerWorkload {
		return s.reconciler.Workloads(officerIDs, snap.Restaurants, snap.Followups)
	})
	return ws, err
}

// StatusChanges detects status changes across all restaurants, or only the
// officer's when officerID is set. The observed status is the latest of the
// follow-up rows and the officers' compliance visits.
func (s *ReportService) StatusChanges(ctx context.Context, officerID string) (models.StatusChangeReport, error) {
	snap, err := s.Load(ctx, models.TableRestaurants, models.TableNoticeFollowups, models.TableComplianceUpdates)
	restaurants := scopeToOfficer(snap.Restaurants, officerID)
	observations := reconciler.StatusObservations(snap.Followups, snap.ComplianceUpdates)
	report := cached(ctx, s, snap, OpStatusChanges, officerID, []any{restaurants, observations}, func() models.StatusChangeReport {
		return s.reconciler.StatusChanges(restaurants, observations)
	})
	return report, err
}

// ComplianceSummary splits restaurants by registration and filing status
func (s *ReportService) ComplianceSummary(ctx context.Context, officerID string) (models.ComplianceSummary, error) {
	snap, err := s.Load(ctx, models.TableRestaurants)
	summary := cached(ctx, s, snap, OpComplianceSum, officerID, []any{snap.Restaurants}, func() models.ComplianceSummary {
		return s.reconciler.ComplianceSummary(snap.Restaurants, officerID)
	})
	return summary, err
}

// Diagnostics reports unresolved references and normalization losses. It is
// never cached.
func (s *ReportService) Diagnostics(ctx context.Context) (models.Diagnostics, error) {
	snap, err := s.Load(ctx, models.TableRestaurants, models.TableNoticeFollowups, models.TableSkipReasons)
	d := reconciler.Reconcile(snap.Restaurants, snap.Followups, snap.SkipReasons)
	reconciler.MergeTableReports(&d, snap.Reports...)
	d.UnavailableTables = append(d.UnavailableTables, snap.Unavailable...)
	return d, err
}

// InvalidateCache drops every cached report
func (s *ReportService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateAll(ctx)
}

func scopeToOfficer(restaurants []models.RestaurantRecord, officerID string) []models.RestaurantRecord {
	if officerID == "" {
		return restaurants
	}
	out := make([]models.RestaurantRecord, 0)
	for _, r := range restaurants {
		if r.OfficerID == officerID {
			out = append(out, r)
		}
	}
	return out
}
