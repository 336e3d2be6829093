package background

import (
	"context"
	"fmt"
	"sort"
	"time"

	"praenforce/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// ReportRefreshJob is the name of the periodic report refresh
const ReportRefreshJob = "report-refresh"

// Refresher is the work the scheduler runs on every tick
type Refresher interface {
	RefreshAll(ctx context.Context) (*jobs.ReportRefreshResult, error)
}

// JobScheduler runs report refreshes in the background
type JobScheduler struct {
	scheduler gocron.Scheduler
	refresher Refresher
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	// jobs is fixed at construction
	jobs map[string]gocron.Job
}

// NewJobScheduler registers the refresh job at the given interval. When
// startImmediately is set the first refresh runs as soon as Start is called.
func NewJobScheduler(refresher Refresher, interval time.Duration, startImmediately bool, logger *zap.Logger) (*JobScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLogger(zapLogger{logger.Sugar()}))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler: scheduler,
		refresher: refresher,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}

	opts := []gocron.JobOption{
		gocron.WithName(ReportRefreshJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}
	job, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.refreshReports, ctx),
		opts...,
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create %s job: %w", ReportRefreshJob, err)
	}
	js.jobs[ReportRefreshJob] = job

	logger.Info("registered background jobs", zap.Int("count", len(js.jobs)), zap.Duration("refresh_interval", interval))
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler")
	js.scheduler.Start()
}

// Stop cancels in-flight jobs and waits for them to return
func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) refreshReports(ctx context.Context) error {
	result, err := js.refresher.RefreshAll(ctx)
	if err != nil {
		js.logger.Error("scheduled report refresh failed", zap.Error(err))
		return err
	}
	js.logger.Info("scheduled report refresh completed",
		zap.Int("officers", result.OfficersProcessed),
		zap.Strings("archived", result.ArchivedKeys),
		zap.Bool("degraded", result.Degraded))
	return nil
}

// RunNow triggers a named job outside its schedule
func (js *JobScheduler) RunNow(name string) error {
	job, ok := js.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]any {
	names := make([]string, 0, len(js.jobs))
	nextRuns := make(map[string]string, len(js.jobs))
	for name, job := range js.jobs {
		names = append(names, name)
		if next, err := job.NextRun(); err == nil && !next.IsZero() {
			nextRuns[name] = next.UTC().Format(time.RFC3339)
		}
	}
	sort.Strings(names)

	return map[string]any{
		"total_jobs": len(js.jobs),
		"jobs":       names,
		"next_run":   nextRuns,
	}
}

// zapLogger adapts zap to gocron.Logger
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Debug(msg string, args ...any) { l.s.Debugw(msg, args...) }
func (l zapLogger) Error(msg string, args ...any) { l.s.Errorw(msg, args...) }
func (l zapLogger) Info(msg string, args ...any)  { l.s.Infow(msg, args...) }
func (l zapLogger) Warn(msg string, args ...any)  { l.s.Warnw(msg, args...) }
