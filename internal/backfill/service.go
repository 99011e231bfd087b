package backfill

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fortuna/gridiron/internal/ingest/espn"
	"github.com/fortuna/gridiron/internal/store"
)

// Request represents a backfill invocation request.
type Request struct {
	Season  int
	Week    *int
	GameIDs []string
	Pending bool
	DryRun  bool
}

// DeriveType infers the job type based on populated fields.
func (r Request) DeriveType() (JobType, error) {
	if len(r.GameIDs) > 0 {
		return JobTypeGame, nil
	}
	if r.Pending {
		return JobTypePending, nil
	}
	if r.Season != 0 && r.Week != nil {
		return JobTypeWeek, nil
	}
	if r.Season != 0 {
		return JobTypeSeason, nil
	}
	return "", fmt.Errorf("unable to determine job type from request")
}

// Service coordinates job persistence, execution, and status reporting.
type Service struct {
	repo   *Repository
	runner *Runner

	historyLimit int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(db *store.Database, ingester *espn.Ingester, logger *log.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = log.New(log.Writer(), "[backfill] ", log.LstdFlags)
	}

	return &Service{
		repo:         NewRepository(db),
		runner:       NewRunner(db, ingester),
		historyLimit: 10,
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger,
	}
}

// Start launches the background worker loop.
func (s *Service) Start() {
	if err := s.repo.ResetStuckJobs(s.ctx); err != nil {
		s.logger.Printf("failed to reset jobs: %v", err)
	}

	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops the worker and waits for completion.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Enqueue creates a new job from the provided request.
func (s *Service) Enqueue(ctx context.Context, req Request) (*Job, error) {
	jobType, err := req.DeriveType()
	if err != nil {
		return nil, err
	}

	job := &Job{
		JobType:       jobType,
		Status:        JobStatusQueued,
		StatusMessage: sql.NullString{String: "Queued", Valid: true},
	}

	switch jobType {
	case JobTypeGame:
		job.GameIDs = req.GameIDs
		job.ProgressTotal = len(req.GameIDs)
	case JobTypeWeek:
		job.Season = sql.NullInt32{Int32: int32(req.Season), Valid: true}
		job.Week = sql.NullInt32{Int32: int32(*req.Week), Valid: true}
	case JobTypeSeason:
		job.Season = sql.NullInt32{Int32: int32(req.Season), Valid: true}
	case JobTypePending:
		// Work set resolved at run time.
	}

	stored, err := s.repo.CreateJob(ctx, job)
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// GetStatus returns the currently running job plus recent history.
func (s *Service) GetStatus(ctx context.Context) (*StatusSummary, error) {
	active, err := s.repo.GetActiveJob(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListRecentJobs(ctx, s.historyLimit)
	if err != nil {
		return nil, err
	}

	return &StatusSummary{
		ActiveJob: active,
		History:   history,
	}, nil
}

// GetJob returns one job by ID.
func (s *Service) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return s.repo.GetJob(ctx, jobID)
}

func (s *Service) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
			job, err := s.repo.MarkNextJobRunning(s.ctx)
			if err != nil {
				s.logger.Printf("claim job error: %v", err)
				time.Sleep(time.Second)
				continue
			}
			if job == nil {
				select {
				case <-s.ctx.Done():
					return
				case <-ticker.C:
					continue
				}
			}

			s.executeJob(job)
		}
	}
}

func (s *Service) executeJob(job *Job) {
	spec, err := s.buildSpec(job)
	if err != nil {
		s.logger.Printf("invalid job spec %s: %v", job.JobID, err)
		_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusFailed, "Invalid job specification", err)
		return
	}

	reporter := &jobReporter{
		ctx:    s.ctx,
		repo:   s.repo,
		jobID:  job.JobID,
		logger: s.logger,
	}

	if err := s.runner.Run(s.ctx, spec, reporter); err != nil {
		_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusFailed, "Job failed", err)
		return
	}

	_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusCompleted, "Job completed", nil)
}

func (s *Service) buildSpec(job *Job) (JobSpec, error) {
	spec := JobSpec{Type: job.JobType}

	switch job.JobType {
	case JobTypeGame:
		if len(job.GameIDs) == 0 {
			return spec, fmt.Errorf("game job missing game_ids")
		}
		spec.GameIDs = job.GameIDs
	case JobTypeWeek:
		if !job.Season.Valid || !job.Week.Valid {
			return spec, fmt.Errorf("week job missing season/week")
		}
		spec.Season = int(job.Season.Int32)
		spec.Week = int(job.Week.Int32)
	case JobTypeSeason:
		if !job.Season.Valid {
			return spec, fmt.Errorf("season job missing season")
		}
		spec.Season = int(job.Season.Int32)
	case JobTypePending:
		// Nothing to carry over.
	default:
		return spec, fmt.Errorf("unknown job type %s", job.JobType)
	}

	return spec, nil
}

type jobReporter struct {
	ctx    context.Context
	repo   *Repository
	jobID  string
	logger *log.Logger
}

func (r *jobReporter) OnJobStart(spec JobSpec) {
	_ = r.repo.UpdateProgress(r.ctx, r.jobID, 0, 0, "Job starting")
}

func (r *jobReporter) OnGameStart(externalID string, index int, total int) {
	msg := fmt.Sprintf("Processing game %s (%d/%d)", externalID, index+1, total)
	_ = r.repo.UpdateProgress(r.ctx, r.jobID, index, total, msg)
}

func (r *jobReporter) OnGameDone(externalID string, playsStored int) {
	r.logger.Printf("✓ game %s: %d plays stored", externalID, playsStored)
}

func (r *jobReporter) OnGameFailed(externalID string, err error) {
	r.logger.Printf("❌ game %s: %v", externalID, err)
}

func (r *jobReporter) OnProgress(message string, current int, total int) {
	_ = r.repo.UpdateProgress(r.ctx, r.jobID, current, total, message)
}

func (r *jobReporter) OnJobComplete() {
	// Final status is written by the service.
}

func (r *jobReporter) OnJobError(err error) {
	r.logger.Printf("job %s error: %v", r.jobID, err)
}
