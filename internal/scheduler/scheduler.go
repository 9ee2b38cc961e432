package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HAAN6892/real-estate-monitor/internal/ingest"
)

// JobType represents the different collection jobs
type JobType int

const (
	JobTypeSales JobType = iota
	JobTypeLeases
	JobTypeCommute
)

// String returns the string representation of a JobType
func (j JobType) String() string {
	switch j {
	case JobTypeSales:
		return "sales"
	case JobTypeLeases:
		return "leases"
	case JobTypeCommute:
		return "commute"
	default:
		return "unknown"
	}
}

// Scheduler manages periodic data collection and snapshot refreshes.
// Sale trades refresh hourly; lease contracts and the commute table refresh
// at midnight when the transit API quota resets.
type Scheduler struct {
	collector    *ingest.Collector
	onRefresh    func() error
	onPolicy     func()
	logger       *logrus.Logger
	stopChan     chan struct{}
	wg           sync.WaitGroup
	jobMutex     sync.Mutex // Ensures sequential job execution
	isStartupRun bool       // Tracks whether we're in startup run
}

// NewScheduler creates a new scheduler. onRefresh is invoked after every
// collection round so the serving snapshot picks up the new records.
func NewScheduler(collector *ingest.Collector, onRefresh func() error, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		collector:    collector,
		onRefresh:    onRefresh,
		logger:       logger,
		stopChan:     make(chan struct{}),
		isStartupRun: true, // Initialize as true for startup
	}
}

// SetPolicyCheck registers a hook run at startup and with the midnight
// jobs, for the press-release policy monitor.
func (s *Scheduler) SetPolicyCheck(fn func()) {
	s.onPolicy = fn
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

// runScheduler handles all scheduled tasks
func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	// Run startup jobs in a separate goroutine
	go func() {
		s.jobMutex.Lock()
		defer s.jobMutex.Unlock()
		s.logger.Info("Running startup collection jobs")
		s.runJob(JobTypeSales)
		s.runJob(JobTypeLeases)
		s.runJob(JobTypeCommute)
		s.refreshSnapshot()
		s.runPolicyCheck()
		s.isStartupRun = false // Mark startup as complete
		s.logger.Info("Startup collection jobs completed")
	}()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case t := <-ticker.C:
			s.executeScheduledJobs(t)
		}
	}
}

// executeScheduledJobs runs all jobs that are scheduled for the given time
func (s *Scheduler) executeScheduledJobs(t time.Time) {
	// Skip if we're still running startup jobs
	if s.isStartupRun {
		s.logger.Debug("Skipping scheduled jobs while startup is in progress")
		return
	}

	if t.Minute() != 0 {
		return
	}

	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	// Lease contracts and commute times at midnight
	if t.Hour() == 0 {
		s.runJob(JobTypeLeases)
		s.runJob(JobTypeCommute)
		s.runPolicyCheck()
	}

	// Sale trades every hour
	s.runJob(JobTypeSales)
	s.refreshSnapshot()
}

// runJob executes one collection job with logging
func (s *Scheduler) runJob(job JobType) {
	logger := s.logger.WithField("job_type", job.String())
	logger.Info("Starting collection job")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var err error
	switch job {
	case JobTypeSales:
		err = s.collector.CollectSales(ctx)
	case JobTypeLeases:
		err = s.collector.CollectLeases(ctx)
	case JobTypeCommute:
		err = s.collector.UpdateCommutes(ctx)
	}

	if err != nil {
		logger.WithError(err).Error("Collection job failed")
		return
	}
	logger.Info("Collection job completed successfully")
}

// refreshSnapshot rebuilds the serving snapshot after a collection round.
// Records pass through the queue asynchronously, so give the processors a
// moment to drain before rebuilding.
func (s *Scheduler) refreshSnapshot() {
	if s.onRefresh == nil {
		return
	}

	time.Sleep(2 * time.Second)
	if err := s.onRefresh(); err != nil {
		s.logger.WithError(err).Error("Snapshot refresh failed")
		return
	}
	s.logger.Info("Snapshot refreshed")
}

func (s *Scheduler) runPolicyCheck() {
	if s.onPolicy == nil {
		return
	}
	s.onPolicy()
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
