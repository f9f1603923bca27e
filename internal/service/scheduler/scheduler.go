package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	applogger "MarketBrief/pkg/logger"
)

// JobFunc is one scheduled unit of work.
type JobFunc func(ctx context.Context) error

// JobState is a point-in-time view of one registered job, served by the
// status endpoint.
type JobState struct {
	Name     string    `json:"name"`
	Spec     string    `json:"spec"`
	LastRun  time.Time `json:"last_run,omitempty"`
	NextRun  time.Time `json:"next_run,omitempty"`
	Runs     int       `json:"runs"`
	Failures int       `json:"failures"`
	LastErr  string    `json:"last_error,omitempty"`
}

type jobEntry struct {
	name     string
	spec     string
	fn       JobFunc
	entryID  cron.EntryID
	lastRun  time.Time
	runs     int
	failures int
	lastErr  string
}

// Scheduler runs the content slots on cron specs evaluated in the business
// timezone. Jobs run sequentially per slot; a panicking or failing job is
// recorded and never takes the scheduler down.
type Scheduler struct {
	cron    *cron.Cron
	logger  *applogger.Logger
	timeout time.Duration

	mu   sync.Mutex
	jobs map[string]*jobEntry
}

func New(loc *time.Location, l *applogger.Logger, jobTimeout time.Duration) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger:  l,
		timeout: jobTimeout,
		jobs:    make(map[string]*jobEntry),
	}
}

// Register adds a named job. An empty spec disables the slot without error
// so individual slots can be turned off in config.
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	if spec == "" {
		s.logger.Info("schedule slot disabled", applogger.String("job", name))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[name]; dup {
		return fmt.Errorf("scheduler: job %q already registered", name)
	}

	entry := &jobEntry{name: name, spec: spec, fn: fn}
	id, err := s.cron.AddFunc(spec, func() { s.run(entry) })
	if err != nil {
		return fmt.Errorf("scheduler: job %q spec %q: %w", name, spec, err)
	}
	entry.entryID = id
	s.jobs[name] = entry

	s.logger.Info("job registered",
		applogger.String("job", name),
		applogger.String("spec", spec),
	)
	return nil
}

// Start begins firing jobs. It returns immediately.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", applogger.Int("jobs", len(s.jobs)))
}

// Stop halts scheduling and waits for running jobs, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// RunNow fires a registered job outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	entry, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("scheduler: unknown job %q", name)
	}
	go s.run(entry)
	return nil
}

// Jobs lists the state of every registered job, sorted by name.
func (s *Scheduler) Jobs() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobState, 0, len(s.jobs))
	for _, e := range s.jobs {
		out = append(out, JobState{
			Name:     e.name,
			Spec:     e.spec,
			LastRun:  e.lastRun,
			NextRun:  s.cron.Entry(e.entryID).Next,
			Runs:     e.runs,
			Failures: e.failures,
			LastErr:  e.lastErr,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) run(entry *jobEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	err := entry.fn(ctx)

	s.mu.Lock()
	entry.lastRun = started
	entry.runs++
	if err != nil {
		entry.failures++
		entry.lastErr = err.Error()
	} else {
		entry.lastErr = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("job failed",
			applogger.String("job", entry.name),
			applogger.Error(err),
		)
		return
	}
	s.logger.Info("job completed",
		applogger.String("job", entry.name),
		applogger.Duration("took", time.Since(started)),
	)
}
