package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	applogger "MarketBrief/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func waitForRuns(t *testing.T, s *Scheduler, name string, want int) JobState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, js := range s.Jobs() {
			if js.Name == name && js.Runs >= want {
				return js
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached %d runs", name, want)
	return JobState{}
}

func TestRegisterAndRunNow(t *testing.T) {
	s := New(time.UTC, testLogger(t), time.Minute)

	ran := make(chan struct{}, 1)
	if err := s.Register("noon", "0 13 * * 1-5", func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := s.RunNow("noon"); err != nil {
		t.Fatalf("run now: %v", err)
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatalf("job never ran")
	}

	js := waitForRuns(t, s, "noon", 1)
	if js.Failures != 0 || js.LastErr != "" {
		t.Fatalf("state = %+v", js)
	}
	if js.LastRun.IsZero() {
		t.Fatalf("last_run not recorded")
	}
}

func TestFailureRecorded(t *testing.T) {
	s := New(time.UTC, testLogger(t), time.Minute)

	if err := s.Register("weekly", "0 18 * * 5", func(ctx context.Context) error {
		return errors.New("telegram down")
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.RunNow("weekly"); err != nil {
		t.Fatalf("run now: %v", err)
	}

	js := waitForRuns(t, s, "weekly", 1)
	if js.Failures != 1 || js.LastErr != "telegram down" {
		t.Fatalf("state = %+v", js)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	s := New(time.UTC, testLogger(t), time.Minute)

	noop := func(ctx context.Context) error { return nil }
	if err := s.Register("morning", "30 7 * * 1-5", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Register("morning", "30 7 * * 1-5", noop); err == nil {
		t.Fatalf("duplicate registration should fail")
	}
}

func TestBadSpec(t *testing.T) {
	s := New(time.UTC, testLogger(t), time.Minute)

	if err := s.Register("broken", "not a cron spec", func(ctx context.Context) error { return nil }); err == nil {
		t.Fatalf("bad spec should fail")
	}
}

func TestEmptySpecDisablesSlot(t *testing.T) {
	s := New(time.UTC, testLogger(t), time.Minute)

	if err := s.Register("monthly", "", func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("empty spec should be a no-op: %v", err)
	}
	if len(s.Jobs()) != 0 {
		t.Fatalf("disabled slot should not appear in jobs")
	}
	if err := s.RunNow("monthly"); err == nil {
		t.Fatalf("disabled slot should be unknown to RunNow")
	}
}

func TestJobsSorted(t *testing.T) {
	s := New(time.UTC, testLogger(t), time.Minute)

	noop := func(ctx context.Context) error { return nil }
	for _, name := range []string{"weekly", "morning", "noon"} {
		if err := s.Register(name, "0 12 * * *", noop); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	jobs := s.Jobs()
	if len(jobs) != 3 {
		t.Fatalf("len = %d", len(jobs))
	}
	if jobs[0].Name != "morning" || jobs[1].Name != "noon" || jobs[2].Name != "weekly" {
		t.Fatalf("order = %s, %s, %s", jobs[0].Name, jobs[1].Name, jobs[2].Name)
	}
}

func TestNextRunPopulated(t *testing.T) {
	s := New(time.UTC, testLogger(t), time.Minute)

	if err := s.Register("heartbeat", "*/5 * * * *", func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	s.Start()
	defer s.Stop(context.Background())

	jobs := s.Jobs()
	if jobs[0].NextRun.IsZero() {
		t.Fatalf("next_run should be set after start")
	}
}

func TestStopWithContext(t *testing.T) {
	s := New(time.UTC, testLogger(t), time.Minute)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
