package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sourcingdesk/newsdesk/app/news"
)

func newTestScheduler(t *testing.T, workers int) *Scheduler {
	t.Helper()

	topicCache := news.NewTopicCache(t.TempDir())
	if err := topicCache.Run(); err != nil {
		t.Fatalf("Failed to load topic configs: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		topicCache:  topicCache,
		interval:    time.Hour,
		workerCount: workers,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 10),
	}
}

// flakyTask fails every execution and signals each run.
type flakyTask struct {
	Task
	runs chan struct{}
}

func newFlakyTask() *flakyTask {
	return &flakyTask{
		Task: NewTask(TaskTypeRefreshTopic, "overseas"),
		runs: make(chan struct{}, 8),
	}
}

func (t *flakyTask) Execute(ctx context.Context) error {
	t.runs <- struct{}{}
	return errors.New("upstream unavailable")
}

func TestSchedulerRetriesFailedTask(t *testing.T) {
	s := newTestScheduler(t, 1)
	s.Start()
	defer s.Stop()

	task := newFlakyTask()
	if err := s.EnqueueTask(task); err != nil {
		t.Fatalf("Failed to enqueue task: %v", err)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-task.runs:
		case <-time.After(5 * time.Second):
			t.Fatalf("Expected run %d within retry window", i+1)
		}
	}
}

func TestSchedulerStopWithPendingRetry(t *testing.T) {
	s := newTestScheduler(t, 1)
	s.Start()

	task := newFlakyTask()
	if err := s.EnqueueTask(task); err != nil {
		t.Fatalf("Failed to enqueue task: %v", err)
	}

	select {
	case <-task.runs:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected task to execute")
	}

	// Stop while the retry is still waiting out its backoff. It must
	// return without waiting for the retry delay and without a send on a
	// closed channel.
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected Stop to return promptly with a retry pending")
	}

	if err := s.EnqueueTask(newFlakyTask()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled after Stop, got: %v", err)
	}
}
