package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcingdesk/newsdesk/app/cache"
	"github.com/sourcingdesk/newsdesk/app/cfg"
	"github.com/sourcingdesk/newsdesk/app/news"
	"github.com/sourcingdesk/newsdesk/app/summary"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	topicCache  *news.TopicCache
	aggregator  *news.Aggregator
	summarizer  summary.Summarizer
	freshCache  *cache.Cache
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(topicCache *news.TopicCache, aggregator *news.Aggregator,
	summarizer summary.Summarizer, freshCache *cache.Cache) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		topicCache:  topicCache,
		aggregator:  aggregator,
		summarizer:  summarizer,
		freshCache:  freshCache,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueDueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
			}
		}
	}()
}

// Stop cancels all workers and pending retries and waits for them to
// finish. The task queue is never closed; workers exit on context
// cancellation, so a late EnqueueTask errors instead of panicking.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueDueTasks schedules a refresh for every enabled topic whose cache
// entry is missing or past the freshness window.
func (s *Scheduler) enqueueDueTasks() {
	topicConfigs := s.topicCache.GetEnabledConfigs()
	if len(topicConfigs) == 0 {
		slog.Debug("No enabled topic configurations found")
		return
	}

	for _, topicConfig := range topicConfigs {
		if !s.freshCache.NeedsRefresh(topicConfig.Name, topicConfig.Settings.GetRefreshInterval()) {
			slog.Debug("Topic refreshed recently, skipping", "topic", topicConfig.Name)
			continue
		}

		task := NewRefreshTopicTask(topicConfig.Name, topicConfig, s.aggregator, s.summarizer, s.freshCache)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue RefreshTopicTask", "topic", topicConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "topic", task.GetTopicName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			// Tracked in the WaitGroup so Stop waits out in-flight retries
			// before returning.
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()

				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				case <-time.After(retryDelay):
				}

				if retryErr := s.EnqueueTask(task); retryErr != nil {
					slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
