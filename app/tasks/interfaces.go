package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. Used by the main application and the API handlers to manage
// topic refresh processing.
// Example usage:
//
//	scheduler := NewScheduler(topicCache, aggregator, summarizer, freshCache)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewRefreshTopicTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
