package cfg

type Cfg struct {
	// HTTP server
	Port         string
	APIAccessKey string

	// Topic configuration
	TopicsDir string

	// Cache storage
	StorageBackend  string
	SQLitePath      string
	RedisAddr       string
	FreshnessWindow int // hours

	// Pipeline
	WorkerCount       int
	SchedulerInterval int // seconds
	FetchTimeout      int // seconds
	FetchRetries      int

	// Summary service
	SummaryAPIURL string
	SummaryAPIKey string
	SummaryModel  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
