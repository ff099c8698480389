package cache

// Store persists cache entries across restarts, one document per topic.
// Load returns (nil, nil) on a miss. Implementations: MemoryStore,
// SQLiteStore, RedisStore.
type Store interface {
	Load(topic string) (*Entry, error)
	Save(entry *Entry) error
	Close() error
}
