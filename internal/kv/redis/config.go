package redis

// Config holds Redis connection and key layout settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// KeyPrefix namespaces every key so ClearAll only touches this app's data
	KeyPrefix string

	// ScanBatch is the COUNT hint used when scanning keys for ClearAll
	ScanBatch int64
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "pickup",
		ScanBatch:    100,
	}
}
