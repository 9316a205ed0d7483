package queue

import "time"

// Config holds scheduler settings loaded from the environment.
type Config struct {
	MaxConcurrentOperations int           `env:"OFFLINEQ_MAX_CONCURRENT_OPERATIONS" envDefault:"0"`
	WaitBetweenOperations   time.Duration `env:"OFFLINEQ_WAIT_BETWEEN_OPERATIONS" envDefault:"0s"`
	RescanOnReconnect       bool          `env:"OFFLINEQ_RESCAN_ON_RECONNECT" envDefault:"false"`
	LoadTimeout             time.Duration `env:"OFFLINEQ_LOAD_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout         time.Duration `env:"OFFLINEQ_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		LoadTimeout:     30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}
