package mongo

import "time"

type Config struct {
	ConnectionURL   string        `env:"OFFLINEQ_MONGODB_URL"`                                 // ConnectionURL is the URL of the database.
	Database        string        `env:"OFFLINEQ_MONGODB_DATABASE" envDefault:"offlineq"`      // Database holds the queue collection.
	Collection      string        `env:"OFFLINEQ_MONGODB_COLLECTION" envDefault:"queues"`      // Collection stores one document per queue.
	ConnectTimeout  time.Duration `env:"OFFLINEQ_MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`    // ConnectTimeout is the timeout for connecting to the database.
	MaxPoolSize     uint64        `env:"OFFLINEQ_MONGODB_MAX_POOL_SIZE" envDefault:"10"`       // MaxPoolSize is the maximum number of connections in the pool.
	MinPoolSize     uint64        `env:"OFFLINEQ_MONGODB_MIN_POOL_SIZE" envDefault:"1"`        // MinPoolSize is the minimum number of connections in the pool.
	MaxConnIdleTime time.Duration `env:"OFFLINEQ_MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryWrites     bool          `env:"OFFLINEQ_MONGODB_RETRY_WRITES" envDefault:"true"`
	RetryReads      bool          `env:"OFFLINEQ_MONGODB_RETRY_READS" envDefault:"true"`
	RetryAttempts   int           `env:"OFFLINEQ_MONGODB_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of connection attempts.
	RetryInterval   time.Duration `env:"OFFLINEQ_MONGODB_RETRY_INTERVAL" envDefault:"5s"` // RetryInterval is the pause between connection attempts.
}
