package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"OFFLINEQ_REDIS_URL" envDefault:"redis://localhost:6379/0"` // ConnectionURL is in the format "redis://:password@localhost:6379/0"
	KeyPrefix      string        `env:"OFFLINEQ_REDIS_KEY_PREFIX" envDefault:"offlineq:"`        // KeyPrefix is prepended to every queue name.
	TTL            time.Duration `env:"OFFLINEQ_REDIS_TTL" envDefault:"0s"`                      // TTL expires stored queues; zero keeps them forever.
	RetryAttempts  int           `env:"OFFLINEQ_REDIS_RETRY_ATTEMPTS" envDefault:"3"`            // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"OFFLINEQ_REDIS_RETRY_INTERVAL" envDefault:"5s"`           // RetryInterval is the pause between connection attempts.
	ConnectTimeout time.Duration `env:"OFFLINEQ_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`         // ConnectTimeout bounds the whole connection procedure.
}
