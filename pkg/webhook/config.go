package webhook

import "time"

// Config configures an Executor from the environment.
type Config struct {
	URL     string        `env:"OFFLINEQ_WEBHOOK_URL"`
	Secret  string        `env:"OFFLINEQ_WEBHOOK_SECRET"`
	Timeout time.Duration `env:"OFFLINEQ_WEBHOOK_TIMEOUT" envDefault:"10s"`

	InitialBackoff time.Duration `env:"OFFLINEQ_WEBHOOK_INITIAL_BACKOFF" envDefault:"1s"`
	MaxBackoff     time.Duration `env:"OFFLINEQ_WEBHOOK_MAX_BACKOFF" envDefault:"5m"`
	AttemptTTL     time.Duration `env:"OFFLINEQ_WEBHOOK_ATTEMPT_TTL" envDefault:"1h"`

	FailureThreshold int           `env:"OFFLINEQ_WEBHOOK_FAILURE_THRESHOLD" envDefault:"5"`
	SuccessThreshold int           `env:"OFFLINEQ_WEBHOOK_SUCCESS_THRESHOLD" envDefault:"2"`
	RecoveryTimeout  time.Duration `env:"OFFLINEQ_WEBHOOK_RECOVERY_TIMEOUT" envDefault:"30s"`
}
