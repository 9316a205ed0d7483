package kafka

import "time"

type Config struct {
	Brokers      []string      `env:"OFFLINEQ_KAFKA_BROKERS" envSeparator:","`
	Topic        string        `env:"OFFLINEQ_KAFKA_TOPIC"`
	WriteTimeout time.Duration `env:"OFFLINEQ_KAFKA_WRITE_TIMEOUT" envDefault:"10s"`
	RetryBackoff time.Duration `env:"OFFLINEQ_KAFKA_RETRY_BACKOFF" envDefault:"30s"`
}

// Validate reports missing brokers or topic.
func (c Config) Validate() error {
	if len(c.Brokers) == 0 {
		return ErrNoBrokers
	}
	if c.Topic == "" {
		return ErrEmptyTopic
	}
	return nil
}
