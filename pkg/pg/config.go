package pg

import "time"

type Config struct {
	ConnectionString  string        `env:"OFFLINEQ_PG_CONN_URL"`                           // ConnectionString is the connection string to the database.
	MaxOpenConns      int32         `env:"OFFLINEQ_PG_MAX_OPEN_CONNS" envDefault:"4"`      // MaxOpenConns is the maximum number of open connections to the database.
	MaxIdleConns      int32         `env:"OFFLINEQ_PG_MAX_IDLE_CONNS" envDefault:"1"`      // MaxIdleConns is the minimum number of connections kept open.
	HealthCheckPeriod time.Duration `env:"OFFLINEQ_PG_HEALTHCHECK_PERIOD" envDefault:"1m"` // HealthCheckPeriod is the period between health checks.
	MaxConnIdleTime   time.Duration `env:"OFFLINEQ_PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"OFFLINEQ_PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"OFFLINEQ_PG_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of connection attempts.
	RetryInterval time.Duration `env:"OFFLINEQ_PG_RETRY_INTERVAL" envDefault:"5s"` // RetryInterval grows linearly with each attempt.

	MigrationsTable string `env:"OFFLINEQ_PG_MIGRATIONS_TABLE" envDefault:"offlineq_schema_migrations"` // MigrationsTable stores the applied migration version.
}
