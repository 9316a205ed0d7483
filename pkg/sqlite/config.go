package sqlite

import "time"

type Config struct {
	// Path is the database file. ":memory:" creates a private in-memory database.
	Path        string        `env:"OFFLINEQ_SQLITE_PATH" envDefault:"./data/offlineq.db"`
	BusyTimeout time.Duration `env:"OFFLINEQ_SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
}
