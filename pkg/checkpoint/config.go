package checkpoint

import "time"

type Config struct {
	Interval    time.Duration `env:"OFFLINEQ_AUTOSAVE_INTERVAL" envDefault:"1m"`
	SaveTimeout time.Duration `env:"OFFLINEQ_AUTOSAVE_TIMEOUT" envDefault:"10s"`
}
