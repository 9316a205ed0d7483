package httpserver

import "time"

type Config struct {
	Addr            string        `env:"OFFLINEQ_HTTP_ADDR" envDefault:":9090"`           // Addr is the address the server listens on.
	ReadTimeout     time.Duration `env:"OFFLINEQ_HTTP_READ_TIMEOUT" envDefault:"10s"`     // ReadTimeout bounds reading a request.
	WriteTimeout    time.Duration `env:"OFFLINEQ_HTTP_WRITE_TIMEOUT" envDefault:"30s"`    // WriteTimeout bounds writing a response.
	IdleTimeout     time.Duration `env:"OFFLINEQ_HTTP_IDLE_TIMEOUT" envDefault:"120s"`    // IdleTimeout bounds keep-alive waits.
	ShutdownTimeout time.Duration `env:"OFFLINEQ_HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"` // ShutdownTimeout bounds graceful shutdown.
}

// NewFromConfig creates a Server from cfg. Zero values keep the defaults.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	configOpts := make([]Option, 0, 5+len(opts))

	if cfg.Addr != "" {
		configOpts = append(configOpts, WithAddr(cfg.Addr))
	}
	if cfg.ReadTimeout > 0 {
		configOpts = append(configOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		configOpts = append(configOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		configOpts = append(configOpts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}

	return New(append(configOpts, opts...)...)
}
