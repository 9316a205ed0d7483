// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: an
// optional .env file is read once, then Load parses the environment into any
// struct annotated with `env` tags. Each configuration type is parsed once per
// process and served from cache afterwards; ResetCache forces a reparse,
// which is mainly useful in tests.
//
//	var cfg queue.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// LoadEnv reads explicit .env files before the first Load. Values already
// present in the process environment take precedence over file values.
package config
