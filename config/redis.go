package config

import "strings"

// RedisConfig contains the batch state store configuration. When Addr is
// empty the service falls back to the in-memory state store, which is only
// suitable for a single-instance development deployment.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:""`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Sanitize applies guardrails to Redis configuration values.
func (r *RedisConfig) Sanitize() {
	r.Addr = strings.TrimSpace(r.Addr)
	if r.DB < 0 {
		r.DB = 0
	}
}

// Enabled reports whether a Redis-backed state store should be used.
func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}
