package config

import "errors"

// GateConfig contains the access gate credentials. The gate is a single
// shared login/password pair checked before any batch submission; it is not
// an identity system and auth hardening is explicitly out of scope.
type GateConfig struct {
	// Login is the gate username.
	Login string `env:"GATE_LOGIN"`

	// Password is the gate password.
	Password string `env:"GATE_PASSWORD"`
}

// Enabled reports whether the gate is configured. An unconfigured gate is
// only acceptable in development mode; Validate enforces that.
func (g *GateConfig) Enabled() bool {
	return g.Login != "" && g.Password != ""
}

// Validate checks the gate configuration for production use.
func (g *GateConfig) Validate(isDev bool) error {
	if !g.Enabled() && !isDev {
		return errors.New("GATE_LOGIN and GATE_PASSWORD are required outside development mode")
	}
	return nil
}
