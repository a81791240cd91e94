// internal/workers/content/resolve-template-variables/config.go
package resolvetemplatevariables

import "time"

type Config struct {
	Timeout time.Duration
	// Seed makes every job resolve with the same picks when non-zero.
	// Set from workers.resolve-template-variables.seed; 0 means random.
	Seed uint64
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
