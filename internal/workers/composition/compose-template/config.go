// internal/workers/composition/compose-template/config.go
package composetemplate

import "time"

type Config struct {
	Timeout time.Duration
	// AlwaysValidate checks every result even when the job does not ask.
	AlwaysValidate bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
