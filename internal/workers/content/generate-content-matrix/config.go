// internal/workers/content/generate-content-matrix/config.go
package generatecontentmatrix

import "time"

type Config struct {
	// Timeout bounds the whole job, generation included. The backend call has
	// no deadline of its own.
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
