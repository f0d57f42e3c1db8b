package flowrunner

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runner settings.
type Config struct {
	// CancelDeadline is how long a deferred cancellation (waitForCancel)
	// waits for a late backend outcome before delivering cancel.
	CancelDeadline time.Duration `env:"PAYFLOW_CANCEL_DEADLINE" envDefault:"30s"`
	// EventBuffer is the capacity of the inbound event channel.
	EventBuffer int `env:"PAYFLOW_EVENT_BUFFER" envDefault:"16"`
}

// LoadConfig loads runner settings from the environment. A .env file is
// loaded best-effort first; missing files are fine.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		CancelDeadline: 30 * time.Second,
		EventBuffer:    16,
	}
}
