package sweeper

import "time"

// Config controls the deleted-record audit sweep loop.
type Config struct {
	PollInterval time.Duration
	RunTimeout   time.Duration
	LockKey      string
	LockTTL      time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Minute,
		RunTimeout:   30 * time.Second,
		LockKey:      "autoscale:sweep:deleted",
		LockTTL:      time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = defaults.RunTimeout
	}
	if c.LockKey == "" {
		c.LockKey = defaults.LockKey
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	return c
}
