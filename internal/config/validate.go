package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Klaviyo.Mode != ModeSimple && c.Klaviyo.Mode != ModeExtended {
		return fmt.Errorf("klaviyo.mode must be %q or %q (got %q)", ModeSimple, ModeExtended, c.Klaviyo.Mode)
	}

	if c.Klaviyo.MaxAttempts < 1 {
		return fmt.Errorf("klaviyo.max_attempts must be >= 1 (got %d)", c.Klaviyo.MaxAttempts)
	}
	if c.Klaviyo.InitialBackoff <= 0 {
		return fmt.Errorf("klaviyo.initial_backoff must be > 0 (got %v)", c.Klaviyo.InitialBackoff)
	}

	if c.Sync.Hour < 0 || c.Sync.Hour > 23 {
		return fmt.Errorf("sync.hour must be between 0 and 23 (got %d)", c.Sync.Hour)
	}
	if c.Sync.RetentionDays < 1 {
		return fmt.Errorf("sync.retention_days must be >= 1 (got %d)", c.Sync.RetentionDays)
	}

	return nil
}
