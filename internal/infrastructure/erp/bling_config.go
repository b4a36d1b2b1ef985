package erp

import (
	"errors"
	"time"
)

// BlingConfig holds the connection settings for the Bling ERP API
type BlingConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Validate checks the configuration
func (c *BlingConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("bling: base URL is required")
	}
	if c.APIKey == "" {
		return errors.New("bling: API key is required")
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}
