package config

import (
	"errors"
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Executable) == "" {
		return errors.New("server.executable must be set")
	}
	if c.Timeouts.GraceSeconds <= 0 {
		return errors.New("timeouts.grace_seconds must be positive")
	}
	if c.Timeouts.DrainJoinSeconds <= 0 {
		return errors.New("timeouts.drain_join_seconds must be positive")
	}
	if c.Timeouts.RequestSeconds < 0 {
		return errors.New("timeouts.request_seconds must not be negative")
	}
	if c.Protocol.MaxLineBytes <= 0 {
		return errors.New("protocol.max_line_bytes must be positive")
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
