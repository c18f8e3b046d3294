package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError reports a configuration file that could not be read or parsed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ValidationError collects every invalid setting found.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return errors.Join(e.Problems...)
}
