package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError reports a request that is invalid or incomplete.
// It is always raised before any tool is run.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// ExternalToolError reports a control tool that could not be started,
// exited non-zero or ran past its deadline.
type ExternalToolError struct {
	Argv   []string
	Stderr string
	Err    error
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("command %q failed", strings.Join(e.Argv, " "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func IsExternalToolError(err error) bool {
	var te *ExternalToolError
	return errors.As(err, &te)
}
