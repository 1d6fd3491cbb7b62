package assessment

import "fmt"

// ConfigError represents a missing or invalid job/application configuration.
// It is fatal to Start.
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// StateError is returned for an event that is not valid in the current state
type StateError struct {
	Op    string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, e.State)
}

// PersistError wraps a failed save. The computed result is kept and the flow waits for
// RetryPersist or BypassPersist.
type PersistError struct {
	Step  string
	Cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Step, e.Cause)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}
