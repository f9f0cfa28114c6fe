package services

import "fmt"

// Custom errors

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

// ConfigError marks failures caused by missing or bad configuration,
// such as an absent API credential.
type ConfigError struct{ Message string }

func (e *ConfigError) Error() string { return e.Message }

// ExtractionError wraps any content-extraction failure with the
// originating filename.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("%s: %v", e.Filename, e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// GenerationError marks failures of the external generative-text
// service, including replies that yield zero usable cards.
type GenerationError struct{ Message string }

func (e *GenerationError) Error() string { return e.Message }
