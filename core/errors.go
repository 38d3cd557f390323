package core

import (
	"errors"
	"fmt"
)

// InvalidInputError reports a bad URL, an out-of-range post count or
// another rejected argument. Nothing has been fetched when it is returned.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FetchError reports a network failure, a non-2xx status or a timeout.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError means no level of the extraction chain produced text.
type ExtractionError struct {
	URL    string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %s", e.URL, e.Reason)
}

// ConfigurationError reports unusable settings such as an empty palette.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}
	return "configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IOError reports a failure writing the output file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// SummarizationError wraps a generative service failure. The summarizer
// never returns it; it is logged and the truncation strategy takes over.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarization: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// Exit codes returned by the CLI for each fatal error class.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitInvalidInput  = 2
	ExitFetch         = 3
	ExitExtraction    = 4
	ExitConfiguration = 5
	ExitIO            = 6
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		invalid *InvalidInputError
		fetch   *FetchError
		extract *ExtractionError
		conf    *ConfigurationError
		ioErr   *IOError
	)
	switch {
	case errors.As(err, &invalid):
		return ExitInvalidInput
	case errors.As(err, &fetch):
		return ExitFetch
	case errors.As(err, &extract):
		return ExitExtraction
	case errors.As(err, &conf):
		return ExitConfiguration
	case errors.As(err, &ioErr):
		return ExitIO
	default:
		return ExitFailure
	}
}
