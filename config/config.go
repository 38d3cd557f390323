// Package config loads threadpipe settings from an optional YAML file and
// the environment. Command-line flags are applied on top by cmd.
//
// Precedence: flag > environment > file > Default().
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/threadpipe/core"
	"github.com/gaurav-prasanna/threadpipe/core/fetch"
	"github.com/gaurav-prasanna/threadpipe/core/summarize"
	"github.com/gaurav-prasanna/threadpipe/core/thread"
)

// Environment variables read by FromEnv.
const (
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "OPENAI_BASE_URL"
	EnvModel   = "OPENAI_MODEL"
	EnvConfig  = "THREADPIPE_CONFIG"
)

// File is the configuration file schema.
type File struct {
	MaxTweets int `yaml:"maxTweets"`
	// TargetChars of 0 derives the summary length from the post count.
	TargetChars int           `yaml:"targetChars"`
	Timeout     time.Duration `yaml:"timeout"`
	Format      string        `yaml:"format"`
	Symbols     []string      `yaml:"symbols"`

	OpenAI struct {
		// APIKey is never read from the file.
		APIKey      string        `yaml:"-"`
		Model       string        `yaml:"model"`
		BaseURL     string        `yaml:"baseURL"`
		Timeout     time.Duration `yaml:"timeout"`
		Temperature float32       `yaml:"temperature"`
		MaxTokens   int           `yaml:"maxTokens"`
	} `yaml:"openai"`
}

// Default returns the built-in settings.
func Default() File {
	var f File
	f.MaxTweets = thread.DefaultPosts
	f.Timeout = fetch.DefaultTimeout
	f.Format = "text"
	f.Symbols = append([]string(nil), thread.DefaultPalette...)
	f.OpenAI.Model = summarize.DefaultModel
	f.OpenAI.Timeout = summarize.DefaultTimeout
	f.OpenAI.Temperature = summarize.DefaultTemperature
	f.OpenAI.MaxTokens = summarize.DefaultMaxTokens
	return f
}

// Load reads the YAML file at path over Default(). An empty path returns
// the defaults. A missing or malformed file is a *core.ConfigurationError.
func Load(path string) (File, error) {
	f := Default()
	if path == "" {
		return f, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return f, &core.ConfigurationError{Reason: "reading config file " + path, Err: err}
	}
	if err := decode(b, &f); err != nil {
		return f, &core.ConfigurationError{Reason: "parsing config file " + path, Err: err}
	}
	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

func decode(b []byte, f *File) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// FromEnv overlays environment settings using getenv (os.Getenv in
// production).
func (f *File) FromEnv(getenv func(string) string) {
	if v := getenv(EnvAPIKey); v != "" {
		f.OpenAI.APIKey = v
	}
	if v := getenv(EnvBaseURL); v != "" {
		f.OpenAI.BaseURL = v
	}
	if v := getenv(EnvModel); v != "" {
		f.OpenAI.Model = v
	}
}

// Validate checks the settings that cannot be fixed by a flag later.
func (f File) Validate() error {
	if err := thread.ValidatePalette(f.Symbols); err != nil {
		return err
	}
	if f.TargetChars < 0 {
		return &core.ConfigurationError{Reason: fmt.Sprintf("targetChars %d is negative", f.TargetChars)}
	}
	if f.Timeout < 0 || f.OpenAI.Timeout < 0 {
		return &core.ConfigurationError{Reason: "timeouts must not be negative"}
	}
	return nil
}
