// Package cmd implements the threadpipe CLI using Cobra.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/threadpipe/core"
	"github.com/gaurav-prasanna/threadpipe/core/render"
	"github.com/gaurav-prasanna/threadpipe/core/thread"
)

// options holds the parsed flags of one invocation.
type options struct {
	output      string
	title       string
	apiKey      string
	maxTweets   int
	format      string
	model       string
	baseURL     string
	timeout     time.Duration
	targetChars int
	configPath  string
	verbose     bool
	quiet       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "threadpipe <url>",
		Short: "threadpipe — turn a web article into a numbered social thread",
		Long: `threadpipe fetches a web page, extracts its readable text, summarizes it
(with an OpenAI-compatible model when a key is available, by truncation
otherwise) and splits the summary into a numbered thread with a hook post.

Examples:
  threadpipe https://go.dev/blog/go1.22
  threadpipe https://example.com/post --max-tweets 6 --title "Go 1.22"
  threadpipe https://example.com/post --format markdown --output thread.md
  OPENAI_API_KEY=sk-... threadpipe https://example.com/post --format pdf --output thread.pdf`,
		Args:          exactlyOneURL,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), opts.verbose, opts.quiet)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThread(cmd, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Write the thread to this file instead of stdout")
	f.StringVar(&opts.title, "title", "", "Override the page title used in the hook")
	f.StringVar(&opts.apiKey, "openai-api-key", "", "OpenAI API key (default $OPENAI_API_KEY); without one the summary is truncated")
	f.IntVar(&opts.maxTweets, "max-tweets", thread.DefaultPosts, fmt.Sprintf("Number of posts, %d-%d", thread.MinPosts, thread.MaxPosts))
	f.StringVarP(&opts.format, "format", "f", "text", "Output format: "+strings.Join(render.Formats, ", ")+" (pdf needs --output)")
	f.StringVar(&opts.model, "model", "", "Chat model for summarization (default gpt-3.5-turbo or $OPENAI_MODEL)")
	f.StringVar(&opts.baseURL, "openai-base-url", "", "OpenAI-compatible API base URL (default $OPENAI_BASE_URL)")
	f.DurationVar(&opts.timeout, "timeout", 0, "Fetch timeout (default 30s)")
	f.IntVar(&opts.targetChars, "target-chars", 0, "Summary length in characters; 0 derives it from the post count")
	f.StringVar(&opts.configPath, "config", "", "YAML config file (default $THREADPIPE_CONFIG)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	f.BoolVar(&opts.quiet, "quiet", false, "Disable logging")
	return cmd
}

func exactlyOneURL(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &core.InvalidInputError{Field: "arguments", Reason: fmt.Sprintf("expected exactly one URL, got %d", len(args))}
	}
	return nil
}

// setupLogging points the global logger at w. stdout stays reserved for
// the thread.
func setupLogging(w io.Writer, verbose, quiet bool) {
	level := zerolog.InfoLevel
	switch {
	case quiet:
		level = zerolog.Disabled
	case verbose:
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// Execute runs the root command and exits with the code for its error class.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(core.ExitCode(err))
	}
}
