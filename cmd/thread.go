// Package cmd — thread pipeline.
// Runs one URL through the linear chain:
// fetch → extract → summarize → assemble → render → write.
//
// Flags are validated before anything touches the network.
package cmd

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/threadpipe/config"
	"github.com/gaurav-prasanna/threadpipe/core"
	"github.com/gaurav-prasanna/threadpipe/core/chunk"
	"github.com/gaurav-prasanna/threadpipe/core/extract"
	"github.com/gaurav-prasanna/threadpipe/core/fetch"
	"github.com/gaurav-prasanna/threadpipe/core/llm"
	"github.com/gaurav-prasanna/threadpipe/core/normalize"
	"github.com/gaurav-prasanna/threadpipe/core/output"
	"github.com/gaurav-prasanna/threadpipe/core/render"
	"github.com/gaurav-prasanna/threadpipe/core/summarize"
	"github.com/gaurav-prasanna/threadpipe/core/thread"
)

// charsPerPost sizes the default summary so each body post stays under
// the post limit once its symbol and marker are added.
const charsPerPost = 220

func runThread(cmd *cobra.Command, opts *options, rawURL string) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	// --- Validate inputs ---
	if err := thread.ValidatePostCount(cfg.MaxTweets); err != nil {
		return err
	}
	if _, err := fetch.ValidateURL(rawURL); err != nil {
		return err
	}
	renderer, err := render.New(cfg.Format)
	if err != nil {
		return err
	}
	if render.IsBinary(renderer) && opts.output == "" {
		return &core.InvalidInputError{Field: "output", Reason: cfg.Format + " output needs --output"}
	}
	if opts.output != "" {
		if ext := filepath.Ext(opts.output); !strings.EqualFold(ext, renderer.Extension()) {
			log.Warn().
				Str("output", opts.output).
				Str("format", cfg.Format).
				Msgf("output file extension %q does not match %s", ext, renderer.Extension())
		}
	}
	targetChars := cfg.TargetChars
	if targetChars == 0 {
		targetChars = (cfg.MaxTweets - 1) * charsPerPost
	}

	ctx := cmd.Context()

	// 1. Fetch
	result, err := fetch.New(fetch.WithTimeout(cfg.Timeout)).Fetch(ctx, rawURL)
	if err != nil {
		return err
	}

	// 2. Extract
	parsed, _ := url.Parse(result.URL)
	normalizer := &normalize.MarkdownNormalizer{Domain: parsed.Scheme + "://" + parsed.Host}
	doc, err := extract.New(extract.WithNormalizer(normalizer)).Extract(result.HTML, result.URL)
	if err != nil {
		return err
	}
	if t := chunk.CollapseSpace(opts.title); t != "" {
		doc.Title = t
	}

	// 3. Summarize
	sum, err := newSummarizer(cfg).Summarize(ctx, doc, targetChars, cfg.MaxTweets-1)
	if err != nil {
		return err
	}

	// 4. Assemble
	th, err := thread.Assemble(sum, doc.Title, cfg.MaxTweets, cfg.Symbols)
	if err != nil {
		return err
	}
	for _, p := range th {
		if n := chunk.Len(p.String()); n > thread.MaxPostChars {
			log.Warn().Int("post", p.Index).Int("chars", n).Msgf("post is longer than %d characters", thread.MaxPostChars)
		}
	}
	log.Info().
		Str("url", result.URL).
		Str("extraction", string(doc.ExtractionMethod)).
		Str("summary", string(sum.Method)).
		Int("posts", len(th)).
		Msg("thread assembled")

	meta := core.ThreadMeta{
		URL:              result.URL,
		Domain:           parsed.Host,
		Title:            doc.Title,
		Language:         doc.Language,
		ExtractionMethod: doc.ExtractionMethod,
		SummaryMethod:    sum.Method,
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	// 5. Render and write
	data, err := renderer.Render(th, meta)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	w := output.New(cmd.OutOrStdout())
	path, err := w.Write(data, opts.output)
	if err != nil {
		// The thread is still shown on the console before failing.
		if text, terr := render.NewTextRenderer().Render(th, meta); terr == nil {
			_, _ = w.Write(text, "")
		}
		return err
	}
	if path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	}
	return nil
}

// resolveConfig merges the config file, the environment and the flags that
// were set explicitly.
func resolveConfig(cmd *cobra.Command, opts *options) (config.File, error) {
	path := opts.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.FromEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("max-tweets") {
		cfg.MaxTweets = opts.maxTweets
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if flags.Changed("target-chars") {
		if opts.targetChars < 0 {
			return cfg, &core.InvalidInputError{Field: "target chars", Reason: fmt.Sprintf("%d must not be negative", opts.targetChars)}
		}
		cfg.TargetChars = opts.targetChars
	}
	if opts.apiKey != "" {
		cfg.OpenAI.APIKey = opts.apiKey
	}
	if opts.model != "" {
		cfg.OpenAI.Model = opts.model
	}
	if opts.baseURL != "" {
		cfg.OpenAI.BaseURL = opts.baseURL
	}
	return cfg, nil
}

// newSummarizer selects the generative strategy when an API key is known.
func newSummarizer(cfg config.File) *summarize.Summarizer {
	var client llm.Client
	if cfg.OpenAI.APIKey != "" {
		client = llm.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	} else {
		log.Debug().Msg("no OpenAI API key, summarizing by truncation")
	}
	return summarize.New(client,
		summarize.WithModel(cfg.OpenAI.Model),
		summarize.WithTemperature(cfg.OpenAI.Temperature),
		summarize.WithMaxTokens(cfg.OpenAI.MaxTokens),
		summarize.WithTimeout(cfg.OpenAI.Timeout),
	)
}
