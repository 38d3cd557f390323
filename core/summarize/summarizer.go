// Package summarize implements the Summarizer interface.
//
// With a generative client configured, the document is sent to the model
// with a fixed instruction template. Any service failure (auth, quota,
// timeout, empty reply) is logged and the local truncation strategy is used
// instead, so Summarize only fails on unusable input.
package summarize

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/gaurav-prasanna/threadpipe/core"
	"github.com/gaurav-prasanna/threadpipe/core/chunk"
	"github.com/gaurav-prasanna/threadpipe/core/llm"
)

const (
	DefaultModel       = openai.GPT3Dot5Turbo
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 400
	DefaultTimeout     = 60 * time.Second

	// maxPromptChars bounds how much of the document is sent to the model.
	maxPromptChars = 24000

	systemPrompt = "You turn long articles into short, plain-text social media threads. " +
		"Write in the article's language. No hashtags, no numbering, no markdown."
)

// Summarizer condenses documents, preferring a generative model when one
// is configured.
type Summarizer struct {
	client      llm.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithModel sets the chat model name.
func WithModel(model string) Option {
	return func(s *Summarizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(s *Summarizer) {
		s.temperature = t
	}
}

// WithMaxTokens caps the model's reply length.
func WithMaxTokens(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithTimeout bounds a single model call.
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Summarizer. A nil client selects the truncation strategy
// for every call.
func New(client llm.Client, opts ...Option) *Summarizer {
	s := &Summarizer{
		client:      client,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize returns a summary of doc no longer than targetChars characters.
// paragraphs is the number of thread posts the summary will be spread over.
// The returned text is never empty when doc.BodyText is not.
func (s *Summarizer) Summarize(ctx context.Context, doc core.SourceDocument, targetChars int, paragraphs int) (core.Summary, error) {
	if targetChars <= 0 {
		return core.Summary{}, &core.InvalidInputError{Field: "target chars", Reason: fmt.Sprintf("%d must be positive", targetChars)}
	}
	if strings.TrimSpace(doc.BodyText) == "" {
		return core.Summary{}, &core.InvalidInputError{Field: "document", Reason: "empty body text"}
	}

	if s.client != nil {
		text, err := s.generate(ctx, doc, targetChars, paragraphs)
		if err == nil {
			if out := Truncate(text, targetChars); out != "" {
				log.Debug().Str("model", s.model).Int("chars", chunk.Len(out)).Msg("generative summary")
				return core.Summary{Text: out, Method: core.GenerativeModel}, nil
			}
			err = fmt.Errorf("model reply empty after cleanup")
		}
		log.Warn().
			Err(&core.SummarizationError{Err: err}).
			Str("model", s.model).
			Msg("generative summary failed, falling back to truncation")
	}

	out := Truncate(doc.BodyText, targetChars)
	log.Debug().Int("chars", chunk.Len(out)).Int("target", targetChars).Msg("truncated summary")
	return core.Summary{Text: out, Method: core.Truncation}, nil
}

func (s *Summarizer) generate(ctx context.Context, doc core.SourceDocument, targetChars, paragraphs int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(doc, targetChars, paragraphs)},
		},
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	text := cleanReply(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("chat completion returned empty content")
	}
	return text, nil
}

// buildPrompt fills the fixed instruction template. The Markdown rendering
// of the article is preferred over plain text when the extractor made one.
func buildPrompt(doc core.SourceDocument, targetChars, paragraphs int) string {
	if paragraphs < 1 {
		paragraphs = 1
	}
	body := doc.Markdown
	if body == "" {
		body = doc.BodyText
	}
	if chunk.Len(body) > maxPromptChars {
		body = string([]rune(body)[:maxPromptChars])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following into %d short paragraphs suitable for a social thread. ", paragraphs)
	fmt.Fprintf(&b, "Keep the whole summary under %d characters and end every paragraph with a full sentence.\n\n", targetChars)
	if doc.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n\n", doc.Title)
	}
	b.WriteString(body)
	return b.String()
}

// listMarker matches bullets and numbering the model may add despite the
// instructions; "1." alone would otherwise read as a sentence.
var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d{1,2}[.)]|\d{1,2}/\d{1,2})\s+`)

func cleanReply(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = listMarker.ReplaceAllString(line, "")
		line = strings.Trim(line, " \t*_#")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
