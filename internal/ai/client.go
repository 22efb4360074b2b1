// Package ai shapes prompts for, and parses replies from, the generative
// language service behind the vault's security analysis, summaries and chat.
//
// Every entry point swallows service errors: failures are logged and turned
// into nil or a fixed reply so callers never handle transport errors.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/lovincyrus/darkcyber-vault/internal/config"
	"github.com/lovincyrus/darkcyber-vault/internal/crypto"
	"github.com/lovincyrus/darkcyber-vault/internal/logging"
	"github.com/lovincyrus/darkcyber-vault/internal/metrics"
)

const (
	analysisPreviewLen = 1000
	summaryPreviewLen  = 2000
)

// Options selects models and bounds each call.
type Options struct {
	AnalysisModel string
	ChatModel     string
	Timeout       time.Duration
}

// OptionsFromConfig maps the gemini section of conf to Options.
func OptionsFromConfig(conf *config.Config) Options {
	return Options{
		AnalysisModel: conf.Gemini.AnalysisModel,
		ChatModel:     conf.Gemini.ChatModel,
		Timeout:       conf.Gemini.Timeout,
	}
}

// Client is the vault's gateway to the generative-language service.
type Client struct {
	gen     Generator
	cache   Cache
	opts    Options
	log     zerolog.Logger
	metrics metrics.Recorder
}

// New creates a Client. A nil cache disables summary caching.
func New(gen Generator, cache Cache, opts Options, log zerolog.Logger, rec metrics.Recorder) *Client {
	if cache == nil {
		cache = NoCache{}
	}
	if rec == nil {
		rec = metrics.Noop()
	}
	return &Client{
		gen:     gen,
		cache:   cache,
		opts:    opts,
		log:     logging.Component(log, "ai"),
		metrics: rec,
	}
}

// AnalyzeSecurity asks for a structured risk assessment of a file. content is
// the base64 payload; only a prefix is sent. Returns nil on any failure.
func (c *Client) AnalyzeSecurity(ctx context.Context, name, mimeType, content string) *ScanResult {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	text, err := c.gen.Generate(ctx, Request{
		Model:  c.opts.AnalysisModel,
		Prompt: analysisPrompt(name, mimeType, content),
		Schema: analysisSchema,
	})
	if err != nil {
		c.log.Error().Err(err).Str("file", name).Msg("security scan failed")
		c.metrics.IncAICall("analyze", metrics.OutcomeError)
		return nil
	}

	result, err := parseScanResult(text)
	if err != nil {
		c.log.Error().Err(err).Str("file", name).Msg("security scan returned an unusable reply")
		c.metrics.IncAICall("analyze", metrics.OutcomeError)
		return nil
	}
	c.metrics.IncAICall("analyze", metrics.OutcomeOK)
	return result
}

// Summarize returns a two-sentence summary of a file, or SummaryUnavailable.
func (c *Client) Summarize(ctx context.Context, name, content string) string {
	preview := truncateRunes(content, summaryPreviewLen)
	key := crypto.FingerprintParts(c.opts.AnalysisModel, name, preview)
	if cached, ok := c.cache.Get(key); ok {
		c.metrics.IncCacheHit()
		return cached
	}
	c.metrics.IncCacheMiss()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	text, err := c.gen.Generate(ctx, Request{
		Model:  c.opts.AnalysisModel,
		Prompt: fmt.Sprintf("Summarize the contents of this file in two concise sentences. File: %s. Content: %s", name, preview),
	})
	if err != nil {
		c.log.Error().Err(err).Str("file", name).Msg("summary failed")
		c.metrics.IncAICall("summarize", metrics.OutcomeError)
		return SummaryUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		c.metrics.IncAICall("summarize", metrics.OutcomeEmpty)
		return SummaryUnavailable
	}

	c.metrics.IncAICall("summarize", metrics.OutcomeOK)
	c.cache.Set(key, text)
	return text
}

// Chat replays history under the assistant persona and sends message.
// Returns the reply text (possibly empty) or ChatUnavailable on failure.
func (c *Client) Chat(ctx context.Context, history []Turn, message string) string {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	text, err := c.gen.Converse(ctx, ChatRequest{
		Model:   c.opts.ChatModel,
		System:  Persona,
		History: history,
		Message: message,
	})
	if err != nil {
		c.log.Error().Err(err).Int("history", len(history)).Msg("chat failed")
		c.metrics.IncAICall("chat", metrics.OutcomeError)
		return ChatUnavailable
	}
	if strings.TrimSpace(text) == "" {
		c.metrics.IncAICall("chat", metrics.OutcomeEmpty)
		return ""
	}
	c.metrics.IncAICall("chat", metrics.OutcomeOK)
	return text
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.Timeout > 0 {
		return context.WithTimeout(ctx, c.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

func analysisPrompt(name, mimeType, content string) string {
	var b strings.Builder
	b.WriteString("Analyze the following file for potential security risks.\n")
	fmt.Fprintf(&b, "File Name: %s\n", name)
	fmt.Fprintf(&b, "File Type: %s\n", mimeType)
	if content != "" {
		fmt.Fprintf(&b, "Content Preview (Base64): %s\n", truncateRunes(content, analysisPreviewLen))
	}
	b.WriteString("\nReturn a JSON object with:\n")
	b.WriteString("1. riskScore (0-100)\n")
	b.WriteString("2. threatSummary (A brief 1-sentence analysis)\n")
	b.WriteString("3. recommendation (What should the user do?)\n")
	return b.String()
}

// parseScanResult decodes an analysis reply. An empty reply decodes as an
// empty object; a non-object reply or a risk score outside 0-100 is a schema
// mismatch.
func parseScanResult(text string) (*ScanResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		text = "{}"
	}

	// Only an object counts; "null" would otherwise decode as an empty result.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: reply is not an object", ErrSchema)
	}

	var result ScanResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	if result.RiskScore != nil && (*result.RiskScore < 0 || *result.RiskScore > 100) {
		return nil, fmt.Errorf("%w: riskScore %v", ErrSchema, *result.RiskScore)
	}
	return &result, nil
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
