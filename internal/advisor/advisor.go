// Package advisor turns a course and its success prediction into improvement
// suggestions. A language model provider generates them when one is
// configured; otherwise, or when generation fails, static advice keyed on
// the predicted label is returned. Advising never fails.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/pkg/formatting"
)

// Source identifies where advice came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Suggestion is one actionable improvement.
type Suggestion struct {
	Heading string `json:"heading"`
	Detail  string `json:"detail"`
}

// Advice is the advisor's output. When a model answers in free text rather
// than the requested JSON shape, Summary carries the raw text and
// Suggestions is empty.
type Advice struct {
	Summary     string       `json:"summary"`
	Suggestions []Suggestion `json:"suggestions"`
	Source      Source       `json:"source"`
	Model       string       `json:"model,omitempty"`
}

// Advisor generates course improvement advice.
type Advisor struct {
	provider    Provider
	maxTokens   int
	temperature float64
	timeout     time.Duration
	logger      *slog.Logger
}

// New creates an Advisor for cfg. A provider that needs an API key but has
// none degrades to fallback-only advice with a warning.
func New(cfg *Config, logger *slog.Logger) (*Advisor, error) {
	logger = logger.With("system", "advisor")

	provider, err := NewProvider(cfg)
	if err != nil {
		if !errors.Is(err, ErrMissingAPIKey) {
			return nil, fmt.Errorf("create provider: %w", err)
		}
		logger.Warn("advisor api key not configured, using fallback advice", "provider", cfg.Provider)
	}

	return NewWithProvider(provider, cfg, logger), nil
}

// NewWithProvider creates an Advisor around an existing provider. A nil
// provider produces fallback advice only.
func NewWithProvider(p Provider, cfg *Config, logger *slog.Logger) *Advisor {
	return &Advisor{
		provider:    p,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.TimeoutDuration(),
		logger:      logger,
	}
}

// NewProvider builds the provider named by cfg. ProviderNone yields a nil
// provider and no error.
func NewProvider(cfg *Config) (Provider, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		p, err := NewOpenAIProvider(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderAnthropic:
		p, err := NewAnthropicProvider(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderMock:
		return NewMockProvider(), nil
	case ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// Enabled reports whether a provider is configured.
func (a *Advisor) Enabled() bool {
	return a.provider != nil
}

// ModelID returns the provider's model, or empty when disabled.
func (a *Advisor) ModelID() string {
	if a.provider == nil {
		return ""
	}
	return a.provider.ModelID()
}

// Advise returns suggestions for course given its prediction.
func (a *Advisor) Advise(ctx context.Context, course inference.RawCourse, p inference.Prediction) Advice {
	if a.provider == nil {
		return Fallback(p)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	resp, err := a.provider.Generate(ctx, Request{
		System:      systemPrompt,
		Messages:    []Message{{Role: RoleUser, Content: buildPrompt(course, p)}},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		a.logger.Warn("advice generation failed, using fallback", "error", err)
		return Fallback(p)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		a.logger.Warn("advice generation returned empty text, using fallback")
		return Fallback(p)
	}

	model := resp.Model
	if model == "" {
		model = a.provider.ModelID()
	}

	parsed, err := formatting.ExtractJSON[Advice](text)
	if err != nil || parsed.Summary == "" || len(parsed.Suggestions) == 0 {
		return Advice{Summary: text, Source: SourceModel, Model: model}
	}

	return Advice{
		Summary:     parsed.Summary,
		Suggestions: parsed.Suggestions,
		Source:      SourceModel,
		Model:       model,
	}
}
