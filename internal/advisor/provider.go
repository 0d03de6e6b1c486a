package advisor

import (
	"context"
	"errors"
)

// Provider is a text generation backend.
type Provider interface {
	// Generate sends a single-turn prompt and returns the generated text.
	Generate(ctx context.Context, req Request) (*Response, error)
	// ModelID returns the model identifier the provider targets.
	ModelID() string
}

// Request is a single generation request.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds generated text and the model that produced it.
type Response struct {
	Content string
	Model   string
}

// Provider failures. SDK errors are wrapped so callers can match on these.
var (
	ErrRateLimited   = errors.New("provider rate limited")
	ErrUnavailable   = errors.New("provider unavailable")
	ErrEmptyResponse = errors.New("provider returned no content")
	ErrMissingAPIKey = errors.New("provider api key not configured")
)
