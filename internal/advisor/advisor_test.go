package advisor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/coursecast/internal/advisor"
	"github.com/JaimeStill/coursecast/internal/inference"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCourse() inference.RawCourse {
	return inference.RawCourse{
		Title:             "Go for Data Engineers",
		Category:          "Tech",
		Difficulty:        "Beginner",
		Price:             500,
		Reviews:           100,
		Rating:            4.5,
		Duration:          8,
		LectureNumbers:    20,
		InstrTotalReviews: 100,
		InstrMeanRating:   4.5,
		InstrCourseCount:  1,
	}
}

func testConfig() *advisor.Config {
	return &advisor.Config{
		Provider:    advisor.ProviderMock,
		MaxTokens:   400,
		Temperature: 0.7,
		Timeout:     "5s",
	}
}

func TestFallbackByLabel(t *testing.T) {
	tests := []struct {
		name        string
		pred        inference.Prediction
		wantHeading string
	}{
		{"high success", inference.Prediction{Label: 1, Probability: 0.81}, "Marketing & Visibility"},
		{"low success", inference.Prediction{Label: 0, Probability: 0.12}, "Start with Price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := advisor.Fallback(tt.pred)

			if a.Source != advisor.SourceFallback {
				t.Errorf("source: got %s, want %s", a.Source, advisor.SourceFallback)
			}
			if len(a.Suggestions) != 7 {
				t.Fatalf("suggestions: got %d, want 7", len(a.Suggestions))
			}
			if a.Suggestions[0].Heading != tt.wantHeading {
				t.Errorf("first heading: got %q, want %q", a.Suggestions[0].Heading, tt.wantHeading)
			}
			if a.Summary == "" {
				t.Error("summary is empty")
			}
		})
	}
}

func TestFallbackReturnsCopy(t *testing.T) {
	p := inference.Prediction{Label: 1, Probability: 0.9}

	first := advisor.Fallback(p)
	first.Suggestions[0].Heading = "mutated"

	second := advisor.Fallback(p)
	if second.Suggestions[0].Heading == "mutated" {
		t.Error("Fallback shares suggestion storage between calls")
	}
}

func TestAdviseWithoutProvider(t *testing.T) {
	a := advisor.NewWithProvider(nil, testConfig(), discardLogger())

	if a.Enabled() {
		t.Error("advisor without provider reports enabled")
	}

	got := a.Advise(context.Background(), testCourse(), inference.Prediction{Label: 0, Probability: 0.3})
	if got.Source != advisor.SourceFallback {
		t.Errorf("source: got %s, want fallback", got.Source)
	}
}

func TestAdviseStructuredResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"plain json",
			`{"summary":"Likely to do well.","suggestions":[{"heading":"Price","detail":"Hold the price."}]}`,
		},
		{
			"fenced json",
			"Here you go:\n```json\n{\"summary\":\"Likely to do well.\",\"suggestions\":[{\"heading\":\"Price\",\"detail\":\"Hold the price.\"}]}\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := advisor.NewMockProvider(advisor.MockResponse{Content: tt.content})
			a := advisor.NewWithProvider(mock, testConfig(), discardLogger())

			got := a.Advise(context.Background(), testCourse(), inference.Prediction{Label: 1, Probability: 0.81})

			if got.Source != advisor.SourceModel {
				t.Errorf("source: got %s, want model", got.Source)
			}
			if got.Model != "mock" {
				t.Errorf("model: got %q, want mock", got.Model)
			}
			if got.Summary != "Likely to do well." {
				t.Errorf("summary: got %q", got.Summary)
			}
			if len(got.Suggestions) != 1 || got.Suggestions[0].Heading != "Price" {
				t.Errorf("suggestions: got %+v", got.Suggestions)
			}
		})
	}
}

func TestAdviseFreeTextResponse(t *testing.T) {
	text := "- Lower the price\n- Add projects"
	mock := advisor.NewMockProvider(advisor.MockResponse{Content: text})
	a := advisor.NewWithProvider(mock, testConfig(), discardLogger())

	got := a.Advise(context.Background(), testCourse(), inference.Prediction{Label: 0, Probability: 0.2})

	if got.Source != advisor.SourceModel {
		t.Errorf("source: got %s, want model", got.Source)
	}
	if got.Summary != text {
		t.Errorf("summary: got %q, want raw text", got.Summary)
	}
	if len(got.Suggestions) != 0 {
		t.Errorf("suggestions: got %d, want 0", len(got.Suggestions))
	}
}

func TestAdviseFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		resp advisor.MockResponse
	}{
		{"provider error", advisor.MockResponse{Err: advisor.ErrRateLimited}},
		{"blank content", advisor.MockResponse{Content: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := advisor.NewMockProvider(tt.resp)
			a := advisor.NewWithProvider(mock, testConfig(), discardLogger())

			got := a.Advise(context.Background(), testCourse(), inference.Prediction{Label: 1, Probability: 0.7})
			if got.Source != advisor.SourceFallback {
				t.Errorf("source: got %s, want fallback", got.Source)
			}
			if got.Suggestions[0].Heading != "Marketing & Visibility" {
				t.Errorf("first heading: got %q", got.Suggestions[0].Heading)
			}
		})
	}
}

func TestAdviseCancelledContext(t *testing.T) {
	mock := advisor.NewMockProvider(advisor.MockResponse{Content: "unused"})
	a := advisor.NewWithProvider(mock, testConfig(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := a.Advise(ctx, testCourse(), inference.Prediction{Label: 0, Probability: 0.4})
	if got.Source != advisor.SourceFallback {
		t.Errorf("source: got %s, want fallback", got.Source)
	}
}

func TestAdvisePrompt(t *testing.T) {
	mock := advisor.NewMockProvider(advisor.MockResponse{Content: "ok"})
	cfg := testConfig()
	a := advisor.NewWithProvider(mock, cfg, discardLogger())

	a.Advise(context.Background(), testCourse(), inference.Prediction{Label: 1, Probability: 0.8149})

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls: got %d, want 1", len(calls))
	}

	req := calls[0]
	if !strings.Contains(req.System, "course design advisor") {
		t.Errorf("system prompt missing advisor role: %q", req.System)
	}
	if req.MaxTokens != 400 {
		t.Errorf("max tokens: got %d, want 400", req.MaxTokens)
	}
	if req.Temperature != 0.7 {
		t.Errorf("temperature: got %v, want 0.7", req.Temperature)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != advisor.RoleUser {
		t.Fatalf("messages: got %+v", req.Messages)
	}

	prompt := req.Messages[0].Content
	for _, want := range []string{
		"- Title: Go for Data Engineers",
		"- Price: ₹500",
		"- Duration: 8 hours",
		"- Lectures: 20",
		"- Predicted success label: 1",
		"- Predicted probability of high success: 0.81",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAdvisePromptMissingTitle(t *testing.T) {
	mock := advisor.NewMockProvider(advisor.MockResponse{Content: "ok"})
	a := advisor.NewWithProvider(mock, testConfig(), discardLogger())

	course := testCourse()
	course.Title = ""
	a.Advise(context.Background(), course, inference.Prediction{})

	if prompt := mock.Calls()[0].Messages[0].Content; !strings.Contains(prompt, "- Title: N/A") {
		t.Errorf("prompt missing N/A title: %q", prompt)
	}
}

func TestNewMissingKeyDegrades(t *testing.T) {
	t.Setenv(advisor.EnvOpenAIAPIKey, "")

	cfg := &advisor.Config{Provider: advisor.ProviderOpenAI}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	a, err := advisor.New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.Enabled() {
		t.Error("advisor without api key reports enabled")
	}
	if a.ModelID() != "" {
		t.Errorf("model id: got %q, want empty", a.ModelID())
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      advisor.Config
		wantNil  bool
		wantErr  error
		wantAnyE bool
	}{
		{"openai", advisor.Config{Provider: advisor.ProviderOpenAI, APIKey: "k", Model: "gpt-3.5-turbo"}, false, nil, false},
		{"anthropic", advisor.Config{Provider: advisor.ProviderAnthropic, APIKey: "k", Model: "claude-haiku-4-5"}, false, nil, false},
		{"mock", advisor.Config{Provider: advisor.ProviderMock}, false, nil, false},
		{"none", advisor.Config{Provider: advisor.ProviderNone}, true, nil, false},
		{"openai without key", advisor.Config{Provider: advisor.ProviderOpenAI}, true, advisor.ErrMissingAPIKey, false},
		{"unknown", advisor.Config{Provider: "bogus"}, true, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := advisor.NewProvider(&tt.cfg)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error: got %v, want %v", err, tt.wantErr)
				}
			case tt.wantAnyE:
				if err == nil {
					t.Fatal("expected error")
				}
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}

			if (p == nil) != tt.wantNil {
				t.Errorf("provider nil: got %v, want %v", p == nil, tt.wantNil)
			}
		})
	}
}
