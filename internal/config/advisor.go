package config

import "github.com/JaimeStill/coursecast/internal/advisor"

var advisorEnv = &advisor.Env{
	Provider:    "COURSECAST_ADVISOR_PROVIDER",
	APIKey:      "COURSECAST_ADVISOR_API_KEY",
	Model:       "COURSECAST_ADVISOR_MODEL",
	BaseURL:     "COURSECAST_ADVISOR_BASE_URL",
	MaxTokens:   "COURSECAST_ADVISOR_MAX_TOKENS",
	Temperature: "COURSECAST_ADVISOR_TEMPERATURE",
	Timeout:     "COURSECAST_ADVISOR_TIMEOUT",
}
