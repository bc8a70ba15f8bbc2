package engine

import (
	"fmt"
	"os"
	"strings"

	"github.com/hupe1980/drawboard/generator"
	"github.com/hupe1980/drawboard/generator/anthropic"
	"github.com/hupe1980/drawboard/generator/openai"
)

// providerEnv maps each provider to the environment variable consulted when a
// request carries no api_key.
var providerEnv = map[string]string{
	generator.ProviderOpenAI:     "OPENAI_API_KEY",
	generator.ProviderGemini:     "GEMINI_API_KEY",
	generator.ProviderClaude:     "ANTHROPIC_API_KEY",
	generator.ProviderPerplexity: "PERPLEXITY_API_KEY",
	generator.ProviderOpenClaw:   "OPENCLAW_API_KEY",
}

// openClawGatewayEnv names the gateway fallback for OpenClaw sessions started
// without an explicit base URL.
const openClawGatewayEnv = "OPENCLAW_BASE_URL"

func envAPIKey(provider string) string {
	return strings.TrimSpace(os.Getenv(providerEnv[provider]))
}

// DefaultGeneratorFactory builds the real provider adapter for cfg.
//
// Gemini and Perplexity speak the OpenAI-compatible chat completions dialect
// on their own base URLs, so they share the OpenAI adapter. OpenClaw is an
// OpenAI-compatible gateway under the caller's control; its /v1 prefix is
// appended here. Claude uses the native Anthropic client.
//
// A missing api_key falls back to the provider's conventional environment
// variable so a server operator can pre-authorize providers for all comers.
func DefaultGeneratorFactory(cfg generator.Config) (generator.Generator, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = envAPIKey(cfg.Provider)
	}

	switch cfg.Provider {
	case generator.ProviderOpenAI:
		return openai.New(func(o *openai.Options) {
			o.APIKey = apiKey
			o.Model = cfg.Model
		}), nil
	case generator.ProviderGemini:
		return openai.New(func(o *openai.Options) {
			o.APIKey = apiKey
			o.Model = cfg.Model
			o.Provider = generator.ProviderGemini
			o.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
			o.StrictLimits = true
		}), nil
	case generator.ProviderPerplexity:
		return openai.New(func(o *openai.Options) {
			o.APIKey = apiKey
			o.Model = cfg.Model
			o.Provider = generator.ProviderPerplexity
			o.BaseURL = "https://api.perplexity.ai"
		}), nil
	case generator.ProviderClaude:
		return anthropic.New(func(o *anthropic.Options) {
			o.APIKey = apiKey
			o.Model = cfg.Model
		}), nil
	case generator.ProviderOpenClaw:
		gateway := cfg.GatewayURL
		if gateway == "" {
			gateway = strings.TrimSpace(os.Getenv(openClawGatewayEnv))
		}
		if gateway == "" {
			return nil, fmt.Errorf("%w: pass openclaw_base_url or set %s", ErrGatewayRequired, openClawGatewayEnv)
		}
		return openai.New(func(o *openai.Options) {
			o.APIKey = apiKey
			o.Model = cfg.Model
			o.Provider = generator.ProviderOpenClaw
			o.BaseURL = strings.TrimRight(gateway, "/") + "/v1"
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
