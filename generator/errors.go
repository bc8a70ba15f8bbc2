package generator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGatewayUnreachable reports that an OpenClaw gateway could not be reached
// at all (connect failure rather than an HTTP rejection).
var ErrGatewayUnreachable = errors.New("cannot reach the OpenClaw Gateway. Check that the gateway is running and that the address and port are correct (e.g. http://127.0.0.1:18789)")

// quotaMarkers are matched case-insensitively against error text. Every
// quota message produced here keeps a literal "429" so wrapped errors stay
// recognizable.
var quotaMarkers = []string{"429", "quota", "rate limit", "resourceexhausted"}

var connectMarkers = []string{"connection", "refused", "attempts failed"}

// labels maps provider identifiers to the display names used in diagnostics.
var labels = map[string]string{
	ProviderOpenAI:     "OpenAI",
	ProviderGemini:     "Gemini",
	ProviderClaude:     "Anthropic(Claude)",
	ProviderPerplexity: "Perplexity",
	ProviderOpenClaw:   "OpenClaw",
}

// Label returns the display name for a provider identifier.
func Label(provider string) string {
	if l, ok := labels[provider]; ok {
		return l
	}
	return provider
}

// IsQuotaError reports whether err looks like a quota or rate-limit failure.
// Quota failures terminate a drawing session instead of being retried.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// IsConnectError reports whether err looks like a failure to reach the remote
// host rather than an HTTP-level rejection.
func IsConnectError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range connectMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ErrorForStatus converts an HTTP status from a provider API into a message a
// board viewer can act on. Unknown statuses return nil so callers fall back
// to wrapping the SDK error.
func ErrorForStatus(provider string, status int) error {
	label := Label(provider)
	switch status {
	case 401:
		if provider == ProviderOpenClaw {
			return errors.New("[401] the OpenClaw Gateway requires authentication. Configure the gateway bearer token on the board server, or turn off auth in the gateway settings")
		}
		return fmt.Errorf("[401] %s API key is invalid or expired. Check the key or issue a new one in the %s console", label, label)
	case 429:
		return fmt.Errorf("[429] %s usage limit exceeded or requests throttled. The session stops automatically", label)
	case 500:
		if provider == ProviderOpenClaw {
			return errors.New("[500] the OpenClaw Gateway returned an internal error. Check the gateway logs and that the model openclaw:main is routed correctly")
		}
		return fmt.Errorf("[500] %s server error. Retry shortly or check the service status", label)
	case 502:
		return errors.New("[502] the gateway (or tunnel) returned Bad Gateway. Check that the gateway is healthy and the tunnel URL is alive")
	}
	return nil
}
