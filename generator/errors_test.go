package generator

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsQuotaError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status code", errors.New("[429] OpenAI usage limit exceeded"), true},
		{"wrapped", fmt.Errorf("openai api error: %w", errors.New("429 Too Many Requests")), true},
		{"quota word", errors.New("Quota exceeded for quota metric"), true},
		{"rate limit", errors.New("Rate limit reached for requests"), true},
		{"resource exhausted", errors.New("code RESOURCEEXHAUSTED returned"), true},
		{"plain failure", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsQuotaError(tc.err); got != tc.want {
				t.Fatalf("IsQuotaError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsConnectError(t *testing.T) {
	if !IsConnectError(errors.New(`dial tcp 127.0.0.1:18789: connect: connection refused`)) {
		t.Fatal("expected dial failure to count as connect error")
	}
	if IsConnectError(errors.New("[500] server error")) {
		t.Fatal("HTTP error should not count as connect error")
	}
	if IsConnectError(nil) {
		t.Fatal("nil should not count as connect error")
	}
}

func TestErrorForStatus(t *testing.T) {
	err := ErrorForStatus(ProviderOpenAI, 401)
	if err == nil || !strings.Contains(err.Error(), "[401]") || !strings.Contains(err.Error(), "OpenAI console") {
		t.Fatalf("unexpected 401 message: %v", err)
	}

	err = ErrorForStatus(ProviderOpenClaw, 401)
	if err == nil || !strings.Contains(err.Error(), "bearer token") {
		t.Fatalf("unexpected openclaw 401 message: %v", err)
	}

	err = ErrorForStatus(ProviderClaude, 429)
	if err == nil || !IsQuotaError(err) {
		t.Fatalf("429 message must register as quota error: %v", err)
	}
	if !strings.Contains(err.Error(), "Anthropic(Claude)") {
		t.Fatalf("expected provider label in message: %v", err)
	}

	err = ErrorForStatus(ProviderOpenClaw, 500)
	if err == nil || !strings.Contains(err.Error(), "openclaw:main") {
		t.Fatalf("unexpected openclaw 500 message: %v", err)
	}

	err = ErrorForStatus(ProviderOpenAI, 502)
	if err == nil || !strings.Contains(err.Error(), "Bad Gateway") {
		t.Fatalf("unexpected 502 message: %v", err)
	}

	if err = ErrorForStatus(ProviderOpenAI, 404); err != nil {
		t.Fatalf("expected nil for unmapped status, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	if got := Label(ProviderPerplexity); got != "Perplexity" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := Label("homebrew"); got != "homebrew" {
		t.Fatalf("unknown providers pass through, got %q", got)
	}
}
