package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/drawboard/core"
)

var _ Generator = (*MockGenerator)(nil)

func TestConfig_ResolveModel(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit", Config{Provider: ProviderOpenAI, Model: "gpt-4o"}, "gpt-4o"},
		{"whitespace falls back", Config{Provider: ProviderClaude, Model: "  "}, "claude-3-5-haiku-20241022"},
		{"gemini default", Config{Provider: ProviderGemini}, "gemini-2.0-flash"},
		{"openclaw default", Config{Provider: ProviderOpenClaw}, "openclaw:main"},
		{"unknown provider", Config{Provider: "homebrew"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.ResolveModel(); got != tc.want {
				t.Fatalf("ResolveModel() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMockGenerator_QueueOrder(t *testing.T) {
	mock := NewMockGenerator("mock-model", ProviderOpenAI)
	first := &core.Stroke{Points: []core.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}
	mock.QueueStroke(first)
	mock.QueueError(errors.New("boom"))

	got, err := mock.NextStroke(context.Background(), StrokeRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != first {
		t.Fatalf("expected queued stroke back, got %+v", got)
	}

	if _, err = mock.NextStroke(context.Background(), StrokeRequest{}); err == nil || err.Error() != "boom" {
		t.Fatalf("expected queued error, got %v", err)
	}

	// Queue drained: the default stroke keeps the loop drawing.
	got, err = mock.NextStroke(context.Background(), StrokeRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Drawable() {
		t.Fatalf("default stroke must be drawable, got %+v", got)
	}
	if calls := mock.StrokeCalls(); calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestMockGenerator_Compose(t *testing.T) {
	mock := NewMockGenerator("mock-model", ProviderClaude)
	mock.SetCommands(core.Line{X1: 0, Y1: 0, X2: 5, Y2: 5, Color: "#000000", Width: 2})

	actions, err := mock.Compose(context.Background(), ComposeRequest{Prompt: "draw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Kind() != core.KindLine {
		t.Fatalf("unexpected actions: %+v", actions)
	}

	mock.SetComposeError(errors.New("no brush"))
	if _, err = mock.Compose(context.Background(), ComposeRequest{}); err == nil {
		t.Fatal("expected compose error")
	}
	if mock.ComposeCalls() != 2 {
		t.Fatalf("expected 2 compose calls, got %d", mock.ComposeCalls())
	}
}

func TestMockGenerator_ContextCancelled(t *testing.T) {
	mock := NewMockGenerator("mock-model", ProviderOpenAI)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := mock.NextStroke(ctx, StrokeRequest{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if mock.StrokeCalls() != 0 {
		t.Fatalf("cancelled call must not count, got %d", mock.StrokeCalls())
	}
}

func TestMockGenerator_Info(t *testing.T) {
	mock := NewMockGenerator("mock-model", ProviderGemini)
	mock.SetStrictLimits(true)
	info := mock.Info()
	if info.Name != "mock-model" || info.Provider != ProviderGemini || !info.StrictLimits {
		t.Fatalf("unexpected info: %+v", info)
	}
}
