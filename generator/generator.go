package generator

import (
	"context"
	"strings"
	"sync"

	"github.com/hupe1980/drawboard/core"
)

// Provider identifiers accepted when starting an agent. Gemini, Perplexity
// and OpenClaw are reached through OpenAI-compatible chat completion
// endpoints, so all three ride on the openai adapter.
const (
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderClaude     = "claude"
	ProviderPerplexity = "perplexity"
	ProviderOpenClaw   = "openclaw"
)

// DefaultModels maps each provider to the model used when a session does not
// name one.
var DefaultModels = map[string]string{
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-2.0-flash",
	ProviderClaude:     "claude-3-5-haiku-20241022",
	ProviderPerplexity: "llama-3.1-sonar-small-128k-online",
	ProviderOpenClaw:   "openclaw:main",
}

// Sampling defaults shared by the adapters. Stroke generation runs slightly
// warmer than prompt-to-commands composition.
const (
	StrokeTemperature  = 0.4
	ComposeTemperature = 0.3
	StrokeMaxTokens    = 2048
	ComposeMaxTokens   = 4096
)

// Info contains metadata about a generator implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "claude", "openclaw", etc.

	// StrictLimits marks providers whose free tier throttles aggressively.
	// The drawing loop inserts a long cooldown between strokes for them.
	StrictLimits bool `json:"strict_limits"`
}

// StrokeRequest carries everything a model needs to decide on one stroke.
type StrokeRequest struct {
	CursorX       float64
	CursorY       float64
	OtherCursors  string // summary of the other agents' cursors, empty when alone
	CanvasContext string // canvas digest, see the canvas package
	Directive     string // pending user directive, empty when none
}

// ComposeRequest asks for a complete list of drawing commands for a prompt.
type ComposeRequest struct {
	Prompt        string
	CanvasContext string
}

// StrokeSource produces one stroke per call.
type StrokeSource interface {
	NextStroke(ctx context.Context, req StrokeRequest) (*core.Stroke, error)
}

// Composer turns a free-form prompt into a list of drawing actions.
type Composer interface {
	Compose(ctx context.Context, req ComposeRequest) ([]core.Action, error)
}

// Generator is the full provider contract the engine drives sessions with.
type Generator interface {
	StrokeSource
	Composer

	// Info returns information about the generator implementation.
	Info() Info
}

// Config selects and authenticates a provider for one session.
type Config struct {
	Provider   string
	Model      string // empty selects the provider default
	APIKey     string
	GatewayURL string // OpenClaw gateway base URL
}

// ResolveModel returns the configured model or the provider default.
func (c Config) ResolveModel() string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	return DefaultModels[c.Provider]
}

type mockResult struct {
	stroke *core.Stroke
	err    error
}

// MockGenerator is a lightweight in-memory Generator useful for tests &
// examples. Queued strokes and errors are returned in order; once the queue
// drains it keeps producing a small default stroke so drawing loops stay
// alive.
type MockGenerator struct {
	mu          sync.Mutex
	info        Info
	results     []mockResult
	commands    []core.Action
	composeErr  error
	strokeReqs  []StrokeRequest
	composeReqs []ComposeRequest
}

// NewMockGenerator constructs a MockGenerator reporting the given model name
// and provider.
func NewMockGenerator(name, provider string) *MockGenerator {
	return &MockGenerator{info: Info{Name: name, Provider: provider}}
}

// SetStrictLimits toggles the strict-limits flag reported by Info.
func (m *MockGenerator) SetStrictLimits(strict bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.info.StrictLimits = strict
}

// QueueStroke registers the next stroke returned by NextStroke.
func (m *MockGenerator) QueueStroke(stroke *core.Stroke) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, mockResult{stroke: stroke})
}

// QueueError registers the next error returned by NextStroke.
func (m *MockGenerator) QueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, mockResult{err: err})
}

// SetCommands registers the actions returned by Compose.
func (m *MockGenerator) SetCommands(actions ...core.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = actions
}

// SetComposeError makes Compose fail with err.
func (m *MockGenerator) SetComposeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.composeErr = err
}

// StrokeCalls reports how many times NextStroke has been invoked.
func (m *MockGenerator) StrokeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.strokeReqs)
}

// StrokeRequests returns a copy of every request NextStroke has seen, in
// order.
func (m *MockGenerator) StrokeRequests() []StrokeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StrokeRequest(nil), m.strokeReqs...)
}

// ComposeCalls reports how many times Compose has been invoked.
func (m *MockGenerator) ComposeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.composeReqs)
}

// ComposeRequests returns a copy of every request Compose has seen, in order.
func (m *MockGenerator) ComposeRequests() []ComposeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ComposeRequest(nil), m.composeReqs...)
}

// NextStroke implements StrokeSource; it pops the next queued result or falls
// back to the default stroke.
func (m *MockGenerator) NextStroke(ctx context.Context, req StrokeRequest) (*core.Stroke, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strokeReqs = append(m.strokeReqs, req)
	if len(m.results) > 0 {
		next := m.results[0]
		m.results = m.results[1:]
		if next.err != nil {
			return nil, next.err
		}
		return next.stroke, nil
	}
	return &core.Stroke{
		Points: []core.Point{{X: 0, Y: 0}, {X: 40, Y: 40}},
		Color:  core.DefaultColor,
		Width:  3,
	}, nil
}

// Compose implements Composer.
func (m *MockGenerator) Compose(ctx context.Context, req ComposeRequest) ([]core.Action, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.composeReqs = append(m.composeReqs, req)
	if m.composeErr != nil {
		return nil, m.composeErr
	}
	return append([]core.Action(nil), m.commands...), nil
}

// Info implements Generator.
func (m *MockGenerator) Info() Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.info
}
