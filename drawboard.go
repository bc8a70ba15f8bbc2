// Package drawboard provides a high-level façade over the board engine and
// its HTTP surface, enabling rapid construction of a shared real-time drawing
// canvas for autonomous agents and human viewers. Most applications interact
// with this package by:
//  1. Creating a Drawboard via New() (optionally overriding the engine
//     configuration, agent store, generator factory or logger)
//  2. Mounting Handler() on an http.Server (REST API + /ws viewer endpoint)
//  3. Optionally driving the board programmatically (Register, Start, Stop,
//     SubmitDraw, Ask) instead of, or alongside, the HTTP surface
//
// The façade delegates orchestration to engine.Engine while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a structured logger and a
// public base URL for the onboarding links.
package drawboard

import (
	"context"
	"net/http"

	"github.com/hupe1980/drawboard/core"
	"github.com/hupe1980/drawboard/engine"
	"github.com/hupe1980/drawboard/logging"
	"github.com/hupe1980/drawboard/registry"
	"github.com/hupe1980/drawboard/server"
)

// Options configures the Drawboard instance.
type Options struct {
	// EngineConfig contains pacing, admission and context parameters.
	EngineConfig engine.Config

	// AgentStore holds registered agent identities (defaults to an in-memory
	// implementation if not provided).
	AgentStore core.AgentStore

	// GeneratorFactory builds the model adapter for each session. The
	// default wires the real provider SDKs; tests supply factories
	// returning mocks.
	GeneratorFactory engine.GeneratorFactory

	// AllowedOrigins is the CORS allowlist of the HTTP surface. The
	// default, ["*"], admits every origin.
	AllowedOrigins []string

	// PublicBaseURL pins the base URL written into onboarding links. Empty
	// derives it per request from forwarded headers; the engine-side guide
	// uses EngineConfig.PublicBaseURL either way.
	PublicBaseURL string

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Drawboard is the high-level façade aggregating the board engine and its
// HTTP surface.
type Drawboard struct {
	opts   Options
	engine *engine.Engine
	server *server.Server
}

// New creates a new Drawboard instance with optional overrides. Any unset
// dependency is initialized with its default implementation.
func New(optFns ...func(o *Options)) *Drawboard {
	opts := Options{
		EngineConfig:     engine.DefaultConfig,
		AgentStore:       registry.NewInMemoryStore(),
		GeneratorFactory: engine.DefaultGeneratorFactory,
		AllowedOrigins:   []string{"*"},
		Logger:           logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	eng := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.AgentStore = opts.AgentStore
		o.GeneratorFactory = opts.GeneratorFactory
		o.Logger = opts.Logger
	})

	srv := server.New(eng,
		server.WithLogger(opts.Logger),
		server.WithAllowedOrigins(opts.AllowedOrigins...),
		server.WithPublicBaseURL(opts.PublicBaseURL),
	)

	return &Drawboard{opts: opts, engine: eng, server: srv}
}

// Handler returns the full HTTP surface (REST API plus the /ws viewer
// endpoint), ready to mount on an http.Server.
func (b *Drawboard) Handler() http.Handler { return b.server.Handler() }

// Engine exposes the underlying engine for advanced wiring (custom transports
// or direct viewer attachment).
func (b *Drawboard) Engine() *engine.Engine { return b.engine }

// Register creates a durable agent identity for name.
func (b *Drawboard) Register(name string) (*core.RegisteredAgent, error) {
	return b.engine.Register(name)
}

// Start admits an autonomous drawing session and spawns its loop.
func (b *Drawboard) Start(ctx context.Context, req engine.StartRequest) (*engine.StartResult, error) {
	return b.engine.Start(ctx, req)
}

// Stop removes the selected sessions and returns the removed ids. It is
// idempotent; stopping nothing returns an empty slice.
func (b *Drawboard) Stop(req engine.StopRequest) []string {
	return b.engine.Stop(req)
}

// SendDirective queues a one-shot directive for every live session with the
// display name, reporting whether any matched.
func (b *Drawboard) SendDirective(name, message string) bool {
	return b.engine.SendDirective(name, message)
}

// SubmitDraw validates and commits one drawing action under the author name,
// returning its log index.
func (b *Drawboard) SubmitDraw(author string, action core.Action) (int, error) {
	return b.engine.SubmitDraw(author, action)
}

// Ask turns a natural-language prompt into drawing commands and applies them
// to the board, returning the number of commands committed.
func (b *Drawboard) Ask(ctx context.Context, req engine.AskRequest) (int, error) {
	return b.engine.Ask(ctx, req)
}

// Snapshot returns the full canvas history in commit order.
func (b *Drawboard) Snapshot() []core.DrawEvent { return b.engine.Snapshot() }

// Close stops all sessions and shuts the board down.
func (b *Drawboard) Close() { b.engine.Close() }
