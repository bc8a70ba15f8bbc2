package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/hupe1980/drawboard/core"
	"github.com/hupe1980/drawboard/generator"
	"github.com/hupe1980/drawboard/hub"
	"github.com/hupe1980/drawboard/logging"
	"github.com/hupe1980/drawboard/registry"
	"github.com/hupe1980/drawboard/session"
)

// GeneratorFactory builds a stroke generator for one session from its
// provider configuration. The default factory wires the real provider
// adapters; tests inject factories returning mocks.
type GeneratorFactory func(cfg generator.Config) (generator.Generator, error)

// Options configures an Engine instance using the functional options pattern.
//
// All dependencies have working defaults, so New() with no options yields a
// fully functional in-memory board.
//
// Example:
//
//	eng := New(
//	    WithConfig(customConfig),
//	    WithLogger(myLogger),
//	)
type Options struct {
	// Config contains pacing and admission parameters.
	// Defaults to DefaultConfig if not specified.
	Config Config

	// AgentStore holds registered agent identities.
	// Defaults to an in-memory implementation if not provided.
	AgentStore core.AgentStore

	// Logger provides structured logging for debugging and monitoring.
	// Defaults to a no-op logger if nil.
	Logger logging.Logger

	// GeneratorFactory builds provider generators for new sessions.
	// Defaults to DefaultGeneratorFactory.
	GeneratorFactory GeneratorFactory
}

// WithConfig overrides the default engine configuration.
func WithConfig(cfg Config) func(o *Options) {
	return func(o *Options) { o.Config = cfg }
}

// WithAgentStore overrides the default in-memory agent store.
func WithAgentStore(store core.AgentStore) func(o *Options) {
	return func(o *Options) { o.AgentStore = store }
}

// WithLogger overrides the default no-op logger.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// WithGeneratorFactory overrides the default provider factory.
func WithGeneratorFactory(factory GeneratorFactory) func(o *Options) {
	return func(o *Options) { o.GeneratorFactory = factory }
}

// Engine is the board's state holder and orchestrator. It owns the append-only
// event log, the viewer hub, the live session manager and the agent registry,
// and it runs one drawing loop goroutine per active session.
//
// Ordering model:
// Every composite step that mutates state and then broadcasts (committing a
// draw event, moving a cursor, admitting or removing a session) runs under one
// engine mutex. Viewer attachment takes the same mutex while it snapshots the
// log and cursors into seed frames. Because the hub delivers seeds and
// broadcast frames through a single ordered queue, a viewer receives exactly
// the events in its snapshot followed by exactly the events after it: nothing
// is lost or duplicated no matter when it connects.
//
// Lifecycle:
// New starts the hub's delivery goroutine; Close cancels all drawing loops and
// stops the hub. Drawing loops are detached from the contexts of the requests
// that started them and end only on Stop, Close, or quota exhaustion.
type Engine struct {
	config Config

	log      *core.EventLog
	sessions *session.Manager
	agents   core.AgentStore
	hub      *hub.Hub

	factory GeneratorFactory
	logger  logging.Logger

	// mu serializes mutate+broadcast steps against viewer attachment.
	mu sync.Mutex

	// loops tracks the cancel function of each running drawing loop.
	loopsMu sync.Mutex
	loops   map[string]context.CancelFunc
}

// New creates a fully initialized Engine with sensible defaults.
//
// The default configuration uses in-memory state throughout: the event log,
// session manager and agent registry all reset on restart, which is the
// board's recovery model. The returned engine is ready for use; callers should
// Close it when done to release the hub goroutine.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:           DefaultConfig,
		AgentStore:       registry.NewInMemoryStore(),
		Logger:           logging.NoOpLogger{},
		GeneratorFactory: DefaultGeneratorFactory,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	h := hub.New(func(o *hub.Options) {
		o.Logger = opts.Logger
		o.SendBuffer = opts.Config.ViewerBuffer
	})

	e := &Engine{
		config:   opts.Config,
		log:      core.NewEventLog(),
		sessions: session.NewManager(),
		agents:   opts.AgentStore,
		hub:      h,
		factory:  opts.GeneratorFactory,
		logger:   opts.Logger,
		loops:    make(map[string]context.CancelFunc),
	}

	go h.Run()

	return e
}

// Close stops every drawing loop, removes all sessions and shuts the hub
// down. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.loopsMu.Lock()
	for id, cancel := range e.loops {
		cancel()
		delete(e.loops, id)
	}
	e.loopsMu.Unlock()

	for id := range e.sessions.Snapshot() {
		e.sessions.Remove(id)
	}

	e.hub.Stop()
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.config }

// Hub returns the viewer hub, for wiring incoming websocket connections.
func (e *Engine) Hub() *hub.Hub { return e.hub }

// Register creates a durable agent identity for name and returns it. The
// identity survives session stops and is lost only on restart.
func (e *Engine) Register(name string) (*core.RegisteredAgent, error) {
	agent, err := e.agents.Register(name)
	if err != nil {
		return nil, err
	}
	e.logger.Info("agent registered", "agent_id", agent.ID, "name", agent.Name)
	return agent, nil
}

// StartRequest carries everything needed to start a drawing session.
//
// With AgentID set the session joins through a registered identity: the name
// comes from the registration, the provider is forced to OpenClaw and
// GatewayURL (or the configured default) must point at the agent's gateway.
// Without AgentID the session talks directly to a cloud provider selected by
// Provider, authenticated by APIKey.
type StartRequest struct {
	Name       string
	Provider   string
	APIKey     string
	Model      string
	AgentID    string
	GatewayURL string
}

// StartResult reports the admitted session.
type StartResult struct {
	SessionID string
	Name      string
}

// Start admits a new drawing session and spawns its autonomous loop.
//
// At most one session is active at a time; while one runs, Start returns
// ErrSessionActive. Validation errors are ErrGatewayRequired,
// ErrAPIKeyRequired, ErrUnknownProvider and core.ErrAgentNotFound, all
// wrapped with an actionable message.
//
// Side effects on success: a session with a fresh id and a cursor at a
// uniformly random canvas position, a cursor frame broadcast to viewers, and
// a loop goroutine that keeps drawing until Stop, Close or quota exhaustion.
// The loop is detached from ctx; the session outlives the request that
// started it.
func (e *Engine) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	if e.sessions.Count() > 0 {
		return nil, ErrSessionActive
	}

	name := strings.TrimSpace(req.Name)
	cfg := generator.Config{
		Provider:   strings.TrimSpace(req.Provider),
		Model:      strings.TrimSpace(req.Model),
		APIKey:     strings.TrimSpace(req.APIKey),
		GatewayURL: strings.TrimSpace(req.GatewayURL),
	}

	if agentID := strings.TrimSpace(req.AgentID); agentID != "" {
		reg, err := e.agents.Get(agentID)
		if err != nil {
			return nil, fmt.Errorf("%w: register first via POST /api/agent/register", err)
		}
		gateway := cfg.GatewayURL
		if gateway == "" {
			gateway = e.config.DefaultGatewayURL
		}
		if gateway == "" {
			return nil, fmt.Errorf("%w: each agent joins with its own gateway address in openclaw_base_url (e.g. http://127.0.0.1:18789)", ErrGatewayRequired)
		}
		name = reg.Name
		cfg = generator.Config{Provider: generator.ProviderOpenClaw, GatewayURL: gateway}
	} else {
		if cfg.Provider == "" {
			cfg.Provider = generator.ProviderOpenAI
		}
		if err := e.validateProvider(&cfg); err != nil {
			return nil, err
		}
		if name == "" {
			name = "My AI"
		}
	}

	gen, err := e.factory(cfg)
	if err != nil {
		return nil, err
	}

	sess := session.AgentSession{
		ID:   core.NewID(),
		Name: name,
		X:    e.config.StartMargin + rand.Float64()*(core.CanvasWidth-2*e.config.StartMargin),
		Y:    e.config.StartMargin + rand.Float64()*(core.CanvasHeight-2*e.config.StartMargin),
	}

	loopCtx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	if err := e.sessions.Begin(sess); err != nil {
		e.mu.Unlock()
		cancel()
		return nil, err
	}
	e.hub.Broadcast(hub.NewCursorMessage(sess.ID, sess.Name, sess.X, sess.Y))
	e.mu.Unlock()

	e.loopsMu.Lock()
	e.loops[sess.ID] = cancel
	e.loopsMu.Unlock()

	go e.runLoop(loopCtx, sess.ID, gen)

	e.logger.Info("agent session started",
		"session_id", sess.ID, "name", name, "provider", cfg.Provider, "model", cfg.ResolveModel())

	return &StartResult{SessionID: sess.ID, Name: name}, nil
}

// validateProvider checks credentials for a direct provider session,
// consulting the conventional environment variables as a fallback the same
// way the default factory does.
func (e *Engine) validateProvider(cfg *generator.Config) error {
	switch cfg.Provider {
	case generator.ProviderOpenClaw:
		gateway := cfg.GatewayURL
		if gateway == "" {
			gateway = e.config.DefaultGatewayURL
		}
		if gateway == "" {
			return fmt.Errorf("%w: pass openclaw_base_url or configure a server default (e.g. http://localhost:8765)", ErrGatewayRequired)
		}
		cfg.GatewayURL = gateway
		return nil
	case generator.ProviderOpenAI, generator.ProviderGemini, generator.ProviderClaude, generator.ProviderPerplexity:
		if cfg.APIKey != "" || envAPIKey(cfg.Provider) != "" {
			return nil
		}
		return fmt.Errorf("%w: pass api_key for %s or set %s on the server",
			ErrAPIKeyRequired, generator.Label(cfg.Provider), providerEnv[cfg.Provider])
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// StopRequest selects sessions to stop, by id or by display name. An id that
// matches a live session wins; otherwise every session with the name goes.
type StopRequest struct {
	SessionID string
	Name      string
}

// Stop removes the selected sessions, cancels their loops and broadcasts a
// single cursor-removal frame carrying the removed ids. It is idempotent:
// unknown ids and names remove nothing, and an empty request is a no-op.
func (e *Engine) Stop(req StopRequest) []string {
	e.mu.Lock()
	var removed []string
	if id := strings.TrimSpace(req.SessionID); id != "" && e.sessions.Remove(id) {
		removed = []string{id}
	} else if name := strings.TrimSpace(req.Name); name != "" {
		removed = e.sessions.RemoveByName(name)
	}
	if len(removed) > 0 {
		e.hub.Broadcast(hub.NewCursorRemoveMessage(removed))
	}
	e.mu.Unlock()

	e.cancelLoops(removed)

	if len(removed) > 0 {
		e.logger.Info("agent sessions stopped", "session_ids", removed)
	}
	return removed
}

func (e *Engine) cancelLoops(ids []string) {
	e.loopsMu.Lock()
	defer e.loopsMu.Unlock()

	for _, id := range ids {
		if cancel, ok := e.loops[id]; ok {
			cancel()
			delete(e.loops, id)
		}
	}
}

// SendDirective stores a one-shot directive for every live session with the
// display name. The next stroke request of each session consumes it. Returns
// false when no live session matches.
func (e *Engine) SendDirective(name, message string) bool {
	return e.sessions.SetPending(name, message)
}

// SubmitDraw validates and commits one externally submitted action under the
// given author name, broadcasting it to all viewers. It returns the committed
// event's log index.
//
// Full-canvas clears are rejected with ErrClearDisabled while DisableClear is
// set. An empty author is recorded as core.DefaultAuthor.
func (e *Engine) SubmitDraw(author string, action core.Action) (int, error) {
	if action == nil {
		return 0, fmt.Errorf("action is required")
	}
	if _, ok := action.(core.Clear); ok && e.config.DisableClear {
		return 0, ErrClearDisabled
	}
	if author = strings.TrimSpace(author); author == "" {
		author = core.DefaultAuthor
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ev := core.NewDrawEvent(author, action)
	idx := e.log.Append(ev)
	e.hub.Broadcast(hub.NewDrawMessage(ev))
	return idx, nil
}

// Snapshot returns a copy of the full canvas history in commit order.
func (e *Engine) Snapshot() []core.DrawEvent { return e.log.Snapshot() }

// Events reports the number of committed events.
func (e *Engine) Events() int { return e.log.Len() }

// Cursors returns the live cursors keyed by session id, in the viewer wire
// shape.
func (e *Engine) Cursors() map[string]hub.CursorInfo {
	return e.cursorInfos()
}

// AttachViewer seeds the client with the current canvas and cursors and
// subscribes it to live frames. The seed and the subscription are taken under
// the engine mutex, so the client sees every event exactly once: the snapshot
// covers everything committed before attachment, the live frames everything
// after.
func (e *Engine) AttachViewer(client *hub.Client) {
	e.mu.Lock()
	defer e.mu.Unlock()

	seed := make([][]byte, 0, 2)
	if frame, err := json.Marshal(hub.NewSyncMessage(e.log.Snapshot())); err == nil {
		seed = append(seed, frame)
	} else {
		e.logger.Error("sync seed marshal failed", "error", err)
	}
	if frame, err := json.Marshal(hub.NewCursorsMessage(e.cursorInfos())); err == nil {
		seed = append(seed, frame)
	} else {
		e.logger.Error("cursors seed marshal failed", "error", err)
	}

	e.hub.Attach(client, seed...)
}

func (e *Engine) cursorInfos() map[string]hub.CursorInfo {
	sessions := e.sessions.Snapshot()
	out := make(map[string]hub.CursorInfo, len(sessions))
	for id, s := range sessions {
		out[id] = hub.CursorInfo{AIName: s.Name, AIID: id, X: s.X, Y: s.Y}
	}
	return out
}
