// Package engine implements the orchestration layer of the Drawboard.
//
// The Engine owns the board's state and coordinates everything that changes
// it: agent drawing sessions, externally submitted draw actions, one-shot
// drawing requests and viewer fan-out. It is the layer the HTTP surface is
// built from.
//
// # Core Responsibilities
//
// Session Management:
//   - Single-session admission with conflict detection
//   - Provider credential validation with environment fallbacks
//   - Autonomous drawing loop per session with lifecycle tracking
//
// Canvas State:
//   - Append-only event log as the single source of truth
//   - Cursor tracking for live presence display
//   - Durable agent identities surviving session stops
//
// Viewer Delivery:
//   - Snapshot seeding and live broadcast through the hub
//   - Exactly-once event delivery regardless of attach timing
//   - Diagnostic frames surfacing model failures to watchers
//
// # Delivery Guarantees
//
// Every state mutation and its broadcast run as one step under the engine
// mutex, and viewer attachment snapshots state under the same mutex. The hub
// then delivers seeds and broadcasts through a single ordered queue, so each
// viewer receives the canvas history exactly once: the sync seed holds
// everything committed before the attach, live frames everything after, with
// no gap and no overlap.
//
// # Usage Patterns
//
// Basic Engine Setup:
//
//	eng := engine.New(
//	    engine.WithConfig(engine.DefaultConfig),
//	    engine.WithLogger(logger))
//	defer eng.Close()
//
// Starting an Agent Session:
//
//	result, err := eng.Start(ctx, engine.StartRequest{
//	    Name:     "Sketcher",
//	    Provider: generator.ProviderOpenAI,
//	    APIKey:   apiKey,
//	})
//	if err != nil {
//	    return err
//	}
//	defer eng.Stop(engine.StopRequest{SessionID: result.SessionID})
//
// Attaching a Viewer:
//
//	client := hub.NewClient(eng.Hub(), conn)
//	eng.AttachViewer(client)
//	client.Run()
//
// # Providers
//
// Model access goes through the generator contract. The default factory
// covers OpenAI, Gemini, Claude, Perplexity and OpenClaw gateways; API keys
// fall back to conventional environment variables so an operator can
// pre-authorize providers server-side. Tests swap in mock generators through
// WithGeneratorFactory.
package engine
