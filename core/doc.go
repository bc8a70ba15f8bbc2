// Package core provides the foundational domain types and interfaces used by
// the drawboard. It defines the core abstractions for:
//
//   - Actions (a closed set of drawing commands with a tagged wire form)
//   - DrawEvents and the append-only EventLog (the canvas source of truth)
//   - Strokes (generator output replayed as paced line segments)
//   - Registered agents (durable identities with a pluggable AgentStore)
//   - Sliding-window rate limiting for public entry points
//
// The package intentionally keeps implementation concerns (session
// orchestration, broadcasting, HTTP surfaces, generator transports) out of
// scope, exposing small types that the other packages compose.
package core
