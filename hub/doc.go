// Package hub fans canvas updates out to WebSocket viewers.
//
// The hub serializes viewer attachment and broadcasting through a single
// operation channel. A viewer attaches together with its pre-marshaled seed
// frames (the canvas snapshot and the current cursors), so every event
// reaches each viewer exactly once: either inside the seed or as a later
// broadcast, never both and never neither. Slow viewers are disconnected
// rather than silently skipped, forcing a reconnect and a fresh snapshot
// instead of a permanent gap in their canvas.
package hub
