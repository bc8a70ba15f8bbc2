// Package server exposes the drawing engine over HTTP and WebSocket.
//
// The REST surface serves two kinds of callers. Tool-driven clients submit
// individual commands through /api/draw, /api/canvas, /api/ask and /api/clear.
// Autonomous bots onboard themselves through the discovery path (/bot), the
// skill document (/skill.md) and the register/start/message/stop endpoints,
// following the protocol described in the onboard package. Human viewers
// watch the board live over /ws.
//
// Every non-2xx response carries the envelope {"detail": ..., "code": ...}
// where detail is an actionable message a bot may relay to its user verbatim
// and code is one of the stable identifiers in respond.go. Session starts and
// ask requests are rate limited per client IP.
package server
