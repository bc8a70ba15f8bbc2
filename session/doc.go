// Package session tracks live agent drawing sessions: the cursor each agent
// moves across the shared canvas, the fixed coordinate offset assigned at
// start, and the pending one-shot directives viewers can hand to an agent.
//
// The Manager enforces the board's admission policy of at most one active
// session. The constraint lives entirely in Begin; the rest of the package
// (and the log/broadcast machinery around it) already handles any number of
// concurrent sessions, so lifting the policy later is a one-line change.
package session
