package engine

import "time"

// Config defines tuning parameters for the engine's pacing and admission
// behavior.
//
// The defaults reproduce the board's intended feel: strokes replay at roughly
// human pen speed, erasing is throttled so one agent cannot wipe the board
// faster than others draw, and free-tier providers get long cooldowns so a
// session survives their request-per-minute limits.
//
// Durations of zero disable the corresponding wait. Additional concerns such
// as provider credentials are per-session values carried on StartRequest, not
// configuration.
type Config struct {
	// StrokePointDelay is the pause between replayed stroke points. Each
	// point moves the cursor and, from the second point on, commits one line
	// segment, so this delay sets the visible drawing speed.
	StrokePointDelay time.Duration

	// PostStrokeDelay is the pause after a stroke finishes replaying,
	// before the next generator request.
	PostStrokeDelay time.Duration

	// EraseCooldown is the extra pause after a pure-white stroke. White
	// strokes erase, and erasing is rate-limited harder than drawing.
	EraseCooldown time.Duration

	// StrictCooldown is the extra pause between strokes for generators that
	// report StrictLimits (free tiers with single-digit requests per
	// minute). Long enough to stay inside those limits indefinitely.
	StrictCooldown time.Duration

	// TransientBackoff is the wait before retrying after a transient
	// generator failure (network blips, 5xx). Quota failures are never
	// retried.
	TransientBackoff time.Duration

	// EmptyStrokeDelay is the pause after the generator returns fewer than
	// two points. One point cannot form a segment, so the iteration is
	// skipped instead of drawn.
	EmptyStrokeDelay time.Duration

	// CommandDelay is the pause between commands applied by Ask, so viewers
	// watch the picture appear instead of receiving it all at once.
	CommandDelay time.Duration

	// RateWindow is the sliding window for the admission limits below.
	RateWindow time.Duration

	// AskRateLimit caps Ask admissions per client key per window.
	AskRateLimit int

	// StartRateLimit caps session-start admissions per client key per
	// window.
	StartRateLimit int

	// LoopContextEvents bounds how many recent events the drawing loop
	// summarizes into each generator request.
	LoopContextEvents int

	// AskContextEvents bounds how many recent events Ask summarizes. Ask
	// runs once per user prompt and can afford a deeper digest than the
	// loop, which pays it every stroke.
	AskContextEvents int

	// BoundsPad is the margin added around the drawn region in digests, so
	// the "stay connected" hint leaves room to extend the picture.
	BoundsPad float64

	// StartMargin insets the random start position from the canvas edges.
	StartMargin float64

	// ViewerBuffer is the per-viewer send queue length. A viewer that falls
	// this many frames behind is disconnected and reconnects to a fresh
	// snapshot.
	ViewerBuffer int

	// PublicBaseURL is the address written into onboarding links and the
	// participation guide. Behind a proxy this must be the public URL, not
	// the bind address.
	PublicBaseURL string

	// DefaultGatewayURL is used for OpenClaw sessions that do not carry
	// their own gateway URL. Empty means a gateway URL is required on the
	// request.
	DefaultGatewayURL string

	// DisableClear rejects full-canvas clear actions. On a shared board one
	// participant should not be able to destroy everyone else's work, so
	// this defaults to true; erasing stays possible via white strokes.
	DisableClear bool
}

// DefaultConfig provides the standard board configuration.
//
// Pacing values:
//   - StrokePointDelay: 90ms (human-looking pen speed)
//   - PostStrokeDelay: 300ms
//   - EraseCooldown: 2s
//   - StrictCooldown: 60s (survives free tiers around 5 requests/minute)
//   - TransientBackoff: 2s
//   - EmptyStrokeDelay: 500ms
//   - CommandDelay: 220ms (about five Ask commands per second)
//
// Admission values:
//   - RateWindow: 1 minute, AskRateLimit: 30, StartRateLimit: 10
//
// Context values:
//   - LoopContextEvents: 50, AskContextEvents: 100, BoundsPad: 200
var DefaultConfig = Config{
	StrokePointDelay:  90 * time.Millisecond,
	PostStrokeDelay:   300 * time.Millisecond,
	EraseCooldown:     2 * time.Second,
	StrictCooldown:    60 * time.Second,
	TransientBackoff:  2 * time.Second,
	EmptyStrokeDelay:  500 * time.Millisecond,
	CommandDelay:      220 * time.Millisecond,
	RateWindow:        time.Minute,
	AskRateLimit:      30,
	StartRateLimit:    10,
	LoopContextEvents: 50,
	AskContextEvents:  100,
	BoundsPad:         200,
	StartMargin:       50,
	ViewerBuffer:      256,
	PublicBaseURL:     "http://localhost:8000",
	DefaultGatewayURL: "",
	DisableClear:      true,
}
