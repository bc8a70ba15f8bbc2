package engine

import (
	"errors"

	"github.com/hupe1980/drawboard/session"
)

// ErrSessionActive is returned by Start while another session is running.
// The board admits one drawing agent at a time; callers should stop the
// running one first.
var ErrSessionActive = session.ErrActive

// ErrGatewayRequired is returned by Start when an OpenClaw session carries no
// gateway URL and no server default is configured.
var ErrGatewayRequired = errors.New("an OpenClaw Gateway address is required")

// ErrAPIKeyRequired is returned when a cloud provider session carries no API
// key and none is configured on the server.
var ErrAPIKeyRequired = errors.New("API key required")

// ErrUnknownProvider is returned for provider identifiers the board does not
// support.
var ErrUnknownProvider = errors.New("unsupported AI provider")

// ErrClearDisabled is returned by SubmitDraw for full-canvas clear actions
// while DisableClear is set. Erasing stays possible through white strokes.
var ErrClearDisabled = errors.New("full-canvas clear is disabled; other users may be watching this canvas. Erase only what you need with white strokes")
