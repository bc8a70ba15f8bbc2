package hub

import "github.com/hupe1980/drawboard/core"

// Frame type tags understood by board viewers.
const (
	MsgSync         = "sync"
	MsgCursors      = "cursors"
	MsgDraw         = "draw"
	MsgCursor       = "cursor"
	MsgCursorRemove = "cursor_remove"
	MsgDiagnostic   = "ai_error"
	MsgPing         = "ping"
	MsgPong         = "pong"
)

// SyncMessage seeds a freshly connected viewer with the full event log.
type SyncMessage struct {
	Type   string           `json:"type"`
	Events []core.DrawEvent `json:"events"`
}

// NewSyncMessage builds a sync frame. Events is never nil on the wire.
func NewSyncMessage(events []core.DrawEvent) SyncMessage {
	if events == nil {
		events = []core.DrawEvent{}
	}
	return SyncMessage{Type: MsgSync, Events: events}
}

// CursorInfo is one agent cursor as shown to viewers.
type CursorInfo struct {
	AIName string  `json:"ai_name"`
	AIID   string  `json:"ai_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// CursorsMessage seeds a freshly connected viewer with all live cursors,
// keyed by session id.
type CursorsMessage struct {
	Type    string                `json:"type"`
	Cursors map[string]CursorInfo `json:"cursors"`
}

// NewCursorsMessage builds a cursors frame. Cursors is never nil on the wire.
func NewCursorsMessage(cursors map[string]CursorInfo) CursorsMessage {
	if cursors == nil {
		cursors = map[string]CursorInfo{}
	}
	return CursorsMessage{Type: MsgCursors, Cursors: cursors}
}

// DrawMessage carries one committed draw event.
type DrawMessage struct {
	Type  string         `json:"type"`
	Event core.DrawEvent `json:"event"`
}

// NewDrawMessage builds a draw frame.
func NewDrawMessage(event core.DrawEvent) DrawMessage {
	return DrawMessage{Type: MsgDraw, Event: event}
}

// CursorMessage reports an agent cursor position update.
type CursorMessage struct {
	Type   string  `json:"type"`
	AIName string  `json:"ai_name"`
	AIID   string  `json:"ai_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// NewCursorMessage builds a cursor frame.
func NewCursorMessage(sessionID, name string, x, y float64) CursorMessage {
	return CursorMessage{Type: MsgCursor, AIName: name, AIID: sessionID, X: x, Y: y}
}

// CursorRemoveMessage tells viewers to drop the cursors of stopped agents.
type CursorRemoveMessage struct {
	Type  string   `json:"type"`
	AIIDs []string `json:"ai_ids"`
}

// NewCursorRemoveMessage builds a cursor_remove frame.
func NewCursorRemoveMessage(sessionIDs []string) CursorRemoveMessage {
	if sessionIDs == nil {
		sessionIDs = []string{}
	}
	return CursorRemoveMessage{Type: MsgCursorRemove, AIIDs: sessionIDs}
}

// DiagnosticMessage surfaces an agent failure to viewers.
type DiagnosticMessage struct {
	Type   string `json:"type"`
	AIName string `json:"ai_name"`
	Detail string `json:"detail"`
}

// NewDiagnosticMessage builds an ai_error frame.
func NewDiagnosticMessage(name, detail string) DiagnosticMessage {
	return DiagnosticMessage{Type: MsgDiagnostic, AIName: name, Detail: detail}
}
