package core

import (
	"encoding/json"
	"fmt"
)

// DrawEvent is one committed drawing step: the display name of the session or
// client that produced it plus the action applied. After being appended to the
// log an event is immutable. The wire form matches the viewer protocol:
//
//	{"ai_name": "Picasso", "action": {"type": "line", ...}}
type DrawEvent struct {
	Author string `json:"ai_name"`
	Action Action `json:"action"`
}

// NewDrawEvent pairs an author display name with an action.
func NewDrawEvent(author string, action Action) DrawEvent {
	return DrawEvent{Author: author, Action: action}
}

// UnmarshalJSON decodes the tagged wire form, routing the action payload
// through ParseAction so only valid actions enter the system.
func (e *DrawEvent) UnmarshalJSON(data []byte) error {
	var wire struct {
		Author string          `json:"ai_name"`
		Action json.RawMessage `json:"action"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("invalid draw event: %w", err)
	}
	if len(wire.Action) == 0 {
		return fmt.Errorf("draw event requires an action")
	}
	action, err := ParseAction(wire.Action)
	if err != nil {
		return err
	}
	e.Author = wire.Author
	e.Action = action
	return nil
}
