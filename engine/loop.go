package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/drawboard/canvas"
	"github.com/hupe1980/drawboard/core"
	"github.com/hupe1980/drawboard/generator"
	"github.com/hupe1980/drawboard/hub"
	"github.com/hupe1980/drawboard/onboard"
	"github.com/hupe1980/drawboard/session"
)

// runLoop is the autonomous drawing loop of one session: request a stroke,
// replay it point by point, pace, repeat. It exits when ctx is canceled, the
// session disappears, or the provider reports exhausted quota.
//
// Error policy: transient failures are broadcast to viewers once per distinct
// message and retried after a backoff; quota exhaustion terminates the
// session with a single explanatory diagnostic. The deduplication state is
// deliberately kept across successful strokes, so a recurring flaky error
// does not spam viewers every time it reappears.
func (e *Engine) runLoop(ctx context.Context, sessionID string, gen generator.Generator) {
	defer e.releaseLoop(sessionID)

	info := gen.Info()
	firstTurn := true
	lastErr := ""

	e.logger.Debug("drawing loop started", "session_id", sessionID, "provider", info.Provider)

	for ctx.Err() == nil {
		sess, ok := e.sessions.Get(sessionID)
		if !ok {
			return
		}

		// The very first request carries the full participation guide and
		// replaces any queued directive; pending messages stay queued for the
		// next turn.
		var directive string
		if firstTurn {
			directive = e.firstTurnDirective()
			firstTurn = false
		} else if msg, ok := e.sessions.ConsumePending(sessionID); ok {
			directive = msg
		} else {
			directive = doodleHint()
		}

		lx, ly := sess.Local()
		req := generator.StrokeRequest{
			CursorX:       lx,
			CursorY:       ly,
			OtherCursors:  e.sessions.OthersSummary(sessionID, sess.OffsetX, sess.OffsetY),
			CanvasContext: canvas.Digest(e.log.Snapshot(), e.config.LoopContextEvents, e.config.BoundsPad),
			Directive:     directive,
		}

		stroke, err := gen.NextStroke(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if generator.IsQuotaError(err) {
				e.stopOnQuota(sessionID, sess.Name, err)
				return
			}
			if msg := err.Error(); msg != lastErr {
				lastErr = msg
				e.logger.Warn("stroke request failed", "session_id", sessionID, "name", sess.Name, "error", err)
				e.hub.Broadcast(hub.NewDiagnosticMessage(sess.Name, msg))
			}
			if !wait(ctx, e.config.TransientBackoff) {
				return
			}
			continue
		}

		if !stroke.Drawable() {
			if !wait(ctx, e.config.EmptyStrokeDelay) {
				return
			}
			continue
		}

		if !e.replay(ctx, sessionID, sess, stroke) {
			return
		}

		if !wait(ctx, e.config.PostStrokeDelay) {
			return
		}
		if stroke.IsErase() && !wait(ctx, e.config.EraseCooldown) {
			return
		}
		if info.StrictLimits && !wait(ctx, e.config.StrictCooldown) {
			return
		}
	}
}

// replay walks the stroke point by point: each step moves the session cursor
// and, from the second point on, commits one line segment, so viewers watch
// the stroke appear instead of receiving it whole. Coordinates come back from
// the model in the session's local frame and are shifted into canvas space
// here. Reports false when the loop should exit because ctx ended or the
// session was removed underneath it.
func (e *Engine) replay(ctx context.Context, sessionID string, sess session.AgentSession, stroke *core.Stroke) bool {
	var prevX, prevY float64

	for i, pt := range stroke.Points {
		if ctx.Err() != nil {
			return false
		}

		gx := sess.OffsetX + pt.X
		gy := sess.OffsetY + pt.Y

		e.mu.Lock()
		if !e.sessions.SetCursor(sessionID, gx, gy) {
			e.mu.Unlock()
			return false
		}
		e.hub.Broadcast(hub.NewCursorMessage(sessionID, sess.Name, gx, gy))
		if i > 0 {
			ev := core.NewDrawEvent(sess.Name, core.Line{
				X1:    prevX,
				Y1:    prevY,
				X2:    gx,
				Y2:    gy,
				Color: stroke.Color,
				Width: stroke.Width,
			})
			e.log.Append(ev)
			e.hub.Broadcast(hub.NewDrawMessage(ev))
		}
		e.mu.Unlock()

		prevX, prevY = gx, gy

		if !wait(ctx, e.config.StrokePointDelay) {
			return false
		}
	}

	return true
}

// stopOnQuota terminates a session whose provider reported exhausted quota.
// Viewers get exactly one diagnostic naming the reason, then the cursor goes
// away; the raw provider error is only logged.
func (e *Engine) stopOnQuota(sessionID, name string, cause error) {
	detail := fmt.Sprintf("🚨 %s stopped: API usage limit exceeded (429). Pick a different AI in the settings or try again later.", name)

	e.mu.Lock()
	e.hub.Broadcast(hub.NewDiagnosticMessage(name, detail))
	if e.sessions.Remove(sessionID) {
		e.hub.Broadcast(hub.NewCursorRemoveMessage([]string{sessionID}))
	}
	e.mu.Unlock()

	e.logger.Warn("agent session stopped on quota", "session_id", sessionID, "name", name, "error", cause)
}

// releaseLoop drops the loop's cancel registration once the loop goroutine
// exits on its own.
func (e *Engine) releaseLoop(sessionID string) {
	e.loopsMu.Lock()
	defer e.loopsMu.Unlock()

	if cancel, ok := e.loops[sessionID]; ok {
		cancel()
		delete(e.loops, sessionID)
	}
}

// firstTurnDirective wraps the full participation guide for a session's first
// stroke request.
func (e *Engine) firstTurnDirective() string {
	return "[Drawboard participation guide — provided by the server. Read this first.]\n\n" +
		onboard.SkillDoc(e.config.PublicBaseURL) +
		"\n\n---\nOnce you have read the guide, answer with ONE stroke as JSON for the state below."
}

// wait sleeps for d unless ctx ends first, reporting whether the full wait
// elapsed.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
