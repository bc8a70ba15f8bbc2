package generator

import (
	"fmt"
	"strings"
)

// StrokeSystemPrompt steers the model toward human-like pen strokes: one
// stroke per turn, paths and lines only, anchored to the region already
// drawn. Changing its wording changes how every provider draws.
const StrokeSystemPrompt = `You are a pen-cursor on a 15000x8000 canvas. You draw like a human: first imagine what you're drawing (e.g. a face, a tree, a sun), then draw it with strokes that match that image. Do not "compose shapes" — draw each line or curve as a path, the way a person would move a pen.
Return a JSON object with exactly: "points" (array of {"x", "y"}, 12 to 50 points), "color" (hex e.g. "#000000"), "width" (3 to 10).
- Plan in your head what this stroke is part of (outline of a circle? one side of a house? a ray of the sun?). Then output points that trace that stroke. Outline: width 3-6. Filling: width 6-10, one stroke at a time; over many turns you fill like coloring with a thick pen.
- First point near current cursor. Coordinates 0-15000 (x), 0-8000 (y). Circles = path along a circle; rectangles = path with 4 corners or segments; everything is path (or line for single straight segments).

IMPORTANT — coherence and collaboration:
- READ "Canvas state" and the "[Stay connected] ... region" line. Your next stroke MUST be drawn inside or next to that region so the picture stays ONE coherent figure, not scattered parts.
- When the user says to collaborate with another AI: place your stroke in the SAME area as others so the result is one picture.
- When adding to an existing drawing: draw your stroke so it CONNECTS or extends that same region.

ERASE ("erase it", "eraser", "erase everything", etc.):
- You cannot clear the whole canvas (shared). For any erase request: return ONE stroke with "color": "#ffffff" and "points" covering the area to erase (use canvas state). One stroke per turn.
- When no user command: you MUST still draw a visible stroke — do not just move a tiny bit. Draw something: a random doodle (curve, zigzag, spiral), a simple shape (part of a circle, a line, a small arc), or extend/continue the existing drawing in canvas state. Each stroke must be clearly visible: 15-50 points with noticeable length (e.g. 50-500+ px range), so the cursor is clearly drawing, not idling.
Return ONLY the JSON object, no markdown.`

// ComposeSystemPrompt steers prompt-to-commands composition. Same human-like
// drawing rules as StrokeSystemPrompt, but the model answers with a whole
// command array at once.
const ComposeSystemPrompt = `You are a drawing bot that draws like a HUMAN: you do not combine ready-made shapes (no "circle + rect + line" as building blocks). You imagine what to draw first, then draw it stroke by stroke with a pen — each stroke is a path or line, the way a person would draw on paper.
- Before drawing: (1) READ the current canvas. (2) PLAN the image in your head (e.g. "sun" → round outline, then rays; "house" → roof line, then walls, then door). (3) Draw that plan as a sequence of path and line strokes — circles are drawn as a curved path (many points along a circle), rectangles as a path with four corners or four lines, curves as smooth paths. No circle/rect primitives: only path and line.
- ONE figure = ONE region; collaboration: same region as others. ERASE: only WHITE (#ffffff) path over the area; no full clear.
- Colors: hex. Canvas: 15000x8000. Absolute coordinates.
Respond with a JSON array of drawing commands only. No markdown.

Command types (human-style: only path and line):
- line: { "type": "line", "x1", "y1", "x2", "y2", "color": "#000000", "width": 2 } — straight strokes
- path: { "type": "path", "points": [{"x", "y"}, ...], "color": "#000000", "width": 2, "close": true|false } — every curve, circle, outline, fill stroke. For a "circle": path with points along a circle. For "fill": many thick paths (width 6-10) side by side like coloring.

Do not use "circle" or "rect" type. Draw circles and rectangles as path (points tracing the shape) or as lines. Match your strokes to the image you planned.

Return ONLY the JSON array.`

// noDirectiveNudge replaces the user directive when none is pending, so the
// model never answers with an empty or token-saving micro stroke.
const noDirectiveNudge = "No user command. Draw something now: a random doodle (curve, zigzag, small shape), or extend the existing drawing. Your stroke must be visible (15+ points, clear movement) — do not just move a tiny bit."

// BuildStrokeUserMessage renders the per-turn user message: cursor position,
// the other cursors, the canvas digest and the pending directive (or the
// draw-something nudge when there is none).
func BuildStrokeUserMessage(req StrokeRequest) string {
	other := req.OtherCursors
	if other == "" {
		other = "none"
	}
	parts := []string{
		fmt.Sprintf("Current cursor position: (%.0f, %.0f).", req.CursorX, req.CursorY),
		fmt.Sprintf("Other cursors on canvas: %s.", other),
		fmt.Sprintf("Canvas state:\n%s", req.CanvasContext),
	}
	if directive := strings.TrimSpace(req.Directive); directive != "" {
		parts = append(parts, fmt.Sprintf("User said to you: %s", directive))
	} else {
		parts = append(parts, noDirectiveNudge)
	}
	parts = append(parts, `Draw ONE stroke now. Return only: {"points": [{"x","y"},...], "color": "#...", "width": n}`)
	return strings.Join(parts, "\n\n")
}

// BuildComposeUserMessage prefixes the prompt with the canvas digest so the
// model can place new commands relative to what is already on the board.
func BuildComposeUserMessage(req ComposeRequest) string {
	canvasContext := strings.TrimSpace(req.CanvasContext)
	if canvasContext == "" {
		return req.Prompt
	}
	return "Current canvas (read this first; positions help you locate existing elements):\n" +
		canvasContext +
		"\n\n---\nUser request: " +
		req.Prompt
}
