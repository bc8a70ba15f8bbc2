// Package canvas derives compact textual context from the drawboard event
// log. Stroke generators cannot see pixels; they receive a bounded digest of
// recent events (newest first) plus a padded bounding box of the drawn region
// so new strokes can stay connected to the existing picture.
//
// The digest is intentionally lossy: it covers only the most recent events
// and reduces each action to a single line. It is a prompt-building aid, not
// a replayable history; the EventLog remains the source of truth.
package canvas
