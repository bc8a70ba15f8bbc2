package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/drawboard/canvas"
	"github.com/hupe1980/drawboard/core"
	"github.com/hupe1980/drawboard/generator"
	"github.com/hupe1980/drawboard/hub"
)

// AskRequest carries one natural-language drawing request.
type AskRequest struct {
	// Prompt is what to draw or erase. Required.
	Prompt string

	// Name is the author recorded on the committed events. Defaults to "AI".
	Name string

	// Provider, APIKey and Model select the model that interprets the
	// prompt, with the same defaults and environment fallbacks as Start.
	Provider string
	APIKey   string
	Model    string

	// Events optionally overrides the canvas context shown to the model,
	// letting a client describe its own view. Nil means the board's full
	// history; an empty non-nil slice means an empty canvas.
	Events []core.DrawEvent
}

// Ask turns one natural-language request into draw commands and commits them
// under the requested author name.
//
// The commands come back from the model as a batch but are committed one at a
// time with a short pause between them, so viewers watch the answer being
// drawn. Full-canvas clears in the response are skipped. Returns the number
// of commands applied; when ctx ends mid-application the count covers what
// was committed before the cut.
func (e *Engine) Ask(ctx context.Context, req AskRequest) (int, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return 0, fmt.Errorf("prompt is required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "AI"
	}

	cfg := generator.Config{
		Provider: strings.TrimSpace(req.Provider),
		Model:    strings.TrimSpace(req.Model),
		APIKey:   strings.TrimSpace(req.APIKey),
	}
	if cfg.Provider == "" {
		cfg.Provider = generator.ProviderOpenAI
	}
	if err := e.validateProvider(&cfg); err != nil {
		return 0, err
	}

	gen, err := e.factory(cfg)
	if err != nil {
		return 0, err
	}

	events := req.Events
	if events == nil {
		events = e.log.Snapshot()
	}

	actions, err := gen.Compose(ctx, generator.ComposeRequest{
		Prompt:        prompt,
		CanvasContext: canvas.Digest(events, e.config.AskContextEvents, e.config.BoundsPad),
	})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, action := range actions {
		if _, ok := action.(core.Clear); ok {
			continue
		}

		e.mu.Lock()
		ev := core.NewDrawEvent(name, action)
		e.log.Append(ev)
		e.hub.Broadcast(hub.NewDrawMessage(ev))
		e.mu.Unlock()
		count++

		if !wait(ctx, e.config.CommandDelay) {
			return count, ctx.Err()
		}
	}

	e.logger.Info("ask applied", "name", name, "provider", cfg.Provider, "count", count)

	return count, nil
}
