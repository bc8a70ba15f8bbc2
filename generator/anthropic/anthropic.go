// Package anthropic implements the generator contract on the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/drawboard/core"
	"github.com/hupe1980/drawboard/generator"
)

// Options configure the Claude generator (model id, API key).
type Options struct {
	Model  string
	APIKey string
}

// Generator drives stroke and compose requests through the Messages API.
type Generator struct {
	client *anthropic.Client
	opts   Options
}

var _ generator.Generator = (*Generator)(nil)

// New creates a generator using the official client.
func New(optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model: generator.DefaultModels[generator.ProviderClaude],
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Generator{client: &client, opts: opts}
}

// NewFromClient creates a generator from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model: generator.DefaultModels[generator.ProviderClaude],
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{client: client, opts: opts}
}

// NextStroke implements generator.StrokeSource.
func (g *Generator) NextStroke(ctx context.Context, req generator.StrokeRequest) (*core.Stroke, error) {
	content, err := g.complete(ctx, generator.StrokeSystemPrompt, generator.BuildStrokeUserMessage(req), generator.StrokeMaxTokens)
	if err != nil {
		return nil, err
	}
	return generator.ParseStroke(content)
}

// Compose implements generator.Composer.
func (g *Generator) Compose(ctx context.Context, req generator.ComposeRequest) ([]core.Action, error) {
	content, err := g.complete(ctx, generator.ComposeSystemPrompt, generator.BuildComposeUserMessage(req), generator.ComposeMaxTokens)
	if err != nil {
		return nil, err
	}
	return generator.ParseCommands(content)
}

func (g *Generator) complete(ctx context.Context, system, user string, maxTokens int64) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.opts.Model),
		MaxTokens: maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", g.apiError(err)
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.AsText().Text), nil
		}
	}
	return "", fmt.Errorf("no text content returned")
}

func (g *Generator) apiError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		if shaped := generator.ErrorForStatus(generator.ProviderClaude, apierr.StatusCode); shaped != nil {
			return shaped
		}
	}
	return fmt.Errorf("claude api error: %w", err)
}

// Info returns metadata describing this generator implementation.
func (g *Generator) Info() generator.Info {
	return generator.Info{
		Name:     g.opts.Model,
		Provider: generator.ProviderClaude,
	}
}
