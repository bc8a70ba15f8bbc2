// Package openai implements the generator contract on the OpenAI Chat
// Completions API. Because Gemini, Perplexity and OpenClaw gateways expose
// OpenAI-compatible endpoints, this single adapter serves all four providers;
// only the base URL and credentials differ.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/drawboard/core"
	"github.com/hupe1980/drawboard/generator"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure the chat-completions generator. Provider selects the
// diagnostics wording and quota handling; BaseURL redirects the client to a
// compatible endpoint (Gemini, Perplexity, an OpenClaw gateway).
type Options struct {
	Provider     string
	Model        string
	APIKey       string
	BaseURL      string
	StrictLimits bool
}

// Generator drives stroke and compose requests through a chat-completions
// client.
type Generator struct {
	client *openai.Client
	opts   Options
}

var _ generator.Generator = (*Generator)(nil)

// New creates a generator using the official client.
func New(optFns ...func(o *Options)) *Generator {
	opts := Options{
		Provider: generator.ProviderOpenAI,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Model == "" {
		opts.Model = generator.DefaultModels[opts.Provider]
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		// The client joins request paths onto the base, which must end in "/".
		clientOpts = append(clientOpts, option.WithBaseURL(strings.TrimRight(opts.BaseURL, "/")+"/"))
	}

	client := openai.NewClient(clientOpts...)

	return &Generator{client: &client, opts: opts}
}

// NewFromClient creates a generator from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Provider: generator.ProviderOpenAI,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Model == "" {
		opts.Model = generator.DefaultModels[opts.Provider]
	}
	return &Generator{client: client, opts: opts}
}

// NextStroke implements generator.StrokeSource.
func (g *Generator) NextStroke(ctx context.Context, req generator.StrokeRequest) (*core.Stroke, error) {
	var maxTokens int64
	if g.opts.Provider == generator.ProviderPerplexity {
		maxTokens = generator.StrokeMaxTokens
	}
	content, err := g.complete(ctx, generator.StrokeSystemPrompt, generator.BuildStrokeUserMessage(req), generator.StrokeTemperature, maxTokens)
	if err != nil {
		return nil, err
	}
	return generator.ParseStroke(content)
}

// Compose implements generator.Composer.
func (g *Generator) Compose(ctx context.Context, req generator.ComposeRequest) ([]core.Action, error) {
	var maxTokens int64
	if g.opts.Provider == generator.ProviderPerplexity {
		maxTokens = generator.ComposeMaxTokens
	}
	content, err := g.complete(ctx, generator.ComposeSystemPrompt, generator.BuildComposeUserMessage(req), generator.ComposeTemperature, maxTokens)
	if err != nil {
		return nil, err
	}
	return generator.ParseCommands(content)
}

func (g *Generator) complete(ctx context.Context, system, user string, temperature float64, maxTokens int64) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: g.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(temperature),
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(maxTokens)
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", g.apiError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// apiError rewrites SDK failures into messages a board viewer can act on.
// Statuses without a provider-specific message keep the SDK error wrapped.
func (g *Generator) apiError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if shaped := generator.ErrorForStatus(g.opts.Provider, apierr.StatusCode); shaped != nil {
			return shaped
		}
		return fmt.Errorf("%s api error: %w", g.opts.Provider, err)
	}
	if g.opts.Provider == generator.ProviderOpenClaw && generator.IsConnectError(err) {
		return generator.ErrGatewayUnreachable
	}
	return fmt.Errorf("%s api error: %w", g.opts.Provider, err)
}

// Info returns metadata describing this generator implementation.
func (g *Generator) Info() generator.Info {
	return generator.Info{
		Name:         g.opts.Model,
		Provider:     g.opts.Provider,
		StrictLimits: g.opts.StrictLimits,
	}
}
