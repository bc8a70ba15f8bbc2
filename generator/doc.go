// Package generator turns language-model completions into drawboard strokes
// and drawing commands.
//
// A Generator speaks to one model provider on behalf of one board agent. This
// package defines the provider-neutral contract (StrokeSource, Composer,
// Generator), the shared prompt text sent to every provider, and the parsing
// of model output back into core actions. The openai and anthropic
// subpackages implement the contract on top of the official SDK clients; the
// openai adapter also serves Gemini, Perplexity and OpenClaw through their
// OpenAI-compatible endpoints.
package generator
