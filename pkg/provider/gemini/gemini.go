// Package gemini implements provider.Provider against the Gemini API
// using the google.golang.org/genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"google.golang.org/genai"

	"github.com/jmkoo/daedap/pkg/api"
	"github.com/jmkoo/daedap/pkg/debug"
	"github.com/jmkoo/daedap/pkg/provider"
)

// Config holds settings for the Gemini provider.
type Config struct {
	// APIKey authenticates against the Gemini API. Required.
	APIKey string

	// Model is the model identifier, e.g. "gemini-2.5-flash". Required.
	Model string
}

// Provider calls the Gemini API. Safe for concurrent use.
type Provider struct {
	client *genai.Client
	model  string
}

var _ provider.Provider = (*Provider)(nil)

// New creates a Gemini provider.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini: model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	return &Provider{client: client, model: cfg.Model}, nil
}

// Name returns "gemini".
func (p *Provider) Name() string { return "gemini" }

// Model returns the configured model identifier.
func (p *Provider) Model() string { return p.model }

// Generate performs one non-streaming model round.
func (p *Provider) Generate(ctx context.Context, req *provider.Request) (*provider.Reply, error) {
	contents, config := translateRequest(req)
	debug.Log("provider", "generate round", "model", p.model, "contents", len(contents), "tools", len(req.Tools))

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, mapError(err)
	}

	reply := translateResponse(resp)
	debug.Log("provider", "generate done", "model", p.model, "text_len", len(reply.Text), "calls", len(reply.Calls))
	return reply, nil
}

// Stream performs one streaming model round. Text fragments are forwarded
// as they arrive; tool calls are only reported on the final chunk, once the
// whole round has been aggregated.
func (p *Provider) Stream(ctx context.Context, req *provider.Request) (<-chan provider.Chunk, error) {
	contents, config := translateRequest(req)
	debug.Log("provider", "stream round", "model", p.model, "contents", len(contents), "tools", len(req.Tools))

	ch := make(chan provider.Chunk)
	go func() {
		defer close(ch)

		reply := &provider.Reply{}
		for resp, err := range p.client.Models.GenerateContentStream(ctx, p.model, contents, config) {
			if err != nil {
				select {
				case ch <- provider.Chunk{Err: mapError(err)}:
				case <-ctx.Done():
				}
				return
			}

			partial := translateResponse(resp)
			reply.Calls = append(reply.Calls, partial.Calls...)
			if partial.Text != "" {
				reply.Text += partial.Text
				select {
				case ch <- provider.Chunk{Text: partial.Text}:
				case <-ctx.Done():
					return
				}
			}
		}

		select {
		case ch <- provider.Chunk{Reply: reply}:
		case <-ctx.Done():
		}
	}()

	return ch, nil
}

// Close releases provider resources. The genai client holds no connections
// that need explicit teardown.
func (p *Provider) Close() error { return nil }

// mapError converts an SDK failure into a model-class api.Error, carrying
// the backend's status code and status name when present.
func mapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return api.NewModelError(strconv.Itoa(apiErr.Code), apiErr.Message)
	}
	return api.NewModelError("", err.Error())
}
