// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/pdiddy/pagebench/internal/httputil"
	"github.com/pdiddy/pagebench/pkg/types"
)

// openRouterBaseURL is the OpenAI-compatible OpenRouter endpoint.
const openRouterBaseURL = "https://openrouter.ai/api/v1"

// Client is a VisionBackend over a langchaingo model. Callers construct
// it explicitly, use it for one run, and let it go out of scope; there is
// no package-level client state.
type Client struct {
	model       llms.Model
	ocrModel    string
	refineModel string
}

// NewClient builds a vision model client from cfg. The provider selects
// the SDK backend; openrouter is the OpenAI-compatible API with the
// OpenRouter base URL. The refinement pass falls back to the
// transcription model when no refine model is configured.
func NewClient(cfg types.OCRConfig) (*Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("no model configured")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}

	refineModel := cfg.RefineModel
	if refineModel == "" {
		refineModel = cfg.Model
	}

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &retryTransport{maxRetries: cfg.MaxRetries},
	}

	var model llms.Model
	var err error
	switch cfg.Provider {
	case types.ProviderAnthropic:
		model, err = anthropic.New(
			anthropic.WithModel(cfg.Model),
			anthropic.WithToken(cfg.APIKey),
		)
	case types.ProviderOpenAI:
		opts := []openai.Option{
			openai.WithModel(cfg.Model),
			openai.WithToken(cfg.APIKey),
			openai.WithHTTPClient(httpClient),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
	case types.ProviderOpenRouter, "":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = openRouterBaseURL
		}
		model, err = openai.New(
			openai.WithModel(cfg.Model),
			openai.WithToken(cfg.APIKey),
			openai.WithBaseURL(baseURL),
			openai.WithHTTPClient(httpClient),
		)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", cfg.Provider, err)
	}

	return &Client{
		model:       model,
		ocrModel:    cfg.Model,
		refineModel: refineModel,
	}, nil
}

// Transcribe extracts the page image as markdown using the OCR model.
func (c *Client) Transcribe(ctx context.Context, img Image) (string, error) {
	return c.generate(ctx, c.ocrModel, ocrSystemPrompt, ocrUserPrompt, img)
}

// Refine corrects a first-pass transcription against the page image.
func (c *Client) Refine(ctx context.Context, draft string, img Image) (string, error) {
	return c.generate(ctx, c.refineModel, refineSystemPrompt, refineUserPrompt(draft), img)
}

func (c *Client) generate(ctx context.Context, model, system, user string, img Image) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(user),
				llms.BinaryPart(img.MediaType, img.Data),
			},
		},
	}

	resp, err := c.model.GenerateContent(ctx, messages, llms.WithModel(model))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model %s returned no choices", model)
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// retryTransport retries rate-limited responses below the SDK so the
// model call sees only the final outcome.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	client := &http.Client{Transport: base}
	return httputil.DoWithRetry(req.Context(), client, req, t.maxRetries)
}
