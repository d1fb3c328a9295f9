package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/agentos-io/agentos/pkg/models"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	// requestTimeout bounds a single model invocation. Failover, not
	// retry, handles slow backends.
	requestTimeout = 90 * time.Second

	defaultMaxTokens   = 4096
	defaultTemperature = 0.7
)

// ErrRoutingExhausted indicates every model in a fallback chain failed.
var ErrRoutingExhausted = errors.New("all models in fallback chain failed")

// TransportError wraps a failure from one backend invocation. The model
// field identifies which chain entry failed.
type TransportError struct {
	Model string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ChatCompleter is the transport surface the router needs from the
// OpenAI-compatible client. *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client routes chat completions across the catalog's fallback chains.
type Client struct {
	api            ChatCompleter
	catalog        *Catalog
	paidAuthorized bool
}

// Options configure a router client.
type Options struct {
	// APIKey is the OpenRouter API key.
	APIKey string
	// BaseURL overrides the OpenRouter endpoint; empty means the default.
	BaseURL string
	// Referer and Title populate the attribution headers OpenRouter uses
	// for app rankings. Both optional.
	Referer string
	Title   string
	// PaidAuthorized admits paid-tier models into fallback chains.
	PaidAuthorized bool
	// Catalog overrides the built-in model catalog; nil means default.
	Catalog *Catalog
}

// attributionTransport injects the OpenRouter attribution headers on
// every request.
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewClient builds a router client backed by the OpenRouter API.
func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = defaultBaseURL
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{
		Timeout: requestTimeout,
		Transport: &attributionTransport{
			referer: opts.Referer,
			title:   opts.Title,
		},
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Client{
		api:            openai.NewClientWithConfig(cfg),
		catalog:        catalog,
		paidAuthorized: opts.PaidAuthorized,
	}
}

// NewClientWithTransport builds a router client over a caller-supplied
// transport. Used by tests and by embedders that already hold a client.
func NewClientWithTransport(api ChatCompleter, catalog *Catalog, paidAuthorized bool) *Client {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Client{api: api, catalog: catalog, paidAuthorized: paidAuthorized}
}

// Catalog returns the model catalog the client routes over.
func (c *Client) Catalog() *Catalog { return c.catalog }

// Invoke sends one request to one model. It never fails over; a failure
// is returned as a *TransportError for the caller to act on.
func (c *Client) Invoke(ctx context.Context, model models.ModelDescriptor, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	req.Model = model.ID
	if req.MaxTokens == 0 {
		req.MaxTokens = defaultMaxTokens
	}
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return openai.ChatCompletionResponse{}, &TransportError{Model: model.ID, Err: err}
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionResponse{}, &TransportError{Model: model.ID, Err: errors.New("empty choices in response")}
	}
	return resp, nil
}

// ChatOptions tune a simple (no-tools) chat completion.
type ChatOptions struct {
	// TaskType selects the fallback chain ordering.
	TaskType string
	// System is the system prompt; empty omits it.
	System string
	// Temperature; zero means the default.
	Temperature float32
	// MaxTokens; zero means the default.
	MaxTokens int
}

// Chat runs a single-turn completion, walking the fallback chain until
// one model answers. Returns the answer text and the descriptor that
// served it.
func (c *Client) Chat(ctx context.Context, prompt string, opts ChatOptions) (string, models.ModelDescriptor, error) {
	var messages []openai.ChatCompletionMessage
	if opts.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: opts.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	resp, model, err := c.Complete(ctx, openai.ChatCompletionRequest{
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   opts.MaxTokens,
	}, ChainOptions{TaskType: opts.TaskType})
	if err != nil {
		return "", models.ModelDescriptor{}, err
	}
	return resp.Choices[0].Message.Content, model, nil
}

// Complete walks the fallback chain for the given constraints, invoking
// each model once until one succeeds. Exhaustion wraps
// ErrRoutingExhausted together with the last transport failure.
func (c *Client) Complete(ctx context.Context, req openai.ChatCompletionRequest, chainOpts ChainOptions) (openai.ChatCompletionResponse, models.ModelDescriptor, error) {
	chainOpts.PaidAuthorized = chainOpts.PaidAuthorized || c.paidAuthorized
	chain := c.catalog.FallbackChain(chainOpts)

	var lastErr error
	for _, model := range chain {
		if err := ctx.Err(); err != nil {
			return openai.ChatCompletionResponse{}, models.ModelDescriptor{}, err
		}
		resp, err := c.Invoke(ctx, model, req)
		if err != nil {
			lastErr = err
			continue
		}
		return resp, model, nil
	}
	return openai.ChatCompletionResponse{}, models.ModelDescriptor{},
		fmt.Errorf("%w: %v", ErrRoutingExhausted, lastErr)
}
