package router

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/agentos-io/agentos/pkg/models"
)

// fakeCompleter fails for every model id in failing and answers for the
// rest, recording the models it was asked for.
type fakeCompleter struct {
	failing map[string]bool
	calls   []string
	content string
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls = append(f.calls, req.Model)
	if f.failing[req.Model] {
		return openai.ChatCompletionResponse{}, errors.New("upstream unavailable")
	}
	return openai.ChatCompletionResponse{
		Model: req.Model,
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content}},
		},
	}, nil
}

func TestCompleteFailsOver(t *testing.T) {
	catalog := DefaultCatalog()
	chain := catalog.FallbackChain(ChainOptions{TaskType: "coding"})
	if len(chain) < 3 {
		t.Fatal("need at least 3 chain entries")
	}

	fake := &fakeCompleter{
		failing: map[string]bool{chain[0].ID: true, chain[1].ID: true},
		content: "ok",
	}
	c := NewClientWithTransport(fake, catalog, false)

	resp, model, err := c.Complete(context.Background(), openai.ChatCompletionRequest{
		Messages: []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
	}, ChainOptions{TaskType: "coding"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if model.ID != chain[2].ID {
		t.Errorf("served by %s, want %s", model.ID, chain[2].ID)
	}
	if resp.Choices[0].Message.Content != "ok" {
		t.Errorf("unexpected content %q", resp.Choices[0].Message.Content)
	}
	if len(fake.calls) != 3 {
		t.Errorf("expected 3 attempts, got %d (%v)", len(fake.calls), fake.calls)
	}
}

func TestCompleteExhaustion(t *testing.T) {
	catalog := DefaultCatalog()
	failing := make(map[string]bool)
	for _, m := range catalog.List("") {
		failing[m.ID] = true
	}
	c := NewClientWithTransport(&fakeCompleter{failing: failing}, catalog, false)

	_, _, err := c.Complete(context.Background(), openai.ChatCompletionRequest{}, ChainOptions{TaskType: "general"})
	if !errors.Is(err, ErrRoutingExhausted) {
		t.Fatalf("expected ErrRoutingExhausted, got %v", err)
	}
}

func TestInvokeWrapsTransportError(t *testing.T) {
	catalog := DefaultCatalog()
	c := NewClientWithTransport(&fakeCompleter{failing: map[string]bool{"opencode/kimi-k2.5-free": true}}, catalog, false)

	desc, _ := catalog.Lookup("kimi_k25")
	_, err := c.Invoke(context.Background(), desc, openai.ChatCompletionRequest{})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	if te.Model != desc.ID {
		t.Errorf("transport error names %s, want %s", te.Model, desc.ID)
	}
}

func TestInvokeRejectsEmptyChoices(t *testing.T) {
	// A transport that answers with no choices is as unusable as one
	// that errors.
	empty := completerFunc(func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, nil
	})
	c := NewClientWithTransport(empty, nil, false)

	desc := models.ModelDescriptor{ID: "test/model"}
	_, err := c.Invoke(context.Background(), desc, openai.ChatCompletionRequest{})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
}

func TestChatReturnsText(t *testing.T) {
	fake := &fakeCompleter{content: "the answer"}
	c := NewClientWithTransport(fake, nil, false)

	text, model, err := c.Chat(context.Background(), "question", ChatOptions{TaskType: "general", System: "sys"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if text != "the answer" {
		t.Errorf("got %q", text)
	}
	if model.ID == "" {
		t.Error("expected serving model descriptor")
	}
}

type completerFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)

func (f completerFunc) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f(ctx, req)
}
