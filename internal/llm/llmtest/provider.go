// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/ziadkadry99/autodiagram/internal/llm"
)

// Provider replays canned replies in order and records every request.
// Once the script is exhausted the last reply is repeated.
type Provider struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   []llm.CompletionRequest
}

// New returns a provider that answers with the given replies in order.
func New(replies ...string) *Provider {
	return &Provider{replies: replies}
}

// Failing returns a provider whose every call fails with err.
func Failing(err error) *Provider {
	return &Provider{err: err}
}

func (p *Provider) Name() string { return "mock" }

func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, req)
	if p.err != nil {
		return nil, p.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var reply string
	if n := len(p.replies); n > 0 {
		idx := len(p.calls) - 1
		if idx >= n {
			idx = n - 1
		}
		reply = p.replies[idx]
	}
	return &llm.CompletionResponse{
		Content:      reply,
		InputTokens:  llm.EstimateConversationTokens(req.Messages),
		OutputTokens: llm.EstimateTokens(reply),
		Model:        "mock-model",
		FinishReason: "stop",
	}, nil
}

// Calls returns a copy of the recorded requests.
func (p *Provider) Calls() []llm.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.CompletionRequest(nil), p.calls...)
}

// CallCount returns the number of Complete calls so far.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// LastUserTurn returns the content of the final user message of the most recent call.
func (p *Provider) LastUserTurn() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return ""
	}
	msgs := p.calls[len(p.calls)-1].Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
