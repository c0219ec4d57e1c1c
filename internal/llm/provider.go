package llm

import "context"

// Provider is the "complete a chat conversation" capability every vendor variant implements.
type Provider interface {
	// Complete sends the conversation and returns the model's reply.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the vendor name this provider was selected by.
	Name() string
}
