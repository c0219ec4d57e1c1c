package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/auth/credentials"
	"google.golang.org/genai"
)

const (
	vertexScope           = "https://www.googleapis.com/auth/cloud-platform"
	defaultVertexLocation = "us-central1"
)

// GoogleProvider implements Provider using the Gemini API (API key) or
// Vertex AI (service account) through the genai SDK.
type GoogleProvider struct {
	client      *genai.Client
	model       string
	temperature float64
}

// serviceAccount holds the fields of a service-account document the provider checks.
type serviceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// NewGoogleProvider creates a Google provider. A service account takes
// precedence over an API key when both are supplied.
func NewGoogleProvider(ctx context.Context, creds Credentials, model string, temperature float64) (*GoogleProvider, error) {
	var cfg *genai.ClientConfig

	switch {
	case len(creds.ServiceAccountJSON) > 0:
		var sa serviceAccount
		if err := json.Unmarshal(creds.ServiceAccountJSON, &sa); err != nil {
			return nil, &InvalidCredentialsError{Provider: string(VendorGoogle), Reason: "service account is not valid JSON"}
		}
		if sa.ProjectID == "" {
			return nil, &InvalidCredentialsError{Provider: string(VendorGoogle), Reason: "service account has no project_id"}
		}
		authCreds, err := credentials.DetectDefault(&credentials.DetectOptions{
			Scopes:          []string{vertexScope},
			CredentialsJSON: creds.ServiceAccountJSON,
		})
		if err != nil {
			return nil, &InvalidCredentialsError{Provider: string(VendorGoogle), Reason: err.Error()}
		}
		location := creds.Location
		if location == "" {
			location = defaultVertexLocation
		}
		cfg = &genai.ClientConfig{
			Backend:     genai.BackendVertexAI,
			Project:     sa.ProjectID,
			Location:    location,
			Credentials: authCreds,
		}

	case creds.APIKey != "":
		cfg = &genai.ClientConfig{
			Backend: genai.BackendGeminiAPI,
			APIKey:  creds.APIKey,
		}

	default:
		return nil, &InvalidCredentialsError{Provider: string(VendorGoogle), Reason: "an API key or a service account is required"}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GoogleProvider{client: client, model: model, temperature: temperature}, nil
}

func (p *GoogleProvider) Name() string {
	return string(VendorGoogle)
}

func (p *GoogleProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := resolveModel(req.Model, p.model)

	var systemParts []*genai.Part
	var contents []*genai.Content
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, &genai.Part{Text: msg.Content})
		case RoleUser:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: msg.Content}}})
		case RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: msg.Content}}})
		}
	}
	if len(contents) == 0 {
		contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: ""}}})
	}

	temperature := float32(resolveTemperature(req.Temperature, p.temperature))
	cfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if len(systemParts) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: systemParts}
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	out := &CompletionResponse{
		Content: resp.Text(),
		Model:   model,
	}
	if len(resp.Candidates) > 0 {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}
