package llm

import (
	"context"
	"strings"
)

// Vendor identifies a supported LLM vendor.
type Vendor string

const (
	VendorOpenAI Vendor = "openai"
	VendorClaude Vendor = "claude"
	VendorGoogle Vendor = "google"
)

// defaultModels is used when SelectProvider is called without a model.
var defaultModels = map[Vendor]string{
	VendorOpenAI: "gpt-4o",
	VendorClaude: "claude-sonnet-4-5-20250929",
	VendorGoogle: "gemini-2.0-flash",
}

// Credentials carries whichever credential shape the selected vendor needs.
// OpenAI and Claude take an API key. Google takes an API key or a
// service-account JSON document.
type Credentials struct {
	APIKey             string
	ServiceAccountJSON []byte
	// Location is the Vertex AI region used with service-account credentials.
	Location string
}

// DefaultModel returns the model used for a vendor when none is configured.
func DefaultModel(v Vendor) string {
	return defaultModels[v]
}

// NormalizeVendor trims and lower-cases a vendor name.
func NormalizeVendor(name string) Vendor {
	return Vendor(strings.ToLower(strings.TrimSpace(name)))
}

// SelectProvider returns the provider for vendorName. The name is matched
// case-insensitively after trimming. Unknown vendors fail with
// *UnsupportedProviderError and missing or malformed credentials with
// *InvalidCredentialsError.
func SelectProvider(ctx context.Context, vendorName string, creds Credentials, model string, temperature float64) (Provider, error) {
	vendor := NormalizeVendor(vendorName)
	if _, ok := defaultModels[vendor]; !ok {
		return nil, &UnsupportedProviderError{Name: vendor.String()}
	}
	if model == "" {
		model = defaultModels[vendor]
	}

	switch vendor {
	case VendorOpenAI:
		if creds.APIKey == "" {
			return nil, &InvalidCredentialsError{Provider: string(vendor), Reason: "an API key is required"}
		}
		return NewOpenAIProvider(creds.APIKey, model, temperature), nil

	case VendorClaude:
		if creds.APIKey == "" {
			return nil, &InvalidCredentialsError{Provider: string(vendor), Reason: "an API key is required"}
		}
		return NewClaudeProvider(creds.APIKey, model, temperature), nil

	default:
		return NewGoogleProvider(ctx, creds, model, temperature)
	}
}

func (v Vendor) String() string { return string(v) }
