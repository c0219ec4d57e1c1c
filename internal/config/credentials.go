package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ziadkadry99/autodiagram/internal/auth"
	"github.com/ziadkadry99/autodiagram/internal/llm"
)

// GoogleServiceAccount mirrors the JSON layout of a Google service-account key file.
type GoogleServiceAccount struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
	UniverseDomain          string `json:"universe_domain"`
}

// serviceAccountFromEnv assembles a service account from individual
// environment variables. It returns nil when no private key is present.
func serviceAccountFromEnv() *GoogleServiceAccount {
	key := os.Getenv("PRIVATE_KEY")
	if key == "" {
		return nil
	}
	sa := &GoogleServiceAccount{
		Type:                    os.Getenv("GOOGLE_TYPE"),
		ProjectID:               os.Getenv("GOOGLE_PROJECT_ID"),
		PrivateKeyID:            os.Getenv("PRIVATE_KEY_ID"),
		PrivateKey:              strings.ReplaceAll(key, `\n`, "\n"),
		ClientEmail:             os.Getenv("CLIENT_EMAIL"),
		ClientID:                os.Getenv("CLIENT_ID"),
		AuthURI:                 os.Getenv("AUTH_URI"),
		TokenURI:                os.Getenv("TOKEN_URI"),
		AuthProviderX509CertURL: os.Getenv("AUTH_PROVIDER"),
		ClientX509CertURL:       os.Getenv("CLIENT_CERT_URL"),
		UniverseDomain:          os.Getenv("UNIVERS_DOMAIN"),
	}
	if sa.Type == "" {
		sa.Type = "service_account"
	}
	if sa.TokenURI == "" {
		sa.TokenURI = "https://oauth2.googleapis.com/token"
	}
	return sa
}

// googleServiceAccountJSON resolves service-account JSON from, in order,
// GOOGLE_APPLICATION_CREDENTIALS_JSON, the file named by
// GOOGLE_APPLICATION_CREDENTIALS, the individual key fields, and the
// service-account file recorded in the credential store.
func googleServiceAccountJSON() ([]byte, error) {
	if raw := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")); raw != "" {
		if !json.Valid([]byte(raw)) {
			return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS_JSON is not valid JSON")
		}
		return []byte(raw), nil
	}

	if path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading service account file: %w", err)
		}
		return data, nil
	}

	if sa := serviceAccountFromEnv(); sa != nil {
		data, err := json.Marshal(sa)
		if err != nil {
			return nil, fmt.Errorf("encoding service account: %w", err)
		}
		return data, nil
	}

	if stored, err := auth.Load(); err == nil && stored.GoogleServiceAccountFile != "" {
		data, err := os.ReadFile(stored.GoogleServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("reading stored service account file: %w", err)
		}
		return data, nil
	}
	return nil, nil
}

// LoadCredentials gathers provider credentials from the environment,
// falling back to the credential store. For Google a service account is
// preferred over an API key.
func (c *Config) LoadCredentials() (llm.Credentials, error) {
	creds := llm.Credentials{APIKey: auth.Lookup(string(c.Provider), APIKeyEnvVar(c.Provider))}

	if c.Provider != ProviderGoogle {
		if creds.APIKey == "" {
			return creds, fmt.Errorf("%s is not set; export it or run `autodiagram auth set %s`", APIKeyEnvVar(c.Provider), c.Provider)
		}
		return creds, nil
	}

	sa, err := googleServiceAccountJSON()
	if err != nil {
		return creds, err
	}
	creds.ServiceAccountJSON = sa
	creds.Location = c.Google.Location
	if creds.APIKey == "" && len(sa) == 0 {
		return creds, fmt.Errorf("no Google credentials: set GOOGLE_API_KEY or a service account")
	}
	return creds, nil
}
