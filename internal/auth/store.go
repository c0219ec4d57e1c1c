package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PathEnvVar overrides the credentials file location.
const PathEnvVar = "AUTODIAGRAM_CREDENTIALS_FILE"

// Known credential names.
const (
	OpenAI = "openai"
	Claude = "claude"
	Google = "google"
	GitHub = "github"
)

// Names lists the credential names accepted by Set.
var Names = []string{OpenAI, Claude, Google, GitHub}

// Credentials holds stored secrets keyed by provider name.
type Credentials struct {
	// Keys maps a name from Names to an API key or access token.
	Keys map[string]string `json:"keys,omitempty"`
	// GoogleServiceAccountFile points at a service-account JSON key.
	GoogleServiceAccountFile string `json:"google_service_account_file,omitempty"`
}

// CredentialPath returns the path to the credentials file
// (~/.autodiagram/credentials.json unless PathEnvVar is set).
func CredentialPath() (string, error) {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".autodiagram", "credentials.json"), nil
}

// Load reads the credentials file.
// Returns empty credentials if the file doesn't exist.
func Load() (*Credentials, error) {
	path, err := CredentialPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{Keys: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	if creds.Keys == nil {
		creds.Keys = map[string]string{}
	}
	return &creds, nil
}

// Save writes credentials with owner-only permissions.
func Save(creds *Credentials) error {
	path, err := CredentialPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// Set stores secret under name.
func (c *Credentials) Set(name, secret string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if !validName(name) {
		return fmt.Errorf("unknown credential %q: must be one of %s", name, strings.Join(Names, ", "))
	}
	if c.Keys == nil {
		c.Keys = map[string]string{}
	}
	c.Keys[name] = strings.TrimSpace(secret)
	return nil
}

// Remove deletes the secret stored under name. An empty name removes everything.
func (c *Credentials) Remove(name string) {
	if name == "" {
		c.Keys = map[string]string{}
		c.GoogleServiceAccountFile = ""
		return
	}
	delete(c.Keys, strings.ToLower(name))
	if strings.EqualFold(name, Google) {
		c.GoogleServiceAccountFile = ""
	}
}

// Stored returns the names that have a stored secret, sorted.
func (c *Credentials) Stored() []string {
	var names []string
	for name, v := range c.Keys {
		if v != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Lookup returns the environment value of envVar when set, otherwise the
// secret stored under name. Unreadable credential files count as empty.
func Lookup(name, envVar string) string {
	if envVar != "" {
		if v := os.Getenv(envVar); v != "" {
			return v
		}
	}
	creds, err := Load()
	if err != nil {
		return ""
	}
	return creds.Keys[name]
}

func validName(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
