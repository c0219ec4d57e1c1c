package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedProvider matches any *UnsupportedProviderError via errors.Is.
	ErrUnsupportedProvider = errors.New("unsupported provider")
	// ErrInvalidCredentials matches any *InvalidCredentialsError via errors.Is.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UnsupportedProviderError is returned when a vendor name is not one of the known providers.
type UnsupportedProviderError struct {
	Name string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider %q: must be one of openai, claude, google", e.Name)
}

func (e *UnsupportedProviderError) Is(target error) bool {
	return target == ErrUnsupportedProvider
}

// InvalidCredentialsError is returned when the credentials do not have the shape a vendor needs.
type InvalidCredentialsError struct {
	Provider string
	Reason   string
}

func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials for %s: %s", e.Provider, e.Reason)
}

func (e *InvalidCredentialsError) Is(target error) bool {
	return target == ErrInvalidCredentials
}
