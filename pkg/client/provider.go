package client

import (
	"fmt"
	"net/http"
)

// Provider selects the api-football access path. The two paths serve the
// same API but authenticate with different header schemes, so the choice is
// an explicit configuration value, never inferred from which secret happens
// to be set.
type Provider string

const (
	// ProviderAPISports calls api-sports.io directly (x-apisports-key).
	ProviderAPISports Provider = "apisports"

	// ProviderRapidAPI goes through the RapidAPI gateway
	// (x-rapidapi-key + x-rapidapi-host).
	ProviderRapidAPI Provider = "rapidapi"
)

// Valid reports whether the provider is a known value.
func (p Provider) Valid() bool {
	return p == ProviderAPISports || p == ProviderRapidAPI
}

// apply injects the provider's authentication headers.
func (p Provider) apply(h http.Header, apiKey, host string) {
	switch p {
	case ProviderAPISports:
		h.Set("x-apisports-key", apiKey)
	case ProviderRapidAPI:
		h.Set("x-rapidapi-host", host)
		h.Set("x-rapidapi-key", apiKey)
	}
}

func (p Provider) String() string {
	return string(p)
}

// ParseProvider converts a configuration string to a Provider.
func ParseProvider(s string) (Provider, error) {
	p := Provider(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown provider %q (want %q or %q)",
			s, ProviderAPISports, ProviderRapidAPI)
	}
	return p, nil
}
