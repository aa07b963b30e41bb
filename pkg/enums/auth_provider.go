package enums

import (
	"fmt"
	"strings"
)

// AuthProvider identifies how an account signs in.
type AuthProvider string

const (
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderEmail  AuthProvider = "email"
)

var validAuthProviders = []AuthProvider{
	AuthProviderGoogle,
	AuthProviderEmail,
}

func (p AuthProvider) String() string {
	return string(p)
}

// IsValid reports whether the value is a known AuthProvider.
func (p AuthProvider) IsValid() bool {
	for _, candidate := range validAuthProviders {
		if candidate == p {
			return true
		}
	}
	return false
}

// UsesPassword reports whether accounts on this provider carry a local password.
func (p AuthProvider) UsesPassword() bool {
	return p == AuthProviderEmail
}

// ParseAuthProvider converts raw input into an AuthProvider.
func ParseAuthProvider(value string) (AuthProvider, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validAuthProviders {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid auth provider %q", value)
}
