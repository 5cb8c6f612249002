package token

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// EnvPrefix is the prefix used for all token environment variables
	EnvPrefix = "GIT_TOKEN_"
)

// DefaultAliases lists the provider variables consulted after GIT_TOKEN_<KEY>.
var DefaultAliases = map[string][]string{
	ProviderGitHub: {"GITHUB_TOKEN", "GH_TOKEN"},
}

// EnvStorage implements Source using environment variables.
type EnvStorage struct {
	Aliases map[string][]string
	lookup  func(string) (string, bool)
}

// NewEnvStorage creates a new environment variable-based token source
func NewEnvStorage() *EnvStorage {
	return &EnvStorage{Aliases: DefaultAliases, lookup: os.LookupEnv}
}

// Retrieve gets a token by its key from environment variables
func (e *EnvStorage) Retrieve(ctx context.Context, key string) (Token, error) {
	names := append([]string{e.FormatEnvKey(key)}, e.Aliases[strings.ToUpper(key)]...)

	for _, name := range names {
		data, ok := e.lookup(name)
		data = strings.TrimSpace(data)
		if !ok || data == "" {
			continue
		}

		token, err := parse(data)
		if err != nil {
			return Token{}, fmt.Errorf("%s: %w", name, err)
		}
		if IsExpired(*token) {
			return Token{}, fmt.Errorf("%s: %w", name, ErrTokenExpired)
		}
		return *token, nil
	}
	return Token{}, ErrTokenNotFound
}

// parse accepts either a bare token or its JSON encoding.
func parse(data string) (*Token, error) {
	if !strings.HasPrefix(data, "{") {
		return NewToken(data, time.Time{}, "")
	}
	var raw Token
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return NewToken(raw.Value, raw.ExpiresAt, raw.Scope)
}

// FormatEnvKey converts a token key into an environment variable name
// This is exported to allow users to predict and verify environment variable names
func (e *EnvStorage) FormatEnvKey(key string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, strings.ToUpper(key))

	return EnvPrefix + sanitized
}
