package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// authorize returns an HTTP client authorised for the Google APIs. Service account credentials
// are used directly, any other credentials are treated as an OAuth2 client and need a token
// file created by the 'authorise' command.
func authorize(ctx context.Context, credentials, tokens string, scopes ...string) (*http.Client, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	var kind struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(b, &kind); err != nil {
		return nil, fmt.Errorf("invalid credentials file %v (%w)", credentials, err)
	}

	if kind.Type == "service_account" {
		config, err := google.JWTConfigFromJSON(b, scopes...)
		if err != nil {
			return nil, err
		}

		return config.Client(ctx), nil
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, err
	}

	if tokens == "" {
		tokens = tokensFile(credentials)
	}

	token, err := tokenFromFile(tokens)
	if err != nil {
		return nil, fmt.Errorf("no OAuth2 token in %v - use '%v authorise' to create one (%w)", tokens, APP, err)
	}

	return config.Client(ctx, token), nil
}

// tokensFile returns <credentials>.tokens in the credentials directory.
func tokensFile(credentials string) string {
	dir, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	return filepath.Join(dir, fmt.Sprintf("%s.tokens", name))
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)

	return token, err
}

// Saves a token to a file path.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth2 token (%w)", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
