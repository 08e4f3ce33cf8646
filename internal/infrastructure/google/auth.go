// Package google reads mail and calendar data from Google APIs using
// pre-provisioned OAuth refresh tokens. There is no interactive auth flow;
// tokens are injected through the environment for headless deployments.
package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"golang.org/x/oauth2"
)

// TokensEnvVar holds a base64-encoded JSON object mapping account email to
// its stored OAuth token.
const TokensEnvVar = "MATUTINO_GOOGLE_TOKENS"

const googleTokenURL = "https://oauth2.googleapis.com/token"

// storedToken mirrors one entry of the tokens document.
type storedToken struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
}

// Account is one authenticated Google account.
type Account struct {
	Email  string
	scopes []string
	config *oauth2.Config
	token  *oauth2.Token
}

// HasScope reports whether the account's token carries a scope containing
// the given fragment.
func (a *Account) HasScope(fragment string) bool {
	for _, s := range a.scopes {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}

// HTTPClient returns a client that refreshes the access token as needed.
func (a *Account) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, a.config.TokenSource(ctx, a.token))
}

// AccountsFromEnv decodes the token bundle from the environment. A missing
// variable is a normal empty result, not an error.
func AccountsFromEnv() ([]*Account, error) {
	raw := os.Getenv(TokensEnvVar)
	if raw == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", TokensEnvVar, err)
	}

	var bundle map[string]storedToken
	if err := json.Unmarshal(decoded, &bundle); err != nil {
		return nil, fmt.Errorf("parse %s: %w", TokensEnvVar, err)
	}

	accounts := make([]*Account, 0, len(bundle))
	for email, tok := range bundle {
		if tok.RefreshToken == "" {
			continue
		}
		accounts = append(accounts, &Account{
			Email:  email,
			scopes: tok.Scopes,
			config: &oauth2.Config{
				ClientID:     tok.ClientID,
				ClientSecret: tok.ClientSecret,
				Scopes:       tok.Scopes,
				Endpoint:     oauth2.Endpoint{TokenURL: googleTokenURL},
			},
			token: &oauth2.Token{
				AccessToken:  tok.Token,
				RefreshToken: tok.RefreshToken,
			},
		})
	}

	// Map iteration order is random; keep account order stable.
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Email < accounts[j].Email })
	return accounts, nil
}
