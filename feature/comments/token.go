package comments

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// storedToken accepts both the golang.org/x/oauth2 token layout and the
// google-auth authorized-user layout ("token" key).
type storedToken struct {
	AccessToken  string `json:"access_token"`
	Token        string `json:"token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	Expiry       string `json:"expiry"`
}

// LoadToken reads an OAuth token file.
func LoadToken(path string) (*oauth2.Token, error) {
	// #nosec G304 -- path comes from configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var st storedToken
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to decode token %s: %w", path, err)
	}

	tok := &oauth2.Token{
		AccessToken:  st.AccessToken,
		TokenType:    st.TokenType,
		RefreshToken: st.RefreshToken,
	}
	if tok.AccessToken == "" {
		tok.AccessToken = st.Token
	}
	if st.Expiry != "" {
		tok.Expiry = parseExpiry(st.Expiry)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("token %s holds neither an access nor a refresh token", path)
	}
	return tok, nil
}

// SaveToken writes tok in the golang.org/x/oauth2 layout with owner-only permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token %s: %w", path, err)
	}
	return nil
}

func parseExpiry(raw string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t
	}
	// google-auth writes naive UTC timestamps.
	if t, err := time.Parse("2006-01-02T15:04:05.999999", raw); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// persistingSource saves every refreshed token back to disk.
type persistingSource struct {
	base   oauth2.TokenSource
	path   string
	logger *zap.Logger

	mu   sync.Mutex
	last string
}

func newPersistingSource(base oauth2.TokenSource, path string, initial *oauth2.Token, logger *zap.Logger) *persistingSource {
	return &persistingSource{base: base, path: path, logger: logger, last: initial.AccessToken}
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := SaveToken(p.path, tok); err != nil {
			p.logger.Warn("Failed to persist refreshed OAuth token", zap.String("path", p.path), zap.Error(err))
		}
	}
	return tok, nil
}
