package comments

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func TestLoadToken(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		access  string
		refresh string
		expiry  time.Time
		wantErr bool
	}{
		{
			name:    "OAuth2Layout",
			content: `{"access_token":"at","token_type":"Bearer","refresh_token":"rt","expiry":"2025-03-01T12:00:00Z"}`,
			access:  "at",
			refresh: "rt",
			expiry:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:    "AuthorizedUserLayout",
			content: `{"token":"pt","refresh_token":"rt","client_id":"c","expiry":"2025-03-01T12:00:00.500000"}`,
			access:  "pt",
			refresh: "rt",
			expiry:  time.Date(2025, 3, 1, 12, 0, 0, 500000000, time.UTC),
		},
		{
			name:    "RefreshOnly",
			content: `{"refresh_token":"rt"}`,
			refresh: "rt",
		},
		{name: "Empty", content: `{}`, wantErr: true},
		{name: "Invalid", content: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			tok, err := LoadToken(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.access, tok.AccessToken)
			assert.Equal(t, tt.refresh, tok.RefreshToken)
			assert.True(t, tok.Expiry.Equal(tt.expiry), "expiry %v", tok.Expiry)
		})
	}

	_, err := LoadToken(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestSaveToken_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	tok := &oauth2.Token{AccessToken: "at", RefreshToken: "rt", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, SaveToken(path, tok))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "at", loaded.AccessToken)
	assert.Equal(t, "rt", loaded.RefreshToken)
	assert.True(t, loaded.Expiry.Equal(tok.Expiry))
}

type sequenceSource struct {
	tokens []*oauth2.Token
	i      int
}

func (s *sequenceSource) Token() (*oauth2.Token, error) {
	tok := s.tokens[s.i]
	if s.i < len(s.tokens)-1 {
		s.i++
	}
	return tok, nil
}

func TestPersistingSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	initial := &oauth2.Token{AccessToken: "first"}
	base := &sequenceSource{tokens: []*oauth2.Token{initial, {AccessToken: "second", RefreshToken: "rt"}}}

	ps := newPersistingSource(base, path, initial, zap.NewNop())

	_, err := ps.Token()
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "unchanged token must not be written")

	tok, err := ps.Token()
	require.NoError(t, err)
	assert.Equal(t, "second", tok.AccessToken)

	saved, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "second", saved.AccessToken)
}
