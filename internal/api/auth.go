package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"

	"github.com/olyannaa/workstream/internal/model"
)

// accessTokenLifetime is assumed when the backend does not report an
// expiry. The refresh endpoint is hit once the access token is older.
const accessTokenLifetime = 15 * time.Minute

// authDir returns the directory holding the token and session files.
func authDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".wst", "auth"), nil
}

func tokenFilePath() (string, error) {
	dir, err := authDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tokens.json"), nil
}

func sessionFilePath() (string, error) {
	dir, err := authDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// SaveToken persists the token pair with restrictive permissions.
func SaveToken(tok *oauth2.Token) error {
	path, err := tokenFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// LoadToken reads the stored token pair. Returns an error telling the user
// to log in when no token exists.
func LoadToken() (*oauth2.Token, error) {
	path, err := tokenFilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New("not logged in; run 'wst login' first")
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", path, err)
	}
	return &tok, nil
}

// SaveSession persists the logged-in user alongside the tokens.
func SaveSession(user model.User) error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// LoadSession reads the stored user identity.
func LoadSession() (model.User, error) {
	path, err := sessionFilePath()
	if err != nil {
		return model.User{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.User{}, errors.New("not logged in; run 'wst login' first")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("reading session file: %w", err)
	}
	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return model.User{}, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	return user, nil
}

// loginResponse is the wire shape of /auth/login and /auth/refresh.
type loginResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresIn    int64      `json:"expiresIn,omitempty"`
	User         *model.User `json:"user,omitempty"`
}

func (r loginResponse) token(now time.Time) *oauth2.Token {
	lifetime := accessTokenLifetime
	if r.ExpiresIn > 0 {
		lifetime = time.Duration(r.ExpiresIn) * time.Second
	}
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       now.Add(lifetime),
	}
}

// Login authenticates against the backend and returns the token pair and
// the user identity.
func Login(ctx context.Context, baseURL, email, password string) (*oauth2.Token, model.User, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, model.User{}, fmt.Errorf("encoding login request: %w", err)
	}
	resp, err := postJSON(ctx, baseURL+"/auth/login", body)
	if err != nil {
		return nil, model.User{}, err
	}
	if resp.User == nil {
		return nil, model.User{}, errors.New("login response missing user")
	}
	return resp.token(time.Now()), *resp.User, nil
}

// refreshTokenSource exchanges the refresh token at the backend's own
// refresh endpoint. It implements oauth2.TokenSource so the standard
// client plumbing drives when a refresh happens.
type refreshTokenSource struct {
	baseURL string
	ctx     context.Context
	token   *oauth2.Token
}

func (s *refreshTokenSource) Token() (*oauth2.Token, error) {
	if s.token.Valid() {
		return s.token, nil
	}
	if s.token.RefreshToken == "" {
		return nil, errors.New("session expired; run 'wst login' again")
	}
	body, err := json.Marshal(map[string]string{"refreshToken": s.token.RefreshToken})
	if err != nil {
		return nil, fmt.Errorf("encoding refresh request: %w", err)
	}
	resp, err := postJSON(s.ctx, s.baseURL+"/auth/refresh", body)
	if err != nil {
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	s.token = resp.token(time.Now())
	if resp.User != nil {
		// Keep the stored identity current; roles can change server-side.
		_ = SaveSession(*resp.User)
	}
	return s.token, nil
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts oauth2.TokenSource
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	// Best-effort save; ignore errors.
	_ = SaveToken(tok)
	return tok, nil
}

// NewHTTPClient returns an http.Client that injects the bearer token and
// transparently refreshes and persists it.
func NewHTTPClient(ctx context.Context, baseURL string, tok *oauth2.Token) *http.Client {
	src := &refreshTokenSource{baseURL: baseURL, ctx: ctx, token: tok}
	ts := oauth2.ReuseTokenSource(tok, src)
	return oauth2.NewClient(ctx, &savingTokenSource{ts: ts})
}

// postJSON posts an unauthenticated JSON body to an auth endpoint.
func postJSON(ctx context.Context, url string, body []byte) (loginResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return loginResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
	if err != nil {
		return loginResponse{}, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return loginResponse{}, fmt.Errorf("reading auth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return loginResponse{}, fmt.Errorf("auth error %d: %s", resp.StatusCode, errorMessage(data))
	}

	var out loginResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return loginResponse{}, fmt.Errorf("decoding auth response: %w", err)
	}
	return out, nil
}
