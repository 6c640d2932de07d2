package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	defaultBillzAuthURL = "https://api-admin.billz.ai/v1/auth/login"
	defaultBillzBaseURL = "https://api-admin.billz.ai/v2"
	tokenRefreshLeeway  = 30 * time.Second
)

// PosClient talks to the Billz point-of-sale API the storefront menu is
// sourced from. Access tokens are cached and refreshed behind a mutex so
// concurrent requests reuse one login.
type PosClient struct {
	authURL string
	baseURL string
	secret  string
	client  *http.Client

	mu          sync.RWMutex
	token       string
	tokenExpiry time.Time
}

// NewPosClient builds a POS client from the BILLZ_* environment, matching
// how deploys configure it.
func NewPosClient() *PosClient {
	authURL := strings.TrimSpace(os.Getenv("BILLZ_AUTH_URL"))
	if authURL == "" {
		authURL = defaultBillzAuthURL
	}

	baseURL := strings.TrimSpace(os.Getenv("BILLZ_URL"))
	if baseURL == "" {
		baseURL = defaultBillzBaseURL
	}

	return &PosClient{
		authURL: strings.TrimRight(authURL, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  strings.TrimSpace(os.Getenv("BILLZ_API_SECRET_KEY")),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type billzAuthRequest struct {
	SecretToken string `json:"secret_token"`
}

type billzAuthResponse struct {
	Data struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	} `json:"data"`
	Error any `json:"error,omitempty"`
}

// Token returns a cached access token, fetching a new one if needed.
func (p *PosClient) Token() (string, error) {
	return p.getToken(false)
}

func (p *PosClient) getToken(force bool) (string, error) {
	if !force {
		if token, ok := p.cachedToken(); ok {
			return token, nil
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Check again in case another goroutine refreshed while we waited for the lock.
	if !force {
		if token := p.currentTokenLocked(); token != "" {
			return token, nil
		}
	}

	if p.secret == "" {
		return "", errors.New("BILLZ_API_SECRET_KEY is not configured")
	}

	body, err := json.Marshal(billzAuthRequest{SecretToken: p.secret})
	if err != nil {
		return "", fmt.Errorf("marshal Billz auth payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.authURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create Billz auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute Billz auth request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read Billz auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("Billz auth request failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var authResp billzAuthResponse
	if err := json.Unmarshal(respBody, &authResp); err != nil {
		return "", fmt.Errorf("unmarshal Billz auth response: %w", err)
	}

	if authResp.Data.AccessToken == "" {
		return "", errors.New("Billz auth response missing access_token")
	}

	p.token = authResp.Data.AccessToken
	if authResp.Data.ExpiresIn > 0 {
		p.tokenExpiry = time.Now().Add(time.Duration(authResp.Data.ExpiresIn) * time.Second)
	} else {
		// Fallback to a short lifetime when expiry is not provided.
		p.tokenExpiry = time.Now().Add(5 * time.Minute)
	}

	return p.token, nil
}

func (p *PosClient) cachedToken() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	token := p.currentTokenLocked()
	if token == "" {
		return "", false
	}
	return token, true
}

func (p *PosClient) currentTokenLocked() string {
	if p.token == "" {
		return ""
	}
	if p.tokenExpiry.IsZero() {
		return p.token
	}
	if time.Now().Add(tokenRefreshLeeway).After(p.tokenExpiry) {
		return ""
	}
	return p.token
}

// get performs a GET against the POS API, retrying once on 401.
func (p *PosClient) get(path string) ([]byte, error) {
	build := func(token string) (*http.Request, error) {
		target := p.baseURL + "/" + strings.TrimLeft(path, "/")
		req, err := http.NewRequest(http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return req, nil
	}

	do := func(req *http.Request) (int, []byte, error) {
		resp, err := p.client.Do(req)
		if err != nil {
			return 0, nil, fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return 0, nil, fmt.Errorf("read response: %w", err)
		}
		return resp.StatusCode, body, nil
	}

	token, err := p.Token()
	if err != nil {
		return nil, err
	}

	req, err := build(token)
	if err != nil {
		return nil, err
	}

	status, body, err := do(req)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		// Token likely expired; refresh and retry once.
		token, err = p.getToken(true)
		if err != nil {
			return nil, err
		}
		req, err = build(token)
		if err != nil {
			return nil, err
		}
		status, body, err = do(req)
		if err != nil {
			return nil, err
		}
	}

	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("Billz request failed: status %d, body: %s", status, string(body))
	}

	return body, nil
}
