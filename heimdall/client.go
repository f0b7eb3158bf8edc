package heimdall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prefeitura-rio/gorio-session-gateway/normalize"
)

// ErrUnauthorized means Heimdall rejected the access token. Callers treat it
// as "session invalid", not as a transport failure.
var ErrUnauthorized = errors.New("heimdall: unauthorized")

// UserFetcher is the upstream lookup the cache wraps. Satisfied by *Client;
// tests substitute fakes.
type UserFetcher interface {
	FetchUser(ctx context.Context, accessToken string) (*User, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ UserFetcher = (*Client)(nil)

// NewClient creates a Heimdall client. The timeout bounds every lookup so a
// hung upstream cannot wedge the guard path.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchUser asks Heimdall for the user behind an access token.
func (c *Client) FetchUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("[Heimdall FetchUser] build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[Heimdall FetchUser] request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("[Heimdall FetchUser] unexpected status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("[Heimdall FetchUser] decode response: %w", err)
	}
	sanitize(&user)
	return &user, nil
}

// sanitize cleans up known data-quality issues in Heimdall responses:
// double-encoded accents in display names, duplicate group entries, and
// structurally invalid CPFs (which are dropped rather than passed along).
func sanitize(user *User) {
	user.DisplayName = normalize.RepairAccents(user.DisplayName)
	user.Groups = normalize.DedupeCategories(user.Groups)
	if user.CPF != "" && !normalize.ValidCPF(user.CPF) {
		log.Warn().Str("user_id", user.ID).Msg("[Heimdall FetchUser] dropping malformed CPF")
		user.CPF = ""
	}
}
