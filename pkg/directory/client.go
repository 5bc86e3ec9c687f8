package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"jira-chat-relay/internal/model"
)

// Client is the user directory lookup client. Absent users are reported as a
// nil user without error, errors are reserved for transport and server
// failures.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

// NewClient creates a directory client with the given bearer token.
func NewClient(cfg Config) *Client {
	return &Client{
		apiURL:     cfg.URL,
		token:      cfg.Token,
		httpClient: &http.Client{},
	}
}

// SetAPIURL overrides the directory API URL for testing purposes.
func (c *Client) SetAPIURL(url string) {
	c.apiURL = url
}

// LookupByEmail finds the user registered under the given email address.
func (c *Client) LookupByEmail(ctx context.Context, email string) (*model.User, error) {
	return c.lookup(ctx, "email", email)
}

// LookupByUsername finds the user registered under the given username.
func (c *Client) LookupByUsername(ctx context.Context, username string) (*model.User, error) {
	return c.lookup(ctx, "username", username)
}

func (c *Client) lookup(ctx context.Context, field, value string) (*model.User, error) {
	reqURL := fmt.Sprintf("%s/users?%s=%s", c.apiURL, field, url.QueryEscape(value))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("directory API error %d: %s", resp.StatusCode, string(raw))
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return &model.User{
		ID:          user.ID,
		Name:        user.Username,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}, nil
}
