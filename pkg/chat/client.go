package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2/clientcredentials"
)

// Client is the chat platform messaging client. Messages are posted to a
// single configured room.
type Client struct {
	apiURL     string
	roomID     string
	httpClient *http.Client
}

// NewClient creates a chat client authenticating via the OAuth2 client
// credentials flow.
func NewClient(cfg Config) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	return &Client{
		apiURL:     cfg.APIURL,
		roomID:     cfg.RoomID,
		httpClient: cc.Client(context.Background()),
	}
}

// SetAPIURL overrides the chat API URL for testing purposes.
func (c *Client) SetAPIURL(url string) {
	c.apiURL = url
}

// SendMarkup posts an inline-markup message with its plain-text fallback.
func (c *Client) SendMarkup(ctx context.Context, text, markup string) error {
	req := sendMessageRequest{
		ID:     uuid.NewString(),
		RoomID: c.roomID,
		Text:   text,
		Markup: markup,
	}
	return c.post(ctx, req)
}

// SendCard posts a templated card message with its serialized entity.
func (c *Client) SendCard(ctx context.Context, template string, entity []byte) error {
	req := sendMessageRequest{
		ID:       uuid.NewString(),
		RoomID:   c.roomID,
		Template: template,
		Entity:   entity,
	}
	return c.post(ctx, req)
}

func (c *Client) post(ctx context.Context, msg sendMessageRequest) error {
	url := fmt.Sprintf("%s/messages", c.apiURL)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat API error %d: %s", resp.StatusCode, string(raw))
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("chat sendMessage failed: %s", apiResp.Description)
	}
	return nil
}
