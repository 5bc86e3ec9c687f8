package chat

import "encoding/json"

// Config holds chat platform connection settings.
type Config struct {
	APIURL       string
	RoomID       string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// sendMessageRequest is the outbound message envelope.
type sendMessageRequest struct {
	ID       string          `json:"id"`
	RoomID   string          `json:"roomId"`
	Text     string          `json:"text,omitempty"`
	Markup   string          `json:"markup,omitempty"`
	Template string          `json:"template,omitempty"`
	Entity   json.RawMessage `json:"entity,omitempty"`
}

// APIResponse is the chat platform's standard response wrapper.
type APIResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}
