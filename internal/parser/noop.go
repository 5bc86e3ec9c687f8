package parser

import (
	"context"

	"jira-chat-relay/internal/model"
)

// noopParser is returned for events the integration intentionally ignores.
type noopParser struct{}

func (noopParser) Events() []string { return nil }

func (noopParser) Parse(ctx context.Context, payload map[string]any) (*model.Message, error) {
	return nil, nil
}

// inertParser stands in for a parser whose mapping document failed to load.
// It keeps claiming its events but never produces a message.
type inertParser struct {
	events []string
}

func (p *inertParser) Events() []string { return p.events }

func (p *inertParser) Parse(ctx context.Context, payload map[string]any) (*model.Message, error) {
	return nil, nil
}
