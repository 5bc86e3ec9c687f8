package parser

import (
	"context"

	"jira-chat-relay/internal/model"
	"jira-chat-relay/internal/parser/mapping"
	"jira-chat-relay/internal/parser/preprocess"
	"jira-chat-relay/pkg/log"
)

// metadataParser projects a payload through one mapping document and binds
// the result to a static template reference.
type metadataParser struct {
	events   []string
	template string
	doc      *mapping.Document
	pre      *preprocess.Pipeline
	builder  *mapping.Builder
	l        log.Logger
}

func (p *metadataParser) Events() []string { return p.events }

func (p *metadataParser) Parse(ctx context.Context, payload map[string]any) (*model.Message, error) {
	if restrictedComment(payload) {
		return nil, nil
	}
	p.pre.Run(ctx, payload)

	entity := p.builder.Build(ctx, p.doc, payload)
	return &model.Message{Template: p.template, Entity: entity}, nil
}
