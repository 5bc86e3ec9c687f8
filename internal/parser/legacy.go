package parser

import (
	"context"
	"fmt"

	"jira-chat-relay/internal/model"
	"jira-chat-relay/internal/parser/jsonpath"
	"jira-chat-relay/internal/parser/markup"
	"jira-chat-relay/internal/parser/mention"
	"jira-chat-relay/internal/parser/preprocess"
	"jira-chat-relay/pkg/log"
)

// NewLegacyParsers builds the legacy generation: inline-markup messages with
// a plain-text twin kept in lockstep.
func NewLegacyParsers(pre *preprocess.Pipeline, mentions *mention.Resolver, l log.Logger) []Parser {
	return []Parser{
		&legacyIssueParser{pre: pre, l: l},
		&legacyCommentParser{pre: pre, mentions: mentions, l: l},
	}
}

// legacyIssueParser renders issue lifecycle events.
type legacyIssueParser struct {
	pre *preprocess.Pipeline
	l   log.Logger
}

func (p *legacyIssueParser) Events() []string {
	return []string{
		model.EventIssueCreated,
		model.EventIssueUpdated,
		model.EventIssueDeleted,
		model.EventTypeIssueCreated,
		model.EventTypeIssueUpdated,
		model.EventTypeIssueAssigned,
		model.EventTypeIssueGeneric,
	}
}

func (p *legacyIssueParser) Parse(ctx context.Context, payload map[string]any) (*model.Message, error) {
	if restrictedComment(payload) {
		return nil, nil
	}
	p.pre.Run(ctx, payload)

	actor := actorName(payload)
	key := jsonpath.String(payload, "issue.key", nil)
	link := issueLink(payload)

	var text, html string
	switch eventKey(payload) {
	case model.EventTypeIssueCreated, model.EventIssueCreated:
		summary := jsonpath.String(payload, "issue.fields.summary", nil)
		text = fmt.Sprintf("%s created issue %s: %s", actor, key, summary)
		html = fmt.Sprintf("%s created issue %s: %s", actor, link, summary)
	case model.EventTypeIssueAssigned:
		assignee := jsonpath.String(payload, "issue.fields.assignee.displayName", nil)
		text = fmt.Sprintf("%s assigned issue %s to %s", actor, key, assignee)
		html = fmt.Sprintf("%s assigned issue %s to %s", actor, link, assignee)
	case model.EventTypeIssueGeneric:
		status := jsonpath.String(payload, "issue.fields.status.name", nil)
		if status == "" {
			text = fmt.Sprintf("%s updated issue %s", actor, key)
			html = fmt.Sprintf("%s updated issue %s", actor, link)
			break
		}
		text = fmt.Sprintf("%s changed status of issue %s to %s", actor, key, status)
		html = fmt.Sprintf("%s changed status of issue %s to %s", actor, link, status)
	case model.EventIssueDeleted:
		text = fmt.Sprintf("%s deleted issue %s", actor, key)
		html = text
	default:
		text = fmt.Sprintf("%s updated issue %s", actor, key)
		html = fmt.Sprintf("%s updated issue %s", actor, link)
	}

	return &model.Message{Text: text, Markup: html}, nil
}

// legacyCommentParser renders comment events with dual-format mention
// substitution.
type legacyCommentParser struct {
	pre      *preprocess.Pipeline
	mentions *mention.Resolver
	l        log.Logger
}

func (p *legacyCommentParser) Events() []string {
	return []string{
		model.EventCommentCreated,
		model.EventCommentUpdated,
		model.EventTypeIssueCommented,
		model.EventTypeIssueCommentEdited,
	}
}

func (p *legacyCommentParser) Parse(ctx context.Context, payload map[string]any) (*model.Message, error) {
	if restrictedComment(payload) {
		return nil, nil
	}
	p.pre.Run(ctx, payload)

	actor := jsonpath.String(payload, "comment.author.displayName", nil)
	if actor == "" {
		actor = actorName(payload)
	}
	key := jsonpath.String(payload, "issue.key", nil)
	link := issueLink(payload)
	body := jsonpath.String(payload, "comment.body", nil)

	// Substitute resolved mentions before stripping so unresolved tokens are
	// the only ones left for the stripper to collapse. Safe and presentation
	// variants stay in lockstep.
	users := p.mentions.Resolve(ctx, mention.Find(body))
	safeBody := markup.Strip(mention.SubstituteSafe(body, users))
	presBody := markup.Strip(mention.SubstitutePresentation(body, users))

	verb := "commented on"
	if eventKey(payload) == model.EventTypeIssueCommentEdited {
		verb = "edited a comment on"
	}

	return &model.Message{
		Text:   fmt.Sprintf("%s %s issue %s: %s", actor, verb, key, safeBody),
		Markup: fmt.Sprintf("%s %s issue %s: %s", actor, verb, link, presBody),
	}, nil
}

// eventKey returns the fine-grained event type when present, else the coarse
// webhook event, mirroring dispatch priority.
func eventKey(payload map[string]any) string {
	if fine := jsonpath.String(payload, model.KeyIssueEventType, nil); fine != "" {
		return fine
	}
	return jsonpath.String(payload, model.KeyWebhookEvent, nil)
}

func actorName(payload map[string]any) string {
	if name := jsonpath.String(payload, "user.displayName", nil); name != "" {
		return name
	}
	if name := jsonpath.String(payload, "user.name", nil); name != "" {
		return name
	}
	return "Someone"
}

// issueLink renders the anchor for the permalink injected by preprocessing,
// falling back to the bare key when no permalink could be derived.
func issueLink(payload map[string]any) string {
	key := jsonpath.String(payload, "issue.key", nil)
	permalink := jsonpath.String(payload, "issue.permalink", nil)
	if permalink == "" {
		return key
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, permalink, key)
}
