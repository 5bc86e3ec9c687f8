// Package parser classifies incoming tracker webhook payloads and turns them
// into outbound chat messages. Two parser generations exist: the legacy
// generation renders inline markup, the metadata generation projects the
// payload through an externally authored mapping document.
package parser

import (
	"context"

	"jira-chat-relay/internal/model"
	"jira-chat-relay/internal/parser/jsonpath"
)

// Parser turns one webhook payload into an outbound message.
// A nil message with a nil error means the event is intentionally ignored.
type Parser interface {
	// Events lists the event-type keys this parser handles.
	Events() []string

	// Parse builds the outbound message. The payload is a working copy owned
	// by the parser for the duration of the call.
	Parse(ctx context.Context, payload map[string]any) (*model.Message, error)
}

// restrictedComment reports whether the payload's comment carries a
// visibility restriction. Restricted comments always suppress output since
// the restriction cannot be honored downstream.
func restrictedComment(payload map[string]any) bool {
	if _, ok := jsonpath.Resolve(payload, "comment", nil); !ok {
		return false
	}
	vis, ok := jsonpath.Resolve(payload, "comment.visibility", nil)
	return ok && vis != nil
}
