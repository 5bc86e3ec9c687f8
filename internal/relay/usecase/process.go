package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"jira-chat-relay/internal/model"
	"jira-chat-relay/internal/parser/jsonpath"
	"jira-chat-relay/internal/relay"
)

// Process turns one webhook body into a delivered chat message. Parsers that
// yield no message are reported as Ignored, never as an error.
func (uc *implUseCase) Process(ctx context.Context, input relay.ProcessInput) (relay.ProcessOutput, error) {
	var payload map[string]any
	if err := json.Unmarshal(input.Body, &payload); err != nil {
		return relay.ProcessOutput{}, fmt.Errorf("%w: %v", relay.ErrMalformedPayload, err)
	}

	event := eventKey(payload)
	out := relay.ProcessOutput{Event: event}

	msg, err := uc.registry.Dispatch(payload).Parse(ctx, payload)
	if err != nil {
		return out, fmt.Errorf("parse event %q: %w", event, err)
	}
	if msg == nil {
		uc.l.Debugf(ctx, "event %q produced no message", event)
		out.Ignored = true
		return out, nil
	}

	if msg.Template != "" {
		entity, err := json.Marshal(msg.Entity)
		if err != nil {
			return out, fmt.Errorf("serialize entity for event %q: %w", event, err)
		}
		if err := uc.notifier.SendCard(ctx, msg.Template, entity); err != nil {
			return out, fmt.Errorf("send card for event %q: %w", event, err)
		}
	} else {
		if err := uc.notifier.SendMarkup(ctx, msg.Text, msg.Markup); err != nil {
			return out, fmt.Errorf("send message for event %q: %w", event, err)
		}
	}

	uc.l.Infof(ctx, "delivered message for event %q", event)
	out.Delivered = true
	return out, nil
}

// SetGeneration switches the active parser generation.
func (uc *implUseCase) SetGeneration(gen model.Generation) {
	uc.registry.SetGeneration(gen)
}

func eventKey(payload map[string]any) string {
	if fine := jsonpath.String(payload, model.KeyIssueEventType, nil); fine != "" {
		return fine
	}
	return jsonpath.String(payload, model.KeyWebhookEvent, nil)
}
