package relay

import (
	"context"

	"jira-chat-relay/internal/model"
)

// UseCase processes raw webhook bodies into delivered chat messages.
type UseCase interface {
	// Process classifies and parses one webhook body, delivering the outbound
	// message when a parser yields one.
	Process(ctx context.Context, input ProcessInput) (ProcessOutput, error)

	// SetGeneration switches the active parser generation on a protocol
	// version-change signal.
	SetGeneration(gen model.Generation)
}

// Notifier is the messaging-layer contract consumed by the relay.
type Notifier interface {
	// SendMarkup delivers a legacy-generation message: inline markup with its
	// plain-text twin.
	SendMarkup(ctx context.Context, text, markup string) error

	// SendCard delivers a metadata-generation message: a template reference
	// plus the serialized entity bound to it.
	SendCard(ctx context.Context, template string, entity []byte) error
}
