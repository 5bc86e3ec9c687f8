package usecase

import (
	"jira-chat-relay/internal/parser"
	"jira-chat-relay/internal/relay"
	pkgLog "jira-chat-relay/pkg/log"
)

type implUseCase struct {
	l        pkgLog.Logger
	registry *parser.Registry
	notifier relay.Notifier
}

// New creates the relay UseCase.
func New(l pkgLog.Logger, registry *parser.Registry, notifier relay.Notifier) *implUseCase {
	return &implUseCase{
		l:        l,
		registry: registry,
		notifier: notifier,
	}
}
