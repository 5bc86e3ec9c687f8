package webhook

import (
	"jira-chat-relay/internal/relay"
	pkgLog "jira-chat-relay/pkg/log"
)

type Handler struct {
	relayUC  relay.UseCase
	security *SecurityValidator
	l        pkgLog.Logger
}

func NewHandler(
	relayUC relay.UseCase,
	securityConfig SecurityConfig,
	l pkgLog.Logger,
) *Handler {
	return &Handler{
		relayUC:  relayUC,
		security: NewSecurityValidator(securityConfig),
		l:        l,
	}
}
