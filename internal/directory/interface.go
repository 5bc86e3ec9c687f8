package directory

import (
	"context"

	"jira-chat-relay/internal/model"
)

// Directory resolves tracker users to chat-platform user records.
// A nil user means not found; errors are reserved for transport failures.
type Directory interface {
	LookupByEmail(ctx context.Context, email string) (*model.User, error)
	LookupByUsername(ctx context.Context, username string) (*model.User, error)
}
