package model

// Environment is the deployment environment name.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// Well-known top-level keys of a tracker webhook payload. The payload has no
// fixed schema beyond these; everything else is walked dynamically.
const (
	KeyWebhookEvent   = "webhookEvent"
	KeyIssueEventType = "issue_event_type_name"
	KeyIssue          = "issue"
	KeyFields         = "fields"
	KeyComment        = "comment"
	KeyChangelog      = "changelog"
	KeyUser           = "user"
)

// Coarse webhook event names sent by the tracker.
const (
	EventIssueCreated   = "jira:issue_created"
	EventIssueUpdated   = "jira:issue_updated"
	EventIssueDeleted   = "jira:issue_deleted"
	EventCommentCreated = "comment_created"
	EventCommentUpdated = "comment_updated"
)

// Fine-grained issue event type names. When present these take priority over
// the coarse webhook event for parser dispatch.
const (
	EventTypeIssueCreated       = "issue_created"
	EventTypeIssueUpdated       = "issue_updated"
	EventTypeIssueAssigned      = "issue_assigned"
	EventTypeIssueGeneric       = "issue_generic"
	EventTypeIssueCommented     = "issue_commented"
	EventTypeIssueCommentEdited = "issue_comment_edited"
)

// Generation identifies which parser generation is active.
type Generation string

const (
	GenerationLegacy   Generation = "legacy"
	GenerationMetadata Generation = "metadata"
)
