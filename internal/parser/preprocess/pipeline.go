// Package preprocess augments a raw webhook payload before mapping. The
// steps run in a fixed order and mutate the working payload in place; every
// step degrades to "leave as-is" on malformed input.
package preprocess

import (
	"context"
	"net/url"
	"strings"

	"jira-chat-relay/internal/directory"
	"jira-chat-relay/internal/parser/jsonpath"
	"jira-chat-relay/internal/parser/markup"
	"jira-chat-relay/pkg/log"
)

const (
	iconSubpath  = "/images/icons/"
	iconFilename = "issue_16.png"

	// UnassignedDisplayName is injected when an issue has no assignee.
	UnassignedDisplayName = "Unassigned"

	// DefaultEpicLinkField is the changelog field name carrying epic links.
	DefaultEpicLinkField = "Epic Link"
)

// Pipeline runs the fixed preprocessing sequence. The application base URL is
// provided by the hosting layer and may legitimately be empty.
type Pipeline struct {
	appURL        func() string
	dir           directory.Directory
	epicLinkField string
	l             log.Logger
}

// New creates a Pipeline. An empty epicLinkField falls back to the default.
func New(appURL func() string, dir directory.Directory, epicLinkField string, l log.Logger) *Pipeline {
	if epicLinkField == "" {
		epicLinkField = DefaultEpicLinkField
	}
	return &Pipeline{appURL: appURL, dir: dir, epicLinkField: epicLinkField, l: l}
}

// Run executes all steps against payload, mutating it in place. The payload
// is owned by the pipeline for the duration of the call.
func (p *Pipeline) Run(ctx context.Context, payload map[string]any) {
	p.injectIcon(payload)
	p.injectPermalink(payload)
	p.normalizeSummary(payload)
	p.normalizeDescription(payload)
	p.uppercaseStatus(payload)
	p.augmentActingUser(ctx, payload)
	p.augmentAssignee(ctx, payload)
	p.extractEpic(payload)
	p.escapeIconURLs(payload)
}

// 1. Icon URL from the configured application base URL.
func (p *Pipeline) injectIcon(payload map[string]any) {
	iconURL := ""
	if base := p.appURL(); base != "" {
		iconURL = strings.TrimSuffix(base, "/") + iconSubpath + iconFilename
	}
	payload["icon"] = map[string]any{"url": iconURL}
}

// 2. Browsable issue permalink derived from the API self link.
func (p *Pipeline) injectPermalink(payload map[string]any) {
	issue := jsonpath.Map(payload, "issue", nil)
	if issue == nil {
		return
	}
	permalink := ""
	if base := baseURL(jsonpath.String(payload, "issue.self", nil)); base != "" {
		if key := jsonpath.String(payload, "issue.key", nil); key != "" {
			permalink = base + "/browse/" + key
		}
	}
	issue["permalink"] = permalink
}

// 3. Summary: escape and convert line breaks.
func (p *Pipeline) normalizeSummary(payload map[string]any) {
	fields := jsonpath.Map(payload, "issue.fields", nil)
	if fields == nil {
		return
	}
	if summary, ok := fields["summary"].(string); ok {
		fields["summary"] = escapeText(summary)
	}
}

// 4. Description: strip wiki markup first, then escape. Empty stays empty.
func (p *Pipeline) normalizeDescription(payload map[string]any) {
	fields := jsonpath.Map(payload, "issue.fields", nil)
	if fields == nil {
		return
	}
	description, ok := fields["description"].(string)
	if !ok || description == "" {
		return
	}
	fields["description"] = escapeText(markup.Strip(description))
}

// 5. Status display name uppercased.
func (p *Pipeline) uppercaseStatus(payload map[string]any) {
	status := jsonpath.Map(payload, "issue.fields.status", nil)
	if status == nil {
		return
	}
	if name, ok := status["name"].(string); ok && name != "" {
		status["name"] = strings.ToUpper(name)
	}
}

// 6. Acting user enriched by directory lookup; untouched when not found.
func (p *Pipeline) augmentActingUser(ctx context.Context, payload map[string]any) {
	if user := jsonpath.Map(payload, "user", nil); user != nil {
		p.augmentUser(ctx, user)
	}
}

// 7. Assignee enriched like the acting user, or defaulted to Unassigned.
func (p *Pipeline) augmentAssignee(ctx context.Context, payload map[string]any) {
	fields := jsonpath.Map(payload, "issue.fields", nil)
	if fields == nil {
		return
	}
	assignee := jsonpath.Map(payload, "issue.fields.assignee", nil)
	if assignee == nil || jsonpath.String(payload, "issue.fields.assignee.displayName", nil) == "" {
		fields["assignee"] = map[string]any{"displayName": UnassignedDisplayName}
		return
	}
	p.augmentUser(ctx, assignee)
}

func (p *Pipeline) augmentUser(ctx context.Context, user map[string]any) {
	email, _ := user["emailAddress"].(string)
	if email == "" || p.dir == nil {
		return
	}
	resolved, err := p.dir.LookupByEmail(ctx, email)
	if err != nil {
		p.l.Warnf(ctx, "user augmentation lookup failed: %v", err)
		return
	}
	if resolved == nil {
		return
	}
	user["id"] = resolved.ID
	user["emailAddress"] = resolved.Email
	user["name"] = resolved.Name
	user["displayName"] = resolved.DisplayName
}

// 8. Epic extracted from the changelog and linked like a browsable issue.
func (p *Pipeline) extractEpic(payload map[string]any) {
	issue := jsonpath.Map(payload, "issue", nil)
	if issue == nil {
		return
	}
	items := jsonpath.Array(payload, "changelog.items", nil)
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if name, _ := m["field"].(string); name != p.epicLinkField {
			continue
		}
		epicName, _ := m["toString"].(string)
		if epicName == "" {
			continue
		}
		epic := map[string]any{"name": epicName}
		if base := baseURL(jsonpath.String(payload, "issue.self", nil)); base != "" {
			epic["url"] = base + "/browse/" + epicName
		}
		issue["epic"] = epic
		return
	}
}

// 9. Bare ampersands in type/priority icon URLs break platform markup.
func (p *Pipeline) escapeIconURLs(payload map[string]any) {
	for _, path := range []string{"issue.fields.issuetype", "issue.fields.priority"} {
		obj := jsonpath.Map(payload, path, nil)
		if obj == nil {
			continue
		}
		if iconURL, ok := obj["iconUrl"].(string); ok {
			obj["iconUrl"] = strings.ReplaceAll(iconURL, "&", "&amp;")
		}
	}
}

// escapeText html-escapes unsafe characters and converts raw line breaks to
// the platform representation.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\r\n", "<br/>")
	s = strings.ReplaceAll(s, "\n", "<br/>")
	return s
}

func baseURL(seed string) string {
	u, err := url.Parse(seed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
