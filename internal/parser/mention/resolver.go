// Package mention extracts [~key] user mentions from free text and
// substitutes resolved display forms.
package mention

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"jira-chat-relay/internal/directory"
	"jira-chat-relay/internal/model"
	"jira-chat-relay/pkg/log"
)

var mentionRe = regexp.MustCompile(`\[~([\w.]+)\]`)

// Find returns the unique mention keys in text, in first-seen order.
func Find(text string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range mentionRe.FindAllStringSubmatch(text, -1) {
		key := m[1]
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// Resolver resolves mention keys against the user directory.
type Resolver struct {
	dir directory.Directory
	l   log.Logger
}

// NewResolver creates a mention Resolver.
func NewResolver(dir directory.Directory, l log.Logger) *Resolver {
	return &Resolver{dir: dir, l: l}
}

// Resolve looks up each key and keeps only users that exist and carry a
// contact address. Unresolvable keys are dropped silently; their tokens stay
// in the text as inert markup for the stripper to collapse.
func (r *Resolver) Resolve(ctx context.Context, keys []string) map[string]*model.User {
	resolved := make(map[string]*model.User)
	for _, key := range keys {
		user, err := r.dir.LookupByUsername(ctx, key)
		if err != nil {
			r.l.Warnf(ctx, "mention lookup for %q failed: %v", key, err)
			continue
		}
		if user == nil || user.Email == "" {
			continue
		}
		resolved[key] = user
	}
	return resolved
}

// SubstituteSafe replaces each resolved [~key] token with the platform
// mention marker for plain text.
func SubstituteSafe(text string, users map[string]*model.User) string {
	for key, user := range users {
		text = strings.ReplaceAll(text, token(key), "@"+user.Name)
	}
	return text
}

// SubstitutePresentation replaces each resolved [~key] token with the
// contact-address mention marker used in presentation markup.
func SubstitutePresentation(text string, users map[string]*model.User) string {
	for key, user := range users {
		marker := fmt.Sprintf(`<a href="mailto:%s">@%s</a>`, user.Email, user.Name)
		text = strings.ReplaceAll(text, token(key), marker)
	}
	return text
}

func token(key string) string {
	return "[~" + key + "]"
}
