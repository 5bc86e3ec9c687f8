package directory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"jira-chat-relay/internal/model"
)

// cacheEntry remembers both hits and misses so repeated lookups of unknown
// users do not hammer the directory service.
type cacheEntry struct {
	user *model.User
}

// Cached decorates a Directory with an expirable LRU cache.
type Cached struct {
	next    Directory
	byEmail *expirable.LRU[string, cacheEntry]
	byName  *expirable.LRU[string, cacheEntry]
}

// NewCached wraps next with per-key caches of the given size and TTL.
func NewCached(next Directory, size int, ttl time.Duration) *Cached {
	return &Cached{
		next:    next,
		byEmail: expirable.NewLRU[string, cacheEntry](size, nil, ttl),
		byName:  expirable.NewLRU[string, cacheEntry](size, nil, ttl),
	}
}

// LookupByEmail resolves a user by contact address, serving from cache when
// possible.
func (c *Cached) LookupByEmail(ctx context.Context, email string) (*model.User, error) {
	if entry, ok := c.byEmail.Get(email); ok {
		return entry.user, nil
	}
	user, err := c.next.LookupByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	c.byEmail.Add(email, cacheEntry{user: user})
	return user, nil
}

// LookupByUsername resolves a user by account name, serving from cache when
// possible.
func (c *Cached) LookupByUsername(ctx context.Context, username string) (*model.User, error) {
	if entry, ok := c.byName.Get(username); ok {
		return entry.user, nil
	}
	user, err := c.next.LookupByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	c.byName.Add(username, cacheEntry{user: user})
	return user, nil
}
