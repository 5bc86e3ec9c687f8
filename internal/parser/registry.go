package parser

import (
	"context"
	"sync"
	"sync/atomic"

	"jira-chat-relay/internal/model"
	"jira-chat-relay/internal/parser/jsonpath"
	"jira-chat-relay/pkg/log"
)

// snapshot is one immutable generation registry. Generation changes install a
// whole new snapshot; readers never observe a partial swap.
type snapshot struct {
	generation model.Generation
	parsers    map[string]Parser
}

// Registry holds both parser generations and dispatches payloads against the
// active one. Dispatch is lock-free; generation swaps and metadata reloads
// are serialized by a single writer lock.
type Registry struct {
	mu       sync.Mutex
	legacy   []Parser
	metadata []Parser
	active   atomic.Pointer[snapshot]
	noop     Parser
	l        log.Logger
}

// NewRegistry builds a Registry with the legacy generation active, matching
// the protocol's initial state.
func NewRegistry(legacy, metadata []Parser, l log.Logger) *Registry {
	r := &Registry{
		legacy:   legacy,
		metadata: metadata,
		noop:     noopParser{},
		l:        l,
	}
	r.active.Store(r.buildSnapshot(model.GenerationLegacy))
	return r
}

// Generation returns the active parser generation.
func (r *Registry) Generation() model.Generation {
	return r.active.Load().generation
}

// SetGeneration atomically installs the registry for gen. Called on the
// externally signaled protocol-version event.
func (r *Registry) SetGeneration(gen model.Generation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active.Store(r.buildSnapshot(gen))
	r.l.Infof(context.Background(), "parser generation set to %s", gen)
}

// SetMetadataParsers replaces the metadata parser set, re-installing the
// active snapshot when the metadata generation is live. Used by the mapping
// directory watcher.
func (r *Registry) SetMetadataParsers(parsers []Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metadata = parsers
	if r.active.Load().generation == model.GenerationMetadata {
		r.active.Store(r.buildSnapshot(model.GenerationMetadata))
	}
}

// Dispatch picks the parser for a payload: the fine-grained issue event type
// takes priority over the coarse webhook event; unknown events get the noop
// parser, never an error.
func (r *Registry) Dispatch(payload map[string]any) Parser {
	snap := r.active.Load()
	if fine := jsonpath.String(payload, model.KeyIssueEventType, nil); fine != "" {
		if p, ok := snap.parsers[fine]; ok {
			return p
		}
	}
	if coarse := jsonpath.String(payload, model.KeyWebhookEvent, nil); coarse != "" {
		if p, ok := snap.parsers[coarse]; ok {
			return p
		}
	}
	return r.noop
}

func (r *Registry) buildSnapshot(gen model.Generation) *snapshot {
	source := r.legacy
	if gen == model.GenerationMetadata {
		source = r.metadata
	}

	parsers := make(map[string]Parser)
	for _, p := range source {
		for _, event := range p.Events() {
			if _, dup := parsers[event]; dup {
				// Last registered wins; flag it so a silent collision in the
				// mapping directory does not go unnoticed.
				r.l.Warnf(context.Background(), "duplicate parser registration for event %q, last one wins", event)
			}
			parsers[event] = p
		}
	}
	return &snapshot{generation: gen, parsers: parsers}
}
