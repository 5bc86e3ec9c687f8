package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"jira-chat-relay/internal/parser/mapping"
	"jira-chat-relay/internal/parser/preprocess"
	"jira-chat-relay/pkg/log"
)

// Descriptor is one mapping-document file: the events it claims, the static
// template reference, and the mapping document itself.
type Descriptor struct {
	Events   []string          `yaml:"events"`
	Template string            `yaml:"template"`
	Document *mapping.Document `yaml:"document"`
}

// Loader reads metadata parser descriptors from a directory. A descriptor
// that fails to load produces an inert parser for its events (or no parser at
// all when even the event list is unreadable); the defect is logged once and
// never retried.
type Loader struct {
	dir     string
	pre     *preprocess.Pipeline
	builder *mapping.Builder
	l       log.Logger
}

// NewLoader creates a Loader over the given descriptor directory.
func NewLoader(dir string, pre *preprocess.Pipeline, builder *mapping.Builder, l log.Logger) *Loader {
	return &Loader{dir: dir, pre: pre, builder: builder, l: l}
}

// Load reads every descriptor in the directory and returns the metadata
// parser set. A missing directory yields an empty set, not an error.
func (ld *Loader) Load(ctx context.Context) []Parser {
	entries, err := os.ReadDir(ld.dir)
	if err != nil {
		ld.l.Errorf(ctx, "mapping directory %q unreadable: %v", ld.dir, err)
		return nil
	}

	var parsers []Parser
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isDescriptor(name) {
			continue
		}
		parsers = append(parsers, ld.loadFile(ctx, filepath.Join(ld.dir, name)))
	}
	return parsers
}

func (ld *Loader) loadFile(ctx context.Context, path string) Parser {
	raw, err := os.ReadFile(path)
	if err != nil {
		ld.l.Errorf(ctx, "mapping descriptor %q unreadable, parser inert: %v", path, err)
		return &inertParser{}
	}

	var desc Descriptor
	if err := yaml.Unmarshal(raw, &desc); err != nil {
		ld.l.Errorf(ctx, "mapping descriptor %q invalid, parser inert: %v", path, err)
		return &inertParser{}
	}

	if desc.Document == nil {
		ld.l.Errorf(ctx, "mapping descriptor %q has no document, parser inert", path)
		return &inertParser{events: desc.Events}
	}
	if err := desc.Document.Validate(); err != nil {
		ld.l.Errorf(ctx, "mapping descriptor %q failed validation, parser inert: %v", path, err)
		return &inertParser{events: desc.Events}
	}

	return &metadataParser{
		events:   desc.Events,
		template: desc.Template,
		doc:      desc.Document,
		pre:      ld.pre,
		builder:  ld.builder,
		l:        ld.l,
	}
}

// Watch reloads the metadata parser set into reg whenever the descriptor
// directory changes. Blocks until ctx is done.
func (ld *Loader) Watch(ctx context.Context, reg *Registry) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(ld.dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			ld.l.Infof(ctx, "mapping directory changed (%s), reloading metadata parsers", event.Name)
			reg.SetMetadataParsers(ld.Load(ctx))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ld.l.Warnf(ctx, "mapping directory watch error: %v", err)
		}
	}
}

func isDescriptor(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
