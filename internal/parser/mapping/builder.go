package mapping

import (
	"context"
	"net/url"
	"strings"

	"jira-chat-relay/internal/directory"
	"jira-chat-relay/internal/model"
	"jira-chat-relay/internal/parser/jsonpath"
	"jira-chat-relay/internal/parser/markup"
	"jira-chat-relay/pkg/log"
)

// Builder walks a mapping document against a payload and produces the output
// entity. Stateless per call; safe for concurrent use once constructed.
type Builder struct {
	strip func(string) string
	dir   directory.Directory
	l     log.Logger
}

// NewBuilder creates a Builder using the wiki markup stripper and the given
// user directory.
func NewBuilder(dir directory.Directory, l log.Logger) *Builder {
	return &Builder{strip: markup.Strip, dir: dir, l: l}
}

// Build produces the output entity for doc, rooted under the document name.
// The root carries the document's type and version tags.
func (b *Builder) Build(ctx context.Context, doc *Document, payload map[string]any) *Entity {
	root := NewEntity()
	root.Set("type", doc.Type)
	root.Set("version", doc.Version)
	for _, obj := range doc.Objects {
		if nested := b.buildObject(ctx, obj, payload); nested != nil {
			root.Set(obj.ID, nested)
		}
	}

	out := NewEntity()
	out.Set(doc.Name, root)
	return out
}

// buildObject returns the entity for one mapping object, or nil when every
// field and child came up empty. Empty containers never reach the output.
func (b *Builder) buildObject(ctx context.Context, obj *Object, payload map[string]any) *Entity {
	e := NewEntity()
	for _, f := range obj.Fields {
		b.processField(ctx, f, payload, e)
	}
	for _, child := range obj.Objects {
		if nested := b.buildObject(ctx, child, payload); nested != nil {
			e.Set(child.ID, nested)
		}
	}
	if e.Len() == 0 {
		return nil
	}
	return e
}

func (b *Builder) processField(ctx context.Context, f *Field, payload map[string]any, e *Entity) {
	switch f.Kind {
	case KindText:
		b.processText(f, payload, e)
	case KindHTML:
		b.processHTML(f, payload, e)
	case KindArray:
		b.processArray(f, payload, e)
	case KindURL:
		b.processURL(f, payload, e)
	case KindUser:
		b.processUser(ctx, f, payload, e)
	}
}

func (b *Builder) processText(f *Field, payload map[string]any, e *Entity) {
	val := f.Value
	if val == "" {
		val = jsonpath.String(payload, f.Path, f.Filter)
	}
	if f.Strip != "" {
		val = strings.ReplaceAll(val, f.Strip, "")
	}
	if f.OmitEmpty && val == "" {
		return
	}
	e.Set(f.Key, val)
}

func (b *Builder) processHTML(f *Field, payload map[string]any, e *Entity) {
	val := jsonpath.String(payload, f.Path, f.Filter)
	e.Set(f.Key, b.strip(val))
}

func (b *Builder) processArray(f *Field, payload map[string]any, e *Entity) {
	arr := jsonpath.Array(payload, f.Path, f.Filter)
	if len(arr) == 0 {
		// An empty source array omits the key entirely, not an empty list.
		return
	}

	tmpl := f.Elem
	items := make([]*Entity, 0, len(arr))
	for _, node := range arr {
		var val string
		switch {
		case tmpl.Value != "":
			val = tmpl.Value
		case tmpl.Path != "":
			val = jsonpath.String(node, tmpl.Path, tmpl.Filter)
		default:
			// No path means the element itself is the value.
			val = jsonpath.Stringify(node)
		}
		if tmpl.Strip != "" {
			val = strings.ReplaceAll(val, tmpl.Strip, "")
		}

		wrapper := NewEntity()
		if f.ElemType != "" {
			wrapper.Set("type", f.ElemType)
		}
		if f.ElemVersion != 0 {
			wrapper.Set("version", f.ElemVersion)
		}
		wrapper.Set(tmpl.Key, val)
		items = append(items, wrapper)
	}
	e.Set(f.Key, items)
}

func (b *Builder) processURL(f *Field, payload map[string]any, e *Entity) {
	seed := jsonpath.String(payload, f.Path, f.Filter)
	base := baseURL(seed)

	var parts []string
	for _, seg := range f.Segments {
		val := seg.Value
		if val == "" {
			val = jsonpath.String(payload, seg.Path, f.Filter)
		}
		if val != "" {
			parts = append(parts, val)
		}
	}
	if len(parts) == 0 {
		return
	}
	e.Set(f.Key, base+"/"+strings.Join(parts, "/"))
}

func (b *Builder) processUser(ctx context.Context, f *Field, payload map[string]any, e *Entity) {
	var user *model.User
	if email := jsonpath.String(payload, f.EmailPath, f.Filter); email != "" && b.dir != nil {
		var err error
		user, err = b.dir.LookupByEmail(ctx, email)
		if err != nil {
			b.l.Warnf(ctx, "user field %q: directory lookup failed: %v", f.Key, err)
			user = nil
		}
	}

	sub := NewEntity()
	if user != nil && user.ID != "" {
		sub.Set("id", user.ID)
		sub.Set("email", user.Email)
		sub.Set("name", user.Name)
		sub.Set("displayName", user.DisplayName)
	} else {
		// The fallback never carries partial data from the found branch.
		sub.Set("displayName", jsonpath.String(payload, f.DisplayNamePath, f.Filter))
	}
	e.Set(f.Key, sub)
}

// baseURL reduces a seed URL to scheme://host[:port]. Unparseable seeds
// reduce to the empty string, never an error.
func baseURL(seed string) string {
	u, err := url.Parse(seed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
