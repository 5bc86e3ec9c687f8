package mapping

import (
	"fmt"

	"jira-chat-relay/internal/parser/jsonpath"
)

// Kind tags the closed set of field variants.
type Kind string

const (
	KindText  Kind = "text"  // plain text, optional literal/strip/omitEmpty
	KindHTML  Kind = "html"  // text passed through the markup stripper
	KindArray Kind = "array" // array of wrapped per-element values
	KindURL   Kind = "url"   // base URL from a seed path plus joined segments
	KindUser  Kind = "user"  // directory-resolved user with display fallback
)

// Document is the output root of a mapping document: its name becomes the
// top-level key of the built entity. Loaded once per parser and read-only
// afterwards.
type Document struct {
	Type    string    `yaml:"type"`
	Version int       `yaml:"version"`
	Name    string    `yaml:"name"`
	Objects []*Object `yaml:"objects"`
}

// Object is a recursive mapping node: an ordered list of fields plus child
// objects, contributing output under its ID only when non-empty.
type Object struct {
	ID      string    `yaml:"id"`
	Type    string    `yaml:"type,omitempty"`
	Version int       `yaml:"version,omitempty"`
	Fields  []*Field  `yaml:"fields,omitempty"`
	Objects []*Object `yaml:"objects,omitempty"`
}

// Field describes how one output key is projected from the payload. Which of
// the optional members apply depends on Kind.
type Field struct {
	Kind      Kind             `yaml:"kind"`
	Key       string           `yaml:"key"`
	Path      string           `yaml:"path,omitempty"`
	Value     string           `yaml:"value,omitempty"`
	Strip     string           `yaml:"strip,omitempty"`
	OmitEmpty bool             `yaml:"omitEmpty,omitempty"`
	Filter    *jsonpath.Filter `yaml:"filter,omitempty"`

	// array variant
	Elem        *Field `yaml:"elem,omitempty"`
	ElemType    string `yaml:"elemType,omitempty"`
	ElemVersion int    `yaml:"elemVersion,omitempty"`

	// url variant
	Segments []Segment `yaml:"segments,omitempty"`

	// user variant
	EmailPath       string `yaml:"emailPath,omitempty"`
	DisplayNamePath string `yaml:"displayNamePath,omitempty"`
}

// Segment is one element of a url field's path suffix: a literal value or a
// payload path, whichever is set.
type Segment struct {
	Path  string `yaml:"path,omitempty"`
	Value string `yaml:"value,omitempty"`
}

// Validate checks structural document defects at load time. Parsers built
// from an invalid document must go inert rather than crash.
func (d *Document) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("mapping document has no name")
	}
	return validateObjects(d.Objects)
}

func validateObjects(objs []*Object) error {
	for _, obj := range objs {
		if obj.ID == "" {
			return fmt.Errorf("mapping object has no id")
		}
		for _, f := range obj.Fields {
			if err := f.validate(); err != nil {
				return fmt.Errorf("object %q: %w", obj.ID, err)
			}
		}
		if err := validateObjects(obj.Objects); err != nil {
			return err
		}
	}
	return nil
}

func (f *Field) validate() error {
	if f.Key == "" {
		return fmt.Errorf("field has no key")
	}
	switch f.Kind {
	case KindText, KindHTML:
	case KindArray:
		if f.Elem == nil {
			return fmt.Errorf("array field %q has no elem template", f.Key)
		}
		if f.Elem.Key == "" {
			return fmt.Errorf("array field %q elem has no key", f.Key)
		}
	case KindURL:
		if len(f.Segments) == 0 {
			return fmt.Errorf("url field %q has no segments", f.Key)
		}
	case KindUser:
		if f.EmailPath == "" && f.DisplayNamePath == "" {
			return fmt.Errorf("user field %q has no paths", f.Key)
		}
		if f.Path != "" {
			// emailPath and displayNamePath resolve from the payload root; a
			// path here would be silently ignored, which hides authoring
			// mistakes.
			return fmt.Errorf("user field %q sets path, want root-relative emailPath/displayNamePath", f.Key)
		}
	default:
		return fmt.Errorf("field %q has unknown kind %q", f.Key, f.Kind)
	}
	return nil
}
