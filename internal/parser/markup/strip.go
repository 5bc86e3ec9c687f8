// Package markup normalizes tracker wiki markup into plain text. The
// pipeline is a fixed, ordered rule table; later rules assume earlier ones
// already ran, so the order is part of the contract.
package markup

import (
	"regexp"
	"strings"
)

// lineBreak is a private sentinel for a line break. Raw and escaped newlines
// are folded into it early so the remaining rules never have to reason about
// line boundaries, and it is converted back to "\n" as the final step.
const lineBreak = "\x01"

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Emphasis wrappers sit at word boundaries; each pattern captures a prefix
// group, the content, and a suffix group and keeps only the middle.
const (
	boundaryPre  = `(^|[\s` + lineBreak + `])`
	boundaryPost = `([\s` + lineBreak + `.,!?;:]|$)`
)

var emoticons = []string{
	"(flagoff)", "(flag)", "(off)", "(on)",
	"(*r)", "(*g)", "(*b)", "(*y)", "(*)",
	"(y)", "(n)", "(i)", "(/)", "(x)", "(!)", "(+)", "(-)", "(?)",
	":)", ":(", ":P", ":D", ";)",
}

var rules = []rule{
	// 1. Header and quote block markers.
	{regexp.MustCompile(`(?m)^(?:h[0-6]|bq)\.[ \t]*`), ""},

	// 2. Raw or literal-escaped line breaks become the sentinel.
	{regexp.MustCompile(`\\r\\n|\\n|` + "\r\n|\n"), lineBreak},

	// 3. Emoticons.
	{regexp.MustCompile(emoticonPattern()), ""},

	// 4. Leftover raw mention tokens collapse to their key. Real mention
	// substitution happens in the caller before stripping, when supported.
	{regexp.MustCompile(`\[~([\w.]+)\]`), "$1"},

	// 5. Paired emphasis, monospace, super/subscript, strikethrough, anchors.
	{regexp.MustCompile(boundaryPre + `\*([^*]+)\*` + boundaryPost), "$1$2$3"},
	{regexp.MustCompile(boundaryPre + `_([^_]+)_` + boundaryPost), "$1$2$3"},
	{regexp.MustCompile(boundaryPre + `\?\?([^?]+)\?\?` + boundaryPost), "$1$2$3"},
	{regexp.MustCompile(boundaryPre + `\+([^+]+)\+` + boundaryPost), "$1$2$3"},
	{regexp.MustCompile(boundaryPre + `-([^-]+)-` + boundaryPost), "$1$2$3"},
	{regexp.MustCompile(`\{\{([^{}]*)\}\}`), "$1"},
	{regexp.MustCompile(`\^([^^\s]+)\^`), "$1"},
	{regexp.MustCompile(`~([^~\s]+)~`), "$1"},
	{regexp.MustCompile(`\{anchor:[^}]*\}`), ""},

	// 6. Color wrappers.
	{regexp.MustCompile(`(?s)\{color:[^}]*\}(.*?)\{color\}`), "$1"},

	// 7. Quote wrappers.
	{regexp.MustCompile(`(?s)\{quote\}(.*?)\{quote\}`), "$1"},

	// 8. [title|target] links keep the target.
	{regexp.MustCompile(`\[([^|\]]*)\|([^\]]*)\]`), "$2"},

	// 9. Mailto links keep the address.
	{regexp.MustCompile(`\[mailto:([^\]]+)\]`), "$1"},

	// 10. Code and noformat blocks keep their body.
	{regexp.MustCompile(`(?s)\{code(?::[^}]*)?\}(.*?)\{code\}`), "$1"},
	{regexp.MustCompile(`(?s)\{noformat\}(.*?)\{noformat\}`), "$1"},

	// 11. Panel openers keep their title; bare closers are dropped.
	{regexp.MustCompile(`\{panel:title=([^}]*)\}`), "$1"},
	{regexp.MustCompile(`\{panel[^}]*\}`), ""},

	// 12. Table pipes become spaces.
	{regexp.MustCompile(`\|`), " "},

	// 13. Sentinel back to a single newline.
	{regexp.MustCompile(lineBreak), "\n"},
}

func emoticonPattern() string {
	quoted := make([]string, len(emoticons))
	for i, e := range emoticons {
		quoted[i] = regexp.QuoteMeta(e)
	}
	return strings.Join(quoted, "|")
}

// Strip rewrites wiki markup to plain text. Pure and idempotent: stripping
// already-plain text returns it unchanged.
func Strip(text string) string {
	for _, r := range rules {
		// Boundary groups can consume the separator between two adjacent
		// matches, so each rule runs to a fixpoint.
		for {
			next := r.re.ReplaceAllString(text, r.repl)
			if next == text {
				break
			}
			text = next
		}
	}
	return text
}
