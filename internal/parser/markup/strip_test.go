package markup_test

import (
	"testing"

	"jira-chat-relay/internal/parser/markup"
)

func TestStrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"Header And Color", "h1. Title\r\n*bold* and {color:red}warn{color}", "Title\nbold and warn"},
		{"All Header Levels", "h0. a\nh6. b\nbq. c", "a\nb\nc"},
		{"Escaped Line Breaks", `line one\r\nline two\nline three`, "line one\nline two\nline three"},
		{"Emoticons Removed", "done (/) great (y) :) keep text", "done  great   keep text"},
		{"Raw Mention Collapses", "ping [~john.doe] please", "ping john.doe please"},
		{"Emphasis Pairs", "*strong* _em_ ??cite?? +ins+ -del-", "strong em cite ins del"},
		{"Adjacent Emphasis", "*a* *b* *c*", "a b c"},
		{"Monospace", "run {{go test}} now", "run go test now"},
		{"Superscript Subscript", "x^2^ and H~2~O", "x2 and H2O"},
		{"Hyphenated Word Survives", "a well-known e-mail", "a well-known e-mail"},
		{"Anchor Dropped", "see {anchor:section1}here", "see here"},
		{"Quote Block", "{quote}wise words{quote}", "wise words"},
		{"Link Keeps Target", "[the docs|https://example.com/docs]", "https://example.com/docs"},
		{"Mailto Keeps Address", "mail [mailto:ops@example.com] now", "mail ops@example.com now"},
		{"Code Block", "{code:go}func main() {}\nok{code}", "func main() {}\nok"},
		{"Noformat Block", "{noformat}raw | text{noformat}", "raw   text"},
		{"Panel Title Kept", "{panel:title=Note}body{panel}", "Notebody"},
		{"Table Pipes", "|| a || b ||\n| 1 | 2 |", "  a   b   \n  1   2  "},
		{"Plain Text Unchanged", "nothing to do here", "nothing to do here"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := markup.Strip(tc.in); got != tc.want {
				t.Errorf("Strip(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStripIdempotent(t *testing.T) {
	inputs := []string{
		"h1. Title\r\n*bold* and {color:red}warn{color}",
		"{quote}q{quote} [a|b] [mailto:x@y.z] {{m}} (/) :)",
		"{code}multi\nline{code} | pipes | everywhere |",
		"plain text with\nnewlines",
		"-a- -b- *c* _d_",
		"",
	}
	for _, in := range inputs {
		once := markup.Strip(in)
		twice := markup.Strip(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
