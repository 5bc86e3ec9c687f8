package model

// Message is the outbound chat message produced by a parser.
//
// The legacy generation inlines the safe plain text and the presentation
// markup, kept in lockstep. The metadata generation carries a template
// reference plus the entity that gets bound to it at send time; Entity is the
// ordered entity object built by the mapping engine and serializes via its
// own json.Marshaler.
type Message struct {
	Template string
	Text     string
	Markup   string
	Entity   any
}

// User is a directory user record. Absence of a user is represented by a nil
// *User, never by an error.
type User struct {
	ID          string // stable identity in the chat platform
	Name        string // account name, used for safe @-mentions
	DisplayName string
	Email       string // contact address; empty means not mentionable
}
