package contacts

import "strings"

// Contact is an entry of the read-only directory.
// The call engine copies contacts into sessions and log entries; it never mutates them.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Valid reports whether the contact carries every field a call record needs.
func (c Contact) Valid() bool {
	return c.ID != "" && c.Name != "" && c.Phone != ""
}

// Initials returns the upper-cased first letter of each word of the name.
func (c Contact) Initials() string {
	var out []rune
	start := true
	for _, r := range c.Name {
		if r == ' ' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
		}
	}
	return strings.ToUpper(string(out))
}
