// Package models defines the vault data model shared by the storage layer,
// the stores and the CLI.
package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category partitions folders and items. The three built-in values have
// dedicated item collections; any other non-empty string is a custom category.
type Category string

const (
	// CategoryNone means "no category selected" (the home screen).
	CategoryNone      Category = ""
	CategoryNotes     Category = "notes"
	CategoryPasswords Category = "passwords"
	CategoryDocuments Category = "documents"
)

// BuiltinCategories lists the categories backed by an item collection, in
// the order the home screen shows them.
var BuiltinCategories = []Category{CategoryNotes, CategoryPasswords, CategoryDocuments}

// IsBuiltin reports whether c is one of notes, passwords or documents.
func (c Category) IsBuiltin() bool {
	switch c {
	case CategoryNotes, CategoryPasswords, CategoryDocuments:
		return true
	}
	return false
}

// Label returns c with its first letter upper-cased, e.g. "Passwords".
func (c Category) Label() string {
	s := string(c)
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func (c Category) String() string { return string(c) }

// NormalizeCategory turns user input into a category value: surrounding
// whitespace is trimmed and the result lower-cased.
func NormalizeCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}
