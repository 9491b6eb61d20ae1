package cli

import "errors"

var (
	errNotLoggedIn   = errors.New("please log in first")
	errNoCategory    = errors.New("open a category first")
	errNoFolder      = errors.New("cd into a folder first")
	errEmptyName     = errors.New("name must not be empty")
	errUnknownFolder = errors.New("no such folder in this category")
)

// usageError is returned when a command gets the wrong arguments.
type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }
