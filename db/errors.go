package db

import (
	"strings"

	"github.com/teranos/cleaner/errors"
)

// ErrSchemaMissing is returned when a dataset file lacks the expected tables.
var ErrSchemaMissing = errors.New("dataset schema missing")

// IsMissingTable reports whether err is SQLite's "no such table" error.
// The driver does not expose a typed error for this, so the message is matched.
func IsMissingTable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSchemaMissing) {
		return true
	}
	return strings.Contains(err.Error(), "no such table")
}
