// Package search implements the federated substring search over the library catalog.
package search

import (
	"strings"

	"github.com/synapsemed/synapse/internal/models"
)

// All is the filter value that disables the type or category gate.
const All = "all"

// Query is a normalized search request. Text is lowercased and trimmed;
// an empty Type or a Category of All disables that gate.
type Query struct {
	Text     string
	Type     models.Kind
	Category string
}

// Normalize builds a Query from raw request values. It never fails:
// unknown types and empty categories degrade to All.
func Normalize(text, typ, category string) Query {
	q := Query{
		Text:     strings.ToLower(strings.TrimSpace(text)),
		Category: strings.ToLower(strings.TrimSpace(category)),
	}
	if kind, ok := models.ParseKind(typ); ok {
		q.Type = kind
	}
	if q.Category == "" {
		q.Category = All
	}
	return q
}

// TypeParam returns the wire value of the type filter.
func (q Query) TypeParam() string {
	if q.Type == "" {
		return All
	}
	return string(q.Type)
}
