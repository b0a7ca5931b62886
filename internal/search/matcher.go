package search

import (
	"strings"

	"github.com/synapsemed/synapse/internal/models"
)

// Matches reports whether rec passes the type, category, and text gates of q.
func Matches(rec models.Record, q Query) bool {
	if q.Type != "" && rec.Kind != q.Type {
		return false
	}
	if q.Category != All && strings.ToLower(rec.Category) != q.Category {
		return false
	}
	return textMatches(rec, q.Text)
}

// LabelMatches reports whether the query text occurs in the record's title or name.
func LabelMatches(rec models.Record, q Query) bool {
	return contains(rec.Label, q.Text)
}

func textMatches(rec models.Record, text string) bool {
	for _, field := range []string{rec.Label, rec.Author, rec.Class, rec.Category} {
		if field != "" && contains(field, text) {
			return true
		}
	}
	// Every string contains the empty string, including absent fields.
	return text == ""
}

func contains(field, text string) bool {
	return strings.Contains(strings.ToLower(field), text)
}
