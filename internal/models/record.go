// Package models defines the domain types for the Synapse Med library.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags which collection a record belongs to.
type Kind string

// Record kinds, listed in collection enumeration order.
const (
	KindBook    Kind = "book"
	KindArticle Kind = "article"
	KindDrug    Kind = "drug"
	KindTopic   Kind = "topic"
)

// Kinds returns every kind in collection enumeration order.
func Kinds() []Kind {
	return []Kind{KindBook, KindArticle, KindDrug, KindTopic}
}

// collectionNames maps each kind to the plural name of its collection.
var collectionNames = map[Kind]string{
	KindBook:    "books",
	KindArticle: "articles",
	KindDrug:    "drugs",
	KindTopic:   "topics",
}

// Collection returns the collection name for k ("books" for KindBook).
func (k Kind) Collection() string {
	return collectionNames[k]
}

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	_, ok := collectionNames[k]
	return ok
}

// LabelField returns the JSON field that carries the display label.
// Drugs are labelled by name, everything else by title.
func (k Kind) LabelField() string {
	if k == KindDrug {
		return "name"
	}
	return "title"
}

// ParseKind accepts a singular kind or its collection name, case-insensitively.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, plural := range collectionNames {
		if s == string(k) || s == plural {
			return k, true
		}
	}
	return "", false
}

// Record is one searchable entry of the library. Which optional fields are
// populated depends on Kind: Author for books and articles, Class for drugs,
// Difficulty for topics.
type Record struct {
	ID         int
	Kind       Kind
	Label      string
	Author     string
	Class      string
	Category   string
	Difficulty string
}

// Key identifies a record across collections.
func (r Record) Key() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// MarshalJSON emits the wire shape {id, title|name, author?, class?, category, type, difficulty?}.
func (r Record) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":       r.ID,
		"category": r.Category,
		"type":     string(r.Kind),
	}
	out[r.Kind.LabelField()] = r.Label
	if r.Author != "" {
		out["author"] = r.Author
	}
	if r.Class != "" {
		out["class"] = r.Class
	}
	if r.Difficulty != "" {
		out["difficulty"] = r.Difficulty
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the wire shape produced by MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         int    `json:"id"`
		Title      string `json:"title"`
		Name       string `json:"name"`
		Author     string `json:"author"`
		Class      string `json:"class"`
		Category   string `json:"category"`
		Type       string `json:"type"`
		Difficulty string `json:"difficulty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, ok := ParseKind(raw.Type)
	if !ok {
		return fmt.Errorf("models: unknown record type %q", raw.Type)
	}
	label := raw.Title
	if label == "" {
		label = raw.Name
	}
	*r = Record{
		ID:         raw.ID,
		Kind:       kind,
		Label:      label,
		Author:     raw.Author,
		Class:      raw.Class,
		Category:   raw.Category,
		Difficulty: raw.Difficulty,
	}
	return nil
}

// CollectionMetadata is a lightweight description of a collection source file.
type CollectionMetadata struct {
	Name     string `json:"name"`
	Checksum string `json:"checksum"`
}
