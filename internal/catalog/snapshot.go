// Package catalog holds the library's record collections and keeps them current.
package catalog

import (
	"strings"

	"github.com/synapsemed/synapse/internal/checksum"
	"github.com/synapsemed/synapse/internal/models"
)

// Collection is one typed list of records plus the digest of its source.
type Collection struct {
	Kind     models.Kind
	Records  []models.Record
	Checksum string
}

// Snapshot is an immutable view of all four collections in enumeration
// order (books, articles, drugs, topics). Reloads replace the whole
// snapshot; a Snapshot value is never mutated after construction.
type Snapshot struct {
	collections []Collection
	checksum    string
}

// NewSnapshot builds a snapshot from per-kind collections. Kinds missing
// from cols become empty collections.
func NewSnapshot(cols ...Collection) *Snapshot {
	byKind := make(map[models.Kind]Collection, len(cols))
	for _, c := range cols {
		byKind[c.Kind] = c
	}

	s := &Snapshot{collections: make([]Collection, 0, len(models.Kinds()))}
	sums := make([]string, 0, len(models.Kinds()))
	for _, k := range models.Kinds() {
		c, ok := byKind[k]
		if !ok {
			c = Collection{Kind: k}
		}
		recs := make([]models.Record, len(c.Records))
		for i, r := range c.Records {
			r.Kind = k
			recs[i] = r
		}
		c.Records = recs
		s.collections = append(s.collections, c)
		sums = append(sums, c.Checksum)
	}
	s.checksum = checksum.Combine(sums...)
	return s
}

// Collections returns the collections in enumeration order.
func (s *Snapshot) Collections() []Collection {
	return s.collections
}

// Collection returns the collection for kind.
func (s *Snapshot) Collection(kind models.Kind) Collection {
	for _, c := range s.collections {
		if c.Kind == kind {
			return c
		}
	}
	return Collection{Kind: kind}
}

// Checksum identifies the snapshot's sources.
func (s *Snapshot) Checksum() string {
	return s.checksum
}

// Len returns the total number of records.
func (s *Snapshot) Len() int {
	n := 0
	for _, c := range s.collections {
		n += len(c.Records)
	}
	return n
}

// Records returns every record flattened in enumeration order.
func (s *Snapshot) Records() []models.Record {
	out := make([]models.Record, 0, s.Len())
	for _, c := range s.collections {
		out = append(out, c.Records...)
	}
	return out
}

// Find returns the record with the given kind and id.
func (s *Snapshot) Find(kind models.Kind, id int) (models.Record, bool) {
	for _, r := range s.Collection(kind).Records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Record{}, false
}

// Categories returns the distinct categories of a kind in encounter order,
// or of every kind when kind is empty. Categories differing only in case
// are reported once, with the first spelling seen.
func (s *Snapshot) Categories(kind models.Kind) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range s.collections {
		if kind != "" && c.Kind != kind {
			continue
		}
		for _, r := range c.Records {
			key := strings.ToLower(r.Category)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, r.Category)
		}
	}
	return out
}

// Changed returns the kinds whose source checksum differs between old and next.
// A nil old snapshot reports every kind of next.
func Changed(old, next *Snapshot) []models.Kind {
	var out []models.Kind
	for _, c := range next.collections {
		if old == nil || old.Collection(c.Kind).Checksum != c.Checksum {
			out = append(out, c.Kind)
		}
	}
	return out
}
