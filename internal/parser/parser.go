// Package parser decodes YAML collection files into library records.
package parser

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/synapsemed/synapse/internal/apperr"
	"github.com/synapsemed/synapse/internal/models"
)

// entry is the on-disk shape of one record. Which fields are read depends
// on the collection kind.
type entry struct {
	ID         int    `yaml:"id"`
	Title      string `yaml:"title"`
	Name       string `yaml:"name"`
	Author     string `yaml:"author"`
	Class      string `yaml:"class"`
	Category   string `yaml:"category"`
	Difficulty string `yaml:"difficulty"`
}

func (e entry) toRecord(kind models.Kind) models.Record {
	r := models.Record{ID: e.ID, Kind: kind, Category: e.Category}
	switch kind {
	case models.KindBook, models.KindArticle:
		r.Label = e.Title
		r.Author = e.Author
	case models.KindDrug:
		r.Label = e.Name
		r.Class = e.Class
	case models.KindTopic:
		r.Label = e.Title
		r.Difficulty = e.Difficulty
	}
	return r
}

func validateRecord(r *models.Record) error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required, validation.Min(1)),
		validation.Field(&r.Label, validation.Required),
		validation.Field(&r.Category, validation.Required),
	)
}

// ParseCollection decodes a YAML list of records of the given kind.
// An empty document yields an empty collection.
func ParseCollection(kind models.Kind, data []byte) ([]models.Record, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("parser: unknown kind %q", kind)
	}

	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parser: %s: %w", kind.Collection(), err)
	}

	out := make([]models.Record, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))
	for i, e := range entries {
		r := e.toRecord(kind)
		if err := validateRecord(&r); err != nil {
			return nil, fmt.Errorf("parser: %s[%d]: %w: %v", kind.Collection(), i, apperr.ErrInvalidRecord, err)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("parser: %s[%d]: %w: duplicate id %d", kind.Collection(), i, apperr.ErrInvalidRecord, r.ID)
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}
