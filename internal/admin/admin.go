// Package admin implements the back-office content submission stubs. Drafts are
// validated and echoed back with a generated id; nothing is persisted.
package admin

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/synapsemed/synapse/internal/apperr"
	"github.com/synapsemed/synapse/internal/models"
)

// Draft is a submitted record that has not been stored anywhere.
type Draft struct {
	Kind   models.Kind
	Fields map[string]any
}

// FromForm builds a draft from form values, keeping the first value of each key.
func FromForm(kind models.Kind, form url.Values) Draft {
	fields := make(map[string]any, len(form))
	for k, v := range form {
		if len(v) > 0 {
			fields[k] = strings.TrimSpace(v[0])
		}
	}
	return Draft{Kind: kind, Fields: fields}
}

// FromJSON builds a draft from a decoded JSON object.
func FromJSON(kind models.Kind, body map[string]any) Draft {
	fields := make(map[string]any, len(body))
	for k, v := range body {
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		fields[k] = v
	}
	return Draft{Kind: kind, Fields: fields}
}

// Validate checks that the label field for the kind and a category are present.
func (d Draft) Validate() error {
	if !d.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", apperr.ErrInvalidRecord, d.Kind)
	}
	rules := []*validation.KeyRules{
		validation.Key(d.Kind.LabelField(), validation.Required),
		validation.Key("category", validation.Required),
	}
	switch d.Kind {
	case models.KindDrug:
		rules = append(rules, validation.Key("class", validation.Required))
	case models.KindTopic:
		rules = append(rules, validation.Key("difficulty", validation.In("Beginner", "Intermediate", "Advanced")).Optional())
	}
	if err := validation.Validate(d.Fields, validation.Map(rules...).AllowExtraKeys()); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidRecord, err)
	}
	return nil
}

// Echo returns the draft fields with a synthetic id (Unix milliseconds) and type tag.
func Echo(d Draft, now time.Time) map[string]any {
	out := make(map[string]any, len(d.Fields)+2)
	for k, v := range d.Fields {
		out[k] = v
	}
	out["id"] = now.UnixMilli()
	out["type"] = string(d.Kind)
	return out
}
