package parser

import (
	"errors"
	"testing"

	"github.com/synapsemed/synapse/internal/apperr"
	"github.com/synapsemed/synapse/internal/models"
)

func TestParseCollection_Drugs(t *testing.T) {
	input := []byte(`
- id: 1
  name: Aspirin
  class: NSAIDs
  category: Analgesics
  author: ignored
- id: 2
  name: Metformin
  class: Biguanides
  category: Endocrinology
`)
	recs, err := ParseCollection(models.KindDrug, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	r := recs[0]
	if r.Label != "Aspirin" || r.Class != "NSAIDs" || r.Kind != models.KindDrug {
		t.Errorf("record = %+v", r)
	}
	if r.Author != "" {
		t.Errorf("author should not be populated on a drug, got %q", r.Author)
	}
}

func TestParseCollection_TopicKeepsDifficulty(t *testing.T) {
	input := []byte("- id: 4\n  title: Acid-Base Balance\n  category: Physiology\n  difficulty: Advanced\n")
	recs, err := ParseCollection(models.KindTopic, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs[0].Difficulty != "Advanced" {
		t.Errorf("difficulty = %q", recs[0].Difficulty)
	}
}

func TestParseCollection_Empty(t *testing.T) {
	recs, err := ParseCollection(models.KindBook, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("len = %d, want 0", len(recs))
	}
}

func TestParseCollection_MissingLabel(t *testing.T) {
	input := []byte("- id: 1\n  author: Someone\n  category: Anatomy\n")
	_, err := ParseCollection(models.KindBook, input)
	if !errors.Is(err, apperr.ErrInvalidRecord) {
		t.Fatalf("err = %v, want ErrInvalidRecord", err)
	}
}

func TestParseCollection_DuplicateID(t *testing.T) {
	input := []byte("- id: 1\n  title: A\n  category: X\n- id: 1\n  title: B\n  category: Y\n")
	_, err := ParseCollection(models.KindArticle, input)
	if !errors.Is(err, apperr.ErrInvalidRecord) {
		t.Fatalf("err = %v, want ErrInvalidRecord", err)
	}
}

func TestParseCollection_InvalidYAML(t *testing.T) {
	if _, err := ParseCollection(models.KindBook, []byte(": : {{{")); err == nil {
		t.Fatal("expected YAML error")
	}
}
