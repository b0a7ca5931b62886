package search

import (
	"context"
	"fmt"

	"github.com/synapsemed/synapse/internal/catalog"
	"github.com/synapsemed/synapse/internal/models"
)

// Engine runs queries against a catalog repository.
type Engine struct {
	repo catalog.Repository
}

// NewEngine creates an engine over repo.
func NewEngine(repo catalog.Repository) *Engine {
	return &Engine{repo: repo}
}

// Search matches q against every collection in enumeration order, ranks the
// candidates, and returns at most MaxResults records.
func (e *Engine) Search(ctx context.Context, q Query) ([]models.Record, error) {
	snap, err := e.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: snapshot: %w", err)
	}

	var matched []models.Record
	for _, c := range snap.Collections() {
		for _, r := range c.Records {
			if Matches(r, q) {
				matched = append(matched, r)
			}
		}
	}

	return Limit(Rank(matched, q), MaxResults), nil
}

// Get returns a single record by kind and id.
func (e *Engine) Get(ctx context.Context, kind models.Kind, id int) (models.Record, bool, error) {
	snap, err := e.repo.Snapshot(ctx)
	if err != nil {
		return models.Record{}, false, fmt.Errorf("search: snapshot: %w", err)
	}
	rec, ok := snap.Find(kind, id)
	return rec, ok, nil
}

// Categories lists the distinct categories of kind, or of every kind when kind is empty.
func (e *Engine) Categories(ctx context.Context, kind models.Kind) ([]string, error) {
	snap, err := e.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: snapshot: %w", err)
	}
	return snap.Categories(kind), nil
}

// Overview returns the current snapshot for catalog summaries.
func (e *Engine) Overview(ctx context.Context) (*catalog.Snapshot, error) {
	snap, err := e.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: snapshot: %w", err)
	}
	return snap, nil
}
