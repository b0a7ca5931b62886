package search

import (
	"sort"

	"github.com/synapsemed/synapse/internal/models"
)

// MaxResults caps every result set. There is no pagination.
const MaxResults = 20

// Rank orders records with a label match ahead of records that matched only
// on a secondary field. Order within each group is preserved.
func Rank(recs []models.Record, q Query) []models.Record {
	out := make([]models.Record, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return LabelMatches(out[i], q) && !LabelMatches(out[j], q)
	})
	return out
}

// Limit truncates recs to at most n entries.
func Limit(recs []models.Record, n int) []models.Record {
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}
