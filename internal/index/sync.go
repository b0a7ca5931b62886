package index

import (
	"context"
	"log/slog"

	"github.com/synapsemed/synapse/internal/catalog"
	"github.com/synapsemed/synapse/internal/models"
)

// Sync brings the database up to date with snap. Collections whose stored
// checksum already matches are skipped; the kinds actually rewritten are
// returned.
func Sync(ctx context.Context, db *DB, snap *catalog.Snapshot, logger *slog.Logger) ([]models.Kind, error) {
	stored, err := db.Checksums(ctx)
	if err != nil {
		return nil, err
	}

	var changed []models.Kind
	for _, c := range snap.Collections() {
		if cs, ok := stored[c.Kind]; ok && cs == c.Checksum && c.Checksum != "" {
			continue
		}
		if err := db.ReplaceCollection(ctx, c); err != nil {
			return changed, err
		}
		logger.Debug("sync: collection written",
			slog.String("collection", c.Kind.Collection()),
			slog.Int("records", len(c.Records)))
		changed = append(changed, c.Kind)
	}
	return changed, nil
}
