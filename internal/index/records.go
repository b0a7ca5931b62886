package index

import (
	"context"
	"fmt"

	"github.com/synapsemed/synapse/internal/catalog"
	"github.com/synapsemed/synapse/internal/models"
)

var _ catalog.Repository = (*DB)(nil)

func kindOrder(k models.Kind) int {
	for i, kind := range models.Kinds() {
		if kind == k {
			return i
		}
	}
	return len(models.Kinds())
}

// ReplaceCollection swaps every stored record of c.Kind for c.Records and
// records the collection checksum, in one transaction.
func (db *DB) ReplaceCollection(ctx context.Context, c catalog.Collection) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE kind = ?`, string(c.Kind)); err != nil {
		return fmt.Errorf("index: clear %s: %w", c.Kind, err)
	}

	if len(c.Records) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO records (kind, kind_order, position, id, label, author, class, category, difficulty)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("index: prepare insert: %w", err)
		}
		defer stmt.Close()
		order := kindOrder(c.Kind)
		for pos, r := range c.Records {
			if _, err := stmt.ExecContext(ctx, string(c.Kind), order, pos, r.ID,
				r.Label, r.Author, r.Class, r.Category, r.Difficulty); err != nil {
				return fmt.Errorf("index: insert %s: %w", r.Key(), err)
			}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO collections (kind, checksum) VALUES (?, ?)
		ON CONFLICT(kind) DO UPDATE SET checksum = excluded.checksum
	`, string(c.Kind), c.Checksum)
	if err != nil {
		return fmt.Errorf("index: upsert checksum: %w", err)
	}

	return tx.Commit()
}

// Checksums returns the stored checksum of every synced collection.
func (db *DB) Checksums(ctx context.Context) (map[models.Kind]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT kind, checksum FROM collections`)
	if err != nil {
		return nil, fmt.Errorf("index: checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[models.Kind]string)
	for rows.Next() {
		var kind, cs string
		if err := rows.Scan(&kind, &cs); err != nil {
			return nil, err
		}
		out[models.Kind(kind)] = cs
	}
	return out, rows.Err()
}

// Snapshot reads every record back in enumeration order.
func (db *DB) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	sums, err := db.Checksums(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT kind, id, label, author, class, category, difficulty
		FROM records
		ORDER BY kind_order, position
	`)
	if err != nil {
		return nil, fmt.Errorf("index: snapshot: %w", err)
	}
	defer rows.Close()

	byKind := make(map[models.Kind][]models.Record)
	for rows.Next() {
		var r models.Record
		var kind string
		if err := rows.Scan(&kind, &r.ID, &r.Label, &r.Author, &r.Class, &r.Category, &r.Difficulty); err != nil {
			return nil, err
		}
		r.Kind = models.Kind(kind)
		byKind[r.Kind] = append(byKind[r.Kind], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("index: snapshot: %w", err)
	}

	cols := make([]catalog.Collection, 0, len(models.Kinds()))
	for _, k := range models.Kinds() {
		cols = append(cols, catalog.Collection{Kind: k, Records: byKind[k], Checksum: sums[k]})
	}
	return catalog.NewSnapshot(cols...), nil
}
