// Package storage defines where catalog collection files are read from.
package storage

import "github.com/synapsemed/synapse/internal/models"

// Provider is the interface for reading catalog sources.
type Provider interface {
	// List returns metadata for every .yaml file at the catalog root.
	List() ([]models.CollectionMetadata, error)
	// Read returns the raw bytes of the named file (relative to the catalog root).
	Read(name string) ([]byte, error)
}
