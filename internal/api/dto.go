package api

import "github.com/synapsemed/synapse/internal/models"

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []models.Record `json:"results"`
}

// CollectionSummary describes one collection of the catalog.
type CollectionSummary struct {
	Type       string   `json:"type" example:"drug"`
	Collection string   `json:"collection" example:"drugs"`
	Count      int      `json:"count" example:"8"`
	Categories []string `json:"categories"`
}

// CatalogResponse lists every collection in enumeration order.
type CatalogResponse struct {
	Collections []CollectionSummary `json:"collections"`
	Total       int                 `json:"total" example:"28"`
	Checksum    string              `json:"checksum"`
}
