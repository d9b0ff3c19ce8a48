package repository

import (
	"database/sql"
)

// scanner abstracts *sql.Row and *sql.Rows for the entity scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}
