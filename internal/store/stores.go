package store

import (
	"github.com/nuxeo/drive-sync/internal/logger"
)

// Stores aggregates the repositories the service layer depends on.
type Stores struct {
	Audit AuditRepository
	Roots RootsRepository
	Docs  DocsRepository
}

// NewStores constructs every repository on top of one shared database
// connection.
func NewStores(db *DB, logger *logger.Logger) *Stores {
	return &Stores{
		Audit: NewAuditRepository(db, logger),
		Roots: NewRootsRepository(db, logger),
		Docs:  NewDocsRepository(db, logger),
	}
}
