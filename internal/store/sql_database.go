package store

import (
	"database/sql"

	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/migrations"
)

// DB wraps the raw connection pool together with the error classifier and
// a fallback logger. Repositories embed *DB and use its query methods
// directly.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying. The engine itself never retries (retry policy belongs to the
// caller); the classification is surfaced so transports can translate it.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
