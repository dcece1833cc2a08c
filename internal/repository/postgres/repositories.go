package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		SubmissionEvent: NewSubmissionEventRepository(db, logger),
	}
}
