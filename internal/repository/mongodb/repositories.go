package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/repository"
)

// NewRepositories creates the repositories and their indexes
func NewRepositories(ctx context.Context, db *mongo.Database, logger *zap.Logger) (*repository.Repositories, error) {
	events := NewSubmissionEventRepository(db, logger)
	if err := events.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return &repository.Repositories{
		SubmissionEvent: events,
	}, nil
}
