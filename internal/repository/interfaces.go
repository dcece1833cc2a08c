package repository

import (
	"context"

	"github.com/rebilt/catalogadmin/internal/domain"
)

// SubmissionEventRepository defines submission audit data access methods
type SubmissionEventRepository interface {
	Create(ctx context.Context, event *domain.SubmissionEvent) error
	ListByPartnerID(ctx context.Context, partnerID string, limit, offset int) ([]*domain.SubmissionEvent, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	SubmissionEvent SubmissionEventRepository
}

// NopSubmissionEventRepository is used when auditing is disabled
type NopSubmissionEventRepository struct{}

func (NopSubmissionEventRepository) Create(ctx context.Context, event *domain.SubmissionEvent) error {
	return nil
}

func (NopSubmissionEventRepository) ListByPartnerID(ctx context.Context, partnerID string, limit, offset int) ([]*domain.SubmissionEvent, error) {
	return []*domain.SubmissionEvent{}, nil
}

// NewNopRepositories returns repositories that store nothing
func NewNopRepositories() *Repositories {
	return &Repositories{
		SubmissionEvent: NopSubmissionEventRepository{},
	}
}
