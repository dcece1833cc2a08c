package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/domain"
)

type submissionEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSubmissionEventRepository creates a new submission event repository
func NewSubmissionEventRepository(db *sql.DB, logger *zap.Logger) *submissionEventRepository {
	return &submissionEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *submissionEventRepository) Create(ctx context.Context, event *domain.SubmissionEvent) error {
	query := `
		INSERT INTO submission_events (id, partner_id, product_code, product_name, outcome, http_status, product_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.PartnerID,
		event.ProductCode,
		event.ProductName,
		string(event.Outcome),
		event.HTTPStatus,
		event.ProductID,
		event.Message,
		event.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create submission event", zap.Error(err))
		return err
	}

	return nil
}

func (r *submissionEventRepository) ListByPartnerID(ctx context.Context, partnerID string, limit, offset int) ([]*domain.SubmissionEvent, error) {
	query := `
		SELECT id, partner_id, product_code, product_name, outcome, http_status, product_id, message, created_at
		FROM submission_events
		WHERE partner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, partnerID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list submission events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.SubmissionEvent, 0)
	for rows.Next() {
		var event domain.SubmissionEvent
		var outcome string
		var productID sql.NullString

		if err := rows.Scan(
			&event.ID,
			&event.PartnerID,
			&event.ProductCode,
			&event.ProductName,
			&outcome,
			&event.HTTPStatus,
			&productID,
			&event.Message,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}

		event.Outcome = domain.SubmissionOutcome(outcome)
		if productID.Valid {
			event.ProductID = &productID.String
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}
