package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/domain"
)

const submissionEventsCollection = "submission_events"

type submissionEventDocument struct {
	ID          string    `bson:"_id"`
	PartnerID   string    `bson:"partner_id"`
	ProductCode string    `bson:"product_code"`
	ProductName string    `bson:"product_name"`
	Outcome     string    `bson:"outcome"`
	HTTPStatus  int       `bson:"http_status"`
	ProductID   *string   `bson:"product_id,omitempty"`
	Message     string    `bson:"message,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d submissionEventDocument) toDomain() *domain.SubmissionEvent {
	id, _ := uuid.Parse(d.ID)
	return &domain.SubmissionEvent{
		ID:          id,
		PartnerID:   d.PartnerID,
		ProductCode: d.ProductCode,
		ProductName: d.ProductName,
		Outcome:     domain.SubmissionOutcome(d.Outcome),
		HTTPStatus:  d.HTTPStatus,
		ProductID:   d.ProductID,
		Message:     d.Message,
		CreatedAt:   d.CreatedAt,
	}
}

type submissionEventRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewSubmissionEventRepository creates a new submission event repository
func NewSubmissionEventRepository(db *mongo.Database, logger *zap.Logger) *submissionEventRepository {
	return &submissionEventRepository{
		collection: db.Collection(submissionEventsCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the partner listing index
func (r *submissionEventRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "partner_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (r *submissionEventRepository) Create(ctx context.Context, event *domain.SubmissionEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, submissionEventDocument{
		ID:          event.ID.String(),
		PartnerID:   event.PartnerID,
		ProductCode: event.ProductCode,
		ProductName: event.ProductName,
		Outcome:     string(event.Outcome),
		HTTPStatus:  event.HTTPStatus,
		ProductID:   event.ProductID,
		Message:     event.Message,
		CreatedAt:   event.CreatedAt,
	})
	if err != nil {
		r.logger.Error("Failed to create submission event", zap.Error(err))
		return err
	}
	return nil
}

func (r *submissionEventRepository) ListByPartnerID(ctx context.Context, partnerID string, limit, offset int) ([]*domain.SubmissionEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"partner_id": partnerID}, findOptions)
	if err != nil {
		r.logger.Error("Failed to list submission events", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []submissionEventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]*domain.SubmissionEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, d.toDomain())
	}
	return events, nil
}
