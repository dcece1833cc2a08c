package service

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/domain"
	"github.com/rebilt/catalogadmin/internal/repository"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

type ProductSubmitter struct {
	catalog  CatalogAPI
	events   repository.SubmissionEventRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductSubmitter creates a new product submitter. events may be nil.
func NewProductSubmitter(catalog CatalogAPI, events repository.SubmissionEventRepository, logger *zap.Logger) *ProductSubmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = repository.NopSubmissionEventRepository{}
	}
	return &ProductSubmitter{
		catalog:  catalog,
		events:   events,
		validate: newDraftValidator(),
		logger:   logger,
	}
}

func newDraftValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// Validate checks the draft's required fields and returns a *ValidationError
// listing every invalid field
func (s *ProductSubmitter) Validate(draft *domain.ProductDraft) error {
	if draft == nil {
		return &apperrors.ValidationError{Message: "invalid product", Fields: map[string]string{"product": "is required"}}
	}
	err := s.validate.Struct(draft)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
	}
	return &apperrors.ValidationError{Message: "invalid product", Fields: fields}
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "gt":
		return "must be greater than " + param
	default:
		return "is invalid"
	}
}

// SubmitProduct validates the draft, then posts it. Success is exactly 201 Created;
// anything else is a *SubmissionError. The draft is never modified.
func (s *ProductSubmitter) SubmitProduct(ctx context.Context, draft *domain.ProductDraft, token string) (string, error) {
	if err := s.Validate(draft); err != nil {
		return "", err
	}

	productID, err := s.catalog.CreateProduct(ctx, token, *draft)
	if err != nil {
		subErr := &apperrors.SubmissionError{Err: err}
		var remote *apperrors.RemoteAPIError
		if errors.As(err, &remote) {
			subErr.Status = remote.Status
			subErr.Body = remote.Message
		}
		s.record(ctx, draft, domain.SubmissionOutcomeRejected, subErr.Status, nil, subErr.Error())
		s.logger.Warn("Product submission failed",
			zap.String("partner_id", draft.PartnerID), zap.String("product_code", draft.ProductCode), zap.Int("status", subErr.Status))
		return "", subErr
	}

	var recorded *string
	if productID != "" {
		recorded = &productID
	}
	s.record(ctx, draft, domain.SubmissionOutcomeCreated, http.StatusCreated, recorded, "")
	s.logger.Info("Product created",
		zap.String("partner_id", draft.PartnerID), zap.String("product_id", productID))
	return productID, nil
}

// record writes the audit event; failures are logged and never fail the submission
func (s *ProductSubmitter) record(ctx context.Context, draft *domain.ProductDraft, outcome domain.SubmissionOutcome, status int, productID *string, message string) {
	event := &domain.SubmissionEvent{
		PartnerID:   draft.PartnerID,
		ProductCode: draft.ProductCode,
		ProductName: draft.ProductName,
		Outcome:     outcome,
		HTTPStatus:  status,
		ProductID:   productID,
		Message:     message,
	}
	if err := s.events.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record submission event", zap.Error(err))
	}
}
