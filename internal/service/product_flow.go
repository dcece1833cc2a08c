package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/domain"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

// ProductFlow runs resolve, assemble and submit for one caller-owned draft
type ProductFlow struct {
	resolver  *OptionResolver
	submitter *ProductSubmitter
	logger    *zap.Logger
}

// NewProductFlow creates a new product flow
func NewProductFlow(resolver *OptionResolver, submitter *ProductSubmitter, logger *zap.Logger) *ProductFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductFlow{
		resolver:  resolver,
		submitter: submitter,
		logger:    logger,
	}
}

// CreateProduct validates the draft, resolves the selections against the partner's
// configurations, merges in the uploaded URLs and submits a copy of the draft.
// The request's draft is not modified.
func (f *ProductFlow) CreateProduct(ctx context.Context, token string, req CreateProductRequest) (*CreateProductResult, error) {
	if err := f.validate(&req.Draft); err != nil {
		return nil, err
	}

	resolution, err := f.resolver.ResolveOptions(ctx, token, req.Draft.PartnerID, req.Selections)
	if err != nil {
		return nil, err
	}

	draft := req.Draft
	draft.Configurations = Assemble(resolution.Configurations, req.Draft.Configurations, resolution.Options, req.UploadedURLs)

	productID, err := f.submitter.SubmitProduct(ctx, &draft, token)
	if err != nil {
		return nil, err
	}

	warnings := resolution.Warnings
	if warnings == nil {
		warnings = []Warning{}
	}
	return &CreateProductResult{
		ProductID:      productID,
		Configurations: draft.Configurations,
		Warnings:       warnings,
	}, nil
}

// validate adds the partner id check to the draft validation so every field is reported at once
func (f *ProductFlow) validate(draft *domain.ProductDraft) error {
	err := f.submitter.Validate(draft)
	fields := map[string]string{}
	if err != nil {
		var ve *apperrors.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for k, v := range ve.Fields {
			fields[k] = v
		}
	}
	if strings.TrimSpace(draft.PartnerID) == "" {
		fields["partnerId"] = "is required"
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Message: "invalid product", Fields: fields}
	}
	return nil
}
