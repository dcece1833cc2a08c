package service

import (
	"context"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/domain"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

const (
	defaultOptionType = "kleur"
	lookupConcurrency = 8
)

type CatalogService struct {
	catalog CatalogAPI
	logger  *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog CatalogAPI, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		catalog: catalog,
		logger:  logger,
	}
}

// GetPartner fetches the partner
func (s *CatalogService) GetPartner(ctx context.Context, token, partnerID string) (*domain.Partner, error) {
	return s.catalog.GetPartner(ctx, token, partnerID)
}

// FindPartnerByName looks a partner up by its unique name
func (s *CatalogService) FindPartnerByName(ctx context.Context, token, name string) (*domain.Partner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &apperrors.ValidationError{Message: "invalid partner lookup", Fields: map[string]string{"name": "is required"}}
	}
	return s.catalog.GetPartnerByName(ctx, token, name)
}

// ListConfigurations lists the global configuration catalog, optionally only the
// configurations of one field type
func (s *CatalogService) ListConfigurations(ctx context.Context, token string, fieldType domain.FieldType) ([]domain.Configuration, error) {
	configs, err := s.catalog.ListConfigurations(ctx, token)
	if err != nil {
		return nil, err
	}
	if fieldType == "" {
		return configs, nil
	}
	out := make([]domain.Configuration, 0, len(configs))
	for _, cfg := range configs {
		if cfg.FieldType == fieldType {
			out = append(out, cfg)
		}
	}
	return out, nil
}

// GetProduct fetches one product
func (s *CatalogService) GetProduct(ctx context.Context, token, productID string) (*domain.Product, error) {
	return s.catalog.GetProduct(ctx, token, productID)
}

// ListProducts lists the partner's products, optionally only those of productType.
// Products are listed by partner name, so the partner is fetched first.
func (s *CatalogService) ListProducts(ctx context.Context, token, partnerID, productType string) ([]domain.Product, error) {
	partner, err := s.catalog.GetPartner(ctx, token, partnerID)
	if err != nil {
		return nil, err
	}
	if partner.Name == "" {
		return nil, &apperrors.ErrNotFound{Resource: "partner name", ID: partnerID}
	}

	products, err := s.catalog.ListProducts(ctx, token, partner.Name)
	if err != nil {
		return nil, err
	}
	return FilterProductsByType(products, productType), nil
}

// FilterProductsByType keeps the products of the given type. An empty type keeps everything.
func FilterProductsByType(products []domain.Product, productType string) []domain.Product {
	if productType == "" {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ProductType == productType {
			out = append(out, p)
		}
	}
	return out
}

// ProductTypes returns the distinct non-empty product types in first-seen order
func ProductTypes(products []domain.Product) []string {
	seen := make(map[string]struct{})
	types := make([]string, 0)
	for _, p := range products {
		if p.ProductType == "" {
			continue
		}
		if _, ok := seen[p.ProductType]; ok {
			continue
		}
		seen[p.ProductType] = struct{}{}
		types = append(types, p.ProductType)
	}
	return types
}

// PartnerProductTypes lists the product types in use by a partner
func (s *CatalogService) PartnerProductTypes(ctx context.Context, token, partnerID string) ([]string, error) {
	products, err := s.ListProducts(ctx, token, partnerID, "")
	if err != nil {
		return nil, err
	}
	return ProductTypes(products), nil
}

// UsedOptions collects the options selected on any of the partner's products, one entry
// per option id with the images of every product merged in. Names come from the option
// endpoint; options whose lookup fails are skipped and reported as warnings.
func (s *CatalogService) UsedOptions(ctx context.Context, token, partnerID string) ([]domain.ResolvedOption, []Warning, error) {
	products, err := s.ListProducts(ctx, token, partnerID, "")
	if err != nil {
		return nil, nil, err
	}

	used := CollectUsedOptions(products)
	names := make([]string, len(used))
	errs := make([]error, len(used))

	p := pool.New().WithMaxGoroutines(lookupConcurrency).WithContext(ctx)
	for i := range used {
		i := i
		p.Go(func(ctx context.Context) error {
			opt, err := s.catalog.GetOption(ctx, token, used[i].OptionID)
			if err != nil {
				errs[i] = err
				return nil
			}
			names[i] = opt.Name
			return nil
		})
	}
	_ = p.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	out := make([]domain.ResolvedOption, 0, len(used))
	var warnings []Warning
	for i, opt := range used {
		if errs[i] != nil {
			s.logger.Warn("Skipping option with failed lookup",
				zap.String("partner_id", partnerID), zap.String("option_id", opt.OptionID), zap.Error(errs[i]))
			warnings = append(warnings, Warning{OptionID: opt.OptionID, Message: errs[i].Error()})
			continue
		}
		opt.Name = names[i]
		if opt.Name == "" {
			opt.Name = unnamedOption
		}
		out = append(out, opt)
	}
	return out, warnings, nil
}

// CollectUsedOptions flattens products[].configurations[].selectedOptions[] into one
// entry per option id, first occurrence first. Images are merged without duplicates.
func CollectUsedOptions(products []domain.Product) []domain.ResolvedOption {
	position := make(map[string]int)
	out := make([]domain.ResolvedOption, 0)
	for _, p := range products {
		for _, pc := range p.Configurations {
			for _, so := range pc.SelectedOptions {
				if so.OptionID == "" {
					continue
				}
				i, ok := position[so.OptionID]
				if !ok {
					i = len(out)
					position[so.OptionID] = i
					out = append(out, domain.ResolvedOption{
						OptionID:        so.OptionID,
						ConfigurationID: pc.ConfigurationID,
						Images:          []string{},
					})
				}
				out[i].Images = appendMissing(out[i].Images, so.Images)
			}
		}
	}
	return out
}

// ConfigurationTree returns the partner's configuration entries with the global details
// of each configuration. Details are fetched concurrently; a failed fetch leaves that
// entry's details empty.
func (s *CatalogService) ConfigurationTree(ctx context.Context, token, partnerID string) ([]domain.PartnerConfiguration, error) {
	entries, err := s.catalog.GetPartnerConfigurations(ctx, token, partnerID)
	if err != nil {
		return nil, err
	}

	tree := make([]domain.PartnerConfiguration, len(entries))
	copy(tree, entries)

	p := pool.New().WithMaxGoroutines(lookupConcurrency).WithContext(ctx)
	for i := range tree {
		i := i
		p.Go(func(ctx context.Context) error {
			id := tree[i].Configuration.ID
			details, err := s.catalog.GetConfiguration(ctx, token, id)
			if err != nil {
				s.logger.Warn("Configuration details unavailable",
					zap.String("partner_id", partnerID), zap.String("configuration_id", id), zap.Error(err))
				tree[i].Details = domain.Configuration{Options: []domain.Option{}}
				return nil
			}
			tree[i].Details = *details
			return nil
		})
	}
	_ = p.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return tree, nil
}

// CreateOption creates a new option. The type defaults to the color option type.
func (s *CatalogService) CreateOption(ctx context.Context, token string, option domain.Option) (*domain.Option, error) {
	option.Name = strings.TrimSpace(option.Name)
	fields := map[string]string{}
	if option.Name == "" {
		fields["name"] = "is required"
	}
	if option.Price < 0 {
		fields["price"] = "must not be negative"
	}
	if len(fields) > 0 {
		return nil, &apperrors.ValidationError{Message: "invalid option", Fields: fields}
	}
	if option.Type == "" {
		option.Type = defaultOptionType
	}

	created, err := s.catalog.CreateOption(ctx, token, option)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Option created", zap.String("option_id", created.ID), zap.String("name", created.Name))
	return created, nil
}
