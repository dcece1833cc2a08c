package service

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/domain"
)

const unnamedOption = "Unnamed Option"

// Resolution is the outcome of resolving raw selections against a partner's configurations
type Resolution struct {
	Configurations []domain.Configuration
	Options        []domain.ResolvedOption
	Warnings       []Warning
}

type OptionResolver struct {
	catalog CatalogAPI
	logger  *zap.Logger
}

// NewOptionResolver creates a new option resolver
func NewOptionResolver(catalog CatalogAPI, logger *zap.Logger) *OptionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptionResolver{
		catalog: catalog,
		logger:  logger,
	}
}

// ResolveOptions fetches the partner's configuration set and matches every raw
// selection against it. Unknown selections are dropped with a warning; a failure
// to fetch the configuration set is the only fatal error.
func (r *OptionResolver) ResolveOptions(ctx context.Context, token, partnerID string, raw []domain.RawSelection) (*Resolution, error) {
	partnerConfigs, err := r.catalog.GetPartnerConfigurations(ctx, token, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch partner configurations: %w", err)
	}

	configs := make([]domain.Configuration, 0, len(partnerConfigs))
	for _, pc := range partnerConfigs {
		configs = append(configs, pc.Configuration)
	}

	resolved, warnings := Resolve(configs, raw)
	for _, w := range warnings {
		r.logger.Warn("Skipping unresolved option",
			zap.String("partner_id", partnerID), zap.String("option_id", w.OptionID), zap.String("reason", w.Message))
	}

	// Fill names the configuration tree did not carry. Each goroutine owns its index.
	p := pool.New().WithMaxGoroutines(lookupConcurrency).WithContext(ctx)
	for i := range resolved {
		if resolved[i].Name != "" {
			continue
		}
		i := i
		p.Go(func(ctx context.Context) error {
			opt, err := r.catalog.GetOption(ctx, token, resolved[i].OptionID)
			if err != nil || opt.Name == "" {
				r.logger.Warn("Option name lookup failed", zap.String("option_id", resolved[i].OptionID), zap.Error(err))
				resolved[i].Name = unnamedOption
				return nil
			}
			resolved[i].Name = opt.Name
			return nil
		})
	}
	_ = p.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Resolution{
		Configurations: configs,
		Options:        resolved,
		Warnings:       warnings,
	}, nil
}

// Resolve matches raw selections against the flattened configs[].options[]. Duplicate
// selections of one option collapse into a single entry and the first name seen wins.
// The result never holds two entries with the same option id.
func Resolve(configs []domain.Configuration, raw []domain.RawSelection) ([]domain.ResolvedOption, []Warning) {
	type owner struct {
		configurationID string
		option          domain.Option
	}
	index := make(map[string]owner)
	for _, cfg := range configs {
		for _, opt := range cfg.Options {
			if _, seen := index[opt.ID]; !seen {
				index[opt.ID] = owner{configurationID: cfg.ID, option: opt}
			}
		}
	}

	var (
		resolved = make([]domain.ResolvedOption, 0, len(raw))
		warnings []Warning
		position = make(map[string]int)
	)
	for _, sel := range raw {
		if sel.OptionID == "" {
			warnings = append(warnings, Warning{Message: "selection has no option id"})
			continue
		}
		if i, ok := position[sel.OptionID]; ok {
			if resolved[i].Name == "" && sel.Name != "" {
				resolved[i].Name = sel.Name
			}
			continue
		}
		o, ok := index[sel.OptionID]
		if !ok {
			warnings = append(warnings, Warning{OptionID: sel.OptionID, Message: "option is not part of the partner's configurations"})
			continue
		}

		name := sel.Name
		if name == "" {
			name = o.option.Name
		}
		position[sel.OptionID] = len(resolved)
		resolved = append(resolved, domain.ResolvedOption{
			OptionID:        sel.OptionID,
			ConfigurationID: o.configurationID,
			Name:            name,
			Images:          []string{},
		})
	}
	return resolved, warnings
}
