package service

import (
	"sort"

	"github.com/google/uuid"

	"github.com/rebilt/catalogadmin/internal/domain"
)

var selectedOptionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("catalogadmin/selected-option"))

// selectedOptionID is stable for a (configuration, option) pair so that assembling
// the same inputs twice yields the same ids
func selectedOptionID(configurationID, optionID string) string {
	return uuid.NewSHA1(selectedOptionNamespace, []byte(configurationID+"/"+optionID)).String()
}

// Assemble merges existing product configurations, resolved options and uploaded
// asset URLs into the configurations[].selectedOptions[].images[] shape.
//
// Only options that belong to the configuration they are nested under survive.
// One SelectedOption exists per option id; images keep insertion order and are never
// duplicated, so re-assembling the output with the same inputs changes nothing.
// Configurations follow the order of configs, selected options the order of the
// configuration's option list, and configurations without selections are left out.
// The inputs are not modified.
func Assemble(
	configs []domain.Configuration,
	existing []domain.ProductConfiguration,
	resolved []domain.ResolvedOption,
	uploadedURLs map[string][]string,
) []domain.ProductConfiguration {
	byID := make(map[string]domain.Configuration, len(configs))
	for _, cfg := range configs {
		if _, ok := byID[cfg.ID]; !ok {
			byID[cfg.ID] = cfg
		}
	}

	selected := make(map[string]map[string]*domain.SelectedOption)
	selectFor := func(cfg domain.Configuration, optionID, id string) *domain.SelectedOption {
		opts, ok := selected[cfg.ID]
		if !ok {
			opts = make(map[string]*domain.SelectedOption)
			selected[cfg.ID] = opts
		}
		so, ok := opts[optionID]
		if !ok {
			if id == "" {
				id = selectedOptionID(cfg.ID, optionID)
			}
			so = &domain.SelectedOption{ID: id, OptionID: optionID, Images: []string{}}
			opts[optionID] = so
		}
		return so
	}

	for _, pc := range existing {
		cfg, ok := byID[pc.ConfigurationID]
		if !ok {
			continue
		}
		for _, so := range pc.SelectedOptions {
			if !cfg.HasOption(so.OptionID) {
				continue
			}
			target := selectFor(cfg, so.OptionID, so.ID)
			target.Images = appendMissing(target.Images, so.Images)
		}
	}

	for _, r := range resolved {
		cfg, ok := ownerOf(configs, byID, r)
		if !ok {
			continue
		}
		target := selectFor(cfg, r.OptionID, "")
		target.Images = appendMissing(target.Images, r.Images)
		target.Images = appendMissing(target.Images, uploadedURLs[r.OptionID])
	}

	out := make([]domain.ProductConfiguration, 0, len(selected))
	for _, cfg := range configs {
		opts, ok := selected[cfg.ID]
		if !ok || len(opts) == 0 {
			continue
		}
		list := make([]domain.SelectedOption, 0, len(opts))
		for _, so := range opts {
			list = append(list, *so)
		}
		sort.SliceStable(list, func(i, j int) bool {
			return cfg.OptionIndex(list[i].OptionID) < cfg.OptionIndex(list[j].OptionID)
		})
		out = append(out, domain.ProductConfiguration{
			ConfigurationID: cfg.ID,
			SelectedOptions: list,
		})
		delete(selected, cfg.ID)
	}
	return out
}

// ownerOf finds the configuration a resolved option belongs to. Options without a
// configuration id fall back to the first configuration listing them.
func ownerOf(configs []domain.Configuration, byID map[string]domain.Configuration, r domain.ResolvedOption) (domain.Configuration, bool) {
	if r.ConfigurationID != "" {
		cfg, ok := byID[r.ConfigurationID]
		if !ok || !cfg.HasOption(r.OptionID) {
			return domain.Configuration{}, false
		}
		return cfg, true
	}
	for _, cfg := range configs {
		if cfg.HasOption(r.OptionID) {
			return cfg, true
		}
	}
	return domain.Configuration{}, false
}

// appendMissing appends the urls not already in images, keeping order
func appendMissing(images, urls []string) []string {
	for _, u := range urls {
		if u == "" || contains(images, u) {
			continue
		}
		images = append(images, u)
	}
	return images
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
