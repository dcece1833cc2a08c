package service

import (
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/config"
	"github.com/rebilt/catalogadmin/internal/repository"
)

// Services aggregates the services the HTTP layer depends on
type Services struct {
	Catalog   *CatalogService
	Resolver  *OptionResolver
	Uploader  *AssetUploader
	Submitter *ProductSubmitter
	Flow      *ProductFlow
	Events    repository.SubmissionEventRepository
	JoinMode  JoinMode
}

// NewServices wires the services together
func NewServices(cfg *config.Config, catalog CatalogAPI, host AssetHost, repos *repository.Repositories, logger *zap.Logger) *Services {
	if repos == nil {
		repos = repository.NewNopRepositories()
	}
	resolver := NewOptionResolver(catalog, logger)
	submitter := NewProductSubmitter(catalog, repos.SubmissionEvent, logger)

	return &Services{
		Catalog:   NewCatalogService(catalog, logger),
		Resolver:  resolver,
		Uploader:  NewAssetUploader(host, cfg.Upload, logger),
		Submitter: submitter,
		Flow:      NewProductFlow(resolver, submitter, logger),
		Events:    repos.SubmissionEvent,
		JoinMode:  JoinMode(cfg.Upload.JoinMode),
	}
}
