package service

import (
	"context"

	"github.com/rebilt/catalogadmin/internal/cloudinary"
	"github.com/rebilt/catalogadmin/internal/domain"
)

// CatalogAPI is the subset of the remote catalog client the services use
type CatalogAPI interface {
	GetPartner(ctx context.Context, token, partnerID string) (*domain.Partner, error)
	GetPartnerByName(ctx context.Context, token, name string) (*domain.Partner, error)
	GetPartnerConfigurations(ctx context.Context, token, partnerID string) ([]domain.PartnerConfiguration, error)
	ListConfigurations(ctx context.Context, token string) ([]domain.Configuration, error)
	GetConfiguration(ctx context.Context, token, configurationID string) (*domain.Configuration, error)
	GetOption(ctx context.Context, token, optionID string) (*domain.Option, error)
	CreateOption(ctx context.Context, token string, option domain.Option) (*domain.Option, error)
	ListProducts(ctx context.Context, token, partnerName string) ([]domain.Product, error)
	GetProduct(ctx context.Context, token, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, token string, draft domain.ProductDraft) (string, error)
}

// AssetHost stores uploaded files and returns their public URL
type AssetHost interface {
	Upload(ctx context.Context, in cloudinary.UploadRequest) (*cloudinary.UploadResponse, error)
}

// Warning reports an item that was skipped without failing the whole operation
type Warning struct {
	OptionID string `json:"optionId,omitempty"`
	Filename string `json:"filename,omitempty"`
	Message  string `json:"message"`
}
