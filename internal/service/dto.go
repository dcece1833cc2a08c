package service

import (
	"github.com/rebilt/catalogadmin/internal/domain"
)

// CreateProductRequest is the product form as posted by the admin console
type CreateProductRequest struct {
	Draft        domain.ProductDraft   `json:"product"`
	Selections   []domain.RawSelection `json:"selectedOptions"`
	UploadedURLs map[string][]string   `json:"uploadedUrls"`
}

// CreateProductResult is returned after a successful submission
type CreateProductResult struct {
	ProductID      string                        `json:"productId"`
	Configurations []domain.ProductConfiguration `json:"configurations"`
	Warnings       []Warning                     `json:"warnings"`
}

// UploadAssetsResult lists the URLs per option id and the files that were skipped
type UploadAssetsResult struct {
	URLs     map[string][]string `json:"uploadedUrls"`
	Warnings []Warning           `json:"warnings"`
}

// UsedOptionsResult lists the options in use across a partner's products
type UsedOptionsResult struct {
	Options  []domain.ResolvedOption `json:"options"`
	Warnings []Warning               `json:"warnings"`
}
