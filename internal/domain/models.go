package domain

import (
	"time"

	"github.com/google/uuid"
)

// Partner represents a tenant of the catalog
type Partner struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Package PartnerTier `json:"package"`
}

// Option is a selectable value of a configuration, e.g. one color
type Option struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Type  string  `json:"type,omitempty"`
	Price float64 `json:"price,omitempty"`
}

// Configuration is a partner-defined attribute such as "Color"
type Configuration struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	FieldType FieldType `json:"fieldType"`
	Options   []Option  `json:"options"`
}

// HasOption reports whether optionID belongs to this configuration
func (c Configuration) HasOption(optionID string) bool {
	return c.OptionIndex(optionID) >= 0
}

// OptionIndex returns the position of optionID in Options, or -1
func (c Configuration) OptionIndex(optionID string) int {
	for i, o := range c.Options {
		if o.ID == optionID {
			return i
		}
	}
	return -1
}

// PartnerConfiguration is one entry of the partner's configuration tree, with the
// global catalog details of the configuration it points at
type PartnerConfiguration struct {
	ID            string        `json:"id"`
	Configuration Configuration `json:"configuration"`
	Details       Configuration `json:"configurationDetails"`
}

// SelectedOption is the materialized choice of one option on a product
type SelectedOption struct {
	ID       string   `json:"id"`
	OptionID string   `json:"optionId"`
	Images   []string `json:"images"`
}

// ProductConfiguration groups the selected options of one configuration
type ProductConfiguration struct {
	ConfigurationID string           `json:"configurationId"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
}

// ProductDraft is the unit submitted to the product-create endpoint
type ProductDraft struct {
	ProductCode    string                 `json:"productCode"`
	ProductName    string                 `json:"productName" validate:"required,notblank"`
	ProductType    string                 `json:"productType"`
	ProductPrice   *float64               `json:"productPrice" validate:"required,gt=0"`
	Description    string                 `json:"description"`
	Brand          string                 `json:"brand"`
	ActiveInactive string                 `json:"activeInactive"`
	PartnerID      string                 `json:"partnerId"`
	Configurations []ProductConfiguration `json:"configurations"`
}

// Product is a product as returned by the catalog API
type Product struct {
	ID             string                 `json:"id"`
	ProductCode    string                 `json:"productCode"`
	ProductName    string                 `json:"productName"`
	ProductType    string                 `json:"productType"`
	ProductPrice   float64                `json:"productPrice"`
	Description    string                 `json:"description"`
	Brand          string                 `json:"brand"`
	ActiveInactive string                 `json:"activeInactive"`
	PartnerID      string                 `json:"partnerId"`
	Configurations []ProductConfiguration `json:"configurations"`
}

// ResolvedOption is a raw selection matched against the partner's configuration set
type ResolvedOption struct {
	OptionID        string   `json:"optionId"`
	ConfigurationID string   `json:"configurationId"`
	Name            string   `json:"name"`
	Images          []string `json:"images"`
}

// AssetFile is a binary payload to upload
type AssetFile struct {
	Filename string
	Content  []byte
}

// SubmissionEvent is an audit record of one product submission attempt
type SubmissionEvent struct {
	ID          uuid.UUID         `json:"id"`
	PartnerID   string            `json:"partnerId"`
	ProductCode string            `json:"productCode"`
	ProductName string            `json:"productName"`
	Outcome     SubmissionOutcome `json:"outcome"`
	HTTPStatus  int               `json:"httpStatus"`
	ProductID   *string           `json:"productId,omitempty"`
	Message     string            `json:"message,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}
