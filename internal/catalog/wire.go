package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/rebilt/catalogadmin/internal/domain"
)

// Wire shapes of the catalog API. Documents carry Mongo-style "_id" keys and
// references may be either bare ids or populated documents.

type wirePartner struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Package string `json:"package"`
}

func (p wirePartner) toDomain() domain.Partner {
	return domain.Partner{
		ID:      firstNonEmpty(p.MongoID, p.ID),
		Name:    p.Name,
		Package: domain.PartnerTier(p.Package),
	}
}

type wireOption struct {
	MongoID  string     `json:"_id"`
	ID       string     `json:"id"`
	OptionID domain.Ref `json:"optionId"`
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Price    float64    `json:"price"`
}

func (o wireOption) toDomain() domain.Option {
	return domain.Option{
		ID:    firstNonEmpty(o.OptionID.ID, o.MongoID, o.ID),
		Name:  firstNonEmpty(o.Name, o.OptionID.Name),
		Type:  o.Type,
		Price: o.Price,
	}
}

type wireConfiguration struct {
	MongoID   string       `json:"_id"`
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	FieldType string       `json:"fieldType"`
	Options   []wireOption `json:"options"`
}

func (c wireConfiguration) toDomain() domain.Configuration {
	cfg := domain.Configuration{
		ID:        firstNonEmpty(c.MongoID, c.ID),
		Name:      c.Name,
		FieldType: domain.FieldType(c.FieldType),
		Options:   make([]domain.Option, 0, len(c.Options)),
	}
	for _, o := range c.Options {
		opt := o.toDomain()
		if opt.ID == "" {
			continue
		}
		cfg.Options = append(cfg.Options, opt)
	}
	return cfg
}

// wireConfigurationRef is a configurationId that is either a bare id or a populated configuration
type wireConfigurationRef struct {
	wireConfiguration
}

func (r *wireConfigurationRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &r.MongoID)
	}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	return json.Unmarshal(b, &r.wireConfiguration)
}

type wirePartnerConfiguration struct {
	MongoID         string               `json:"_id"`
	ConfigurationID wireConfigurationRef `json:"configurationId"`
	FieldType       string               `json:"fieldType"`
	Options         []wireOption         `json:"options"`
}

// toDomain flattens the entry into the configuration the partner exposes: the global
// configuration id and field type, with the partner's own option list
func (pc wirePartnerConfiguration) toDomain() domain.PartnerConfiguration {
	ref := pc.ConfigurationID.wireConfiguration
	options := pc.Options
	if len(options) == 0 {
		options = ref.Options
	}
	cfg := wireConfiguration{
		MongoID:   ref.MongoID,
		ID:        ref.ID,
		Name:      ref.Name,
		FieldType: firstNonEmpty(pc.FieldType, ref.FieldType),
		Options:   options,
	}
	return domain.PartnerConfiguration{
		ID:            pc.MongoID,
		Configuration: cfg.toDomain(),
	}
}

type wireSelectedOption struct {
	MongoID  string     `json:"_id"`
	ID       string     `json:"id"`
	OptionID domain.Ref `json:"optionId"`
	Images   []string   `json:"images"`
}

type wireProductConfiguration struct {
	ConfigurationID domain.Ref           `json:"configurationId"`
	SelectedOptions []wireSelectedOption `json:"selectedOptions"`
}

type wireProduct struct {
	MongoID        string                     `json:"_id"`
	ID             string                     `json:"id"`
	ProductCode    string                     `json:"productCode"`
	ProductName    string                     `json:"productName"`
	ProductType    string                     `json:"productType"`
	ProductPrice   float64                    `json:"productPrice"`
	Description    string                     `json:"description"`
	Brand          string                     `json:"brand"`
	ActiveInactive string                     `json:"activeInactive"`
	PartnerID      domain.Ref                 `json:"partnerId"`
	Configurations []wireProductConfiguration `json:"configurations"`
}

func (p wireProduct) toDomain() domain.Product {
	product := domain.Product{
		ID:             firstNonEmpty(p.MongoID, p.ID),
		ProductCode:    p.ProductCode,
		ProductName:    p.ProductName,
		ProductType:    p.ProductType,
		ProductPrice:   p.ProductPrice,
		Description:    p.Description,
		Brand:          p.Brand,
		ActiveInactive: p.ActiveInactive,
		PartnerID:      p.PartnerID.ID,
		Configurations: make([]domain.ProductConfiguration, 0, len(p.Configurations)),
	}
	for _, pc := range p.Configurations {
		cfg := domain.ProductConfiguration{
			ConfigurationID: pc.ConfigurationID.ID,
			SelectedOptions: make([]domain.SelectedOption, 0, len(pc.SelectedOptions)),
		}
		for _, so := range pc.SelectedOptions {
			images := so.Images
			if images == nil {
				images = []string{}
			}
			cfg.SelectedOptions = append(cfg.SelectedOptions, domain.SelectedOption{
				ID:       firstNonEmpty(so.MongoID, so.ID),
				OptionID: so.OptionID.ID,
				Images:   images,
			})
		}
		product.Configurations = append(product.Configurations, cfg)
	}
	return product
}

// productPayload is the body of POST /products
type productPayload struct {
	ProductCode    string                 `json:"productCode"`
	ProductName    string                 `json:"productName"`
	ProductType    string                 `json:"productType"`
	ProductPrice   float64                `json:"productPrice"`
	Description    string                 `json:"description"`
	Brand          string                 `json:"brand"`
	ActiveInactive string                 `json:"activeInactive"`
	PartnerID      string                 `json:"partnerId"`
	Configurations []configurationPayload `json:"configurations"`
}

type configurationPayload struct {
	ConfigurationID string                  `json:"configurationId"`
	SelectedOptions []selectedOptionPayload `json:"selectedOptions"`
}

type selectedOptionPayload struct {
	ID       string   `json:"_id,omitempty"`
	OptionID string   `json:"optionId"`
	Images   []string `json:"images"`
}

func newProductPayload(draft domain.ProductDraft) productPayload {
	p := productPayload{
		ProductCode:    draft.ProductCode,
		ProductName:    draft.ProductName,
		ProductType:    draft.ProductType,
		Description:    draft.Description,
		Brand:          draft.Brand,
		ActiveInactive: draft.ActiveInactive,
		PartnerID:      draft.PartnerID,
		Configurations: make([]configurationPayload, 0, len(draft.Configurations)),
	}
	if draft.ProductPrice != nil {
		p.ProductPrice = *draft.ProductPrice
	}
	if p.ActiveInactive == "" {
		p.ActiveInactive = "active"
	}
	for _, pc := range draft.Configurations {
		cp := configurationPayload{
			ConfigurationID: pc.ConfigurationID,
			SelectedOptions: make([]selectedOptionPayload, 0, len(pc.SelectedOptions)),
		}
		for _, so := range pc.SelectedOptions {
			images := append([]string{}, so.Images...)
			cp.SelectedOptions = append(cp.SelectedOptions, selectedOptionPayload{
				ID:       so.ID,
				OptionID: so.OptionID,
				Images:   images,
			})
		}
		p.Configurations = append(p.Configurations, cp)
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
