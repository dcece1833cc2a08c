package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/domain"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

// GetPartner fetches a partner (name, package) by id
func (c *Client) GetPartner(ctx context.Context, token, partnerID string) (*domain.Partner, error) {
	var data struct {
		Partner *wirePartner `json:"partner"`
	}
	if err := c.getData(ctx, http.MethodGet, "/partners/"+segment(partnerID), nil, token, nil, &data); err != nil {
		return nil, err
	}
	if data.Partner == nil {
		return nil, &apperrors.ErrNotFound{Resource: "partner", ID: partnerID}
	}
	partner := data.Partner.toDomain()
	return &partner, nil
}

// GetPartnerByName fetches a partner by its unique name
func (c *Client) GetPartnerByName(ctx context.Context, token, name string) (*domain.Partner, error) {
	var data struct {
		Partner *wirePartner `json:"partner"`
	}
	if err := c.getData(ctx, http.MethodGet, "/partners/partner/"+segment(name), nil, token, nil, &data); err != nil {
		return nil, err
	}
	if data.Partner == nil {
		return nil, &apperrors.ErrNotFound{Resource: "partner", ID: name}
	}
	partner := data.Partner.toDomain()
	return &partner, nil
}

// GetPartnerConfigurations fetches the partner's configuration and option tree
func (c *Client) GetPartnerConfigurations(ctx context.Context, token, partnerID string) ([]domain.PartnerConfiguration, error) {
	var data []wirePartnerConfiguration
	query := url.Values{}
	query.Set("partnerId", partnerID)
	if err := c.getData(ctx, http.MethodGet, "/partnerConfigurations", query, token, nil, &data); err != nil {
		return nil, err
	}

	out := make([]domain.PartnerConfiguration, 0, len(data))
	for _, pc := range data {
		cfg := pc.toDomain()
		if cfg.Configuration.ID == "" {
			c.logger.Warn("Skipping partner configuration without configuration id",
				zap.String("partner_id", partnerID), zap.String("partner_configuration_id", pc.MongoID))
			continue
		}
		out = append(out, cfg)
	}
	return out, nil
}

// ListConfigurations fetches the global configuration catalog
func (c *Client) ListConfigurations(ctx context.Context, token string) ([]domain.Configuration, error) {
	var data []wireConfiguration
	if err := c.getData(ctx, http.MethodGet, "/configurations", nil, token, nil, &data); err != nil {
		return nil, err
	}
	out := make([]domain.Configuration, 0, len(data))
	for _, cfg := range data {
		out = append(out, cfg.toDomain())
	}
	return out, nil
}

// GetConfiguration fetches one configuration of the global catalog
func (c *Client) GetConfiguration(ctx context.Context, token, configurationID string) (*domain.Configuration, error) {
	var data *wireConfiguration
	if err := c.getData(ctx, http.MethodGet, "/configurations/"+segment(configurationID), nil, token, nil, &data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, &apperrors.ErrNotFound{Resource: "configuration", ID: configurationID}
	}
	cfg := data.toDomain()
	return &cfg, nil
}

// GetOption fetches a single option
func (c *Client) GetOption(ctx context.Context, token, optionID string) (*domain.Option, error) {
	var data *wireOption
	if err := c.getData(ctx, http.MethodGet, "/options/"+segment(optionID), nil, token, nil, &data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, &apperrors.ErrNotFound{Resource: "option", ID: optionID}
	}
	opt := data.toDomain()
	if opt.ID == "" {
		opt.ID = optionID
	}
	return &opt, nil
}

// CreateOption creates a new option, e.g. a new color. The backend must answer with the new id.
func (c *Client) CreateOption(ctx context.Context, token string, option domain.Option) (*domain.Option, error) {
	body := map[string]interface{}{
		"name":  option.Name,
		"type":  option.Type,
		"price": option.Price,
	}
	var data *wireOption
	if err := c.getData(ctx, http.MethodPost, "/options", nil, token, body, &data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, &apperrors.RemoteAPIError{Method: http.MethodPost, Path: "/options", Status: http.StatusOK, Message: "no option returned"}
	}
	created := data.toDomain()
	if created.ID == "" {
		return nil, &apperrors.RemoteAPIError{Method: http.MethodPost, Path: "/options", Status: http.StatusOK, Message: "created option has no id"}
	}
	if created.Name == "" {
		created.Name = option.Name
	}
	return &created, nil
}

// ListProducts lists the products of a partner by partner name
func (c *Client) ListProducts(ctx context.Context, token, partnerName string) ([]domain.Product, error) {
	var data struct {
		Products []wireProduct `json:"products"`
	}
	query := url.Values{}
	query.Set("partnerName", partnerName)
	if err := c.getData(ctx, http.MethodGet, "/products", query, token, nil, &data); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(data.Products))
	for _, p := range data.Products {
		out = append(out, p.toDomain())
	}
	return out, nil
}

// GetProduct fetches one product
func (c *Client) GetProduct(ctx context.Context, token, productID string) (*domain.Product, error) {
	var raw json.RawMessage
	if err := c.getData(ctx, http.MethodGet, "/products/"+segment(productID), nil, token, nil, &raw); err != nil {
		return nil, err
	}
	product, err := decodeProduct(raw)
	if err != nil {
		return nil, &apperrors.RemoteAPIError{Method: http.MethodGet, Path: "/products/" + productID, Status: http.StatusOK, Message: "unexpected product payload", Err: err}
	}
	if product == nil {
		return nil, &apperrors.ErrNotFound{Resource: "product", ID: productID}
	}
	p := product.toDomain()
	return &p, nil
}

// CreateProduct posts a product with its embedded configurations. Any 201 Created
// is a success, whatever its body says; the new id is read best-effort and comes
// back empty when the body does not carry one. Every other status comes back as
// *RemoteAPIError carrying the status and response body.
func (c *Client) CreateProduct(ctx context.Context, token string, draft domain.ProductDraft) (string, error) {
	const path = "/products"

	status, body, err := c.do(ctx, http.MethodPost, path, nil, token, newProductPayload(draft))
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		c.logger.Warn("Product create rejected", zap.Int("status", status), zap.String("partner_id", draft.PartnerID))
		return "", &apperrors.RemoteAPIError{Method: http.MethodPost, Path: path, Status: status, Message: errorMessage(body)}
	}

	id := createdProductID(body)
	if id == "" {
		c.logger.Warn("Product created without a readable id",
			zap.String("partner_id", draft.PartnerID),
			zap.Int("body_bytes", len(body)))
	}
	return id, nil
}

// createdProductID digs the id out of a 201 body. It tries the envelope's data
// first and then the body itself as a product document. Unreadable bodies yield "".
func createdProductID(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{env.Data, body} {
		product, err := decodeProduct(raw)
		if err != nil || product == nil {
			continue
		}
		if id := product.toDomain().ID; id != "" {
			return id
		}
	}
	return ""
}

// decodeProduct accepts both {"product": {...}} and the bare product document
func decodeProduct(raw json.RawMessage) (*wireProduct, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var wrapped struct {
		Product *wireProduct `json:"product"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Product != nil {
		return wrapped.Product, nil
	}
	var product wireProduct
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, err
	}
	if product.MongoID == "" && product.ID == "" {
		return nil, nil
	}
	return &product, nil
}
