package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rebilt/catalogadmin/internal/cloudinary"
	"github.com/rebilt/catalogadmin/internal/config"
	"github.com/rebilt/catalogadmin/internal/domain"
	"github.com/rebilt/catalogadmin/internal/repository"
	"github.com/rebilt/catalogadmin/internal/service"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

type stubCatalog struct {
	createStatus int
	lastToken    string
}

func (s *stubCatalog) GetPartner(ctx context.Context, token, partnerID string) (*domain.Partner, error) {
	s.lastToken = token
	if partnerID == "locked" {
		return nil, &apperrors.RemoteAPIError{Method: "GET", Path: "/partners/locked", Status: http.StatusUnauthorized, Message: "not your partner"}
	}
	if partnerID != "p1" {
		return nil, &apperrors.ErrNotFound{Resource: "partner", ID: partnerID}
	}
	return &domain.Partner{ID: "p1", Name: "Acme", Package: domain.PartnerTierStandard}, nil
}

func (s *stubCatalog) GetPartnerByName(ctx context.Context, token, name string) (*domain.Partner, error) {
	s.lastToken = token
	if name != "Acme" {
		return nil, &apperrors.ErrNotFound{Resource: "partner", ID: name}
	}
	return &domain.Partner{ID: "p1", Name: "Acme", Package: domain.PartnerTierStandard}, nil
}

func (s *stubCatalog) ListConfigurations(ctx context.Context, token string) ([]domain.Configuration, error) {
	return []domain.Configuration{
		{ID: "c1", Name: "Color", FieldType: domain.FieldTypeColor},
		{ID: "c2", Name: "Size", FieldType: "select"},
	}, nil
}

func (s *stubCatalog) GetPartnerConfigurations(ctx context.Context, token, partnerID string) ([]domain.PartnerConfiguration, error) {
	return []domain.PartnerConfiguration{{
		ID: "pc1",
		Configuration: domain.Configuration{ID: "c1", FieldType: domain.FieldTypeColor, Options: []domain.Option{
			{ID: "o1", Name: "Red"},
		}},
	}}, nil
}

func (s *stubCatalog) GetConfiguration(ctx context.Context, token, configurationID string) (*domain.Configuration, error) {
	return &domain.Configuration{ID: configurationID, Name: "Color", FieldType: domain.FieldTypeColor}, nil
}

func (s *stubCatalog) GetOption(ctx context.Context, token, optionID string) (*domain.Option, error) {
	return &domain.Option{ID: optionID, Name: "Red"}, nil
}

func (s *stubCatalog) CreateOption(ctx context.Context, token string, option domain.Option) (*domain.Option, error) {
	option.ID = "o-new"
	return &option, nil
}

func (s *stubCatalog) ListProducts(ctx context.Context, token, partnerName string) ([]domain.Product, error) {
	return []domain.Product{
		{ID: "a", ProductType: "chair"},
		{ID: "b", ProductType: "table"},
	}, nil
}

func (s *stubCatalog) GetProduct(ctx context.Context, token, productID string) (*domain.Product, error) {
	return &domain.Product{ID: productID}, nil
}

func (s *stubCatalog) CreateProduct(ctx context.Context, token string, draft domain.ProductDraft) (string, error) {
	if s.createStatus != http.StatusCreated {
		return "", &apperrors.RemoteAPIError{Method: "POST", Path: "/products", Status: s.createStatus, Message: "nope"}
	}
	return "prod-1", nil
}

type stubHost struct{}

func (stubHost) Upload(ctx context.Context, in cloudinary.UploadRequest) (*cloudinary.UploadResponse, error) {
	return &cloudinary.UploadResponse{SecureURL: "https://host/" + in.Filename}, nil
}

type stubEvents struct {
	listed int
}

func (s *stubEvents) Create(ctx context.Context, event *domain.SubmissionEvent) error {
	return nil
}

func (s *stubEvents) ListByPartnerID(ctx context.Context, partnerID string, limit, offset int) ([]*domain.SubmissionEvent, error) {
	s.listed++
	return []*domain.SubmissionEvent{{PartnerID: partnerID, ProductCode: "CH-1", Outcome: domain.SubmissionOutcomeCreated}}, nil
}

func newTestRouter(t *testing.T, catalog *stubCatalog) *gin.Engine {
	return newTestRouterWithRepos(t, catalog, nil)
}

func newTestRouterWithRepos(t *testing.T, catalog *stubCatalog, repos *repository.Repositories) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)
	cfg := &config.Config{
		Environment: "test",
		Upload: config.UploadConfig{
			ImageFormats: []string{"png", "jpg"},
			ModelFormats: []string{"glb", "gltf"},
			Concurrency:  2,
			JoinMode:     "best-effort",
		},
	}
	svc := service.NewServices(cfg, catalog, stubHost{}, repos, logger)
	return NewRouter(cfg, svc, logger)
}

func do(router *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer tok")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingBearerIsUnauthorized(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/partners/p1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetPartnerForwardsToken(t *testing.T) {
	catalog := &stubCatalog{}
	router := newTestRouter(t, catalog)

	w := do(router, http.MethodGet, "/v1/partners/p1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Acme"`)
	assert.Equal(t, "tok", catalog.lastToken)

	w = do(router, http.MethodGet, "/v1/partners/nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProductsByType(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{})

	w := do(router, http.MethodGet, "/v1/partners/p1/products?type=table", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Products []domain.Product `json:"products"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "b", body.Products[0].ID)

	w = do(router, http.MethodGet, "/v1/partners/p1/product-types", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"productTypes":["chair","table"]}`, w.Body.String())
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{createStatus: http.StatusCreated})

	body := bytes.NewBufferString(`{"product":{"productName":"Chair","productPrice":-5},"selectedOptions":["o1"]}`)
	w := do(router, http.MethodPost, "/v1/partners/p1/products", body, "application/json")

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "productPrice")
}

func TestCreateProduct(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{createStatus: http.StatusCreated})

	body := bytes.NewBufferString(`{
		"product": {"productName": "Chair", "productPrice": 120},
		"selectedOptions": [{"optionId": {"_id": "o1"}}],
		"uploadedUrls": {"o1": ["https://host/red.png"]}
	}`)
	w := do(router, http.MethodPost, "/v1/partners/p1/products", body, "application/json")

	require.Equal(t, http.StatusCreated, w.Code)
	var result service.CreateProductResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "prod-1", result.ProductID)
	require.Len(t, result.Configurations, 1)
	assert.Equal(t, []string{"https://host/red.png"}, result.Configurations[0].SelectedOptions[0].Images)
}

func TestCreateProductAcceptsPopulatedConfigurationIDs(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{createStatus: http.StatusCreated})

	body := bytes.NewBufferString(`{
		"product": {
			"productName": "Chair",
			"productPrice": 120,
			"configurations": [{
				"configurationId": {"_id": "c1", "name": "Color"},
				"selectedOptions": [{"_id": "s9", "optionId": {"_id": "o1", "name": "Red"}}]
			}]
		}
	}`)
	w := do(router, http.MethodPost, "/v1/partners/p1/products", body, "application/json")

	require.Equal(t, http.StatusCreated, w.Code)
	var raw struct {
		Configurations []struct {
			ConfigurationID string `json:"configurationId"`
			SelectedOptions []struct {
				ID       string `json:"id"`
				OptionID string `json:"optionId"`
			} `json:"selectedOptions"`
		} `json:"configurations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw.Configurations, 1)
	assert.Equal(t, "c1", raw.Configurations[0].ConfigurationID)
	require.Len(t, raw.Configurations[0].SelectedOptions, 1)
	assert.Equal(t, "s9", raw.Configurations[0].SelectedOptions[0].ID)
	assert.Equal(t, "o1", raw.Configurations[0].SelectedOptions[0].OptionID)
}

func TestCreateProductUpstreamFailureIsBadGateway(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{createStatus: http.StatusInternalServerError})

	body := bytes.NewBufferString(`{"product": {"productName": "Chair", "productPrice": 120}}`)
	w := do(router, http.MethodPost, "/v1/partners/p1/products", body, "application/json")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestUploadAssetsBestEffort(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("productName", "Chair"))
	for _, f := range []struct{ option, name string }{{"o1", "red.png"}, {"o2", "chair.glb"}} {
		part, err := mw.CreateFormFile("file", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content"))
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("optionId", f.option))
	}
	require.NoError(t, mw.Close())

	w := do(router, http.MethodPost, "/v1/partners/p1/assets", &buf, mw.FormDataContentType())

	require.Equal(t, http.StatusOK, w.Code)
	var result service.UploadAssetsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, []string{"https://host/red.png"}, result.URLs["o1"])
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "o2", result.Warnings[0].OptionID)
	assert.True(t, strings.Contains(result.Warnings[0].Message, "pro"))
}

func TestUploadAssetsRequiresOptionPerFile(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "red.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := do(router, http.MethodPost, "/v1/partners/p1/assets", &buf, mw.FormDataContentType())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "optionId")
}

func TestCreateOption(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{})

	w := do(router, http.MethodPost, "/v1/options", bytes.NewBufferString(`{"name":"Teal"}`), "application/json")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"o-new"`)
	assert.Contains(t, w.Body.String(), `"type":"kleur"`)
}

func TestListSubmissionsWithoutAudit(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{})

	w := do(router, http.MethodGet, "/v1/partners/p1/submissions?limit=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"submissions":[],"limit":10,"offset":0}`, w.Body.String())
}

func TestListSubmissionsRequiresPartnerAccess(t *testing.T) {
	catalog := &stubCatalog{}
	events := &stubEvents{}
	router := newTestRouterWithRepos(t, catalog, &repository.Repositories{SubmissionEvent: events})

	w := do(router, http.MethodGet, "/v1/partners/locked/submissions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "CH-1")
	assert.Equal(t, 0, events.listed)
	assert.Equal(t, "tok", catalog.lastToken)

	w = do(router, http.MethodGet, "/v1/partners/nobody/submissions", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, events.listed)

	w = do(router, http.MethodGet, "/v1/partners/p1/submissions", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"productCode":"CH-1"`)
	assert.Equal(t, 1, events.listed)
}

func TestFindPartnerByName(t *testing.T) {
	catalog := &stubCatalog{}
	router := newTestRouter(t, catalog)

	w := do(router, http.MethodGet, "/v1/partners?name=Acme", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"p1"`)
	assert.Equal(t, "tok", catalog.lastToken)

	w = do(router, http.MethodGet, "/v1/partners?name=Nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodGet, "/v1/partners", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListConfigurationsByFieldType(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{})

	w := do(router, http.MethodGet, "/v1/configurations", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)

	w = do(router, http.MethodGet, "/v1/configurations?fieldType=color", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Configurations []domain.Configuration `json:"configurations"`
		Count          int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "c1", body.Configurations[0].ID)
}
