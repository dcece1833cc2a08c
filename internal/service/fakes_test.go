package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rebilt/catalogadmin/internal/cloudinary"
	"github.com/rebilt/catalogadmin/internal/domain"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

type fakeCatalog struct {
	mu sync.Mutex

	partners       map[string]domain.Partner
	partnerConfigs []domain.PartnerConfiguration
	configsErr     error
	configurations map[string]domain.Configuration
	globalConfigs  []domain.Configuration
	options        map[string]domain.Option
	products       []domain.Product

	createStatus int
	createdID    string
	created      []domain.ProductDraft
	createdOpts  []domain.Option
	calls        int
}

func (f *fakeCatalog) hit() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeCatalog) GetPartner(ctx context.Context, token, partnerID string) (*domain.Partner, error) {
	f.hit()
	p, ok := f.partners[partnerID]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "partner", ID: partnerID}
	}
	return &p, nil
}

func (f *fakeCatalog) GetPartnerByName(ctx context.Context, token, name string) (*domain.Partner, error) {
	f.hit()
	for _, p := range f.partners {
		if p.Name == name {
			p := p
			return &p, nil
		}
	}
	return nil, &apperrors.ErrNotFound{Resource: "partner", ID: name}
}

func (f *fakeCatalog) ListConfigurations(ctx context.Context, token string) ([]domain.Configuration, error) {
	f.hit()
	if f.configsErr != nil {
		return nil, f.configsErr
	}
	return f.globalConfigs, nil
}

func (f *fakeCatalog) GetPartnerConfigurations(ctx context.Context, token, partnerID string) ([]domain.PartnerConfiguration, error) {
	f.hit()
	if f.configsErr != nil {
		return nil, f.configsErr
	}
	return f.partnerConfigs, nil
}

func (f *fakeCatalog) GetConfiguration(ctx context.Context, token, configurationID string) (*domain.Configuration, error) {
	f.hit()
	cfg, ok := f.configurations[configurationID]
	if !ok {
		return nil, &apperrors.RemoteAPIError{Method: "GET", Path: "/configurations/" + configurationID, Status: 500, Message: "boom"}
	}
	return &cfg, nil
}

func (f *fakeCatalog) GetOption(ctx context.Context, token, optionID string) (*domain.Option, error) {
	f.hit()
	opt, ok := f.options[optionID]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "option", ID: optionID}
	}
	return &opt, nil
}

func (f *fakeCatalog) CreateOption(ctx context.Context, token string, option domain.Option) (*domain.Option, error) {
	f.hit()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdOpts = append(f.createdOpts, option)
	option.ID = "new-option"
	return &option, nil
}

func (f *fakeCatalog) ListProducts(ctx context.Context, token, partnerName string) ([]domain.Product, error) {
	f.hit()
	return f.products, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, token, productID string) (*domain.Product, error) {
	f.hit()
	for _, p := range f.products {
		if p.ID == productID {
			p := p
			return &p, nil
		}
	}
	return nil, &apperrors.ErrNotFound{Resource: "product", ID: productID}
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, token string, draft domain.ProductDraft) (string, error) {
	f.hit()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, draft)
	if f.createStatus != 0 && f.createStatus != 201 {
		return "", &apperrors.RemoteAPIError{Method: "POST", Path: "/products", Status: f.createStatus, Message: "database unavailable"}
	}
	return f.createdID, nil
}

type fakeHost struct {
	calls    int32
	failures map[string]error
}

func (h *fakeHost) Upload(ctx context.Context, in cloudinary.UploadRequest) (*cloudinary.UploadResponse, error) {
	atomic.AddInt32(&h.calls, 1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := h.failures[in.Filename]; ok {
		return nil, err
	}
	return &cloudinary.UploadResponse{
		SecureURL:    "https://host/" + in.Folder + "/" + in.Filename,
		ResourceType: string(in.Channel),
	}, nil
}

func (h *fakeHost) callCount() int {
	return int(atomic.LoadInt32(&h.calls))
}

type recordingEvents struct {
	mu     sync.Mutex
	events []*domain.SubmissionEvent
}

func (r *recordingEvents) Create(ctx context.Context, event *domain.SubmissionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEvents) ListByPartnerID(ctx context.Context, partnerID string, limit, offset int) ([]*domain.SubmissionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.SubmissionEvent, 0)
	for _, e := range r.events {
		if e.PartnerID == partnerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func price(v float64) *float64 {
	return &v
}

func colorConfig(id string, optionIDs ...string) domain.Configuration {
	cfg := domain.Configuration{ID: id, FieldType: domain.FieldTypeColor}
	for _, o := range optionIDs {
		cfg.Options = append(cfg.Options, domain.Option{ID: o, Name: "name-" + o})
	}
	return cfg
}
