package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rebilt/catalogadmin/internal/config"
	"github.com/rebilt/catalogadmin/internal/domain"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

var testUploadConfig = config.UploadConfig{
	ImageFormats: []string{"jpg", "jpeg", "png", "gif", "bmp", "webp"},
	ModelFormats: []string{"glb", "gltf"},
	Concurrency:  2,
	JoinMode:     "best-effort",
}

func TestAssetPolicyChannel(t *testing.T) {
	policy := NewAssetPolicy(testUploadConfig)

	tests := []struct {
		name     string
		filename string
		tier     domain.PartnerTier
		channel  domain.UploadChannel
		reason   apperrors.AssetRejection
	}{
		{"pro image", "red.PNG", domain.PartnerTierPro, domain.UploadChannelImage, ""},
		{"standard image", "red.webp", domain.PartnerTierStandard, domain.UploadChannelImage, ""},
		{"pro model", "chair.glb", domain.PartnerTierPro, domain.UploadChannelRaw, ""},
		{"standard model", "chair.glb", domain.PartnerTierStandard, "", apperrors.RejectedForTier},
		{"unknown tier model", "chair.gltf", domain.PartnerTier("gold"), "", apperrors.RejectedForTier},
		{"pro unknown extension", "notes.exe", domain.PartnerTierPro, "", apperrors.RejectedFileType},
		{"no extension", "README", domain.PartnerTierPro, "", apperrors.RejectedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel, err := policy.Channel(tt.filename, tt.tier)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.channel, channel)
				return
			}
			var unsupported *apperrors.UnsupportedAssetError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, tt.reason, unsupported.Reason)
		})
	}
}

func TestAssetPolicyConfigurableModelFormats(t *testing.T) {
	cfg := testUploadConfig
	cfg.ModelFormats = []string{"glb", "gltf", ".OBJ"}
	policy := NewAssetPolicy(cfg)

	channel, err := policy.Channel("table.obj", domain.PartnerTierPro)
	require.NoError(t, err)
	assert.Equal(t, domain.UploadChannelRaw, channel)
}

func TestUploadAssetStandardGLBNeverCallsHost(t *testing.T) {
	host := &fakeHost{}
	uploader := NewAssetUploader(host, testUploadConfig, zaptest.NewLogger(t))

	_, err := uploader.UploadAsset(context.Background(),
		domain.AssetFile{Filename: "chair.glb", Content: []byte("glTF")},
		UploadContext{PartnerID: "p1", PartnerTier: domain.PartnerTierStandard, ProductName: "Chair"})

	var unsupported *apperrors.UnsupportedAssetError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, apperrors.RejectedForTier, unsupported.Reason)
	assert.Equal(t, 0, host.callCount())
}

func TestUploadAssetReturnsSecureURL(t *testing.T) {
	host := &fakeHost{}
	uploader := NewAssetUploader(host, testUploadConfig, zaptest.NewLogger(t))

	url, err := uploader.UploadAsset(context.Background(),
		domain.AssetFile{Filename: "red.png", Content: []byte{0x89, 'P', 'N', 'G'}},
		UploadContext{PartnerName: "Acme Inc.", PartnerTier: domain.PartnerTierPro, ProductName: "Lounge Chair"})

	require.NoError(t, err)
	assert.Equal(t, "https://host/AcmeInc/products/LoungeChair/red.png", url)
}

func TestUploadAssetRejectsEmptyFile(t *testing.T) {
	host := &fakeHost{}
	uploader := NewAssetUploader(host, testUploadConfig, zaptest.NewLogger(t))

	_, err := uploader.UploadAsset(context.Background(), domain.AssetFile{Filename: "red.png"}, UploadContext{})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "file")
	assert.Equal(t, 0, host.callCount())
}

func TestUploadContextFolder(t *testing.T) {
	assert.Equal(t, "Acme/products/Chair_1", UploadContext{PartnerName: "Acme", PartnerID: "p1", ProductName: "Chair_1"}.Folder())
	assert.Equal(t, "p1/products/Chair", UploadContext{PartnerID: "p1", ProductName: "Chair!"}.Folder())
	assert.Equal(t, "DefaultFolder/products/", UploadContext{}.Folder())
}

func TestUploadAllBestEffortKeepsSuccessfulUploads(t *testing.T) {
	host := &fakeHost{failures: map[string]error{
		"broken.png": &apperrors.UploadError{Filename: "broken.png", Status: 500, Message: "upstream"},
	}}
	uploader := NewAssetUploader(host, testUploadConfig, zaptest.NewLogger(t))
	uc := UploadContext{PartnerName: "Acme", PartnerTier: domain.PartnerTierStandard, ProductName: "Chair"}

	batch, err := uploader.UploadAll(context.Background(), []UploadJob{
		{OptionID: "o1", File: domain.AssetFile{Filename: "red.png", Content: []byte("x")}},
		{OptionID: "o1", File: domain.AssetFile{Filename: "red-2.png", Content: []byte("x")}},
		{OptionID: "o2", File: domain.AssetFile{Filename: "chair.glb", Content: []byte("x")}},
		{OptionID: "o3", File: domain.AssetFile{Filename: "broken.png", Content: []byte("x")}},
	}, uc, JoinBestEffort)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://host/Acme/products/Chair/red.png",
		"https://host/Acme/products/Chair/red-2.png",
	}, batch.URLs["o1"])
	assert.NotContains(t, batch.URLs, "o2")
	assert.NotContains(t, batch.URLs, "o3")
	require.Len(t, batch.Failures, 2)
	assert.Equal(t, "o2", batch.Failures[0].OptionID)
	assert.Equal(t, "o3", batch.Failures[1].OptionID)
	assert.Len(t, batch.Warnings(), 2)
	// the glb is rejected by policy before reaching the host
	assert.Equal(t, 3, host.callCount())
}

func TestUploadAllFailFastReturnsFirstError(t *testing.T) {
	host := &fakeHost{}
	cfg := testUploadConfig
	cfg.Concurrency = 1
	uploader := NewAssetUploader(host, cfg, zaptest.NewLogger(t))
	uc := UploadContext{PartnerName: "Acme", PartnerTier: domain.PartnerTierStandard, ProductName: "Chair"}

	batch, err := uploader.UploadAll(context.Background(), []UploadJob{
		{OptionID: "o1", File: domain.AssetFile{Filename: "chair.glb", Content: []byte("x")}},
		{OptionID: "o2", File: domain.AssetFile{Filename: "red.png", Content: []byte("x")}},
	}, uc, JoinFailFast)

	assert.Nil(t, batch)
	var unsupported *apperrors.UnsupportedAssetError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "chair.glb", unsupported.Filename)
}

func TestUploadAllCancelledContextDiscardsResults(t *testing.T) {
	host := &fakeHost{}
	uploader := NewAssetUploader(host, testUploadConfig, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := uploader.UploadAll(ctx, []UploadJob{
		{OptionID: "o1", File: domain.AssetFile{Filename: "red.png", Content: []byte("x")}},
	}, UploadContext{PartnerTier: domain.PartnerTierPro}, JoinBestEffort)

	assert.Nil(t, batch)
	assert.True(t, errors.Is(err, context.Canceled))
}
