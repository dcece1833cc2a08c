package service

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/cloudinary"
	"github.com/rebilt/catalogadmin/internal/config"
	"github.com/rebilt/catalogadmin/internal/domain"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

// AssetPolicy decides which file types a partner tier may upload and on which channel
type AssetPolicy struct {
	imageFormats map[string]struct{}
	modelFormats map[string]struct{}
}

// NewAssetPolicy builds the policy from the configured format lists
func NewAssetPolicy(cfg config.UploadConfig) AssetPolicy {
	return AssetPolicy{
		imageFormats: toSet(cfg.ImageFormats),
		modelFormats: toSet(cfg.ModelFormats),
	}
}

// Channel returns the upload channel for filename under tier, or an
// *UnsupportedAssetError. Pro accepts images and 3D models, standard only images.
// Unknown tiers get the standard policy.
func (p AssetPolicy) Channel(filename string, tier domain.PartnerTier) (domain.UploadChannel, error) {
	ext := extension(filename)
	if _, ok := p.imageFormats[ext]; ok && ext != "" {
		return domain.UploadChannelImage, nil
	}
	if _, ok := p.modelFormats[ext]; ok && ext != "" {
		if tier == domain.PartnerTierPro {
			return domain.UploadChannelRaw, nil
		}
		return "", &apperrors.UnsupportedAssetError{Filename: filename, Extension: ext, Tier: tier, Reason: apperrors.RejectedForTier}
	}
	return "", &apperrors.UnsupportedAssetError{Filename: filename, Extension: ext, Tier: tier, Reason: apperrors.RejectedFileType}
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimPrefix(v, "."))] = struct{}{}
	}
	return set
}

// UploadContext namespaces the storage folder and carries the tier for the policy
type UploadContext struct {
	PartnerID   string
	PartnerName string
	PartnerTier domain.PartnerTier
	ProductName string
}

var folderUnsafe = regexp.MustCompile(`[^a-zA-Z0-9/_-]`)

// Folder is "{partner}/products/{product}" with everything outside [a-zA-Z0-9/_-] removed
func (uc UploadContext) Folder() string {
	owner := uc.PartnerName
	if owner == "" {
		owner = uc.PartnerID
	}
	if owner == "" {
		owner = "DefaultFolder"
	}
	return folderUnsafe.ReplaceAllString(fmt.Sprintf("%s/products/%s", owner, uc.ProductName), "")
}

// JoinMode controls how a batch of uploads reports failures
type JoinMode string

const (
	// JoinBestEffort waits for every upload; failed files are reported, the rest kept
	JoinBestEffort JoinMode = "best-effort"
	// JoinFailFast cancels the remaining uploads on the first failure
	JoinFailFast JoinMode = "fail-fast"
)

// UploadJob is one file illustrating one option
type UploadJob struct {
	OptionID string
	File     domain.AssetFile
}

// UploadFailure is a job of a best-effort batch that did not produce a URL
type UploadFailure struct {
	OptionID string
	Filename string
	Err      error
}

// UploadBatch holds the URLs per option id, in job order, plus the failures
type UploadBatch struct {
	URLs     map[string][]string
	Failures []UploadFailure
}

// Warnings converts the failures for API responses
func (b *UploadBatch) Warnings() []Warning {
	out := make([]Warning, 0, len(b.Failures))
	for _, f := range b.Failures {
		out = append(out, Warning{OptionID: f.OptionID, Filename: f.Filename, Message: f.Err.Error()})
	}
	return out
}

type AssetUploader struct {
	host        AssetHost
	policy      AssetPolicy
	concurrency int
	logger      *zap.Logger
}

// NewAssetUploader creates a new asset uploader
func NewAssetUploader(host AssetHost, cfg config.UploadConfig, logger *zap.Logger) *AssetUploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &AssetUploader{
		host:        host,
		policy:      NewAssetPolicy(cfg),
		concurrency: concurrency,
		logger:      logger,
	}
}

// UploadAsset checks the tier policy, then uploads the file and returns its https URL.
// Policy rejections never reach the network. Upload failures are not retried.
func (u *AssetUploader) UploadAsset(ctx context.Context, file domain.AssetFile, uc UploadContext) (string, error) {
	fields := map[string]string{}
	if strings.TrimSpace(file.Filename) == "" {
		fields["file"] = "file name is required"
	} else if len(file.Content) == 0 {
		fields["file"] = "file is empty"
	}
	if len(fields) > 0 {
		return "", &apperrors.ValidationError{Message: "invalid asset", Fields: fields}
	}

	channel, err := u.policy.Channel(file.Filename, uc.PartnerTier)
	if err != nil {
		u.logger.Warn("Asset rejected by tier policy",
			zap.String("partner_id", uc.PartnerID), zap.String("filename", file.Filename), zap.String("tier", string(uc.PartnerTier)))
		return "", err
	}

	resp, err := u.host.Upload(ctx, cloudinary.UploadRequest{
		Channel:  channel,
		Filename: file.Filename,
		Content:  file.Content,
		Folder:   uc.Folder(),
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

// UploadAll uploads the jobs concurrently. In best-effort mode every job runs and
// failures are collected in the batch; in fail-fast mode the first failure cancels
// the rest and is returned. If ctx is done when the uploads finish, the results are
// discarded and ctx.Err() is returned.
func (u *AssetUploader) UploadAll(ctx context.Context, jobs []UploadJob, uc UploadContext, mode JoinMode) (*UploadBatch, error) {
	urls := make([]string, len(jobs))
	errs := make([]error, len(jobs))

	p := pool.New().WithMaxGoroutines(u.concurrency).WithContext(ctx)
	if mode == JoinFailFast {
		p = p.WithCancelOnError().WithFirstError()
	}
	for i, job := range jobs {
		i, job := i, job
		p.Go(func(ctx context.Context) error {
			url, err := u.UploadAsset(ctx, job.File, uc)
			if err != nil {
				errs[i] = err
				if mode == JoinFailFast {
					return err
				}
				return nil
			}
			urls[i] = url
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &UploadBatch{URLs: make(map[string][]string)}
	for i, job := range jobs {
		if errs[i] != nil {
			u.logger.Warn("Upload skipped",
				zap.String("partner_id", uc.PartnerID), zap.String("option_id", job.OptionID),
				zap.String("filename", job.File.Filename), zap.Error(errs[i]))
			batch.Failures = append(batch.Failures, UploadFailure{OptionID: job.OptionID, Filename: job.File.Filename, Err: errs[i]})
			continue
		}
		batch.URLs[job.OptionID] = append(batch.URLs[job.OptionID], urls[i])
	}
	return batch, nil
}
