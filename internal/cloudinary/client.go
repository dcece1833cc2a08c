package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/config"
	"github.com/rebilt/catalogadmin/internal/domain"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

type Client struct {
	apiURL       string
	cloudName    string
	uploadPreset string
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewClient creates a new Cloudinary unsigned-upload client
func NewClient(cfg config.CloudinaryConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiURL:       strings.TrimSuffix(cfg.APIURL, "/"),
		cloudName:    cfg.CloudName,
		uploadPreset: cfg.UploadPreset,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// UploadRequest is one file to upload
type UploadRequest struct {
	Channel  domain.UploadChannel
	Filename string
	Content  []byte
	Folder   string
}

// UploadResponse is the subset of the upload response we use
type UploadResponse struct {
	SecureURL    string `json:"secure_url"`
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
	Format       string `json:"format"`
	Bytes        int64  `json:"bytes"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the file to /{cloud}/{image|raw}/upload and returns the hosted asset.
// Any failure, including a response without an https secure_url, is an *UploadError.
func (c *Client) Upload(ctx context.Context, in UploadRequest) (*UploadResponse, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/upload", c.apiURL, url.PathEscape(c.cloudName), in.Channel)

	body, contentType, err := c.encode(in)
	if err != nil {
		return nil, &apperrors.UploadError{Filename: in.Filename, Message: "failed to encode upload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, &apperrors.UploadError{Filename: in.Filename, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Upload request failed", zap.String("filename", in.Filename), zap.Error(err))
		return nil, &apperrors.UploadError{Filename: in.Filename, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.UploadError{Filename: in.Filename, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		msg := strings.TrimSpace(string(respBody))
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		c.logger.Warn("Upload rejected",
			zap.String("filename", in.Filename), zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return nil, &apperrors.UploadError{Filename: in.Filename, Status: resp.StatusCode, Message: msg}
	}

	var out UploadResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &apperrors.UploadError{Filename: in.Filename, Status: resp.StatusCode, Message: "malformed upload response", Err: err}
	}
	if out.SecureURL == "" {
		return nil, &apperrors.UploadError{Filename: in.Filename, Status: resp.StatusCode, Message: "no secure_url in upload response"}
	}
	if u, err := url.Parse(out.SecureURL); err != nil || u.Scheme != "https" || u.Host == "" {
		return nil, &apperrors.UploadError{Filename: in.Filename, Status: resp.StatusCode, Message: fmt.Sprintf("secure_url is not an https URL: %q", out.SecureURL)}
	}

	c.logger.Debug("Asset uploaded",
		zap.String("filename", in.Filename), zap.String("folder", in.Folder), zap.String("url", out.SecureURL))
	return &out, nil
}

func (c *Client) encode(in UploadRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(in.Filename)))
	header.Set("Content-Type", mimetype.Detect(in.Content).String())
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(in.Content); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"upload_preset", c.uploadPreset},
		{"cloud_name", c.cloudName},
		{"folder", in.Folder},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
