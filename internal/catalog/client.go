package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/config"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

const maxErrorBody = 512

// Client calls the remote catalog REST API. Every call is a single attempt;
// failures are returned to the caller, never retried here.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a catalog API client
func NewClient(cfg config.CatalogConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// envelope is the response shape of every catalog endpoint
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do executes one request and returns the status and raw body. Transport failures
// (including timeouts) come back as *RemoteAPIError with Status 0.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body interface{}) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, &apperrors.RemoteAPIError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Catalog API request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return 0, nil, &apperrors.RemoteAPIError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &apperrors.RemoteAPIError{Method: method, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return resp.StatusCode, respBody, nil
}

// getData performs a request expecting a 2xx envelope and decodes its data into out
func (c *Client) getData(ctx context.Context, method, path string, query url.Values, token string, body, out interface{}) error {
	status, respBody, err := c.do(ctx, method, path, query, token, body)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		c.logger.Warn("Catalog API returned non-2xx",
			zap.String("method", method), zap.String("path", path), zap.Int("status", status))
		return &apperrors.RemoteAPIError{Method: method, Path: path, Status: status, Message: errorMessage(respBody)}
	}
	return decodeEnvelope(method, path, status, respBody, out)
}

func decodeEnvelope(method, path string, status int, body []byte, out interface{}) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &apperrors.RemoteAPIError{Method: method, Path: path, Status: status, Message: "malformed response", Err: err}
	}
	if env.Status != "" && env.Status != "success" {
		msg := env.Message
		if msg == "" {
			msg = "status " + env.Status
		}
		return &apperrors.RemoteAPIError{Method: method, Path: path, Status: status, Message: msg}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &apperrors.RemoteAPIError{Method: method, Path: path, Status: status, Message: "unexpected data payload", Err: err}
	}
	return nil
}

// errorMessage extracts a readable message from an error response body
func errorMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return msg
}

func segment(s string) string {
	return url.PathEscape(s)
}
