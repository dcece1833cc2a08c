package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/rebilt/catalogadmin/internal/domain"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError is returned before any network call when required fields are
// missing or invalid. Fields holds every offending field, not just the first.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "validation failed"
	}
	if len(e.Fields) == 0 {
		return msg
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return fmt.Sprintf("%s (%s)", msg, strings.Join(parts, "; "))
}

// AssetRejection says why an asset was refused
type AssetRejection string

const (
	// RejectedForTier means the file type exists but the partner's package does not allow it
	RejectedForTier AssetRejection = "tier"
	// RejectedFileType means the file type is not accepted under any package
	RejectedFileType AssetRejection = "file_type"
)

// UnsupportedAssetError is returned when the file type or partner tier does not allow an upload
type UnsupportedAssetError struct {
	Filename  string
	Extension string
	Tier      domain.PartnerTier
	Reason    AssetRejection
}

func (e *UnsupportedAssetError) Error() string {
	if e.Reason == RejectedForTier {
		return fmt.Sprintf("%s files are not included in the %s package; upgrade to pro to upload 3D models", e.Extension, e.Tier)
	}
	if e.Extension == "" {
		return fmt.Sprintf("file %q has no extension; unsupported file type", e.Filename)
	}
	return fmt.Sprintf("unsupported file type: .%s", e.Extension)
}

// UploadError is returned when the media host rejects an upload or returns no secure URL
type UploadError struct {
	Filename string
	Status   int
	Message  string
	Err      error
}

func (e *UploadError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("upload of %s failed: status %d: %s", e.Filename, e.Status, msg)
	}
	return fmt.Sprintf("upload of %s failed: %s", e.Filename, msg)
}

func (e *UploadError) Unwrap() error { return e.Err }

// RemoteAPIError is returned for non-2xx responses and transport failures from the
// catalog API. Status is 0 when no response was received.
type RemoteAPIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *RemoteAPIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status == 0 {
		return fmt.Sprintf("catalog API %s %s failed: %s", e.Method, e.Path, msg)
	}
	return fmt.Sprintf("catalog API %s %s returned %d: %s", e.Method, e.Path, e.Status, msg)
}

func (e *RemoteAPIError) Unwrap() error { return e.Err }

// SubmissionError is returned when the product POST is not answered with 201
type SubmissionError struct {
	Status int
	Body   string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("product submission failed: %v", e.Err)
		}
		return "product submission failed"
	}
	if e.Body == "" {
		return fmt.Sprintf("product submission rejected with status %d", e.Status)
	}
	return fmt.Sprintf("product submission rejected with status %d: %s", e.Status, e.Body)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// HTTPStatus maps an error onto the status the admin API answers with
func HTTPStatus(err error) int {
	var (
		notFound    *ErrNotFound
		validation  *ValidationError
		unsupported *UnsupportedAssetError
		upload      *UploadError
		submission  *SubmissionError
		remote      *RemoteAPIError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unsupported):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &submission):
		if submission.Status >= 400 && submission.Status < 500 {
			return submission.Status
		}
		return http.StatusBadGateway
	case errors.As(err, &upload):
		return http.StatusBadGateway
	case errors.As(err, &remote):
		if remote.Status == http.StatusNotFound || remote.Status == http.StatusUnauthorized || remote.Status == http.StatusForbidden {
			return remote.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
