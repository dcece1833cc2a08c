package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rebilt/catalogadmin/internal/domain"
	"github.com/rebilt/catalogadmin/internal/service"
	apperrors "github.com/rebilt/catalogadmin/pkg/errors"
)

// HandleUploadAssets handles POST /v1/partners/:id/assets
//
// The multipart form carries productName, an optional joinMode and repeated
// file/optionId pairs; the n-th optionId belongs to the n-th file.
func HandleUploadAssets(svc *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := token(c)
		if !ok {
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form", "details": err.Error()})
			return
		}

		files := form.File["file"]
		optionIDs := form.Value["optionId"]
		fields := map[string]string{}
		if len(files) == 0 {
			fields["file"] = "at least one file is required"
		}
		if len(optionIDs) != len(files) {
			fields["optionId"] = fmt.Sprintf("expected %d option ids, got %d", len(files), len(optionIDs))
		}
		mode := service.JoinMode(c.PostForm("joinMode"))
		if mode == "" {
			mode = svc.JoinMode
		}
		if mode != service.JoinBestEffort && mode != service.JoinFailFast {
			fields["joinMode"] = "must be best-effort or fail-fast"
		}
		if len(fields) > 0 {
			respondError(c, logger, &apperrors.ValidationError{Message: "invalid upload", Fields: fields})
			return
		}

		partner, err := svc.Catalog.GetPartner(c.Request.Context(), tok, c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		jobs := make([]service.UploadJob, 0, len(files))
		for i, fh := range files {
			content, err := readFormFile(fh)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file", "details": err.Error()})
				return
			}
			jobs = append(jobs, service.UploadJob{
				OptionID: optionIDs[i],
				File:     domain.AssetFile{Filename: fh.Filename, Content: content},
			})
		}

		uc := service.UploadContext{
			PartnerID:   partner.ID,
			PartnerName: partner.Name,
			PartnerTier: partner.Package,
			ProductName: c.PostForm("productName"),
		}
		batch, err := svc.Uploader.UploadAll(c.Request.Context(), jobs, uc, mode)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, service.UploadAssetsResult{
			URLs:     batch.URLs,
			Warnings: batch.Warnings(),
		})
	}
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
