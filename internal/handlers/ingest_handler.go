package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/archive"
	"catalog-service/internal/ingest"
	"catalog-service/internal/models"
)

type IngestHandler struct {
	orchestrator *ingest.Orchestrator
	logger       *logrus.Logger
}

func NewIngestHandler(orchestrator *ingest.Orchestrator, logger *logrus.Logger) *IngestHandler {
	return &IngestHandler{orchestrator: orchestrator, logger: logger}
}

// readArchive pulls the uploaded ZIP out of the multipart form and runs the
// cheap synchronous checks (field present, size cap, magic bytes) so the
// client gets an immediate 400 instead of a failed job.
func (h *IngestHandler) readArchive(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "A ZIP archive is required in the 'file' form field",
				Field:   "file",
			},
		})
		return nil, false
	}

	if fileHeader.Size > archive.MaxArchiveSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "ARCHIVE_TOO_LARGE",
				Message: fmt.Sprintf("Archive exceeds the %dMB limit", archive.MaxArchiveSize/(1024*1024)),
				Field:   "file",
			},
		})
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "UPLOAD_READ_FAILED",
				Message: "Failed to read uploaded archive",
			},
		})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, archive.MaxArchiveSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "UPLOAD_READ_FAILED",
				Message: "Failed to read uploaded archive",
			},
		})
		return nil, false
	}
	if int64(len(data)) > archive.MaxArchiveSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "ARCHIVE_TOO_LARGE",
				Message: fmt.Sprintf("Archive exceeds the %dMB limit", archive.MaxArchiveSize/(1024*1024)),
				Field:   "file",
			},
		})
		return nil, false
	}

	if err := archive.Validate(data); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ARCHIVE",
				Message: "Uploaded file is not a valid ZIP archive",
				Field:   "file",
			},
		})
		return nil, false
	}

	return data, true
}

// StartIngestion accepts a ZIP archive of product images and starts a bulk
// ingestion job. Responds 202 with the job id to poll.
// POST /api/v1/catalog/ingest
func (h *IngestHandler) StartIngestion(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	data, ok := h.readArchive(c)
	if !ok {
		return
	}

	opts := ingest.StartOptions{
		TenantID:         tenantID.(string),
		Smart:            c.DefaultPostForm("smartGrouping", "true") != "false",
		CategoryOverride: c.PostForm("category"),
	}

	jobID := h.orchestrator.Start(c.Request.Context(), data, opts)

	h.logger.WithFields(logrus.Fields{
		"job_id":       jobID,
		"tenant_id":    opts.TenantID,
		"archive_size": len(data),
	}).Info("Bulk ingestion job accepted")

	c.JSON(http.StatusAccepted, models.IngestAcceptedResponse{
		Message:   "Catalog ingestion started",
		JobID:     jobID,
		StatusURL: "/api/v1/catalog/ingest/" + jobID,
	})
}

// GetIngestionStatus returns the live snapshot of an ingestion job.
// GET /api/v1/catalog/ingest/:jobId
func (h *IngestHandler) GetIngestionStatus(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	jobID := c.Param("jobId")

	snapshot, err := h.orchestrator.Status(jobID, tenantID.(string))
	if err != nil {
		if errors.Is(err, ingest.ErrJobForbidden) {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "FORBIDDEN",
					Message: "Job belongs to another tenant",
				},
			})
			return
		}
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Job not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// PreviewIngestion runs the extraction and grouping stages without uploading
// or persisting anything, so the client can confirm the grouping first.
// POST /api/v1/catalog/ingest/preview
func (h *IngestHandler) PreviewIngestion(c *gin.Context) {
	data, ok := h.readArchive(c)
	if !ok {
		return
	}

	preview, err := ingest.Preview(data)
	if err != nil {
		code := "INVALID_ARCHIVE"
		message := "Failed to read archive contents"
		if errors.Is(err, archive.ErrNoImagesFound) {
			code = "NO_IMAGES_FOUND"
			message = "No supported images found in the archive"
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    code,
				Message: message,
				Field:   "file",
			},
		})
		return
	}

	c.JSON(http.StatusOK, preview)
}
