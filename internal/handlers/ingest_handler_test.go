package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/clients"
	"catalog-service/internal/ingest"
	"catalog-service/internal/models"
)

type stubStore struct{}

func (stubStore) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	return nil, nil
}

func (stubStore) CreateCategory(ctx context.Context, tenantID string, category *models.Category) error {
	return nil
}

func (stubStore) CreateProduct(ctx context.Context, tenantID string, product *models.Product) error {
	product.ID = uuid.New()
	return nil
}

type stubUploader struct{}

func (stubUploader) Upload(ctx context.Context, dataURI string, opts clients.UploadOptions) (*clients.UploadResult, error) {
	return &clients.UploadResult{URL: "https://cdn.example.com/" + opts.PublicID}, nil
}

func buildTestZip(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func multipartBody(t *testing.T, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "catalogo.zip")
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupIngestRouter(t *testing.T) (*gin.Engine, *ingest.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orchestrator := ingest.NewOrchestrator(stubStore{}, stubUploader{}, ingest.NewMemoryJobStore(), quietLogger(), 2)
	handler := NewIngestHandler(orchestrator, quietLogger())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("tenant_id", "tenant-1")
		c.Next()
	})
	router.POST("/api/v1/catalog/ingest", handler.StartIngestion)
	router.GET("/api/v1/catalog/ingest/:jobId", handler.GetIngestionStatus)
	router.POST("/api/v1/catalog/ingest/preview", handler.PreviewIngestion)
	return router, orchestrator
}

func TestStartIngestion_Accepted(t *testing.T) {
	router, orchestrator := setupIngestRouter(t)

	body, contentType := multipartBody(t, buildTestZip(t, "camisa_azul.jpg"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/ingest", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var resp models.IngestAcceptedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, "/api/v1/catalog/ingest/"+resp.JobID, resp.StatusURL)

	orchestrator.Wait()

	snapshot, err := orchestrator.Status(resp.JobID, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, snapshot.Status)
}

func TestStartIngestion_MissingFile(t *testing.T) {
	router, _ := setupIngestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/ingest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartIngestion_RejectsNonZip(t *testing.T) {
	router, _ := setupIngestRouter(t)

	body, contentType := multipartBody(t, []byte("this is not a zip"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/ingest", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_ARCHIVE", resp.Error.Code)
}

func TestGetIngestionStatus_NotFound(t *testing.T) {
	router, _ := setupIngestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/ingest/job_unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetIngestionStatus_ForbiddenForOtherTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)

	orchestrator := ingest.NewOrchestrator(stubStore{}, stubUploader{}, ingest.NewMemoryJobStore(), quietLogger(), 2)
	handler := NewIngestHandler(orchestrator, quietLogger())

	jobID := orchestrator.Start(context.Background(), buildTestZip(t, "camisa_azul.jpg"), ingest.StartOptions{TenantID: "tenant-1", Smart: true})
	orchestrator.Wait()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("tenant_id", "tenant-2")
		c.Next()
	})
	router.GET("/api/v1/catalog/ingest/:jobId", handler.GetIngestionStatus)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/ingest/"+jobID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPreviewIngestion_ReturnsGroups(t *testing.T) {
	router, _ := setupIngestRouter(t)

	body, contentType := multipartBody(t, buildTestZip(t, "vestido_rojo.jpg", "vestido_azul.jpg"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/ingest/preview", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.TotalImages)
	assert.Equal(t, 1, resp.TotalProducts)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, "Vestidos", resp.Groups[0].Category)
}

func TestPreviewIngestion_NoImages(t *testing.T) {
	router, _ := setupIngestRouter(t)

	body, contentType := multipartBody(t, buildTestZip(t, "readme.txt"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/ingest/preview", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO_IMAGES_FOUND", resp.Error.Code)
}
