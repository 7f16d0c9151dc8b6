package models

import (
	"sync"
	"time"
)

// JobStatus represents the lifecycle state of an ingestion job
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusSaving     JobStatus = "saving"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// ColorUnique is the sentinel variant color for images with no detected color.
const ColorUnique = "Unico"

// Category sentinels assigned during extraction and grouping. Groups carrying
// a sentinel never trigger category auto-creation.
const (
	CategoryUncategorized = "Sin Categoría"
	CategoryGeneral       = "General"
)

// ImageEntry is one image file extracted from an uploaded archive.
// Ephemeral; it only exists between extraction and grouping.
type ImageEntry struct {
	FileName string // base name, extension included
	Folder   string // first in-archive path segment, "" when at root
	Category string // folder-derived category or CategoryUncategorized
	DataURI  string // self-describing base64 payload
	MimeType string
	Size     int64
}

// Variant is one color/style instance of a product group. FinalURL is empty
// until the upload scheduler settles the variant; on upload failure it falls
// back to the original DataURI payload.
type Variant struct {
	Color     string `json:"color"`
	FileName  string `json:"fileName"`
	CleanName string `json:"cleanName"`
	DataURI   string `json:"-"`
	FinalURL  string `json:"finalUrl,omitempty"`
	Uploaded  bool   `json:"uploaded"`
}

// ProductGroup is the unit that becomes one persisted product.
type ProductGroup struct {
	Category string     `json:"category"`
	Model    string     `json:"model"`
	Variants []*Variant `json:"variants"`
}

// IngestError records a single recoverable failure inside a job.
type IngestError struct {
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

// IngestedProduct references a product persisted by a job.
type IngestedProduct struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IngestionJob is the in-memory aggregate for one bulk ingestion run.
// The orchestrator is the only writer; status polls read concurrently via
// Snapshot. All mutations go through the guarded methods so that progress
// updates arriving from parallel upload workers stay consistent.
type IngestionJob struct {
	mu sync.Mutex

	ID          string
	TenantID    string
	Status      JobStatus
	Total       int
	Processed   int
	Progress    int
	ErrorMsg    string
	Errors      []IngestError
	Products    []IngestedProduct
	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewIngestionJob creates a job in the processing state.
func NewIngestionJob(id, tenantID string) *IngestionJob {
	return &IngestionJob{
		ID:        id,
		TenantID:  tenantID,
		Status:    JobStatusProcessing,
		Errors:    make([]IngestError, 0),
		Products:  make([]IngestedProduct, 0),
		StartedAt: time.Now().UTC(),
	}
}

// SetTotal records the number of images the job will attempt to upload.
func (j *IngestionJob) SetTotal(total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Total = total
}

// SetStatus moves the job to a new lifecycle state.
func (j *IngestionJob) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	if status == JobStatusCompleted {
		now := time.Now().UTC()
		j.CompletedAt = &now
	}
}

// Fail moves the job to the error state with a descriptive message.
func (j *IngestionJob) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = JobStatusError
	j.ErrorMsg = msg
}

// RecordError appends a recoverable per-item failure.
func (j *IngestionJob) RecordError(fileName string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Errors = append(j.Errors, IngestError{FileName: fileName, Error: err.Error()})
}

// IncrementProcessed bumps the settled-upload counter and recomputes the
// derived progress percentage. Progress reflects attempts, not successes.
func (j *IngestionJob) IncrementProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Processed++
	if j.Total > 0 {
		j.Progress = int(float64(j.Processed)/float64(j.Total)*100 + 0.5)
	}
}

// AddProduct records a persisted product reference.
func (j *IngestionJob) AddProduct(id, name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Products = append(j.Products, IngestedProduct{ID: id, Name: name})
}

// JobSnapshot is the read-only view returned to status polls.
type JobSnapshot struct {
	JobID       string            `json:"jobId"`
	TenantID    string            `json:"-"`
	Status      JobStatus         `json:"status"`
	Total       int               `json:"total"`
	Processed   int               `json:"processed"`
	Progress    int               `json:"progress"`
	Error       string            `json:"error,omitempty"`
	Errors      []IngestError     `json:"errors"`
	Products    []IngestedProduct `json:"products"`
	StartedAt   time.Time         `json:"startedAt"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
}

// Snapshot returns a consistent copy of the job for status reads.
func (j *IngestionJob) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	errs := make([]IngestError, len(j.Errors))
	copy(errs, j.Errors)
	products := make([]IngestedProduct, len(j.Products))
	copy(products, j.Products)

	return JobSnapshot{
		JobID:       j.ID,
		TenantID:    j.TenantID,
		Status:      j.Status,
		Total:       j.Total,
		Processed:   j.Processed,
		Progress:    j.Progress,
		Error:       j.ErrorMsg,
		Errors:      errs,
		Products:    products,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
}

// GroupPreview is the per-group summary emitted by the preview endpoint.
type GroupPreview struct {
	GroupKey   string   `json:"groupKey"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	ImageCount int      `json:"imageCount"`
	Colors     []string `json:"colors"`
	FirstImage string   `json:"firstImage"`
}

// PreviewResponse is the dry-run grouping summary for user confirmation.
type PreviewResponse struct {
	Success       bool           `json:"success"`
	TotalImages   int            `json:"totalImages"`
	TotalProducts int            `json:"totalProducts"`
	Groups        []GroupPreview `json:"groups"`
}

// IngestAcceptedResponse is returned when a bulk ingestion job is accepted.
type IngestAcceptedResponse struct {
	Message   string `json:"message"`
	JobID     string `json:"jobId"`
	StatusURL string `json:"statusUrl"`
}
