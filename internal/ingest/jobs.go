package ingest

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalog-service/internal/models"
)

// JobStore tracks ingestion jobs by id. The orchestrator writes through the
// job's own guarded methods; the store itself only has to be safe for
// concurrent lookup while jobs are registered.
type JobStore interface {
	Create(job *models.IngestionJob)
	Get(jobID string) (*models.IngestionJob, bool)
}

// MemoryJobStore is the process-local JobStore used in production. Jobs do
// not survive a restart; clients are expected to re-submit.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.IngestionJob
}

// NewMemoryJobStore creates an empty in-memory job store.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*models.IngestionJob)}
}

func (s *MemoryJobStore) Create(job *models.IngestionJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *MemoryJobStore) Get(jobID string) (*models.IngestionJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	return job, ok
}

// NewJobID generates an ingestion job identifier.
func NewJobID() string {
	return fmt.Sprintf("job_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
