package ingest

import (
	"context"
	"sync"
	"time"

	"catalog-service/internal/clients"
	"catalog-service/internal/models"
)

const (
	// DefaultConcurrency bounds simultaneous outbound upload calls.
	DefaultConcurrency = 5
	// UploadTimeout bounds the worst-case latency of a single stalled call.
	UploadTimeout = 60 * time.Second
)

// Uploader is the remote image host consumed by the scheduler.
type Uploader interface {
	Upload(ctx context.Context, dataURI string, opts clients.UploadOptions) (*clients.UploadResult, error)
}

// Task is one flattened (group, variant) upload unit with its precomputed
// upload options.
type Task struct {
	Variant *models.Variant
	Options clients.UploadOptions
}

// ScheduleAll pushes tasks through a sliding-window worker pool: at most
// limit calls are in flight, and a new one is admitted as soon as any call
// settles. Each call runs under its own timeout; failures are recorded on
// the job and the variant falls back to its local payload, so a partial
// failure never aborts the batch. Every settled call bumps the job's
// processed counter whether it succeeded or not.
func ScheduleAll(ctx context.Context, job *models.IngestionJob, tasks []*Task, limit int, uploader Uploader) {
	if limit < 1 {
		limit = DefaultConcurrency
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for _, task := range tasks {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			// Drain remaining tasks as failed attempts so progress still
			// converges to total.
			job.RecordError(task.Variant.FileName, ctx.Err())
			task.Variant.FinalURL = task.Variant.DataURI
			job.IncrementProcessed()
			continue
		}

		wg.Add(1)
		go func(t *Task) {
			defer wg.Done()
			defer func() { <-sem }()
			runUpload(ctx, job, t, uploader)
		}(task)
	}

	wg.Wait()
}

func runUpload(ctx context.Context, job *models.IngestionJob, t *Task, uploader Uploader) {
	defer job.IncrementProcessed()

	uploadCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	result, err := uploader.Upload(uploadCtx, t.Variant.DataURI, t.Options)
	if err != nil {
		job.RecordError(t.Variant.FileName, err)
		t.Variant.FinalURL = t.Variant.DataURI
		return
	}

	t.Variant.FinalURL = result.URL
	t.Variant.Uploaded = true
}
