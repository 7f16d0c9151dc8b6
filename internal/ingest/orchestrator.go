// Package ingest implements the bulk catalog ingestion pipeline: archive
// extraction, filename grouping, category reconciliation, the bounded
// concurrency upload pass and draft product persistence, supervised by a
// per-request job state machine.
package ingest

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"catalog-service/internal/archive"
	"catalog-service/internal/clients"
	"catalog-service/internal/grouping"
	"catalog-service/internal/models"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Orchestrator drives ingestion jobs end to end and answers status queries
// through the injected JobStore.
type Orchestrator struct {
	store       Store
	uploader    Uploader
	jobs        JobStore
	logger      *logrus.Logger
	concurrency int

	wg sync.WaitGroup
}

// NewOrchestrator wires the pipeline's collaborators. A concurrency of 0
// falls back to the default upload ceiling.
func NewOrchestrator(store Store, uploader Uploader, jobs JobStore, logger *logrus.Logger, concurrency int) *Orchestrator {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Orchestrator{
		store:       store,
		uploader:    uploader,
		jobs:        jobs,
		logger:      logger,
		concurrency: concurrency,
	}
}

// StartOptions configures one ingestion run.
type StartOptions struct {
	TenantID         string
	Smart            bool
	CategoryOverride string
}

// Start registers a new job and launches its pipeline in the background.
// The returned job id is the only coupling between the triggering request
// and the running pipeline; progress is observed by polling Status.
func (o *Orchestrator) Start(ctx context.Context, data []byte, opts StartOptions) string {
	job := models.NewIngestionJob(NewJobID(), opts.TenantID)
	o.jobs.Create(job)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.run(context.WithoutCancel(ctx), job, data, opts)
	}()

	return job.ID
}

// Wait blocks until all in-flight jobs have finished. Used for graceful
// shutdown and tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Status errors distinguish unknown jobs from foreign-tenant jobs.
var (
	ErrJobNotFound  = fmt.Errorf("job not found")
	ErrJobForbidden = fmt.Errorf("job belongs to another tenant")
)

// Status returns a read-only snapshot of a job. Reads are side-effect-free.
func (o *Orchestrator) Status(jobID, tenantID string) (models.JobSnapshot, error) {
	job, ok := o.jobs.Get(jobID)
	if !ok {
		return models.JobSnapshot{}, ErrJobNotFound
	}
	snapshot := job.Snapshot()
	if snapshot.TenantID != "" && snapshot.TenantID != tenantID {
		return models.JobSnapshot{}, ErrJobForbidden
	}
	return snapshot, nil
}

func (o *Orchestrator) run(ctx context.Context, job *models.IngestionJob, data []byte, opts StartOptions) {
	log := o.logger.WithFields(logrus.Fields{
		"job_id":    job.ID,
		"tenant_id": opts.TenantID,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("ingestion job panicked")
			job.Fail(fmt.Sprintf("internal error: %v", r))
		}
	}()

	// Extraction. Any failure here is terminal for the whole job.
	result, err := archive.Extract(data)
	if err != nil {
		log.WithError(err).Error("archive extraction failed")
		job.Fail(fmt.Sprintf("error processing archive: %v", err))
		return
	}
	job.SetTotal(result.TotalImages)
	log.WithFields(logrus.Fields{"images": result.TotalImages, "smart": opts.Smart}).Info("archive extracted")

	groups, keys := grouping.Group(result.Entries, grouping.Options{
		Smart:            opts.Smart,
		CategoryOverride: opts.CategoryOverride,
	})
	log.WithField("groups", len(groups)).Info("images grouped")

	if err := ReconcileCategories(ctx, o.store, opts.TenantID, groups); err != nil {
		log.WithError(err).Error("category reconciliation failed")
		job.Fail(err.Error())
		return
	}

	tasks := o.buildTasks(opts.TenantID, groups, keys)
	log.WithFields(logrus.Fields{"tasks": len(tasks), "concurrency": o.concurrency}).Info("starting uploads")
	ScheduleAll(ctx, job, tasks, o.concurrency, o.uploader)

	job.SetStatus(models.JobStatusSaving)
	created := o.saveProducts(ctx, job, opts.TenantID, groups, keys)

	job.SetStatus(models.JobStatusCompleted)
	log.WithField("products", created).Info("ingestion completed")
}

// buildTasks flattens groups into (variant, options) upload units with
// stable Cloudinary public ids.
func (o *Orchestrator) buildTasks(tenantID string, groups map[string]*models.ProductGroup, keys []string) []*Task {
	folder := fmt.Sprintf("%s/products", tenantID)
	now := time.Now().UnixMilli()

	var tasks []*Task
	for _, key := range keys {
		group := groups[key]
		safeCategory := nonAlnum.ReplaceAllString(group.Category, "_")
		safeModel := nonAlnum.ReplaceAllString(group.Model, "_")

		for idx, variant := range group.Variants {
			safeColor := nonAlnum.ReplaceAllString(variant.Color, "_")
			tasks = append(tasks, &Task{
				Variant: variant,
				Options: UploadOptionsFor(folder, fmt.Sprintf("%s/%s/%s/%s_%d_%d", folder, safeCategory, safeModel, safeColor, idx+1, now)),
			})
		}
	}
	return tasks
}

// saveProducts assembles and persists one draft product per group that has
// at least one hosted variant. Persistence failures are recorded like
// upload failures and do not abort the run, so a single bad insert cannot
// discard the rest of an otherwise successful batch.
func (o *Orchestrator) saveProducts(ctx context.Context, job *models.IngestionJob, tenantID string, groups map[string]*models.ProductGroup, keys []string) int {
	created := 0
	for _, key := range keys {
		group := groups[key]

		images := make(models.JSONArray, 0, len(group.Variants))
		colors := make(models.JSONArray, 0)
		colorImages := make(models.JSON)
		primary := ""

		for _, variant := range group.Variants {
			if variant.FinalURL == "" {
				continue
			}
			images = append(images, variant.FinalURL)
			if variant.Uploaded && primary == "" {
				primary = variant.FinalURL
			}
			if variant.Color != "" && variant.Color != models.ColorUnique {
				if _, seen := colorImages[variant.Color]; !seen {
					colors = append(colors, variant.Color)
				}
				colorImages[variant.Color] = variant.FinalURL
			}
		}

		// Groups whose every variant failed upload produce no product;
		// their failures stay visible in the job's error list.
		if primary == "" {
			continue
		}

		name := grouping.DisplayName(group.Model)
		product := &models.Product{
			Name:        name,
			Category:    group.Category,
			Image:       primary,
			Images:      images,
			Sizes:       models.JSONArray{},
			Colors:      colors,
			ColorImages: &colorImages,
			Stock:       1,
			Status:      models.ProductStatusDraft,
		}

		if err := o.store.CreateProduct(ctx, tenantID, product); err != nil {
			job.RecordError(name, fmt.Errorf("failed to save product: %w", err))
			continue
		}

		job.AddProduct(product.ID.String(), product.Name)
		created++
	}
	return created
}

// UploadOptionsFor builds the standard optimization options for a bulk
// uploaded catalog image.
func UploadOptionsFor(folder, publicID string) clients.UploadOptions {
	return clients.UploadOptions{
		Folder:         folder,
		PublicID:       publicID,
		Quality:        "auto",
		Transformation: "c_limit,w_1000",
	}
}
