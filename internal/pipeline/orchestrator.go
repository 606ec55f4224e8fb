// Package pipeline orchestrates the per-file lifecycle: validate metadata,
// download, parse and validate rows, generate documents, upload artifacts,
// and decide source-file retention.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/hrdocs-cli/internal/extract"
	"github.com/sells-group/hrdocs-cli/internal/model"
	"github.com/sells-group/hrdocs-cli/internal/resilience"
	"github.com/sells-group/hrdocs-cli/internal/validate"
	"github.com/sells-group/hrdocs-cli/pkg/storage"
)

// Orchestrator processes one file at a time. Within a file, document
// generators run concurrently; everything else is sequential.
type Orchestrator struct {
	storage    storage.Client
	files      FileValidator
	extractor  *extract.Extractor
	validator  *validate.Validator
	generators []Generator
	policy     Policy
	retry      resilience.RetryConfig
}

// New wires an orchestrator. All collaborators are injected; the orchestrator
// owns no global state and no lifecycles.
func New(
	st storage.Client,
	files FileValidator,
	extractor *extract.Extractor,
	validator *validate.Validator,
	generators []Generator,
	policy Policy,
) *Orchestrator {
	return &Orchestrator{
		storage:    st,
		files:      files,
		extractor:  extractor,
		validator:  validator,
		generators: generators,
		policy:     policy,
		retry:      resilience.DefaultRetryConfig(),
	}
}

// ProcessFile runs the full lifecycle for one file and returns its aggregated
// result. It never returns an error: every failure mode is folded into the
// result so the caller's sweep loop can continue with the next file.
func (o *Orchestrator) ProcessFile(ctx context.Context, file storage.FileMetadata, outputFolderBase string) *model.ProcessingResult {
	log := zap.L().With(zap.String("file", file.Name))
	start := time.Now()

	finish := func(r *model.ProcessingResult) *model.ProcessingResult {
		r.ProcessingTimeMs = time.Since(start).Milliseconds()
		return r
	}

	// Validating: metadata only, no bytes moved yet.
	if check := o.files.Validate(file); !check.IsValid {
		msg := strings.Join(check.Errors, "; ")
		log.Warn("file rejected", zap.String("reason", msg))
		return finish(model.FailureResult(file.Name, msg))
	}

	// Downloading.
	data, err := o.download(ctx, file)
	if err != nil {
		log.Error("download failed", zap.Error(err))
		return finish(model.FailureResult(file.Name, fmt.Sprintf("download failed: %v", err)))
	}

	// Parsing and validating rows. Parsed exactly once per file; the valid
	// records are shared read-only inputs to every generator.
	rows, _, err := o.extractor.Extract(data)
	if err != nil {
		log.Error("parse failed", zap.Error(err))
		return finish(model.FailureResult(file.Name, err.Error()))
	}

	vr := o.validator.Validate(rows)
	log.Info("batch validated",
		zap.Int("total", vr.TotalRecords),
		zap.Int("valid", vr.ValidCount),
		zap.Int("invalid", vr.InvalidCount),
	)

	if len(vr.ValidRecords) == 0 {
		msg := "no data rows in file"
		if first := vr.FirstError(); first != nil {
			msg = fmt.Sprintf("no valid rows; first error: row %d %s: %s", first.Row, first.Field, first.Message)
		}
		return finish(model.FailureResult(file.Name, msg))
	}

	// Generating: all generators fan out over the same records and the step
	// waits for all of them. Any whole-batch rejection fails the file with no
	// partial artifacts.
	docs, err := o.generate(ctx, vr.ValidRecords)
	if err != nil {
		log.Error("generation failed", zap.Error(err))
		return finish(model.FailureResult(file.Name, fmt.Sprintf("generation failed: %v", err)))
	}

	// Uploading: sequential, per-item failures recorded, never aborting
	// sibling items.
	items := o.upload(ctx, log, docs, outputFolderBase)

	// Deciding.
	result := finish(model.SuccessResult(file.Name, items))

	if o.policy.ShouldDeleteOriginal(result) {
		if err := o.storage.DeleteFile(ctx, file.ID); err != nil {
			log.Warn("failed to delete source file", zap.Error(err))
		} else {
			log.Info("source file deleted")
		}
	} else if !result.Success {
		// Left in place for idempotent re-processing on the next sweep.
		log.Info("source file retained",
			zap.Int("failures", result.FailureCount),
		)
	}

	log.Info("file processed",
		zap.Bool("success", result.Success),
		zap.Int("items", result.TotalProcessed),
		zap.Int64("duration_ms", result.ProcessingTimeMs),
	)
	return result
}

// download fetches the file bytes. An empty buffer counts as a failure.
// Failed attempts are retried while the active policy allows it, with the
// usual backoff between attempts.
func (o *Orchestrator) download(ctx context.Context, file storage.FileMetadata) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		data, err := o.storage.DownloadFile(ctx, file.ID)
		if err == nil && len(data) > 0 {
			return data, nil
		}
		if err == nil {
			err = fmt.Errorf("empty download for %s", file.Name)
		}

		interim := model.FailureResult(file.Name, err.Error())
		if ctx.Err() != nil || !o.policy.ShouldRetry(interim, attempt) {
			return nil, err
		}

		timer := time.NewTimer(resilience.BackoffDelay(attempt, o.retry))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, err
		case <-timer.C:
		}
	}
}

// generate fans out to every generator concurrently and joins. Artifacts are
// concatenated generator-by-generator in registration order.
func (o *Orchestrator) generate(ctx context.Context, records []model.EmployeeRecord) ([]model.GeneratedDocument, error) {
	results := make([][]model.GeneratedDocument, len(o.generators))

	g, gctx := errgroup.WithContext(ctx)
	for i, gen := range o.generators {
		g.Go(func() error {
			docs, err := gen.ProcessEmployees(gctx, records)
			if err != nil {
				return err
			}
			results[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var docs []model.GeneratedDocument
	for _, r := range results {
		docs = append(docs, r...)
	}
	return docs, nil
}

// upload pushes each artifact to its routed folder in order. Artifacts that
// failed generation are recorded directly as failed items.
func (o *Orchestrator) upload(ctx context.Context, log *zap.Logger, docs []model.GeneratedDocument, outputFolderBase string) []model.ItemProcessingResult {
	items := make([]model.ItemProcessingResult, 0, len(docs))

	for _, doc := range docs {
		if !doc.Success || len(doc.Buffer) == 0 {
			msg := doc.Error
			if msg == "" {
				msg = "empty artifact buffer"
			}
			items = append(items, model.ItemProcessingResult{
				Filename: doc.Filename,
				Error:    msg,
			})
			continue
		}

		folder := folderFor(outputFolderBase, doc.DocumentType)
		if _, err := o.storage.UploadFile(ctx, doc.Buffer, folder, doc.Filename); err != nil {
			log.Warn("upload failed",
				zap.String("artifact", doc.Filename),
				zap.String("folder", folder),
				zap.Error(err),
			)
			items = append(items, model.ItemProcessingResult{
				Filename: doc.Filename,
				Error:    err.Error(),
			})
			continue
		}

		items = append(items, model.ItemProcessingResult{
			Success:  true,
			Filename: doc.Filename,
		})
	}
	return items
}
