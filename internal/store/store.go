// Package store persists the processing history of every file sweep.
package store

import (
	"context"
	"time"

	"github.com/sells-group/hrdocs-cli/internal/model"
)

// RunStatus tracks a run through its lifecycle.
type RunStatus string

const (
	StatusProcessing RunStatus = "processing"
	StatusSucceeded  RunStatus = "succeeded"
	StatusFailed     RunStatus = "failed"
)

// Run is one orchestration of one file.
type Run struct {
	ID        string                  `json:"id"`
	FileName  string                  `json:"file_name"`
	Status    RunStatus               `json:"status"`
	Result    *model.ProcessingResult `json:"result,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status   RunStatus `json:"status,omitempty"`
	FileName string    `json:"file_name,omitempty"`
	Limit    int       `json:"limit,omitempty"`
	Offset   int       `json:"offset,omitempty"`
}

// Store defines the run-history persistence interface.
type Store interface {
	CreateRun(ctx context.Context, fileName string) (*Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.ProcessingResult) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// statusFor derives the terminal run status from a result.
func statusFor(result *model.ProcessingResult) RunStatus {
	if result != nil && result.Success {
		return StatusSucceeded
	}
	return StatusFailed
}
