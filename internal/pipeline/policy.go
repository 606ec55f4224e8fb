package pipeline

import "github.com/sells-group/hrdocs-cli/internal/model"

// Policy decides retention, retry, and notification behavior from a
// ProcessingResult. Policies are pure functions of the result so they can be
// unit tested with hand-built results; they must not reach into orchestrator
// state.
type Policy interface {
	// ShouldDeleteOriginal reports whether the source file may be removed
	// after processing.
	ShouldDeleteOriginal(result *model.ProcessingResult) bool

	// ShouldRetry reports whether the given zero-based attempt should be
	// retried after a failure.
	ShouldRetry(result *model.ProcessingResult, attempt int) bool

	// ShouldNotify reports whether the outcome should be pushed to the
	// notification webhook.
	ShouldNotify(result *model.ProcessingResult) bool
}

// DefaultPolicy deletes the source only on fully clean runs, retries nothing
// unless configured, and notifies on every outcome.
type DefaultPolicy struct {
	MaxRetries int
}

func (p DefaultPolicy) ShouldDeleteOriginal(result *model.ProcessingResult) bool {
	return result.Success && result.FailureCount == 0 && result.TotalProcessed > 0
}

func (p DefaultPolicy) ShouldRetry(result *model.ProcessingResult, attempt int) bool {
	return !result.Success && attempt < p.MaxRetries
}

func (p DefaultPolicy) ShouldNotify(result *model.ProcessingResult) bool {
	return true
}
