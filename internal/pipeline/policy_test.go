package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/hrdocs-cli/internal/model"
)

func TestDefaultPolicy_ShouldDeleteOriginal(t *testing.T) {
	p := DefaultPolicy{}

	clean := model.SuccessResult("a.xlsx", []model.ItemProcessingResult{
		{Success: true, Filename: "x.pdf"},
	})
	assert.True(t, p.ShouldDeleteOriginal(clean))

	partial := model.SuccessResult("a.xlsx", []model.ItemProcessingResult{
		{Success: true, Filename: "x.pdf"},
		{Success: false, Filename: "y.pdf", Error: "upload failed"},
	})
	assert.False(t, p.ShouldDeleteOriginal(partial))

	empty := model.SuccessResult("a.xlsx", nil)
	assert.False(t, p.ShouldDeleteOriginal(empty))

	failed := model.FailureResult("a.xlsx", "download failed")
	assert.False(t, p.ShouldDeleteOriginal(failed))
}

func TestDefaultPolicy_ShouldRetry(t *testing.T) {
	failed := model.FailureResult("a.xlsx", "timeout")
	clean := model.SuccessResult("a.xlsx", []model.ItemProcessingResult{{Success: true}})

	none := DefaultPolicy{}
	assert.False(t, none.ShouldRetry(failed, 0))

	two := DefaultPolicy{MaxRetries: 2}
	assert.True(t, two.ShouldRetry(failed, 0))
	assert.True(t, two.ShouldRetry(failed, 1))
	assert.False(t, two.ShouldRetry(failed, 2))
	assert.False(t, two.ShouldRetry(clean, 0))
}

func TestDefaultPolicy_ShouldNotify(t *testing.T) {
	p := DefaultPolicy{}
	assert.True(t, p.ShouldNotify(model.FailureResult("a.xlsx", "err")))
	assert.True(t, p.ShouldNotify(model.SuccessResult("a.xlsx", []model.ItemProcessingResult{{Success: true}})))
}
