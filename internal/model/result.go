package model

// DocumentType routes a generated artifact to its destination folder.
type DocumentType string

const (
	DocTypeContract       DocumentType = "contract"
	DocTypeAddendum       DocumentType = "addendum"
	DocTypeProcessingData DocumentType = "processing-data"
	DocTypeSCTRReport     DocumentType = "sctr-report"
)

// GeneratedDocument is one artifact produced by a document generator.
// Success=false entries carry an error and no buffer.
type GeneratedDocument struct {
	Success      bool
	Buffer       []byte
	Filename     string
	DocumentType DocumentType
	Error        string
}

// ItemProcessingResult is the upload outcome for one generated artifact.
type ItemProcessingResult struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Error    string `json:"error,omitempty"`
}

// ProcessingResult is the terminal artifact of one orchestration run over one
// file. It is returned to the caller and never mutated afterward.
type ProcessingResult struct {
	Success          bool                   `json:"success"`
	FileName         string                 `json:"file_name"`
	Items            []ItemProcessingResult `json:"items,omitempty"`
	TotalProcessed   int                    `json:"total_processed"`
	SuccessCount     int                    `json:"success_count"`
	FailureCount     int                    `json:"failure_count"`
	ProcessingTimeMs int64                  `json:"processing_time_ms,omitempty"`
	ErrorMessage     string                 `json:"error_message,omitempty"`
}

// SuccessResult builds a result from per-item outcomes with derived counts.
// Success holds iff no item failed and at least one item was processed.
func SuccessResult(fileName string, items []ItemProcessingResult) *ProcessingResult {
	var ok, failed int
	for _, it := range items {
		if it.Success {
			ok++
		} else {
			failed++
		}
	}
	return &ProcessingResult{
		Success:        failed == 0 && len(items) > 0,
		FileName:       fileName,
		Items:          items,
		TotalProcessed: len(items),
		SuccessCount:   ok,
		FailureCount:   failed,
	}
}

// FailureResult builds a terminal failure for a file that never reached the
// upload stage. TotalProcessed is always zero on this path.
func FailureResult(fileName, errorMessage string) *ProcessingResult {
	return &ProcessingResult{
		Success:      false,
		FileName:     fileName,
		ErrorMessage: errorMessage,
	}
}
