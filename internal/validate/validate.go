// Package validate checks extracted rows against the canonical employee
// schema, detects duplicate document numbers within a batch, and partitions
// rows into valid records and structured errors.
package validate

import (
	"fmt"

	"github.com/sells-group/hrdocs-cli/internal/extract"
	"github.com/sells-group/hrdocs-cli/internal/model"
	"github.com/sells-group/hrdocs-cli/internal/schema"
)

// ErrorCode classifies a validation error.
type ErrorCode string

const (
	CodeConflict           ErrorCode = "CONFLICT"
	CodeInvalidFieldFormat ErrorCode = "INVALID_FIELD_FORMAT"
	CodeValidationError    ErrorCode = "VALIDATION_ERROR"
)

// Error is one per-row, per-field validation failure. Validation errors are
// returned as data, never raised.
type Error struct {
	Row     int       `json:"row"`
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Result partitions a batch into valid records and errors.
//
// Invariant: ValidCount + InvalidCount == TotalRecords, where InvalidCount is
// the number of distinct rows appearing in Errors.
type Result struct {
	IsValid      bool
	ValidRecords []model.EmployeeRecord
	Errors       []Error
	TotalRecords int
	ValidCount   int
	InvalidCount int
}

// FirstError returns the first accumulated error, or nil.
func (r *Result) FirstError() *Error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

// Validator validates batches of one document family.
type Validator struct {
	rules Rules
}

// New creates a validator with the given rule set.
func New(rules Rules) *Validator {
	return &Validator{rules: rules}
}

// Validate checks every row of a batch in order.
//
// A repeated document number short-circuits: the row gets a single CONFLICT
// error and is never checked for other defects. Rows passing the duplicate
// check are validated field by field; a row contributes to ValidRecords only
// when it has zero violations.
func (v *Validator) Validate(rows []extract.Row) *Result {
	res := &Result{TotalRecords: len(rows)}

	seen := make(map[string]int, len(rows))
	invalidRows := make(map[int]bool)

	for _, row := range rows {
		key := stringValue(row.Values[schema.FieldDNI])
		if key != "" {
			if first, dup := seen[key]; dup {
				res.Errors = append(res.Errors, Error{
					Row:     row.Number,
					Field:   schema.FieldDNI,
					Code:    CodeConflict,
					Message: fmt.Sprintf("duplicate document number %s, first seen at row %d", key, first),
				})
				invalidRows[row.Number] = true
				continue
			}
			seen[key] = row.Number
		}

		rowErrs := v.rules.check(row)
		if len(rowErrs) > 0 {
			res.Errors = append(res.Errors, rowErrs...)
			invalidRows[row.Number] = true
			continue
		}

		res.ValidRecords = append(res.ValidRecords, v.rules.build(row))
	}

	res.ValidCount = len(res.ValidRecords)
	res.InvalidCount = len(invalidRows)
	res.IsValid = len(res.Errors) == 0
	return res
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func floatValue(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}
