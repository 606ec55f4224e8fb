package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hrdocs-cli/internal/extract"
	"github.com/sells-group/hrdocs-cli/internal/model"
	"github.com/sells-group/hrdocs-cli/internal/schema"
)

func contractRow(number int, dni string) extract.Row {
	return extract.Row{
		Number: number,
		Values: map[string]any{
			schema.FieldDNI:              dni,
			schema.FieldPaternalLastName: "Quispe",
			schema.FieldMaternalLastName: "Rojas",
			schema.FieldFirstNames:       "María Elena",
			schema.FieldEntryDate:        "15/03/2024",
		},
	}
}

func TestValidate_AllValid(t *testing.T) {
	v := New(ContractRules())
	res := v.Validate([]extract.Row{
		contractRow(2, "12345678"),
		contractRow(3, "87654321"),
	})

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.TotalRecords)
	assert.Equal(t, 2, res.ValidCount)
	assert.Equal(t, 0, res.InvalidCount)
	require.Len(t, res.ValidRecords, 2)

	rec, ok := res.ValidRecords[0].(model.ContractRow)
	require.True(t, ok)
	assert.Equal(t, "12345678", rec.DNI)
	assert.Equal(t, 2, rec.RowNumber)
}

func TestValidate_DuplicateDNIShortCircuits(t *testing.T) {
	rows := []extract.Row{
		contractRow(2, "12345678"),
		contractRow(3, "87654321"),
		contractRow(4, "12345678"),
	}
	// The duplicate row also has a defect that must never be reported:
	// the conflict check wins.
	rows[2].Values[schema.FieldEntryDate] = "not-a-date"

	v := New(ContractRules())
	res := v.Validate(rows)

	assert.False(t, res.IsValid)
	assert.Equal(t, 3, res.TotalRecords)
	assert.Equal(t, 2, res.ValidCount)
	assert.Equal(t, 1, res.InvalidCount)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, CodeConflict, res.Errors[0].Code)
	assert.Equal(t, 4, res.Errors[0].Row)
	assert.Equal(t, schema.FieldDNI, res.Errors[0].Field)
	assert.Contains(t, res.Errors[0].Message, "first seen at row 2")
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	row := contractRow(2, "12345678")
	row.Values[schema.FieldFirstNames] = nil
	row.Values[schema.FieldEntryDate] = nil

	v := New(ContractRules())
	res := v.Validate([]extract.Row{row})

	assert.False(t, res.IsValid)
	assert.Equal(t, 0, res.ValidCount)
	assert.Equal(t, 1, res.InvalidCount)
	require.Len(t, res.Errors, 2)
	for _, e := range res.Errors {
		assert.Equal(t, CodeValidationError, e.Code)
		assert.Equal(t, 2, e.Row)
	}
}

func TestValidate_FieldFormats(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*extract.Row)
		field string
		code  ErrorCode
	}{
		{
			name:  "dni too short",
			mut:   func(r *extract.Row) { r.Values[schema.FieldDNI] = "1234567" },
			field: schema.FieldDNI,
			code:  CodeInvalidFieldFormat,
		},
		{
			name:  "dni non numeric",
			mut:   func(r *extract.Row) { r.Values[schema.FieldDNI] = "1234567A" },
			field: schema.FieldDNI,
			code:  CodeInvalidFieldFormat,
		},
		{
			name:  "bad entry date",
			mut:   func(r *extract.Row) { r.Values[schema.FieldEntryDate] = "2024-03-15" },
			field: schema.FieldEntryDate,
			code:  CodeInvalidFieldFormat,
		},
		{
			name:  "impossible date",
			mut:   func(r *extract.Row) { r.Values[schema.FieldEntryDate] = "32/01/2024" },
			field: schema.FieldEntryDate,
			code:  CodeInvalidFieldFormat,
		},
		{
			name:  "bad end date",
			mut:   func(r *extract.Row) { r.Values[schema.FieldEndDate] = "15/13/2024" },
			field: schema.FieldEndDate,
			code:  CodeInvalidFieldFormat,
		},
		{
			name:  "numeric entry date",
			mut:   func(r *extract.Row) { r.Values[schema.FieldEntryDate] = 45370.0 },
			field: schema.FieldEntryDate,
			code:  CodeInvalidFieldFormat,
		},
		{
			name:  "numeric end date",
			mut:   func(r *extract.Row) { r.Values[schema.FieldEndDate] = 45370.0 },
			field: schema.FieldEndDate,
			code:  CodeInvalidFieldFormat,
		},
		{
			name: "zero salary",
			mut: func(r *extract.Row) {
				r.Values[schema.FieldSalary] = 0.0
			},
			field: schema.FieldSalary,
			code:  CodeValidationError,
		},
		{
			name: "negative salary",
			mut: func(r *extract.Row) {
				r.Values[schema.FieldSalary] = -100.0
			},
			field: schema.FieldSalary,
			code:  CodeValidationError,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := contractRow(2, "12345678")
			tc.mut(&row)

			v := New(ContractRules())
			res := v.Validate([]extract.Row{row})

			assert.False(t, res.IsValid)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, tc.field, res.Errors[0].Field)
			assert.Equal(t, tc.code, res.Errors[0].Code)
		})
	}
}

func TestValidate_UnformattedDateCellNeverBuildsRecord(t *testing.T) {
	// An unformatted date cell reaches validation as the raw Excel serial
	// number. It must be rejected, not silently dropped into an empty
	// EntryDate on an otherwise "valid" record.
	row := contractRow(2, "12345678")
	row.Values[schema.FieldEntryDate] = 45370.0

	v := New(ContractRules())
	res := v.Validate([]extract.Row{row})

	assert.False(t, res.IsValid)
	assert.Equal(t, 0, res.ValidCount)
	assert.Empty(t, res.ValidRecords)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, CodeInvalidFieldFormat, res.Errors[0].Code)
	assert.Equal(t, schema.FieldEntryDate, res.Errors[0].Field)
}

func TestValidate_PartitionInvariant(t *testing.T) {
	rows := []extract.Row{
		contractRow(2, "11111111"),
		contractRow(3, "1234"),     // bad format
		contractRow(4, "11111111"), // conflict
		contractRow(5, "22222222"),
	}
	rows[3].Values[schema.FieldSalary] = -5.0 // second defect on a distinct row

	v := New(ContractRules())
	res := v.Validate(rows)

	assert.Equal(t, res.TotalRecords, res.ValidCount+res.InvalidCount)
	assert.Equal(t, 4, res.TotalRecords)
	assert.Equal(t, 1, res.ValidCount)
	assert.Equal(t, 3, res.InvalidCount)
}

func TestValidate_EmptyBatch(t *testing.T) {
	v := New(ContractRules())
	res := v.Validate(nil)

	assert.True(t, res.IsValid)
	assert.Equal(t, 0, res.TotalRecords)
	assert.Nil(t, res.FirstError())
}

func TestValidate_AddendumBuildsTypedRecord(t *testing.T) {
	row := contractRow(2, "12345678")
	row.Values[schema.FieldAddendumReason] = "Prórroga"
	row.Values[schema.FieldEndDate] = "31/12/2024"
	row.Values[schema.FieldSalary] = 3200.0

	v := New(AddendumRules())
	res := v.Validate([]extract.Row{row})

	require.True(t, res.IsValid)
	rec, ok := res.ValidRecords[0].(model.AddendumRow)
	require.True(t, ok)
	assert.Equal(t, model.FamilyAddendum, rec.Family())
	assert.Equal(t, "Prórroga", rec.AddendumReason)
	require.NotNil(t, rec.Salary)
	assert.Equal(t, 3200.0, *rec.Salary)
}

func TestRulesFor(t *testing.T) {
	assert.Equal(t, model.FamilyContract, RulesFor(model.FamilyContract).Family)
	assert.Equal(t, model.FamilyAddendum, RulesFor(model.FamilyAddendum).Family)
	assert.Equal(t, model.FamilyContract, RulesFor("unknown").Family)
}

func TestFirstError(t *testing.T) {
	v := New(ContractRules())
	res := v.Validate([]extract.Row{contractRow(2, "bad")})

	first := res.FirstError()
	require.NotNil(t, first)
	assert.Equal(t, CodeInvalidFieldFormat, first.Code)
}
