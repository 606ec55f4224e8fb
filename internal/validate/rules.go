package validate

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sells-group/hrdocs-cli/internal/extract"
	"github.com/sells-group/hrdocs-cli/internal/model"
	"github.com/sells-group/hrdocs-cli/internal/schema"
)

var dniPattern = regexp.MustCompile(`^\d{8}$`)

// Rules is the validation rule set for one document family.
type Rules struct {
	Family   model.DocumentFamily
	Required []string
}

// ContractRules returns the rule set for contract batches.
func ContractRules() Rules {
	return Rules{
		Family: model.FamilyContract,
		Required: []string{
			schema.FieldDNI,
			schema.FieldPaternalLastName,
			schema.FieldMaternalLastName,
			schema.FieldFirstNames,
			schema.FieldEntryDate,
		},
	}
}

// AddendumRules returns the rule set for addendum batches.
func AddendumRules() Rules {
	return Rules{
		Family: model.FamilyAddendum,
		Required: []string{
			schema.FieldDNI,
			schema.FieldPaternalLastName,
			schema.FieldMaternalLastName,
			schema.FieldFirstNames,
			schema.FieldEntryDate,
		},
	}
}

// RulesFor returns the rule set for a document family.
func RulesFor(family model.DocumentFamily) Rules {
	if family == model.FamilyAddendum {
		return AddendumRules()
	}
	return ContractRules()
}

// check returns every constraint violation in the row. Each violation is one
// Error referencing the offending field.
func (r Rules) check(row extract.Row) []Error {
	var errs []Error

	for _, field := range r.Required {
		if row.Values[field] == nil {
			errs = append(errs, Error{
				Row:     row.Number,
				Field:   field,
				Code:    CodeValidationError,
				Message: fmt.Sprintf("%s is required", field),
			})
		}
	}

	if dni := stringValue(row.Values[schema.FieldDNI]); dni != "" && !dniPattern.MatchString(dni) {
		errs = append(errs, Error{
			Row:     row.Number,
			Field:   schema.FieldDNI,
			Code:    CodeInvalidFieldFormat,
			Message: fmt.Sprintf("document number %q must be 8 digits", dni),
		})
	}

	for _, field := range []string{schema.FieldEntryDate, schema.FieldEndDate} {
		v := row.Values[field]
		if v == nil {
			continue
		}
		// A non-string here is an unformatted cell (e.g. a raw Excel date
		// serial) that extraction could not render as a date.
		d, ok := v.(string)
		if !ok {
			errs = append(errs, Error{
				Row:     row.Number,
				Field:   field,
				Code:    CodeInvalidFieldFormat,
				Message: fmt.Sprintf("%s %v is not a valid DD/MM/YYYY date", field, v),
			})
			continue
		}
		if d != "" && !validDate(d) {
			errs = append(errs, Error{
				Row:     row.Number,
				Field:   field,
				Code:    CodeInvalidFieldFormat,
				Message: fmt.Sprintf("%s %q is not a valid DD/MM/YYYY date", field, d),
			})
		}
	}

	if s := floatValue(row.Values[schema.FieldSalary]); s != nil && *s <= 0 {
		errs = append(errs, Error{
			Row:     row.Number,
			Field:   schema.FieldSalary,
			Code:    CodeValidationError,
			Message: fmt.Sprintf("salary must be positive, got %v", *s),
		})
	}

	return errs
}

// build converts a violation-free row into its typed record.
func (r Rules) build(row extract.Row) model.EmployeeRecord {
	get := func(field string) string { return stringValue(row.Values[field]) }

	if r.Family == model.FamilyAddendum {
		return model.AddendumRow{
			RowNumber:        row.Number,
			DNI:              get(schema.FieldDNI),
			PaternalLastName: get(schema.FieldPaternalLastName),
			MaternalLastName: get(schema.FieldMaternalLastName),
			FirstNames:       get(schema.FieldFirstNames),
			EntryDate:        get(schema.FieldEntryDate),
			EndDate:          get(schema.FieldEndDate),
			Salary:           floatValue(row.Values[schema.FieldSalary]),
			AddendumReason:   get(schema.FieldAddendumReason),
		}
	}

	return model.ContractRow{
		RowNumber:        row.Number,
		DNI:              get(schema.FieldDNI),
		PaternalLastName: get(schema.FieldPaternalLastName),
		MaternalLastName: get(schema.FieldMaternalLastName),
		FirstNames:       get(schema.FieldFirstNames),
		EntryDate:        get(schema.FieldEntryDate),
		EndDate:          get(schema.FieldEndDate),
		Salary:           floatValue(row.Values[schema.FieldSalary]),
		Position:         get(schema.FieldPosition),
		ContractType:     get(schema.FieldContractType),
		WorkSchedule:     get(schema.FieldWorkSchedule),
		Department:       get(schema.FieldDepartment),
		Province:         get(schema.FieldProvince),
		District:         get(schema.FieldDistrict),
		Address:          get(schema.FieldAddress),
	}
}

func validDate(s string) bool {
	_, err := time.Parse("02/01/2006", s)
	return err == nil
}
