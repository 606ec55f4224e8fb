package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hrdocs-cli/internal/model"
	"github.com/sells-group/hrdocs-cli/pkg/render"
)

// Generator produces documents for a batch of validated employee records.
//
// A Generator distinguishes two failure levels: a returned error rejects the
// whole batch (the orchestrator fails the file), while a per-employee problem
// is reported as a Success=false entry in the returned list.
type Generator interface {
	Name() string
	ProcessEmployees(ctx context.Context, records []model.EmployeeRecord) ([]model.GeneratedDocument, error)
}

// ContractGenerator renders one legal document per employee: contracts for
// contract batches, addenda for addendum batches.
type ContractGenerator struct {
	Engine render.Engine
}

func (g ContractGenerator) Name() string { return "contracts" }

func (g ContractGenerator) ProcessEmployees(ctx context.Context, records []model.EmployeeRecord) ([]model.GeneratedDocument, error) {
	if err := g.Engine.Start(ctx); err != nil {
		return nil, eris.Wrap(err, "contract generator: start engine")
	}

	docs := make([]model.GeneratedDocument, 0, len(records))
	for _, rec := range records {
		template, docType, prefix := "contract", model.DocTypeContract, "CONTRATO"
		if rec.Family() == model.FamilyAddendum {
			template, docType, prefix = "addendum", model.DocTypeAddendum, "ANEXO"
		}

		filename := documentFilename(prefix, rec)
		buf, err := g.Engine.Render(ctx, render.Request{
			Template: template,
			Data:     recordData(rec),
		})
		if err != nil {
			docs = append(docs, model.GeneratedDocument{
				Filename:     filename,
				DocumentType: docType,
				Error:        err.Error(),
			})
			continue
		}

		docs = append(docs, model.GeneratedDocument{
			Success:      true,
			Buffer:       buf,
			Filename:     filename,
			DocumentType: docType,
		})
	}
	return docs, nil
}

// SCTRReportGenerator renders one accident-insurance compliance report
// covering the whole batch.
type SCTRReportGenerator struct {
	Engine render.Engine
}

func (g SCTRReportGenerator) Name() string { return "sctr-report" }

func (g SCTRReportGenerator) ProcessEmployees(ctx context.Context, records []model.EmployeeRecord) ([]model.GeneratedDocument, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if err := g.Engine.Start(ctx); err != nil {
		return nil, eris.Wrap(err, "sctr generator: start engine")
	}

	employees := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		employees = append(employees, recordData(rec))
	}

	filename := fmt.Sprintf("SCTR_%s.pdf", time.Now().UTC().Format("2006-01"))
	buf, err := g.Engine.Render(ctx, render.Request{
		Template: "sctr-report",
		Data: map[string]any{
			"period":    time.Now().UTC().Format("2006-01"),
			"employees": employees,
		},
	})
	if err != nil {
		return []model.GeneratedDocument{{
			Filename:     filename,
			DocumentType: model.DocTypeSCTRReport,
			Error:        err.Error(),
		}}, nil
	}

	return []model.GeneratedDocument{{
		Success:      true,
		Buffer:       buf,
		Filename:     filename,
		DocumentType: model.DocTypeSCTRReport,
	}}, nil
}

// DataExportGenerator serializes the validated batch to CSV so payroll can
// re-import the cleaned data.
type DataExportGenerator struct{}

func (g DataExportGenerator) Name() string { return "data-export" }

func (g DataExportGenerator) ProcessEmployees(ctx context.Context, records []model.EmployeeRecord) ([]model.GeneratedDocument, error) {
	if len(records) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"dni", "full_name", "entry_date", "end_date", "salary"})
	for _, rec := range records {
		data := recordData(rec)
		_ = w.Write([]string{
			rec.DocumentNumber(),
			rec.FullName(),
			str(data["entryDate"]),
			str(data["endDate"]),
			str(data["salary"]),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, eris.Wrap(err, "data export: write csv")
	}

	return []model.GeneratedDocument{{
		Success:      true,
		Buffer:       buf.Bytes(),
		Filename:     fmt.Sprintf("DATOS_%s.csv", time.Now().UTC().Format("20060102")),
		DocumentType: model.DocTypeProcessingData,
	}}, nil
}

// documentFilename builds a per-employee artifact name from identity fields.
func documentFilename(prefix string, rec model.EmployeeRecord) string {
	name := strings.ToUpper(strings.ReplaceAll(rec.FullName(), " ", "_"))
	return fmt.Sprintf("%s_%s_%s.pdf", prefix, rec.DocumentNumber(), name)
}

// recordData flattens a typed record into template data.
func recordData(rec model.EmployeeRecord) map[string]any {
	data := map[string]any{
		"dni":       rec.DocumentNumber(),
		"fullName":  rec.FullName(),
		"rowNumber": rec.Row(),
	}

	switch r := rec.(type) {
	case model.ContractRow:
		data["paternalLastName"] = r.PaternalLastName
		data["maternalLastName"] = r.MaternalLastName
		data["firstNames"] = r.FirstNames
		data["entryDate"] = r.EntryDate
		data["endDate"] = r.EndDate
		data["position"] = r.Position
		data["contractType"] = r.ContractType
		data["workSchedule"] = r.WorkSchedule
		data["department"] = r.Department
		data["province"] = r.Province
		data["district"] = r.District
		data["address"] = r.Address
		if r.Salary != nil {
			data["salary"] = *r.Salary
		}
	case model.AddendumRow:
		data["paternalLastName"] = r.PaternalLastName
		data["maternalLastName"] = r.MaternalLastName
		data["firstNames"] = r.FirstNames
		data["entryDate"] = r.EntryDate
		data["endDate"] = r.EndDate
		data["addendumReason"] = r.AddendumReason
		if r.Salary != nil {
			data["salary"] = *r.Salary
		}
	}
	return data
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', 2, 64)
	default:
		return fmt.Sprint(t)
	}
}
