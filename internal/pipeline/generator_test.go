package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hrdocs-cli/internal/model"
	"github.com/sells-group/hrdocs-cli/pkg/render"
)

func salary(v float64) *float64 { return &v }

func sampleContract() model.ContractRow {
	return model.ContractRow{
		RowNumber:        2,
		DNI:              "12345678",
		PaternalLastName: "Quispe",
		MaternalLastName: "Rojas",
		FirstNames:       "María Elena",
		EntryDate:        "15/03/2024",
		Salary:           salary(2500),
		Position:         "Analista",
	}
}

func sampleAddendum() model.AddendumRow {
	return model.AddendumRow{
		RowNumber:        3,
		DNI:              "87654321",
		PaternalLastName: "Torres",
		MaternalLastName: "Díaz",
		FirstNames:       "Juan",
		EntryDate:        "01/01/2023",
		EndDate:          "31/12/2024",
		AddendumReason:   "Prórroga",
	}
}

func TestContractGenerator_RendersPerEmployee(t *testing.T) {
	eng := new(mockEngine)
	eng.On("Start", mock.Anything).Return(nil)
	eng.On("Render", mock.Anything, mock.MatchedBy(func(r render.Request) bool {
		return r.Template == "contract" && r.Data["dni"] == "12345678"
	})).Return([]byte("pdf-contract"), nil)
	eng.On("Render", mock.Anything, mock.MatchedBy(func(r render.Request) bool {
		return r.Template == "addendum" && r.Data["dni"] == "87654321"
	})).Return([]byte("pdf-addendum"), nil)

	g := ContractGenerator{Engine: eng}
	docs, err := g.ProcessEmployees(context.Background(), []model.EmployeeRecord{
		sampleContract(),
		sampleAddendum(),
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.True(t, docs[0].Success)
	assert.Equal(t, "CONTRATO_12345678_QUISPE_ROJAS_MARÍA_ELENA.pdf", docs[0].Filename)
	assert.Equal(t, model.DocTypeContract, docs[0].DocumentType)
	assert.Equal(t, []byte("pdf-contract"), docs[0].Buffer)

	assert.True(t, docs[1].Success)
	assert.Equal(t, "ANEXO_87654321_TORRES_DÍAZ_JUAN.pdf", docs[1].Filename)
	assert.Equal(t, model.DocTypeAddendum, docs[1].DocumentType)
}

func TestContractGenerator_EngineStartFailureRejectsBatch(t *testing.T) {
	eng := new(mockEngine)
	eng.On("Start", mock.Anything).Return(errors.New("service unreachable"))

	g := ContractGenerator{Engine: eng}
	docs, err := g.ProcessEmployees(context.Background(), []model.EmployeeRecord{sampleContract()})

	require.Error(t, err)
	assert.Nil(t, docs)
}

func TestContractGenerator_RenderFailureIsPerEmployee(t *testing.T) {
	eng := new(mockEngine)
	eng.On("Start", mock.Anything).Return(nil)
	eng.On("Render", mock.Anything, mock.MatchedBy(func(r render.Request) bool {
		return r.Data["dni"] == "12345678"
	})).Return(nil, errors.New("template error"))
	eng.On("Render", mock.Anything, mock.MatchedBy(func(r render.Request) bool {
		return r.Data["dni"] == "87654321"
	})).Return([]byte("pdf"), nil)

	g := ContractGenerator{Engine: eng}
	docs, err := g.ProcessEmployees(context.Background(), []model.EmployeeRecord{
		sampleContract(),
		sampleAddendum(),
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.False(t, docs[0].Success)
	assert.Contains(t, docs[0].Error, "template error")
	assert.Empty(t, docs[0].Buffer)
	assert.True(t, docs[1].Success)
}

func TestSCTRReportGenerator_OneReportPerBatch(t *testing.T) {
	eng := new(mockEngine)
	eng.On("Start", mock.Anything).Return(nil)
	eng.On("Render", mock.Anything, mock.MatchedBy(func(r render.Request) bool {
		employees, ok := r.Data["employees"].([]map[string]any)
		return r.Template == "sctr-report" && ok && len(employees) == 2
	})).Return([]byte("pdf-report"), nil)

	g := SCTRReportGenerator{Engine: eng}
	docs, err := g.ProcessEmployees(context.Background(), []model.EmployeeRecord{
		sampleContract(),
		sampleAddendum(),
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.True(t, docs[0].Success)
	assert.Equal(t, model.DocTypeSCTRReport, docs[0].DocumentType)
	assert.True(t, strings.HasPrefix(docs[0].Filename, "SCTR_"))
	assert.True(t, strings.HasSuffix(docs[0].Filename, ".pdf"))
}

func TestSCTRReportGenerator_EmptyBatch(t *testing.T) {
	eng := new(mockEngine)

	g := SCTRReportGenerator{Engine: eng}
	docs, err := g.ProcessEmployees(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, docs)
	eng.AssertNotCalled(t, "Start", mock.Anything)
}

func TestSCTRReportGenerator_RenderFailure(t *testing.T) {
	eng := new(mockEngine)
	eng.On("Start", mock.Anything).Return(nil)
	eng.On("Render", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	g := SCTRReportGenerator{Engine: eng}
	docs, err := g.ProcessEmployees(context.Background(), []model.EmployeeRecord{sampleContract()})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.False(t, docs[0].Success)
	assert.Contains(t, docs[0].Error, "timeout")
}

func TestDataExportGenerator(t *testing.T) {
	g := DataExportGenerator{}
	docs, err := g.ProcessEmployees(context.Background(), []model.EmployeeRecord{
		sampleContract(),
		sampleAddendum(),
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	out := docs[0]
	assert.True(t, out.Success)
	assert.Equal(t, model.DocTypeProcessingData, out.DocumentType)
	assert.True(t, strings.HasPrefix(out.Filename, "DATOS_"))
	assert.True(t, strings.HasSuffix(out.Filename, ".csv"))

	records, err := csv.NewReader(strings.NewReader(string(out.Buffer))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"dni", "full_name", "entry_date", "end_date", "salary"}, records[0])
	assert.Equal(t, []string{"12345678", "Quispe Rojas María Elena", "15/03/2024", "", "2500.00"}, records[1])
	assert.Equal(t, []string{"87654321", "Torres Díaz Juan", "01/01/2023", "31/12/2024", ""}, records[2])
}

func TestDataExportGenerator_EmptyBatch(t *testing.T) {
	g := DataExportGenerator{}
	docs, err := g.ProcessEmployees(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentFilename(t *testing.T) {
	assert.Equal(t,
		"CONTRATO_12345678_QUISPE_ROJAS_MARÍA_ELENA.pdf",
		documentFilename("CONTRATO", sampleContract()),
	)
}
