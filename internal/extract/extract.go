package extract

import (
	"strings"
	"time"

	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/hrdocs-cli/internal/schema"
)

// Row is one extracted data row. Values are keyed by canonical field name and
// hold string, float64, bool, or nil after field-specific coercion.
type Row struct {
	Number int // 1-based sheet position: retained index + header row + 1
	Values map[string]any
}

// Options configures extraction.
type Options struct {
	HeaderRow     int  // 1-based position of the header row, default 1
	SkipEmptyRows bool // drop rows where every mapped cell is empty
}

// Extractor turns spreadsheet bytes into rows for one document family.
type Extractor struct {
	resolver *schema.Resolver
	opts     Options
}

// New creates an extractor over the given dictionary.
func New(dict schema.Dictionary, opts Options) *Extractor {
	if opts.HeaderRow < 1 {
		opts.HeaderRow = 1
	}
	return &Extractor{resolver: schema.NewResolver(dict), opts: opts}
}

// Extract parses the spreadsheet, resolves its headers, and reads every data
// row below the header. It fails fast on unreadable bytes or missing base
// headers; it never fails on row content, bad cells surface downstream as
// validation errors.
func (e *Extractor) Extract(data []byte) ([]Row, schema.HeaderMapping, error) {
	f, sheet, err := openWorkbook(data)
	if err != nil {
		return nil, nil, err
	}

	headerIdx := e.opts.HeaderRow - 1
	if headerIdx >= len(sheet.Rows) {
		return nil, nil, &BadSourceError{Err: errNoHeaderRow}
	}

	mapping, err := e.resolver.Resolve(rowStrings(sheet.Rows[headerIdx]))
	if err != nil {
		return nil, nil, err
	}

	var rows []Row
	for _, src := range sheet.Rows[headerIdx+1:] {
		values := make(map[string]any, len(mapping))
		empty := true
		for field, ref := range mapping {
			v := e.cellValue(f, src, ref.Index, field)
			values[field] = v
			if v != nil {
				empty = false
			}
		}
		if empty && e.opts.SkipEmptyRows {
			continue
		}
		rows = append(rows, Row{
			Number: len(rows) + e.opts.HeaderRow + 1,
			Values: values,
		})
	}

	return rows, mapping, nil
}

// cellValue extracts one cell, preserving native types and unwrapping formula
// results, then applies the field-specific coercion.
func (e *Extractor) cellValue(f *xlsx.File, row *xlsx.Row, col int, field string) any {
	if col >= len(row.Cells) {
		return nil
	}
	cell := row.Cells[col]

	switch {
	case cell.IsTime() || cell.Type() == xlsx.CellTypeDate:
		t, err := cell.GetTime(f.Date1904)
		if err != nil {
			break
		}
		return formatDate(t)

	case cell.Type() == xlsx.CellTypeNumeric:
		v, err := cell.Float()
		if err != nil {
			break
		}
		switch field {
		case schema.FieldDNI:
			return formatDNI(v)
		default:
			return v
		}

	case cell.Type() == xlsx.CellTypeBool:
		return cell.Bool()
	}

	s := strings.TrimSpace(cell.String())
	if field == schema.FieldSalary {
		if v := ParseSalary(s); v != nil {
			return *v
		}
		return nil
	}
	if s == "" {
		return nil
	}
	return s
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func rowStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.String()
	}
	return out
}
