// Package extract reads uploaded spreadsheet bytes into typed rows keyed by
// canonical field name.
package extract

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

var errNoHeaderRow = eris.New("sheet has no header row")

// BadSourceError marks spreadsheet bytes that could not be opened at all.
// It is fatal for the file and raised before any row is read.
type BadSourceError struct {
	Err error
}

func (e *BadSourceError) Error() string {
	return "unreadable spreadsheet: " + e.Err.Error()
}

func (e *BadSourceError) Unwrap() error {
	return e.Err
}

// openWorkbook parses raw xlsx bytes and returns the first sheet.
func openWorkbook(data []byte) (*xlsx.File, *xlsx.Sheet, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, nil, &BadSourceError{Err: err}
	}
	if len(f.Sheets) == 0 {
		return nil, nil, &BadSourceError{Err: eris.New("workbook has no sheets")}
	}
	return f, f.Sheets[0], nil
}
