// Package model holds the domain types shared across the processing pipeline.
package model

import "strings"

// DocumentFamily identifies which spreadsheet schema a batch was parsed with.
type DocumentFamily string

const (
	FamilyContract DocumentFamily = "contract"
	FamilyAddendum DocumentFamily = "addendum"
)

// EmployeeRecord is one validated spreadsheet row, typed per document family.
type EmployeeRecord interface {
	Family() DocumentFamily
	// DocumentNumber is the natural key used for duplicate detection (DNI).
	DocumentNumber() string
	FullName() string
	Row() int
}

// ContractRow is a validated row from a contract spreadsheet.
type ContractRow struct {
	RowNumber        int
	DNI              string
	PaternalLastName string
	MaternalLastName string
	FirstNames       string
	EntryDate        string // DD/MM/YYYY
	EndDate          string // DD/MM/YYYY, empty for open-ended contracts
	Salary           *float64
	Position         string
	ContractType     string
	WorkSchedule     string
	Department       string
	Province         string
	District         string
	Address          string
}

func (r ContractRow) Family() DocumentFamily { return FamilyContract }
func (r ContractRow) DocumentNumber() string { return r.DNI }
func (r ContractRow) Row() int               { return r.RowNumber }

func (r ContractRow) FullName() string {
	return joinName(r.PaternalLastName, r.MaternalLastName, r.FirstNames)
}

// AddendumRow is a validated row from an addendum spreadsheet.
type AddendumRow struct {
	RowNumber        int
	DNI              string
	PaternalLastName string
	MaternalLastName string
	FirstNames       string
	EntryDate        string // DD/MM/YYYY
	EndDate          string // DD/MM/YYYY
	Salary           *float64
	AddendumReason   string
}

func (r AddendumRow) Family() DocumentFamily { return FamilyAddendum }
func (r AddendumRow) DocumentNumber() string { return r.DNI }
func (r AddendumRow) Row() int               { return r.RowNumber }

func (r AddendumRow) FullName() string {
	return joinName(r.PaternalLastName, r.MaternalLastName, r.FirstNames)
}

func joinName(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
