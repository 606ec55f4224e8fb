// Package schema defines the canonical employee field dictionaries and
// resolves human-authored spreadsheet headers against them.
package schema

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Canonical field names. Spreadsheet headers are mapped onto these via the
// alias dictionaries below; everything downstream of header resolution uses
// only canonical names.
const (
	FieldDNI              = "dni"
	FieldPaternalLastName = "paternalLastName"
	FieldMaternalLastName = "maternalLastName"
	FieldFirstNames       = "firstNames"
	FieldEntryDate        = "entryDate"
	FieldEndDate          = "endDate"
	FieldSalary           = "salary"
	FieldPosition         = "position"
	FieldContractType     = "contractType"
	FieldWorkSchedule     = "workSchedule"
	FieldDepartment       = "department"
	FieldProvince         = "province"
	FieldDistrict         = "district"
	FieldAddress          = "address"
	FieldAddendumReason   = "addendumReason"
)

// FieldConfig describes one canonical field and the header spellings that
// resolve to it. Aliases are matched in order, first match wins.
type FieldConfig struct {
	Name        string   `yaml:"name"`
	Aliases     []string `yaml:"aliases"`
	Description string   `yaml:"description"`
	Required    bool     `yaml:"required"` // base field: file is unprocessable without it
}

// Dictionary is the full field configuration for one document family.
type Dictionary struct {
	Family string        `yaml:"family"`
	Fields []FieldConfig `yaml:"fields"`
}

// The alias lists are data, not code: they reproduce the header variants
// observed in uploaded spreadsheets verbatim and must not be "cleaned up".
var baseFields = []FieldConfig{
	{
		Name:        FieldDNI,
		Aliases:     []string{"DNI", "D.N.I.", "N° DNI", "Nro DNI", "Nro. de DNI", "Documento de Identidad", "Numero de Documento", "Número de Documento"},
		Description: "national identity document number",
		Required:    true,
	},
	{
		Name:        FieldPaternalLastName,
		Aliases:     []string{"Apellido Paterno", "Ap. Paterno", "Apellido 1", "Primer Apellido"},
		Description: "paternal last name",
		Required:    true,
	},
	{
		Name:        FieldMaternalLastName,
		Aliases:     []string{"Apellido Materno", "Ap. Materno", "Apellido 2", "Segundo Apellido"},
		Description: "maternal last name",
		Required:    true,
	},
	{
		Name:        FieldFirstNames,
		Aliases:     []string{"Nombres", "Nombre", "Nombres Completos"},
		Description: "given names",
		Required:    true,
	},
	{
		Name:        FieldEntryDate,
		Aliases:     []string{"Fecha de Ingreso", "Fecha Ingreso", "F. Ingreso", "Fecha de Inicio", "Inicio de Labores"},
		Description: "employment start date",
		Required:    true,
	},
}

var locationFields = []FieldConfig{
	{
		Name:        FieldDepartment,
		Aliases:     []string{"Departamento", "Dpto", "Dpto.", "Región"},
		Description: "department (region) of the work site",
	},
	{
		Name:        FieldProvince,
		Aliases:     []string{"Provincia", "Prov", "Prov."},
		Description: "province of the work site",
	},
	{
		Name:        FieldDistrict,
		Aliases:     []string{"Distrito", "Dist", "Dist."},
		Description: "district of the work site",
	},
	{
		Name:        FieldAddress,
		Aliases:     []string{"Dirección", "Direccion", "Domicilio", "Dirección de Domicilio"},
		Description: "employee home address",
	},
}

var contractFields = []FieldConfig{
	{
		Name:        FieldPosition,
		Aliases:     []string{"Cargo", "Puesto", "Puesto de Trabajo", "Ocupación"},
		Description: "job title",
	},
	{
		Name:        FieldSalary,
		Aliases:     []string{"Sueldo", "Remuneración", "Remuneracion", "Salario", "Sueldo Básico", "Remuneración Mensual"},
		Description: "monthly salary in soles",
	},
	{
		Name:        FieldEndDate,
		Aliases:     []string{"Fecha de Fin", "Fecha Fin", "F. Fin", "Fecha de Cese", "Fin de Contrato"},
		Description: "contract end date",
	},
	{
		Name:        FieldContractType,
		Aliases:     []string{"Tipo de Contrato", "Modalidad", "Modalidad de Contrato"},
		Description: "contract modality",
	},
	{
		Name:        FieldWorkSchedule,
		Aliases:     []string{"Horario", "Horario de Trabajo", "Jornada", "Jornada Laboral"},
		Description: "work schedule",
	},
}

var addendumFields = []FieldConfig{
	{
		Name:        FieldAddendumReason,
		Aliases:     []string{"Motivo", "Motivo de Anexo", "Motivo de Adenda", "Tipo de Anexo"},
		Description: "reason for the addendum",
	},
	{
		Name:        FieldEndDate,
		Aliases:     []string{"Nueva Fecha de Fin", "Fecha de Fin", "Fecha Fin", "Prórroga Hasta", "Prorroga Hasta"},
		Description: "extended contract end date",
	},
	{
		Name:        FieldSalary,
		Aliases:     []string{"Nueva Remuneración", "Nueva Remuneracion", "Sueldo", "Remuneración", "Remuneracion"},
		Description: "updated monthly salary in soles",
	},
}

// ContractDictionary returns the field dictionary for contract spreadsheets.
func ContractDictionary() Dictionary {
	return Dictionary{
		Family: "contract",
		Fields: concat(baseFields, locationFields, contractFields),
	}
}

// AddendumDictionary returns the field dictionary for addendum spreadsheets.
func AddendumDictionary() Dictionary {
	return Dictionary{
		Family: "addendum",
		Fields: concat(baseFields, addendumFields),
	}
}

// DictionaryFor returns the built-in dictionary for the given family.
func DictionaryFor(family string) (Dictionary, error) {
	switch family {
	case "contract":
		return ContractDictionary(), nil
	case "addendum":
		return AddendumDictionary(), nil
	default:
		return Dictionary{}, eris.Errorf("schema: unknown document family %q", family)
	}
}

// LoadDictionaryFile reads a dictionary override from a YAML file.
func LoadDictionaryFile(path string) (Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dictionary{}, eris.Wrap(err, "schema: read dictionary file")
	}

	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Dictionary{}, eris.Wrap(err, "schema: parse dictionary file")
	}

	if err := d.validate(); err != nil {
		return Dictionary{}, err
	}
	return d, nil
}

// Field returns the config for a canonical field name, or nil.
func (d Dictionary) Field(name string) *FieldConfig {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// RequiredFields returns the canonical names of all base fields.
func (d Dictionary) RequiredFields() []string {
	var out []string
	for _, f := range d.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

func (d Dictionary) validate() error {
	if d.Family == "" {
		return eris.New("schema: dictionary missing family")
	}
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if f.Name == "" {
			return eris.New("schema: dictionary field missing name")
		}
		if seen[f.Name] {
			return eris.Errorf("schema: duplicate field %q in dictionary", f.Name)
		}
		seen[f.Name] = true
		if len(f.Aliases) == 0 {
			return eris.Errorf("schema: field %q has no aliases", f.Name)
		}
	}
	return nil
}

func concat(groups ...[]FieldConfig) []FieldConfig {
	var out []FieldConfig
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
