package schema

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ColumnRef locates one resolved header in the source sheet.
type ColumnRef struct {
	Header string // literal header text as found in the sheet
	Index  int    // zero-based column index
}

// HeaderMapping maps canonical field names to the column they were found in.
// At most one column per field; a column resolves to at most one field.
type HeaderMapping map[string]ColumnRef

// MissingHeadersError reports base fields that could not be resolved from the
// header row. Processing of the file must not proceed past this error.
type MissingHeadersError struct {
	Missing []string // display names (first alias) of unresolved base fields
}

func (e *MissingHeadersError) Error() string {
	return fmt.Sprintf("missing required headers: %s", strings.Join(e.Missing, ", "))
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowers, trims, collapses internal whitespace, and strips
// diacritics so that "Apellido Paternó " and "apellido paterno" compare
// equal. Normalizing an already-normalized string is a no-op.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	return s
}

// Resolver matches raw spreadsheet headers against a field dictionary.
type Resolver struct {
	dict    Dictionary
	aliases []map[string]bool // normalized alias set per field, dictionary order
}

// NewResolver builds a resolver for the given dictionary. Alias sets are
// normalized once up front.
func NewResolver(dict Dictionary) *Resolver {
	r := &Resolver{dict: dict, aliases: make([]map[string]bool, len(dict.Fields))}
	for i, f := range dict.Fields {
		set := make(map[string]bool, len(f.Aliases))
		for _, a := range f.Aliases {
			set[Normalize(a)] = true
		}
		r.aliases[i] = set
	}
	return r
}

// Resolve maps the raw header row onto canonical fields.
//
// Headers are processed left to right; each header is assigned to the first
// dictionary field (in declaration order) whose alias list matches it and
// that has not already been claimed. A header matching two fields' aliases
// resolves to the earlier-declared field; that is a deliberate precedence
// rule, not an error.
//
// Returns a MissingHeadersError if any base field stays unresolved.
func (r *Resolver) Resolve(headers []string) (HeaderMapping, error) {
	mapping := make(HeaderMapping, len(r.dict.Fields))

	for col, raw := range headers {
		h := Normalize(raw)
		if h == "" {
			continue
		}
		for i, f := range r.dict.Fields {
			if _, taken := mapping[f.Name]; taken {
				continue
			}
			if r.aliases[i][h] {
				mapping[f.Name] = ColumnRef{Header: raw, Index: col}
				break
			}
		}
	}

	var missing []string
	for _, f := range r.dict.Fields {
		if !f.Required {
			continue
		}
		if _, ok := mapping[f.Name]; !ok {
			missing = append(missing, f.Aliases[0])
		}
	}
	if len(missing) > 0 {
		return nil, &MissingHeadersError{Missing: missing}
	}

	return mapping, nil
}

// Dictionary returns the dictionary this resolver was built from.
func (r *Resolver) Dictionary() Dictionary {
	return r.dict
}
