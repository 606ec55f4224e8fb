package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Date layout used for every date field in generated documents.
const dateLayout = "02/01/2006"

var currencyPrefix = regexp.MustCompile(`^[Ss]/\.?\s*`)

// ParseSalary converts a human-entered salary string to a number.
//
// Accepts an optional "S/" currency prefix (with trailing dot or space) and
// both separator conventions seen in uploads: "1,234.56" and "1.234,56".
// When both separators appear, the rightmost one is the decimal mark.
// Empty, "N/A", and unparsable input all yield nil rather than an error;
// bad salaries surface later as validation errors, not extraction failures.
func ParseSalary(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "n/a") {
		return nil
	}
	s = currencyPrefix.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if dot > comma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// formatDNI renders a numeric cell value as a plain decimal string, without
// thousands formatting or a trailing fraction.
func formatDNI(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
