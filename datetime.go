package tablecsv

import "time"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// looksLikeDate reports whether s matches ^\d{4}-\d{2}-\d{2}$.
func looksLikeDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	return isDigits(s[0:4]) && s[4] == '-' && isDigits(s[5:7]) && s[7] == '-' && isDigits(s[8:10])
}

// looksLikeDateTime reports whether s matches
// ^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$.
func looksLikeDateTime(s string) bool {
	if len(s) < 19 {
		return false
	}
	if !looksLikeDate(s[:10]) || s[10] != 'T' {
		return false
	}
	rest := s[11:]
	if len(rest) < 8 {
		return false
	}
	if !(isDigits(rest[0:2]) && rest[2] == ':' && isDigits(rest[3:5]) && rest[5] == ':' && isDigits(rest[6:8])) {
		return false
	}
	frac := rest[8:]
	if frac == "" {
		return true
	}
	if frac[0] != '.' || len(frac) < 2 {
		return false
	}
	return isDigits(frac[1:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isASCIIDigit(s[i]) {
			return false
		}
	}
	return true
}

// sniffDateOrDateTime inspects the first up-to-three non-missing values
// of a string column and decides which strict format (if any) is worth
// attempting for the whole column, per spec.md §4.7.
func sniffDateOrDateTime(col *column) columnType {
	seen := 0
	allDate, allDateTime := true, true
	for i, s := range col.strings {
		if col.nullable && !col.valid[i] {
			continue
		}
		if allDate && !looksLikeDate(s) {
			allDate = false
		}
		if allDateTime && !looksLikeDateTime(s) {
			allDateTime = false
		}
		seen++
		if seen == 3 {
			break
		}
	}
	if seen == 0 {
		return typeString
	}
	switch {
	case allDate:
		return typeDate
	case allDateTime:
		return typeDateTime
	default:
		return typeString
	}
}

// convertDateColumn attempts a strict parse of every value in col as
// dateLayout, returning the converted column or ok=false if any value
// fails to parse — a silent best-effort abandonment, per spec.md §4.7 and
// §7 ("a parse failure inside it silently reverts to leaving the column
// as strings").
func convertDateColumn(col *column) (*column, bool) {
	out := newColumn(typeDate, col.nullable)
	out.dates = make([]time.Time, 0, len(col.strings))
	if col.nullable {
		out.valid = make([]bool, 0, len(col.strings))
	}
	for i, s := range col.strings {
		if col.nullable && !col.valid[i] {
			out.dates = append(out.dates, time.Time{})
			out.valid = append(out.valid, false)
			continue
		}
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, false
		}
		out.dates = append(out.dates, t)
		if col.nullable {
			out.valid = append(out.valid, true)
		}
	}
	return out, true
}

func convertDateTimeColumn(col *column) (*column, bool) {
	out := newColumn(typeDateTime, col.nullable)
	out.datetimes = make([]time.Time, 0, len(col.strings))
	if col.nullable {
		out.valid = make([]bool, 0, len(col.strings))
	}
	for i, s := range col.strings {
		if col.nullable && !col.valid[i] {
			out.datetimes = append(out.datetimes, time.Time{})
			out.valid = append(out.valid, false)
			continue
		}
		t, err := time.Parse(dateTimeLayout, trimFractional(s))
		if err != nil {
			return nil, false
		}
		out.datetimes = append(out.datetimes, t)
		if col.nullable {
			out.valid = append(out.valid, true)
		}
	}
	return out, true
}

// trimFractional drops a fractional-seconds suffix that dateTimeLayout
// doesn't itself model; time.Parse handles the fixed-width prefix, and
// RFC 3339-style fractional seconds beyond that are dropped rather than
// rejected, since the spec only requires a strict parse of the
// non-fractional fields to succeed.
func trimFractional(s string) string {
	if i := indexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// runDateTimePostPass scans every string-or-missing column of the frame
// and, where the whole column strictly parses as a date or datetime,
// replaces it in place. Per spec.md §4.7 this is a best-effort sniffer,
// not part of type inference: any failure leaves the column untouched.
func runDateTimePostPass(f *Frame) {
	for i, c := range f.cols {
		if c.typ != typeString {
			continue
		}
		switch sniffDateOrDateTime(c) {
		case typeDate:
			if conv, ok := convertDateColumn(c); ok {
				f.cols[i] = conv
			}
		case typeDateTime:
			if conv, ok := convertDateTimeColumn(c); ok {
				f.cols[i] = conv
			}
		}
	}
}
