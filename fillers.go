package tablecsv

import (
	"strconv"
)

// fillColumn parses nrows tokens from tokens.cols[colIdx] (using mem for
// field bytes) and appends them to col, which must already be typed and
// sized to receive them. Missing tokens become null entries on nullable
// columns; fillColumn assumes the caller has already promoted col to
// nullable if this chunk's classification requires it.
func fillColumn(col *column, mem []byte, tokens *tokenMatrix, colIdx, nrows int, quot byte) error {
	cells := tokens.cols[colIdx]
	for r := 0; r < nrows; r++ {
		t := cells[r]
		if t.isMissing() {
			col.appendMissing()
			continue
		}
		col.appendValid()
		field := t.bytes(mem)
		switch col.typ {
		case typeInt:
			v, err := parseIntField(field)
			if err != nil {
				return err
			}
			col.ints = append(col.ints, v)
		case typeFloat:
			v, err := parseFloatField(field)
			if err != nil {
				return err
			}
			col.floats = append(col.floats, v)
		case typeBool:
			col.bools = append(col.bools, parseBoolField(field))
		case typeString:
			if t.kind()&kindQString != 0 {
				col.strings = append(col.strings, qstring(field, quot))
				continue
			}
			if col.cache == nil {
				col.cache = newStringCache()
			}
			col.strings = append(col.strings, col.cache.get(field))
		}
	}
	return nil
}

// parseIntField strips an optional leading sign and accumulates base-10
// digits. Runs longer than the platform int's safe decimal width fall
// back to strconv.ParseInt, which already does full-width, overflow
// checked decimal parsing — spec.md §4.5 calls this "a slower full
// arbitrary-length decimal parse (string-copy path)"; strconv.ParseInt is
// that path in Go.
func parseIntField(field []byte) (int64, error) {
	const fastDigitLimit = 18 // safely within int64 range without overflow checks
	neg := false
	i := 0
	if len(field) > 0 && (field[0] == '+' || field[0] == '-') {
		neg = field[0] == '-'
		i = 1
	}
	digits := field[i:]
	if len(digits) > fastDigitLimit {
		return strconv.ParseInt(string(field), 10, 64)
	}
	var v int64
	for _, b := range digits {
		v = v*10 + int64(b-'0')
	}
	if neg {
		v = -v
	}
	return v, nil
}

// parseFloatField hands the raw field bytes to the standard library's
// strtod-equivalent. strconv.ParseFloat accepts "NaN", "Inf", "+Inf",
// "-Inf", and "Infinity" case-insensitively, matching the tokenizer's
// SPECIAL_FLOAT recognition.
func parseFloatField(field []byte) (float64, error) {
	return strconv.ParseFloat(string(field), 64)
}

// parseBoolField implements spec.md §4.5's bool rule directly: the
// tokenizer guarantees only "t"/"T"/"f"/"F"/"true"/"false" (any case)
// reach here, so a first-letter check is sufficient.
func parseBoolField(field []byte) bool {
	if len(field) == 0 {
		return false
	}
	switch field[0] {
	case 't', 'T':
		return true
	default:
		return false
	}
}

// qstring decodes a doubled-quote-escaped field: every byte is copied
// except the second quot of each doubled pair, which is skipped,
// collapsing `""` into `"`.
func qstring(field []byte, quot byte) string {
	out := make([]byte, 0, len(field))
	skipNext := false
	for i, b := range field {
		if skipNext {
			skipNext = false
			continue
		}
		out = append(out, b)
		if b == quot && i+1 < len(field) && field[i+1] == quot {
			skipNext = true
		}
	}
	return string(out)
}
