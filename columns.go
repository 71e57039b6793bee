package tablecsv

import "time"

// columnType identifies the concrete type a column was materialized as.
type columnType int

const (
	typeInt columnType = iota
	typeFloat
	typeBool
	typeString
	typeDate
	typeDateTime
)

func (t columnType) String() string {
	switch t {
	case typeInt:
		return "int64"
	case typeFloat:
		return "float64"
	case typeBool:
		return "bool"
	case typeString:
		return "string"
	case typeDate:
		return "date"
	case typeDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// column is a typed, columnar value store with an optional presence
// bitmap. Once nullable is true it stays true for the column's lifetime
// (spec.md §3: "once promoted to nullable, a column stays nullable").
//
// Exactly one of the typed slices is populated, matching column.typ.
type column struct {
	typ      columnType
	nullable bool
	valid    []bool // len == length iff nullable

	ints      []int64
	floats    []float64
	bools     []bool
	strings   []string
	dates     []time.Time
	datetimes []time.Time

	cache *stringCache // only used while filling a string column
}

func newColumn(typ columnType, nullable bool) *column {
	return &column{typ: typ, nullable: nullable}
}

func (c *column) length() int {
	switch c.typ {
	case typeInt:
		return len(c.ints)
	case typeFloat:
		return len(c.floats)
	case typeBool:
		return len(c.bools)
	case typeString:
		return len(c.strings)
	case typeDate:
		return len(c.dates)
	case typeDateTime:
		return len(c.datetimes)
	}
	return 0
}

// makeNullable promotes a non-nullable column in place, backfilling a
// valid bitmap that marks every existing value present. This implements
// "late arrival of missings legally promotes a non-nullable column to
// nullable by copying existing values" (spec.md §4.6).
func (c *column) makeNullable() {
	if c.nullable {
		return
	}
	c.nullable = true
	c.valid = make([]bool, c.length())
	for i := range c.valid {
		c.valid[i] = true
	}
}

func (c *column) appendMissing() {
	switch c.typ {
	case typeInt:
		c.ints = append(c.ints, 0)
	case typeFloat:
		c.floats = append(c.floats, 0)
	case typeBool:
		c.bools = append(c.bools, false)
	case typeString:
		c.strings = append(c.strings, "")
	}
	if c.nullable {
		c.valid = append(c.valid, false)
	}
}

func (c *column) appendValid() {
	if c.nullable {
		c.valid = append(c.valid, true)
	}
}

// Frame is the minimal "DataFrame container" named-interface collaborator
// spec.md §1 treats as external: named, typed, ordered columns and
// nothing else — no joins, filters, or printing. A fuller DataFrame
// belongs to a different module; this one only has to let callers get at
// what the reader produced.
type Frame struct {
	names []string
	cols  []*column
}

// Names returns the column names in input order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// NCols returns the number of columns.
func (f *Frame) NCols() int { return len(f.cols) }

// NRows returns the number of rows (0 for a header-only input).
func (f *Frame) NRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].length()
}

// ColumnType returns the string name of the concrete type name was
// materialized as ("int64", "float64", "bool", "string", "date",
// "datetime"), optionally prefixed with "nullable ".
func (f *Frame) ColumnType(name string) string {
	c := f.column(name)
	if c == nil {
		return ""
	}
	if c.nullable {
		return "nullable " + c.typ.String()
	}
	return c.typ.String()
}

// Column returns the raw backing slice for name: []int64, []float64,
// []bool, []string, or []time.Time, or nil if name doesn't exist. For
// nullable columns, use Valid to find which entries are present; missing
// entries hold the zero value of their type.
func (f *Frame) Column(name string) any {
	c := f.column(name)
	if c == nil {
		return nil
	}
	switch c.typ {
	case typeInt:
		return c.ints
	case typeFloat:
		return c.floats
	case typeBool:
		return c.bools
	case typeString:
		return c.strings
	case typeDate:
		return c.dates
	case typeDateTime:
		return c.datetimes
	}
	return nil
}

// Valid reports, for a nullable column, which row indices hold a present
// (non-missing) value. It returns nil for a non-nullable column (every
// row is present).
func (f *Frame) Valid(name string) []bool {
	c := f.column(name)
	if c == nil || !c.nullable {
		return nil
	}
	out := make([]bool, len(c.valid))
	copy(out, c.valid)
	return out
}

func (f *Frame) column(name string) *column {
	for i, n := range f.names {
		if n == name {
			return f.cols[i]
		}
	}
	return nil
}
