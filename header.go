package tablecsv

import "fmt"

// headerToken is the header scanner's simplified descriptor: there is no
// numeric classification for header names, only the raw span and whether
// it carried embedded quote escapes.
type headerToken struct {
	start, length int
	hasEscape     bool
}

type hState int

const (
	hBegin hState = iota
	hString
	hStringSpace
	hQuoteString
	hQuoteEnd
	hQuoteEndSpace
)

// scanHeader is the header variant of the tokenizer (spec.md §4.4): the
// same state graph as tokenizeRecord, restricted to STRING/QSTRING output
// with no numeric states. Multi-line quoted strings are a hard error here
// rather than a needMore request — there is no later chunk to retry into
// for a header line, so the driver cannot recover by growing the buffer.
func scanHeader(mem []byte, pos, lastnl int, params ParserParameters) (newPos int, tokens []headerToken, err error) {
	delim, quot, trim := params.Delim, params.Quote, params.Trim

	i := pos
	fieldStart := i
	state := hBegin
	hasEscape := false
	quoteContentEnd := -1
	trimEnd := -1

	emit := func(end int) {
		tokens = append(tokens, headerToken{start: fieldStart, length: end - fieldStart, hasEscape: hasEscape})
		hasEscape = false
		quoteContentEnd = -1
		trimEnd = -1
		state = hBegin
	}

	for i <= lastnl {
		b := mem[i]

		switch state {
		case hBegin:
			fieldStart = i
			switch {
			case trim && b == ' ':
				i++
				fieldStart = i
			case b == quot:
				state = hQuoteString
				fieldStart = i + 1
				i++
			case b == delim:
				emit(i)
				fieldStart = i + 1
				i++
			case b == byteLF || b == byteCR:
				emit(i)
				return terminateHeader(mem, i), tokens, nil
			default:
				state = hString
				if i, err = advanceStringByte(mem, i, lastnl); err != nil {
					return 0, nil, err
				}
			}

		case hString:
			switch {
			case b == delim:
				emit(i)
				fieldStart = i + 1
				i++
			case b == byteLF || b == byteCR:
				emit(i)
				return terminateHeader(mem, i), tokens, nil
			case trim && b == ' ':
				trimEnd = i
				state = hStringSpace
				i++
			default:
				if i, err = advanceStringByte(mem, i, lastnl); err != nil {
					return 0, nil, err
				}
			}

		case hStringSpace:
			switch {
			case b == ' ':
				i++
			case b == delim:
				emit(trimEnd)
				fieldStart = i + 1
				i++
			case b == byteLF || b == byteCR:
				emit(trimEnd)
				return terminateHeader(mem, i), tokens, nil
			default:
				state = hString
				if i, err = advanceStringByte(mem, i, lastnl); err != nil {
					return 0, nil, err
				}
			}

		case hQuoteString:
			switch {
			case b == quot:
				if i+1 <= lastnl && mem[i+1] == quot {
					hasEscape = true
					i += 2
				} else {
					quoteContentEnd = i
					state = hQuoteEnd
					i++
				}
			case b == byteLF || b == byteCR:
				return 0, nil, errMultilineHeader
			default:
				if i, err = advanceStringByte(mem, i, lastnl); err != nil {
					return 0, nil, err
				}
			}

		case hQuoteEnd:
			switch {
			case b == delim:
				emit(quoteContentEnd)
				fieldStart = i + 1
				i++
			case b == byteLF || b == byteCR:
				emit(quoteContentEnd)
				return terminateHeader(mem, i), tokens, nil
			case trim && b == ' ':
				state = hQuoteEndSpace
				i++
			case b == quot:
				hasEscape = true
				state = hQuoteString
				i++
			default:
				return 0, nil, &ParseError{Byte: b, Msg: "unexpected character after closing quote in header"}
			}

		case hQuoteEndSpace:
			switch {
			case b == ' ':
				i++
			case b == delim:
				emit(quoteContentEnd)
				fieldStart = i + 1
				i++
			case b == byteLF || b == byteCR:
				emit(quoteContentEnd)
				return terminateHeader(mem, i), tokens, nil
			default:
				return 0, nil, &ParseError{Byte: b, Msg: "unexpected character after closing quote in header"}
			}
		}
	}

	if state == hQuoteString || state == hQuoteEnd || state == hQuoteEndSpace {
		return 0, nil, errMultilineHeader
	}
	return 0, nil, fmt.Errorf("tablecsv: header record did not terminate within the buffered window")
}

func terminateHeader(mem []byte, i int) int {
	term := mem[i]
	newPos := i + 1
	if term == byteCR && newPos < len(mem) && mem[newPos] == byteLF {
		newPos++
	}
	return newPos
}

// renameEmptyHeaders replaces zero-length header names with UNNAMED_{i},
// matching spec.md §4.4's post-processing step. Re-running this on names
// that already look like UNNAMED_{i} is a no-op (header rename
// idempotence, spec.md §8).
func renameEmptyHeaders(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		if n == "" {
			out[i] = fmt.Sprintf("UNNAMED_%d", i)
		} else {
			out[i] = n
		}
	}
	return out
}
