package tablecsv

// classification is the per-column running state described in spec.md
// §3/§4.6: bits 0-3 are the intersection of non-missing token kinds seen
// so far, bit 4 is a sticky "saw a missing" flag.
type classification uint8

const classificationInitial classification = kindInt | kindFloat | kindQString | kindBool

// fold combines one token's kind bits into the running classification:
// the sticky missing bit is OR'd in, and the low four bits are AND'd —
// missing tokens carry all-ones low bits (kindAllCandidates), so folding
// one in never narrows the candidate set, which is exactly the "missing
// is compatible with any column type" rule.
func (c classification) fold(kind uint8) classification {
	sticky := (uint8(c) & kindMissing) | (kind & kindMissing)
	low := (uint8(c) & kind) & kindAllCandidates
	return classification(sticky | low)
}

func (c classification) sawMissing() bool { return uint8(c)&kindMissing != 0 }
func (c classification) candidates() uint8 { return uint8(c) & kindAllCandidates }

// aggregateChunk folds every token in the first nrows rows of tokens into
// one classification per column, starting from classificationInitial.
func aggregateChunk(tokens *tokenMatrix, nrows int) []classification {
	out := make([]classification, tokens.ncols)
	for c := 0; c < tokens.ncols; c++ {
		cl := classificationInitial
		col := tokens.cols[c]
		for r := 0; r < nrows; r++ {
			cl = cl.fold(col[r].kind())
		}
		out[c] = cl
	}
	return out
}

// decideType chooses a concrete column type from a classification,
// following the priority order of spec.md §4.6: Int -> Float -> Bool ->
// String. A column with every value missing still carries all candidate
// bits (missing tokens never narrow the intersection) and is given String;
// since admits always accepts String, later chunks cannot promote it back
// to numeric (spec.md §9).
func decideType(cl classification) columnType {
	cand := cl.candidates()
	switch {
	case cand == kindAllCandidates:
		return typeString
	case cand&kindInt != 0:
		return typeInt
	case cand&kindFloat != 0:
		return typeFloat
	case cand&kindBool != 0:
		return typeBool
	default:
		return typeString
	}
}

// admits reports whether cl's surviving candidates still contain typ —
// used to validate that a later chunk doesn't contradict the type chosen
// from the first chunk.
func admits(cl classification, typ columnType) bool {
	cand := cl.candidates()
	switch typ {
	case typeInt:
		return cand&kindInt != 0
	case typeFloat:
		return cand&kindFloat != 0
	case typeBool:
		return cand&kindBool != 0
	case typeString:
		return true // String is always compatible; it's the fallback
	default:
		return true // Date/DateTime are assigned post-pass, not by this check
	}
}
