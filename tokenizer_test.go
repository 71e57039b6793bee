package tablecsv

import "testing"

// tokenizeOneRecord is a small test harness that scans a single record and
// returns the tokens actually produced, decoded into their raw string form.
func tokenizeOneRecord(t *testing.T, line string, params ParserParameters) ([]Token, []byte) {
	t.Helper()
	mem := []byte(line)
	lastnl := lastTerminatorIndex(mem)
	if lastnl < 0 {
		t.Fatalf("no terminator in %q", line)
	}
	tokens := newTokenMatrix(16, 1)
	rt := &recordTokenizer{params: params}
	_, ncols, needMore, err := rt.tokenizeRecord(mem, 0, lastnl, 0, tokens, 1)
	if needMore {
		t.Fatalf("tokenizeRecord(%q) unexpectedly requested more data", line)
	}
	if err != nil {
		t.Fatalf("tokenizeRecord(%q): %v", line, err)
	}
	out := make([]Token, ncols)
	for c := 0; c < ncols; c++ {
		out[c] = tokens.at(c, 0)
	}
	return out, mem
}

func defaultTZParams() ParserParameters {
	return ParserParameters{Delim: ',', Quote: '"', Trim: true}
}

func TestTokenizeFieldKinds(t *testing.T) {
	cases := []struct {
		name     string
		field    string
		wantBits uint8
	}{
		{"integer", "42", kindInt | kindFloat},
		{"signed integer", "-42", kindInt | kindFloat},
		{"float", "3.14", kindFloat},
		{"exponent float", "1e10", kindFloat},
		{"nan", "NaN", kindFloat},
		{"inf", "Inf", kindFloat},
		{"infinity", "Infinity", kindFloat},
		{"bool true", "true", kindBool},
		{"bool false", "False", kindBool},
		{"plain string", "hello", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			line := tc.field + ",x\n"
			toks, _ := tokenizeOneRecord(t, line, defaultTZParams())
			got := toks[0].kind() &^ kindMissing
			if got != tc.wantBits {
				t.Errorf("field %q kind bits = %#x, want %#x", tc.field, got, tc.wantBits)
			}
		})
	}
}

func TestTokenizeMissingField(t *testing.T) {
	toks, _ := tokenizeOneRecord(t, ",b\n", defaultTZParams())
	if !toks[0].isMissing() {
		t.Error("expected an empty leading field to be missing")
	}
	start, length := toks[0].location()
	_ = start
	if length != 0 {
		t.Errorf("missing field length = %d, want 0", length)
	}
}

func TestTokenizeQuotedEmptyFieldIsMissing(t *testing.T) {
	toks, _ := tokenizeOneRecord(t, `"",5`+"\n", defaultTZParams())
	if !toks[0].isMissing() {
		t.Error("expected a quoted-empty field to be missing")
	}
	_, length := toks[0].location()
	if length != 0 {
		t.Errorf("quoted-empty field length = %d, want 0", length)
	}
}

func TestTokenizeQuotedEscapedQuoteIsNotMissing(t *testing.T) {
	// `""""` is a single escaped quote character, not a quoted-empty
	// field: the leading pair must not be mistaken for an immediate close.
	toks, mem := tokenizeOneRecord(t, `"""",5`+"\n", defaultTZParams())
	if toks[0].isMissing() {
		t.Error("expected an escaped-quote field not to be missing")
	}
	raw := toks[0].bytes(mem)
	if got := qstring(raw, '"'); got != `"` {
		t.Errorf("qstring(%q) = %q, want %q", raw, got, `"`)
	}
}

func TestTokenizeQuotedFieldWithEscape(t *testing.T) {
	line := `"he said ""hi""",b` + "\n"
	toks, mem := tokenizeOneRecord(t, line, defaultTZParams())
	if toks[0].kind()&kindQString == 0 {
		t.Error("expected QSTRING bit set for a field with doubled quotes")
	}
	raw := toks[0].bytes(mem)
	if got := qstring(raw, '"'); got != `he said "hi"` {
		t.Errorf("qstring(%q) = %q", raw, got)
	}
}

func TestTokenizeTrimmedWhitespace(t *testing.T) {
	line := "  42  ,b\n"
	toks, mem := tokenizeOneRecord(t, line, defaultTZParams())
	raw := toks[0].bytes(mem)
	if string(raw) != "42" {
		t.Errorf("trimmed field = %q, want %q", raw, "42")
	}
}

func TestTokenizeMultiByteUTF8String(t *testing.T) {
	line := "héllo,b\n"
	toks, mem := tokenizeOneRecord(t, line, defaultTZParams())
	raw := toks[0].bytes(mem)
	if string(raw) != "héllo" {
		t.Errorf("utf8 field = %q, want %q", raw, "héllo")
	}
}

func TestTokenizeMalformedUTF8IsError(t *testing.T) {
	line := string([]byte{0xC0, ',', 'b', '\n'})
	mem := []byte(line)
	lastnl := lastTerminatorIndex(mem)
	tokens := newTokenMatrix(4, 1)
	rt := &recordTokenizer{params: defaultTZParams()}
	_, _, _, err := rt.tokenizeRecord(mem, 0, lastnl, 0, tokens, 1)
	if err == nil {
		t.Error("expected a parse error for an invalid UTF-8 lead byte")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("got error of type %T, want *ParseError", err)
	}
}

func TestTokenizeUnexpectedCharacterAfterQuote(t *testing.T) {
	line := `"abc"def,b` + "\n"
	mem := []byte(line)
	lastnl := lastTerminatorIndex(mem)
	tokens := newTokenMatrix(4, 1)
	rt := &recordTokenizer{params: defaultTZParams()}
	_, _, _, err := rt.tokenizeRecord(mem, 0, lastnl, 0, tokens, 1)
	if err == nil {
		t.Error("expected a parse error for text immediately after a closing quote")
	}
}

func TestTokenizeTooManyColumnsIsStructuralError(t *testing.T) {
	line := "1,2,3\n"
	mem := []byte(line)
	lastnl := lastTerminatorIndex(mem)
	tokens := newTokenMatrix(2, 1) // only 2 columns allowed
	rt := &recordTokenizer{params: defaultTZParams()}
	_, _, _, err := rt.tokenizeRecord(mem, 0, lastnl, 0, tokens, 1)
	if _, ok := err.(*StructuralError); !ok {
		t.Errorf("got error of type %T, want *StructuralError", err)
	}
}

func TestTokenizeQuotedFieldSpanningBufferAsksForMore(t *testing.T) {
	// The closing quote lives past lastnl: the tokenizer must signal
	// needMore rather than erroring, so the driver can grow and retry.
	line := `"unterminated` + "\n"
	mem := []byte(line)
	lastnl := lastTerminatorIndex(mem)
	tokens := newTokenMatrix(4, 1)
	rt := &recordTokenizer{params: defaultTZParams()}
	_, _, needMore, err := rt.tokenizeRecord(mem, 0, lastnl, 0, tokens, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !needMore {
		t.Error("expected needMore=true for a quoted field that runs past lastnl")
	}
}

func TestTokenizeCRLFTerminator(t *testing.T) {
	line := "1,2\r\n"
	mem := []byte(line)
	lastnl := lastTerminatorIndex(mem)
	tokens := newTokenMatrix(4, 1)
	rt := &recordTokenizer{params: defaultTZParams()}
	newPos, ncols, _, err := rt.tokenizeRecord(mem, 0, lastnl, 0, tokens, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ncols != 2 {
		t.Errorf("ncols = %d, want 2", ncols)
	}
	if newPos != len(mem) {
		t.Errorf("newPos = %d, want %d (CRLF fully consumed)", newPos, len(mem))
	}
}

func TestTokenizeNewlineInsideQuotesIsFieldContent(t *testing.T) {
	line := "\"line1\nline2\",b\n"
	mem := []byte(line)
	lastnl := lastTerminatorIndex(mem)
	tokens := newTokenMatrix(4, 2)
	rt := &recordTokenizer{params: defaultTZParams()}
	_, ncols, needMore, err := rt.tokenizeRecord(mem, 0, lastnl, 0, tokens, 1)
	if needMore {
		// The embedded newline is not the record's lastnl, so this should
		// resolve without needing more data; if our test line's lastnl
		// happens to land on the embedded newline instead, this would
		// legitimately ask for more — guard explicitly instead of silently
		// passing.
		t.Fatalf("did not expect needMore for a correctly terminated record")
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ncols != 2 {
		t.Errorf("ncols = %d, want 2", ncols)
	}
	raw := tokens.at(0, 0).bytes(mem)
	if string(raw) != "line1\nline2" {
		t.Errorf("quoted field = %q, want %q", raw, "line1\nline2")
	}
}
