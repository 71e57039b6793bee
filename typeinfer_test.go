package tablecsv

import "testing"

func TestClassificationFoldMissingNeverNarrows(t *testing.T) {
	cl := classificationInitial
	cl = cl.fold(kindInt) // intersect down to int-only
	if cl.candidates() != kindInt {
		t.Fatalf("candidates = %#x, want kindInt", cl.candidates())
	}
	missing := uint8(kindMissing | kindAllCandidates)
	cl = cl.fold(missing)
	if cl.candidates() != kindInt {
		t.Errorf("folding a missing token narrowed candidates to %#x", cl.candidates())
	}
	if !cl.sawMissing() {
		t.Error("expected sticky missing bit to be set")
	}
}

func TestClassificationFoldIntersects(t *testing.T) {
	cl := classificationInitial
	cl = cl.fold(kindInt | kindFloat)
	cl = cl.fold(kindFloat | kindBool)
	if cl.candidates() != kindFloat {
		t.Errorf("candidates = %#x, want kindFloat only", cl.candidates())
	}
}

func TestDecideTypePriority(t *testing.T) {
	cases := []struct {
		name string
		cand uint8
		want columnType
	}{
		{"int wins over float", kindInt | kindFloat, typeInt},
		{"float wins over bool", kindFloat | kindBool, typeFloat},
		{"bool alone", kindBool, typeBool},
		{"no candidates falls back to string", 0, typeString},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cl := classification(tc.cand)
			if got := decideType(cl); got != tc.want {
				t.Errorf("decideType(%#x) = %v, want %v", tc.cand, got, tc.want)
			}
		})
	}
}

func TestAdmits(t *testing.T) {
	cl := classification(kindFloat)
	if admits(cl, typeInt) {
		t.Error("a float-only classification should not admit int")
	}
	if !admits(cl, typeFloat) {
		t.Error("a float-only classification should admit float")
	}
	if !admits(cl, typeString) {
		t.Error("string is always admitted, as the universal fallback")
	}
}

func TestAggregateChunk(t *testing.T) {
	tokens := newTokenMatrix(2, 2)
	tokens.set(0, 0, newToken(kindInt, 0, 1))
	tokens.set(0, 1, newToken(kindInt, 0, 1))
	tokens.set(1, 0, newToken(kindMissing|kindAllCandidates, 0, 0))
	tokens.set(1, 1, newToken(kindBool, 0, 1))

	cls := aggregateChunk(tokens, 2)
	if cls[0].candidates() != kindInt {
		t.Errorf("column 0 candidates = %#x, want kindInt", cls[0].candidates())
	}
	if cls[1].candidates() != kindBool {
		t.Errorf("column 1 candidates = %#x, want kindBool", cls[1].candidates())
	}
	if !cls[1].sawMissing() {
		t.Error("column 1 should have its sticky missing bit set")
	}
	if cls[0].sawMissing() {
		t.Error("column 0 should not have its sticky missing bit set")
	}
}
