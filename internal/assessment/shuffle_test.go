package assessment

import (
	"math/rand"
	"testing"
)

func TestNewPermutationIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n <= 20; n++ {
		p := NewPermutation(n, rng)
		if len(p) != n {
			t.Fatalf("n=%d: got length %d", n, len(p))
		}
		if n > 0 && !isPermutationOf(p, n) {
			t.Fatalf("n=%d: %v is not a permutation", n, p)
		}
	}
}

func TestPermutationRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := NewPermutation(8, rng)
	for pos := 0; pos < 8; pos++ {
		canonical := p.Canonical(pos)
		if back := p.Display(canonical); back != pos {
			t.Errorf("pos %d -> canonical %d -> display %d", pos, canonical, back)
		}
	}
}

func TestPermutationOutOfRange(t *testing.T) {
	p := Permutation{2, 0, 1}
	if got := p.Canonical(-1); got != -1 {
		t.Errorf("Canonical(-1) = %d, want -1", got)
	}
	if got := p.Canonical(5); got != 5 {
		t.Errorf("Canonical(5) = %d, want 5", got)
	}
}

func TestNewPresentationPerFormat(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	choice := Step{Format: FormatSingleChoice, Payload: &SingleChoicePayload{
		Questions: []ChoiceQuestion{
			{ID: "q1", Options: []string{"a", "b", "c"}},
			{ID: "q2", Options: []string{"a", "b", "c", "d"}},
		},
	}}
	pres := NewPresentation(choice, rng)
	if len(pres.Options) != 2 {
		t.Fatalf("expected 2 option permutations, got %d", len(pres.Options))
	}
	if len(pres.Options["q1"]) != 3 || len(pres.Options["q2"]) != 4 {
		t.Errorf("option permutation sizes wrong: %v", pres.Options)
	}

	pairing := Step{Format: FormatPairing, Payload: &PairingPayload{
		Pairs: []Pair{{Left: "a"}, {Left: "b"}, {Left: "c"}},
	}}
	pres = NewPresentation(pairing, rng)
	if !isPermutationOf(pres.Right, 3) {
		t.Errorf("pairing right column not a permutation: %v", pres.Right)
	}

	ordering := Step{Format: FormatOrdering, Payload: &OrderingPayload{
		Elements: []OrderElement{{Text: "a"}, {Text: "b"}},
	}}
	pres = NewPresentation(ordering, rng)
	if !isPermutationOf(pres.Initial, 2) {
		t.Errorf("ordering initial order not a permutation: %v", pres.Initial)
	}

	tf := Step{Format: FormatTrueFalse, Payload: &TrueFalsePayload{}}
	pres = NewPresentation(tf, rng)
	if pres.Options != nil || pres.Right != nil || pres.Initial != nil {
		t.Errorf("true/false should have an empty presentation")
	}
}
