package assessment

import "math/rand"

// Permutation maps display positions to canonical indices: perm[i] is the
// canonical index of the item shown at position i.
type Permutation []int

// NewPermutation produces a uniformly random permutation of {0..n-1}
// (Fisher–Yates).
func NewPermutation(n int, rng *rand.Rand) Permutation {
	p := make(Permutation, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}

// Canonical translates a display position back to its canonical index.
// Out-of-range positions come back unchanged so a stale capture cannot
// panic the validator; it simply scores as a wrong answer.
func (p Permutation) Canonical(displayPos int) int {
	if displayPos < 0 || displayPos >= len(p) {
		return displayPos
	}
	return p[displayPos]
}

// Display translates a canonical index to its display position.
func (p Permutation) Display(canonical int) int {
	for pos, c := range p {
		if c == canonical {
			return pos
		}
	}
	return canonical
}

// Presentation is the per-step-instance record of randomized display
// order. It is generated once when the step is first shown and kept for
// the lifetime of the step instance, so re-renders never re-shuffle
// already-visible content. Validators always recover canonical indices
// through it, never from raw display position.
type Presentation struct {
	// Options holds the option display order per choice question id.
	Options map[string]Permutation

	// Right holds the scrambled right-hand column of a pairing step.
	Right Permutation

	// Initial holds the scrambled starting arrangement of an ordering
	// step (display position -> canonical element index).
	Initial Permutation
}

// NewPresentation rolls the display order for a step. Formats without
// randomized display get an empty presentation.
func NewPresentation(step Step, rng *rand.Rand) *Presentation {
	pres := &Presentation{}

	switch payload := step.Payload.(type) {
	case *SingleChoicePayload:
		pres.Options = make(map[string]Permutation, len(payload.Questions))
		for _, q := range payload.Questions {
			pres.Options[q.ID] = NewPermutation(len(q.Options), rng)
		}
	case *MultipleChoicePayload:
		pres.Options = make(map[string]Permutation, len(payload.Questions))
		for _, q := range payload.Questions {
			pres.Options[q.ID] = NewPermutation(len(q.Options), rng)
		}
	case *PairingPayload:
		pres.Right = NewPermutation(len(payload.Pairs), rng)
	case *OrderingPayload:
		pres.Initial = NewPermutation(len(payload.Elements), rng)
	}

	return pres
}

// optionPerm looks up the option permutation for a question, if any.
func (p *Presentation) optionPerm(questionID string) (Permutation, bool) {
	if p == nil || p.Options == nil {
		return nil, false
	}
	perm, ok := p.Options[questionID]
	return perm, ok
}
