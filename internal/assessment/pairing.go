package assessment

import "strconv"

// Pair is one left/right association. Left and right items share the same
// canonical index space: by default the key is the identity pairing, and
// the right column is only scrambled for display.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// PairingPayload is the content of a pairing step. Matches, when present
// and well-formed, overrides the identity key: Matches[i] is the canonical
// right index expected for left item i. Authored content rarely sets it;
// it exists so the key is not forever constrained to identity.
type PairingPayload struct {
	Pairs   []Pair `json:"pairs"`
	Matches []int  `json:"matches,omitempty"`
}

func (p *PairingPayload) Format() Format { return FormatPairing }

// correctRight returns the canonical right index expected for left item i.
func (p *PairingPayload) correctRight(i int) int {
	if len(p.Matches) == len(p.Pairs) {
		return p.Matches[i]
	}
	return i
}

// Evaluate awards one point per left item whose chosen right entry,
// translated from display position to canonical index, equals the key.
// Answers are keyed by the left item's canonical index.
func (p *PairingPayload) Evaluate(answers AnswerSet, pres *Presentation) Tally {
	t := Tally{Total: len(p.Pairs)}
	for i := range p.Pairs {
		chosen, ok := answerInt(answers[strconv.Itoa(i)])
		if !ok {
			continue
		}
		if pres != nil && len(pres.Right) == len(p.Pairs) {
			chosen = pres.Right.Canonical(chosen)
		}
		if chosen == p.correctRight(i) {
			t.Correct++
		}
	}
	return t
}

// PairingStepView is the learner-facing rendition: left column in
// canonical order, right column scrambled per the presentation.
type PairingStepView struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

func (p *PairingPayload) View(pres *Presentation) any {
	view := PairingStepView{
		Left:  make([]string, 0, len(p.Pairs)),
		Right: make([]string, 0, len(p.Pairs)),
	}
	for _, pair := range p.Pairs {
		view.Left = append(view.Left, pair.Left)
	}
	for pos := range p.Pairs {
		canonical := pos
		if pres != nil && len(pres.Right) == len(p.Pairs) {
			canonical = pres.Right.Canonical(pos)
		}
		view.Right = append(view.Right, p.Pairs[canonical].Right)
	}
	return view
}
