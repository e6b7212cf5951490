package assessment

import "sort"

// OrderElement is one entry of a chronology/ordering step. Date is a date
// string whose leading signed integer gives the sort key ("-490 av. J.-C."
// sorts before "1515").
type OrderElement struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Date string `json:"date,omitempty"`
}

// OrderingPayload is the content of an ordering step. CorrectOrder, when
// present and well-formed, is the authored canonical order; otherwise it
// is computed by sorting elements on their date key.
type OrderingPayload struct {
	Elements     []OrderElement `json:"elements"`
	CorrectOrder []int          `json:"correct_order,omitempty"`
}

func (p *OrderingPayload) Format() Format { return FormatOrdering }

// CanonicalOrder returns the correct arrangement as a list of canonical
// element indices.
func (p *OrderingPayload) CanonicalOrder() []int {
	if isPermutationOf(p.CorrectOrder, len(p.Elements)) {
		out := make([]int, len(p.CorrectOrder))
		copy(out, p.CorrectOrder)
		return out
	}

	order := make([]int, len(p.Elements))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dateKey(p.Elements[order[a]].Date) < dateKey(p.Elements[order[b]].Date)
	})
	return order
}

// Evaluate compares the captured arrangement (a list of canonical indices
// under the OrderKey entry) position by position against the canonical
// order. Every element is gradable; a missing or short capture leaves the
// uncovered positions incorrect.
func (p *OrderingPayload) Evaluate(answers AnswerSet, _ *Presentation) Tally {
	t := Tally{Total: len(p.Elements)}
	got, ok := answerIntSlice(answers[OrderKey])
	if !ok {
		return t
	}

	want := p.CanonicalOrder()
	for pos := range want {
		if pos < len(got) && got[pos] == want[pos] {
			t.Correct++
		}
	}
	return t
}

// OrderElementView is an element as shown to the learner: the date is
// withheld since recovering the order is the exercise.
type OrderElementView struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// OrderingStepView lists the elements in their scrambled initial
// arrangement. Index is the element's canonical identity, which the client
// echoes back as the captured order.
type OrderingStepView struct {
	Elements []OrderElementView `json:"elements"`
}

func (p *OrderingPayload) View(pres *Presentation) any {
	view := OrderingStepView{Elements: make([]OrderElementView, 0, len(p.Elements))}
	for pos := range p.Elements {
		canonical := pos
		if pres != nil && len(pres.Initial) == len(p.Elements) {
			canonical = pres.Initial.Canonical(pos)
		}
		view.Elements = append(view.Elements, OrderElementView{
			Index: canonical,
			Text:  p.Elements[canonical].Text,
		})
	}
	return view
}

// dateKey extracts the leading signed integer of a date string.
func dateKey(date string) int {
	i := 0
	for i < len(date) && date[i] == ' ' {
		i++
	}
	start := i
	if i < len(date) && date[i] == '-' {
		i++
	}
	digits := i
	for i < len(date) && date[i] >= '0' && date[i] <= '9' {
		i++
	}
	if i == digits {
		return 0
	}

	key := 0
	for _, c := range date[digits:i] {
		key = key*10 + int(c-'0')
	}
	if date[start] == '-' {
		key = -key
	}
	return key
}

// isPermutationOf reports whether order is a permutation of {0..n-1}.
func isPermutationOf(order []int, n int) bool {
	if len(order) != n || n == 0 {
		return false
	}
	seen := make([]bool, n)
	for _, v := range order {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
