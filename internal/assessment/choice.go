package assessment

// ChoiceQuestion is one single-answer question of a choice step.
type ChoiceQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// SingleChoicePayload is the content of a single-choice (QCM) step.
type SingleChoicePayload struct {
	Questions []ChoiceQuestion `json:"questions"`
}

func (p *SingleChoicePayload) Format() Format { return FormatSingleChoice }

// Evaluate awards one point per question whose selected option, translated
// back to its canonical index, equals the designated correct index.
func (p *SingleChoicePayload) Evaluate(answers AnswerSet, pres *Presentation) Tally {
	t := Tally{Total: len(p.Questions)}
	for _, q := range p.Questions {
		selected, ok := answerInt(answers[q.ID])
		if !ok {
			continue
		}
		if perm, ok := pres.optionPerm(q.ID); ok {
			selected = perm.Canonical(selected)
		}
		if selected == q.Correct {
			t.Correct++
		}
	}
	return t
}

// ChoiceQuestionView is a choice question as shown to the learner: options
// in display order, answer key stripped.
type ChoiceQuestionView struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// ChoiceStepView is the learner-facing rendition of either choice format.
type ChoiceStepView struct {
	Questions []ChoiceQuestionView `json:"questions"`
	// MaxSelections is 1 for single choice, 0 (unbounded) for multiple.
	MaxSelections int `json:"max_selections"`
}

func (p *SingleChoicePayload) View(pres *Presentation) any {
	views := make([]ChoiceQuestionView, 0, len(p.Questions))
	for _, q := range p.Questions {
		perm, _ := pres.optionPerm(q.ID)
		views = append(views, ChoiceQuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Options: arrangeOptions(q.Options, perm),
		})
	}
	return ChoiceStepView{Questions: views, MaxSelections: 1}
}

// MultiChoiceQuestion is one question whose answer is a set of options.
type MultiChoiceQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct []int    `json:"correct"`
}

// MultipleChoicePayload is the content of a multiple-choice step.
type MultipleChoicePayload struct {
	Questions []MultiChoiceQuestion `json:"questions"`
}

func (p *MultipleChoicePayload) Format() Format { return FormatMultipleChoice }

// Evaluate awards one point per question only when the selected set is
// exactly the correct set: same size, same members, no partial credit.
// An empty selection scores as incorrect, not excluded.
func (p *MultipleChoicePayload) Evaluate(answers AnswerSet, pres *Presentation) Tally {
	t := Tally{Total: len(p.Questions)}
	for _, q := range p.Questions {
		selected, ok := answerIntSlice(answers[q.ID])
		if !ok {
			continue
		}

		perm, hasPerm := pres.optionPerm(q.ID)
		got := make(map[int]struct{}, len(selected))
		for _, s := range selected {
			if hasPerm {
				s = perm.Canonical(s)
			}
			got[s] = struct{}{}
		}

		if len(got) != len(q.Correct) {
			continue
		}
		match := true
		for _, c := range q.Correct {
			if _, ok := got[c]; !ok {
				match = false
				break
			}
		}
		if match {
			t.Correct++
		}
	}
	return t
}

func (p *MultipleChoicePayload) View(pres *Presentation) any {
	views := make([]ChoiceQuestionView, 0, len(p.Questions))
	for _, q := range p.Questions {
		perm, _ := pres.optionPerm(q.ID)
		views = append(views, ChoiceQuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Options: arrangeOptions(q.Options, perm),
		})
	}
	return ChoiceStepView{Questions: views}
}

// arrangeOptions returns the option labels in display order. A nil
// permutation keeps canonical order.
func arrangeOptions(options []string, perm Permutation) []string {
	if len(perm) != len(options) {
		out := make([]string, len(options))
		copy(out, options)
		return out
	}
	out := make([]string, len(options))
	for pos := range out {
		out[pos] = options[perm.Canonical(pos)]
	}
	return out
}
