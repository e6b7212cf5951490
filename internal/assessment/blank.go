package assessment

// Blank is one fill-in-the-blank item. Prompt is the sentence with the
// gap marker; Expected is the authored answer.
type Blank struct {
	ID       string `json:"id"`
	Prompt   string `json:"prompt"`
	Expected string `json:"expected"`
}

// FillBlankPayload is the content of a fill-in-the-blank step.
type FillBlankPayload struct {
	Blanks []Blank `json:"blanks"`
}

func (p *FillBlankPayload) Format() Format { return FormatFillBlank }

// Evaluate awards one point per blank whose normalized learner text equals
// the normalized expected text. Empty input never matches.
func (p *FillBlankPayload) Evaluate(answers AnswerSet, _ *Presentation) Tally {
	t := Tally{Total: len(p.Blanks)}
	for _, blank := range p.Blanks {
		text, ok := answerString(answers[blank.ID])
		if !ok {
			continue
		}
		got := Normalize(text)
		if got != "" && got == Normalize(blank.Expected) {
			t.Correct++
		}
	}
	return t
}

// BlankView is a blank with the expected answer stripped.
type BlankView struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

// FillBlankStepView is the learner-facing rendition of the step.
type FillBlankStepView struct {
	Blanks []BlankView `json:"blanks"`
}

func (p *FillBlankPayload) View(_ *Presentation) any {
	views := make([]BlankView, 0, len(p.Blanks))
	for _, blank := range p.Blanks {
		views = append(views, BlankView{ID: blank.ID, Prompt: blank.Prompt})
	}
	return FillBlankStepView{Blanks: views}
}
