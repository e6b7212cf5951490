package assessment

// Proposition is one true/false statement.
type Proposition struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// TrueFalsePayload is the content of a true/false step.
type TrueFalsePayload struct {
	Propositions []Proposition `json:"propositions"`
}

func (p *TrueFalsePayload) Format() Format { return FormatTrueFalse }

// Evaluate awards one point per proposition whose captured boolean matches
// the key. Propositions are never shuffled, so the presentation is unused.
func (p *TrueFalsePayload) Evaluate(answers AnswerSet, _ *Presentation) Tally {
	t := Tally{Total: len(p.Propositions)}
	for _, prop := range p.Propositions {
		answered, ok := answerBool(answers[prop.ID])
		if ok && answered == prop.Correct {
			t.Correct++
		}
	}
	return t
}

// PropositionView is a proposition with its key stripped.
type PropositionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// TrueFalseStepView is the learner-facing rendition of a true/false step.
type TrueFalseStepView struct {
	Propositions []PropositionView `json:"propositions"`
}

func (p *TrueFalsePayload) View(_ *Presentation) any {
	views := make([]PropositionView, 0, len(p.Propositions))
	for _, prop := range p.Propositions {
		views = append(views, PropositionView{ID: prop.ID, Text: prop.Text})
	}
	return TrueFalseStepView{Propositions: views}
}
