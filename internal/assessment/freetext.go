package assessment

import "strings"

// FreeQuestion is one free-response question graded on keyword coverage.
type FreeQuestion struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
}

// FreeResponsePayload is the content of a free-response step. Unlike the
// binary formats, it grades each expected keyword independently: the tally
// counts keywords found, not questions answered.
type FreeResponsePayload struct {
	Questions []FreeQuestion `json:"questions"`
}

func (p *FreeResponsePayload) Format() Format { return FormatFreeResponse }

// Evaluate counts, per question, the expected keywords whose normalized
// form appears as a substring of the normalized answer. The total is the
// sum of keyword counts across questions.
func (p *FreeResponsePayload) Evaluate(answers AnswerSet, _ *Presentation) Tally {
	var t Tally
	for _, q := range p.Questions {
		t.Total += len(q.Keywords)

		text, ok := answerString(answers[q.ID])
		if !ok {
			continue
		}
		normalized := Normalize(text)
		if normalized == "" {
			continue
		}

		for _, keyword := range q.Keywords {
			needle := Normalize(keyword)
			if needle != "" && strings.Contains(normalized, needle) {
				t.Correct++
			}
		}
	}
	return t
}

// FreeQuestionView is a free-response question with its keywords withheld.
type FreeQuestionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// FreeResponseStepView is the learner-facing rendition of the step.
type FreeResponseStepView struct {
	Questions []FreeQuestionView `json:"questions"`
}

func (p *FreeResponsePayload) View(_ *Presentation) any {
	views := make([]FreeQuestionView, 0, len(p.Questions))
	for _, q := range p.Questions {
		views = append(views, FreeQuestionView{ID: q.ID, Text: q.Text})
	}
	return FreeResponseStepView{Questions: views}
}
