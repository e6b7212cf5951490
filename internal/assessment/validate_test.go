package assessment

import (
	"encoding/json"
	"testing"
)

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %v: %v", v, err)
	}
	return b
}

func assertTally(t *testing.T, got Tally, correct, total int) {
	t.Helper()
	if got.Correct != correct || got.Total != total {
		t.Fatalf("tally = %d/%d, want %d/%d", got.Correct, got.Total, correct, total)
	}
}

func TestSingleChoiceEvaluate(t *testing.T) {
	payload := &SingleChoicePayload{Questions: []ChoiceQuestion{
		{ID: "q1", Options: []string{"a", "b", "c"}, Correct: 1},
		{ID: "q2", Options: []string{"a", "b", "c"}, Correct: 1},
		{ID: "q3", Options: []string{"a", "b", "c"}, Correct: 2},
	}}

	tests := []struct {
		name    string
		answers AnswerSet
		pres    *Presentation
		correct int
	}{
		{
			name: "two of three",
			answers: AnswerSet{
				"q1": raw(t, 1), "q2": raw(t, 0), "q3": raw(t, 2),
			},
			correct: 2,
		},
		{
			name:    "unanswered counts against total",
			answers: AnswerSet{"q1": raw(t, 1)},
			correct: 1,
		},
		{
			name:    "malformed answer is incorrect",
			answers: AnswerSet{"q1": json.RawMessage(`"b"`), "q2": raw(t, 1), "q3": raw(t, 2)},
			correct: 2,
		},
		{
			name: "display position translated to canonical",
			answers: AnswerSet{
				// Option shown at position 0 is canonical index 1.
				"q1": raw(t, 0),
			},
			pres: &Presentation{Options: map[string]Permutation{
				"q1": {1, 2, 0},
			}},
			correct: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertTally(t, payload.Evaluate(tc.answers, tc.pres), tc.correct, 3)
		})
	}
}

func TestSingleChoicePartialScore(t *testing.T) {
	// 3 questions, correct [1,1,2], answers [1,0,2] -> 2/3, score 67.
	payload := &SingleChoicePayload{Questions: []ChoiceQuestion{
		{ID: "a", Options: []string{"x", "y", "z"}, Correct: 1},
		{ID: "b", Options: []string{"x", "y", "z"}, Correct: 1},
		{ID: "c", Options: []string{"x", "y", "z"}, Correct: 2},
	}}
	answers := AnswerSet{"a": raw(t, 1), "b": raw(t, 0), "c": raw(t, 2)}

	result := EvaluateStep(Step{Format: FormatSingleChoice, Payload: payload}, answers, nil)
	if result.Correct != 2 || result.Total != 3 || result.Score != 67 {
		t.Fatalf("got %+v, want 2/3 score 67", result)
	}
}

func TestMultipleChoiceEvaluate(t *testing.T) {
	payload := &MultipleChoicePayload{Questions: []MultiChoiceQuestion{
		{ID: "q1", Options: []string{"a", "b", "c", "d"}, Correct: []int{0, 2}},
	}}

	tests := []struct {
		name    string
		answers AnswerSet
		pres    *Presentation
		correct int
	}{
		{name: "exact set", answers: AnswerSet{"q1": raw(t, []int{2, 0})}, correct: 1},
		{name: "missing member", answers: AnswerSet{"q1": raw(t, []int{0})}, correct: 0},
		{name: "extra member", answers: AnswerSet{"q1": raw(t, []int{0, 2, 3})}, correct: 0},
		{name: "empty selection is wrong not excluded", answers: AnswerSet{"q1": raw(t, []int{})}, correct: 0},
		{name: "unanswered is wrong not excluded", answers: AnswerSet{}, correct: 0},
		{
			name:    "duplicate displayed selections collapse",
			answers: AnswerSet{"q1": raw(t, []int{0, 0, 2})},
			correct: 1,
		},
		{
			name:    "display positions translated",
			answers: AnswerSet{"q1": raw(t, []int{1, 3})},
			pres: &Presentation{Options: map[string]Permutation{
				"q1": {3, 0, 1, 2},
			}},
			correct: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertTally(t, payload.Evaluate(tc.answers, tc.pres), tc.correct, 1)
		})
	}
}

func TestTrueFalseEvaluate(t *testing.T) {
	payload := &TrueFalsePayload{Propositions: []Proposition{
		{ID: "p1", Correct: true},
		{ID: "p2", Correct: false},
		{ID: "p3", Correct: true},
	}}

	answers := AnswerSet{
		"p1": raw(t, true),
		"p2": raw(t, true), // wrong
		// p3 unanswered
	}
	assertTally(t, payload.Evaluate(answers, nil), 1, 3)
}

func TestFillBlankEvaluate(t *testing.T) {
	payload := &FillBlankPayload{Blanks: []Blank{
		{ID: "b1", Expected: "Méditerranée"},
		{ID: "b2", Expected: "Constantinople"},
	}}

	tests := []struct {
		name    string
		answers AnswerSet
		correct int
	}{
		{
			name: "normalized match ignores accents and case",
			answers: AnswerSet{
				"b1": raw(t, "  mediterranee "),
				"b2": raw(t, "CONSTANTINOPLE!"),
			},
			correct: 2,
		},
		{
			name:    "wrong text",
			answers: AnswerSet{"b1": raw(t, "atlantique"), "b2": raw(t, "rome")},
			correct: 0,
		},
		{
			name:    "empty input never matches",
			answers: AnswerSet{"b1": raw(t, ""), "b2": raw(t, "constantinople")},
			correct: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertTally(t, payload.Evaluate(tc.answers, nil), tc.correct, 2)
		})
	}
}

func TestPairingEvaluate(t *testing.T) {
	payload := &PairingPayload{Pairs: []Pair{
		{Left: "1492", Right: "Colomb"},
		{Left: "1515", Right: "Marignan"},
		{Left: "1789", Right: "Révolution"},
	}}

	t.Run("identity pairing without presentation", func(t *testing.T) {
		answers := AnswerSet{"0": raw(t, 0), "1": raw(t, 1), "2": raw(t, 2)}
		assertTally(t, payload.Evaluate(answers, nil), 3, 3)
	})

	t.Run("display positions translated through right column", func(t *testing.T) {
		// Right column shown as [Marignan, Révolution, Colomb].
		pres := &Presentation{Right: Permutation{1, 2, 0}}
		answers := AnswerSet{
			"0": raw(t, 2), // position 2 -> canonical 0: correct
			"1": raw(t, 0), // position 0 -> canonical 1: correct
			"2": raw(t, 0), // position 0 -> canonical 1: wrong
		}
		assertTally(t, payload.Evaluate(answers, pres), 2, 3)
	})

	t.Run("partial capture", func(t *testing.T) {
		answers := AnswerSet{"1": raw(t, 1)}
		assertTally(t, payload.Evaluate(answers, nil), 1, 3)
	})

	t.Run("explicit matches override identity", func(t *testing.T) {
		crossed := &PairingPayload{
			Pairs:   payload.Pairs,
			Matches: []int{2, 0, 1},
		}
		answers := AnswerSet{"0": raw(t, 2), "1": raw(t, 0), "2": raw(t, 2)}
		assertTally(t, crossed.Evaluate(answers, nil), 2, 3)
	})
}

func TestOrderingEvaluate(t *testing.T) {
	payload := &OrderingPayload{Elements: []OrderElement{
		{Text: "Vasco de Gama", Date: "1498"},
		{Text: "Dias", Date: "1488"},
		{Text: "Cortés", Date: "1519"},
	}}

	t.Run("canonical order sorts by date", func(t *testing.T) {
		want := []int{1, 0, 2}
		got := payload.CanonicalOrder()
		if len(got) != len(want) {
			t.Fatalf("order length %d", len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("canonical order = %v, want %v", got, want)
			}
		}
	})

	t.Run("perfect arrangement", func(t *testing.T) {
		answers := AnswerSet{OrderKey: raw(t, []int{1, 0, 2})}
		assertTally(t, payload.Evaluate(answers, nil), 3, 3)
	})

	t.Run("positionwise credit", func(t *testing.T) {
		// Only the last position matches the canonical order.
		answers := AnswerSet{OrderKey: raw(t, []int{0, 1, 2})}
		assertTally(t, payload.Evaluate(answers, nil), 1, 3)
	})

	t.Run("missing capture scores zero of total", func(t *testing.T) {
		assertTally(t, payload.Evaluate(AnswerSet{}, nil), 0, 3)
	})

	t.Run("negative years sort before positive", func(t *testing.T) {
		ancient := &OrderingPayload{Elements: []OrderElement{
			{Text: "Marignan", Date: "1515"},
			{Text: "Marathon", Date: "-490 av. J.-C."},
		}}
		answers := AnswerSet{OrderKey: raw(t, []int{1, 0})}
		assertTally(t, ancient.Evaluate(answers, nil), 2, 2)
	})

	t.Run("explicit correct order wins over dates", func(t *testing.T) {
		explicit := &OrderingPayload{
			Elements:     payload.Elements,
			CorrectOrder: []int{2, 1, 0},
		}
		answers := AnswerSet{OrderKey: raw(t, []int{2, 1, 0})}
		assertTally(t, explicit.Evaluate(answers, nil), 3, 3)
	})
}

func TestFreeResponseEvaluate(t *testing.T) {
	payload := &FreeResponsePayload{Questions: []FreeQuestion{
		{ID: "q1", Keywords: []string{"or", "epices", "Ottomans"}},
	}}

	tests := []struct {
		name    string
		answers AnswerSet
		correct int
	}{
		{
			name:    "keyword coverage",
			answers: AnswerSet{"q1": raw(t, "Les Ottomans controlaient les routes de l'or")},
			correct: 2,
		},
		{
			name:    "all keywords",
			answers: AnswerSet{"q1": raw(t, "L'or, les épices, et les Ottomans.")},
			correct: 3,
		},
		{name: "unanswered", answers: AnswerSet{}, correct: 0},
		{name: "blank text matches nothing", answers: AnswerSet{"q1": raw(t, "   ")}, correct: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertTally(t, payload.Evaluate(tc.answers, nil), tc.correct, 3)
		})
	}
}

func TestHotspotEvaluate(t *testing.T) {
	payload := &HotspotPayload{
		Image: "europe-1500.png",
		Zones: []Zone{
			{ID: "z-lisbonne", Shape: "polygon", Points: []int{10, 10, 20, 10, 20, 20}},
			{ID: "z-venise", Shape: "polygon", Points: []int{50, 50, 60, 50, 60, 60}},
		},
		Targets: []HotspotTarget{
			{ID: "t1", Prompt: "Cliquez sur Lisbonne", Zone: "z-lisbonne"},
			{ID: "t2", Prompt: "Cliquez sur Venise", Zone: "z-venise"},
		},
	}

	answers := AnswerSet{
		"t1": raw(t, "z-lisbonne"),
		"t2": raw(t, "z-lisbonne"), // wrong zone
	}
	assertTally(t, payload.Evaluate(answers, nil), 1, 2)
}

func TestEvaluateStepUnsupportedFormat(t *testing.T) {
	step := Step{Format: Format("CROSSWORD")}
	result := EvaluateStep(step, AnswerSet{}, nil)
	if !result.Unsupported || !result.Verified {
		t.Fatalf("got %+v, want unsupported verified placeholder", result)
	}
	if result.Correct != 0 || result.Total != 0 {
		t.Fatalf("unsupported step must not contribute to the tally: %+v", result)
	}
}

func TestDecodeStep(t *testing.T) {
	rec := StepRecord{
		Format: FormatTrueFalse,
		Title:  "Vrai ou faux",
		Payload: json.RawMessage(
			`{"propositions":[{"id":"p1","text":"1492","correct":true}]}`),
	}
	step, err := DecodeStep(rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	payload, ok := step.Payload.(*TrueFalsePayload)
	if !ok {
		t.Fatalf("payload type %T", step.Payload)
	}
	if len(payload.Propositions) != 1 || !payload.Propositions[0].Correct {
		t.Fatalf("payload = %+v", payload)
	}

	unknown, err := DecodeStep(StepRecord{Format: "CROSSWORD", Payload: json.RawMessage(`{}`)})
	if err != nil {
		t.Fatalf("unknown format must not error: %v", err)
	}
	if unknown.Payload != nil {
		t.Fatal("unknown format must keep a nil payload")
	}

	if _, err := DecodeStep(StepRecord{Format: FormatTrueFalse, Payload: json.RawMessage(`{`)}); err == nil {
		t.Fatal("malformed payload must error")
	}
}
