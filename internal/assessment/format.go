package assessment

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Format enumerates the supported step formats.
type Format string

const (
	FormatSingleChoice   Format = "SINGLE_CHOICE"
	FormatMultipleChoice Format = "MULTIPLE_CHOICE"
	FormatTrueFalse      Format = "TRUE_FALSE"
	FormatFillBlank      Format = "FILL_BLANK"
	FormatPairing        Format = "PAIRING"
	FormatOrdering       Format = "ORDERING"
	FormatFreeResponse   Format = "FREE_RESPONSE"
	FormatHotspot        Format = "HOTSPOT"
)

// Step is one screen of an assessment, bound to exactly one format.
// Steps are immutable once decoded from the content provider.
type Step struct {
	ID          uuid.UUID
	Format      Format
	Title       string
	Description string

	// Payload is nil when the format tag has no decoder. An unsupported
	// step renders as a placeholder and scores as an empty tally; it never
	// aborts the rest of the session.
	Payload Payload
}

// Payload is the format-specific content of a step, answer key included.
// Each concrete payload type carries its own validation rule.
type Payload interface {
	Format() Format

	// Evaluate computes the {correct, total} tally for the captured
	// answers. Unanswered or malformed entries count as incorrect and are
	// never excluded from the total, so partial completion always yields a
	// computable score.
	Evaluate(answers AnswerSet, pres *Presentation) Tally

	// View returns the learner-facing rendition of the payload: answer key
	// stripped, elements arranged in the step's presentation order.
	View(pres *Presentation) any
}

// StepRecord is the wire shape of a step as delivered by the content
// provider (one JSONB row per step).
type StepRecord struct {
	ID          uuid.UUID       `json:"id"`
	Format      Format          `json:"format"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Payload     json.RawMessage `json:"payload"`
}

// DecodeStep turns a raw content record into a typed Step. An unknown
// format tag is not an error here: the step is kept with a nil payload so
// the session can still render its siblings.
func DecodeStep(rec StepRecord) (Step, error) {
	step := Step{
		ID:          rec.ID,
		Format:      rec.Format,
		Title:       rec.Title,
		Description: rec.Description,
	}

	var payload Payload
	switch rec.Format {
	case FormatSingleChoice:
		payload = &SingleChoicePayload{}
	case FormatMultipleChoice:
		payload = &MultipleChoicePayload{}
	case FormatTrueFalse:
		payload = &TrueFalsePayload{}
	case FormatFillBlank:
		payload = &FillBlankPayload{}
	case FormatPairing:
		payload = &PairingPayload{}
	case FormatOrdering:
		payload = &OrderingPayload{}
	case FormatFreeResponse:
		payload = &FreeResponsePayload{}
	case FormatHotspot:
		payload = &HotspotPayload{}
	default:
		return step, nil
	}

	if err := json.Unmarshal(rec.Payload, payload); err != nil {
		return Step{}, fmt.Errorf("decode %s payload: %w", rec.Format, err)
	}
	step.Payload = payload
	return step, nil
}

// DecodeSteps decodes an ordered list of content records.
func DecodeSteps(recs []StepRecord) ([]Step, error) {
	steps := make([]Step, 0, len(recs))
	for i, rec := range recs {
		step, err := DecodeStep(rec)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}
