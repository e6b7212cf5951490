package assessment

import "encoding/json"

// AnswerSet holds a step's captured answers, keyed by sub-question or
// element id. Values are stored raw: capture never validates, and each
// format decodes defensively at verification time.
type AnswerSet map[string]json.RawMessage

// OrderKey is the AnswerSet key under which an ordering step's current
// arrangement is captured (a single list, not per-element entries).
const OrderKey = "order"

// Clone returns a shallow copy so verified snapshots cannot be mutated
// through the live map.
func (a AnswerSet) Clone() AnswerSet {
	if a == nil {
		return nil
	}
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// answerInt decodes a raw captured value as a single index.
func answerInt(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

// answerIntSlice decodes a raw captured value as a list of indices.
func answerIntSlice(raw json.RawMessage) ([]int, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var v []int
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

// answerBool decodes a raw captured value as a boolean.
func answerBool(raw json.RawMessage) (bool, bool) {
	if len(raw) == 0 {
		return false, false
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, false
	}
	return v, true
}

// answerString decodes a raw captured value as a string.
func answerString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}
