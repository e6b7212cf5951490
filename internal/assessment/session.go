package assessment

import (
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Options configures a session at start.
type Options struct {
	Grading Grading

	// DurationSeconds arms the countdown when positive; zero means the
	// session is untimed.
	DurationSeconds int

	// GateNavigation requires the current step to be verified before
	// advancing. The two products built on this engine disagree on this
	// policy, so it is the caller's choice; the default imposes no gate.
	GateNavigation bool

	// Rand drives presentation shuffling. Nil gets a time-seeded source;
	// tests pass a seeded one for determinism.
	Rand *rand.Rand

	// OnTick is forwarded to the countdown for display updates.
	OnTick func(remaining int, phase Phase)

	// OnExpire is invoked once with the final result when the countdown
	// forces finalization. It is not called for caller-initiated
	// finalization.
	OnExpire func(SessionResult)

	// ClockInterval overrides the countdown tick period; zero keeps the
	// one-second default. Only tests set it.
	ClockInterval time.Duration
}

// Session is one assessment attempt: the step sequence, the per-step
// answer and result state, the presentation order, and the clock. A
// session is a plain value owned by its caller; the engine keeps no
// global state, so any number of sessions can run side by side.
//
// All mutation runs to completion under the session mutex; the timer
// goroutine is the only source of unsolicited mutation and funnels
// through the same lock.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	steps    []Step
	grading  Grading
	gate     bool
	duration int

	answers       []AnswerSet
	presentations []*Presentation
	results       []*StepResult
	current       int

	startedAt time.Time
	finalized bool
	result    SessionResult
	clock     *Countdown
}

// New starts a session at step zero and arms the countdown if a duration
// was configured. It fails with ErrEmptyContent when no steps were loaded.
func New(id uuid.UUID, steps []Step, opts Options) (*Session, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyContent
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		id:            id,
		steps:         steps,
		grading:       opts.Grading,
		gate:          opts.GateNavigation,
		duration:      opts.DurationSeconds,
		answers:       make([]AnswerSet, len(steps)),
		presentations: make([]*Presentation, len(steps)),
		results:       make([]*StepResult, len(steps)),
		startedAt:     time.Now(),
	}
	for i := range steps {
		s.answers[i] = make(AnswerSet)
		s.presentations[i] = NewPresentation(steps[i], rng)
	}

	if opts.DurationSeconds > 0 {
		onExpire := opts.OnExpire
		s.clock = NewCountdown(opts.DurationSeconds, opts.OnTick, func() {
			if res, first := s.Finalize(); first && onExpire != nil {
				onExpire(res)
			}
		})
		if opts.ClockInterval > 0 {
			s.clock.Interval = opts.ClockInterval
		}
		s.clock.Arm()
	}

	return s, nil
}

// RecordAnswer captures a raw answer value for a step. Capture never
// validates. It is a silent no-op once the step has been verified (input
// freezes post-verification), and fails after finalization.
func (s *Session) RecordAnswer(stepIndex int, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrSessionFinalized
	}
	if stepIndex < 0 || stepIndex >= len(s.steps) {
		return ErrStepOutOfRange
	}
	if r := s.results[stepIndex]; r != nil && r.Verified {
		return nil
	}

	s.answers[stepIndex][key] = value
	return nil
}

// VerifyStep runs the step's validator over the current answer map and
// stores the result. Safe to call repeatedly: each call recomputes, which
// supports the reset-and-retry flow.
func (s *Session) VerifyStep(stepIndex int) (StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return StepResult{}, ErrSessionFinalized
	}
	if stepIndex < 0 || stepIndex >= len(s.steps) {
		return StepResult{}, ErrStepOutOfRange
	}

	result := EvaluateStep(s.steps[stepIndex], s.answers[stepIndex], s.presentations[stepIndex])
	s.results[stepIndex] = &result
	return result, nil
}

// ResetStep discards a step's answers and result so the learner can retry
// it. The presentation order is deliberately kept: a reset re-asks the
// same rendition, it does not re-shuffle.
func (s *Session) ResetStep(stepIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrSessionFinalized
	}
	if stepIndex < 0 || stepIndex >= len(s.steps) {
		return ErrStepOutOfRange
	}

	s.answers[stepIndex] = make(AnswerSet)
	s.results[stepIndex] = nil
	return nil
}

// Next advances the current step, clamped to the last one. With the
// navigation gate enabled it refuses to leave an unverified step.
func (s *Session) Next() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return s.current, ErrSessionFinalized
	}
	if s.gate {
		if r := s.results[s.current]; r == nil || !r.Verified {
			return s.current, ErrStepNotVerified
		}
	}
	if s.current < len(s.steps)-1 {
		s.current++
	}
	return s.current, nil
}

// Previous moves back one step, clamped to the first one.
func (s *Session) Previous() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return s.current, ErrSessionFinalized
	}
	if s.current > 0 {
		s.current--
	}
	return s.current, nil
}

// Finalize closes the session: every unverified step is verified (a final
// submission always scores every step, skipped or not), the clock is
// disarmed, and the aggregate result is computed. Finalize is idempotent
// and reentrant-safe; the first return reports whether this call performed
// the finalization, so the owner persists the result exactly once even
// when a timer expiry races a user-initiated submit.
func (s *Session) Finalize() (SessionResult, bool) {
	s.mu.Lock()

	if s.finalized {
		res := s.result
		s.mu.Unlock()
		return res, false
	}

	for i := range s.steps {
		if s.results[i] == nil || !s.results[i].Verified {
			result := EvaluateStep(s.steps[i], s.answers[i], s.presentations[i])
			s.results[i] = &result
		}
	}

	elapsed := int(time.Since(s.startedAt).Seconds())
	if s.duration > 0 && elapsed > s.duration {
		elapsed = s.duration
	}

	results := make([]StepResult, len(s.results))
	for i, r := range s.results {
		results[i] = *r
	}
	correct, total := Aggregate(results)
	score := Percent(correct, total)
	passed := s.grading.Passed(score)

	s.result = SessionResult{
		Score:             score,
		Correct:           correct,
		Total:             total,
		ElapsedSeconds:    elapsed,
		Passed:            passed,
		ValidationsEarned: s.grading.Validations(passed),
	}
	s.finalized = true
	clock := s.clock
	res := s.result
	s.mu.Unlock()

	if clock != nil {
		clock.Disarm()
	}
	return res, true
}

// Abandon discards the session without scoring it, releasing the clock so
// no stray tick can finalize a session its learner already left.
func (s *Session) Abandon() {
	s.mu.Lock()
	clock := s.clock
	s.mu.Unlock()

	if clock != nil {
		clock.Disarm()
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Steps returns the ordered step list.
func (s *Session) Steps() []Step { return s.steps }

// Current returns the current step index.
func (s *Session) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Answers returns a snapshot of a step's captured answers.
func (s *Session) Answers(stepIndex int) AnswerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stepIndex < 0 || stepIndex >= len(s.answers) {
		return nil
	}
	return s.answers[stepIndex].Clone()
}

// Result returns a step's verified result, if any.
func (s *Session) Result(stepIndex int) (StepResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stepIndex < 0 || stepIndex >= len(s.results) || s.results[stepIndex] == nil {
		return StepResult{}, false
	}
	return *s.results[stepIndex], true
}

// Presentation returns a step's display-order record.
func (s *Session) Presentation(stepIndex int) *Presentation {
	if stepIndex < 0 || stepIndex >= len(s.presentations) {
		return nil
	}
	return s.presentations[stepIndex]
}

// Finalized reports whether the session reached its terminal state.
func (s *Session) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized
}

// FinalResult returns the aggregate result once finalized.
func (s *Session) FinalResult() (SessionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.finalized
}

// Timed reports whether a duration was configured.
func (s *Session) Timed() bool { return s.duration > 0 }

// Remaining returns the seconds left on the clock, or -1 when untimed.
func (s *Session) Remaining() int {
	if s.clock == nil {
		return -1
	}
	return s.clock.Remaining()
}

// StartedAt returns the session start time.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Grading returns the configured pass policy.
func (s *Session) Grading() Grading { return s.grading }
