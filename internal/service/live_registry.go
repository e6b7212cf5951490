package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// liveRegistry indexes the live attempts of this instance, by attempt ID
// for request routing and by learner ID for the one-attempt rule.
type liveRegistry struct {
	mu        sync.RWMutex
	byAttempt map[uuid.UUID]*liveAttempt
	byLearner map[int]*liveAttempt
}

func newLiveRegistry() *liveRegistry {
	return &liveRegistry{
		byAttempt: make(map[uuid.UUID]*liveAttempt),
		byLearner: make(map[int]*liveAttempt),
	}
}

func (r *liveRegistry) put(la *liveAttempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byAttempt[la.attemptID] = la
	r.byLearner[la.learnerID] = la
}

func (r *liveRegistry) get(attemptID uuid.UUID) (*liveAttempt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	la, ok := r.byAttempt[attemptID]
	return la, ok
}

func (r *liveRegistry) findByLearner(learnerID int) (*liveAttempt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	la, ok := r.byLearner[learnerID]
	return la, ok
}

func (r *liveRegistry) remove(attemptID uuid.UUID, learnerID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byAttempt, attemptID)
	if la, ok := r.byLearner[learnerID]; ok && la.attemptID == attemptID {
		delete(r.byLearner, learnerID)
	}
}

// removeLater evicts an attempt after a delay. The learner index is only
// cleared when it still points at this attempt, so a newer attempt started
// in the meantime is untouched.
func (r *liveRegistry) removeLater(attemptID uuid.UUID, learnerID int, after time.Duration) {
	time.AfterFunc(after, func() {
		r.remove(attemptID, learnerID)
	})
}
