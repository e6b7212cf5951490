package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRemoveKeepsNewerLearnerEntry(t *testing.T) {
	r := newLiveRegistry()
	older := &liveAttempt{attemptID: uuid.New(), learnerID: 1}
	newer := &liveAttempt{attemptID: uuid.New(), learnerID: 1}
	r.put(older)
	r.put(newer)

	r.remove(older.attemptID, older.learnerID)

	_, ok := r.get(older.attemptID)
	assert.False(t, ok)

	got, ok := r.findByLearner(1)
	require.True(t, ok)
	assert.Equal(t, newer.attemptID, got.attemptID)
}

func TestRegistryRemoveLater(t *testing.T) {
	r := newLiveRegistry()
	la := &liveAttempt{attemptID: uuid.New(), learnerID: 2}
	r.put(la)

	r.removeLater(la.attemptID, la.learnerID, time.Millisecond)

	assert.Eventually(t, func() bool {
		_, ok := r.get(la.attemptID)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestRegistryRemoveLaterSparesReplacement(t *testing.T) {
	r := newLiveRegistry()
	older := &liveAttempt{attemptID: uuid.New(), learnerID: 3}
	r.put(older)
	r.removeLater(older.attemptID, older.learnerID, 50*time.Millisecond)

	newer := &liveAttempt{attemptID: uuid.New(), learnerID: 3}
	r.put(newer)

	assert.Eventually(t, func() bool {
		_, ok := r.get(older.attemptID)
		return !ok
	}, time.Second, 5*time.Millisecond)

	got, ok := r.findByLearner(3)
	require.True(t, ok)
	assert.Equal(t, newer.attemptID, got.attemptID)
}
