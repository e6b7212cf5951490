package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AssessmentStepsKey returns the cache key for an assessment's published step records
func (r *CacheKeyStruct) AssessmentStepsKey(assessmentID string) string {
	return fmt.Sprintf("assessment:%s:steps", assessmentID)
}

// AttemptAnswersKey returns the cache key for an attempt's autosaved answers
func (r *CacheKeyStruct) AttemptAnswersKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:answers", attemptID)
}

// AttemptStartKey returns the cache key for an attempt's start timestamp
func (r *CacheKeyStruct) AttemptStartKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:started_at", attemptID)
}

// LearnerActiveAttemptKey returns the cache key for a learner's currently active attempt
func (r *CacheKeyStruct) LearnerActiveAttemptKey(learnerID int) string {
	return fmt.Sprintf("learner:%d:active_attempt", learnerID)
}

var CacheKey = NewCacheKeyStruct()
