package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/guardianlock/guardian_api/model"
)

func newOfflineContent() *ContentService {
	return &ContentService{timeout: time.Second}
}

func TestGenerateFallbackSets(t *testing.T) {
	svc := newOfflineContent()

	tests := []struct {
		kind  model.ChallengeKind
		count int
	}{
		{kind: model.ChallengeGeneralKnowledge, count: 5},
		{kind: model.ChallengeMathQuiz, count: 8},
		{kind: model.ChallengeReading, count: 3},
		{kind: model.ChallengeSpelling, count: 7},
		{kind: model.ChallengeMathProblems, count: 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			resp := svc.Generate(tt.kind, 10, tt.count)

			assert.Equal(t, tt.kind, resp.Kind)
			assert.True(t, resp.Fallback)

			got := len(resp.Questions) + len(resp.Readings) + len(resp.Spellings) + len(resp.Problems)
			assert.Equal(t, tt.count, got)
		})
	}
}

func TestGenerateUnknownKindIsEmpty(t *testing.T) {
	svc := newOfflineContent()

	resp := svc.Generate(model.ChallengeKind("karaoke"), 10, 5)

	assert.False(t, resp.Fallback)
	assert.Empty(t, resp.Questions)
	assert.Empty(t, resp.Readings)
	assert.Empty(t, resp.Spellings)
	assert.Empty(t, resp.Problems)
}

func TestGenerateQuizQuestionsAreAnswerable(t *testing.T) {
	svc := newOfflineContent()

	resp := svc.Generate(model.ChallengeMathQuiz, 8, 10)

	for _, q := range resp.Questions {
		assert.NotEmpty(t, q.Question)
		assert.Len(t, q.Options, 4)
		assert.GreaterOrEqual(t, q.CorrectAnswerIndex, 0)
		assert.Less(t, q.CorrectAnswerIndex, 4)
	}
}

func TestUnlockQuizSizeAndMix(t *testing.T) {
	svc := newOfflineContent()

	questions := svc.UnlockQuiz(10, 40)
	assert.Len(t, questions, 40)

	// Odd counts still come out exact.
	questions = svc.UnlockQuiz(10, 7)
	assert.Len(t, questions, 7)

	// Zero falls back to the default quiz size.
	questions = svc.UnlockQuiz(10, 0)
	assert.Len(t, questions, 40)
}
