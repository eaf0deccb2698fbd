package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardianlock/guardian_api/model"
	"github.com/guardianlock/guardian_api/shared"
)

func TestPassingScore(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{40, 32},
		{10, 8},
		{5, 4},
		{3, 3}, // ceil(2.4)
		{1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PassingScore(tt.total), "total=%d", tt.total)
	}
}

func TestStartSessionBuildsConfiguredQuiz(t *testing.T) {
	h := newHarness(t)

	resp, err := h.unlock.StartSession()
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, 40, resp.QuestionCount)
	assert.Equal(t, 32, resp.PassingScore)
	assert.Len(t, resp.Questions, 40)
}

func TestSubmitUnknownSession(t *testing.T) {
	h := newHarness(t)

	_, err := h.unlock.Submit("nope", 40, 40)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestSubmitBelowThresholdFails(t *testing.T) {
	h := newHarness(t)

	session, err := h.unlock.StartSession()
	require.NoError(t, err)

	resp, err := h.unlock.Submit(session.SessionID, 31, 40)
	require.NoError(t, err)

	assert.False(t, resp.Passed)
	assert.Equal(t, 32, resp.PassingScore)

	_, active := h.unlock.ActiveUntil()
	assert.False(t, active)

	// A failed attempt records nothing.
	state, err := h.state.Read()
	require.NoError(t, err)
	assert.Empty(t, state.LearningStats.RecentActivity)
}

func TestSubmitPassStartsCountdownAndRecordsQuiz(t *testing.T) {
	h := newHarness(t)

	session, err := h.unlock.StartSession()
	require.NoError(t, err)

	resp, err := h.unlock.Submit(session.SessionID, 32, 40)
	require.NoError(t, err)

	assert.True(t, resp.Passed)
	assert.Equal(t, 90, resp.UnlockMinutes)
	assert.NotZero(t, resp.UnlockExpiresAt)

	until, active := h.unlock.ActiveUntil()
	assert.True(t, active)
	assert.Equal(t, resp.UnlockExpiresAt, until)

	state, err := h.state.Read()
	require.NoError(t, err)
	require.NotEmpty(t, state.LearningStats.RecentActivity)
	assert.Equal(t, model.ActivityQuiz, state.LearningStats.RecentActivity[0].Type)
}

func TestRepeatPassResetsCountdownInsteadOfStacking(t *testing.T) {
	h := newHarness(t)

	session, err := h.unlock.StartSession()
	require.NoError(t, err)

	first, err := h.unlock.Submit(session.SessionID, 40, 40)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	second, err := h.unlock.Submit(session.SessionID, 40, 40)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, second.UnlockExpiresAt, first.UnlockExpiresAt)

	h.unlock.mu.Lock()
	assert.Len(t, h.unlock.sessions, 1)
	h.unlock.mu.Unlock()
}

func TestCountdownExpiryRevertsToLocked(t *testing.T) {
	h := newHarness(t)
	h.unlock.countdown = func(minutes int) time.Duration { return 10 * time.Millisecond }

	session, err := h.unlock.StartSession()
	require.NoError(t, err)

	_, err = h.unlock.Submit(session.SessionID, 40, 40)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, active := h.unlock.ActiveUntil()
		return !active
	}, time.Second, 5*time.Millisecond)
}

func TestCancelTearsDownSilently(t *testing.T) {
	h := newHarness(t)

	session, err := h.unlock.StartSession()
	require.NoError(t, err)

	h.unlock.Cancel(session.SessionID)

	_, err = h.unlock.Submit(session.SessionID, 40, 40)
	_, ok := shared.GetAppError(err)
	assert.True(t, ok)

	state, err := h.state.Read()
	require.NoError(t, err)
	assert.Empty(t, state.LearningStats.RecentActivity)

	// Cancelling an unknown id is a no-op.
	h.unlock.Cancel("missing")
}
