package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/model"
	"github.com/guardianlock/guardian_api/shared"
)

func TestReadBeforeFirstWriteReturnsDefaults(t *testing.T) {
	h := newHarness(t)

	state, err := h.state.Read()
	require.NoError(t, err)

	assert.Equal(t, model.StatusActive, state.Status)
	assert.Equal(t, "21:00", state.Schedule.StartTime)
	assert.Len(t, state.Apps, 9)
	assert.Equal(t, 40, state.QuizQuestionCount)

	// A plain read must not persist anything.
	payload, err := h.state.repo.Get(shared.StateKey)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestWriteMergePreservesSiblingFields(t *testing.T) {
	h := newHarness(t)

	msg := "Back after dinner"
	_, err := h.state.Write(model.DeviceStatePatch{UnlockMessage: &msg})
	require.NoError(t, err)

	battery := 42
	state, err := h.state.Write(model.DeviceStatePatch{BatteryLevel: &battery})
	require.NoError(t, err)

	assert.Equal(t, 42, state.BatteryLevel)
	assert.Equal(t, "Back after dinner", state.UnlockMessage)
}

func TestWriteMergesLearningStatsKeyByKey(t *testing.T) {
	h := newHarness(t)

	correct := 5
	_, err := h.state.Write(model.DeviceStatePatch{
		LearningStats: &model.LearningStatsPatch{MathCorrect: &correct},
	})
	require.NoError(t, err)

	scans := 3
	state, err := h.state.Write(model.DeviceStatePatch{
		LearningStats: &model.LearningStatsPatch{HomeworkScans: &scans},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, state.LearningStats.MathCorrect)
	assert.Equal(t, 3, state.LearningStats.HomeworkScans)
}

func TestScheduleIsReplacedWholesale(t *testing.T) {
	h := newHarness(t)

	state, err := h.state.UpdateSchedule(model.Schedule{Enabled: true, StartTime: "20:00", EndTime: "08:00"})
	require.NoError(t, err)

	assert.True(t, state.Schedule.Enabled)
	assert.Equal(t, "20:00", state.Schedule.StartTime)
	assert.Equal(t, "08:00", state.Schedule.EndTime)
}

func TestLastSyncBumpsOnEveryWrite(t *testing.T) {
	h := newHarness(t)

	battery := 10
	first, err := h.state.Write(model.DeviceStatePatch{BatteryLevel: &battery})
	require.NoError(t, err)
	assert.Equal(t, h.now, first.LastSync)

	// Clock stalls; lastSync still has to move forward.
	second, err := h.state.Write(model.DeviceStatePatch{BatteryLevel: &battery})
	require.NoError(t, err)
	assert.Greater(t, second.LastSync, first.LastSync)

	h.now += 60_000
	third, err := h.state.Write(model.DeviceStatePatch{BatteryLevel: &battery})
	require.NoError(t, err)
	assert.Equal(t, h.now, third.LastSync)
}

func TestCorruptPayloadFallsBackToDefaults(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.state.repo.Put(shared.StateKey, []byte("{not json")))

	state, err := h.state.Read()
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, state.Status)
	assert.Len(t, state.Apps, 9)
}

func TestOlderPayloadIsBackfilledWithDefaults(t *testing.T) {
	h := newHarness(t)

	// A record written before the quiz settings existed.
	require.NoError(t, h.state.repo.Put(shared.StateKey, []byte(`{"status":"LOCKED_MANUAL","batteryLevel":12}`)))

	state, err := h.state.Read()
	require.NoError(t, err)
	assert.Equal(t, model.StatusLockedManual, state.Status)
	assert.Equal(t, 12, state.BatteryLevel)
	assert.Equal(t, 40, state.QuizQuestionCount)
	assert.Equal(t, 90, state.QuizUnlockDuration)
	assert.NotEmpty(t, state.Apps)
	assert.NotNil(t, state.LearningStats.RecentActivity)
}

func TestActivationRequiresPin(t *testing.T) {
	h := newHarness(t)

	activated := true
	state, err := h.state.Write(model.DeviceStatePatch{IsActivated: &activated})
	require.NoError(t, err)
	assert.False(t, state.IsActivated)

	pin := "1234"
	state, err = h.state.Write(model.DeviceStatePatch{ParentPin: &pin, IsActivated: &activated})
	require.NoError(t, err)
	assert.True(t, state.IsActivated)
}

func TestHeartbeatMergesLocationSubFields(t *testing.T) {
	h := newHarness(t)

	lat := 40.7128
	state, err := h.state.Heartbeat(dto.HeartbeatRequest{Lat: &lat})
	require.NoError(t, err)

	assert.Equal(t, 40.7128, state.Location.Lat)
	// Untouched longitude keeps its default.
	assert.Equal(t, -122.4194, state.Location.Lng)
	assert.NotZero(t, state.Location.LastUpdated)
}

func TestSetManualLock(t *testing.T) {
	h := newHarness(t)

	state, err := h.state.SetManualLock(true)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLockedManual, state.Status)

	state, err = h.state.SetManualLock(false)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, state.Status)
}

func TestUpdateAppliesMutationAtomically(t *testing.T) {
	h := newHarness(t)

	state, err := h.state.Update(func(state *model.DeviceState) error {
		state.BatteryLevel = 33
		state.LearningStats.HomeworkScans++
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 33, state.BatteryLevel)
	assert.Equal(t, 1, state.LearningStats.HomeworkScans)
}

func TestUpdateAbortLeavesRecordUntouched(t *testing.T) {
	h := newHarness(t)

	battery := 20
	before, err := h.state.Write(model.DeviceStatePatch{BatteryLevel: &battery})
	require.NoError(t, err)

	_, err = h.state.Update(func(state *model.DeviceState) error {
		state.BatteryLevel = 99
		return shared.NewConflictError(nil, "nope")
	})
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)

	after, err := h.state.Read()
	require.NoError(t, err)
	assert.Equal(t, 20, after.BatteryLevel)
	assert.Equal(t, before.LastSync, after.LastSync)
}

func TestWriteRoundTripsThroughTheStore(t *testing.T) {
	h := newHarness(t)

	age := 12
	_, err := h.state.Write(model.DeviceStatePatch{ChildAge: &age})
	require.NoError(t, err)

	// A second service over the same file sees the write.
	other := &StateService{
		sqlSvc: h.sql,
		repo:   h.state.repo,
		nowFn:  h.state.nowFn,
		busSvc: h.bus,
	}
	state, err := other.Read()
	require.NoError(t, err)
	assert.Equal(t, 12, state.ChildAge)
}
