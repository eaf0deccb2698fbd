package services

import (
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/model"
	"github.com/guardianlock/guardian_api/services/repositories"
	"github.com/guardianlock/guardian_api/shared"
)

// StateService is the single source of truth for the DeviceState record.
// Reads decode-or-default; writes merge a partial update over the current
// record, bump lastSync and signal the change bus. Within one process the
// read-modify-write is atomic; across processes the store is last-writer-wins.
type StateService struct {
	context.DefaultService

	sqlSvc *SqliteService
	busSvc *ChangeBusService

	repo *repositories.StateRepository

	mu    sync.Mutex
	nowFn func() int64
}

const STATE_SVC = "state_svc"

func (svc StateService) Id() string {
	return STATE_SVC
}

func (svc *StateService) Configure(ctx *context.Context) error {
	svc.nowFn = func() int64 { return time.Now().UnixMilli() }
	return svc.DefaultService.Configure(ctx)
}

func (svc *StateService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.busSvc = svc.Service(CHANGE_BUS_SVC).(*ChangeBusService)
	svc.repo = repositories.NewStateRepository(svc.sqlSvc.Db())
	return nil
}

// Read returns the current record. When nothing is persisted yet the default
// record is returned without being written; a corrupt payload is replaced by
// the defaults rather than surfaced as an error.
func (svc *StateService) Read() (*model.DeviceState, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.readLocked()
}

func (svc *StateService) readLocked() (*model.DeviceState, error) {
	payload, err := svc.repo.Get(shared.StateKey)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	state := decodeState(payload)
	return &state, nil
}

// Write merges the partial update over the current record, persists the
// result and notifies the change bus. The merged record is returned.
func (svc *StateService) Write(patch model.DeviceStatePatch) (*model.DeviceState, error) {
	svc.mu.Lock()
	state, err := svc.writeLocked(patch)
	svc.mu.Unlock()
	if err != nil {
		return nil, err
	}

	stateWritesTotal.Inc()
	svc.busSvc.Notify()
	return state, nil
}

func (svc *StateService) writeLocked(patch model.DeviceStatePatch) (*model.DeviceState, error) {
	state, err := svc.readLocked()
	if err != nil {
		return nil, err
	}

	patch.Apply(state)

	return svc.persistLocked(state)
}

// Update runs mutate over the current record and persists the result, all
// under the state lock, so composed read-modify-write mutations never
// interleave within this surface. An error from mutate aborts the write and
// leaves the record untouched.
func (svc *StateService) Update(mutate func(state *model.DeviceState) error) (*model.DeviceState, error) {
	svc.mu.Lock()
	state, err := svc.updateLocked(mutate)
	svc.mu.Unlock()
	if err != nil {
		return nil, err
	}

	stateWritesTotal.Inc()
	svc.busSvc.Notify()
	return state, nil
}

func (svc *StateService) updateLocked(mutate func(state *model.DeviceState) error) (*model.DeviceState, error) {
	state, err := svc.readLocked()
	if err != nil {
		return nil, err
	}

	if err := mutate(state); err != nil {
		return nil, err
	}

	return svc.persistLocked(state)
}

func (svc *StateService) persistLocked(state *model.DeviceState) (*model.DeviceState, error) {
	// lastSync never moves backward within this surface.
	now := svc.nowFn()
	if now <= state.LastSync {
		now = state.LastSync + 1
	}
	state.LastSync = now

	normalizeState(state)

	payload, err := sonic.Marshal(state)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode device state")
	}
	if err := svc.repo.Put(shared.StateKey, payload); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return state, nil
}

// SetManualLock engages or releases the parent's manual lock. Manual lock
// has the highest precedence in the resolver and ignores the schedule.
func (svc *StateService) SetManualLock(locked bool) (*model.DeviceState, error) {
	status := model.StatusActive
	if locked {
		status = model.StatusLockedManual
	}
	return svc.Write(model.DeviceStatePatch{Status: &status})
}

// UpdateSchedule replaces the recurring daily lock window.
func (svc *StateService) UpdateSchedule(schedule model.Schedule) (*model.DeviceState, error) {
	return svc.Write(model.DeviceStatePatch{Schedule: &schedule})
}

// Heartbeat applies the child shell's periodic telemetry: battery, screen
// time and location. Location sub-fields merge key-by-key.
func (svc *StateService) Heartbeat(req dto.HeartbeatRequest) (*model.DeviceState, error) {
	patch := model.DeviceStatePatch{
		BatteryLevel:    req.BatteryLevel,
		ScreenTimeToday: req.ScreenTimeToday,
	}
	if req.Lat != nil || req.Lng != nil {
		now := time.Now().UnixMilli()
		patch.Location = &model.LocationPatch{Lat: req.Lat, Lng: req.Lng, LastUpdated: &now}
	}
	return svc.Write(patch)
}

// LastSync reads only the sync marker, used by the polling backstop.
func (svc *StateService) LastSync() int64 {
	state, err := svc.Read()
	if err != nil {
		return 0
	}
	return state.LastSync
}

// decodeState unmarshals a stored payload over the default record so fields
// absent from older schema versions are backfilled rather than zeroed.
func decodeState(payload []byte) model.DeviceState {
	state := model.DefaultDeviceState()
	if len(payload) == 0 {
		return state
	}
	if err := sonic.Unmarshal(payload, &state); err != nil {
		log.WithError(err).Warn("Corrupt device state payload, falling back to defaults")
		return model.DefaultDeviceState()
	}
	normalizeState(&state)
	return state
}

// normalizeState repairs malformed-but-typed input so every public operation
// stays total: unknown enum values default, the app list is never empty, the
// activity log honors its cap, and an unset PIN forces isActivated false.
func normalizeState(state *model.DeviceState) {
	if !state.Status.Valid() {
		state.Status = model.StatusActive
	}
	if state.Schedule.StartTime == "" {
		state.Schedule.StartTime = "21:00"
	}
	if state.Schedule.EndTime == "" {
		state.Schedule.EndTime = "07:00"
	}
	if len(state.Apps) == 0 {
		state.Apps = model.DefaultApps()
	}
	if state.LearningStats.RecentActivity == nil {
		state.LearningStats.RecentActivity = []model.ActivityLog{}
	}
	if len(state.LearningStats.RecentActivity) > model.MaxRecentActivity {
		state.LearningStats.RecentActivity = state.LearningStats.RecentActivity[:model.MaxRecentActivity]
	}
	if state.QuizQuestionCount <= 0 {
		state.QuizQuestionCount = 40
	}
	if state.QuizUnlockDuration <= 0 {
		state.QuizUnlockDuration = 90
	}
	if state.ParentPin == "" {
		state.IsActivated = false
	}
}
