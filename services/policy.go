package services

import (
	"time"

	"github.com/alphabatem/common/context"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/model"
)

// ResolveStatus maps the persisted record plus wall-clock time to the base
// lock status. It is a pure function, re-evaluated on every observation:
//
//  1. A manual lock wins unconditionally, schedule or not.
//  2. An enabled schedule locks inside its window. start < end is a same-day
//     window, [start, end); start >= end wraps overnight (21:00-07:00), which
//     makes start == end a full-day lock.
//  3. Otherwise the device is active.
//
// The temporary quiz unlock is layered on top by the caller, never in here.
func ResolveStatus(state *model.DeviceState, now time.Time) model.DeviceStatus {
	if state.Status == model.StatusLockedManual {
		return model.StatusLockedManual
	}

	if state.Schedule.Enabled {
		nowMinutes := now.Hour()*60 + now.Minute()
		start, okStart := clockMinutes(state.Schedule.StartTime)
		end, okEnd := clockMinutes(state.Schedule.EndTime)
		if okStart && okEnd {
			var locked bool
			if start < end {
				locked = nowMinutes >= start && nowMinutes < end
			} else {
				locked = nowMinutes >= start || nowMinutes < end
			}
			if locked {
				return model.StatusLockedSchedule
			}
		}
	}

	return model.StatusActive
}

func clockMinutes(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// PolicyService combines the pure resolver with the ephemeral unlock
// override into the effective status the child shell actually shows.
type PolicyService struct {
	context.DefaultService

	stateSvc  *StateService
	unlockSvc *UnlockSessionService
}

const POLICY_SVC = "policy_svc"

func (svc PolicyService) Id() string {
	return POLICY_SVC
}

func (svc *PolicyService) Start() error {
	svc.stateSvc = svc.Service(STATE_SVC).(*StateService)
	svc.unlockSvc = svc.Service(UNLOCK_SVC).(*UnlockSessionService)
	return nil
}

// EffectiveStatus re-reads the record and resolves it against the clock and
// any active temporary unlock.
func (svc *PolicyService) EffectiveStatus() (*dto.EffectiveStatusResponse, error) {
	state, err := svc.stateSvc.Read()
	if err != nil {
		return nil, err
	}

	resolved := ResolveStatus(state, time.Now())
	resp := &dto.EffectiveStatusResponse{
		EffectiveStatus: resolved,
		Locked:          resolved != model.StatusActive,
	}

	if resp.Locked {
		if expiresAt, ok := svc.unlockSvc.ActiveUntil(); ok {
			resp.EffectiveStatus = model.StatusActive
			resp.Locked = false
			resp.TempUnlocked = true
			resp.UnlockExpiresAt = expiresAt
		} else {
			// Shown on the lock screen whatever engaged the lock.
			resp.UnlockMessage = state.UnlockMessage
		}
	}

	return resp, nil
}
