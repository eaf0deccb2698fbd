package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/guardianlock/guardian_api/services/repositories"
)

// harness wires the service graph by hand against a throwaway store file,
// without the runtime container or any listeners.
type harness struct {
	sql         *SqliteService
	state       *StateService
	bus         *ChangeBusService
	activity    *ActivityService
	content     *ContentService
	unlock      *UnlockSessionService
	restriction *RestrictionService
	policy      *PolicyService
	jwt         *JWTService
	auth        *AuthService

	// now backs the state clock; tests advance it by hand.
	now int64
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{now: 1_700_000_000_000}

	h.sql = &SqliteService{database: filepath.Join(t.TempDir(), "guardian.db")}
	require.NoError(t, h.sql.Start())

	h.state = &StateService{
		sqlSvc: h.sql,
		repo:   repositories.NewStateRepository(h.sql.Db()),
		nowFn:  func() int64 { return h.now },
	}

	h.bus = &ChangeBusService{
		sqlSvc:      h.sql,
		stateSvc:    h.state,
		subscribers: map[int]chan struct{}{},
		done:        make(chan struct{}),
	}
	h.state.busSvc = h.bus

	h.activity = &ActivityService{stateSvc: h.state}

	h.content = &ContentService{timeout: time.Second}

	h.unlock = &UnlockSessionService{
		stateSvc:    h.state,
		activitySvc: h.activity,
		contentSvc:  h.content,
		sessions:    map[string]*unlockSession{},
		countdown: func(minutes int) time.Duration {
			return time.Duration(minutes) * time.Minute
		},
	}

	h.restriction = &RestrictionService{stateSvc: h.state}
	h.policy = &PolicyService{stateSvc: h.state, unlockSvc: h.unlock}
	h.jwt = &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "test-secret"}
	h.auth = &AuthService{stateSvc: h.state, jwtSvc: h.jwt}

	return h
}
