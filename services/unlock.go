package services

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/model"
	"github.com/guardianlock/guardian_api/shared"
)

// unlockSession is ephemeral per-UI-session state. It is deliberately never
// persisted: a reload forfeits the challenge and any remaining countdown.
type unlockSession struct {
	id        string
	timer     *time.Timer
	expiresAt int64 // unix ms; zero while the challenge is still in progress
}

// UnlockSessionService drives the challenge-then-timed-unlock flow:
// LOCKED_BY_POLICY -> CHALLENGE_IN_PROGRESS -> TEMP_UNLOCKED -> expiry back
// to LOCKED_BY_POLICY. Passing twice resets the countdown instead of
// stacking a second timer; cancellation tears the session down silently.
type UnlockSessionService struct {
	context.DefaultService

	stateSvc    *StateService
	activitySvc *ActivityService
	contentSvc  *ContentService

	mu       sync.Mutex
	sessions map[string]*unlockSession

	// countdown converts the configured minutes; swapped out in tests.
	countdown func(minutes int) time.Duration
}

const UNLOCK_SVC = "unlock_svc"

func (svc UnlockSessionService) Id() string {
	return UNLOCK_SVC
}

func (svc *UnlockSessionService) Configure(ctx *context.Context) error {
	svc.sessions = map[string]*unlockSession{}
	svc.countdown = func(minutes int) time.Duration {
		return time.Duration(minutes) * time.Minute
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *UnlockSessionService) Start() error {
	svc.stateSvc = svc.Service(STATE_SVC).(*StateService)
	svc.activitySvc = svc.Service(ACTIVITY_SVC).(*ActivityService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	return nil
}

func (svc *UnlockSessionService) Shutdown() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for id, session := range svc.sessions {
		if session.timer != nil {
			session.timer.Stop()
		}
		delete(svc.sessions, id)
	}
}

// PassingScore is the 80% threshold, rounded up.
func PassingScore(totalQuestions int) int {
	return int(math.Ceil(shared.PassThreshold * float64(totalQuestions)))
}

// StartSession opens a challenge for a locked shell and hands back the quiz
// set: half general knowledge, half math, shuffled and truncated to the
// configured question count.
func (svc *UnlockSessionService) StartSession() (*dto.StartUnlockSessionResponse, error) {
	state, err := svc.stateSvc.Read()
	if err != nil {
		return nil, err
	}

	questions := svc.contentSvc.UnlockQuiz(state.ChildAge, state.QuizQuestionCount)

	session := &unlockSession{id: uuid.New().String()}
	svc.mu.Lock()
	svc.sessions[session.id] = session
	svc.mu.Unlock()

	return &dto.StartUnlockSessionResponse{
		SessionID:     session.id,
		QuestionCount: len(questions),
		PassingScore:  PassingScore(len(questions)),
		Questions:     questions,
	}, nil
}

// Submit applies the pass threshold to the quiz outcome the UI reports. A
// pass records a QUIZ success and starts (or resets) the countdown; a fail
// leaves the session in the challenge with no penalty beyond retrying.
func (svc *UnlockSessionService) Submit(sessionID string, finalScore, totalQuestions int) (*dto.SubmitQuizResponse, error) {
	svc.mu.Lock()
	session, ok := svc.sessions[sessionID]
	svc.mu.Unlock()
	if !ok {
		return nil, shared.NewNotFoundError(errors.New("unknown unlock session"), "Unknown unlock session")
	}

	passingScore := PassingScore(totalQuestions)
	if finalScore < passingScore {
		unlockSessionsTotal.WithLabelValues("failed").Inc()
		return &dto.SubmitQuizResponse{Passed: false, PassingScore: passingScore}, nil
	}

	state, err := svc.stateSvc.Read()
	if err != nil {
		return nil, err
	}
	minutes := state.QuizUnlockDuration

	if _, err := svc.activitySvc.Record(model.ActivityQuiz, true, "Unlock challenge passed"); err != nil {
		log.WithError(err).Warn("Failed to record quiz activity")
	}

	expiresAt := time.Now().Add(svc.countdown(minutes)).UnixMilli()

	svc.mu.Lock()
	// A repeat pass resets the countdown; it never stacks a second timer.
	if session.timer != nil {
		session.timer.Stop()
	}
	session.expiresAt = expiresAt
	session.timer = time.AfterFunc(svc.countdown(minutes), func() {
		svc.expire(sessionID)
	})
	svc.mu.Unlock()

	unlockSessionsTotal.WithLabelValues("passed").Inc()

	return &dto.SubmitQuizResponse{
		Passed:          true,
		PassingScore:    passingScore,
		UnlockExpiresAt: expiresAt,
		UnlockMinutes:   minutes,
	}, nil
}

// Cancel tears the session down before a pass: the countdown (if any) is
// stopped and nothing is recorded.
func (svc *UnlockSessionService) Cancel(sessionID string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if session, ok := svc.sessions[sessionID]; ok {
		if session.timer != nil {
			session.timer.Stop()
		}
		delete(svc.sessions, sessionID)
	}
}

// ActiveUntil reports whether any session holds an unexpired temporary
// unlock, and the latest expiry when several do.
func (svc *UnlockSessionService) ActiveUntil() (int64, bool) {
	now := time.Now().UnixMilli()

	svc.mu.Lock()
	defer svc.mu.Unlock()

	var latest int64
	for _, session := range svc.sessions {
		if session.expiresAt > now && session.expiresAt > latest {
			latest = session.expiresAt
		}
	}
	return latest, latest > 0
}

// expire returns the session to policy-resolved lock state on timer expiry.
func (svc *UnlockSessionService) expire(sessionID string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	delete(svc.sessions, sessionID)
}
