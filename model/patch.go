package model

// DeviceStatePatch is a partial update over DeviceState. Nil fields are left
// untouched. Top-level composites (Schedule, Apps) are replaced wholesale;
// LearningStats and Location are merged key-by-key so that omitted sub-fields
// survive a write that only touches their siblings.
type DeviceStatePatch struct {
	Status                *DeviceStatus       `json:"status,omitempty"`
	Schedule              *Schedule           `json:"schedule,omitempty"`
	BatteryLevel          *int                `json:"batteryLevel,omitempty"`
	ScreenTimeToday       *int                `json:"screenTimeToday,omitempty"`
	UnlockMessage         *string             `json:"unlockMessage,omitempty"`
	ChildAge              *int                `json:"childAge,omitempty"`
	LearningStats         *LearningStatsPatch `json:"learningStats,omitempty"`
	Location              *LocationPatch      `json:"location,omitempty"`
	ParentPin             *string             `json:"parentPin,omitempty"`
	IsActivated           *bool               `json:"isActivated,omitempty"`
	QuizQuestionCount     *int                `json:"quizQuestionCount,omitempty"`
	QuizUnlockDuration    *int                `json:"quizUnlockDuration,omitempty"`
	Apps                  []AppConfig         `json:"apps,omitempty"`
	StrictEducationalMode *bool               `json:"strictEducationalMode,omitempty"`
}

type LearningStatsPatch struct {
	MathCorrect      *int          `json:"mathCorrect,omitempty"`
	MathAttempts     *int          `json:"mathAttempts,omitempty"`
	ReadingCorrect   *int          `json:"readingCorrect,omitempty"`
	ReadingAttempts  *int          `json:"readingAttempts,omitempty"`
	SpellingCorrect  *int          `json:"spellingCorrect,omitempty"`
	SpellingAttempts *int          `json:"spellingAttempts,omitempty"`
	HomeworkScans    *int          `json:"homeworkScans,omitempty"`
	RecentActivity   []ActivityLog `json:"recentActivity,omitempty"`
}

type LocationPatch struct {
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	LastUpdated *int64   `json:"lastUpdated,omitempty"`
}

// Apply merges the patch over state in place.
func (p *DeviceStatePatch) Apply(state *DeviceState) {
	if p == nil {
		return
	}
	if p.Status != nil {
		state.Status = *p.Status
	}
	if p.Schedule != nil {
		state.Schedule = *p.Schedule
	}
	if p.BatteryLevel != nil {
		state.BatteryLevel = *p.BatteryLevel
	}
	if p.ScreenTimeToday != nil {
		state.ScreenTimeToday = *p.ScreenTimeToday
	}
	if p.UnlockMessage != nil {
		state.UnlockMessage = *p.UnlockMessage
	}
	if p.ChildAge != nil {
		state.ChildAge = *p.ChildAge
	}
	if p.LearningStats != nil {
		p.LearningStats.apply(&state.LearningStats)
	}
	if p.Location != nil {
		p.Location.apply(&state.Location)
	}
	if p.ParentPin != nil {
		state.ParentPin = *p.ParentPin
	}
	if p.IsActivated != nil {
		state.IsActivated = *p.IsActivated
	}
	if p.QuizQuestionCount != nil {
		state.QuizQuestionCount = *p.QuizQuestionCount
	}
	if p.QuizUnlockDuration != nil {
		state.QuizUnlockDuration = *p.QuizUnlockDuration
	}
	if p.Apps != nil {
		state.Apps = p.Apps
	}
	if p.StrictEducationalMode != nil {
		state.StrictEducationalMode = *p.StrictEducationalMode
	}
}

func (p *LearningStatsPatch) apply(stats *LearningStats) {
	if p.MathCorrect != nil {
		stats.MathCorrect = *p.MathCorrect
	}
	if p.MathAttempts != nil {
		stats.MathAttempts = *p.MathAttempts
	}
	if p.ReadingCorrect != nil {
		stats.ReadingCorrect = *p.ReadingCorrect
	}
	if p.ReadingAttempts != nil {
		stats.ReadingAttempts = *p.ReadingAttempts
	}
	if p.SpellingCorrect != nil {
		stats.SpellingCorrect = *p.SpellingCorrect
	}
	if p.SpellingAttempts != nil {
		stats.SpellingAttempts = *p.SpellingAttempts
	}
	if p.HomeworkScans != nil {
		stats.HomeworkScans = *p.HomeworkScans
	}
	if p.RecentActivity != nil {
		stats.RecentActivity = p.RecentActivity
		if len(stats.RecentActivity) > MaxRecentActivity {
			stats.RecentActivity = stats.RecentActivity[:MaxRecentActivity]
		}
	}
}

func (p *LocationPatch) apply(loc *LocationData) {
	if p.Lat != nil {
		loc.Lat = *p.Lat
	}
	if p.Lng != nil {
		loc.Lng = *p.Lng
	}
	if p.LastUpdated != nil {
		loc.LastUpdated = *p.LastUpdated
	}
}
