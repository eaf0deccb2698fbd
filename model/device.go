package model

import "time"

type DeviceStatus string

const (
	StatusActive         DeviceStatus = "ACTIVE"
	StatusLockedManual   DeviceStatus = "LOCKED_MANUAL"
	StatusLockedSchedule DeviceStatus = "LOCKED_SCHEDULE"
)

func (s DeviceStatus) Valid() bool {
	switch s {
	case StatusActive, StatusLockedManual, StatusLockedSchedule:
		return true
	}
	return false
}

// Schedule is a recurring daily lock window. StartTime/EndTime are "HH:MM"
// 24h strings; StartTime >= EndTime denotes an overnight wraparound window.
type Schedule struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type LocationData struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	LastUpdated int64   `json:"lastUpdated"`
}

type AppConfig struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	Allowed       bool   `json:"allowed"`
	IsEducational bool   `json:"isEducational"`
	Category      string `json:"category"`
}

// DeviceState is the singleton record shared by the parent and child
// surfaces. It is persisted as one JSON payload under a single key; all
// timestamps are unix milliseconds.
type DeviceState struct {
	Status                DeviceStatus  `json:"status"`
	Schedule              Schedule      `json:"schedule"`
	LastSync              int64         `json:"lastSync"`
	BatteryLevel          int           `json:"batteryLevel"`
	ScreenTimeToday       int           `json:"screenTimeToday"` // minutes
	UnlockMessage         string        `json:"unlockMessage,omitempty"`
	ChildAge              int           `json:"childAge"`
	LearningStats         LearningStats `json:"learningStats"`
	Location              LocationData  `json:"location"`
	ParentPin             string        `json:"parentPin,omitempty"`
	IsActivated           bool          `json:"isActivated"`
	QuizQuestionCount     int           `json:"quizQuestionCount"`
	QuizUnlockDuration    int           `json:"quizUnlockDuration"` // minutes
	Apps                  []AppConfig   `json:"apps"`
	StrictEducationalMode bool          `json:"strictEducationalMode"`
}

// App returns the app with the given id, or nil when unknown.
func (s *DeviceState) App(id string) *AppConfig {
	for i := range s.Apps {
		if s.Apps[i].ID == id {
			return &s.Apps[i]
		}
	}
	return nil
}

func DefaultApps() []AppConfig {
	return []AppConfig{
		{ID: "learn", Name: "Learn", Icon: "BrainCircuit", Color: "bg-indigo-500", Allowed: true, IsEducational: true, Category: "Academic"},
		{ID: "homework", Name: "Homework", Icon: "GraduationCap", Color: "bg-blue-500", Allowed: true, IsEducational: true, Category: "Academic"},
		{ID: "security", Name: "Security", Icon: "ShieldCheck", Color: "bg-green-600", Allowed: true, IsEducational: true, Category: "Utility"},
		{ID: "games", Name: "Games", Icon: "Gamepad2", Color: "bg-orange-500", Allowed: false, IsEducational: false, Category: "Entertainment"},
		{ID: "whatsapp", Name: "WhatsApp", Icon: "MessageCircle", Color: "bg-[#25D366]", Allowed: false, IsEducational: false, Category: "Social"},
		{ID: "music", Name: "Music", Icon: "Music", Color: "bg-pink-500", Allowed: false, IsEducational: false, Category: "Entertainment"},
		{ID: "camera", Name: "Camera", Icon: "Camera", Color: "bg-gray-500", Allowed: true, IsEducational: false, Category: "Utility"},
		{ID: "videos", Name: "Videos", Icon: "Play", Color: "bg-red-500", Allowed: false, IsEducational: false, Category: "Entertainment"},
		{ID: "settings", Name: "Settings", Icon: "Settings", Color: "bg-slate-600", Allowed: true, IsEducational: false, Category: "Utility"},
	}
}

// DefaultDeviceState is the record handed out before anything has been
// persisted, and the base every stored payload is decoded over.
func DefaultDeviceState() DeviceState {
	now := time.Now().UnixMilli()
	return DeviceState{
		Status: StatusActive,
		Schedule: Schedule{
			Enabled:   false,
			StartTime: "21:00",
			EndTime:   "07:00",
		},
		LastSync:           now,
		BatteryLevel:       85,
		ScreenTimeToday:    45,
		UnlockMessage:      "Time for homework!",
		ChildAge:           10,
		LearningStats:      LearningStats{RecentActivity: []ActivityLog{}},
		Location:           LocationData{Lat: 37.7749, Lng: -122.4194, LastUpdated: now},
		ParentPin:          "",
		IsActivated:        false,
		QuizQuestionCount:  40,
		QuizUnlockDuration: 90,
		Apps:               DefaultApps(),

		StrictEducationalMode: true,
	}
}
