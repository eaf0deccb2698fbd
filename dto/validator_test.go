package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupPinRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		pin     string
		confirm string
		wantErr bool
	}{
		{"valid four digits", "1234", "1234", false},
		{"valid eight digits", "12345678", "12345678", false},
		{"too short", "123", "123", true},
		{"too long", "123456789", "123456789", true},
		{"non numeric", "12a4", "12a4", true},
		{"mismatched confirmation", "1234", "4321", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SetupPinRequest{Pin: tt.pin, ConfirmPin: tt.confirm}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduleRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"valid overnight", "21:00", "07:00", false},
		{"valid same day", "14:00", "16:30", false},
		{"hour out of range", "24:00", "07:00", true},
		{"minute out of range", "21:60", "07:00", true},
		{"missing colon", "2100", "07:00", true},
		{"empty end", "21:00", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ScheduleRequest{Enabled: true, StartTime: tt.start, EndTime: tt.end}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecordActivityRequestValidation(t *testing.T) {
	assert.NoError(t, RecordActivityRequest{Type: "MATH", Success: true}.Validate())
	assert.Error(t, RecordActivityRequest{Type: "DANCING"}.Validate())
	assert.Error(t, RecordActivityRequest{}.Validate())
}

func TestHeartbeatRequestValidation(t *testing.T) {
	battery := 85
	assert.NoError(t, HeartbeatRequest{BatteryLevel: &battery}.Validate())

	over := 150
	assert.Error(t, HeartbeatRequest{BatteryLevel: &over}.Validate())

	badLat := 95.0
	assert.Error(t, HeartbeatRequest{Lat: &badLat}.Validate())
}

func TestFormatValidationErrors(t *testing.T) {
	err := SetupPinRequest{}.Validate()

	resp := CreateValidationErrorResponse(err)
	assert.Equal(t, 400, resp.Code)
	assert.NotEmpty(t, resp.Errors)
	for _, fieldErr := range resp.Errors {
		assert.NotEmpty(t, fieldErr.Field)
		assert.NotEmpty(t, fieldErr.Message)
	}
}
