package dto

import "github.com/noah-isme/timetable-api/internal/models"

// AvailabilitySlotPayload is one weekly time range in an upsert request.
type AvailabilitySlotPayload struct {
	DayOfWeek string                    `json:"dayOfWeek" validate:"required"`
	StartTime string                    `json:"startTime" validate:"required,len=5"`
	EndTime   string                    `json:"endTime" validate:"required,len=5"`
	Status    models.AvailabilityStatus `json:"status" validate:"required"`
}

// TeacherPreferencesPayload mirrors models.TeacherPreferences for requests.
type TeacherPreferencesPayload struct {
	MaxPeriodsPerDay         int    `json:"maxPeriodsPerDay" validate:"omitempty,min=1,max=12"`
	MaxPeriodsPerWeek        int    `json:"maxPeriodsPerWeek" validate:"omitempty,min=1,max=60"`
	PreferredBreakMinutes    int    `json:"preferredBreakMinutes" validate:"omitempty,min=0,max=120"`
	PreferConsecutiveClasses bool   `json:"preferConsecutiveClasses"`
	AvoidFirstPeriod         bool   `json:"avoidFirstPeriod"`
	AvoidLastPeriod          bool   `json:"avoidLastPeriod"`
	Notes                    string `json:"notes" validate:"omitempty,max=500"`
}

// UpsertAvailabilityRequest replaces a teacher's weekly template.
type UpsertAvailabilityRequest struct {
	Slots       []AvailabilitySlotPayload `json:"slots" validate:"dive"`
	Preferences TeacherPreferencesPayload `json:"preferences"`
}
