package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// AvailabilityStatus is the closed set of per-slot teacher availability
// states. Adding a status requires extending Metadata and Valid alongside.
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "AVAILABLE"
	AvailabilityPreferred   AvailabilityStatus = "PREFERRED"
	AvailabilityAvoid       AvailabilityStatus = "AVOID"
	AvailabilityUnavailable AvailabilityStatus = "UNAVAILABLE"
)

// AllAvailabilityStatuses lists every defined status, in display order.
var AllAvailabilityStatuses = []AvailabilityStatus{
	AvailabilityAvailable,
	AvailabilityPreferred,
	AvailabilityAvoid,
	AvailabilityUnavailable,
}

// AvailabilityStatusMeta carries display and severity metadata for a status.
type AvailabilityStatusMeta struct {
	Label    string
	Severity ConflictSeverity
	Blocks   bool
}

// Metadata returns the display/severity mapping for the status. The switch
// covers every defined status; an unknown status yields a zero Meta and
// Valid() == false.
func (s AvailabilityStatus) Metadata() AvailabilityStatusMeta {
	switch s {
	case AvailabilityAvailable:
		return AvailabilityStatusMeta{Label: "Available"}
	case AvailabilityPreferred:
		return AvailabilityStatusMeta{Label: "Preferred"}
	case AvailabilityAvoid:
		return AvailabilityStatusMeta{Label: "Avoid if possible", Severity: SeverityWarning}
	case AvailabilityUnavailable:
		return AvailabilityStatusMeta{Label: "Unavailable", Severity: SeverityError, Blocks: true}
	}
	return AvailabilityStatusMeta{}
}

// Valid reports whether the status is one of the defined values.
func (s AvailabilityStatus) Valid() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityPreferred, AvailabilityAvoid, AvailabilityUnavailable:
		return true
	}
	return false
}

// Blocks reports whether the status forbids scheduling outright.
func (s AvailabilityStatus) Blocks() bool {
	return s == AvailabilityUnavailable
}

// AvailabilitySlot marks one weekly time range with a status. Times are
// zero-padded "HH:MM" strings so lexicographic comparison is chronological.
type AvailabilitySlot struct {
	DayOfWeek string             `json:"dayOfWeek"`
	StartTime string             `json:"startTime"`
	EndTime   string             `json:"endTime"`
	Status    AvailabilityStatus `json:"status"`
}

// Contains reports whether the given day/start falls inside the slot.
func (s AvailabilitySlot) Contains(day, startTime string) bool {
	return s.DayOfWeek == day && startTime >= s.StartTime && startTime < s.EndTime
}

// DefaultMaxPeriodsPerDay applies to teachers without a submitted template.
const DefaultMaxPeriodsPerDay = 6

// TeacherPreferences captures workload limits and soft scheduling wishes.
type TeacherPreferences struct {
	MaxPeriodsPerDay         int    `json:"maxPeriodsPerDay"`
	MaxPeriodsPerWeek        int    `json:"maxPeriodsPerWeek"`
	PreferredBreakMinutes    int    `json:"preferredBreakMinutes"`
	PreferConsecutiveClasses bool   `json:"preferConsecutiveClasses"`
	AvoidFirstPeriod         bool   `json:"avoidFirstPeriod"`
	AvoidLastPeriod          bool   `json:"avoidLastPeriod"`
	Notes                    string `json:"notes,omitempty"`
}

// DefaultTeacherPreferences returns the preferences assumed for teachers
// who never submitted a template.
func DefaultTeacherPreferences() TeacherPreferences {
	return TeacherPreferences{MaxPeriodsPerDay: DefaultMaxPeriodsPerDay}
}

// AvailabilityTemplate is a teacher's standing weekly availability pattern.
type AvailabilityTemplate struct {
	ID          string             `json:"id"`
	TeacherID   string             `json:"teacherId"`
	Slots       []AvailabilitySlot `json:"slots"`
	Preferences TeacherPreferences `json:"preferences"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// StatusAt resolves the availability status for a day and period start
// time. Absent any matching slot the teacher counts as available.
func (t AvailabilityTemplate) StatusAt(day, startTime string) AvailabilityStatus {
	for _, slot := range t.Slots {
		if slot.Contains(day, startTime) {
			return slot.Status
		}
	}
	return AvailabilityAvailable
}

// EffectiveMaxPerDay returns the daily cap, falling back to the default.
func (t AvailabilityTemplate) EffectiveMaxPerDay() int {
	if t.Preferences.MaxPeriodsPerDay > 0 {
		return t.Preferences.MaxPeriodsPerDay
	}
	return DefaultMaxPeriodsPerDay
}

// AvailabilityException overrides the weekly template for a single date.
// It is display data for upstream consumers; neither the generator nor the
// validator consults it.
type AvailabilityException struct {
	ID        string             `db:"id" json:"id"`
	TeacherID string             `db:"teacher_id" json:"teacherId"`
	Date      time.Time          `db:"date" json:"date"`
	Slots     types.JSONText     `db:"slots" json:"slots"`
	Status    AvailabilityStatus `db:"status" json:"status"`
	Reason    string             `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time          `db:"created_at" json:"createdAt"`
}

// AvailabilityTemplateRecord is the persisted shape of a template, with
// slots and preferences stored as JSONB documents.
type AvailabilityTemplateRecord struct {
	ID          string         `db:"id"`
	TeacherID   string         `db:"teacher_id"`
	Slots       types.JSONText `db:"slots"`
	Preferences types.JSONText `db:"preferences"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
