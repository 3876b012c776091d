package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

func TestValidateTimetableCleanGrid(t *testing.T) {
	refs := newEngineRefs(engineRefsConfig{})
	slots := []models.TimetableSlot{
		gridSlot("slot-1", models.DayMonday, 1, "subj-math", "teacher-1"),
		gridSlot("slot-2", models.DayMonday, 2, "subj-eng", "teacher-2"),
	}

	result, err := ValidateTimetable(slots, refs)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 30, result.Summary.TotalSlots)
	assert.Equal(t, 2, result.Summary.FilledSlots)
	assert.Equal(t, 28, result.Summary.EmptySlots)
}

func TestValidateTimetableIsIdempotent(t *testing.T) {
	refs := newEngineRefs(engineRefsConfig{
		availability: []models.AvailabilityTemplate{
			unavailableAllDay("teacher-1", models.DayMonday),
		},
	})
	slots := []models.TimetableSlot{
		gridSlot("slot-1", models.DayMonday, 1, "subj-math", "teacher-1"),
		gridSlot("slot-2", models.DayMonday, 1, "subj-math", "teacher-1"),
		gridSlot("slot-3", models.DayTuesday, 2, "subj-eng", "teacher-2"),
	}

	first, err := ValidateTimetable(slots, refs)
	require.NoError(t, err)
	second, err := ValidateTimetable(slots, refs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidateTimetableSeededDoubleBooking(t *testing.T) {
	refs := newEngineRefs(engineRefsConfig{})
	slots := []models.TimetableSlot{
		gridSlot("slot-1", models.DayMonday, 1, "subj-math", "teacher-1"),
		gridSlot("slot-2", models.DayMonday, 1, "subj-eng", "teacher-1"),
	}

	result, err := ValidateTimetable(slots, refs)
	require.NoError(t, err)
	require.Len(t, result.Conflicts, 1)

	conflict := result.Conflicts[0]
	assert.Equal(t, models.ConflictTeacherDoubleBooking, conflict.Type)
	assert.Equal(t, models.SeverityError, conflict.Severity)
	assert.Equal(t, "TEACHER_DOUBLE_BOOKING:MONDAY:1:teacher-1", conflict.ID)
	assert.ElementsMatch(t, []string{"slot-1", "slot-2"}, conflict.Meta["slotIds"])
	assert.False(t, result.IsValid)
}

func TestValidateTimetableAvailabilitySeverities(t *testing.T) {
	refs := newEngineRefs(engineRefsConfig{
		availability: []models.AvailabilityTemplate{
			{
				TeacherID: "teacher-1",
				Slots: []models.AvailabilitySlot{
					{DayOfWeek: models.DayMonday, StartTime: "08:00", EndTime: "09:30", Status: models.AvailabilityUnavailable},
					{DayOfWeek: models.DayTuesday, StartTime: "08:00", EndTime: "09:30", Status: models.AvailabilityAvoid},
				},
			},
		},
	})
	slots := []models.TimetableSlot{
		gridSlot("slot-1", models.DayMonday, 1, "subj-math", "teacher-1"),
		gridSlot("slot-2", models.DayTuesday, 1, "subj-math", "teacher-1"),
	}

	result, err := ValidateTimetable(slots, refs)
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictTeacherUnavailable, result.Conflicts[0].Type)
	assert.Equal(t, models.SeverityError, result.Conflicts[0].Severity)

	require.NotEmpty(t, result.Warnings)
	assert.Equal(t, models.ConflictTeacherAvoidSlot, result.Warnings[0].Type)
	assert.Equal(t, models.SeverityWarning, result.Warnings[0].Severity)
	assert.False(t, result.IsValid)
}

func TestValidateTimetableWorkloadExceeded(t *testing.T) {
	refs := newEngineRefs(engineRefsConfig{})
	slots := make([]models.TimetableSlot, 0, 7)
	for i, day := range []string{models.DayMonday, models.DayMonday, models.DayMonday, models.DayMonday, models.DayMonday, models.DayMonday, models.DayTuesday} {
		period := float64(i%6 + 1)
		slots = append(slots, gridSlot(slotID(i), day, period, "subj-math", "teacher-1"))
	}
	// 6 on Monday stays within the default cap; push one more in.
	slots = append(slots, gridSlot("slot-extra", models.DayMonday, 6, "subj-eng", "teacher-1"))

	result, err := ValidateTimetable(slots, refs)
	require.NoError(t, err)

	var workload *models.TimetableConflict
	for i := range result.Warnings {
		if result.Warnings[i].Type == models.ConflictWorkloadExceeded {
			workload = &result.Warnings[i]
		}
	}
	require.NotNil(t, workload)
	assert.Equal(t, models.DayMonday, workload.DayOfWeek)
	assert.Equal(t, "teacher-1", workload.TeacherID)
	assert.Equal(t, 7, workload.Meta["currentValue"])
	assert.Equal(t, 6, workload.Meta["maxValue"])
}

func TestValidateTimetableWeeklyCapNotEnforced(t *testing.T) {
	refs := newEngineRefs(engineRefsConfig{
		availability: []models.AvailabilityTemplate{
			{
				TeacherID:   "teacher-1",
				Preferences: models.TeacherPreferences{MaxPeriodsPerDay: 6, MaxPeriodsPerWeek: 4},
			},
		},
	})
	// 5 periods across the week exceed maxPeriodsPerWeek=4, but no day
	// exceeds the daily cap. The weekly limit is advisory data only.
	slots := []models.TimetableSlot{
		gridSlot("slot-1", models.DayMonday, 1, "subj-math", "teacher-1"),
		gridSlot("slot-2", models.DayTuesday, 1, "subj-math", "teacher-1"),
		gridSlot("slot-3", models.DayWednesday, 1, "subj-math", "teacher-1"),
		gridSlot("slot-4", models.DayThursday, 1, "subj-math", "teacher-1"),
		gridSlot("slot-5", models.DayFriday, 1, "subj-math", "teacher-1"),
	}

	result, err := ValidateTimetable(slots, refs)
	require.NoError(t, err)
	for _, warning := range result.Warnings {
		assert.NotEqual(t, models.ConflictWorkloadExceeded, warning.Type)
	}
	assert.True(t, result.IsValid)
}

func TestValidateTimetableInsufficientPeriods(t *testing.T) {
	teacher := "teacher-1"
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-math", PeriodsPerWeek: 4, AssignedTeacherID: &teacher},
		},
	})
	slots := []models.TimetableSlot{
		gridSlot("slot-1", models.DayMonday, 1, "subj-math", teacher),
	}

	result, err := ValidateTimetable(slots, refs)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	warning := result.Warnings[0]
	assert.Equal(t, models.ConflictInsufficientPeriods, warning.Type)
	assert.Equal(t, "INSUFFICIENT_PERIODS:grade-10:section-a:subj-math", warning.ID)
	assert.Equal(t, 1, warning.Meta["currentValue"])
	assert.Equal(t, 4, warning.Meta["requiredValue"])
	assert.True(t, result.IsValid, "warnings alone never invalidate the grid")
}

func TestValidateTimetableRejectsOutOfDomainSlots(t *testing.T) {
	refs := newEngineRefs(engineRefsConfig{})

	cases := map[string]models.TimetableSlot{
		"non-working day": gridSlot("slot-1", models.DaySunday, 1, "subj-math", "teacher-1"),
		"break period":    gridSlot("slot-2", models.DayMonday, 2.5, "subj-math", "teacher-1"),
		"unknown subject": gridSlot("slot-3", models.DayMonday, 1, "subj-ghost", "teacher-1"),
	}

	for name, slot := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateTimetable([]models.TimetableSlot{slot}, refs)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		})
	}
}

// --- Fixtures ---

type engineRefsConfig struct {
	requirements []models.SubjectRequirement
	availability []models.AvailabilityTemplate
	rooms        []models.Room
}

// newEngineRefs builds a Monday-Friday grid with six teaching periods and a
// mid-morning break, plus a small subject catalog.
func newEngineRefs(cfg engineRefsConfig) ReferenceData {
	lab := models.RoomTypeLab
	rooms := cfg.rooms
	if rooms == nil {
		rooms = []models.Room{
			{ID: "room-101", Name: "101", Type: models.RoomTypeClassroom, Capacity: 30, IsActive: true},
			{ID: "room-lab-a", Name: "Lab A", Type: models.RoomTypeLab, Capacity: 24, IsActive: true},
		}
	}
	return ReferenceData{
		Config:       newEngineGrid(),
		Requirements: cfg.requirements,
		Availability: cfg.availability,
		Rooms:        rooms,
		Subjects: []models.Subject{
			{ID: "subj-math", Code: "MATH", Name: "Mathematics"},
			{ID: "subj-eng", Code: "ENG", Name: "English"},
			{ID: "subj-sci", Code: "SCI", Name: "Science", RoomRequirement: &lab},
		},
	}
}

func newEngineGrid() models.ScheduleConfig {
	return models.ScheduleConfig{
		ID:           "config-1",
		AcademicYear: "2025/2026",
		TermID:       "term-1",
		WorkingDays:  []string{models.DayMonday, models.DayTuesday, models.DayWednesday, models.DayThursday, models.DayFriday},
		Periods: []models.Period{
			{Number: 1, StartTime: "08:00", EndTime: "08:45"},
			{Number: 2, StartTime: "08:45", EndTime: "09:30"},
			{Number: 2.5, StartTime: "09:30", EndTime: "09:50", IsBreak: true},
			{Number: 3, StartTime: "09:50", EndTime: "10:35"},
			{Number: 4, StartTime: "10:35", EndTime: "11:20"},
			{Number: 5, StartTime: "11:20", EndTime: "12:05"},
			{Number: 6, StartTime: "12:05", EndTime: "12:50"},
		},
	}
}

func gridSlot(id, day string, period float64, subjectID, teacherID string) models.TimetableSlot {
	start, end := periodTimes(period)
	return models.TimetableSlot{
		ID:           id,
		DayOfWeek:    day,
		PeriodNumber: period,
		StartTime:    start,
		EndTime:      end,
		SubjectID:    subjectID,
		TeacherID:    teacherID,
	}
}

func periodTimes(number float64) (string, string) {
	for _, p := range newEngineGrid().Periods {
		if p.Number == number {
			return p.StartTime, p.EndTime
		}
	}
	return "08:00", "08:45"
}

func unavailableAllDay(teacherID, day string) models.AvailabilityTemplate {
	return models.AvailabilityTemplate{
		TeacherID: teacherID,
		Slots: []models.AvailabilitySlot{
			{DayOfWeek: day, StartTime: "00:00", EndTime: "23:59", Status: models.AvailabilityUnavailable},
		},
	}
}

func slotID(i int) string {
	return "slot-" + string(rune('a'+i))
}
