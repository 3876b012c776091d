package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

func TestGenerateTimetablePlacesFullDemand(t *testing.T) {
	teacher := "teacher-1"
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-math", PeriodsPerWeek: 6, AssignedTeacherID: &teacher},
		},
	})

	result, err := GenerateTimetable(nil, refs)
	require.NoError(t, err)
	assert.Empty(t, result.Conflicts)
	require.Len(t, result.Slots, 6)
	for _, slot := range result.Slots {
		assert.Equal(t, "subj-math", slot.SubjectID)
		assert.Equal(t, teacher, slot.TeacherID)
		assert.NotEmpty(t, slot.ID)
		assert.False(t, slot.PeriodNumber == 2.5, "breaks are never schedulable")
	}
}

func TestGenerateTimetableSkipsUnavailableDay(t *testing.T) {
	teacher := "teacher-1"
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-math", PeriodsPerWeek: 6, AssignedTeacherID: &teacher},
		},
		availability: []models.AvailabilityTemplate{
			unavailableAllDay(teacher, models.DayMonday),
		},
	})

	result, err := GenerateTimetable(nil, refs)
	require.NoError(t, err)
	assert.Empty(t, result.Conflicts)
	require.Len(t, result.Slots, 6)
	for _, slot := range result.Slots {
		assert.NotEqual(t, models.DayMonday, slot.DayOfWeek)
	}
}

func TestGenerateTimetablePreservesLockedSlots(t *testing.T) {
	teacher := "teacher-1"
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-eng", PeriodsPerWeek: 3, AssignedTeacherID: &teacher},
		},
	})

	locked := gridSlot("slot-locked", models.DayMonday, 1, "subj-math", "teacher-2")
	locked.IsLocked = true
	unlocked := gridSlot("slot-loose", models.DayMonday, 2, "subj-math", "teacher-2")

	result, err := GenerateTimetable([]models.TimetableSlot{locked, unlocked}, refs)
	require.NoError(t, err)

	var kept *models.TimetableSlot
	for i := range result.Slots {
		if result.Slots[i].ID == "slot-locked" {
			kept = &result.Slots[i]
		}
		assert.NotEqual(t, "slot-loose", result.Slots[i].ID, "unlocked slots are discarded")
	}
	require.NotNil(t, kept)
	assert.Equal(t, locked, *kept)
}

func TestGenerateTimetableNeverDoubleBooksTeacher(t *testing.T) {
	t1, t2 := "teacher-1", "teacher-2"
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-math", PeriodsPerWeek: 8, AssignedTeacherID: &t1},
			{ID: "req-2", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-eng", PeriodsPerWeek: 8, AssignedTeacherID: &t2},
			{ID: "req-3", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-sci", PeriodsPerWeek: 8, AssignedTeacherID: &t1},
		},
	})

	result, err := GenerateTimetable(nil, refs)
	require.NoError(t, err)

	type cell struct {
		day       string
		period    float64
		teacherID string
	}
	seen := make(map[cell]bool)
	for _, slot := range result.Slots {
		key := cell{day: slot.DayOfWeek, period: slot.PeriodNumber, teacherID: slot.TeacherID}
		assert.False(t, seen[key], "teacher %s double-booked on %s period %g", slot.TeacherID, slot.DayOfWeek, slot.PeriodNumber)
		seen[key] = true
	}
}

func TestGenerateTimetableOrdersByDemand(t *testing.T) {
	t1, t2 := "teacher-1", "teacher-2"
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-eng", PeriodsPerWeek: 2, AssignedTeacherID: &t2},
			{ID: "req-2", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-math", PeriodsPerWeek: 5, AssignedTeacherID: &t1},
		},
	})

	result, err := GenerateTimetable(nil, refs)
	require.NoError(t, err)
	require.Len(t, result.Slots, 7)

	// Highest periodsPerWeek is placed first, so the first grid cells belong
	// to the math requirement.
	assert.Equal(t, "subj-math", result.Slots[0].SubjectID)
}

func TestGenerateTimetableReportsShortfall(t *testing.T) {
	teacher := "teacher-1"
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-math", PeriodsPerWeek: 40, AssignedTeacherID: &teacher},
		},
	})

	result, err := GenerateTimetable(nil, refs)
	require.NoError(t, err, "infeasibility never fails the call")
	assert.Len(t, result.Slots, 30, "five days of six teaching periods")

	require.Len(t, result.Conflicts, 1)
	conflict := result.Conflicts[0]
	assert.Equal(t, models.ConflictInsufficientSlots, conflict.Type)
	assert.Equal(t, models.SeverityWarning, conflict.Severity)
	assert.Equal(t, "INSUFFICIENT_SLOTS:grade-10:section-a:subj-math", conflict.ID)
	assert.Equal(t, 10, conflict.Meta["shortfall"])
}

func TestGenerateTimetableSkipsUnassignedRequirement(t *testing.T) {
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-math", PeriodsPerWeek: 4},
		},
	})

	result, err := GenerateTimetable(nil, refs)
	require.NoError(t, err)
	assert.Empty(t, result.Slots)
	assert.Empty(t, result.Conflicts)
}

func TestGenerateTimetableIgnoresWorkloadCap(t *testing.T) {
	teacher := "teacher-1"
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-math", PeriodsPerWeek: 6, AssignedTeacherID: &teacher},
		},
		availability: []models.AvailabilityTemplate{
			{TeacherID: teacher, Preferences: models.TeacherPreferences{MaxPeriodsPerDay: 4}},
		},
	})

	// The generator fills Monday's six periods without consulting the daily
	// cap; the validator is the layer that flags the overrun.
	result, err := GenerateTimetable(nil, refs)
	require.NoError(t, err)
	assert.Empty(t, result.Conflicts)
	require.Len(t, result.Slots, 6)
	for _, slot := range result.Slots {
		assert.Equal(t, models.DayMonday, slot.DayOfWeek)
	}

	validation, err := ValidateTimetable(result.Slots, refs)
	require.NoError(t, err)
	assert.True(t, validation.IsValid, "workload overrun is a warning, not a conflict")

	var workload *models.TimetableConflict
	for i := range validation.Warnings {
		if validation.Warnings[i].Type == models.ConflictWorkloadExceeded {
			workload = &validation.Warnings[i]
		}
	}
	require.NotNil(t, workload)
	assert.Equal(t, 6, workload.Meta["currentValue"])
	assert.Equal(t, 4, workload.Meta["maxValue"])
}

func TestGenerateTimetableAssignsRequiredRoom(t *testing.T) {
	teacher := "teacher-1"
	lab := models.RoomTypeLab
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-sci", PeriodsPerWeek: 2, AssignedTeacherID: &teacher, RoomRequirement: &lab},
		},
		rooms: []models.Room{
			{ID: "room-lab-closed", Name: "Old Lab", Type: models.RoomTypeLab, IsActive: false},
			{ID: "room-lab-a", Name: "Lab A", Type: models.RoomTypeLab, IsActive: true},
			{ID: "room-lab-b", Name: "Lab B", Type: models.RoomTypeLab, IsActive: true},
		},
	})

	result, err := GenerateTimetable(nil, refs)
	require.NoError(t, err)
	require.Len(t, result.Slots, 2)
	for _, slot := range result.Slots {
		require.NotNil(t, slot.RoomID)
		assert.Equal(t, "room-lab-a", *slot.RoomID, "first active room of the type wins")
	}
}

func TestGenerateTimetableRejectsUnknownSubject(t *testing.T) {
	teacher := "teacher-1"
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-ghost", PeriodsPerWeek: 2, AssignedTeacherID: &teacher},
		},
	})

	_, err := GenerateTimetable(nil, refs)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestGenerateTimetableRegenerationIsStable(t *testing.T) {
	teacher := "teacher-1"
	refs := newEngineRefs(engineRefsConfig{
		requirements: []models.SubjectRequirement{
			{ID: "req-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "subj-math", PeriodsPerWeek: 4, AssignedTeacherID: &teacher},
		},
	})

	first, err := GenerateTimetable(nil, refs)
	require.NoError(t, err)
	second, err := GenerateTimetable(nil, refs)
	require.NoError(t, err)

	require.Equal(t, len(first.Slots), len(second.Slots))
	for i := range first.Slots {
		assert.Equal(t, first.Slots[i].DayOfWeek, second.Slots[i].DayOfWeek)
		assert.Equal(t, first.Slots[i].PeriodNumber, second.Slots[i].PeriodNumber)
		assert.Equal(t, first.Slots[i].SubjectID, second.Slots[i].SubjectID)
	}
}
