package service

import (
	"fmt"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

// ReferenceData bundles the immutable inputs consumed by the validator and
// the generator: the weekly grid, the section's subject demand, teacher
// availability templates and the room/subject catalogs. Callers load it once
// per session; the engine never mutates it.
type ReferenceData struct {
	Config       models.ScheduleConfig
	Requirements []models.SubjectRequirement
	Availability []models.AvailabilityTemplate
	Rooms        []models.Room
	Subjects     []models.Subject
}

func (r ReferenceData) availabilityByTeacher() map[string]models.AvailabilityTemplate {
	index := make(map[string]models.AvailabilityTemplate, len(r.Availability))
	for _, tpl := range r.Availability {
		index[tpl.TeacherID] = tpl
	}
	return index
}

func (r ReferenceData) subjectByID() map[string]models.Subject {
	index := make(map[string]models.Subject, len(r.Subjects))
	for _, subject := range r.Subjects {
		index[subject.ID] = subject
	}
	return index
}

// statusFor resolves a teacher's availability status for a day and start
// time. Teachers without a template count as fully available.
func statusFor(availability map[string]models.AvailabilityTemplate, teacherID, day, startTime string) models.AvailabilityStatus {
	tpl, ok := availability[teacherID]
	if !ok {
		return models.AvailabilityAvailable
	}
	return tpl.StatusAt(day, startTime)
}

// maxPerDayFor returns the daily workload cap for a teacher, defaulting for
// teachers without a submitted template.
func maxPerDayFor(availability map[string]models.AvailabilityTemplate, teacherID string) int {
	tpl, ok := availability[teacherID]
	if !ok {
		return models.DefaultMaxPeriodsPerDay
	}
	return tpl.EffectiveMaxPerDay()
}

// checkSlotDomain rejects slots outside the config's day/period grid or
// referencing subjects absent from the catalog. These are caller defects,
// not validation findings.
func checkSlotDomain(slots []models.TimetableSlot, refs ReferenceData) error {
	subjects := refs.subjectByID()
	for _, slot := range slots {
		if !refs.Config.HasWorkingDay(slot.DayOfWeek) {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("slot %s references non-working day %s", slot.ID, slot.DayOfWeek))
		}
		period, ok := refs.Config.PeriodByNumber(slot.PeriodNumber)
		if !ok || period.IsBreak {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("slot %s references invalid period %g", slot.ID, slot.PeriodNumber))
		}
		if _, ok := subjects[slot.SubjectID]; !ok {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("slot %s references unknown subject %s", slot.ID, slot.SubjectID))
		}
	}
	return nil
}
