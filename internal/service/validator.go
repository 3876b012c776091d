package service

import (
	"fmt"

	"github.com/noah-isme/timetable-api/internal/models"
)

// ValidateTimetable inspects one section's slot set against the reference
// data and reports hard conflicts and soft warnings. It is pure and
// deterministic: identical input yields an identical report, including the
// synthetic conflict IDs, which are derived from the offending keys.
//
// Malformed input (slots outside the configured grid, unknown subject ids)
// is a caller error and returns a typed validation error instead of a
// report.
func ValidateTimetable(slots []models.TimetableSlot, refs ReferenceData) (models.ValidationResult, error) {
	if err := checkSlotDomain(slots, refs); err != nil {
		return models.ValidationResult{}, err
	}

	availability := refs.availabilityByTeacher()
	conflicts := make([]models.TimetableConflict, 0)
	warnings := make([]models.TimetableConflict, 0)

	conflicts = append(conflicts, doubleBookingConflicts(slots)...)

	unavailable, avoided := availabilityConflicts(slots, availability)
	conflicts = append(conflicts, unavailable...)
	warnings = append(warnings, avoided...)

	warnings = append(warnings, workloadWarnings(slots, availability)...)
	warnings = append(warnings, demandWarnings(slots, refs.Requirements)...)

	summary := summarize(slots, refs.Config, len(conflicts), len(warnings))

	return models.ValidationResult{
		IsValid:   len(conflicts) == 0,
		Conflicts: conflicts,
		Warnings:  warnings,
		Summary:   summary,
	}, nil
}

type bookingKey struct {
	day       string
	period    float64
	teacherID string
}

// doubleBookingConflicts reports one conflict per (day, period, teacher)
// group that holds more than one slot. Findings are emitted in first-seen
// input order.
func doubleBookingConflicts(slots []models.TimetableSlot) []models.TimetableConflict {
	groups := make(map[bookingKey][]string)
	order := make([]bookingKey, 0)
	for _, slot := range slots {
		key := bookingKey{day: slot.DayOfWeek, period: slot.PeriodNumber, teacherID: slot.TeacherID}
		if len(groups[key]) == 0 {
			order = append(order, key)
		}
		groups[key] = append(groups[key], slot.ID)
	}

	var result []models.TimetableConflict
	for _, key := range order {
		ids := groups[key]
		if len(ids) < 2 {
			continue
		}
		result = append(result, models.TimetableConflict{
			ID:           fmt.Sprintf("%s:%s:%g:%s", models.ConflictTeacherDoubleBooking, key.day, key.period, key.teacherID),
			Type:         models.ConflictTeacherDoubleBooking,
			Severity:     models.SeverityError,
			Message:      fmt.Sprintf("teacher %s is booked %d times on %s period %g", key.teacherID, len(ids), key.day, key.period),
			DayOfWeek:    key.day,
			PeriodNumber: key.period,
			TeacherID:    key.teacherID,
			Meta:         map[string]any{"slotIds": ids},
		})
	}
	return result
}

// availabilityConflicts checks each slot against the teacher's weekly
// template. UNAVAILABLE is a hard conflict, AVOID a soft warning; every
// other status is an acceptable placement.
func availabilityConflicts(slots []models.TimetableSlot, availability map[string]models.AvailabilityTemplate) (conflicts, warnings []models.TimetableConflict) {
	for _, slot := range slots {
		status := statusFor(availability, slot.TeacherID, slot.DayOfWeek, slot.StartTime)
		switch status {
		case models.AvailabilityUnavailable:
			conflicts = append(conflicts, models.TimetableConflict{
				ID:           fmt.Sprintf("%s:%s:%g:%s", models.ConflictTeacherUnavailable, slot.DayOfWeek, slot.PeriodNumber, slot.TeacherID),
				Type:         models.ConflictTeacherUnavailable,
				Severity:     models.SeverityError,
				Message:      fmt.Sprintf("teacher %s is unavailable on %s at %s", slot.TeacherID, slot.DayOfWeek, slot.StartTime),
				DayOfWeek:    slot.DayOfWeek,
				PeriodNumber: slot.PeriodNumber,
				TeacherID:    slot.TeacherID,
				SubjectID:    slot.SubjectID,
			})
		case models.AvailabilityAvoid:
			warnings = append(warnings, models.TimetableConflict{
				ID:           fmt.Sprintf("%s:%s:%g:%s", models.ConflictTeacherAvoidSlot, slot.DayOfWeek, slot.PeriodNumber, slot.TeacherID),
				Type:         models.ConflictTeacherAvoidSlot,
				Severity:     models.SeverityWarning,
				Message:      fmt.Sprintf("teacher %s prefers to avoid %s at %s", slot.TeacherID, slot.DayOfWeek, slot.StartTime),
				DayOfWeek:    slot.DayOfWeek,
				PeriodNumber: slot.PeriodNumber,
				TeacherID:    slot.TeacherID,
				SubjectID:    slot.SubjectID,
			})
		}
	}
	return conflicts, warnings
}

type workloadKey struct {
	teacherID string
	day       string
}

// workloadWarnings flags teachers whose daily slot count exceeds their
// maxPeriodsPerDay. The weekly cap is tracked in preferences but
// deliberately not enforced here.
func workloadWarnings(slots []models.TimetableSlot, availability map[string]models.AvailabilityTemplate) []models.TimetableConflict {
	counts := make(map[workloadKey]int)
	order := make([]workloadKey, 0)
	for _, slot := range slots {
		key := workloadKey{teacherID: slot.TeacherID, day: slot.DayOfWeek}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	var result []models.TimetableConflict
	for _, key := range order {
		max := maxPerDayFor(availability, key.teacherID)
		current := counts[key]
		if current <= max {
			continue
		}
		result = append(result, models.TimetableConflict{
			ID:        fmt.Sprintf("%s:%s:%s", models.ConflictWorkloadExceeded, key.teacherID, key.day),
			Type:      models.ConflictWorkloadExceeded,
			Severity:  models.SeverityWarning,
			Message:   fmt.Sprintf("teacher %s has %d periods on %s, above the limit of %d", key.teacherID, current, key.day, max),
			DayOfWeek: key.day,
			TeacherID: key.teacherID,
			Meta:      map[string]any{"currentValue": current, "maxValue": max},
		})
	}
	return result
}

// demandWarnings flags requirements whose weekly period count is not met by
// the slot set.
func demandWarnings(slots []models.TimetableSlot, requirements []models.SubjectRequirement) []models.TimetableConflict {
	bySubject := make(map[string]int)
	for _, slot := range slots {
		bySubject[slot.SubjectID]++
	}

	var result []models.TimetableConflict
	for _, req := range requirements {
		current := bySubject[req.SubjectID]
		if current >= req.PeriodsPerWeek {
			continue
		}
		result = append(result, models.TimetableConflict{
			ID:        fmt.Sprintf("%s:%s:%s:%s", models.ConflictInsufficientPeriods, req.GradeID, req.SectionID, req.SubjectID),
			Type:      models.ConflictInsufficientPeriods,
			Severity:  models.SeverityWarning,
			Message:   fmt.Sprintf("subject %s has %d of %d required periods", req.SubjectID, current, req.PeriodsPerWeek),
			SubjectID: req.SubjectID,
			Meta:      map[string]any{"currentValue": current, "requiredValue": req.PeriodsPerWeek},
		})
	}
	return result
}

func summarize(slots []models.TimetableSlot, config models.ScheduleConfig, conflictCount, warningCount int) models.ValidationSummary {
	total := len(config.TeachingPeriods()) * len(config.WorkingDays)
	locked := 0
	for _, slot := range slots {
		if slot.IsLocked {
			locked++
		}
	}
	return models.ValidationSummary{
		TotalSlots:    total,
		FilledSlots:   len(slots),
		EmptySlots:    total - len(slots),
		LockedSlots:   locked,
		ConflictCount: conflictCount,
		WarningCount:  warningCount,
	}
}
