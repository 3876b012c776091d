package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

// GenerationResult carries the produced slot set plus warnings for
// requirements the greedy pass could not fully satisfy.
type GenerationResult struct {
	Slots     []models.TimetableSlot     `json:"slots"`
	Conflicts []models.TimetableConflict `json:"conflicts"`
}

type gridKey struct {
	day    string
	period float64
}

// GenerateTimetable builds a best-effort weekly assignment for one section
// using a single greedy first-fit pass. Locked slots from existing survive
// unchanged and their teachers are marked occupied up front; unlocked
// existing slots are discarded. Requirements are placed most-demanding
// first; within a requirement the scan walks working days in config order
// and teaching periods in grid order, skipping taken cells, teacher
// collisions and UNAVAILABLE availability. AVOID placements are accepted
// (first fit, no preference ranking) and left for the validator to flag.
// Room requirements resolve to the first active room of the matching type
// with no occupancy check; overlapping room use across sections is a known
// limitation of the current allocator.
//
// Infeasibility never fails the call: shortfalls surface as
// INSUFFICIENT_SLOTS warnings. Only malformed input returns an error.
func GenerateTimetable(existing []models.TimetableSlot, refs ReferenceData) (GenerationResult, error) {
	if len(refs.Config.WorkingDays) == 0 || len(refs.Config.TeachingPeriods()) == 0 {
		return GenerationResult{}, appErrors.Clone(appErrors.ErrValidation, "schedule config has no schedulable day/period grid")
	}
	if err := checkRequirementSubjects(refs); err != nil {
		return GenerationResult{}, err
	}

	availability := refs.availabilityByTeacher()
	teachingPeriods := refs.Config.TeachingPeriods()

	slots := make([]models.TimetableSlot, 0, len(existing))
	taken := make(map[gridKey]bool)
	occupied := make(map[gridKey]map[string]bool)

	for _, slot := range existing {
		if !slot.IsLocked {
			continue
		}
		key := gridKey{day: slot.DayOfWeek, period: slot.PeriodNumber}
		slots = append(slots, slot)
		taken[key] = true
		if occupied[key] == nil {
			occupied[key] = make(map[string]bool)
		}
		occupied[key][slot.TeacherID] = true
	}

	ordered := make([]models.SubjectRequirement, len(refs.Requirements))
	copy(ordered, refs.Requirements)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PeriodsPerWeek > ordered[j].PeriodsPerWeek
	})

	conflicts := make([]models.TimetableConflict, 0)

	for _, req := range ordered {
		if !req.HasTeacher() {
			continue
		}
		teacherID := *req.AssignedTeacherID

		remaining := req.PeriodsPerWeek - countSubject(slots, req.SubjectID)
		if remaining <= 0 {
			continue
		}

	scan:
		for _, day := range refs.Config.WorkingDays {
			for _, period := range teachingPeriods {
				if remaining == 0 {
					break scan
				}
				key := gridKey{day: day, period: period.Number}
				if taken[key] {
					continue
				}
				if occupied[key][teacherID] {
					continue
				}
				if statusFor(availability, teacherID, day, period.StartTime) == models.AvailabilityUnavailable {
					continue
				}

				slot := models.TimetableSlot{
					ID:           uuid.NewString(),
					DayOfWeek:    day,
					PeriodNumber: period.Number,
					StartTime:    period.StartTime,
					EndTime:      period.EndTime,
					SubjectID:    req.SubjectID,
					TeacherID:    teacherID,
					RoomID:       pickRoom(refs.Rooms, req.RoomRequirement),
					CreatedAt:    time.Now().UTC(),
				}
				slots = append(slots, slot)
				taken[key] = true
				if occupied[key] == nil {
					occupied[key] = make(map[string]bool)
				}
				occupied[key][teacherID] = true
				remaining--
			}
		}

		if remaining > 0 {
			conflicts = append(conflicts, models.TimetableConflict{
				ID:        fmt.Sprintf("%s:%s:%s:%s", models.ConflictInsufficientSlots, req.GradeID, req.SectionID, req.SubjectID),
				Type:      models.ConflictInsufficientSlots,
				Severity:  models.SeverityWarning,
				Message:   fmt.Sprintf("could not place %d of %d periods for subject %s", remaining, req.PeriodsPerWeek, req.SubjectID),
				SubjectID: req.SubjectID,
				TeacherID: teacherID,
				Meta:      map[string]any{"requiredValue": req.PeriodsPerWeek, "shortfall": remaining},
			})
		}
	}

	return GenerationResult{Slots: slots, Conflicts: conflicts}, nil
}

func checkRequirementSubjects(refs ReferenceData) error {
	subjects := refs.subjectByID()
	for _, req := range refs.Requirements {
		if _, ok := subjects[req.SubjectID]; !ok {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("requirement %s references unknown subject %s", req.ID, req.SubjectID))
		}
	}
	return nil
}

func countSubject(slots []models.TimetableSlot, subjectID string) int {
	count := 0
	for _, slot := range slots {
		if slot.SubjectID == subjectID {
			count++
		}
	}
	return count
}

// pickRoom returns the first active room of the required type, nil when the
// requirement is unset or no room matches.
func pickRoom(rooms []models.Room, required *models.RoomType) *string {
	if required == nil || *required == "" {
		return nil
	}
	for _, room := range rooms {
		if room.IsActive && room.Type == *required {
			id := room.ID
			return &id
		}
	}
	return nil
}
