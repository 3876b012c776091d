package dto

import "github.com/noah-isme/timetable-api/internal/models"

// SessionQuery identifies the timetable session for one grade/section/term.
type SessionQuery struct {
	GradeID   string `form:"gradeId" json:"gradeId" validate:"required"`
	SectionID string `form:"sectionId" json:"sectionId" validate:"required"`
	TermID    string `form:"termId" json:"termId" validate:"required"`
}

// PlaceSlotRequest places a lesson into a grid cell, or updates the lesson
// already there (the slot keeps its id).
type PlaceSlotRequest struct {
	DayOfWeek    string  `json:"dayOfWeek" validate:"required"`
	PeriodNumber float64 `json:"periodNumber" validate:"required"`
	SubjectID    string  `json:"subjectId" validate:"required"`
	TeacherID    string  `json:"teacherId" validate:"required"`
	RoomID       *string `json:"roomId,omitempty"`
	Locked       bool    `json:"locked"`
	DoubleLesson bool    `json:"doubleLesson"`
}

// TimetableView is the session snapshot returned after reads and edits.
type TimetableView struct {
	Record     models.TimetableRecord  `json:"record"`
	Slots      []models.TimetableSlot  `json:"slots"`
	Validation models.ValidationResult `json:"validation"`
}

// RegenerateResponse returns the rebuilt slot set with generator warnings
// and the freshly derived validation report.
type RegenerateResponse struct {
	Slots      []models.TimetableSlot     `json:"slots"`
	Conflicts  []models.TimetableConflict `json:"conflicts"`
	Validation models.ValidationResult    `json:"validation"`
}

// PublishResponse confirms a successful publish.
type PublishResponse struct {
	TimetableID string                 `json:"timetableId"`
	Status      models.TimetableStatus `json:"status"`
}
