package models

import "time"

// TimetableStatus represents the lifecycle phase of a section timetable.
type TimetableStatus string

const (
	TimetableStatusDraft     TimetableStatus = "DRAFT"
	TimetableStatusPublished TimetableStatus = "PUBLISHED"
)

// TimetableSlot is one scheduled lesson: a (day, period) assignment of
// subject and teacher, optionally pinned to a room. Start and end times are
// denormalized copies of the period definition. Locked slots survive
// regeneration and bulk clears but stay editable by explicit user action.
type TimetableSlot struct {
	ID             string    `db:"id" json:"id"`
	DayOfWeek      string    `db:"day_of_week" json:"dayOfWeek"`
	PeriodNumber   float64   `db:"period_number" json:"periodNumber"`
	StartTime      string    `db:"start_time" json:"startTime"`
	EndTime        string    `db:"end_time" json:"endTime"`
	SubjectID      string    `db:"subject_id" json:"subjectId"`
	TeacherID      string    `db:"teacher_id" json:"teacherId"`
	RoomID         *string   `db:"room_id" json:"roomId,omitempty"`
	IsLocked       bool      `db:"is_locked" json:"isLocked"`
	IsDoubleLesson bool      `db:"is_double_lesson" json:"isDoubleLesson"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// TimetableRecord tracks the stored timetable for a grade/section/term.
type TimetableRecord struct {
	ID        string          `db:"id" json:"id"`
	GradeID   string          `db:"grade_id" json:"gradeId"`
	SectionID string          `db:"section_id" json:"sectionId"`
	TermID    string          `db:"term_id" json:"termId"`
	Status    TimetableStatus `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}
