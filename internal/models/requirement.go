package models

import "time"

// SubjectRequirement states that a grade/section must receive a number of
// weekly periods of a subject, taught by the assigned teacher. A requirement
// without an assigned teacher cannot be scheduled and is skipped by the
// generator; the validator reports unmet demand against it regardless.
type SubjectRequirement struct {
	ID                   string    `db:"id" json:"id"`
	GradeID              string    `db:"grade_id" json:"gradeId"`
	SectionID            string    `db:"section_id" json:"sectionId"`
	SubjectID            string    `db:"subject_id" json:"subjectId"`
	PeriodsPerWeek       int       `db:"periods_per_week" json:"periodsPerWeek"`
	AssignedTeacherID    *string   `db:"assigned_teacher_id" json:"assignedTeacherId,omitempty"`
	RoomRequirement      *RoomType `db:"room_requirement" json:"roomRequirement,omitempty"`
	RequiresDoubleLesson bool      `db:"requires_double_lesson" json:"requiresDoubleLesson"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time `db:"updated_at" json:"updatedAt"`
}

// HasTeacher reports whether the requirement can be scheduled at all.
func (r SubjectRequirement) HasTeacher() bool {
	return r.AssignedTeacherID != nil && *r.AssignedTeacherID != ""
}
