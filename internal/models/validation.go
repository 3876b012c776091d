package models

// ConflictSeverity classifies a validation finding. Errors block
// publishing; warnings are advisory.
type ConflictSeverity string

const (
	SeverityError   ConflictSeverity = "ERROR"
	SeverityWarning ConflictSeverity = "WARNING"
)

// ConflictType enumerates the rule checks that can fire.
type ConflictType string

const (
	ConflictTeacherDoubleBooking ConflictType = "TEACHER_DOUBLE_BOOKING"
	ConflictTeacherUnavailable   ConflictType = "TEACHER_UNAVAILABLE"
	ConflictTeacherAvoidSlot     ConflictType = "TEACHER_AVOID_SLOT"
	ConflictWorkloadExceeded     ConflictType = "WORKLOAD_EXCEEDED"
	ConflictInsufficientPeriods  ConflictType = "INSUFFICIENT_PERIODS"
	ConflictInsufficientSlots    ConflictType = "INSUFFICIENT_SLOTS"
)

// TimetableConflict is one validation finding. The ID is synthesised from
// the offending key so identical input always yields identical IDs.
type TimetableConflict struct {
	ID           string           `json:"id"`
	Type         ConflictType     `json:"type"`
	Severity     ConflictSeverity `json:"severity"`
	Message      string           `json:"message"`
	DayOfWeek    string           `json:"dayOfWeek,omitempty"`
	PeriodNumber float64          `json:"periodNumber,omitempty"`
	TeacherID    string           `json:"teacherId,omitempty"`
	SubjectID    string           `json:"subjectId,omitempty"`
	Meta         map[string]any   `json:"meta,omitempty"`
}

// ValidationSummary aggregates slot counts for the validated grid.
type ValidationSummary struct {
	TotalSlots    int `json:"totalSlots"`
	FilledSlots   int `json:"filledSlots"`
	EmptySlots    int `json:"emptySlots"`
	LockedSlots   int `json:"lockedSlots"`
	ConflictCount int `json:"conflictCount"`
	WarningCount  int `json:"warningCount"`
}

// ValidationResult is the full report for one section's slot set.
// IsValid is true exactly when no error-severity conflicts exist; warnings
// never flip it.
type ValidationResult struct {
	IsValid   bool                `json:"isValid"`
	Conflicts []TimetableConflict `json:"conflicts"`
	Warnings  []TimetableConflict `json:"warnings"`
	Summary   ValidationSummary   `json:"summary"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
