package models

// Canonical day names used across configs, availability templates and slots.
const (
	DayMonday    = "MONDAY"
	DayTuesday   = "TUESDAY"
	DayWednesday = "WEDNESDAY"
	DayThursday  = "THURSDAY"
	DayFriday    = "FRIDAY"
	DaySaturday  = "SATURDAY"
	DaySunday    = "SUNDAY"
)

var dayOrder = map[string]int{
	DayMonday:    1,
	DayTuesday:   2,
	DayWednesday: 3,
	DayThursday:  4,
	DayFriday:    5,
	DaySaturday:  6,
	DaySunday:    7,
}

// DayIndex returns the ISO weekday index for a canonical day name, 0 if unknown.
func DayIndex(day string) int {
	return dayOrder[day]
}

// Period is one column of the weekly grid. Half-integer period numbers
// denote breaks slotted between teaching periods (e.g. 2.5).
type Period struct {
	Number    float64 `db:"period_number" json:"periodNumber"`
	StartTime string  `db:"start_time" json:"startTime"`
	EndTime   string  `db:"end_time" json:"endTime"`
	IsBreak   bool    `db:"is_break" json:"isBreak"`
	BreakName *string `db:"break_name" json:"breakName,omitempty"`
}

// ScheduleConfig describes the weekly grid for one academic term: the
// ordered list of periods (non-overlapping, increasing by start time) and
// the working days, each distinct and in week order.
type ScheduleConfig struct {
	ID           string   `db:"id" json:"id"`
	AcademicYear string   `db:"academic_year" json:"academicYear"`
	TermID       string   `db:"term_id" json:"termId"`
	WorkingDays  []string `json:"workingDays"`
	Periods      []Period `json:"periods"`
}

// TeachingPeriods returns the non-break periods in config order.
func (c ScheduleConfig) TeachingPeriods() []Period {
	result := make([]Period, 0, len(c.Periods))
	for _, p := range c.Periods {
		if !p.IsBreak {
			result = append(result, p)
		}
	}
	return result
}

// PeriodByNumber looks up a period by its number.
func (c ScheduleConfig) PeriodByNumber(number float64) (Period, bool) {
	for _, p := range c.Periods {
		if p.Number == number {
			return p, true
		}
	}
	return Period{}, false
}

// HasWorkingDay reports whether day is part of the configured week.
func (c ScheduleConfig) HasWorkingDay(day string) bool {
	for _, d := range c.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}
