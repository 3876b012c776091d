package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/timetable-api/internal/models"
)

// ScheduleConfigRepository loads the weekly grid definition for a term.
type ScheduleConfigRepository struct {
	db *sqlx.DB
}

// NewScheduleConfigRepository builds the repository.
func NewScheduleConfigRepository(db *sqlx.DB) *ScheduleConfigRepository {
	return &ScheduleConfigRepository{db: db}
}

type scheduleConfigRow struct {
	ID           string         `db:"id"`
	AcademicYear string         `db:"academic_year"`
	TermID       string         `db:"term_id"`
	WorkingDays  pq.StringArray `db:"working_days"`
}

// GetByTerm returns the schedule config with its ordered period list.
func (r *ScheduleConfigRepository) GetByTerm(ctx context.Context, termID string) (*models.ScheduleConfig, error) {
	const configQuery = `SELECT id, academic_year, term_id, working_days
FROM schedule_configs WHERE term_id = $1`

	var row scheduleConfigRow
	if err := r.db.GetContext(ctx, &row, configQuery, termID); err != nil {
		return nil, err
	}

	const periodsQuery = `SELECT period_number, start_time, end_time, is_break, break_name
FROM schedule_periods WHERE config_id = $1 ORDER BY start_time ASC`

	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, periodsQuery, row.ID); err != nil {
		return nil, fmt.Errorf("list schedule periods: %w", err)
	}

	return &models.ScheduleConfig{
		ID:           row.ID,
		AcademicYear: row.AcademicYear,
		TermID:       row.TermID,
		WorkingDays:  []string(row.WorkingDays),
		Periods:      periods,
	}, nil
}
