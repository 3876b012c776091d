package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// TimetableRepository persists timetable records and their slot sets.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository builds the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// GetRecord returns the timetable record for a grade/section/term tuple.
func (r *TimetableRepository) GetRecord(ctx context.Context, gradeID, sectionID, termID string) (*models.TimetableRecord, error) {
	const query = `SELECT id, grade_id, section_id, term_id, status, created_at, updated_at
FROM timetables WHERE grade_id = $1 AND section_id = $2 AND term_id = $3`
	var record models.TimetableRecord
	if err := r.db.GetContext(ctx, &record, query, gradeID, sectionID, termID); err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateRecord inserts a new draft timetable record.
func (r *TimetableRepository) CreateRecord(ctx context.Context, record *models.TimetableRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `
INSERT INTO timetables (id, grade_id, section_id, term_id, status, created_at, updated_at)
VALUES (:id, :grade_id, :section_id, :term_id, :status, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.db, query, record); err != nil {
		return fmt.Errorf("create timetable record: %w", err)
	}
	return nil
}

// ListSlots returns the stored slots for a timetable, in grid order.
func (r *TimetableRepository) ListSlots(ctx context.Context, timetableID string) ([]models.TimetableSlot, error) {
	const query = `SELECT id, day_of_week, period_number, start_time, end_time, subject_id, teacher_id,
       room_id, is_locked, is_double_lesson, created_at, updated_at
FROM timetable_slots WHERE timetable_id = $1 ORDER BY day_of_week ASC, period_number ASC`
	var slots []models.TimetableSlot
	if err := r.db.SelectContext(ctx, &slots, query, timetableID); err != nil {
		return nil, fmt.Errorf("list timetable slots: %w", err)
	}
	return slots, nil
}

type slotRow struct {
	models.TimetableSlot
	TimetableID string `db:"timetable_id"`
}

// ReplaceSlots swaps the full slot set for a timetable inside the caller's
// transaction.
func (r *TimetableRepository) ReplaceSlots(ctx context.Context, exec sqlx.ExtContext, timetableID string, slots []models.TimetableSlot) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM timetable_slots WHERE timetable_id = $1`, timetableID); err != nil {
		return fmt.Errorf("clear timetable slots: %w", err)
	}

	const query = `
INSERT INTO timetable_slots (id, timetable_id, day_of_week, period_number, start_time, end_time,
                             subject_id, teacher_id, room_id, is_locked, is_double_lesson, created_at, updated_at)
VALUES (:id, :timetable_id, :day_of_week, :period_number, :start_time, :end_time,
        :subject_id, :teacher_id, :room_id, :is_locked, :is_double_lesson, :created_at, :updated_at)`

	now := time.Now().UTC()
	for i := range slots {
		slot := &slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		if slot.UpdatedAt.IsZero() {
			slot.UpdatedAt = now
		}
		row := slotRow{TimetableSlot: *slot, TimetableID: timetableID}
		if _, err := sqlx.NamedExecContext(ctx, target, query, row); err != nil {
			return fmt.Errorf("insert timetable slot: %w", err)
		}
	}
	return nil
}

// UpdateStatus moves a timetable between draft and published.
func (r *TimetableRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, timetableID string, status models.TimetableStatus) error {
	target := r.exec(exec)
	result, err := target.ExecContext(ctx,
		`UPDATE timetables SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), timetableID)
	if err != nil {
		return fmt.Errorf("update timetable status: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("timetable %s not found", timetableID)
	}
	return nil
}
