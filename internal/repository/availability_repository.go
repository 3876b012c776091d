package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/timetable-api/internal/models"
)

// AvailabilityRepository persists teacher weekly availability templates.
// Slots and preferences are stored as JSONB documents.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository builds the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// GetByTeacher returns one teacher's template, sql.ErrNoRows if absent.
func (r *AvailabilityRepository) GetByTeacher(ctx context.Context, teacherID string) (*models.AvailabilityTemplate, error) {
	const query = `SELECT id, teacher_id, slots, preferences, updated_at
FROM availability_templates WHERE teacher_id = $1`
	var record models.AvailabilityTemplateRecord
	if err := r.db.GetContext(ctx, &record, query, teacherID); err != nil {
		return nil, err
	}
	return decodeTemplate(record)
}

// ListByTeachers returns templates for the given teachers; teachers without
// one are simply absent from the result.
func (r *AvailabilityRepository) ListByTeachers(ctx context.Context, teacherIDs []string) ([]models.AvailabilityTemplate, error) {
	if len(teacherIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, teacher_id, slots, preferences, updated_at
FROM availability_templates WHERE teacher_id IN (?)`, teacherIDs)
	if err != nil {
		return nil, fmt.Errorf("build availability query: %w", err)
	}
	query = r.db.Rebind(query)

	var records []models.AvailabilityTemplateRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list availability templates: %w", err)
	}

	templates := make([]models.AvailabilityTemplate, 0, len(records))
	for _, record := range records {
		template, err := decodeTemplate(record)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *template)
	}
	return templates, nil
}

// Upsert replaces a teacher's template.
func (r *AvailabilityRepository) Upsert(ctx context.Context, template *models.AvailabilityTemplate) error {
	slots, err := json.Marshal(template.Slots)
	if err != nil {
		return fmt.Errorf("encode availability slots: %w", err)
	}
	preferences, err := json.Marshal(template.Preferences)
	if err != nil {
		return fmt.Errorf("encode teacher preferences: %w", err)
	}

	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	if template.UpdatedAt.IsZero() {
		template.UpdatedAt = time.Now().UTC()
	}

	record := models.AvailabilityTemplateRecord{
		ID:          template.ID,
		TeacherID:   template.TeacherID,
		Slots:       types.JSONText(slots),
		Preferences: types.JSONText(preferences),
		UpdatedAt:   template.UpdatedAt,
	}

	const query = `
INSERT INTO availability_templates (id, teacher_id, slots, preferences, updated_at)
VALUES (:id, :teacher_id, :slots, :preferences, :updated_at)
ON CONFLICT (teacher_id) DO UPDATE
SET slots = EXCLUDED.slots,
    preferences = EXCLUDED.preferences,
    updated_at = EXCLUDED.updated_at`

	if _, err := sqlx.NamedExecContext(ctx, r.db, query, record); err != nil {
		return fmt.Errorf("upsert availability template: %w", err)
	}
	return nil
}

func decodeTemplate(record models.AvailabilityTemplateRecord) (*models.AvailabilityTemplate, error) {
	template := &models.AvailabilityTemplate{
		ID:          record.ID,
		TeacherID:   record.TeacherID,
		Preferences: models.DefaultTeacherPreferences(),
		UpdatedAt:   record.UpdatedAt,
	}
	if len(record.Slots) > 0 {
		if err := json.Unmarshal(record.Slots, &template.Slots); err != nil {
			return nil, fmt.Errorf("decode availability slots for %s: %w", record.TeacherID, err)
		}
	}
	if len(record.Preferences) > 0 {
		if err := json.Unmarshal(record.Preferences, &template.Preferences); err != nil {
			return nil, fmt.Errorf("decode teacher preferences for %s: %w", record.TeacherID, err)
		}
	}
	return template, nil
}
