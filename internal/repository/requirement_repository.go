package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// RequirementRepository reads weekly subject demand per section.
type RequirementRepository struct {
	db *sqlx.DB
}

// NewRequirementRepository builds the repository.
func NewRequirementRepository(db *sqlx.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

// ListBySection returns the requirements for one grade/section, most
// demanding first so callers see the generator's placement order.
func (r *RequirementRepository) ListBySection(ctx context.Context, gradeID, sectionID string) ([]models.SubjectRequirement, error) {
	const query = `SELECT id, grade_id, section_id, subject_id, periods_per_week, assigned_teacher_id,
       room_requirement, requires_double_lesson, created_at, updated_at
FROM subject_requirements WHERE grade_id = $1 AND section_id = $2
ORDER BY periods_per_week DESC, subject_id ASC`
	var requirements []models.SubjectRequirement
	if err := r.db.SelectContext(ctx, &requirements, query, gradeID, sectionID); err != nil {
		return nil, fmt.Errorf("list subject requirements: %w", err)
	}
	return requirements, nil
}
