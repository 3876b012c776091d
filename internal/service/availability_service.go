package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type availabilityStore interface {
	GetByTeacher(ctx context.Context, teacherID string) (*models.AvailabilityTemplate, error)
	Upsert(ctx context.Context, template *models.AvailabilityTemplate) error
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// AvailabilityService manages teacher weekly availability templates.
type AvailabilityService struct {
	store     availabilityStore
	teachers  teacherReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService wires the availability dependencies.
func NewAvailabilityService(store availabilityStore, teachers teacherReader, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{store: store, teachers: teachers, validator: validate, logger: logger}
}

// Get returns a teacher's template. Teachers who never submitted one get
// the implicit default: fully available, default workload limits.
func (s *AvailabilityService) Get(ctx context.Context, teacherID string) (*models.AvailabilityTemplate, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	template, err := s.store.GetByTeacher(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.AvailabilityTemplate{
				TeacherID:   teacherID,
				Preferences: models.DefaultTeacherPreferences(),
			}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability template")
	}
	return template, nil
}

// Upsert replaces a teacher's weekly template.
func (s *AvailabilityService) Upsert(ctx context.Context, teacherID string, req dto.UpsertAvailabilityRequest) (*models.AvailabilityTemplate, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	if s.teachers != nil {
		if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
	}

	slots := make([]models.AvailabilitySlot, 0, len(req.Slots))
	for _, payload := range req.Slots {
		if models.DayIndex(payload.DayOfWeek) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %s", payload.DayOfWeek))
		}
		if !payload.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown availability status %s", payload.Status))
		}
		if !timeOfDayPattern.MatchString(payload.StartTime) || !timeOfDayPattern.MatchString(payload.EndTime) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "times must be zero-padded HH:MM")
		}
		if payload.StartTime >= payload.EndTime {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot on %s ends before it starts", payload.DayOfWeek))
		}
		slots = append(slots, models.AvailabilitySlot{
			DayOfWeek: payload.DayOfWeek,
			StartTime: payload.StartTime,
			EndTime:   payload.EndTime,
			Status:    payload.Status,
		})
	}

	template := &models.AvailabilityTemplate{
		TeacherID: teacherID,
		Slots:     slots,
		Preferences: models.TeacherPreferences{
			MaxPeriodsPerDay:         req.Preferences.MaxPeriodsPerDay,
			MaxPeriodsPerWeek:        req.Preferences.MaxPeriodsPerWeek,
			PreferredBreakMinutes:    req.Preferences.PreferredBreakMinutes,
			PreferConsecutiveClasses: req.Preferences.PreferConsecutiveClasses,
			AvoidFirstPeriod:         req.Preferences.AvoidFirstPeriod,
			AvoidLastPeriod:          req.Preferences.AvoidLastPeriod,
			Notes:                    req.Preferences.Notes,
		},
		UpdatedAt: time.Now().UTC(),
	}
	if template.Preferences.MaxPeriodsPerDay == 0 {
		template.Preferences.MaxPeriodsPerDay = models.DefaultMaxPeriodsPerDay
	}

	if err := s.store.Upsert(ctx, template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save availability template")
	}

	s.logger.Info("availability template updated", zap.String("teacher_id", teacherID), zap.Int("slots", len(slots)))
	return template, nil
}
