package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

func TestAvailabilityGetDefaultsWhenMissing(t *testing.T) {
	service := NewAvailabilityService(&availabilityStoreStub{}, teacherReaderStub{known: true}, nil, nil)

	template, err := service.Get(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", template.TeacherID)
	assert.Empty(t, template.Slots)
	assert.Equal(t, models.DefaultMaxPeriodsPerDay, template.Preferences.MaxPeriodsPerDay)
}

func TestAvailabilityUpsertStoresTemplate(t *testing.T) {
	store := &availabilityStoreStub{}
	service := NewAvailabilityService(store, teacherReaderStub{known: true}, nil, nil)

	template, err := service.Upsert(context.Background(), "teacher-1", dto.UpsertAvailabilityRequest{
		Slots: []dto.AvailabilitySlotPayload{
			{DayOfWeek: models.DayMonday, StartTime: "08:00", EndTime: "10:00", Status: models.AvailabilityUnavailable},
		},
		Preferences: dto.TeacherPreferencesPayload{MaxPeriodsPerDay: 5},
	})
	require.NoError(t, err)
	require.NotNil(t, store.saved)
	assert.Equal(t, 5, template.Preferences.MaxPeriodsPerDay)
	require.Len(t, template.Slots, 1)
	assert.Equal(t, models.AvailabilityUnavailable, template.Slots[0].Status)
}

func TestAvailabilityUpsertDefaultsDailyCap(t *testing.T) {
	store := &availabilityStoreStub{}
	service := NewAvailabilityService(store, teacherReaderStub{known: true}, nil, nil)

	template, err := service.Upsert(context.Background(), "teacher-1", dto.UpsertAvailabilityRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMaxPeriodsPerDay, template.Preferences.MaxPeriodsPerDay)
}

func TestAvailabilityUpsertRejectsBadPayloads(t *testing.T) {
	service := NewAvailabilityService(&availabilityStoreStub{}, teacherReaderStub{known: true}, nil, nil)

	cases := map[string]dto.AvailabilitySlotPayload{
		"unknown day":      {DayOfWeek: "FUNDAY", StartTime: "08:00", EndTime: "09:00", Status: models.AvailabilityAvoid},
		"unknown status":   {DayOfWeek: models.DayMonday, StartTime: "08:00", EndTime: "09:00", Status: "MAYBE"},
		"unpadded time":    {DayOfWeek: models.DayMonday, StartTime: "8:00h", EndTime: "09:00", Status: models.AvailabilityAvoid},
		"inverted range":   {DayOfWeek: models.DayMonday, StartTime: "10:00", EndTime: "09:00", Status: models.AvailabilityAvoid},
		"zero-width range": {DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "09:00", Status: models.AvailabilityAvoid},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := service.Upsert(context.Background(), "teacher-1", dto.UpsertAvailabilityRequest{
				Slots: []dto.AvailabilitySlotPayload{payload},
			})
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestAvailabilityUpsertUnknownTeacher(t *testing.T) {
	service := NewAvailabilityService(&availabilityStoreStub{}, teacherReaderStub{}, nil, nil)

	_, err := service.Upsert(context.Background(), "teacher-ghost", dto.UpsertAvailabilityRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

// --- Fixtures ---

type availabilityStoreStub struct {
	existing *models.AvailabilityTemplate
	saved    *models.AvailabilityTemplate
}

func (s *availabilityStoreStub) GetByTeacher(ctx context.Context, teacherID string) (*models.AvailabilityTemplate, error) {
	if s.existing == nil {
		return nil, sql.ErrNoRows
	}
	return s.existing, nil
}

func (s *availabilityStoreStub) Upsert(ctx context.Context, template *models.AvailabilityTemplate) error {
	s.saved = template
	return nil
}

type teacherReaderStub struct {
	known bool
}

func (s teacherReaderStub) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if !s.known {
		return nil, sql.ErrNoRows
	}
	return &models.Teacher{ID: id, FullName: "Test Teacher", Active: true}, nil
}
