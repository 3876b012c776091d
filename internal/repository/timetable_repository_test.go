package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableRepositoryGetRecord(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"id", "grade_id", "section_id", "term_id", "status", "created_at", "updated_at"}).
		AddRow("tt-1", "grade-10", "section-a", "term-1", "DRAFT", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, grade_id, section_id, term_id, status, created_at, updated_at")).
		WithArgs("grade-10", "section-a", "term-1").
		WillReturnRows(rows)

	record, err := repo.GetRecord(context.Background(), "grade-10", "section-a", "term-1")
	require.NoError(t, err)
	assert.Equal(t, "tt-1", record.ID)
	assert.Equal(t, models.TimetableStatusDraft, record.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateRecordAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetables")).
		WithArgs(sqlmock.AnyArg(), "grade-10", "section-a", "term-1", "DRAFT", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.TimetableRecord{
		GradeID:   "grade-10",
		SectionID: "section-a",
		TermID:    "term-1",
		Status:    models.TimetableStatusDraft,
	}
	require.NoError(t, repo.CreateRecord(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceSlots(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_slots WHERE timetable_id = $1")).
		WithArgs("tt-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_slots")).
		WithArgs("slot-1", "tt-1", "MONDAY", 1.0, "08:00", "08:45", "subj-math", "teacher-1", nil, false, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	slots := []models.TimetableSlot{
		{
			ID:           "slot-1",
			DayOfWeek:    "MONDAY",
			PeriodNumber: 1,
			StartTime:    "08:00",
			EndTime:      "08:45",
			SubjectID:    "subj-math",
			TeacherID:    "teacher-1",
		},
	}
	require.NoError(t, repo.ReplaceSlots(context.Background(), nil, "tt-1", slots))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceSlotsEmptySetClearsOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_slots WHERE timetable_id = $1")).
		WithArgs("tt-1").
		WillReturnResult(sqlmock.NewResult(0, 5))

	require.NoError(t, repo.ReplaceSlots(context.Background(), nil, "tt-1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetables SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("PUBLISHED", sqlmock.AnyArg(), "tt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), nil, "tt-1", models.TimetableStatusPublished))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdateStatusMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetables SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("PUBLISHED", sqlmock.AnyArg(), "tt-ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), nil, "tt-ghost", models.TimetableStatusPublished)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
