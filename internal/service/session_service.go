package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type scheduleConfigReader interface {
	GetByTerm(ctx context.Context, termID string) (*models.ScheduleConfig, error)
}

type subjectCatalog interface {
	List(ctx context.Context) ([]models.Subject, error)
}

type roomCatalog interface {
	List(ctx context.Context) ([]models.Room, error)
}

type requirementReader interface {
	ListBySection(ctx context.Context, gradeID, sectionID string) ([]models.SubjectRequirement, error)
}

type availabilityReader interface {
	ListByTeachers(ctx context.Context, teacherIDs []string) ([]models.AvailabilityTemplate, error)
}

type timetableStore interface {
	GetRecord(ctx context.Context, gradeID, sectionID, termID string) (*models.TimetableRecord, error)
	CreateRecord(ctx context.Context, record *models.TimetableRecord) error
	ListSlots(ctx context.Context, timetableID string) ([]models.TimetableSlot, error)
	ReplaceSlots(ctx context.Context, exec sqlx.ExtContext, timetableID string, slots []models.TimetableSlot) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, timetableID string, status models.TimetableStatus) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type viewCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type generationObserver interface {
	ObserveGeneration(duration time.Duration, placed, conflicts int)
	ObserveValidation(conflicts, warnings int)
}

type sessionKey struct {
	GradeID   string
	SectionID string
	TermID    string
}

func (k sessionKey) cacheKey() string {
	return fmt.Sprintf("timetable:published:%s:%s:%s", k.GradeID, k.SectionID, k.TermID)
}

// timetableSession holds the working state for one grade/section/term. All
// access goes through mu so concurrent edits against the same session are
// serialized; sessions for different keys never share state.
type timetableSession struct {
	mu         sync.Mutex
	key        sessionKey
	record     models.TimetableRecord
	refs       ReferenceData
	slots      []models.TimetableSlot
	validation models.ValidationResult
}

// TimetableSessionConfig tunes session behaviour.
type TimetableSessionConfig struct {
	PublishedCacheTTL time.Duration
}

// TimetableSessionService orchestrates the scheduling engine for the API:
// it loads reference data, holds one session per section, re-derives the
// validation report after every mutation and persists slot edits.
type TimetableSessionService struct {
	configs      scheduleConfigReader
	subjects     subjectCatalog
	rooms        roomCatalog
	requirements requirementReader
	availability availabilityReader
	timetables   timetableStore
	tx           txProvider
	cache        viewCache
	metrics      generationObserver
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          TimetableSessionConfig

	mu       sync.RWMutex
	sessions map[sessionKey]*timetableSession
}

// NewTimetableSessionService wires the orchestrator dependencies.
func NewTimetableSessionService(
	configs scheduleConfigReader,
	subjects subjectCatalog,
	rooms roomCatalog,
	requirements requirementReader,
	availability availabilityReader,
	timetables timetableStore,
	tx txProvider,
	cache viewCache,
	metrics generationObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableSessionConfig,
) *TimetableSessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PublishedCacheTTL <= 0 {
		cfg.PublishedCacheTTL = 10 * time.Minute
	}
	return &TimetableSessionService{
		configs:      configs,
		subjects:     subjects,
		rooms:        rooms,
		requirements: requirements,
		availability: availability,
		timetables:   timetables,
		tx:           tx,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
		sessions:     make(map[sessionKey]*timetableSession),
	}
}

// View returns the current slots and validation report for a session,
// loading it on first access.
func (s *TimetableSessionService) View(ctx context.Context, query dto.SessionQuery) (*dto.TimetableView, error) {
	session, err := s.session(ctx, query)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return s.viewLocked(session), nil
}

// PlaceOrUpdateSlot writes a lesson into a grid cell. An occupied cell is
// updated in place and keeps its slot id; an empty one gets a fresh slot.
// The call itself performs no conflict checking; the refreshed validation
// report in the returned view carries any findings.
func (s *TimetableSessionService) PlaceOrUpdateSlot(ctx context.Context, query dto.SessionQuery, req dto.PlaceSlotRequest) (*dto.TimetableView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}

	session, err := s.session(ctx, query)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if !session.refs.Config.HasWorkingDay(req.DayOfWeek) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a working day for this term", req.DayOfWeek))
	}
	period, ok := session.refs.Config.PeriodByNumber(req.PeriodNumber)
	if !ok || period.IsBreak {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %g is not schedulable", req.PeriodNumber))
	}
	if err := s.ensureAvailabilityLocked(ctx, session, req.TeacherID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := false
	for i := range session.slots {
		slot := &session.slots[i]
		if slot.DayOfWeek == req.DayOfWeek && slot.PeriodNumber == req.PeriodNumber {
			slot.SubjectID = req.SubjectID
			slot.TeacherID = req.TeacherID
			slot.RoomID = req.RoomID
			slot.IsLocked = req.Locked
			slot.IsDoubleLesson = req.DoubleLesson
			slot.UpdatedAt = now
			updated = true
			break
		}
	}
	if !updated {
		session.slots = append(session.slots, models.TimetableSlot{
			ID:             uuid.NewString(),
			DayOfWeek:      req.DayOfWeek,
			PeriodNumber:   req.PeriodNumber,
			StartTime:      period.StartTime,
			EndTime:        period.EndTime,
			SubjectID:      req.SubjectID,
			TeacherID:      req.TeacherID,
			RoomID:         req.RoomID,
			IsLocked:       req.Locked,
			IsDoubleLesson: req.DoubleLesson,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	if err := s.commitLocked(ctx, session); err != nil {
		return nil, err
	}
	return s.viewLocked(session), nil
}

// RemoveSlot deletes one slot; removing an unknown id is a no-op.
func (s *TimetableSessionService) RemoveSlot(ctx context.Context, query dto.SessionQuery, slotID string) (*dto.TimetableView, error) {
	session, err := s.session(ctx, query)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	removed := false
	for i, slot := range session.slots {
		if slot.ID == slotID {
			session.slots = append(session.slots[:i], session.slots[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		if err := s.commitLocked(ctx, session); err != nil {
			return nil, err
		}
	}
	return s.viewLocked(session), nil
}

// ToggleLock flips the lock flag on one slot.
func (s *TimetableSessionService) ToggleLock(ctx context.Context, query dto.SessionQuery, slotID string) (*dto.TimetableView, error) {
	session, err := s.session(ctx, query)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	found := false
	for i := range session.slots {
		if session.slots[i].ID == slotID {
			session.slots[i].IsLocked = !session.slots[i].IsLocked
			session.slots[i].UpdatedAt = time.Now().UTC()
			found = true
			break
		}
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
	}
	if err := s.commitLocked(ctx, session); err != nil {
		return nil, err
	}
	return s.viewLocked(session), nil
}

// ClearUnlocked drops every slot except the locked ones.
func (s *TimetableSessionService) ClearUnlocked(ctx context.Context, query dto.SessionQuery) (*dto.TimetableView, error) {
	session, err := s.session(ctx, query)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	kept := session.slots[:0]
	for _, slot := range session.slots {
		if slot.IsLocked {
			kept = append(kept, slot)
		}
	}
	session.slots = kept

	if err := s.commitLocked(ctx, session); err != nil {
		return nil, err
	}
	return s.viewLocked(session), nil
}

// Regenerate rebuilds the slot set from the current one. Locked slots are
// always retained; everything else is replaced by the generator's output.
// Safe to re-invoke: identical input produces an equivalent grid.
func (s *TimetableSessionService) Regenerate(ctx context.Context, query dto.SessionQuery) (*dto.RegenerateResponse, error) {
	session, err := s.session(ctx, query)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	start := time.Now()
	result, err := GenerateTimetable(session.slots, session.refs)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveGeneration(time.Since(start), len(result.Slots), len(result.Conflicts))
	}
	session.slots = result.Slots

	if err := s.commitLocked(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("timetable regenerated",
		zap.String("grade_id", session.key.GradeID),
		zap.String("section_id", session.key.SectionID),
		zap.Int("slots", len(result.Slots)),
		zap.Int("conflicts", len(result.Conflicts)),
	)

	return &dto.RegenerateResponse{
		Slots:      result.Slots,
		Conflicts:  result.Conflicts,
		Validation: session.validation,
	}, nil
}

// Publish transitions the timetable to PUBLISHED. It is gated on a clean
// validation report: any error-severity conflict rejects the call, while
// warnings never block.
func (s *TimetableSessionService) Publish(ctx context.Context, query dto.SessionQuery) (*dto.PublishResponse, error) {
	session, err := s.session(ctx, query)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if !session.validation.IsValid {
		return nil, appErrors.Clone(appErrors.ErrUnpublishable,
			fmt.Sprintf("timetable has %d unresolved conflicts", len(session.validation.Conflicts)))
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.timetables.ReplaceSlots(ctx, tx, session.record.ID, session.slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable slots")
	}
	if err = s.timetables.UpdateStatus(ctx, tx, session.record.ID, models.TimetableStatusPublished); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable status")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit publish transaction")
	}

	session.record.Status = models.TimetableStatusPublished

	if s.cache != nil {
		view := s.viewLocked(session)
		if cacheErr := s.cache.Set(ctx, session.key.cacheKey(), view, s.cfg.PublishedCacheTTL); cacheErr != nil {
			s.logger.Warn("failed to cache published timetable", zap.Error(cacheErr))
		}
	}

	return &dto.PublishResponse{TimetableID: session.record.ID, Status: session.record.Status}, nil
}

// PublishedView serves the published timetable, preferring the cache.
func (s *TimetableSessionService) PublishedView(ctx context.Context, query dto.SessionQuery) (*dto.TimetableView, error) {
	key := sessionKey{GradeID: query.GradeID, SectionID: query.SectionID, TermID: query.TermID}
	if s.cache != nil {
		var cached dto.TimetableView
		if err := s.cache.Get(ctx, key.cacheKey(), &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("published timetable cache read failed", zap.Error(err))
		}
	}

	session, err := s.session(ctx, query)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.record.Status != models.TimetableStatusPublished {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable is not published")
	}
	return s.viewLocked(session), nil
}

// session returns the cached session for the key, loading reference data
// and stored slots on first access.
func (s *TimetableSessionService) session(ctx context.Context, query dto.SessionQuery) (*timetableSession, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "gradeId, sectionId and termId are required")
	}
	key := sessionKey{GradeID: query.GradeID, SectionID: query.SectionID, TermID: query.TermID}

	s.mu.RLock()
	session, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		return session, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[key]; ok {
		return session, nil
	}

	loaded, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	s.sessions[key] = loaded
	return loaded, nil
}

func (s *TimetableSessionService) load(ctx context.Context, key sessionKey) (*timetableSession, error) {
	config, err := s.configs.GetByTerm(ctx, key.TermID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule config not found for term")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule config")
	}

	requirements, err := s.requirements.ListBySection(ctx, key.GradeID, key.SectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject requirements")
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}

	record, err := s.timetables.GetRecord(ctx, key.GradeID, key.SectionID, key.TermID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable record")
		}
		record = &models.TimetableRecord{
			ID:        uuid.NewString(),
			GradeID:   key.GradeID,
			SectionID: key.SectionID,
			TermID:    key.TermID,
			Status:    models.TimetableStatusDraft,
		}
		if err := s.timetables.CreateRecord(ctx, record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable record")
		}
	}

	slots, err := s.timetables.ListSlots(ctx, record.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable slots")
	}

	teacherIDs := collectTeacherIDs(requirements, slots)
	templates, err := s.availability.ListByTeachers(ctx, teacherIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability templates")
	}

	session := &timetableSession{
		key:    key,
		record: *record,
		refs: ReferenceData{
			Config:       *config,
			Requirements: requirements,
			Availability: templates,
			Rooms:        rooms,
			Subjects:     subjects,
		},
		slots: slots,
	}

	validation, err := ValidateTimetable(session.slots, session.refs)
	if err != nil {
		return nil, err
	}
	session.validation = validation
	return session, nil
}

// ensureAvailabilityLocked pulls in the stored template for a teacher first
// seen through a manual edit, so re-validation checks their availability
// instead of treating them as fully available. Callers must hold the session
// mutex.
func (s *TimetableSessionService) ensureAvailabilityLocked(ctx context.Context, session *timetableSession, teacherID string) error {
	for _, tpl := range session.refs.Availability {
		if tpl.TeacherID == teacherID {
			return nil
		}
	}
	templates, err := s.availability.ListByTeachers(ctx, []string{teacherID})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability template")
	}
	session.refs.Availability = append(session.refs.Availability, templates...)
	return nil
}

// commitLocked persists the current slot set, re-derives the validation
// report and re-opens published timetables as drafts. Callers must hold the
// session mutex.
func (s *TimetableSessionService) commitLocked(ctx context.Context, session *timetableSession) error {
	validation, err := ValidateTimetable(session.slots, session.refs)
	if err != nil {
		return err
	}
	session.validation = validation
	if s.metrics != nil {
		s.metrics.ObserveValidation(len(validation.Conflicts), len(validation.Warnings))
	}

	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.timetables.ReplaceSlots(ctx, tx, session.record.ID, session.slots); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable slots")
	}
	if session.record.Status == models.TimetableStatusPublished {
		if err = s.timetables.UpdateStatus(ctx, tx, session.record.ID, models.TimetableStatusDraft); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reopen timetable")
		}
		session.record.Status = models.TimetableStatusDraft
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable edit")
	}

	if s.cache != nil {
		if cacheErr := s.cache.Delete(ctx, session.key.cacheKey()); cacheErr != nil {
			s.logger.Warn("failed to invalidate published timetable cache", zap.Error(cacheErr))
		}
	}
	return nil
}

func (s *TimetableSessionService) viewLocked(session *timetableSession) *dto.TimetableView {
	slots := make([]models.TimetableSlot, len(session.slots))
	copy(slots, session.slots)
	return &dto.TimetableView{
		Record:     session.record,
		Slots:      slots,
		Validation: session.validation,
	}
}

func collectTeacherIDs(requirements []models.SubjectRequirement, slots []models.TimetableSlot) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, req := range requirements {
		if req.HasTeacher() {
			if _, ok := seen[*req.AssignedTeacherID]; !ok {
				seen[*req.AssignedTeacherID] = struct{}{}
				ids = append(ids, *req.AssignedTeacherID)
			}
		}
	}
	for _, slot := range slots {
		if _, ok := seen[slot.TeacherID]; !ok {
			seen[slot.TeacherID] = struct{}{}
			ids = append(ids, slot.TeacherID)
		}
	}
	return ids
}
