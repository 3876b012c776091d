package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type timetableSessionService interface {
	View(ctx context.Context, query dto.SessionQuery) (*dto.TimetableView, error)
	PlaceOrUpdateSlot(ctx context.Context, query dto.SessionQuery, req dto.PlaceSlotRequest) (*dto.TimetableView, error)
	RemoveSlot(ctx context.Context, query dto.SessionQuery, slotID string) (*dto.TimetableView, error)
	ToggleLock(ctx context.Context, query dto.SessionQuery, slotID string) (*dto.TimetableView, error)
	ClearUnlocked(ctx context.Context, query dto.SessionQuery) (*dto.TimetableView, error)
	Regenerate(ctx context.Context, query dto.SessionQuery) (*dto.RegenerateResponse, error)
	Publish(ctx context.Context, query dto.SessionQuery) (*dto.PublishResponse, error)
	PublishedView(ctx context.Context, query dto.SessionQuery) (*dto.TimetableView, error)
}

// TimetableHandler exposes the /timetables endpoints.
type TimetableHandler struct {
	service timetableSessionService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(service timetableSessionService) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// View godoc
// @Summary Get the working timetable with its validation report
// @Tags Timetables
// @Produce json
// @Param gradeId query string true "Grade ID"
// @Param sectionId query string true "Section ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) View(c *gin.Context) {
	query, ok := bindSessionQuery(c)
	if !ok {
		return
	}
	view, err := h.service.View(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// PlaceSlot godoc
// @Summary Place or update a lesson in a grid cell
// @Tags Timetables
// @Accept json
// @Produce json
// @Param gradeId query string true "Grade ID"
// @Param sectionId query string true "Section ID"
// @Param termId query string true "Term ID"
// @Param payload body dto.PlaceSlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/slots [put]
func (h *TimetableHandler) PlaceSlot(c *gin.Context) {
	query, ok := bindSessionQuery(c)
	if !ok {
		return
	}
	var req dto.PlaceSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	view, err := h.service.PlaceOrUpdateSlot(c.Request.Context(), query, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// RemoveSlot godoc
// @Summary Remove one slot from the working timetable
// @Tags Timetables
// @Produce json
// @Param gradeId query string true "Grade ID"
// @Param sectionId query string true "Section ID"
// @Param termId query string true "Term ID"
// @Param slotId path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/slots/{slotId} [delete]
func (h *TimetableHandler) RemoveSlot(c *gin.Context) {
	query, ok := bindSessionQuery(c)
	if !ok {
		return
	}
	view, err := h.service.RemoveSlot(c.Request.Context(), query, c.Param("slotId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// ToggleLock godoc
// @Summary Toggle the lock flag on one slot
// @Tags Timetables
// @Produce json
// @Param gradeId query string true "Grade ID"
// @Param sectionId query string true "Section ID"
// @Param termId query string true "Term ID"
// @Param slotId path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/slots/{slotId}/lock [post]
func (h *TimetableHandler) ToggleLock(c *gin.Context) {
	query, ok := bindSessionQuery(c)
	if !ok {
		return
	}
	view, err := h.service.ToggleLock(c.Request.Context(), query, c.Param("slotId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// ClearUnlocked godoc
// @Summary Remove every unlocked slot from the working timetable
// @Tags Timetables
// @Produce json
// @Param gradeId query string true "Grade ID"
// @Param sectionId query string true "Section ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/slots [delete]
func (h *TimetableHandler) ClearUnlocked(c *gin.Context) {
	query, ok := bindSessionQuery(c)
	if !ok {
		return
	}
	view, err := h.service.ClearUnlocked(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Regenerate godoc
// @Summary Rebuild the timetable, preserving locked slots
// @Tags Timetables
// @Produce json
// @Param gradeId query string true "Grade ID"
// @Param sectionId query string true "Section ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Regenerate(c *gin.Context) {
	query, ok := bindSessionQuery(c)
	if !ok {
		return
	}
	result, err := h.service.Regenerate(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Publish godoc
// @Summary Publish the timetable when it has no hard conflicts
// @Tags Timetables
// @Produce json
// @Param gradeId query string true "Grade ID"
// @Param sectionId query string true "Section ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables/publish [post]
func (h *TimetableHandler) Publish(c *gin.Context) {
	query, ok := bindSessionQuery(c)
	if !ok {
		return
	}
	result, err := h.service.Publish(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Published godoc
// @Summary Get the published timetable
// @Tags Timetables
// @Produce json
// @Param gradeId query string true "Grade ID"
// @Param sectionId query string true "Section ID"
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/published [get]
func (h *TimetableHandler) Published(c *gin.Context) {
	query, ok := bindSessionQuery(c)
	if !ok {
		return
	}
	view, err := h.service.PublishedView(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

func bindSessionQuery(c *gin.Context) (dto.SessionQuery, bool) {
	var query dto.SessionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session query"))
		return dto.SessionQuery{}, false
	}
	return query, true
}
