package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/planner"
	"coachpack/internal/service"

	"github.com/gin-gonic/gin"
)

// CalendarHandler holds the calendar service dependency.
type CalendarHandler struct {
	calendarService service.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// --- Request/Response Structs ---

type CreateEventRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Date        string           `json:"date" binding:"required"` // YYYY-MM-DD
	Time        domain.ClockTime `json:"time"`
	Category    domain.Category  `json:"category" binding:"required"`
	Duration    int              `json:"duration"`
	Frequency   domain.Frequency `json:"frequency"`
}

type UpdateEventDateRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
}

type UpdateEventTimeRequest struct {
	Time domain.ClockTime `json:"time" binding:"required"`
}

type DropRequest struct {
	Kind    string `json:"kind" binding:"required"` // goal-action | calendar-event
	ItemID  string `json:"itemId"`
	EventID string `json:"eventId"`
	Date    string `json:"date" binding:"required"` // YYYY-MM-DD
}

type EventResponse struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Date         string           `json:"date"`
	Time         domain.ClockTime `json:"time"`
	Category     domain.Category  `json:"category"`
	Duration     int              `json:"duration"`
	Frequency    domain.Frequency `json:"frequency,omitempty"`
	IsGoalAction bool             `json:"isGoalAction,omitempty"`
	Completed    bool             `json:"completed"`
}

// --- Handler Methods ---

// ListEvents godoc
// @Summary List calendar events
// @Tags Calendar
// @Produce json
// @Success 200 {array} EventResponse
// @Router /calendar/events [get]
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	events, err := h.calendarService.ListEvents(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load events")
		return
	}
	resp := make([]EventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, mapEventToResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateEvent godoc
// @Summary Create a calendar event
// @Description Creates an ad-hoc event. Events at the same date and time stack; no uniqueness is enforced.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event details"
// @Success 201 {object} EventResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /calendar/events [post]
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
		return
	}

	event, err := h.calendarService.CreateEvent(c.Request.Context(), userID, domain.CalendarEvent{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Time:        req.Time,
		Category:    req.Category,
		Duration:    req.Duration,
		Frequency:   req.Frequency,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidEvent) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create event")
		}
		return
	}
	c.JSON(http.StatusCreated, mapEventToResponse(*event))
}

// DeleteEvent godoc
// @Summary Delete a calendar event
// @Description Deleting the only event scheduled from a goal action returns that action to the pool.
// @Tags Calendar
// @Param eventId path string true "Event ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Event not found"
// @Router /calendar/events/{eventId} [delete]
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.calendarService.DeleteEvent(c.Request.Context(), userID, c.Param("eventId")); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete event")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateEventDate godoc
// @Summary Move an event to another date
// @Tags Calendar
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param body body UpdateEventDateRequest true "New date"
// @Success 200 {object} EventResponse
// @Failure 404 {object} gin.H "Event not found"
// @Router /calendar/events/{eventId}/date [patch]
func (h *CalendarHandler) UpdateEventDate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateEventDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
		return
	}

	event, err := h.calendarService.UpdateEventDate(c.Request.Context(), userID, c.Param("eventId"), date)
	if err != nil {
		h.respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapEventToResponse(*event))
}

// UpdateEventTime godoc
// @Summary Set an event's time of day
// @Tags Calendar
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param body body UpdateEventTimeRequest true "New time (HH:MM)"
// @Success 200 {object} EventResponse
// @Failure 400 {object} gin.H "Invalid time"
// @Router /calendar/events/{eventId}/time [patch]
func (h *CalendarHandler) UpdateEventTime(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateEventTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	event, err := h.calendarService.UpdateEventTime(c.Request.Context(), userID, c.Param("eventId"), req.Time)
	if err != nil {
		h.respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapEventToResponse(*event))
}

// ToggleCompleted godoc
// @Summary Toggle completion on a calendar entry
// @Description Projected milestone entries (ids prefixed "milestone-") write through to the owning goal.
// @Tags Calendar
// @Param entryId path string true "Event or projected milestone ID"
// @Success 204 "Toggled"
// @Failure 404 {object} gin.H "Entry not found"
// @Router /calendar/events/{entryId}/toggle [post]
func (h *CalendarHandler) ToggleCompleted(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.calendarService.ToggleCompleted(c.Request.Context(), userID, c.Param("entryId")); err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound), errors.Is(err, service.ErrMilestoneNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to toggle entry")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPool godoc
// @Summary List unscheduled goal actions
// @Description The pool is derived on every read: goal actions minus those already on the calendar.
// @Tags Calendar
// @Produce json
// @Success 200 {array} planner.PoolItem
// @Router /calendar/pool [get]
func (h *CalendarHandler) GetPool(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	pool, err := h.calendarService.GetPool(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to derive action pool")
		return
	}
	c.JSON(http.StatusOK, pool)
}

// Drop godoc
// @Summary Resolve a drag-and-drop onto a date cell
// @Description A goal-action drop schedules the pool item; an already consumed item is a silent no-op (204). A calendar-event drop moves the event's date only.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body DropRequest true "Drag payload"
// @Success 200 {object} EventResponse "Event created or moved"
// @Success 204 "Pool item already consumed"
// @Failure 400 {object} gin.H "Invalid payload"
// @Router /calendar/drop [post]
func (h *CalendarHandler) Drop(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
		return
	}

	event, err := h.calendarService.Drop(c.Request.Context(), userID, planner.DropPayload{
		Kind:    planner.DragKind(req.Kind),
		ItemID:  req.ItemID,
		EventID: req.EventID,
		Date:    date,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDropKind), errors.Is(err, service.ErrMilestoneReadOnly):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEventNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to resolve drop")
		}
		return
	}
	if event == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, mapEventToResponse(*event))
}

// ViewResponse wraps the aggregated view payload with the resolved
// anchor and the anchors for Prev/Next navigation in the same mode, so
// clients page through views without reimplementing the shift rules.
type ViewResponse struct {
	Mode       string      `json:"mode"`
	Anchor     string      `json:"anchor"`
	PrevAnchor string      `json:"prevAnchor"`
	NextAnchor string      `json:"nextAnchor"`
	View       interface{} `json:"view"`
}

// GetView godoc
// @Summary Aggregated calendar view
// @Description Merges concrete events with projected goal milestones for the requested mode and anchor date. The response carries prevAnchor/nextAnchor for navigation.
// @Tags Calendar
// @Produce json
// @Param mode query string true "View mode (daily, weekly, 90day, yearly)"
// @Param anchor query string false "Anchor date YYYY-MM-DD (defaults to today)"
// @Success 200 {object} api.ViewResponse
// @Failure 400 {object} gin.H "Unknown mode or bad anchor"
// @Router /calendar/view [get]
func (h *CalendarHandler) GetView(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	mode, err := planner.ParseViewMode(c.Query("mode"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	anchor := domain.DateOnly(time.Now())
	if raw := c.Query("anchor"); raw != "" {
		anchor, err = domain.ParseDate(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid anchor %q, expected YYYY-MM-DD", raw))
			return
		}
	}

	view, err := h.calendarService.BuildView(c.Request.Context(), userID, mode, anchor)
	if err != nil {
		if errors.Is(err, service.ErrInvalidViewMode) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to build view")
		}
		return
	}
	c.JSON(http.StatusOK, ViewResponse{
		Mode:       string(mode),
		Anchor:     domain.FormatDate(anchor),
		PrevAnchor: domain.FormatDate(planner.ShiftAnchor(mode, anchor, -1)),
		NextAnchor: domain.FormatDate(planner.ShiftAnchor(mode, anchor, 1)),
		View:       view,
	})
}

func (h *CalendarHandler) respondEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidEvent):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to update event")
	}
}

func mapEventToResponse(e domain.CalendarEvent) EventResponse {
	return EventResponse{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		Date:         domain.FormatDate(e.Date),
		Time:         e.Time,
		Category:     e.Category,
		Duration:     e.Duration,
		Frequency:    e.Frequency,
		IsGoalAction: e.IsGoalAction,
		Completed:    e.Completed,
	}
}
