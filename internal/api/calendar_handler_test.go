package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/planner"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCalendarService satisfies service.CalendarService for handler tests;
// only BuildView is exercised here.
type stubCalendarService struct {
	mode   planner.ViewMode
	anchor time.Time
}

func (s *stubCalendarService) ListEvents(ctx context.Context, userID string) ([]domain.CalendarEvent, error) {
	return nil, nil
}

func (s *stubCalendarService) CreateEvent(ctx context.Context, userID string, event domain.CalendarEvent) (*domain.CalendarEvent, error) {
	return nil, nil
}

func (s *stubCalendarService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	return nil
}

func (s *stubCalendarService) UpdateEventDate(ctx context.Context, userID, eventID string, date time.Time) (*domain.CalendarEvent, error) {
	return nil, nil
}

func (s *stubCalendarService) UpdateEventTime(ctx context.Context, userID, eventID string, clock domain.ClockTime) (*domain.CalendarEvent, error) {
	return nil, nil
}

func (s *stubCalendarService) ToggleCompleted(ctx context.Context, userID, entryID string) error {
	return nil
}

func (s *stubCalendarService) GetPool(ctx context.Context, userID string) ([]planner.PoolItem, error) {
	return nil, nil
}

func (s *stubCalendarService) Drop(ctx context.Context, userID string, payload planner.DropPayload) (*domain.CalendarEvent, error) {
	return nil, nil
}

func (s *stubCalendarService) BuildView(ctx context.Context, userID string, mode planner.ViewMode, anchor time.Time) (interface{}, error) {
	s.mode = mode
	s.anchor = anchor
	return planner.BuildDailyView(anchor, nil), nil
}

func newViewTestRouter(svc *stubCalendarService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewCalendarHandler(svc)
	router.GET("/calendar/view", func(c *gin.Context) {
		c.Set(ContextUserIDKey, "user-1")
	}, handler.GetView)
	return router
}

func TestCalendarHandler_GetViewReturnsNavigationAnchors(t *testing.T) {
	tests := []struct {
		mode string
		prev string
		next string
	}{
		{"daily", "2025-01-14", "2025-01-16"},
		{"weekly", "2025-01-08", "2025-01-22"},
		{"90day", "2024-10-15", "2025-04-15"},
		{"yearly", "2024-01-15", "2026-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			svc := &stubCalendarService{}
			router := newViewTestRouter(svc)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/calendar/view?mode="+tt.mode+"&anchor=2025-01-15", nil)
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			var resp ViewResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.mode, resp.Mode)
			assert.Equal(t, "2025-01-15", resp.Anchor)
			assert.Equal(t, tt.prev, resp.PrevAnchor)
			assert.Equal(t, tt.next, resp.NextAnchor)
			assert.NotNil(t, resp.View)

			assert.Equal(t, planner.ViewMode(tt.mode), svc.mode)
			assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), svc.anchor)
		})
	}
}

func TestCalendarHandler_GetViewRejectsBadInput(t *testing.T) {
	t.Run("unknown mode", func(t *testing.T) {
		router := newViewTestRouter(&stubCalendarService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/calendar/view?mode=monthly", nil)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed anchor", func(t *testing.T) {
		router := newViewTestRouter(&stubCalendarService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/calendar/view?mode=daily&anchor=15-01-2025", nil)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
