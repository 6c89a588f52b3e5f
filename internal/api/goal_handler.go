package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/service"

	"github.com/gin-gonic/gin"
)

// GoalHandler holds the goal service dependency.
type GoalHandler struct {
	goalService service.GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// --- Request/Response Structs ---

type ActionRequest struct {
	Text         string           `json:"text" binding:"required"`
	Frequency    domain.Frequency `json:"frequency"`
	SpecificDays []time.Weekday   `json:"specificDays"`
}

type MilestoneRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" binding:"required"` // YYYY-MM-DD
	Completed   bool   `json:"completed"`
}

type GoalRequest struct {
	GoalText    string             `json:"goalText"`
	MeasureText string             `json:"measureText"`
	TargetDate  string             `json:"targetDate"` // YYYY-MM-DD, optional
	Actions     []ActionRequest    `json:"actions"`
	Milestones  []MilestoneRequest `json:"milestones"`
}

type MilestoneResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	DueDate       string `json:"dueDate"`
	Completed     bool   `json:"completed"`
	CompletedDate string `json:"completedDate,omitempty"`
}

type GoalResponse struct {
	Category    domain.Category     `json:"category"`
	GoalText    string              `json:"goalText"`
	MeasureText string              `json:"measureText"`
	TargetDate  string              `json:"targetDate"`
	Actions     []domain.Action     `json:"actions"`
	Milestones  []MilestoneResponse `json:"milestones"`
}

// --- Handler Methods ---

// GetGoals godoc
// @Summary List all goals
// @Description Returns the user's goals for every category, in the fixed category order.
// @Tags Goals
// @Produce json
// @Success 200 {array} GoalResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /goals [get]
func (h *GoalHandler) GetGoals(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	set, err := h.goalService.GetGoals(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load goals")
		return
	}

	goals := set.Ordered()
	resp := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		resp = append(resp, mapGoalToResponse(g))
	}
	c.JSON(http.StatusOK, resp)
}

// GetGoal godoc
// @Summary Get one category's goal
// @Tags Goals
// @Produce json
// @Param category path string true "Goal category (business, body, balance)"
// @Success 200 {object} GoalResponse
// @Failure 400 {object} gin.H "Unknown category"
// @Router /goals/{category} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	goal, err := h.goalService.GetGoal(c.Request.Context(), userID, domain.Category(c.Param("category")))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load goal")
		}
		return
	}
	c.JSON(http.StatusOK, mapGoalToResponse(goal))
}

// SetGoal godoc
// @Summary Replace one category's goal
// @Description Whole-record replacement; there are no partial patch semantics.
// @Tags Goals
// @Accept json
// @Produce json
// @Param category path string true "Goal category (business, body, balance)"
// @Param goal body GoalRequest true "Goal record"
// @Success 200 {object} GoalResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /goals/{category} [put]
func (h *GoalHandler) SetGoal(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	goal, err := mapRequestToGoal(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.goalService.SetGoal(c.Request.Context(), userID, domain.Category(c.Param("category")), goal)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save goal")
		}
		return
	}
	c.JSON(http.StatusOK, mapGoalToResponse(saved))
}

// ToggleMilestone godoc
// @Summary Toggle a milestone's completion
// @Tags Goals
// @Produce json
// @Param category path string true "Goal category"
// @Param milestoneId path string true "Milestone ID"
// @Success 200 {object} MilestoneResponse
// @Failure 404 {object} gin.H "Milestone not found"
// @Router /goals/{category}/milestones/{milestoneId}/toggle [post]
func (h *GoalHandler) ToggleMilestone(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	m, err := h.goalService.ToggleMilestone(c.Request.Context(), userID, domain.Category(c.Param("category")), c.Param("milestoneId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCategory):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrMilestoneNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to toggle milestone")
		}
		return
	}
	c.JSON(http.StatusOK, mapMilestoneToResponse(*m))
}

// --- Mapping Helpers ---

func mapRequestToGoal(req GoalRequest) (domain.Goal, error) {
	goal := domain.Goal{
		GoalText:    req.GoalText,
		MeasureText: req.MeasureText,
		Actions:     make([]domain.Action, 0, len(req.Actions)),
		Milestones:  make([]domain.Milestone, 0, len(req.Milestones)),
	}
	if req.TargetDate != "" {
		target, err := domain.ParseDate(req.TargetDate)
		if err != nil {
			return domain.Goal{}, fmt.Errorf("invalid targetDate %q, expected YYYY-MM-DD", req.TargetDate)
		}
		goal.TargetDate = target
	}
	for _, a := range req.Actions {
		goal.Actions = append(goal.Actions, domain.Action{
			Text:         a.Text,
			Frequency:    a.Frequency,
			SpecificDays: a.SpecificDays,
		})
	}
	for _, m := range req.Milestones {
		due, err := domain.ParseDate(m.DueDate)
		if err != nil {
			return domain.Goal{}, fmt.Errorf("invalid dueDate %q, expected YYYY-MM-DD", m.DueDate)
		}
		goal.Milestones = append(goal.Milestones, domain.Milestone{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			DueDate:     due,
			Completed:   m.Completed,
		})
	}
	return goal, nil
}

func mapGoalToResponse(g domain.Goal) GoalResponse {
	resp := GoalResponse{
		Category:    g.Category,
		GoalText:    g.GoalText,
		MeasureText: g.MeasureText,
		TargetDate:  domain.FormatDate(g.TargetDate),
		Actions:     g.Actions,
		Milestones:  make([]MilestoneResponse, 0, len(g.Milestones)),
	}
	if resp.Actions == nil {
		resp.Actions = []domain.Action{}
	}
	for _, m := range g.Milestones {
		resp.Milestones = append(resp.Milestones, mapMilestoneToResponse(m))
	}
	return resp
}

func mapMilestoneToResponse(m domain.Milestone) MilestoneResponse {
	resp := MilestoneResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		DueDate:     domain.FormatDate(m.DueDate),
		Completed:   m.Completed,
	}
	if m.CompletedDate != nil {
		resp.CompletedDate = m.CompletedDate.Format(time.RFC3339)
	}
	return resp
}
