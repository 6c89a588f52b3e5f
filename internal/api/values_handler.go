package api

import (
	"errors"
	"fmt"
	"net/http"

	"coachpack/internal/domain"
	"coachpack/internal/service"

	"github.com/gin-gonic/gin"
)

// ValuesHandler holds the values service dependency.
type ValuesHandler struct {
	valuesService service.ValuesService
}

// NewValuesHandler creates a new ValuesHandler.
func NewValuesHandler(valuesService service.ValuesService) *ValuesHandler {
	return &ValuesHandler{valuesService: valuesService}
}

// GetValues godoc
// @Summary Get the values-clarification record
// @Tags Values
// @Produce json
// @Success 200 {object} domain.ValuesData
// @Router /values [get]
func (h *ValuesHandler) GetValues(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	data, err := h.valuesService.Get(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load values")
		return
	}
	c.JSON(http.StatusOK, data)
}

// SaveValues godoc
// @Summary Replace the values-clarification record
// @Tags Values
// @Accept json
// @Produce json
// @Param values body domain.ValuesData true "Values record"
// @Success 200 {object} domain.ValuesData
// @Failure 400 {object} gin.H "Invalid input"
// @Router /values [put]
func (h *ValuesHandler) SaveValues(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var data domain.ValuesData
	if err := c.ShouldBindJSON(&data); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	saved, err := h.valuesService.Save(c.Request.Context(), userID, data)
	if err != nil {
		if errors.Is(err, service.ErrTooManyTopValues) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save values")
		}
		return
	}
	c.JSON(http.StatusOK, saved)
}
