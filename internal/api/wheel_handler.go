package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"coachpack/internal/domain"
	"coachpack/internal/service"

	"github.com/gin-gonic/gin"
)

// maxWheelSnapshotBytes caps the import request body.
const maxWheelSnapshotBytes = 1 << 20 // 1 MiB

// WheelHandler holds the wheel service dependency.
type WheelHandler struct {
	wheelService service.WheelService
}

// NewWheelHandler creates a new WheelHandler.
func NewWheelHandler(wheelService service.WheelService) *WheelHandler {
	return &WheelHandler{wheelService: wheelService}
}

// GetWheel godoc
// @Summary Get the life-balance wheel
// @Description Returns the stored wheel, seeding the default life areas for new users.
// @Tags Wheel
// @Produce json
// @Success 200 {object} domain.WheelData
// @Router /wheel [get]
func (h *WheelHandler) GetWheel(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	data, err := h.wheelService.Get(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load wheel")
		return
	}
	c.JSON(http.StatusOK, data)
}

// SaveWheel godoc
// @Summary Replace the life-balance wheel
// @Tags Wheel
// @Accept json
// @Produce json
// @Param wheel body domain.WheelData true "Wheel record"
// @Success 200 {object} domain.WheelData
// @Failure 400 {object} gin.H "Invalid input"
// @Router /wheel [put]
func (h *WheelHandler) SaveWheel(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var data domain.WheelData
	if err := c.ShouldBindJSON(&data); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	saved, err := h.wheelService.Save(c.Request.Context(), userID, data)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save wheel")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ImportWheel godoc
// @Summary Import a wheel snapshot
// @Description Validates the raw JSON snapshot before anything is written; a snapshot without a lifeAreas array is rejected and stored data stays untouched.
// @Tags Wheel
// @Accept json
// @Produce json
// @Success 200 {object} domain.WheelData "Imported wheel"
// @Failure 400 {object} gin.H "Malformed or incomplete snapshot"
// @Router /wheel/import [post]
func (h *WheelHandler) ImportWheel(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	snapshot, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWheelSnapshotBytes))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read snapshot body")
		return
	}

	data, err := h.wheelService.Import(c.Request.Context(), userID, snapshot)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWheelMissingLifeAreas), errors.Is(err, domain.ErrWheelMalformed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to import wheel")
		}
		return
	}
	c.JSON(http.StatusOK, data)
}

// ExportWheel godoc
// @Summary Export the wheel as a JSON snapshot
// @Tags Wheel
// @Produce json
// @Success 200 {object} domain.WheelData
// @Router /wheel/export [get]
func (h *WheelHandler) ExportWheel(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	raw, err := h.wheelService.Export(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to export wheel")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="wheel-of-life.json"`)
	c.Data(http.StatusOK, "application/json", raw)
}
