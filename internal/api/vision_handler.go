package api

import (
	"errors"
	"fmt"
	"net/http"

	"coachpack/internal/domain"
	"coachpack/internal/service"

	"github.com/gin-gonic/gin"
)

// VisionHandler holds the vision board service dependency.
type VisionHandler struct {
	visionService service.VisionService
}

// NewVisionHandler creates a new VisionHandler.
func NewVisionHandler(visionService service.VisionService) *VisionHandler {
	return &VisionHandler{visionService: visionService}
}

// --- Request/Response Structs ---

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type PresignedURLResponse struct {
	URL string `json:"url"`
}

// --- Handler Methods ---

// GetBoard godoc
// @Summary Get the vision board
// @Tags Vision
// @Produce json
// @Success 200 {object} domain.VisionBoard
// @Router /vision [get]
func (h *VisionHandler) GetBoard(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	board, err := h.visionService.Get(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load vision board")
		return
	}
	c.JSON(http.StatusOK, board)
}

// SaveBoard godoc
// @Summary Replace the vision board
// @Description Image keys on surviving items are preserved server-side; images of removed items are deleted from object storage.
// @Tags Vision
// @Accept json
// @Produce json
// @Param board body domain.VisionBoard true "Board record"
// @Success 200 {object} domain.VisionBoard
// @Failure 400 {object} gin.H "Invalid input"
// @Router /vision [put]
func (h *VisionHandler) SaveBoard(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var board domain.VisionBoard
	if err := c.ShouldBindJSON(&board); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	saved, err := h.visionService.Save(c.Request.Context(), userID, board)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save vision board")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ItemUploadURL godoc
// @Summary Presigned upload URL for an item's image
// @Description Image bytes never pass through the API; the client PUTs directly against object storage.
// @Tags Vision
// @Accept json
// @Produce json
// @Param itemId path string true "Board item ID"
// @Param body body UploadURLRequest true "Upload content type"
// @Success 200 {object} PresignedURLResponse
// @Failure 404 {object} gin.H "Item not found"
// @Router /vision/items/{itemId}/upload-url [post]
func (h *VisionHandler) ItemUploadURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	url, err := h.visionService.ItemUploadURL(c.Request.Context(), userID, c.Param("itemId"), req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrVisionItemNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		}
		return
	}
	c.JSON(http.StatusOK, PresignedURLResponse{URL: url})
}

// ItemImageURL godoc
// @Summary Presigned download URL for an item's image
// @Tags Vision
// @Produce json
// @Param itemId path string true "Board item ID"
// @Success 200 {object} PresignedURLResponse
// @Failure 404 {object} gin.H "Item not found or has no image"
// @Router /vision/items/{itemId}/image-url [get]
func (h *VisionHandler) ItemImageURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	url, err := h.visionService.ItemImageURL(c.Request.Context(), userID, c.Param("itemId"))
	if err != nil {
		if errors.Is(err, service.ErrVisionItemNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate image URL")
		}
		return
	}
	c.JSON(http.StatusOK, PresignedURLResponse{URL: url})
}
