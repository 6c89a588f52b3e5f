package api

import (
	"net/http"

	"coachpack/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler holds the admin service dependency.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers godoc
// @Summary List all user accounts
// @Tags Admin
// @Produce json
// @Success 200 {array} UserResponse
// @Failure 403 {object} gin.H "Admin role required"
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list users")
		return
	}
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, MapUserToResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// ExportUsers godoc
// @Summary Export the user table as CSV
// @Description Columns: Name, Email, Plan Type, Signup Date, Verified, Created At.
// @Tags Admin
// @Produce text/csv
// @Success 200 {string} string "CSV payload"
// @Failure 403 {object} gin.H "Admin role required"
// @Router /admin/users/export [get]
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	csv, err := h.adminService.ExportUsersCSV(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to export users")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="users.csv"`)
	c.Data(http.StatusOK, "text/csv", csv)
}
