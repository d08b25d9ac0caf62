package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/notebook-api/internal/dto"
	"github.com/noah-isme/notebook-api/internal/models"
	appErrors "github.com/noah-isme/notebook-api/pkg/errors"
	"github.com/noah-isme/notebook-api/pkg/response"
)

type studentHomeService interface {
	Home(ctx context.Context, studentID string) (*dto.StudentHomeResponse, bool, error)
}

// DashboardHandler serves the student home dashboard.
type DashboardHandler struct {
	home studentHomeService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(home studentHomeService) *DashboardHandler {
	return &DashboardHandler{home: home}
}

// StudentHome godoc
// @Summary Student dashboard
// @Description Recent grades, upcoming assignments, averages and the class leaderboard for one student
// @Tags Dashboard
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id}/home [get]
func (h *DashboardHandler) StudentHome(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	studentID := c.Param("id")
	if claims.Role == models.RoleStudent && claims.UserID != studentID {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	res, cached, err := h.home.Home(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil, map[string]interface{}{"cached": cached})
}
