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

type studentGradesService interface {
	OverviewForTeacher(ctx context.Context, teacherID, studentID string, courseID *string) (*dto.StudentGradesResponse, error)
	OverviewForStudent(ctx context.Context, studentID string) (*dto.StudentGradesResponse, error)
}

// StudentGradesHandler serves grade history views.
type StudentGradesHandler struct {
	overview studentGradesService
}

// NewStudentGradesHandler constructs handler.
func NewStudentGradesHandler(overview studentGradesService) *StudentGradesHandler {
	return &StudentGradesHandler{overview: overview}
}

// Overview godoc
// @Summary Student grade history
// @Description Full grade history of a student. Teachers see the subjects of a course they own; students see their own grades.
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Param courseId query string false "Scope to a specific course"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id}/grades [get]
func (h *StudentGradesHandler) Overview(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	studentID := c.Param("id")

	if claims.Role == models.RoleStudent {
		if claims.UserID != studentID {
			response.Error(c, appErrors.ErrForbidden)
			return
		}
		res, err := h.overview.OverviewForStudent(c.Request.Context(), studentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, res, nil)
		return
	}

	var courseID *string
	if id := c.Query("courseId"); id != "" {
		courseID = &id
	}

	res, err := h.overview.OverviewForTeacher(c.Request.Context(), claims.UserID, studentID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
