package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/notebook-api/internal/dto"
	"github.com/noah-isme/notebook-api/internal/models"
	"github.com/noah-isme/notebook-api/internal/service"
	appErrors "github.com/noah-isme/notebook-api/pkg/errors"
	"github.com/noah-isme/notebook-api/pkg/response"
)

type gradeLedger interface {
	SaveBatch(ctx context.Context, teacherID string, req service.SaveGradesRequest) (*service.BatchResult, error)
	Delete(ctx context.Context, teacherID, gradeID string) error
	UpdateFeedback(ctx context.Context, teacherID, gradeID string, feedback *string) error
}

type gradeTypeCatalog interface {
	Options() []models.GradeTypeOption
}

// GradeHandler exposes grade ledger endpoints.
type GradeHandler struct {
	grades  gradeLedger
	catalog gradeTypeCatalog
}

// NewGradeHandler constructs handler.
func NewGradeHandler(grades gradeLedger, catalog gradeTypeCatalog) *GradeHandler {
	return &GradeHandler{grades: grades, catalog: catalog}
}

// SaveBatch godoc
// @Summary Save a grading sheet
// @Description Upsert, delete or skip grade entries for one course, subject and grade type
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.SaveGradesRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /grades/batch [post]
func (h *GradeHandler) SaveBatch(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SaveGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch payload"))
		return
	}

	result, err := h.grades.SaveBatch(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a grade
// @Tags Grades
// @Produce json
// @Param id path string true "Grade ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.grades.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// UpdateFeedback godoc
// @Summary Update grade feedback
// @Description Replace the feedback text of a grade without touching its value
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Grade ID"
// @Param payload body dto.UpdateFeedbackRequest true "Feedback payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /grades/{id}/feedback [patch]
func (h *GradeHandler) UpdateFeedback(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}

	if err := h.grades.UpdateFeedback(c.Request.Context(), claims.UserID, c.Param("id"), &req.Feedback); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"status": "feedback updated"}, nil)
}

// GradeTypes godoc
// @Summary List grade types
// @Description List the assignment type catalog with stable identifiers
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /grade-types [get]
func (h *GradeHandler) GradeTypes(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.Options(), nil)
}
