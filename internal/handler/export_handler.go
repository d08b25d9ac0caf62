package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/notebook-api/internal/service"
	appErrors "github.com/noah-isme/notebook-api/pkg/errors"
	"github.com/noah-isme/notebook-api/pkg/response"
)

type gradeSheetExporter interface {
	GradeSheet(ctx context.Context, teacherID string, req service.GradeSheetRequest) (*service.ExportResult, error)
}

// ExportHandler serves grade sheet downloads.
type ExportHandler struct {
	exports gradeSheetExporter
}

// NewExportHandler constructs handler.
func NewExportHandler(exports gradeSheetExporter) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// GradeSheet godoc
// @Summary Export a grade sheet
// @Description Render the grade matrix of one course subject as CSV or PDF
// @Tags Exports
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param payload body service.GradeSheetRequest true "Export payload"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /exports/grade-sheet [post]
func (h *ExportHandler) GradeSheet(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.GradeSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	result, err := h.exports.GradeSheet(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
