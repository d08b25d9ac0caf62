package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/notebook-api/internal/models"
	appErrors "github.com/noah-isme/notebook-api/pkg/errors"
	"github.com/noah-isme/notebook-api/pkg/export"
)

// ExportFormat identifies a supported grade sheet format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

// GradeSheetRequest selects the course slice to export.
type GradeSheetRequest struct {
	CourseID string       `json:"course_id" validate:"required"`
	Subject  string       `json:"subject" validate:"required"`
	Format   ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportResult carries a rendered grade sheet ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders per-course grade sheets for download.
type ExportService struct {
	courses courseRosterProvider
	grades  gradeHistoryReader
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(courses courseRosterProvider, grades gradeHistoryReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{courses: courses, grades: grades, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// GradeSheet renders the grade matrix of one course subject. Only the
// course teacher may export it.
func (s *ExportService) GradeSheet(ctx context.Context, teacherID string, req GradeSheetRequest) (*ExportResult, error) {
	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if !course.OwnedBy(teacherID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the course teacher may export grade sheets")
	}
	subject, ok := models.ParseSubject(req.Subject)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown subject")
	}
	if !course.HasSubject(subject) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject is not taught in this course")
	}

	dataset, err := s.buildDataset(ctx, course, subject)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Grade Sheet %s", course.Name)
	subtitle := fmt.Sprintf("%s, generated %s", subject.Display(), s.now().UTC().Format("2006-01-02"))

	var payload []byte
	var contentType string
	switch req.Format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title, subtitle)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", req.Format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render grade sheet")
	}

	return &ExportResult{
		Filename:    s.buildFilename(course, subject, req.Format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

func (s *ExportService) buildDataset(ctx context.Context, course *models.Course, subject models.Subject) (export.Dataset, error) {
	roster, err := s.courses.Students(ctx, course.ID)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	ids := make([]string, 0, len(roster))
	for _, student := range roster {
		ids = append(ids, student.ID)
	}
	byStudent, err := s.grades.FetchByStudents(ctx, ids)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}

	types := models.GradeTypes()
	headers := make([]string, 0, len(types)+2)
	headers = append(headers, "Student")
	for _, t := range types {
		headers = append(headers, t.Display())
	}
	headers = append(headers, "Average")

	rows := make([]map[string]string, 0, len(roster))
	for _, student := range roster {
		subjectGrades := make([]models.Grade, 0)
		byType := make(map[models.GradeType]models.Grade)
		for _, grade := range byStudent[student.ID] {
			if grade.Subject != subject {
				continue
			}
			subjectGrades = append(subjectGrades, grade)
			byType[grade.GradeType] = grade
		}

		row := map[string]string{"Student": student.FullName}
		for _, t := range types {
			cell := ""
			if grade, ok := byType[t]; ok && grade.Value() > 0 {
				cell = fmt.Sprintf("%d", grade.Value())
			}
			row[t.Display()] = cell
		}
		row["Average"] = AverageDisplay(subjectGrades)
		rows = append(rows, row)
	}

	return export.Dataset{Headers: headers, Rows: rows}, nil
}

func (s *ExportService) buildFilename(course *models.Course, subject models.Subject, format ExportFormat) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	name := fmt.Sprintf("grades_%s_%s_%s.%s", sanitizeFilename(course.Name), strings.ToLower(string(subject)), timestamp, format)
	return name
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return strings.ToLower(result)
}
