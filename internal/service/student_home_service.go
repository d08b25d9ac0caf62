package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/notebook-api/internal/dto"
	"github.com/noah-isme/notebook-api/internal/models"
	appErrors "github.com/noah-isme/notebook-api/pkg/errors"
)

type gradeHistoryReader interface {
	FindByStudent(ctx context.Context, studentID string) ([]models.Grade, error)
	FetchByStudents(ctx context.Context, studentIDs []string) (map[string][]models.Grade, error)
}

type courseRosterProvider interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Students(ctx context.Context, courseID string) ([]models.Student, error)
}

type assignmentLister interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
}

// StudentHomeConfig tunes dashboard composition.
type StudentHomeConfig struct {
	CacheTTL        time.Duration
	RecentLimit     int
	UpcomingLimit   int
	LeaderboardSize int
}

// StudentHomeService composes the student dashboard payload.
type StudentHomeService struct {
	students    studentReader
	courses     courseRosterProvider
	grades      gradeHistoryReader
	assignments assignmentLister
	cache       *CacheService
	logger      *zap.Logger
	now         func() time.Time
	cfg         StudentHomeConfig
}

// StudentHomeServiceParams groups constructor dependencies.
type StudentHomeServiceParams struct {
	Students    studentReader
	Courses     courseRosterProvider
	Grades      gradeHistoryReader
	Assignments assignmentLister
	Cache       *CacheService
	Logger      *zap.Logger
	Config      StudentHomeConfig
}

// NewStudentHomeService constructs a StudentHomeService with sane defaults.
func NewStudentHomeService(params StudentHomeServiceParams) *StudentHomeService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 3
	}
	if cfg.UpcomingLimit <= 0 {
		cfg.UpcomingLimit = 3
	}
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = 5
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentHomeService{
		students:    params.Students,
		courses:     params.Courses,
		grades:      params.Grades,
		assignments: params.Assignments,
		cache:       params.Cache,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
	}
}

// Home returns the student dashboard and indicates cache utilisation.
func (s *StudentHomeService) Home(ctx context.Context, studentID string) (*dto.StudentHomeResponse, bool, error) {
	if studentID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	cacheKey := fmt.Sprintf("home:student:%s", studentID)
	if s.cache.Enabled() {
		var cached dto.StudentHomeResponse
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("student home cache lookup failed", zap.String("student_id", studentID), zap.Error(err))
		} else if hit {
			return &cached, true, nil
		}
	}

	resp, err := s.compose(ctx, studentID)
	if err != nil {
		return nil, false, err
	}
	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("student home cache persist failed", zap.String("student_id", studentID), zap.Error(err))
		}
	}
	return resp, false, nil
}

// InvalidateStudent drops the cached dashboard for one student.
func (s *StudentHomeService) InvalidateStudent(ctx context.Context, studentID string) {
	if !s.cache.Enabled() || studentID == "" {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("home:student:%s", studentID)); err != nil {
		s.logger.Warn("student home cache invalidation failed", zap.String("student_id", studentID), zap.Error(err))
	}
}

func (s *StudentHomeService) compose(ctx context.Context, studentID string) (*dto.StudentHomeResponse, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	grades, err := s.grades.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}

	resp := &dto.StudentHomeResponse{
		StudentID:         student.ID,
		StudentName:       student.FullName,
		CourseID:          student.CourseID,
		AverageDisplay:    AverageDisplay(grades),
		AttendanceDisplay: NoDataDisplay,
		RecentGrades:      gradeItems(RecentGrades(grades, s.cfg.RecentLimit)),
		SubjectBreakdown:  breakdownItems(SubjectBreakdown(grades, ByPercentageDesc)),
	}

	if student.CourseID == nil {
		return resp, nil
	}
	s.composeCourseSection(ctx, *student.CourseID, studentID, grades, resp)
	return resp, nil
}

// composeCourseSection fills in the roster-scoped parts of the dashboard.
// Failures here degrade to a partial payload rather than failing the request.
func (s *StudentHomeService) composeCourseSection(ctx context.Context, courseID, studentID string, grades []models.Grade, resp *dto.StudentHomeResponse) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("course lookup failed for dashboard", zap.String("course_id", courseID), zap.Error(err))
		return
	}
	if course == nil {
		return
	}
	resp.CourseName = course.Name

	roster, err := s.courses.Students(ctx, courseID)
	if err != nil {
		s.logger.Warn("roster lookup failed for dashboard", zap.String("course_id", courseID), zap.Error(err))
	} else if len(roster) > 0 {
		ids := make([]string, 0, len(roster))
		for _, member := range roster {
			ids = append(ids, member.ID)
		}
		byStudent, err := s.grades.FetchByStudents(ctx, ids)
		if err != nil {
			s.logger.Warn("roster grades lookup failed for dashboard", zap.String("course_id", courseID), zap.Error(err))
		} else {
			resp.Leaderboard = leaderboardItems(Leaderboard(roster, byStudent, studentID, s.cfg.LeaderboardSize))
		}
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Warn("assignment lookup failed for dashboard", zap.String("course_id", courseID), zap.Error(err))
		return
	}
	now := s.now().UTC()
	resp.UpcomingAssignments = upcomingItems(UpcomingAssignments(assignments, now, s.cfg.UpcomingLimit))
	resp.PendingAssignments = PendingCount(assignments, now)

	graded := 0
	for _, grade := range grades {
		if grade.Value() > 0 {
			graded++
		}
	}
	resp.AttendanceDisplay = AttendanceDisplay(graded, len(assignments))
}

func gradeItems(grades []models.Grade) []dto.GradeItem {
	items := make([]dto.GradeItem, 0, len(grades))
	for _, grade := range grades {
		item := dto.GradeItem{
			ID:            grade.ID,
			Subject:       string(grade.Subject),
			SubjectName:   grade.Subject.Display(),
			GradeType:     string(grade.GradeType),
			GradeTypeName: grade.GradeType.Display(),
			Value:         grade.Value(),
			GradedAt:      grade.GradedAt,
			Feedback:      grade.Feedback,
		}
		if grade.Letter != nil {
			item.Letter = string(*grade.Letter)
			item.LetterDisplay = grade.Letter.Display()
		}
		items = append(items, item)
	}
	return items
}

func breakdownItems(summaries []SubjectSummary) []dto.SubjectBreakdownItem {
	items := make([]dto.SubjectBreakdownItem, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, dto.SubjectBreakdownItem{
			Subject:     string(summary.Subject),
			SubjectName: summary.SubjectName,
			Average:     summary.Average,
			Percentage:  summary.Percentage,
			GradeCount:  summary.GradeCount,
		})
	}
	return items
}

func leaderboardItems(entries []LeaderboardEntry) []dto.LeaderboardItem {
	items := make([]dto.LeaderboardItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.LeaderboardItem{
			Rank:           entry.Rank,
			StudentID:      entry.StudentID,
			StudentName:    entry.StudentName,
			AverageDisplay: entry.AverageDisplay,
			IsCurrentUser:  entry.IsCurrentUser,
		})
	}
	return items
}

func upcomingItems(assignments []UpcomingAssignment) []dto.UpcomingAssignmentItem {
	items := make([]dto.UpcomingAssignmentItem, 0, len(assignments))
	for _, assignment := range assignments {
		items = append(items, dto.UpcomingAssignmentItem{
			ID:            assignment.ID,
			Subject:       string(assignment.Subject),
			SubjectName:   assignment.Subject.Display(),
			Title:         assignment.Title,
			DueDate:       assignment.DueDate,
			Priority:      string(assignment.Priority),
			PriorityLabel: assignment.Priority.Display(),
			DaysLeft:      assignment.DaysLeft,
		})
	}
	return items
}
