package service

import (
	"github.com/noah-isme/notebook-api/internal/models"
)

// CanMutateGrade decides whether the acting teacher may delete a grade or
// amend its feedback. Access is granted when either:
//
//   - the grade's student currently belongs to a course whose teacher of
//     record is the acting teacher, or
//   - the acting teacher issued the grade.
//
// A missing student, a missing course or a course without a teacher of
// record make the first clause false; the issuing teacher keeps their
// rights even after the student moves courses or the course changes hands.
func CanMutateGrade(teacherID string, grade *models.Grade, student *models.Student, course *models.Course) bool {
	if teacherID == "" || grade == nil {
		return false
	}
	if student != nil && course.OwnedBy(teacherID) {
		return true
	}
	return grade.GraderID == teacherID
}
