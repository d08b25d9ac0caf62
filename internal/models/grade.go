package models

import (
	"strconv"
	"time"
)

// GradeLetter is the five-step qualitative grade scale. Letters map onto
// the fixed numeric values 2 (worst) through 6 (best).
type GradeLetter string

const (
	LetterBad       GradeLetter = "BAD"
	LetterAverage   GradeLetter = "AVERAGE"
	LetterGood      GradeLetter = "GOOD"
	LetterVeryGood  GradeLetter = "VERY_GOOD"
	LetterExcellent GradeLetter = "EXCELLENT"
)

// MaxGradeValue is the numeric value of the best letter, used when deriving
// percentage displays.
const MaxGradeValue = 6

var gradeLetterValues = map[GradeLetter]int{
	LetterBad:       2,
	LetterAverage:   3,
	LetterGood:      4,
	LetterVeryGood:  5,
	LetterExcellent: 6,
}

var gradeLetterDisplay = map[GradeLetter]string{
	LetterBad:       "Bad",
	LetterAverage:   "Average",
	LetterGood:      "Good",
	LetterVeryGood:  "Very Good",
	LetterExcellent: "Excellent",
}

// GradeLetters returns all letters in ascending value order.
func GradeLetters() []GradeLetter {
	return []GradeLetter{LetterBad, LetterAverage, LetterGood, LetterVeryGood, LetterExcellent}
}

// Value returns the numeric equivalent of the letter, or 0 for an unknown
// letter. Aggregations filter on value > 0 so unknowns never contribute.
func (l GradeLetter) Value() int {
	return gradeLetterValues[l]
}

// Display returns the human-readable label of the letter.
func (l GradeLetter) Display() string {
	if label, ok := gradeLetterDisplay[l]; ok {
		return label
	}
	return string(l)
}

// LetterForValue is the inverse of Value for raw numeric input: "2".."6"
// resolve to a letter, anything else reports false.
func LetterForValue(raw string) (GradeLetter, bool) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return "", false
	}
	for _, letter := range GradeLetters() {
		if gradeLetterValues[letter] == value {
			return letter, true
		}
	}
	return "", false
}

// GradeType is the closed enumeration of assessment categories.
type GradeType string

const (
	GradeTypeExam          GradeType = "EXAM"
	GradeTypeTest          GradeType = "TEST"
	GradeTypeProject       GradeType = "PROJECT"
	GradeTypeHomework      GradeType = "HOMEWORK"
	GradeTypeParticipation GradeType = "PARTICIPATION"
)

var gradeTypeDisplay = map[GradeType]string{
	GradeTypeExam:          "Exam",
	GradeTypeTest:          "Test",
	GradeTypeProject:       "Project",
	GradeTypeHomework:      "Homework",
	GradeTypeParticipation: "Participation",
}

// GradeTypes returns every grade type in declaration order. The catalog
// derives its option ordering from this.
func GradeTypes() []GradeType {
	return []GradeType{GradeTypeExam, GradeTypeTest, GradeTypeProject, GradeTypeHomework, GradeTypeParticipation}
}

// Valid reports whether t is a known grade type.
func (t GradeType) Valid() bool {
	_, ok := gradeTypeDisplay[t]
	return ok
}

// Display returns the human-readable grade type name.
func (t GradeType) Display() string {
	if label, ok := gradeTypeDisplay[t]; ok {
		return label
	}
	return string(t)
}

// GradeTypeOption projects a grade type into a stable identifier and a
// display name so clients can round-trip a selection without a database key.
type GradeTypeOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Grade is one evaluation of one student in one subject under one grade
// type. At most one row exists per (student, subject, grade type).
type Grade struct {
	ID        string       `db:"id" json:"id"`
	StudentID string       `db:"student_id" json:"student_id"`
	Subject   Subject      `db:"subject" json:"subject"`
	GradeType GradeType    `db:"grade_type" json:"grade_type"`
	Letter    *GradeLetter `db:"letter" json:"letter,omitempty"`
	GradedAt  time.Time    `db:"graded_at" json:"graded_at"`
	GraderID  string       `db:"grader_id" json:"grader_id"`
	Feedback  *string      `db:"feedback" json:"feedback,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// Value returns the numeric equivalent of the grade's letter, 0 when absent.
func (g Grade) Value() int {
	if g.Letter == nil {
		return 0
	}
	return g.Letter.Value()
}

// GradeView is the read model returned by grade queries, carrying display
// fields alongside the raw record.
type GradeView struct {
	Grade
	GraderName  string `db:"grader_name" json:"grader_name"`
	SubjectName string `json:"subject_name"`
	TypeName    string `json:"type_name"`
}
