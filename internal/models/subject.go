package models

import "strings"

// Subject is a closed enumeration of the academic subjects a grade may
// belong to. Courses configure a subset of these.
type Subject string

const (
	SubjectMath              Subject = "MATH"
	SubjectEnglish           Subject = "ENGLISH"
	SubjectScience           Subject = "SCIENCE"
	SubjectHistory           Subject = "HISTORY"
	SubjectGeography         Subject = "GEOGRAPHY"
	SubjectArt               Subject = "ART"
	SubjectMusic             Subject = "MUSIC"
	SubjectPhysicalEducation Subject = "PHYSICAL_EDUCATION"
	SubjectInformatics       Subject = "INFORMATICS"
)

var subjectDisplay = map[Subject]string{
	SubjectMath:              "Mathematics",
	SubjectEnglish:           "English",
	SubjectScience:           "Science",
	SubjectHistory:           "History",
	SubjectGeography:         "Geography",
	SubjectArt:               "Art",
	SubjectMusic:             "Music",
	SubjectPhysicalEducation: "Physical Education",
	SubjectInformatics:       "Informatics",
}

// Subjects returns every subject in declaration order.
func Subjects() []Subject {
	return []Subject{
		SubjectMath,
		SubjectEnglish,
		SubjectScience,
		SubjectHistory,
		SubjectGeography,
		SubjectArt,
		SubjectMusic,
		SubjectPhysicalEducation,
		SubjectInformatics,
	}
}

// Valid reports whether s is a known subject.
func (s Subject) Valid() bool {
	_, ok := subjectDisplay[s]
	return ok
}

// Display returns the human-readable subject name.
func (s Subject) Display() string {
	if name, ok := subjectDisplay[s]; ok {
		return name
	}
	return string(s)
}

// ParseSubject maps a raw string onto a subject value.
func ParseSubject(raw string) (Subject, bool) {
	s := Subject(strings.ToUpper(strings.TrimSpace(raw)))
	if s.Valid() {
		return s, true
	}
	return "", false
}
