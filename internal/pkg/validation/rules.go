package validation

import (
	"math"
	"regexp"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`

	// Student identifier pattern - digits, e.g. 202212312
	StudentIDPattern = `^\d{4,20}$`

	// Subject code pattern - uppercase alphanumeric, e.g. CS101
	SubjectCodePattern = `^[A-Z0-9]{2,20}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email       *regexp.Regexp
	StudentID   *regexp.Regexp
	SubjectCode *regexp.Regexp
}{
	Email:       regexp.MustCompile(EmailPattern),
	StudentID:   regexp.MustCompile(StudentIDPattern),
	SubjectCode: regexp.MustCompile(SubjectCodePattern),
}

// IsValidEmail reports whether address is a syntactically valid email.
func IsValidEmail(address string) bool {
	return CompiledPatterns.Email.MatchString(address)
}

// IsValidStudentID reports whether id matches the student identifier format.
func IsValidStudentID(id string) bool {
	return CompiledPatterns.StudentID.MatchString(id)
}

// IsValidSubjectCode reports whether code matches the subject code format.
func IsValidSubjectCode(code string) bool {
	return CompiledPatterns.SubjectCode.MatchString(code)
}

// InGradeRange reports whether a grade component lies in [0,100].
func InGradeRange(v float64) bool {
	return v >= 0 && v <= 100
}

// HasAtMostOneFractionalDigit reports whether v can be represented with a
// single decimal place, the precision the subjects.units column stores.
func HasAtMostOneFractionalDigit(v float64) bool {
	scaled := v * 10
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}
