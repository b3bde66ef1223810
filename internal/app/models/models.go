// Package models defines the entities backing the student records schema.
package models

// Role defines the account role type
type Role string

const (
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// Course is the degree program a student is taking.
type Course string

const (
	CourseBSIT   Course = "BSIT"
	CourseBSCS   Course = "BSCS"
	CourseBSCRIM Course = "BSCRIM"
	CourseBSBM   Course = "BSBM"
	CourseBSED   Course = "BSED"
	CourseBSHM   Course = "BSHM"
	CourseBSP    Course = "BSP"
)

// Courses lists every recognized course.
var Courses = []Course{
	CourseBSIT, CourseBSCS, CourseBSCRIM, CourseBSBM, CourseBSED, CourseBSHM, CourseBSP,
}

// Valid reports whether c is a member of the course enumeration.
func (c Course) Valid() bool {
	for _, course := range Courses {
		if c == course {
			return true
		}
	}
	return false
}

// YearLevel is the student's academic year.
type YearLevel string

const (
	YearFirst  YearLevel = "1st Year"
	YearSecond YearLevel = "2nd Year"
	YearThird  YearLevel = "3rd Year"
	YearFourth YearLevel = "4th Year"
)

// YearLevels lists every recognized year level.
var YearLevels = []YearLevel{YearFirst, YearSecond, YearThird, YearFourth}

// Valid reports whether y is a member of the year level enumeration.
func (y YearLevel) Valid() bool {
	for _, level := range YearLevels {
		if y == level {
			return true
		}
	}
	return false
}

// Gender enumeration.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is a member of the gender enumeration.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}
