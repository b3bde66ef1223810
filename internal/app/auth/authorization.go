// Package auth holds the authorization policy for the API: which role may
// perform which operation, and the self-or-teacher scoping rules.
package auth

import (
	"github.com/jdelacruz/schoolrecords/internal/app/models"
)

// Actor is the authenticated principal attached to a request.
type Actor struct {
	UserID    int64
	Username  string
	Role      models.Role
	StudentID *string
}

// IsTeacher reports whether the actor has the teacher role.
func (a Actor) IsTeacher() bool {
	return a.Role == models.RoleTeacher
}

// OwnsStudent reports whether the actor is the student identified by
// studentID, via the persisted credential-to-student link.
func (a Actor) OwnsStudent(studentID string) bool {
	return a.StudentID != nil && *a.StudentID == studentID
}

// Operation names an API operation for policy lookup.
type Operation string

// Operations subject to role policy.
const (
	OpStudentRead     Operation = "student:read"
	OpStudentWrite    Operation = "student:write"
	OpSubjectRead     Operation = "subject:read"
	OpSubjectWrite    Operation = "subject:write"
	OpGradeRead       Operation = "grade:read"
	OpGradeWrite      Operation = "grade:write"
	OpEnrollmentRead  Operation = "enrollment:read"
	OpEnrollmentWrite Operation = "enrollment:write"
)

// policy maps (operation, role) to allow. Operations absent for a role are
// denied. Scoping of reads (a student seeing only their own rows) is applied
// by the services on top of this table.
var policy = map[Operation]map[models.Role]bool{
	OpStudentRead:     {models.RoleTeacher: true},
	OpStudentWrite:    {models.RoleTeacher: true},
	OpSubjectRead:     {models.RoleTeacher: true, models.RoleStudent: true},
	OpSubjectWrite:    {models.RoleTeacher: true},
	OpGradeRead:       {models.RoleTeacher: true, models.RoleStudent: true},
	OpGradeWrite:      {models.RoleTeacher: true},
	OpEnrollmentRead:  {models.RoleTeacher: true, models.RoleStudent: true},
	OpEnrollmentWrite: {models.RoleTeacher: true, models.RoleStudent: true},
}

// Allowed reports whether role may perform op.
func Allowed(op Operation, role models.Role) bool {
	roles, ok := policy[op]
	if !ok {
		return false
	}
	return roles[role]
}
