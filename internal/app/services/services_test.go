package services

import (
	"context"
	"sort"
	"time"

	"github.com/jdelacruz/schoolrecords/internal/app/models"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
)

// In-memory store fakes shared by the service tests.

type fakeStudentStore struct {
	students map[string]*models.Student

	// Optional dependent stores mirroring the ON DELETE CASCADE foreign
	// keys on grades and enrollments.
	grades      *fakeGradeStore
	enrollments *fakeEnrollmentStore
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: make(map[string]*models.Student)}
}

func (f *fakeStudentStore) Create(_ context.Context, student *models.Student) error {
	if _, ok := f.students[student.StudentID]; ok {
		return apperrors.ErrStudentIDAlreadyExists
	}
	for _, existing := range f.students {
		if existing.Email == student.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now
	copied := *student
	f.students[student.StudentID] = &copied
	return nil
}

func (f *fakeStudentStore) GetByID(_ context.Context, studentID string) (*models.Student, error) {
	student, ok := f.students[studentID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	copied := *student
	return &copied, nil
}

func (f *fakeStudentStore) GetAll(_ context.Context, offset uint64, limit int) ([]*models.Student, error) {
	ids := make([]string, 0, len(f.students))
	for id := range f.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := []*models.Student{}
	for i, id := range ids {
		if uint64(i) < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		copied := *f.students[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeStudentStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.students)), nil
}

func (f *fakeStudentStore) ExistsByID(_ context.Context, studentID string) (bool, error) {
	_, ok := f.students[studentID]
	return ok, nil
}

func (f *fakeStudentStore) EmailInUse(_ context.Context, email, excludeID string) (bool, error) {
	for id, existing := range f.students {
		if id != excludeID && existing.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentStore) Update(_ context.Context, student *models.Student) error {
	if _, ok := f.students[student.StudentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	student.UpdatedAt = time.Now()
	copied := *student
	f.students[student.StudentID] = &copied
	return nil
}

func (f *fakeStudentStore) UpdateImagePath(_ context.Context, studentID string, imageURL *string) error {
	student, ok := f.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	student.ImageURL = imageURL
	return nil
}

func (f *fakeStudentStore) Delete(_ context.Context, studentID string) error {
	if _, ok := f.students[studentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.students, studentID)

	if f.grades != nil {
		for id, grade := range f.grades.grades {
			if grade.StudentID == studentID {
				delete(f.grades.grades, id)
			}
		}
	}
	if f.enrollments != nil {
		for id, enrollment := range f.enrollments.enrollments {
			if enrollment.StudentID == studentID {
				delete(f.enrollments.enrollments, id)
			}
		}
	}
	return nil
}

type fakeSubjectStore struct {
	subjects map[string]*models.Subject
}

func newFakeSubjectStore() *fakeSubjectStore {
	return &fakeSubjectStore{subjects: make(map[string]*models.Subject)}
}

func (f *fakeSubjectStore) Create(_ context.Context, subject *models.Subject) error {
	if _, ok := f.subjects[subject.Code]; ok {
		return apperrors.ErrSubjectAlreadyExists
	}
	copied := *subject
	f.subjects[subject.Code] = &copied
	return nil
}

func (f *fakeSubjectStore) GetByCode(_ context.Context, code string) (*models.Subject, error) {
	subject, ok := f.subjects[code]
	if !ok {
		return nil, apperrors.ErrSubjectNotFound
	}
	copied := *subject
	return &copied, nil
}

func (f *fakeSubjectStore) GetAll(_ context.Context, offset uint64, limit int) ([]*models.Subject, error) {
	codes := make([]string, 0, len(f.subjects))
	for code := range f.subjects {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := []*models.Subject{}
	for i, code := range codes {
		if uint64(i) < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		copied := *f.subjects[code]
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeSubjectStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.subjects)), nil
}

func (f *fakeSubjectStore) NameInUse(_ context.Context, name, excludeCode string) (bool, error) {
	for code, subject := range f.subjects {
		if code != excludeCode && subject.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubjectStore) Update(_ context.Context, subject *models.Subject) error {
	if _, ok := f.subjects[subject.Code]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	copied := *subject
	f.subjects[subject.Code] = &copied
	return nil
}

func (f *fakeSubjectStore) Delete(_ context.Context, code string) error {
	if _, ok := f.subjects[code]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	delete(f.subjects, code)
	return nil
}

type fakeGradeStore struct {
	grades map[int64]*models.Grade
	nextID int64
}

func newFakeGradeStore() *fakeGradeStore {
	return &fakeGradeStore{grades: make(map[int64]*models.Grade), nextID: 1}
}

func (f *fakeGradeStore) Create(_ context.Context, grade *models.Grade) error {
	for _, existing := range f.grades {
		if existing.StudentID == grade.StudentID && existing.SubjectCode == grade.SubjectCode {
			return apperrors.ErrGradeAlreadyExists
		}
	}
	grade.ID = f.nextID
	f.nextID++
	copied := *grade
	f.grades[grade.ID] = &copied
	return nil
}

func (f *fakeGradeStore) GetByID(_ context.Context, id int64) (*models.Grade, error) {
	grade, ok := f.grades[id]
	if !ok {
		return nil, apperrors.ErrGradeNotFound
	}
	copied := *grade
	return &copied, nil
}

func (f *fakeGradeStore) GetAll(_ context.Context) ([]*models.Grade, error) {
	out := []*models.Grade{}
	for _, grade := range f.grades {
		copied := *grade
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeGradeStore) GetByStudentID(_ context.Context, studentID string) ([]*models.Grade, error) {
	out := []*models.Grade{}
	for _, grade := range f.grades {
		if grade.StudentID == studentID {
			copied := *grade
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeGradeStore) ExistsForPair(_ context.Context, studentID, subjectCode string, excludeID int64) (bool, error) {
	for _, grade := range f.grades {
		if grade.ID != excludeID && grade.StudentID == studentID && grade.SubjectCode == subjectCode {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGradeStore) Update(_ context.Context, grade *models.Grade) error {
	if _, ok := f.grades[grade.ID]; !ok {
		return apperrors.ErrGradeNotFound
	}
	copied := *grade
	f.grades[grade.ID] = &copied
	return nil
}

func (f *fakeGradeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.grades[id]; !ok {
		return apperrors.ErrGradeNotFound
	}
	delete(f.grades, id)
	return nil
}

type fakeEnrollmentStore struct {
	enrollments map[int64]*models.Enrollment
	nextID      int64
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{enrollments: make(map[int64]*models.Enrollment), nextID: 1}
}

func (f *fakeEnrollmentStore) Create(_ context.Context, enrollment *models.Enrollment) error {
	for _, existing := range f.enrollments {
		if existing.StudentID == enrollment.StudentID && existing.SubjectCode == enrollment.SubjectCode {
			return apperrors.ErrAlreadyEnrolled
		}
	}
	enrollment.ID = f.nextID
	f.nextID++
	enrollment.EnrolledAt = time.Now()
	copied := *enrollment
	f.enrollments[enrollment.ID] = &copied
	return nil
}

func (f *fakeEnrollmentStore) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	enrollment, ok := f.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	copied := *enrollment
	return &copied, nil
}

func (f *fakeEnrollmentStore) GetAll(_ context.Context) ([]*models.Enrollment, error) {
	out := []*models.Enrollment{}
	for _, enrollment := range f.enrollments {
		copied := *enrollment
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEnrollmentStore) GetByStudentID(_ context.Context, studentID string) ([]*models.Enrollment, error) {
	out := []*models.Enrollment{}
	for _, enrollment := range f.enrollments {
		if enrollment.StudentID == studentID {
			copied := *enrollment
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEnrollmentStore) GetSubjectCodesByStudentID(ctx context.Context, studentID string) ([]string, error) {
	enrollments, err := f.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	codes := []string{}
	for _, enrollment := range enrollments {
		codes = append(codes, enrollment.SubjectCode)
	}
	return codes, nil
}

func (f *fakeEnrollmentStore) ExistsForPair(_ context.Context, studentID, subjectCode string) (bool, error) {
	for _, enrollment := range f.enrollments {
		if enrollment.StudentID == studentID && enrollment.SubjectCode == subjectCode {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.enrollments[id]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	delete(f.enrollments, id)
	return nil
}

func (f *fakeEnrollmentStore) DeleteByPair(_ context.Context, studentID, subjectCode string) (bool, error) {
	for id, enrollment := range f.enrollments {
		if enrollment.StudentID == studentID && enrollment.SubjectCode == subjectCode {
			delete(f.enrollments, id)
			return true, nil
		}
	}
	return false, nil
}

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64

	// failCreate, when set, makes the next Create fail the way a lost
	// unique-constraint race does.
	failCreate error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if f.failCreate != nil {
		err := f.failCreate
		f.failCreate = nil
		return err
	}
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return apperrors.ErrUsernameAlreadyUsed
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) ExistsByStudentID(_ context.Context, studentID string) (bool, error) {
	for _, user := range f.users {
		if user.StudentID != nil && *user.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id int64) error {
	user, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

type storedToken struct {
	userID  int64
	expiry  time.Time
	revoked bool
}

type fakeTokenStore struct {
	tokens map[string]*storedToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*storedToken)}
}

func (f *fakeTokenStore) CreateToken(_ context.Context, token string, userID int64, expiryDate time.Time) error {
	f.tokens[token] = &storedToken{userID: userID, expiry: expiryDate}
	return nil
}

func (f *fakeTokenStore) GetTokenByValue(_ context.Context, token string) (int64, time.Time, bool, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return 0, time.Time{}, false, apperrors.ErrTokenNotFound
	}
	return stored.userID, stored.expiry, stored.revoked, nil
}

func (f *fakeTokenStore) RevokeToken(_ context.Context, token string) error {
	stored, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	stored.revoked = true
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(_ context.Context, userID int64) error {
	for _, stored := range f.tokens {
		if stored.userID == userID {
			stored.revoked = true
		}
	}
	return nil
}

// fakeAtomic mimics a database transaction over the map-backed fakes,
// restoring both stores when the callback fails.
func fakeAtomic(users *fakeUserStore, students *fakeStudentStore) Atomic {
	return func(_ context.Context, fn func(UserStore, StudentStore) error) error {
		userSnap := make(map[int64]*models.User, len(users.users))
		for id, user := range users.users {
			userSnap[id] = user
		}
		studentSnap := make(map[string]*models.Student, len(students.students))
		for id, student := range students.students {
			studentSnap[id] = student
		}

		if err := fn(users, students); err != nil {
			users.users = userSnap
			students.students = studentSnap
			return err
		}
		return nil
	}
}

// seedStudent inserts a minimal valid student directly into the fake store.
func seedStudent(store *fakeStudentStore, studentID string) {
	store.students[studentID] = &models.Student{
		StudentID:   studentID,
		FirstName:   "Juan",
		LastName:    "Dela Cruz",
		Gender:      models.GenderMale,
		DateOfBirth: time.Date(2003, time.June, 15, 0, 0, 0, 0, time.UTC),
		Email:       studentID + "@example.com",
		Section:     1,
		Course:      models.CourseBSIT,
		YearLevel:   models.YearFirst,
	}
}

// seedSubject inserts a subject directly into the fake store.
func seedSubject(store *fakeSubjectStore, code, name string) {
	store.subjects[code] = &models.Subject{
		Code:  code,
		Name:  name,
		Units: 3.0,
	}
}
