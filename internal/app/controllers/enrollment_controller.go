package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/app/services"
	"github.com/jdelacruz/schoolrecords/internal/middleware"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
)

// EnrollmentController handles enrollment endpoints
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// bindSubjectCode reads the enroll/unenroll body. A missing code is a
// validation failure, not a lookup failure.
func bindSubjectCode(ctx *gin.Context) (string, bool) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return "", false
	}
	code := strings.TrimSpace(req.SubjectCode)
	if code == "" {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "subject_code is required.").WithField("subject_code")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return "", false
	}
	return code, true
}

// ListEnrollments lists enrollments
// @Summary List enrollments
// @Description Retrieves enrollments. Teachers see every record; students see only their own.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	actor, ok := middleware.MustGetActor(ctx)
	if !ok {
		return
	}

	enrollments, err := c.enrollmentService.ListEnrollments(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(enrollments))
}

// CreateEnrollment enrolls a student in a subject
// @Summary Create an enrollment
// @Description Enrolls a student in a subject by natural keys. Students may only enroll themselves.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEnrollmentRequest true "Enrollment information"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Enrollment created"
// @Failure 400 {object} dto.ErrorResponse "Already enrolled or invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Students may only enroll themselves"
// @Failure 404 {object} dto.ErrorResponse "Student or subject not found"
// @Router /enrollments [post]
func (c *EnrollmentController) CreateEnrollment(ctx *gin.Context) {
	actor, ok := middleware.MustGetActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	enrollment, err := c.enrollmentService.CreateEnrollment(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(enrollment))
}

// GetEnrollment retrieves one enrollment
// @Summary Get an enrollment
// @Description Retrieves an enrollment by id. Students can only read their own records.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Enrollment retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [get]
func (c *EnrollmentController) GetEnrollment(ctx *gin.Context) {
	actor, ok := middleware.MustGetActor(ctx)
	if !ok {
		return
	}

	id, ok := parseRecordID(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.GetEnrollment(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(enrollment))
}

// DeleteEnrollment removes an enrollment
// @Summary Delete an enrollment
// @Description Removes an enrollment by id. Students may only remove their own enrollments.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse "Enrollment deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) DeleteEnrollment(ctx *gin.Context) {
	actor, ok := middleware.MustGetActor(ctx)
	if !ok {
		return
	}

	id, ok := parseRecordID(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.DeleteEnrollment(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Enrollment deleted successfully."))
}

// requireStudentScope ensures the actor may act on the path student.
func requireStudentScope(ctx *gin.Context) (string, bool) {
	actor, ok := middleware.MustGetActor(ctx)
	if !ok {
		return "", false
	}

	studentID := ctx.Param("studentId")
	if !actor.IsTeacher() && !actor.OwnsStudent(studentID) {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return "", false
	}

	return studentID, true
}

// ListStudentEnrollments lists the subject codes a student is enrolled in
// @Summary List a student's enrolled subjects
// @Description Retrieves the codes of every subject the student is enrolled in.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]string} "Subject codes retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Students may only view their own enrollments"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{studentId}/enrollments [get]
func (c *EnrollmentController) ListStudentEnrollments(ctx *gin.Context) {
	studentID, ok := requireStudentScope(ctx)
	if !ok {
		return
	}

	codes, err := c.enrollmentService.ListSubjectCodesByStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(codes))
}

// Enroll enrolls the path student in a subject
// @Summary Enroll a student in a subject
// @Description Enrolls the student in the subject named by subject_code. Students may only enroll themselves.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param request body dto.EnrollRequest true "Subject code"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Enrolled"
// @Failure 400 {object} dto.ErrorResponse "Missing subject_code or already enrolled"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Students may only enroll themselves"
// @Failure 404 {object} dto.ErrorResponse "Student or subject not found"
// @Router /students/{studentId}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	studentID, ok := requireStudentScope(ctx)
	if !ok {
		return
	}

	code, ok := bindSubjectCode(ctx)
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx.Request.Context(), studentID, code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(enrollment))
}

// Unenroll removes the path student's enrollment in a subject
// @Summary Unenroll a student from a subject
// @Description Removes the student's enrollment in the subject named by subject_code. Students may only unenroll themselves.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param request body dto.EnrollRequest true "Subject code"
// @Success 200 {object} dto.APIResponse "Unenrolled"
// @Failure 400 {object} dto.ErrorResponse "Missing subject_code or not enrolled"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Students may only unenroll themselves"
// @Failure 404 {object} dto.ErrorResponse "Student or subject not found"
// @Router /students/{studentId}/unenroll [post]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	studentID, ok := requireStudentScope(ctx)
	if !ok {
		return
	}

	code, ok := bindSubjectCode(ctx)
	if !ok {
		return
	}

	if err := c.enrollmentService.Unenroll(ctx.Request.Context(), studentID, code); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Unenrolled successfully."))
}
