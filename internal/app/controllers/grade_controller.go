package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/app/services"
	"github.com/jdelacruz/schoolrecords/internal/middleware"
)

// GradeController handles grade record endpoints
type GradeController struct {
	gradeService *services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService *services.GradeService) *GradeController {
	return &GradeController{
		gradeService: gradeService,
	}
}

func parseRecordID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Record ID must be a valid number.").WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}

// ListGrades lists grade records
// @Summary List grades
// @Description Retrieves grade records. Teachers see every record; students see only their own.
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.GradeResponse} "Grades retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /grades [get]
func (c *GradeController) ListGrades(ctx *gin.Context) {
	actor, ok := middleware.MustGetActor(ctx)
	if !ok {
		return
	}

	grades, err := c.gradeService.ListGrades(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewGradeResponses(grades)))
}

// ListStudentGrades lists the grades of one student
// @Summary List a student's grades
// @Description Retrieves every grade record of the student. Students may only view their own grades.
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.GradeResponse} "Grades retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Students may only view their own grades"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{studentId}/grades [get]
func (c *GradeController) ListStudentGrades(ctx *gin.Context) {
	studentID, ok := requireStudentScope(ctx)
	if !ok {
		return
	}

	grades, err := c.gradeService.ListGradesByStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewGradeResponses(grades)))
}

// CreateGrade creates a grade record
// @Summary Create a grade
// @Description Records the activity, quiz and exam grades of a student for a subject. Student and subject are referenced by natural key.
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGradeRequest true "Grade information"
// @Success 201 {object} dto.APIResponse{data=dto.GradeResponse} "Grade created"
// @Failure 400 {object} dto.ErrorResponse "Component out of range or duplicate pair"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Teacher role required"
// @Failure 404 {object} dto.ErrorResponse "Student or subject not found"
// @Router /grades [post]
func (c *GradeController) CreateGrade(ctx *gin.Context) {
	var req dto.CreateGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	grade, err := c.gradeService.CreateGrade(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewGradeResponse(grade)))
}

// GetGrade retrieves one grade record
// @Summary Get a grade
// @Description Retrieves a grade record by id. Students can only read their own records.
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Success 200 {object} dto.APIResponse{data=dto.GradeResponse} "Grade retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /grades/{id} [get]
func (c *GradeController) GetGrade(ctx *gin.Context) {
	actor, ok := middleware.MustGetActor(ctx)
	if !ok {
		return
	}

	id, ok := parseRecordID(ctx, "id")
	if !ok {
		return
	}

	grade, err := c.gradeService.GetGrade(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewGradeResponse(grade)))
}

// UpdateGrade applies a partial update
// @Summary Update a grade
// @Description Applies a partial update to a grade record, including re-pointing its student or subject by natural key.
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Param request body dto.UpdateGradeRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.GradeResponse} "Grade updated"
// @Failure 400 {object} dto.ErrorResponse "Component out of range or duplicate pair"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Teacher role required"
// @Failure 404 {object} dto.ErrorResponse "Grade, student or subject not found"
// @Router /grades/{id} [put]
func (c *GradeController) UpdateGrade(ctx *gin.Context) {
	id, ok := parseRecordID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	grade, err := c.gradeService.UpdateGrade(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewGradeResponse(grade)))
}

// DeleteGrade removes a grade record
// @Summary Delete a grade
// @Description Removes a grade record by id.
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Success 200 {object} dto.APIResponse "Grade deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Teacher role required"
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /grades/{id} [delete]
func (c *GradeController) DeleteGrade(ctx *gin.Context) {
	id, ok := parseRecordID(ctx, "id")
	if !ok {
		return
	}

	if err := c.gradeService.DeleteGrade(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Grade deleted successfully."))
}
