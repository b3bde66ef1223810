package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/app/services"
	"github.com/jdelacruz/schoolrecords/internal/middleware"
	"github.com/jdelacruz/schoolrecords/internal/pkg/helpers"
)

// SubjectController handles subject catalog endpoints
type SubjectController struct {
	subjectService *services.SubjectService
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(subjectService *services.SubjectService) *SubjectController {
	return &SubjectController{
		subjectService: subjectService,
	}
}

// ListSubjects returns a page of subjects
// @Summary List subjects
// @Description Retrieves a paginated list of subjects.
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.Subject} "Subjects retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /subjects [get]
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	subjects, total, err := c.subjectService.ListSubjects(ctx.Request.Context(), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewAPIResponse(subjects)
	pagination := helpers.NewPaginationInfo(total, page, size)
	resp.Pagination = &pagination
	ctx.JSON(http.StatusOK, resp)
}

// CreateSubject creates a subject
// @Summary Create a subject
// @Description Creates a new subject with a unique code and name.
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse{data=models.Subject} "Subject created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or duplicate code/name"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Teacher role required"
// @Router /subjects [post]
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	subject, err := c.subjectService.CreateSubject(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(subject))
}

// GetSubject retrieves one subject
// @Summary Get a subject
// @Description Retrieves a subject by its code.
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param code path string true "Subject code"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{code} [get]
func (c *SubjectController) GetSubject(ctx *gin.Context) {
	subject, err := c.subjectService.GetSubject(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(subject))
}

// UpdateSubject applies a partial update
// @Summary Update a subject
// @Description Applies a partial update to an existing subject.
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Subject code"
// @Param request body dto.UpdateSubjectRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or duplicate name"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Teacher role required"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{code} [put]
func (c *SubjectController) UpdateSubject(ctx *gin.Context) {
	var req dto.UpdateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	subject, err := c.subjectService.UpdateSubject(ctx.Request.Context(), ctx.Param("code"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(subject))
}

// DeleteSubject removes a subject
// @Summary Delete a subject
// @Description Removes a subject. Grades and enrollments referencing it are removed with it.
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param code path string true "Subject code"
// @Success 200 {object} dto.APIResponse "Subject deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Teacher role required"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{code} [delete]
func (c *SubjectController) DeleteSubject(ctx *gin.Context) {
	if err := c.subjectService.DeleteSubject(ctx.Request.Context(), ctx.Param("code")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Subject deleted successfully."))
}
