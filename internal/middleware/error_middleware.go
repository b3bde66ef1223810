package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
	"github.com/jdelacruz/schoolrecords/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. Every controller
// funnels its error path through here so status codes stay consistent.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found", err)
	case errors.Is(err, apperrors.ErrSubjectNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Subject not found", err)
	case errors.Is(err, apperrors.ErrGradeNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Grade not found", err)
	case errors.Is(err, apperrors.ErrEnrollmentNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Enrollment not found", err)
	case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found", err)

	case errors.Is(err, apperrors.ErrStudentIDAlreadyExists):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "A student with this ID already exists.", err)
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "This email address is already in use.", err)
	case errors.Is(err, apperrors.ErrSubjectAlreadyExists):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "A subject with this code or name already exists.", err)
	case errors.Is(err, apperrors.ErrGradeAlreadyExists):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "A grade already exists for this student and subject.", err)
	case errors.Is(err, apperrors.ErrAlreadyEnrolled):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "The student is already enrolled in this subject.", err)
	case errors.Is(err, apperrors.ErrNotEnrolled):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "The student is not enrolled in this subject.", err)
	case errors.Is(err, apperrors.ErrUsernameAlreadyUsed):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "This username is already taken.", err)
	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "The request conflicts with existing data.", err)

	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed", err)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid username or password.", err)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", err)
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token", err)
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token not found", err)
	case errors.Is(err, apperrors.ErrTokenRevoked):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked", err)

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "You do not have permission to perform this action.", err)

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error", nil)
	}
}

// respondError writes the standard error envelope, carrying the message and
// field of a wrapped CustomError when present.
func respondError(c *gin.Context, status int, code dto.ErrorCode, message string, err error) {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		message = custom.Message
	}

	detail := dto.NewErrorDetail(code, message)
	if field := apperrors.FieldOf(err); field != "" {
		detail = detail.WithField(field)
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

// HandleBindingError responds to a request whose body failed binding.
func HandleBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
