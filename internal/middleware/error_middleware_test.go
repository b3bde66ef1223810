package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func runErrorHandler(t *testing.T, err error) (*httptest.ResponseRecorder, *dto.ErrorResponse) {
	t.Helper()

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	HandleAPIError(c, err)

	var resp dto.ErrorResponse
	if jsonErr := json.Unmarshal(recorder.Body.Bytes(), &resp); jsonErr != nil {
		t.Fatalf("unmarshal error response: %v", jsonErr)
	}
	return recorder, &resp
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"student not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"subject not found", apperrors.ErrSubjectNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"grade not found", apperrors.ErrGradeNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"enrollment not found", apperrors.ErrEnrollmentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"duplicate student", apperrors.ErrStudentIDAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"duplicate grade", apperrors.ErrGradeAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"already enrolled", apperrors.ErrAlreadyEnrolled, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"not enrolled", apperrors.ErrNotEnrolled, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"username taken", apperrors.ErrUsernameAlreadyUsed, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"validation failed", apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"token expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"token revoked", apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, resp := runErrorHandler(t, tt.err)
			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
			if resp.Success {
				t.Error("Success = true in error response")
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %v, want %v", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestHandleAPIErrorUnknownErrorIs500(t *testing.T) {
	recorder, resp := runErrorHandler(t, json.Unmarshal([]byte("{"), &struct{}{}))
	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", recorder.Code)
	}
	if resp.Error.Message != "Internal server error" {
		t.Errorf("message = %q, internal details must not leak", resp.Error.Message)
	}
}

func TestHandleAPIErrorCustomMessageAndField(t *testing.T) {
	err := apperrors.NewValidationError("exam_grade", "Grade must be between 0 and 100.")

	recorder, resp := runErrorHandler(t, err)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if resp.Error.Message != "Grade must be between 0 and 100." {
		t.Errorf("message = %q, want the custom message", resp.Error.Message)
	}
	if resp.Error.Field != "exam_grade" {
		t.Errorf("field = %q, want exam_grade", resp.Error.Field)
	}
}

func TestHandleBindingError(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/test", nil)

	HandleBindingError(c, json.Unmarshal([]byte("{"), &struct{}{}))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != dto.ErrorCodeValidationFailed {
		t.Errorf("code = %v, want %v", resp.Error.Code, dto.ErrorCodeValidationFailed)
	}
}
