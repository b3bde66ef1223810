package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/jdelacruz/schoolrecords/internal/app/models"
)

func newTestJWTService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "schoolrecords.test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	studentID := "202212312"
	user := &models.User{
		ID:        7,
		Username:  "202212312",
		Role:      models.RoleStudent,
		StudentID: &studentID,
	}

	access, refresh, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("empty token in pair")
	}
	if expiresIn != 3600 || refreshExpiresIn != 86400 {
		t.Errorf("expiries = %d/%d, want 3600/86400", expiresIn, refreshExpiresIn)
	}

	claims, err := svc.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "202212312" || claims.Role != "STUDENT" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.StudentID == nil || *claims.StudentID != "202212312" {
		t.Errorf("StudentID claim = %v", claims.StudentID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	access, _, _, _, err := svc.GenerateTokenPair(&models.User{ID: 1, Username: "teacher", Role: models.RoleTeacher})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "different", AccessTokenExp: time.Hour, RefreshTokenExp: time.Hour})
	if _, err := other.ValidateToken(access); err == nil {
		t.Error("token validated with wrong secret")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)
	access, _, _, _, err := svc.GenerateTokenPair(&models.User{ID: 1, Username: "teacher", Role: models.RoleTeacher})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := svc.ValidateToken(access); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ValidateToken error = %v, want ErrExpiredToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("ExtractBearerToken = %q, %v", token, err)
	}

	if _, err := ExtractBearerToken("bearer abc.def.ghi"); err != nil {
		t.Errorf("case-insensitive scheme rejected: %v", err)
	}

	for _, header := range []string{"", "abc.def.ghi", "Bearer ", "Basic abc"} {
		if _, err := ExtractBearerToken(header); err == nil {
			t.Errorf("ExtractBearerToken(%q) accepted", header)
		}
	}
}
