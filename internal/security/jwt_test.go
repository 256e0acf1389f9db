package security_test

import (
	"testing"
	"time"

	"github.com/Shubham-Rasal/anp-chat/internal/security"
	"github.com/google/uuid"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	userID := uuid.New()
	email := "test@example.com"

	accessToken, err := manager.GenerateAccessToken(userID, email)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	if accessToken == "" {
		t.Error("access token is empty")
	}

	claims, err := manager.ValidateAccessToken(accessToken)
	if err != nil {
		t.Fatalf("failed to validate access token: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("user ID mismatch: got %v, want %v", claims.UserID, userID)
	}

	if claims.Email != email {
		t.Errorf("email mismatch: got %v, want %v", claims.Email, email)
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)

	// Invalid token format
	_, err := manager.ValidateAccessToken("invalid-token")
	if err == nil {
		t.Error("expected error for invalid token, got nil")
	}

	// Empty token
	_, err = manager.ValidateAccessToken("")
	if err == nil {
		t.Error("expected error for empty token, got nil")
	}

	// Token signed with different secret
	otherManager := security.NewJWTManager("different-secret-key-32-chars!!", 15*time.Minute)
	token, _ := otherManager.GenerateAccessToken(uuid.New(), "test@example.com")

	_, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Error("expected error for token signed with different secret, got nil")
	}
}

func TestJWTManager_AccessTokenTTL(t *testing.T) {
	accessTTL := 30 * time.Minute
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", accessTTL)

	if manager.AccessTokenTTL() != accessTTL {
		t.Errorf("access token TTL mismatch: got %v, want %v", manager.AccessTokenTTL(), accessTTL)
	}
}
