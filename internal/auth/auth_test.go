package auth

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quantum-box/urushiri/internal/config"
	"github.com/quantum-box/urushiri/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(&models.User{})
	return db
}

func TestSignupAndSignin(t *testing.T) {
	db := setupDB(t)
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db)

	signup := &SignupRequest{}
	signup.Body.Email = "test@example.com"
	signup.Body.Username = "testuser"
	signup.Body.Password = "password123"

	resp, err := handler.HandleSignup(context.Background(), signup)
	if err != nil {
		t.Fatalf("HandleSignup returned error: %v", err)
	}
	if resp.Body.Email != "test@example.com" {
		t.Errorf("expected email in response, got %s", resp.Body.Email)
	}
	if resp.SetCookie.Name != CookieName || resp.SetCookie.Value == "" {
		t.Errorf("expected session cookie to be set, got %+v", resp.SetCookie)
	}

	t.Run("DuplicateEmail", func(t *testing.T) {
		if _, err := handler.HandleSignup(context.Background(), signup); err == nil {
			t.Fatal("expected conflict for duplicate email, got nil")
		}
	})

	t.Run("SigninCorrectPassword", func(t *testing.T) {
		signin := &SigninRequest{}
		signin.Body.Email = "test@example.com"
		signin.Body.Password = "password123"

		resp, err := handler.HandleSignin(context.Background(), signin)
		if err != nil {
			t.Fatalf("HandleSignin returned error: %v", err)
		}
		if resp.Body.Username != "testuser" {
			t.Errorf("expected username testuser, got %s", resp.Body.Username)
		}
	})

	t.Run("SigninWrongPassword", func(t *testing.T) {
		signin := &SigninRequest{}
		signin.Body.Email = "test@example.com"
		signin.Body.Password = "wrong-password"

		if _, err := handler.HandleSignin(context.Background(), signin); err == nil {
			t.Fatal("expected error for wrong password, got nil")
		}
	})

	t.Run("SigninUnknownEmail", func(t *testing.T) {
		signin := &SigninRequest{}
		signin.Body.Email = "nobody@example.com"
		signin.Body.Password = "password123"

		if _, err := handler.HandleSignin(context.Background(), signin); err == nil {
			t.Fatal("expected error for unknown email, got nil")
		}
	})
}

func TestHandleMe(t *testing.T) {
	db := setupDB(t)

	user := models.User{
		Email:    "test@example.com",
		Username: "testuser",
		Avatar:   "avatar_url",
	}
	db.Create(&user)

	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db)

	t.Run("Authenticated", func(t *testing.T) {
		token, _ := handler.GenerateToken(user.ID)
		input := &MeRequest{
			AuthInput: AuthInput{Cookie: "auth_token=" + token},
		}
		resp, err := handler.HandleMe(context.Background(), input)
		if err != nil {
			t.Fatalf("HandleMe returned error: %v", err)
		}

		if resp.Body.Username != user.Username {
			t.Errorf("expected username %s, got %s", user.Username, resp.Body.Username)
		}
		if resp.Body.Email != user.Email {
			t.Errorf("expected email %s, got %s", user.Email, resp.Body.Email)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		input := &MeRequest{}
		_, err := handler.HandleMe(context.Background(), input)
		if err == nil {
			t.Fatal("expected error for unauthenticated request, got nil")
		}
	})

	t.Run("GarbageToken", func(t *testing.T) {
		input := &MeRequest{
			AuthInput: AuthInput{Cookie: "auth_token=not-a-jwt"},
		}
		if _, err := handler.HandleMe(context.Background(), input); err == nil {
			t.Fatal("expected error for invalid token, got nil")
		}
	})
}

func TestHandleSignout(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil)

	resp, err := handler.HandleSignout(context.Background(), &SignoutRequest{})
	if err != nil {
		t.Fatalf("HandleSignout returned error: %v", err)
	}
	if resp.SetCookie.Name != CookieName || resp.SetCookie.Value != "" {
		t.Errorf("expected cleared cookie, got %+v", resp.SetCookie)
	}
	if !resp.SetCookie.Expires.Before(time.Now()) {
		t.Errorf("expected cookie expiry in the past, got %v", resp.SetCookie.Expires)
	}
}
