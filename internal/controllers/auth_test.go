package controllers

import (
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthController(db, testLogger())

	user, err := auth.Register("lena", "lena@lena.ru", "123456")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Expected user id to be assigned")
	}
	if user.Password == "123456" {
		t.Error("Password stored in plain text")
	}

	got, err := auth.Authenticate("lena@lena.ru", "123456")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Expected user %d, got %d", user.ID, got.ID)
	}

	if _, err := auth.Authenticate("lena@lena.ru", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Authenticate("nobody@lena.ru", "123456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthController(db, testLogger())

	if _, err := auth.Register("lena", "lena@lena.ru", "123456"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := auth.Register("other", "lena@lena.ru", "654321"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("Expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthController(db, testLogger())

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"short name", "ab", "lena@lena.ru", "123456"},
		{"short email", "lena", "a@b", "123456"},
		{"email without at", "lena", "lena.lena.ru", "123456"},
		{"short password", "lena", "lena@lena.ru", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.Register(tt.username, tt.email, tt.password); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
