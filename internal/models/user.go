package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex"`
	Username     string
	PasswordHash string
	// OAuthSubject is the provider-side user ID. Nil for password-only accounts.
	OAuthSubject *string `gorm:"uniqueIndex"`
	Avatar       string
}
