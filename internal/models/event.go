package models

import (
	"gorm.io/gorm"
)

// Event rows keep the hosted-database column shape: optional columns are
// nullable and only defaulted when projected into a view.
type Event struct {
	gorm.Model
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	Date             string  `json:"date"` // YYYY-MM-DD
	Time             *string `json:"time"` // HH:MM
	Location         *string `json:"location"`
	Category         *string `json:"category"`
	MaxAttendees     int     `json:"max_attendees"`
	CurrentAttendees *int    `json:"current_attendees"`
	IsPublic         bool    `json:"is_public"`
	ImageURL         *string `json:"image_url"`
	CreatedBy        uint    `json:"created_by"`
}
