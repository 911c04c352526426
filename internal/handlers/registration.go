package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"

	"github.com/quantum-box/urushiri/internal/auth"
	"github.com/quantum-box/urushiri/internal/models"
	"github.com/quantum-box/urushiri/internal/notifier"
)

type RegistrationHandler struct {
	db          *gorm.DB
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
}

func NewRegistrationHandler(db *gorm.DB, notifier notifier.Notifier, authHandler *auth.AuthHandler) *RegistrationHandler {
	return &RegistrationHandler{db: db, notifier: notifier, authHandler: authHandler}
}

type RegisterRequest struct {
	auth.AuthInput
	EventID uint `path:"id" doc:"Event ID"`
	Body    struct {
		Name       string  `json:"name" doc:"Attendee name" required:"true"`
		AgeGroup   string  `json:"ageGroup" doc:"Age group survey answer" required:"true"`
		Occupation string  `json:"occupation" doc:"Occupation survey answer" required:"true"`
		Discovery  string  `json:"discovery" doc:"How the attendee found the event" required:"true"`
		Other      *string `json:"other,omitempty" doc:"Free-form note"`
	}
}

type RegisterResponse struct {
	Body struct {
		Message          string `json:"message"`
		CurrentAttendees int    `json:"currentAttendees"`
	}
}

func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	if err := validateSurvey(input); err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.First(&event, input.EventID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	var registration models.Registration
	var attendees int64
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.FirstOrInit(&registration, models.Registration{EventID: event.ID, UserID: userID}).Error; err != nil {
			return err
		}

		// A full event still lets an existing registrant edit their entry.
		if registration.ID == 0 {
			var count int64
			if err := tx.Model(&models.Registration{}).Where("event_id = ?", event.ID).Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(event.MaxAttendees) {
				return huma.Error409Conflict("Event is at capacity")
			}
		}

		registration.RegistrationFields = models.RegistrationFields{
			Name:       strings.TrimSpace(input.Body.Name),
			AgeGroup:   input.Body.AgeGroup,
			Occupation: input.Body.Occupation,
			Discovery:  input.Body.Discovery,
			Other:      input.Body.Other,
		}

		if err := tx.Save(&registration).Error; err != nil {
			return err
		}

		// Resync the display counter from the registration set.
		if err := tx.Model(&models.Registration{}).Where("event_id = ?", event.ID).Count(&attendees).Error; err != nil {
			return err
		}
		return tx.Model(&models.Event{}).Where("id = ?", event.ID).
			Update("current_attendees", attendees).Error
	})
	if err != nil {
		if _, ok := err.(huma.StatusError); ok {
			return nil, err
		}
		return nil, huma.Error500InternalServerError("Failed to process registration: " + err.Error())
	}

	if h.notifier != nil {
		current := int(attendees)
		event.CurrentAttendees = &current
		go func(event models.Event, registration models.Registration) {
			if err := h.notifier.NotifyRegistration(event, registration); err != nil {
				log.Printf("Failed to send registration notification: %v", err)
			}
		}(event, registration)
	}

	res := &RegisterResponse{}
	res.Body.Message = "Registration processed successfully"
	res.Body.CurrentAttendees = int(attendees)
	return res, nil
}

func validateSurvey(input *RegisterRequest) error {
	if strings.TrimSpace(input.Body.Name) == "" {
		return huma.Error422UnprocessableEntity("Name is required")
	}
	if !models.ValidAgeGroup(input.Body.AgeGroup) {
		return huma.Error422UnprocessableEntity("Unknown age group: " + input.Body.AgeGroup)
	}
	if !models.ValidOccupation(input.Body.Occupation) {
		return huma.Error422UnprocessableEntity("Unknown occupation: " + input.Body.Occupation)
	}
	if !models.ValidDiscovery(input.Body.Discovery) {
		return huma.Error422UnprocessableEntity("Unknown discovery source: " + input.Body.Discovery)
	}
	return nil
}
