package handlers

import (
	"context"
	"log"

	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"

	"github.com/quantum-box/urushiri/internal/analytics"
	"github.com/quantum-box/urushiri/internal/auth"
	"github.com/quantum-box/urushiri/internal/models"
)

type ParticipantHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewParticipantHandler(db *gorm.DB, authHandler *auth.AuthHandler) *ParticipantHandler {
	return &ParticipantHandler{db: db, authHandler: authHandler}
}

// ParticipantView is one attendee row on the event detail page. SharedEvents
// lists titles of past events both the viewer and the attendee joined.
type ParticipantView struct {
	UserID       uint     `json:"userId"`
	Name         string   `json:"name"`
	Occupation   string   `json:"occupation"`
	SharedEvents []string `json:"sharedEvents"`
}

type EventParticipantsRequest struct {
	auth.AuthInput
	EventID uint `path:"id" doc:"Event ID"`
}

type EventParticipantsResponse struct {
	Body struct {
		Participants []ParticipantView `json:"participants"`
		HasApplied   bool              `json:"hasApplied"`
	}
}

func (h *ParticipantHandler) HandleEventParticipants(ctx context.Context, input *EventParticipantsRequest) (*EventParticipantsResponse, error) {
	viewerID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.First(&event, input.EventID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	var registrations []models.Registration
	if err := h.db.Where("event_id = ?", event.ID).Order("created_at asc").Find(&registrations).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load participants: " + err.Error())
	}

	// Event IDs the viewer has registrations for, used for the overlap lookup.
	var viewerRegistrations []models.Registration
	if err := h.db.Where("user_id = ?", viewerID).Find(&viewerRegistrations).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load registrations: " + err.Error())
	}

	viewerEventIDs := make(map[uint]bool, len(viewerRegistrations))
	hasApplied := false
	for _, r := range viewerRegistrations {
		viewerEventIDs[r.EventID] = true
		if r.EventID == event.ID {
			hasApplied = true
		}
	}

	res := &EventParticipantsResponse{}
	res.Body.HasApplied = hasApplied
	res.Body.Participants = make([]ParticipantView, 0, len(registrations))

	for _, registration := range registrations {
		view := ParticipantView{
			UserID:       registration.UserID,
			Name:         registration.Name,
			Occupation:   models.OccupationLabels[registration.Occupation],
			SharedEvents: []string{},
		}

		if registration.UserID != viewerID {
			shared, err := h.sharedEventTitles(viewerEventIDs, registration.UserID, event.ID)
			if err != nil {
				log.Printf("Failed to compute shared events for user %d: %v", registration.UserID, err)
			} else {
				view.SharedEvents = shared
			}
		}

		res.Body.Participants = append(res.Body.Participants, view)
	}

	return res, nil
}

func (h *ParticipantHandler) sharedEventTitles(viewerEventIDs map[uint]bool, otherUserID, excludeEventID uint) ([]string, error) {
	var otherRegistrations []models.Registration
	if err := h.db.Where("user_id = ?", otherUserID).Find(&otherRegistrations).Error; err != nil {
		return nil, err
	}

	sharedIDs := make([]uint, 0)
	for _, r := range otherRegistrations {
		if r.EventID != excludeEventID && viewerEventIDs[r.EventID] {
			sharedIDs = append(sharedIDs, r.EventID)
		}
	}
	if len(sharedIDs) == 0 {
		return []string{}, nil
	}

	var events []models.Event
	if err := h.db.Where("id IN ?", sharedIDs).Order("date desc").Find(&events).Error; err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(events))
	for _, event := range events {
		titles = append(titles, event.Title)
	}
	return titles, nil
}

type AdminParticipantsRequest struct {
	auth.AuthInput
}

type AdminParticipantsResponse struct {
	Body struct {
		Participants []analytics.Participant  `json:"participants"`
		Summaries    []analytics.EventSummary `json:"summaries"`
	}
}

// HandleAdminParticipants backs the organizer dashboard. Failed reads
// degrade to empty lists instead of erroring the whole page.
func (h *ParticipantHandler) HandleAdminParticipants(ctx context.Context, input *AdminParticipantsRequest) (*AdminParticipantsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var events []models.Event
	if err := h.db.Find(&events).Error; err != nil {
		log.Printf("Failed to load events for dashboard: %v", err)
		events = nil
	}

	var registrations []models.Registration
	if err := h.db.Order("created_at desc").Find(&registrations).Error; err != nil {
		log.Printf("Failed to load registrations for dashboard: %v", err)
		registrations = nil
	}

	participants := analytics.BuildParticipants(events, registrations)

	res := &AdminParticipantsResponse{}
	res.Body.Participants = participants
	res.Body.Summaries = analytics.Summarize(participants)
	return res, nil
}
