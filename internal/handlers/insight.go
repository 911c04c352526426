package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"

	"github.com/quantum-box/urushiri/internal/auth"
	"github.com/quantum-box/urushiri/internal/insight"
	"github.com/quantum-box/urushiri/internal/models"
)

type InsightHandler struct {
	db          *gorm.DB
	summarizer  *insight.Summarizer
	authHandler *auth.AuthHandler
}

func NewInsightHandler(db *gorm.DB, summarizer *insight.Summarizer, authHandler *auth.AuthHandler) *InsightHandler {
	return &InsightHandler{db: db, summarizer: summarizer, authHandler: authHandler}
}

type EventInsightRequest struct {
	auth.AuthInput
	EventID uint `path:"id" doc:"Event ID"`
}

type EventInsightResponse struct {
	Body struct {
		Summary string `json:"summary"`
	}
}

// HandleEventInsight returns the one-line AI description of the event
// atmosphere. An empty summary means the model had nothing to say or the
// call failed; the page just hides the card.
func (h *InsightHandler) HandleEventInsight(ctx context.Context, input *EventInsightRequest) (*EventInsightResponse, error) {
	var event models.Event
	if err := h.db.First(&event, input.EventID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	if !event.IsPublic {
		userID, err := h.authHandler.Authorize(ctx, input.Cookie)
		if err != nil || userID != event.CreatedBy {
			return nil, huma.Error404NotFound("Event not found")
		}
	}

	var registrations []models.Registration
	if err := h.db.Where("event_id = ?", event.ID).Find(&registrations).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load registrations: " + err.Error())
	}

	res := &EventInsightResponse{}
	res.Body.Summary = h.summarizer.Summarize(ctx, event, registrations)
	return res, nil
}
