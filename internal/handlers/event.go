package handlers

import (
	"context"
	"regexp"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"

	"github.com/quantum-box/urushiri/internal/auth"
	"github.com/quantum-box/urushiri/internal/models"
	"github.com/quantum-box/urushiri/internal/storage"
)

type EventHandler struct {
	db          *gorm.DB
	store       *storage.ImageStore
	authHandler *auth.AuthHandler
}

func NewEventHandler(db *gorm.DB, store *storage.ImageStore, authHandler *auth.AuthHandler) *EventHandler {
	return &EventHandler{db: db, store: store, authHandler: authHandler}
}

// EventView is the API projection of an event row. Optional columns are
// defaulted to empty string / 0 / false so clients never see nulls.
type EventView struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Location         string `json:"location"`
	Category         string `json:"category"`
	MaxAttendees     int    `json:"maxAttendees"`
	CurrentAttendees int    `json:"currentAttendees"`
	IsPublic         bool   `json:"isPublic"`
	ImageURL         string `json:"imageUrl"`
	CreatedBy        uint   `json:"createdBy"`
	CreatedAt        string `json:"createdAt"`
}

func MapEvent(event models.Event) EventView {
	view := EventView{
		ID:           event.ID,
		Title:        event.Title,
		Date:         event.Date,
		MaxAttendees: event.MaxAttendees,
		IsPublic:     event.IsPublic,
		CreatedBy:    event.CreatedBy,
		CreatedAt:    event.CreatedAt.Format(time.RFC3339),
	}
	if event.Description != nil {
		view.Description = *event.Description
	}
	if event.Time != nil {
		view.Time = *event.Time
	}
	if event.Location != nil {
		view.Location = *event.Location
	}
	if event.Category != nil {
		view.Category = *event.Category
	}
	if event.CurrentAttendees != nil {
		view.CurrentAttendees = *event.CurrentAttendees
	}
	if event.ImageURL != nil {
		view.ImageURL = *event.ImageURL
	}
	return view
}

// optionalUserID resolves the session cookie if present. Anonymous browsing
// is allowed on read endpoints, so auth failures map to user 0.
func (h *EventHandler) optionalUserID(ctx context.Context, cookie string) uint {
	userID, err := h.authHandler.Authorize(ctx, cookie)
	if err != nil {
		return 0
	}
	return userID
}

type ListEventsRequest struct {
	auth.AuthInput
	Category string `query:"category" doc:"Filter by category" required:"false"`
}

type ListEventsResponse struct {
	Body struct {
		Events []EventView `json:"events"`
	}
}

func (h *EventHandler) HandleListEvents(ctx context.Context, input *ListEventsRequest) (*ListEventsResponse, error) {
	userID := h.optionalUserID(ctx, input.Cookie)

	query := h.db.Model(&models.Event{})
	if userID != 0 {
		query = query.Where("is_public = ? OR created_by = ?", true, userID)
	} else {
		query = query.Where("is_public = ?", true)
	}
	if input.Category != "" {
		query = query.Where("category = ?", input.Category)
	}

	var events []models.Event
	if err := query.Order("date desc").Find(&events).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list events: " + err.Error())
	}

	res := &ListEventsResponse{}
	res.Body.Events = make([]EventView, 0, len(events))
	for _, event := range events {
		res.Body.Events = append(res.Body.Events, MapEvent(event))
	}
	return res, nil
}

type GetEventRequest struct {
	auth.AuthInput
	ID uint `path:"id" doc:"Event ID"`
}

type EventResponse struct {
	Body EventView
}

func (h *EventHandler) HandleGetEvent(ctx context.Context, input *GetEventRequest) (*EventResponse, error) {
	var event models.Event
	if err := h.db.First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	if !event.IsPublic {
		userID := h.optionalUserID(ctx, input.Cookie)
		if userID != event.CreatedBy {
			return nil, huma.Error404NotFound("Event not found")
		}
	}

	return &EventResponse{Body: MapEvent(event)}, nil
}

type EventBody struct {
	Title        string  `json:"title" doc:"Event title" required:"true"`
	Description  *string `json:"description,omitempty" doc:"Event description"`
	Date         string  `json:"date" doc:"Event date, YYYY-MM-DD" required:"true"`
	Time         *string `json:"time,omitempty" doc:"Start time, HH:MM"`
	Location     *string `json:"location,omitempty" doc:"Venue or online URL"`
	Category     *string `json:"category,omitempty" doc:"Event category"`
	MaxAttendees int     `json:"maxAttendees" minimum:"1" doc:"Capacity" required:"true"`
	IsPublic     bool    `json:"isPublic" doc:"Whether the event is publicly listed"`
	ImageURL     *string `json:"imageUrl,omitempty" doc:"Cover image URL"`
}

type CreateEventRequest struct {
	auth.AuthInput
	Body EventBody
}

func (h *EventHandler) HandleCreateEvent(ctx context.Context, input *CreateEventRequest) (*EventResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	if !datePattern.MatchString(input.Body.Date) {
		return nil, huma.Error400BadRequest("Date must be YYYY-MM-DD")
	}

	zero := 0
	event := models.Event{
		Title:            input.Body.Title,
		Description:      input.Body.Description,
		Date:             input.Body.Date,
		Time:             input.Body.Time,
		Location:         input.Body.Location,
		Category:         input.Body.Category,
		MaxAttendees:     input.Body.MaxAttendees,
		CurrentAttendees: &zero,
		IsPublic:         input.Body.IsPublic,
		ImageURL:         input.Body.ImageURL,
		CreatedBy:        userID,
	}

	if err := h.db.Create(&event).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create event: " + err.Error())
	}

	return &EventResponse{Body: MapEvent(event)}, nil
}

type UpdateEventRequest struct {
	auth.AuthInput
	ID   uint `path:"id" doc:"Event ID"`
	Body EventBody
}

func (h *EventHandler) HandleUpdateEvent(ctx context.Context, input *UpdateEventRequest) (*EventResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}
	if event.CreatedBy != userID {
		return nil, huma.Error403Forbidden("Only the event creator can update it")
	}

	if !datePattern.MatchString(input.Body.Date) {
		return nil, huma.Error400BadRequest("Date must be YYYY-MM-DD")
	}

	event.Title = input.Body.Title
	event.Description = input.Body.Description
	event.Date = input.Body.Date
	event.Time = input.Body.Time
	event.Location = input.Body.Location
	event.Category = input.Body.Category
	event.MaxAttendees = input.Body.MaxAttendees
	event.IsPublic = input.Body.IsPublic
	if input.Body.ImageURL != nil {
		event.ImageURL = input.Body.ImageURL
	}

	if err := h.db.Save(&event).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update event: " + err.Error())
	}

	return &EventResponse{Body: MapEvent(event)}, nil
}

type DeleteEventRequest struct {
	auth.AuthInput
	ID uint `path:"id" doc:"Event ID"`
}

type DeleteEventResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *EventHandler) HandleDeleteEvent(ctx context.Context, input *DeleteEventRequest) (*DeleteEventResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}
	if event.CreatedBy != userID {
		return nil, huma.Error403Forbidden("Only the event creator can delete it")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete event: " + err.Error())
	}

	res := &DeleteEventResponse{}
	res.Body.Message = "Event deleted"
	return res, nil
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
