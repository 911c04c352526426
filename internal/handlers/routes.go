package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quantum-box/urushiri/internal/auth"
)

func RegisterRoutes(
	r *chi.Mux,
	authHandler *auth.AuthHandler,
	eventHandler *EventHandler,
	registrationHandler *RegistrationHandler,
	participantHandler *ParticipantHandler,
	insightHandler *InsightHandler,
	aiHandler *AIHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Urushiri API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	huma.Post(api, "/auth/signup", authHandler.HandleSignup)
	huma.Post(api, "/auth/signin", authHandler.HandleSignin)
	huma.Post(api, "/auth/signout", authHandler.HandleSignout)
	r.Get("/auth/oauth/login", authHandler.HandleOAuthLogin)
	r.Get("/auth/oauth/callback", authHandler.HandleOAuthCallback)
	huma.Get(api, "/me", authHandler.HandleMe, func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	})

	// Event routes. Reads allow anonymous access, writes authorize per call.
	huma.Get(api, "/events", eventHandler.HandleListEvents)
	huma.Get(api, "/events/{id}", eventHandler.HandleGetEvent)
	huma.Post(api, "/events", eventHandler.HandleCreateEvent, func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	})
	huma.Put(api, "/events/{id}", eventHandler.HandleUpdateEvent, func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	})
	huma.Delete(api, "/events/{id}", eventHandler.HandleDeleteEvent, func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	})
	huma.Post(api, "/events/{id}/register", registrationHandler.HandleRegister, func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	})
	huma.Get(api, "/events/{id}/participants", participantHandler.HandleEventParticipants, func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	})
	huma.Get(api, "/events/{id}/insight", insightHandler.HandleEventInsight)

	huma.Get(api, "/admin/participants", participantHandler.HandleAdminParticipants, func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authHandler.AuthMiddleware)
		r.Post("/events/{id}/image", eventHandler.HandleUploadImage)
	})

	// AI proxy routes forward raw upstream JSON, so they stay plain handlers.
	r.Post("/api/dify/chat", aiHandler.HandleChat)
	r.Post("/api/dify/files", aiHandler.HandleFileUpload)
	r.Post("/api/dify/image-generation", aiHandler.HandleImageGeneration)
	r.Post("/api/ai/autofill", aiHandler.HandleAutofill)
}
