package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quantum-box/urushiri/internal/auth"
	"github.com/quantum-box/urushiri/internal/models"
	"github.com/quantum-box/urushiri/internal/storage"
)

const maxImageSize = 5 << 20

// HandleUploadImage stores a cover image and writes its public URL back to
// the event. Plain handler: chi middleware supplies the principal and the
// body is multipart. Sits behind AuthMiddleware.
func (h *EventHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.UserIDKey).(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	eventID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	var event models.Event
	if err := h.db.First(&event, uint(eventID)).Error; err != nil {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	if event.CreatedBy != userID {
		writeError(w, http.StatusForbidden, "Only the event creator can upload an image")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "Image must be 5MB or smaller")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !storage.AllowedImageType(contentType) {
		writeError(w, http.StatusBadRequest, "Image must be JPEG, PNG, or WebP")
		return
	}

	imageURL, err := h.store.Upload(r.Context(), file, header.Size, contentType)
	if err != nil {
		log.Printf("Failed to upload event image: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	if err := h.db.Model(&event).Update("image_url", imageURL).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save image URL")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}
