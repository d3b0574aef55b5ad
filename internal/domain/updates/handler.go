package updates

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/updates", func(ur chi.Router) {
		ur.Post("/check", checkHandler(svc))
		ur.Get("/", listHandler(svc))
		ur.Post("/", createHandler(svc))
		ur.Patch("/read", markReadHandler(svc))
		ur.Patch("/read-all", markAllReadHandler(svc))
		ur.Patch("/dismiss", dismissHandler(svc))
	})
}

type updateResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Kind         Kind      `json:"kind"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	PetID        string    `json:"petId,omitempty"`
	PetName      string    `json:"petName,omitempty"`
	SourceID     string    `json:"sourceId"`
	ScheduledFor time.Time `json:"scheduledFor"`
	Read         bool      `json:"read"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

// checkHandler dispara un sweep para el usuario del body.
// Recibe userId explícito (y no claims) porque lo suele llamar el poller
// del front en nombre del usuario logueado.
func checkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		created, err := svc.Check(r.Context(), req.UserID)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "userId is required")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to check updates")
			return
		}

		out := make([]updateResponse, 0, len(created))
		for _, u := range created {
			out = append(out, toUpdateResponse(u))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message":       "updates checked",
			"createdCount":  len(out),
			"notifications": out,
		})
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")

		items, unread, err := svc.List(r.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "userId is required")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to list updates")
			return
		}

		out := make([]updateResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUpdateResponse(u))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"notifications": out,
			"unreadCount":   unread,
		})
	}
}

type createUpdateRequest struct {
	UserID       string    `json:"userId"`
	Kind         string    `json:"kind"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	PetID        string    `json:"petId"`
	PetName      string    `json:"petName"`
	SourceID     string    `json:"sourceId"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, created, err := svc.Create(r.Context(), CreateInput{
			UserID:       req.UserID,
			Kind:         Kind(req.Kind),
			Title:        req.Title,
			Message:      req.Message,
			PetID:        req.PetID,
			PetName:      req.PetName,
			SourceID:     req.SourceID,
			ScheduledFor: req.ScheduledFor,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "userId, kind, title, sourceId and scheduledFor are required")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to create update")
			return
		}

		// Duplicado activo: skip silencioso, no es error para el caller.
		if !created {
			writeJSON(w, http.StatusOK, map[string]any{
				"message": "duplicate active update skipped",
			})
			return
		}

		writeJSON(w, http.StatusCreated, toUpdateResponse(u))
	}
}

func markReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		if err := svc.MarkRead(r.Context(), req.ID); err != nil {
			writeMutationError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "update marked as read"})
	}
}

func markAllReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		if err := svc.MarkAllRead(r.Context(), req.UserID); err != nil {
			writeMutationError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "all updates marked as read"})
	}
}

func dismissHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		if err := svc.Dismiss(r.Context(), req.ID); err != nil {
			writeMutationError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "update dismissed"})
	}
}

func writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "id is required")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "update not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func toUpdateResponse(u Update) updateResponse {
	return updateResponse{
		ID:           u.ID,
		UserID:       u.UserID,
		Kind:         u.Kind,
		Title:        u.Title,
		Message:      u.Message,
		PetID:        u.PetID,
		PetName:      u.PetName,
		SourceID:     u.SourceID,
		ScheduledFor: u.ScheduledFor,
		Read:         u.Read,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
	}
}

// writeJSON/writeError duplicados a propósito por módulo (ver nota en pets).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
