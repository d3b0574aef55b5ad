package exports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/exports", func(er chi.Router) {
		er.Post("/", requestHandler(svc))
		er.Get("/", listHandler(svc))
		er.Get("/{jobID}", getHandler(svc))
	})
}

type jobResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	FileURL     string     `json:"fileUrl,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return claims.UserID, true
}

func requestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req struct {
			Format string `json:"format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		j, err := svc.Request(r.Context(), userID, Format(strings.TrimSpace(req.Format)))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "format must be json or csv")
			case errors.Is(err, ErrNotInPlan):
				writeError(w, http.StatusForbidden, "data export not included in current plan")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toJobResponse(j))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]jobResponse, 0, len(items))
		for _, j := range items {
			out = append(out, toJobResponse(j))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		j, err := svc.GetByID(r.Context(), chi.URLParam(r, "jobID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "export job not found")
			return
		}
		if j.UserID != userID {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		writeJSON(w, http.StatusOK, toJobResponse(j))
	}
}

func toJobResponse(j Job) jobResponse {
	return jobResponse{
		ID:          j.ID,
		UserID:      j.UserID,
		Format:      string(j.Format),
		Status:      string(j.Status),
		RequestedAt: j.RequestedAt,
		CompletedAt: j.CompletedAt,
		FileURL:     j.FileURL,
		Error:       j.Error,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
