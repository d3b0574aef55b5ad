package dashboard

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
	r.Route("/dashboard", func(dr chi.Router) {
		dr.Get("/", getHandler(svc))
		dr.Put("/", putHandler(svc))
	})
}

type widgetPayload struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Position int    `json:"position"`
	Enabled  bool   `json:"enabled"`
}

type preferencesResponse struct {
	UserID    string          `json:"userId"`
	Widgets   []widgetPayload `json:"widgets"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return claims.UserID, true
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		p, err := svc.Get(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toPreferencesResponse(p))
	}
}

func putHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req struct {
			Widgets []widgetPayload `json:"widgets"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := make([]WidgetInput, 0, len(req.Widgets))
		for _, wreq := range req.Widgets {
			in = append(in, WidgetInput{
				ID:       wreq.ID,
				Type:     wreq.Type,
				Position: wreq.Position,
				Enabled:  wreq.Enabled,
			})
		}

		p, err := svc.Put(r.Context(), userID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "unknown widget type")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toPreferencesResponse(p))
	}
}

func toPreferencesResponse(p Preferences) preferencesResponse {
	out := preferencesResponse{
		UserID:    p.UserID,
		Widgets:   make([]widgetPayload, 0, len(p.Widgets)),
		UpdatedAt: p.UpdatedAt,
	}
	for _, wdg := range p.Widgets {
		out.Widgets = append(out.Widgets, widgetPayload{
			ID:       wdg.ID,
			Type:     string(wdg.Type),
			Position: wdg.Position,
			Enabled:  wdg.Enabled,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
