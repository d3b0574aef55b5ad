package subscriptions

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
	r.Route("/subscriptions", func(sr chi.Router) {
		sr.Post("/", subscribeHandler(svc))
		sr.Get("/current", currentHandler(svc))
		sr.Patch("/cancel", cancelHandler(svc))
	})
}

type subscriptionResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	PlanID    string     `json:"planId"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return claims.UserID, true
}

func subscribeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req struct {
			PlanID string `json:"planId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		sub, err := svc.Subscribe(r.Context(), userID, req.PlanID)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "planId is required")
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "plan not found")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toSubscriptionResponse(sub))
	}
}

func currentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		sub, plan, err := svc.Current(r.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "no active subscription")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"subscription": toSubscriptionResponse(sub),
			"plan": map[string]any{
				"id":            plan.ID,
				"name":          string(plan.Name),
				"maxPets":       plan.MaxPets,
				"healthRecords": plan.HealthRecords,
				"dataExport":    plan.DataExport,
			},
		})
	}
}

func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		sub, err := svc.Cancel(r.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "no active subscription")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
	}
}

func toSubscriptionResponse(s Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		PlanID:    s.PlanID,
		Status:    string(s.Status),
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
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
