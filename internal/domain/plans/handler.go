package plans

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/plans", func(pr chi.Router) {
		pr.Get("/", listPlansHandler(svc))
		pr.Get("/{planID}", getPlanHandler(svc))
	})
}

type planResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MaxPets       int    `json:"maxPets"`
	HealthRecords bool   `json:"healthRecords"`
	DataExport    bool   `json:"dataExport"`
}

func listPlansHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]planResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPlanResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "planID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		writeJSON(w, http.StatusOK, toPlanResponse(p))
	}
}

func toPlanResponse(p Plan) planResponse {
	return planResponse{
		ID:            p.ID,
		Name:          string(p.Name),
		MaxPets:       p.MaxPets,
		HealthRecords: p.HealthRecords,
		DataExport:    p.DataExport,
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
