package pets

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
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		pr.Route("/{petID}", func(one chi.Router) {
			one.Get("/", getPetHandler(svc))
			one.Patch("/", updatePetHandler(svc))
			one.Delete("/", deletePetHandler(svc))

			one.Post("/schedules", addScheduleHandler(svc))
			one.Patch("/schedules/{scheduleID}", updateScheduleHandler(svc))
			one.Delete("/schedules/{scheduleID}", removeScheduleHandler(svc))

			one.Post("/vaccinations", addVaccinationHandler(svc))
			one.Patch("/vaccinations/{vaccinationID}", updateVaccinationHandler(svc))
			one.Delete("/vaccinations/{vaccinationID}", removeVaccinationHandler(svc))

			one.Post("/vet-visits", addVetVisitHandler(svc))
			one.Patch("/vet-visits/{visitID}", updateVetVisitHandler(svc))
			one.Delete("/vet-visits/{visitID}", removeVetVisitHandler(svc))
		})
	})
}

type scheduleResponse struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Time            string `json:"time"`
	Frequency       string `json:"frequency"`
	Notes           string `json:"notes,omitempty"`
	NotificationsOn bool   `json:"notificationsOn"`
	Completed       bool   `json:"completed"`
}

type vaccinationResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	AdministeredAt  string  `json:"administeredAt"`
	NextDueAt       *string `json:"nextDueAt,omitempty"`
	NotificationsOn bool    `json:"notificationsOn"`
	Completed       bool    `json:"completed"`
}

type vetVisitResponse struct {
	ID              string  `json:"id"`
	Reason          string  `json:"reason,omitempty"`
	VisitedAt       string  `json:"visitedAt"`
	NextVisitAt     *string `json:"nextVisitAt,omitempty"`
	NotificationsOn bool    `json:"notificationsOn"`
	Completed       bool    `json:"completed"`
}

type petResponse struct {
	ID           string                `json:"id"`
	OwnerUserID  string                `json:"ownerUserId"`
	Name         string                `json:"name"`
	Species      string                `json:"species"`
	Breed        string                `json:"breed,omitempty"`
	Sex          string                `json:"sex,omitempty"`
	BirthDate    *string               `json:"birthDate,omitempty"`
	Notes        string                `json:"notes,omitempty"`
	Schedules    []scheduleResponse    `json:"schedules"`
	Vaccinations []vaccinationResponse `json:"vaccinations"`
	VetVisits    []vetVisitResponse    `json:"vetVisits"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

type createPetRequest struct {
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	Sex       string `json:"sex"`
	BirthDate string `json:"birthDate"` // YYYY-MM-DD opcional
	Notes     string `json:"notes"`
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD")
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Notes:     req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrPetLimit):
				writeError(w, http.StatusForbidden, "pet limit reached for current plan")
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "name and species are required")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ownedPet carga la mascota y valida que el caller sea el dueño.
func ownedPet(svc *Service, w http.ResponseWriter, r *http.Request) (Pet, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return Pet{}, false
	}

	petID := chi.URLParam(r, "petID")
	p, err := svc.GetByID(r.Context(), petID)
	if err != nil {
		writeError(w, http.StatusNotFound, "pet not found")
		return Pet{}, false
	}

	if p.OwnerUserID != claims.UserID {
		writeError(w, http.StatusForbidden, "forbidden")
		return Pet{}, false
	}
	return p, true
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string `json:"name"`
	Species   *string `json:"species"`
	Breed     *string `json:"breed"`
	Sex       *string `json:"sex"`
	BirthDate *string `json:"birthDate"` // YYYY-MM-DD; "" limpia
	Notes     *string `json:"notes"`
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}

		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := UpdateProfileInput{
			Name:    req.Name,
			Species: req.Species,
			Breed:   req.Breed,
			Sex:     req.Sex,
			Notes:   req.Notes,
		}
		if req.BirthDate != nil {
			if strings.TrimSpace(*req.BirthDate) == "" {
				in.ClearBirthDate = true
			} else {
				t, err := time.Parse("2006-01-02", *req.BirthDate)
				if err != nil {
					writeError(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD")
					return
				}
				in.BirthDate = &t
			}
		}

		updated, err := svc.UpdateProfile(r.Context(), p.ID, in)
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), p.ID); err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "pet deleted"})
	}
}

// ---- schedules ----

type scheduleRequest struct {
	Type            string `json:"type"`
	Time            string `json:"time"`
	Frequency       string `json:"frequency"`
	Notes           string `json:"notes"`
	NotificationsOn *bool  `json:"notificationsOn"`
}

func addScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}

		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		// default: notificaciones prendidas si no mandan el campo
		notify := true
		if req.NotificationsOn != nil {
			notify = *req.NotificationsOn
		}

		_, sch, err := svc.AddSchedule(r.Context(), p.ID, ScheduleInput{
			Type:            req.Type,
			Time:            req.Time,
			Frequency:       req.Frequency,
			Notes:           req.Notes,
			NotificationsOn: notify,
		})
		if err != nil {
			writePetError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toScheduleResponse(sch))
	}
}

type schedulePatchRequest struct {
	Type            *string `json:"type"`
	Time            *string `json:"time"`
	Frequency       *string `json:"frequency"`
	Notes           *string `json:"notes"`
	NotificationsOn *bool   `json:"notificationsOn"`
	Completed       *bool   `json:"completed"`
}

func updateScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}

		var req schedulePatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		_, sch, err := svc.UpdateSchedule(r.Context(), p.ID, chi.URLParam(r, "scheduleID"), SchedulePatch{
			Type:            req.Type,
			Time:            req.Time,
			Frequency:       req.Frequency,
			Notes:           req.Notes,
			NotificationsOn: req.NotificationsOn,
			Completed:       req.Completed,
		})
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(sch))
	}
}

func removeScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}
		if _, err := svc.RemoveSchedule(r.Context(), p.ID, chi.URLParam(r, "scheduleID")); err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "schedule removed"})
	}
}

// ---- vaccinations ----

type vaccinationRequest struct {
	Name            string `json:"name"`
	AdministeredAt  string `json:"administeredAt"` // YYYY-MM-DD
	NextDueAt       string `json:"nextDueAt"`      // YYYY-MM-DD opcional
	NotificationsOn *bool  `json:"notificationsOn"`
}

func addVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}

		var req vaccinationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		administered, err := time.Parse("2006-01-02", req.AdministeredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "administeredAt must be YYYY-MM-DD")
			return
		}
		var nextDue *time.Time
		if strings.TrimSpace(req.NextDueAt) != "" {
			t, err := time.Parse("2006-01-02", req.NextDueAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, "nextDueAt must be YYYY-MM-DD")
				return
			}
			nextDue = &t
		}

		notify := true
		if req.NotificationsOn != nil {
			notify = *req.NotificationsOn
		}

		_, v, err := svc.AddVaccination(r.Context(), p.ID, VaccinationInput{
			Name:            req.Name,
			AdministeredAt:  administered,
			NextDueAt:       nextDue,
			NotificationsOn: notify,
		})
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toVaccinationResponse(v))
	}
}

type vaccinationPatchRequest struct {
	Name            *string `json:"name"`
	AdministeredAt  *string `json:"administeredAt"`
	NextDueAt       *string `json:"nextDueAt"` // "" limpia
	NotificationsOn *bool   `json:"notificationsOn"`
	Completed       *bool   `json:"completed"`
}

func updateVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}

		var req vaccinationPatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := VaccinationPatch{
			Name:            req.Name,
			NotificationsOn: req.NotificationsOn,
			Completed:       req.Completed,
		}
		if req.AdministeredAt != nil {
			t, err := time.Parse("2006-01-02", *req.AdministeredAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, "administeredAt must be YYYY-MM-DD")
				return
			}
			in.AdministeredAt = &t
		}
		if req.NextDueAt != nil {
			if strings.TrimSpace(*req.NextDueAt) == "" {
				in.ClearNextDue = true
			} else {
				t, err := time.Parse("2006-01-02", *req.NextDueAt)
				if err != nil {
					writeError(w, http.StatusBadRequest, "nextDueAt must be YYYY-MM-DD")
					return
				}
				in.NextDueAt = &t
			}
		}

		_, v, err := svc.UpdateVaccination(r.Context(), p.ID, chi.URLParam(r, "vaccinationID"), in)
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toVaccinationResponse(v))
	}
}

func removeVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}
		if _, err := svc.RemoveVaccination(r.Context(), p.ID, chi.URLParam(r, "vaccinationID")); err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "vaccination removed"})
	}
}

// ---- vet visits ----

type vetVisitRequest struct {
	Reason          string `json:"reason"`
	VisitedAt       string `json:"visitedAt"`   // YYYY-MM-DD
	NextVisitAt     string `json:"nextVisitAt"` // YYYY-MM-DD opcional
	NotificationsOn *bool  `json:"notificationsOn"`
}

func addVetVisitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}

		var req vetVisitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		visited, err := time.Parse("2006-01-02", req.VisitedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "visitedAt must be YYYY-MM-DD")
			return
		}
		var nextVisit *time.Time
		if strings.TrimSpace(req.NextVisitAt) != "" {
			t, err := time.Parse("2006-01-02", req.NextVisitAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, "nextVisitAt must be YYYY-MM-DD")
				return
			}
			nextVisit = &t
		}

		notify := true
		if req.NotificationsOn != nil {
			notify = *req.NotificationsOn
		}

		_, v, err := svc.AddVetVisit(r.Context(), p.ID, VetVisitInput{
			Reason:          req.Reason,
			VisitedAt:       visited,
			NextVisitAt:     nextVisit,
			NotificationsOn: notify,
		})
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toVetVisitResponse(v))
	}
}

type vetVisitPatchRequest struct {
	Reason          *string `json:"reason"`
	VisitedAt       *string `json:"visitedAt"`
	NextVisitAt     *string `json:"nextVisitAt"` // "" limpia
	NotificationsOn *bool   `json:"notificationsOn"`
	Completed       *bool   `json:"completed"`
}

func updateVetVisitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}

		var req vetVisitPatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := VetVisitPatch{
			Reason:          req.Reason,
			NotificationsOn: req.NotificationsOn,
			Completed:       req.Completed,
		}
		if req.VisitedAt != nil {
			t, err := time.Parse("2006-01-02", *req.VisitedAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, "visitedAt must be YYYY-MM-DD")
				return
			}
			in.VisitedAt = &t
		}
		if req.NextVisitAt != nil {
			if strings.TrimSpace(*req.NextVisitAt) == "" {
				in.ClearNextVisit = true
			} else {
				t, err := time.Parse("2006-01-02", *req.NextVisitAt)
				if err != nil {
					writeError(w, http.StatusBadRequest, "nextVisitAt must be YYYY-MM-DD")
					return
				}
				in.NextVisitAt = &t
			}
		}

		_, v, err := svc.UpdateVetVisit(r.Context(), p.ID, chi.URLParam(r, "visitID"), in)
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toVetVisitResponse(v))
	}
}

func removeVetVisitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := ownedPet(svc, w, r)
		if !ok {
			return
		}
		if _, err := svc.RemoveVetVisit(r.Context(), p.ID, chi.URLParam(r, "visitID")); err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "vet visit removed"})
	}
}

// ---- helpers ----

func writePetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func toPetResponse(p Pet) petResponse {
	out := petResponse{
		ID:           p.ID,
		OwnerUserID:  p.OwnerUserID,
		Name:         p.Name,
		Species:      string(p.Species),
		Breed:        p.Breed,
		Sex:          string(p.Sex),
		Notes:        p.Notes,
		Schedules:    make([]scheduleResponse, 0, len(p.Schedules)),
		Vaccinations: make([]vaccinationResponse, 0, len(p.Vaccinations)),
		VetVisits:    make([]vetVisitResponse, 0, len(p.VetVisits)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.BirthDate != nil {
		s := p.BirthDate.Format("2006-01-02")
		out.BirthDate = &s
	}
	for _, sch := range p.Schedules {
		out.Schedules = append(out.Schedules, toScheduleResponse(sch))
	}
	for _, v := range p.Vaccinations {
		out.Vaccinations = append(out.Vaccinations, toVaccinationResponse(v))
	}
	for _, v := range p.VetVisits {
		out.VetVisits = append(out.VetVisits, toVetVisitResponse(v))
	}
	return out
}

func toScheduleResponse(s Schedule) scheduleResponse {
	return scheduleResponse{
		ID:              s.ID,
		Type:            string(s.Type),
		Time:            s.Time,
		Frequency:       string(s.Frequency),
		Notes:           s.Notes,
		NotificationsOn: s.NotificationsOn,
		Completed:       s.Completed,
	}
}

func toVaccinationResponse(v Vaccination) vaccinationResponse {
	out := vaccinationResponse{
		ID:              v.ID,
		Name:            v.Name,
		AdministeredAt:  v.AdministeredAt.Format("2006-01-02"),
		NotificationsOn: v.NotificationsOn,
		Completed:       v.Completed,
	}
	if v.NextDueAt != nil {
		s := v.NextDueAt.Format("2006-01-02")
		out.NextDueAt = &s
	}
	return out
}

func toVetVisitResponse(v VetVisit) vetVisitResponse {
	out := vetVisitResponse{
		ID:              v.ID,
		Reason:          v.Reason,
		VisitedAt:       v.VisitedAt.Format("2006-01-02"),
		NotificationsOn: v.NotificationsOn,
		Completed:       v.Completed,
	}
	if v.NextVisitAt != nil {
		s := v.NextVisitAt.Format("2006-01-02")
		out.NextVisitAt = &s
	}
	return out
}

// writeJSON/writeError están duplicados intencionalmente en handlers de
// distintos módulos para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
