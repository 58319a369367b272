package dosehistory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"medremind/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/dose-history", func(dr chi.Router) {
		dr.Post("/", recordDoseHandler(svc))
		dr.Get("/", listDosesHandler(svc))
		dr.Get("/today", todayDosesHandler(svc))
		dr.Delete("/medication/{medicationID}", clearMedicationHistoryHandler(svc))
	})
}

type recordDoseRequest struct {
	MedicationID string `json:"medicationId"`
	Taken        bool   `json:"taken"`
	Timestamp    string `json:"timestamp"` // RFC3339 opcional; default ahora
}

type doseResponse struct {
	ID           string    `json:"id"`
	MedicationID string    `json:"medicationId"`
	Taken        bool      `json:"taken"`
	Timestamp    time.Time `json:"timestamp"`
	RecordedAt   time.Time `json:"recordedAt"`
}

type clearResponse struct {
	Deleted int `json:"deleted"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// recordDoseHandler godoc
// @Summary Registrar toma
// @Description Registra una toma (taken=true) o una toma no realizada (taken=false) para un medicamento propio.
// @Tags dose-history
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body recordDoseRequest true "Toma; timestamp en RFC3339"
// @Success 201 {object} doseResponse
// @Failure 400 {object} errorResponse "invalid json / timestamp inválido / unknown medication"
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /dose-history [post]
func recordDoseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req recordDoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := RecordInput{MedicationID: req.MedicationID, Taken: req.Taken}
		if v := strings.TrimSpace(req.Timestamp); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "timestamp must be RFC3339")
				return
			}
			in.Timestamp = &t
		}

		e, err := svc.Record(r.Context(), userID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toDoseResponse(e))
	}
}

// listDosesHandler godoc
// @Summary Listar historial de tomas
// @Description Lista tomas del usuario, más recientes primero. Fechas inclusivas en la zona horaria del servidor.
// @Tags dose-history
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Param medicationId query string false "Filtrar por medicamento"
// @Success 200 {array} doseResponse
// @Failure 400 {object} errorResponse "fechas inválidas"
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /dose-history [get]
func listDosesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		items, err := svc.List(r.Context(), userID, ListInput{
			StartDate:    q.Get("startDate"),
			EndDate:      q.Get("endDate"),
			MedicationID: q.Get("medicationId"),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponses(items))
	}
}

// todayDosesHandler godoc
// @Summary Tomas de hoy
// @Tags dose-history
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} doseResponse
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /dose-history/today [get]
func todayDosesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.Today(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponses(items))
	}
}

// clearMedicationHistoryHandler godoc
// @Summary Borrar historial de un medicamento
// @Tags dose-history
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Success 200 {object} clearResponse
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /dose-history/medication/{medicationID} [delete]
func clearMedicationHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		n, err := svc.ClearByMedication(r.Context(), userID, chi.URLParam(r, "medicationID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, clearResponse{Deleted: n})
	}
}

func toDoseResponse(e Entry) doseResponse {
	return doseResponse{
		ID:           e.ID,
		MedicationID: e.MedicationID,
		Taken:        e.Taken,
		Timestamp:    e.Timestamp,
		RecordedAt:   e.RecordedAt,
	}
}

func toDoseResponses(items []Entry) []doseResponse {
	out := make([]doseResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toDoseResponse(e))
	}
	return out
}

func currentUser(r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", false
	}
	return claims.UserID, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownMedication):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
