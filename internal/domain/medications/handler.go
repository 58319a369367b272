package medications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"medremind/internal/engine"
	"medremind/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))

		mr.Get("/{medicationID}", getMedicationHandler(svc))
		mr.Put("/{medicationID}", updateMedicationHandler(svc))
		mr.Delete("/{medicationID}", deleteMedicationHandler(svc))

		mr.Patch("/{medicationID}/supply", updateSupplyHandler(svc))
		mr.Post("/{medicationID}/refill", refillHandler(svc))
	})
}

// medicationRequest es el cuerpo de alta y de reemplazo.
type medicationRequest struct {
	Name            string               `json:"name"`
	Dosage          string               `json:"dosage"`
	Frequency       string               `json:"frequency" enums:"once_daily,twice_daily,three_times_daily,four_times_daily,as_needed"`
	Times           []string             `json:"times"`     // HH:MM; si viene vacío se usa frequency
	StartDate       string               `json:"startDate"` // YYYY-MM-DD opcional
	Duration        engine.DurationLabel `json:"duration" swaggertype:"string"`
	CurrentSupply   *int                 `json:"currentSupply"`
	TotalSupply     *int                 `json:"totalSupply"`
	RefillAt        int                  `json:"refillAt"`
	RefillReminder  bool                 `json:"refillReminder"`
	ReminderEnabled bool                 `json:"reminderEnabled"`
	Color           string               `json:"color"`
	Notes           string               `json:"notes"`
}

type supplyRequest struct {
	CurrentSupply  *int    `json:"currentSupply"`
	TotalSupply    *int    `json:"totalSupply"`
	LastRefillDate *string `json:"lastRefillDate"` // YYYY-MM-DD
}

// medicationResponse usa los mismos nombres que el registro del motor,
// más campos derivados para mostrar.
type medicationResponse struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Dosage          string               `json:"dosage"`
	Times           []string             `json:"times"`
	StartDate       string               `json:"startDate"`
	Duration        engine.DurationLabel `json:"duration" swaggertype:"string"`
	CurrentSupply   *int                 `json:"currentSupply,omitempty"`
	TotalSupply     *int                 `json:"totalSupply,omitempty"`
	RefillAt        int                  `json:"refillAt"`
	RefillReminder  bool                 `json:"refillReminder"`
	ReminderEnabled bool                 `json:"reminderEnabled"`
	Color           string               `json:"color,omitempty"`
	LastRefillDate  string               `json:"lastRefillDate,omitempty"`
	Notes           string               `json:"notes,omitempty"`

	DurationText string              `json:"durationText"`
	EndDate      string              `json:"endDate,omitempty"` // último día activo; vacío si es continuo
	Supply       engine.SupplyStatus `json:"supply"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// createMedicationHandler godoc
// @Summary Registrar medicamento
// @Description Crea un medicamento para el usuario autenticado. `times` (HH:MM) tiene prioridad sobre `frequency`. Con `refillReminder` se exigen `currentSupply` y `refillAt` (< currentSupply). Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>`.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body medicationRequest true "Datos del medicamento"
// @Success 201 {object} medicationResponse
// @Failure 400 {object} errorResponse "invalid json / reglas de validación"
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /medications [post]
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req medicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		m, err := svc.Create(r.Context(), userID, req.toInput())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicamentos
// @Description Lista los medicamentos del usuario, más nuevos primero.
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} medicationResponse
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 500 {object} errorResponse "internal error"
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.List(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getMedicationHandler godoc
// @Summary Obtener medicamento
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 404 {object} errorResponse "medication not found"
// @Router /medications/{medicationID} [get]
func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		m, err := svc.Get(r.Context(), userID, chi.URLParam(r, "medicationID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// updateMedicationHandler godoc
// @Summary Reemplazar medicamento
// @Description Reemplaza el registro completo con las mismas reglas que el alta.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Param payload body medicationRequest true "Datos del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 400 {object} errorResponse "invalid json / reglas de validación"
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 404 {object} errorResponse "medication not found"
// @Router /medications/{medicationID} [put]
func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req medicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		m, err := svc.Update(r.Context(), userID, chi.URLParam(r, "medicationID"), req.toInput())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// deleteMedicationHandler godoc
// @Summary Borrar medicamento
// @Description Borra el medicamento y su historial de tomas.
// @Tags medications
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Success 204
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 404 {object} errorResponse "medication not found"
// @Router /medications/{medicationID} [delete]
func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "medicationID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// updateSupplyHandler godoc
// @Summary Actualizar stock
// @Description PATCH de stock: los campos ausentes no se tocan.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Param payload body supplyRequest true "Stock"
// @Success 200 {object} medicationResponse
// @Failure 400 {object} errorResponse "invalid json / valores negativos"
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 404 {object} errorResponse "medication not found"
// @Router /medications/{medicationID}/supply [patch]
func updateSupplyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req supplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		m, err := svc.UpdateSupply(r.Context(), userID, chi.URLParam(r, "medicationID"), SupplyInput{
			CurrentSupply:  req.CurrentSupply,
			TotalSupply:    req.TotalSupply,
			LastRefillDate: req.LastRefillDate,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// refillHandler godoc
// @Summary Registrar recarga
// @Description Lleva el stock al total y guarda la fecha de recarga. Rechaza si el stock ya está completo.
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 400 {object} errorResponse "total supply unknown"
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 404 {object} errorResponse "medication not found"
// @Failure 409 {object} errorResponse "supply already full"
// @Router /medications/{medicationID}/refill [post]
func refillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		m, err := svc.Refill(r.Context(), userID, chi.URLParam(r, "medicationID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func (req medicationRequest) toInput() Input {
	return Input{
		Name:            req.Name,
		Dosage:          req.Dosage,
		Frequency:       req.Frequency,
		Times:           req.Times,
		StartDate:       req.StartDate,
		Duration:        req.Duration,
		CurrentSupply:   req.CurrentSupply,
		TotalSupply:     req.TotalSupply,
		RefillAt:        req.RefillAt,
		RefillReminder:  req.RefillReminder,
		ReminderEnabled: req.ReminderEnabled,
		Color:           req.Color,
		Notes:           req.Notes,
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	em := m.Engine()

	resp := medicationResponse{
		ID:              em.ID,
		Name:            em.Name,
		Dosage:          em.Dosage,
		Times:           em.Times,
		StartDate:       em.StartDate,
		Duration:        em.Duration,
		CurrentSupply:   em.CurrentSupply,
		TotalSupply:     em.TotalSupply,
		RefillAt:        em.RefillAt,
		RefillReminder:  em.RefillReminder,
		ReminderEnabled: em.ReminderEnabled,
		Color:           em.Color,
		LastRefillDate:  em.LastRefillDate,
		Notes:           m.Notes,
		DurationText:    engine.ParseDuration(em.Duration).Label(),
		Supply:          engine.SupplyStatusOf(em),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if last, ok := engine.LastDay(em); ok {
		resp.EndDate = last.String()
	}
	return resp
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
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "medication not found")
	case errors.Is(err, engine.ErrAlreadyFull):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrSupplyUnknown):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON / writeError están duplicados en cada módulo de handlers
// para no crear un paquete de helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
