package tracking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"medremind/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/stats", statsHandler(svc))
	r.Get("/refills", refillsHandler(svc))
	r.Get("/calendar", calendarHandler(svc))
	r.Get("/history", historyHandler(svc))

	r.Route("/reminders", func(rr chi.Router) {
		rr.Get("/today", todayHandler(svc))
		rr.Get("/plan", planHandler(svc))
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

// todayHandler godoc
// @Summary Plan de hoy
// @Description Dosis esperadas de hoy con su estado (taken/missed/pending), progreso y próxima toma por medicamento.
// @Tags reminders
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} TodayView
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 500 {object} errorResponse "internal error"
// @Router /reminders/today [get]
func todayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		view, err := svc.Today(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// planHandler godoc
// @Summary Plan de notificaciones
// @Description Próxima toma de cada medicamento con recordatorio activo y alertas de recarga en nivel Low.
// @Tags reminders
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} engine.Reminder
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /reminders/plan [get]
func planHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		plan, err := svc.Plan(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

// statsHandler godoc
// @Summary Estadísticas de adherencia
// @Description Adherencia por medicamento y global en los últimos `days` días (default 30).
// @Tags stats
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param days query int false "Tamaño de la ventana en días (1 a 36500)"
// @Success 200 {object} StatsView
// @Failure 400 {object} errorResponse "days inválido"
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		view, err := svc.Stats(r.Context(), userID, r.URL.Query().Get("days"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// refillsHandler godoc
// @Summary Estado de stock
// @Description Nivel de stock (Good/Medium/Low/Unknown) por medicamento; los que necesitan recarga primero.
// @Tags refills
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} RefillView
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /refills [get]
func refillsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.Refills(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// calendarHandler godoc
// @Summary Calendario mensual
// @Description Grilla de semanas (domingo a sábado) con marcas de días con tomas y el plan del día seleccionado.
// @Tags calendar
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param month query string false "YYYY-MM (default mes actual)"
// @Param selected query string false "YYYY-MM-DD (default hoy)"
// @Success 200 {object} CalendarView
// @Failure 400 {object} errorResponse "month/selected inválido"
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /calendar [get]
func calendarHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		view, err := svc.Calendar(r.Context(), userID, q.Get("month"), q.Get("selected"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// historyHandler godoc
// @Summary Historial agrupado por día
// @Tags history
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param filter query string false "all | taken | missed" Enums(all, taken, missed)
// @Success 200 {object} HistoryView
// @Failure 401 {object} errorResponse "unauthorized"
// @Router /history [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		view, err := svc.History(r.Context(), userID, r.URL.Query().Get("filter"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func currentUser(r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", false
	}
	return claims.UserID, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
