package remote

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Service appointment.Service
	Logger  *zap.Logger
	Version string
}

// NewRouter returns the HTTP API for a data service.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(log))

	r.Get("/health", healthHandler(cfg.Version))

	r.Get("/appointments", listAppointmentsHandler(cfg.Service))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/move", moveAppointmentHandler(cfg.Service, log))
	r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Service))

	r.Get("/stations", listStationsHandler(cfg.Service))
	r.Get("/workers", listWorkersHandler(cfg.Service))

	return r
}

func healthHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version})
	}
}

func listAppointmentsHandler(svc appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_from", "from must be an RFC3339 timestamp")
			return
		}
		to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_to", "to must be an RFC3339 timestamp")
			return
		}
		if !to.After(from) {
			writeError(w, http.StatusBadRequest, "invalid_range", "to must be after from")
			return
		}

		appts, err := svc.ListAppointments(r.Context(), from, to)
		if err != nil {
			handleError(w, err)
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for _, a := range appts {
			resp = append(resp, toResponse(a))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getAppointmentHandler(svc appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetAppointment(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(*a))
	}
}

// moveAppointmentHandler answers 200 for both accepted and rejected moves;
// the outcome is in the body. Only store failures are non-2xx.
func moveAppointmentHandler(svc appointment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req appointment.MoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.AppointmentID == "" {
			req.AppointmentID = id
		}
		if req.AppointmentID != id {
			writeError(w, http.StatusBadRequest, "id_mismatch", "appointment_id does not match the URL")
			return
		}

		res, err := svc.MoveAppointment(r.Context(), req)
		if err != nil {
			handleError(w, err)
			return
		}
		if !res.Success {
			log.Info("move rejected",
				zap.String("appointment_id", id),
				zap.String("reason", res.Error),
				zap.String("request_id", GetRequestID(r.Context())),
			)
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func deleteAppointmentHandler(svc appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteAppointment(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listStationsHandler(svc appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stations, err := svc.ListStations(r.Context())
		if err != nil {
			handleError(w, err)
			return
		}
		resp := make([]ResourceResponse, 0, len(stations))
		for _, s := range stations {
			resp = append(resp, ResourceResponse{ID: s.ID, Name: s.Name})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func listWorkersHandler(svc appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workers, err := svc.ListWorkers(r.Context())
		if err != nil {
			handleError(w, err)
			return
		}
		resp := make([]ResourceResponse, 0, len(workers))
		for _, wk := range workers {
			resp = append(resp, ResourceResponse{ID: wk.ID, Name: wk.Name})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, codeAppointmentNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

const codeAppointmentNotFound = "appointment_not_found"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
