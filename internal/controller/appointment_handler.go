package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bluclinic/appointment-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// timeLayout is the naive local date-time format the API accepts,
// ISO 8601 without zone information.
const timeLayout = "2006-01-02T15:04:05"

type AppointmentHandler struct {
	appointments *service.AppointmentService
	logger       *zap.Logger
}

func NewAppointmentHandler(appointments *service.AppointmentService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointments: appointments,
		logger:       logger,
	}
}

type createAppointmentsRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type bookAppointmentRequest struct {
	PatientName        string `json:"patient_name"`
	PatientPhoneNumber string `json:"patient_phone_number"`
}

// Create slices the requested window into 30-minute open slots.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request createAppointmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeClientError(w, "invalid request body")
		return
	}

	start, err := time.Parse(timeLayout, request.StartTime)
	if err != nil {
		writeClientError(w, "start_time must be formatted as "+timeLayout)
		return
	}
	end, err := time.Parse(timeLayout, request.EndTime)
	if err != nil {
		writeClientError(w, "end_time must be formatted as "+timeLayout)
		return
	}

	appointments, err := h.appointments.CreateAppointments(r.Context(), start, end)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "appointments created", appointments)
}

// ListAll returns every slot, open and taken.
func (h *AppointmentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointments.AllAppointments(r.Context())
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "appointments", appointments)
}

// ListOpen returns only slots still available for claiming.
func (h *AppointmentHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointments.OpenAppointments(r.Context())
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "open appointments", appointments)
}

// ListByPhoneNumber returns every slot claimed with the given phone number.
func (h *AppointmentHandler) ListByPhoneNumber(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeClientError(w, "phone query parameter is required")
		return
	}

	appointments, err := h.appointments.AppointmentsByPhoneNumber(r.Context(), phone)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "appointments", appointments)
}

// Book claims an open slot for the patient.
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeClientError(w, "appointment id must be a number")
		return
	}

	var request bookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeClientError(w, "invalid request body")
		return
	}

	appointment, err := h.appointments.Book(r.Context(), id, request.PatientName, request.PatientPhoneNumber)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "appointment booked", appointment)
}

// Delete removes a slot that has not been claimed yet.
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeClientError(w, "appointment id must be a number")
		return
	}

	if err := h.appointments.DeleteOpen(r.Context(), id); err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "appointment deleted", nil)
}
