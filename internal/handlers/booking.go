package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ambulance-dispatch/internal/db"
	"github.com/ukydev/ambulance-dispatch/internal/dispatch"
	"github.com/ukydev/ambulance-dispatch/internal/middleware"
	"github.com/ukydev/ambulance-dispatch/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingHandler handles booking intake and lifecycle requests
type BookingHandler struct {
	service *dispatch.Service
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service *dispatch.Service) *BookingHandler {
	return &BookingHandler{service: service}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeMessage writes a {"message": ...} JSON body
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServiceError maps dispatch and storage errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dispatch.ErrMissingPatientInfo),
		errors.Is(err, dispatch.ErrMissingVehicleInfo),
		errors.Is(err, dispatch.ErrInvalidAccidentType),
		errors.Is(err, dispatch.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidLocation),
		errors.Is(err, models.ErrInvalidCoordinateValue):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "record not found")
	default:
		log.WithError(err).Error("Booking request failed")
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// callerID extracts the authenticated user's object id from the request context.
func callerID(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreateBooking handles booking intake
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	patientID, ok := callerID(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req models.CreateBookingRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), patientID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// GetAllBookings returns every booking, newest first. Admin only.
func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	bookings, err := h.service.ListAllBookings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

// GetUserBookings returns the caller's bookings, newest first.
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	patientID, ok := callerID(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	bookings, err := h.service.ListPatientBookings(r.Context(), patientID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

// UpdateBookingStatus moves a booking through its lifecycle
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req models.UpdateBookingStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.BookingID == "" {
		writeMessage(w, http.StatusBadRequest, "booking_id is required")
		return
	}

	booking, err := h.service.UpdateBookingStatus(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}
