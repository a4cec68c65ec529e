package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/ukydev/ambulance-dispatch/internal/dispatch"
	"github.com/ukydev/ambulance-dispatch/internal/models"
)

// AmbulanceHandler handles fleet listing and driver-side requests
type AmbulanceHandler struct {
	service *dispatch.Service
}

// NewAmbulanceHandler creates a new ambulance handler
func NewAmbulanceHandler(service *dispatch.Service) *AmbulanceHandler {
	return &AmbulanceHandler{service: service}
}

// GetNearbyAmbulances lists available ambulances around a point, nearest
// first. Query params: lng, lat, optional maxDistance (meters) and limit.
func (h *AmbulanceHandler) GetNearbyAmbulances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	if errLng != nil || errLat != nil {
		writeMessage(w, http.StatusBadRequest, "lng and lat query parameters are required")
		return
	}

	var radius float64
	if v := q.Get("maxDistance"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid maxDistance")
			return
		}
		radius = parsed
	}

	var limit int64
	if v := q.Get("limit"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	ambulances, err := h.service.NearbyAmbulances(r.Context(), models.NewGeoPoint(lng, lat), radius, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if ambulances == nil {
		ambulances = []models.Ambulance{}
	}

	writeJSON(w, http.StatusOK, ambulances)
}

// GetAllAmbulances lists the whole fleet, available or not
func (h *AmbulanceHandler) GetAllAmbulances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ambulances, err := h.service.ListAmbulances(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if ambulances == nil {
		ambulances = []models.Ambulance{}
	}

	writeJSON(w, http.StatusOK, ambulances)
}

// RegisterAmbulance onboards a vehicle for the authenticated driver
func (h *AmbulanceHandler) RegisterAmbulance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	driverID, ok := callerID(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req models.RegisterAmbulanceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ambulance, err := h.service.RegisterAmbulance(r.Context(), driverID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ambulance)
}

// UpdateAmbulanceLocation overwrites the ambulance position reported by the
// driver app
func (h *AmbulanceHandler) UpdateAmbulanceLocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req models.UpdateAmbulanceLocationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.AmbulanceID == "" {
		writeMessage(w, http.StatusBadRequest, "ambulance_id is required")
		return
	}

	ambulance, err := h.service.UpdateAmbulanceLocation(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ambulance)
}
