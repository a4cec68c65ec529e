package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ambulance-dispatch/internal/dispatch"
	"github.com/ukydev/ambulance-dispatch/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAmbulanceHandler_GetNearbyAmbulances(t *testing.T) {
	t.Run("lists available ambulances", func(t *testing.T) {
		fleet := newStubFleet(bangaloreAmbulance())
		svc := dispatch.NewService(fleet, newStubBookings(), nil, nil, 0)
		handler := NewAmbulanceHandler(svc)

		req := httptest.NewRequest("GET", "/api/booking/ambulances/nearby?lng=77.6031&lat=12.9698", nil)
		w := httptest.NewRecorder()

		handler.GetNearbyAmbulances(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var got []models.Ambulance
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "KA-01-AB-1234", got[0].VehicleNumber)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		svc := dispatch.NewService(newStubFleet(), newStubBookings(), nil, nil, 0)
		handler := NewAmbulanceHandler(svc)

		req := httptest.NewRequest("GET", "/api/booking/ambulances/nearby", nil)
		w := httptest.NewRecorder()

		handler.GetNearbyAmbulances(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid maxDistance", func(t *testing.T) {
		svc := dispatch.NewService(newStubFleet(), newStubBookings(), nil, nil, 0)
		handler := NewAmbulanceHandler(svc)

		req := httptest.NewRequest("GET", "/api/booking/ambulances/nearby?lng=77.6&lat=12.9&maxDistance=far", nil)
		w := httptest.NewRecorder()

		handler.GetNearbyAmbulances(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty fleet returns empty list", func(t *testing.T) {
		svc := dispatch.NewService(newStubFleet(), newStubBookings(), nil, nil, 0)
		handler := NewAmbulanceHandler(svc)

		req := httptest.NewRequest("GET", "/api/booking/ambulances/nearby?lng=77.6&lat=12.9", nil)
		w := httptest.NewRecorder()

		handler.GetNearbyAmbulances(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestAmbulanceHandler_GetAllAmbulances(t *testing.T) {
	fleet := newStubFleet(bangaloreAmbulance())
	svc := dispatch.NewService(fleet, newStubBookings(), nil, nil, 0)
	handler := NewAmbulanceHandler(svc)

	req := httptest.NewRequest("GET", "/api/booking/ambulances/all", nil)
	w := httptest.NewRecorder()

	handler.GetAllAmbulances(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []models.Ambulance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestAmbulanceHandler_RegisterAmbulance(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		fleet := newStubFleet()
		svc := dispatch.NewService(fleet, newStubBookings(), nil, nil, 0)
		handler := NewAmbulanceHandler(svc)

		driverID := primitive.NewObjectID()
		body, _ := json.Marshal(models.RegisterAmbulanceRequest{
			VehicleNumber: "KA-01-AB-9999",
			DriverName:    "Ravi Kumar",
			DriverPhone:   "9876500001",
			Coordinates:   []json.RawMessage{json.RawMessage(`77.5946`), json.RawMessage(`12.9716`)},
		})
		req := withClaims(httptest.NewRequest("POST", "/api/booking/ambulance/register", bytes.NewBuffer(body)), &models.Claims{
			UserID: driverID.Hex(),
			Role:   models.RoleDriver,
		})
		w := httptest.NewRecorder()

		handler.RegisterAmbulance(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var got models.Ambulance
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "KA-01-AB-9999", got.VehicleNumber)
		assert.Equal(t, driverID, got.DriverID)
		assert.True(t, got.Available)
	})

	t.Run("missing vehicle number", func(t *testing.T) {
		svc := dispatch.NewService(newStubFleet(), newStubBookings(), nil, nil, 0)
		handler := NewAmbulanceHandler(svc)

		body, _ := json.Marshal(models.RegisterAmbulanceRequest{
			Coordinates: []json.RawMessage{json.RawMessage(`77.5946`), json.RawMessage(`12.9716`)},
		})
		req := withClaims(httptest.NewRequest("POST", "/api/booking/ambulance/register", bytes.NewBuffer(body)), &models.Claims{
			UserID: primitive.NewObjectID().Hex(),
			Role:   models.RoleDriver,
		})
		w := httptest.NewRecorder()

		handler.RegisterAmbulance(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAmbulanceHandler_UpdateAmbulanceLocation(t *testing.T) {
	t.Run("successful update", func(t *testing.T) {
		ambulance := bangaloreAmbulance()
		fleet := newStubFleet(ambulance)
		svc := dispatch.NewService(fleet, newStubBookings(), nil, nil, 0)
		handler := NewAmbulanceHandler(svc)

		body, _ := json.Marshal(models.UpdateAmbulanceLocationRequest{
			AmbulanceID: ambulance.ID.Hex(),
			Coordinates: []json.RawMessage{json.RawMessage(`77.6100`), json.RawMessage(`12.9500`)},
		})
		req := httptest.NewRequest("PUT", "/api/booking/ambulance/location", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.UpdateAmbulanceLocation(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var got models.Ambulance
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 77.61, got.CurrentLocation.Lng())
		assert.Equal(t, 12.95, got.CurrentLocation.Lat())
	})

	t.Run("unknown ambulance", func(t *testing.T) {
		svc := dispatch.NewService(newStubFleet(), newStubBookings(), nil, nil, 0)
		handler := NewAmbulanceHandler(svc)

		body, _ := json.Marshal(models.UpdateAmbulanceLocationRequest{
			AmbulanceID: primitive.NewObjectID().Hex(),
			Coordinates: []json.RawMessage{json.RawMessage(`77.61`), json.RawMessage(`12.95`)},
		})
		req := httptest.NewRequest("PUT", "/api/booking/ambulance/location", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.UpdateAmbulanceLocation(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric coordinates", func(t *testing.T) {
		svc := dispatch.NewService(newStubFleet(), newStubBookings(), nil, nil, 0)
		handler := NewAmbulanceHandler(svc)

		body, _ := json.Marshal(models.UpdateAmbulanceLocationRequest{
			AmbulanceID: primitive.NewObjectID().Hex(),
			Coordinates: []json.RawMessage{json.RawMessage(`"abc"`), json.RawMessage(`12.95`)},
		})
		req := httptest.NewRequest("PUT", "/api/booking/ambulance/location", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.UpdateAmbulanceLocation(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing ambulance id", func(t *testing.T) {
		svc := dispatch.NewService(newStubFleet(), newStubBookings(), nil, nil, 0)
		handler := NewAmbulanceHandler(svc)

		body, _ := json.Marshal(models.UpdateAmbulanceLocationRequest{
			Coordinates: []json.RawMessage{json.RawMessage(`77.61`), json.RawMessage(`12.95`)},
		})
		req := httptest.NewRequest("PUT", "/api/booking/ambulance/location", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.UpdateAmbulanceLocation(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
