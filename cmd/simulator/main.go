package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Location is a lng/lat pair matching the GeoJSON coordinate order the API
// expects.
type Location struct {
	Lng float64
	Lat float64
}

// Seed points around Bangalore, where the original fleet operates.
var seedPoints = []Location{
	{Lng: 77.5946, Lat: 12.9716}, // MG Road
	{Lng: 77.6408, Lat: 12.9784}, // Indiranagar
	{Lng: 77.6245, Lat: 12.9352}, // Koramangala
	{Lng: 77.5671, Lat: 12.9308}, // Jayanagar
	{Lng: 77.7499, Lat: 12.9698}, // Whitefield
	{Lng: 77.5806, Lat: 13.0067}, // Malleshwaram
	{Lng: 77.6604, Lat: 12.8452}, // Electronic City
	{Lng: 77.5533, Lat: 13.0358}, // Yeshwanthpur
}

func jitterLocation(base Location, meters float64) Location {
	latMetersPerDeg := 111320.0
	lngMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLng := (rand.Float64()*2 - 1) * (meters / lngMetersPerDeg)
	return Location{Lng: base.Lng + dLng, Lat: base.Lat + dLat}
}

func randomSeedLocation() Location {
	base := seedPoints[rand.Intn(len(seedPoints))]
	return jitterLocation(base, 500)
}

// stepTowards moves from current towards target by the distance a vehicle at
// speedKmh covers in tickSec seconds, snapping to the target when close.
func stepTowards(current, target Location, speedKmh, tickSec float64) Location {
	stepMeters := speedKmh / 3.6 * tickSec
	latMetersPerDeg := 111320.0
	lngMetersPerDeg := 111320.0 * math.Cos(current.Lat*math.Pi/180)
	dLat := (target.Lat - current.Lat) * latMetersPerDeg
	dLng := (target.Lng - current.Lng) * lngMetersPerDeg
	dist := math.Hypot(dLat, dLng)
	if dist <= stepMeters || dist == 0 {
		return target
	}
	t := stepMeters / dist
	return Location{
		Lng: current.Lng + (target.Lng-current.Lng)*t,
		Lat: current.Lat + (target.Lat-current.Lat)*t,
	}
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) postJSON(path, token string, payload interface{}, out interface{}) error {
	return c.sendJSON(http.MethodPost, path, token, payload, out, http.StatusCreated, http.StatusOK)
}

func (c *apiClient) putJSON(path, token string, payload interface{}, out interface{}) error {
	return c.sendJSON(http.MethodPut, path, token, payload, out, http.StatusOK)
}

func (c *apiClient) sendJSON(method, path, token string, payload interface{}, out interface{}, wantStatuses ...int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	ok := false
	for _, s := range wantStatuses {
		if resp.StatusCode == s {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// driver is one simulated driver account with its ambulance.
type driver struct {
	token       string
	ambulanceID string
	position    Location
	target      Location
	speedKmh    float64
}

func registerDriver(client *apiClient, n int) (string, error) {
	suffix := time.Now().UnixNano() % 1_000_000
	var resp struct {
		Token string `json:"token"`
	}
	err := client.postJSON("/auth/register", "", map[string]interface{}{
		"username":   fmt.Sprintf("simdriver-%d-%d", n, suffix),
		"email":      fmt.Sprintf("simdriver-%d-%d@example.com", n, suffix),
		"phone":      fmt.Sprintf("98765%05d", rand.Intn(100000)),
		"password":   "simulator-pass-123",
		"first_name": "Sim",
		"last_name":  fmt.Sprintf("Driver%d", n),
		"role":       "driver",
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("register driver: %w", err)
	}
	return resp.Token, nil
}

func registerAmbulance(client *apiClient, token string, n int, loc Location) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	err := client.postJSON("/booking/ambulance/register", token, map[string]interface{}{
		"vehicle_number": fmt.Sprintf("KA-01-SIM-%04d", n),
		"driver_name":    fmt.Sprintf("Sim Driver%d", n),
		"driver_phone":   fmt.Sprintf("98765%05d", rand.Intn(100000)),
		"coordinates":    []float64{loc.Lng, loc.Lat},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("register ambulance: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("no ambulance id in response")
	}
	return resp.ID, nil
}

func sendLocation(client *apiClient, d *driver) {
	err := client.putJSON("/booking/ambulance/location", d.token, map[string]interface{}{
		"ambulance_id": d.ambulanceID,
		"coordinates":  []float64{d.position.Lng, d.position.Lat},
	}, nil)
	if err != nil {
		log.WithError(err).WithField("ambulance_id", d.ambulanceID).Error("Failed to send location")
		return
	}
	log.WithFields(log.Fields{
		"ambulance_id": d.ambulanceID,
		"lng":          d.position.Lng,
		"lat":          d.position.Lat,
	}).Info("Sent location")
}

func simulateDriver(client *apiClient, d *driver, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		// small speed noise, city traffic bounds
		d.speedKmh += (rand.Float64()*2 - 1) * 3
		if d.speedKmh < 15 {
			d.speedKmh = 15
		}
		if d.speedKmh > 70 {
			d.speedKmh = 70
		}

		d.position = stepTowards(d.position, d.target, d.speedKmh, interval.Seconds())
		if d.position == d.target {
			d.target = randomSeedLocation()
		}

		sendLocation(client, d)
	}
}

func main() {
	fleetSize := 10
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			fleetSize = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
		"interval":   interval,
	}).Info("Starting fleet simulation")

	client := newAPIClient(apiURL)

	drivers := make([]*driver, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		token, err := registerDriver(client, i+1)
		if err != nil {
			log.WithError(err).Error("Failed to register driver")
			continue
		}
		start := randomSeedLocation()
		ambulanceID, err := registerAmbulance(client, token, i+1, start)
		if err != nil {
			log.WithError(err).Error("Failed to register ambulance")
			continue
		}
		log.WithFields(log.Fields{
			"ambulance_id": ambulanceID,
			"lng":          start.Lng,
			"lat":          start.Lat,
		}).Info("Registered ambulance")

		drivers = append(drivers, &driver{
			token:       token,
			ambulanceID: ambulanceID,
			position:    start,
			target:      randomSeedLocation(),
			speedKmh:    25 + rand.Float64()*25,
		})
	}

	log.WithField("registered", len(drivers)).Info("Fleet registration completed")
	if len(drivers) == 0 {
		log.Error("No ambulances registered. Ensure the API is reachable. Exiting.")
		return
	}

	for _, d := range drivers {
		go simulateDriver(client, d, interval)
	}

	log.Info("Location streaming started")
	select {} // Block forever
}
