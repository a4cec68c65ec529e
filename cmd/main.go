package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ambulance-dispatch/internal/auth"
	"github.com/ukydev/ambulance-dispatch/internal/config"
	"github.com/ukydev/ambulance-dispatch/internal/db"
	"github.com/ukydev/ambulance-dispatch/internal/dispatch"
	"github.com/ukydev/ambulance-dispatch/internal/handlers"
	"github.com/ukydev/ambulance-dispatch/internal/middleware"
	"github.com/ukydev/ambulance-dispatch/internal/models"
	"github.com/ukydev/ambulance-dispatch/internal/relay"
	"github.com/ukydev/ambulance-dispatch/internal/routes"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// newPublisher picks MQTT when a broker is configured, otherwise a no-op.
func newPublisher(cfg config.Config) relay.Publisher {
	if cfg.MQTTBroker == "" {
		log.Info("MQTT_BROKER not set, notifications disabled")
		return relay.NopPublisher{}
	}
	publisher, err := relay.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix)
	if err != nil {
		log.WithError(err).Warn("MQTT broker unreachable, notifications disabled")
		return relay.NopPublisher{}
	}
	log.WithField("broker", cfg.MQTTBroker).Info("Connected to MQTT broker")
	return publisher
}

// newEstimator picks the Directions API when a key is configured, otherwise
// the haversine fallback.
func newEstimator(cfg config.Config) routes.Estimator {
	if cfg.MapsAPIKey == "" {
		log.Info("MAPS_API_KEY not set, using haversine estimates")
		return routes.HaversineEstimator{}
	}
	estimator, err := routes.NewGoogleEstimator(cfg.MapsAPIKey)
	if err != nil {
		log.WithError(err).Warn("Maps client setup failed, using haversine estimates")
		return routes.HaversineEstimator{}
	}
	return estimator
}

func main() {
	cfg := config.Load()

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		cancel()
		log.WithError(err).Fatal("Failed to create indexes")
	}
	cancel()

	ambulances := &db.MongoAmbulanceCollection{Collection: database.Collection("ambulances")}
	bookings := &db.MongoBookingCollection{Collection: database.Collection("bookings")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	publisher := newPublisher(cfg)
	estimator := newEstimator(cfg)
	service := dispatch.NewService(ambulances, bookings, publisher, estimator, cfg.AssignRadiusMeters)

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	authHandler := handlers.NewAuthHandler(authService, users)
	bookingHandler := handlers.NewBookingHandler(service)
	ambulanceHandler := handlers.NewAmbulanceHandler(service)

	authMw := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("/api/booking/create", bookingHandler.CreateBooking)
	mux.Handle("/api/booking/all", authMw.RequireRole(models.RoleAdmin)(http.HandlerFunc(bookingHandler.GetAllBookings)))
	mux.HandleFunc("/api/booking/user", bookingHandler.GetUserBookings)
	mux.HandleFunc("/api/booking/update-status", bookingHandler.UpdateBookingStatus)
	mux.HandleFunc("/api/booking/ambulances/nearby", ambulanceHandler.GetNearbyAmbulances)
	mux.HandleFunc("/api/booking/ambulances/all", ambulanceHandler.GetAllAmbulances)
	mux.Handle("/api/booking/ambulance/register", authMw.RequireFleetAccess(http.HandlerFunc(ambulanceHandler.RegisterAmbulance)))
	mux.Handle("/api/booking/ambulance/location", authMw.RequireFleetAccess(http.HandlerFunc(ambulanceHandler.UpdateAmbulanceLocation)))
	mux.HandleFunc("/health", healthHandler)

	handler := rateLimiter.RateLimit(300, 60)(authMw.Authenticate(mux))

	log.WithField("port", cfg.Port).Info("Dispatch API listening")
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
