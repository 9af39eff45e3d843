package api

import (
	"net/http"

	gorilla "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"driver-console-service/internal/api/handlers"
	"driver-console-service/internal/ports"
	"driver-console-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware
// of concrete adapters). Backend-facing dependencies may be nil; the
// affected endpoints then answer 503.
func NewRouter(
	store *services.ItineraryStore,
	tracker *services.TripTracker,
	evaluator ports.OrderEvaluator,
	geocoder ports.Geocoder,
	gateway ports.DriverModeGateway,
) http.Handler {
	router := mux.NewRouter()

	sessionHandler := &handlers.SessionHandler{Store: store}
	routeHandler := &handlers.RouteHandler{Tracker: tracker, Geocoder: geocoder}
	orderHandler := &handlers.OrderHandler{Evaluator: evaluator, Store: store}
	driverHandler := &handlers.DriverHandler{Gateway: gateway}

	router.HandleFunc("/health", handlers.Health).Methods("GET")

	// Session: passenger legs and waypoints
	router.HandleFunc("/session", sessionHandler.Get).Methods("GET")
	router.HandleFunc("/session/reload", sessionHandler.Reload).Methods("POST")
	router.HandleFunc("/session/legs", sessionHandler.AddLeg).Methods("POST")
	router.HandleFunc("/session/legs/{index}", sessionHandler.EditLeg).Methods("PUT")
	router.HandleFunc("/session/legs/{index}", sessionHandler.RemoveLeg).Methods("DELETE")
	router.HandleFunc("/session/legs/{index}/onboard", sessionHandler.MarkOnboard).Methods("POST")
	router.HandleFunc("/session/waypoints", sessionHandler.AddWaypoint).Methods("POST")
	router.HandleFunc("/session/waypoints/{index}", sessionHandler.RemoveWaypoint).Methods("DELETE")

	// Route: preview, progression, persistence
	router.HandleFunc("/route", routeHandler.Get).Methods("GET")
	router.HandleFunc("/route", routeHandler.Request).Methods("POST")
	router.HandleFunc("/route/restore", routeHandler.Restore).Methods("POST")
	router.HandleFunc("/route/arrived", routeHandler.Arrived).Methods("POST")
	router.HandleFunc("/route/reset", routeHandler.Reset).Methods("POST")
	router.HandleFunc("/geocode/reverse", routeHandler.ReverseGeocode).Methods("POST")

	// Orders: candidate evaluation
	router.HandleFunc("/orders/evaluate", orderHandler.Evaluate).Methods("POST")

	// Driver settings: proxied to the dispatch backend
	router.HandleFunc("/driver/mode", driverHandler.GetMode).Methods("GET")
	router.HandleFunc("/driver/mode", driverHandler.SetMode).Methods("PUT")
	router.HandleFunc("/driver/mode/config", driverHandler.GetModeConfig).Methods("GET")
	router.HandleFunc("/driver/mode/config", driverHandler.SetModeConfig).Methods("PUT")
	router.HandleFunc("/driver/trips/planned", driverHandler.GetPlannedTrip).Methods("GET")
	router.HandleFunc("/driver/trips/planned", driverHandler.SavePlannedTrip).Methods("PUT", "POST")
	router.HandleFunc("/driver/trips/planned/complete", driverHandler.CompletePlannedTrip).Methods("POST")

	cors := gorilla.CORS(
		gorilla.AllowedOrigins([]string{"*"}),
		gorilla.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE"}),
		gorilla.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	return loggingMiddleware(cors(router))
}
