package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"driver-console-service/internal/adapters/cache"
	"driver-console-service/internal/adapters/repositories"
	"driver-console-service/internal/adapters/routing"
	"driver-console-service/internal/api"
	"driver-console-service/internal/config"
	"driver-console-service/internal/platform/db"
	"driver-console-service/internal/platform/redis"
	"driver-console-service/internal/ports"
	"driver-console-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, the dispatch backend)
// behind ports and starts the HTTP server. Every external collaborator
// is optional: without Postgres the session runs local-only, without
// Redis it falls back to an in-process cache, and without a backend URL
// the routing endpoints answer 503.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	driverID := config.Get("DRIVER_ID", "driver-1")
	port := config.Get("PORT", "8080")
	apiBase := os.Getenv("API_BASE")

	var sqlDB *sql.DB
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		var err error
		sqlDB, err = db.Open(databaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer sqlDB.Close()
	} else {
		log.Warn().Msg("DATABASE_URL not set, running local-only")
	}

	var sessionCache ports.SessionCache
	if redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); redisAddr != "" {
		client, err := redis.Open(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB())
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer client.Close()
		sessionCache = cache.NewRedisSessionCache(client)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, session cache is in-process only")
		sessionCache = cache.NewMemorySessionCache()
	}

	var (
		orders    ports.OrderRepository
		drivers   ports.DriverStateRepository
		dir       ports.DriverDirectory
		snapshots ports.SnapshotStore
	)
	if sqlDB != nil {
		orders = repositories.NewPostgresOrderRepository(sqlDB)
		driverRepo := repositories.NewPostgresDriverRepository(sqlDB)
		drivers = driverRepo
		dir = driverRepo
		snapshots = repositories.NewPostgresSnapshotStore(sqlDB)

		// Shared app_config rows override the environment so one row
		// flip repoints every console without a redeploy.
		var appCfg ports.AppConfigRepository = driverRepo
		overrides, err := appCfg.Load(context.Background())
		if err != nil {
			log.Warn().Err(err).Msg("app_config load failed, using environment")
		} else {
			if v := strings.TrimSpace(overrides["api_base"]); v != "" {
				apiBase = v
			}
			if v := strings.TrimSpace(overrides["driver_id"]); v != "" {
				driverID = v
			}
		}
	}

	var (
		provider  ports.RoutePreviewProvider
		evaluator ports.OrderEvaluator
		geocoder  ports.Geocoder
		gateway   ports.DriverModeGateway
	)
	if strings.TrimSpace(apiBase) != "" {
		backend, err := routing.NewBackendClient(apiBase)
		if err != nil {
			log.Fatal().Err(err).Msg("backend client setup failed")
		}
		provider = backend
		evaluator = backend
		geocoder = backend
		gateway = backend
	} else {
		log.Warn().Msg("API_BASE not set, routing and matching disabled")
	}

	store := services.NewItineraryStore(driverID, services.DefaultVehicleCapacity, orders, drivers, dir, sessionCache)
	if err := store.Load(context.Background()); err != nil {
		log.Warn().Err(err).Msg("initial session load failed, starting empty")
	}

	tracker := services.NewTripTracker(driverID, provider, snapshots, sessionCache, store)
	router := api.NewRouter(store, tracker, evaluator, geocoder, gateway)

	// Write timeout leaves room for a slow backend route computation.
	log.Info().Str("addr", ":"+port).Str("driver_id", driverID).Msg("server listening")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}

func redisDB() int {
	n, err := strconv.Atoi(config.Get("REDIS_DB", "0"))
	if err != nil {
		return 0
	}
	return n
}
