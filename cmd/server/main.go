package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/cost"
	"trip-planner-service/internal/adapters/events"
	"trip-planner-service/internal/adapters/ors"
	"trip-planner-service/internal/adapters/places"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/planner"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, ORS, Redis, AMQP) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := getEnv("DB_PATH", "data/app.db")
	seedPath := getEnv("SEED_PATH", "data/seeds/places.json")
	port := getEnv("PORT", "8080")

	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}

	sqlDB, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	// Initialize schema and seed suggested places on startup for local runs.
	if err := initAndSeed(sqlDB, seedPath); err != nil {
		log.Fatal(err)
	}

	orsClient, err := ors.NewClient(orsKey)
	if err != nil {
		log.Fatal(err)
	}

	// Geocode results are cached in SQLite to avoid repeated lookups of
	// the same destination across sessions.
	geocoder := cache.NewCachedGeocoder(ors.NewGeocoder(orsClient), cache.NewSqliteGeocodeCache(sqlDB))
	distanceProvider := ors.NewDistanceProvider(orsClient)
	routeProvider := ors.NewRouteProvider(orsClient)

	legCache, err := buildLegCache(sqlDB)
	if err != nil {
		log.Fatal(err)
	}

	estimator := buildEstimator()
	placeSearch := buildPlaceSearch(sqlDB)
	repo := repositories.NewSqlitePlanRepository(sqlDB)

	var publisher ports.PlanEventPublisher
	if addr := os.Getenv("AMQP_URL"); strings.TrimSpace(addr) != "" {
		amqpPub, err := events.NewAMQPPublisher(addr)
		if err != nil {
			log.Printf("AMQP unavailable, plan events disabled: %v", err)
		} else {
			defer amqpPub.Close()
			publisher = amqpPub
		}
	}

	// Each session gets its own routers and cost debouncer; providers
	// and caches are shared.
	sessions := planner.NewManager(func() planner.Deps {
		return planner.Deps{
			Geocoder:   geocoder,
			Places:     placeSearch,
			Legs:       planner.NewLegRouter(distanceProvider, legCache),
			Multi:      planner.NewMultiPointRouter(routeProvider),
			Aggregator: planner.NewRouteAggregator(),
			Costs:      planner.NewCostService(estimator, planner.DefaultCostDebounce),
			Repo:       repo,
			Events:     publisher,
		}
	})

	router := api.NewRouter(sessions, repo, publisher, placeSearch)

	// Timeouts are tuned for cold-cache route computation (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return sqlDB, nil
}

func initAndSeed(sqlDB *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(sqlDB); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(sqlDB, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// buildLegCache picks the leg cache backend: Redis when REDIS_ADDR is
// set, Postgres when DATABASE_URL is set, otherwise an in-process LRU.
func buildLegCache(_ *sql.DB) (ports.LegCache, error) {
	if addr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(addr) != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("leg cache: verify redis connection to %q: %w", addr, err)
		}
		log.Printf("leg cache backend=redis addr=%s", addr)
		return cache.NewRedisDistanceCache(client, 0), nil
	}

	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("leg cache: %w", err)
		}
		pgCache := cache.NewPGDistanceCache(pg)
		if err := pgCache.InitSchema(context.Background()); err != nil {
			return nil, fmt.Errorf("leg cache: %w", err)
		}
		log.Printf("leg cache backend=postgres")
		return pgCache, nil
	}

	log.Printf("leg cache backend=memory capacity=%d", cache.DefaultLegCacheSize)
	return cache.NewMemoryDistanceCache(cache.DefaultLegCacheSize), nil
}

// buildEstimator uses the external estimate service when configured,
// otherwise the built-in heuristic estimator.
func buildEstimator() ports.CostEstimator {
	baseURL := os.Getenv("COST_API_URL")
	if strings.TrimSpace(baseURL) == "" {
		log.Println("COST_API_URL not set, using built-in cost estimator")
		return cost.NewLocalEstimator()
	}

	estimator, err := cost.NewHTTPEstimator(baseURL, os.Getenv("COST_API_KEY"))
	if err != nil {
		log.Fatal(err)
	}
	return estimator
}

// buildPlaceSearch uses the external place backend when configured,
// otherwise the seeded SQLite suggestions.
func buildPlaceSearch(sqlDB *sql.DB) ports.PlaceSearch {
	baseURL := os.Getenv("PLACES_API_URL")
	if strings.TrimSpace(baseURL) == "" {
		log.Println("PLACES_API_URL not set, using seeded place suggestions")
		return repositories.NewSqlitePlaceSearch(sqlDB)
	}

	search, err := places.NewHTTPPlaceSearch(baseURL, os.Getenv("PLACES_API_KEY"))
	if err != nil {
		log.Fatal(err)
	}
	return search
}
