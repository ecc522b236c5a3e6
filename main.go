package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-boxoffice/internal/auth"
	"ms-boxoffice/internal/booking"
	"ms-boxoffice/internal/booking/booking_api"
	"ms-boxoffice/internal/booking/qr"
	"ms-boxoffice/internal/cache"
	"ms-boxoffice/internal/catalog"
	"ms-boxoffice/internal/catalog/catalog_api"
	catalogdb "ms-boxoffice/internal/catalog/db"
	"ms-boxoffice/internal/config"
	"ms-boxoffice/internal/database/migrations"
	"ms-boxoffice/internal/inventory"
	"ms-boxoffice/internal/kafka"
	"ms-boxoffice/internal/ledger"
	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/reports"
)

func connectDatabase(cfg *config.Config, log *logger.Logger) *bun.DB {
	if cfg.Database.DSN == "" {
		log.Fatal("CONFIG", "POSTGRES_DSN not set")
	}

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		if err = sqldb.Ping(); err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis unavailable at %s, booking cache disabled: %v", cfg.Redis.Addr, err))
		return nil
	}
	log.Info("REDIS", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))
	return client
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting box office service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := connectDatabase(cfg, log)
	defer bunDB.Close()

	log.Info("DATABASE", "Running schema migrations")
	migrationRunner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := migrationRunner.MigrateUp(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}
	defer migrationRunner.Close()

	var bookingCache booking.BookingCache
	if cfg.Redis.Enabled {
		if redisClient := connectRedis(ctx, cfg, log); redisClient != nil {
			defer redisClient.Close()
			bookingCache = cache.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
		}
	}

	var producer *kafka.Producer
	var publisher booking.KafkaPublisher
	if cfg.Kafka.Enabled {
		log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		publisher = producer

		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{kafka.TopicBookingCreated}); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
	} else {
		log.Warn("KAFKA", "Kafka disabled, booking events will not be published")
	}

	catalogDB := catalogdb.NewDB(bunDB)
	catalogService := catalog.NewService(catalogDB)
	ledgerDB := ledger.NewDB(bunDB)
	inventoryStore := inventory.NewDB(bunDB)
	bookingService := booking.NewBookingService(inventoryStore, ledgerDB, publisher, bookingCache)

	var qrGen *qr.Generator
	if cfg.Auth.QRSecret != "" {
		qrGen = qr.NewGenerator(cfg.Auth.QRSecret)
	} else {
		log.Warn("CONFIG", "QR_SECRET_KEY not set, booking QR endpoint disabled")
	}

	reportsService := reports.NewService(catalogDB, ledgerDB)

	catalogHandler := catalog_api.NewHandler(catalogService, log)
	bookingHandler := booking_api.NewHandler(bookingService, reportsService, qrGen, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		if cfg.Auth.JWTSecret != "" {
			r.Use(auth.Middleware(cfg.Auth.JWTSecret))
			log.Info("AUTH", "JWT middleware applied to API routes")
		} else {
			log.Warn("AUTH", "JWT_SECRET not set, API routes are unauthenticated")
		}

		r.Route("/api", func(r chi.Router) {
			catalogHandler.RegisterRoutes(r)
			bookingHandler.RegisterRoutes(r)
		})
	})
	log.Info("ROUTER", "Catalog and booking routes registered under /api")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Box office service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Box office service shutdown complete")
	}
}
