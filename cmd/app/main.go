package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dispatch/cmd"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/adapters/out/postgres/courierrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config := getConfig(logger)

	db, err := openDatabase(config)
	if err != nil {
		logger.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	root, err := cmd.NewCompositionRoot(config, db, logger)
	if err != nil {
		logger.Error("Composition failed", "error", err)
		os.Exit(1)
	}

	notifier := root.Notifier()
	notifier.Start()
	defer notifier.Stop()

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		logger.Error("Job startup failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := newEchoServer(root)

	go func() {
		if err := e.Start("0.0.0.0:" + config.HTTPPort); err != nil {
			logger.Info("HTTP server stopped", "error", err)
		}
	}()

	// Block until a shutdown signal arrives, then drain
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
}

func newEchoServer(root *cmd.CompositionRoot) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	server := httpadapter.NewServer(
		root.CreateCreateCourierCommandHandler(),
		root.CreateCreateAssignmentCommandHandler(),
		root.CreateAcceptAssignmentCommandHandler(),
		root.CreateUpdateAssignmentStatusCommandHandler(),
		root.CreateUpdateCourierLocationCommandHandler(),
		root.CreateGetAssignmentByOrderQueryHandler(),
		root.CreateListCourierAssignmentsQueryHandler(),
	)
	server.RegisterRoutes(e)
	return e
}

func openDatabase(config cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&courierrepo.CourierDTO{}, &assignmentrepo.AssignmentDTO{}); err != nil {
		return nil, err
	}
	return db, nil
}

func getConfig(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("No .env file found, relying on process environment")
	}

	return cmd.Config{
		HTTPPort:           envOrDefault("HTTP_PORT", "8080"),
		DBHost:             envOrDefault("DB_HOST", "localhost"),
		DBPort:             envOrDefault("DB_PORT", "5432"),
		DBUser:             envOrDefault("DB_USER", "postgres"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             envOrDefault("DB_NAME", "dispatch"),
		DBSslMode:          envOrDefault("DB_SSLMODE", "disable"),
		MatchRadiusKm:      envFloat("MATCH_RADIUS_KM", 15),
		AvgSpeedKmh:        envFloat("AVG_SPEED_KMH", 30),
		DefaultDeliveryFee: envFloat("DEFAULT_DELIVERY_FEE", 2.5),
		StaleMaxAgeMin:     envInt("STALE_MAX_AGE_MIN", 10),
		NotifierBufferSize: envInt("NOTIFIER_BUFFER_SIZE", 256),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
