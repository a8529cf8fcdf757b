package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/pollspark/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollspark/internal/config"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/services"
	"github.com/vncsmyrnk/pollspark/internal/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(os.Getenv("LOG_LEVEL"))
	defer log.Sync()

	var dbHost, dbPort, dbUser, dbPass, dbName, dbSSLMode, pollID string
	var timeout time.Duration

	flag.StringVar(&dbHost, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	flag.StringVar(&dbPort, "db-port", os.Getenv("POSTGRES_PORT"), "Database port")
	flag.StringVar(&dbUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	flag.StringVar(&dbPass, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	flag.StringVar(&dbName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	flag.StringVar(&dbSSLMode, "db-sslmode", getEnv("POSTGRES_SSLMODE", "disable"), "Database sslmode")
	flag.StringVar(&pollID, "poll", "", "Only report this poll id")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Job timeout")
	flag.Parse()

	dsn := config.DatabaseConfig{
		URL:      os.Getenv("DATABASE_URL"),
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPass,
		DBName:   dbName,
		SSLMode:  dbSSLMode,
	}.DSN()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	resultsService := services.NewResultsService(postgres.NewPollRepository(db))

	var report []domain.PollResults
	if pollID != "" {
		id, err := uuid.Parse(pollID)
		if err != nil {
			log.Fatal("invalid poll id", zap.String("poll", pollID), zap.Error(err))
		}
		res, err := resultsService.GetResults(ctx, id)
		if err != nil {
			log.Fatal("computing results", zap.String("poll", pollID), zap.Error(err))
		}
		report = append(report, *res)
	} else {
		log.Info("computing results for all polls")
		report, err = resultsService.SummarizeAll(ctx)
		if err != nil {
			log.Fatal("computing results", zap.Error(err))
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal("writing report", zap.Error(err))
	}

	log.Info("results computed", zap.Int("polls", len(report)))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
