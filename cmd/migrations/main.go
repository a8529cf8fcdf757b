package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/pollspark/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollspark/internal/config"
	"github.com/vncsmyrnk/pollspark/internal/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(os.Getenv("LOG_LEVEL"))
	defer log.Sync()

	var dbHost, dbPort, dbUser, dbPass, dbName, dbSSLMode string

	flag.StringVar(&dbHost, "db-host", getEnv("POSTGRES_HOST", "localhost"), "Database host")
	flag.StringVar(&dbPort, "db-port", getEnv("POSTGRES_PORT", "5432"), "Database port")
	flag.StringVar(&dbUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	flag.StringVar(&dbPass, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	flag.StringVar(&dbName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	flag.StringVar(&dbSSLMode, "db-sslmode", getEnv("POSTGRES_SSLMODE", "disable"), "Database sslmode")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] up|down\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	direction := flag.Arg(0)
	if direction != "up" && direction != "down" {
		flag.Usage()
		os.Exit(2)
	}

	dsn := config.DatabaseConfig{
		URL:      os.Getenv("DATABASE_URL"),
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPass,
		DBName:   dbName,
		SSLMode:  dbSSLMode,
	}.DSN()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	switch direction {
	case "up":
		err = postgres.Migrate(ctx, db)
	case "down":
		err = postgres.Rollback(ctx, db)
	}
	if err != nil {
		log.Fatal("migration failed", zap.String("direction", direction), zap.Error(err))
	}

	log.Info("migrations executed successfully", zap.String("direction", direction))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
