package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/txn-atlas/pkg/handlers/dashboard"
	"github.com/de-tools/txn-atlas/pkg/metrics"
	"github.com/de-tools/txn-atlas/pkg/server"
	"github.com/de-tools/txn-atlas/pkg/store/artifacts"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/analytics"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/segments"
)

var (
	dbPath string
	outDir string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the dashboard API server for Transaction Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVar(&dbPath, "db", "txn-atlas.db",
		"Path to the DuckDB database the pipeline writes to")
	rootCmd.Flags().StringVar(&outDir, "out", "out",
		"Directory holding the JSON artifacts")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	defer db.Close()

	segmentStore, err := segments.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create segment store: %w", err)
	}
	analyticsStore, err := analytics.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create analytics store: %w", err)
	}
	artifactStore, err := artifacts.NewStore(outDir)
	if err != nil {
		return fmt.Errorf("failed to create artifact store: %w", err)
	}

	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Dashboard: dashboard.NewHandler(segmentStore, analyticsStore, artifactStore),
			Registry:  registry,
		},
	})

	return webAPI.Start()
}
