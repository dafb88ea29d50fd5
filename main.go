package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/portfolio-content-backend/api"
	"github.com/rpupo63/portfolio-content-backend/auth"
	"github.com/rpupo63/portfolio-content-backend/catalog"
	"github.com/rpupo63/portfolio-content-backend/config"
	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/dataservice"
	"github.com/rpupo63/portfolio-content-backend/services"
	"github.com/rpupo63/portfolio-content-backend/storage"
)

func main() {
	c := config.Load()
	setupLogging(c)
	log.Info().Msg("Initializing app...")

	ctx := context.Background()

	c, err := config.LoadSSM(ctx, c)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load parameters from SSM, continuing with environment")
	}

	log.Info().Str("dbType", config.GetString(c, "DB_TYPE", "supa")).Msg("Connecting to database...")
	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating query helpers, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating query helpers...")
		if err := database.GenerateQueries(db, config.GetString(c, "GENERATE_OUT_PATH", "./generated")); err != nil {
			log.Fatal().Err(err).Msg("Error generating query helpers")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if err := database.PrintColumnReport(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		return
	}

	if config.GetBool(c, "AUTO_MIGRATE", false) {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}

	var assets dataservice.AssetStore
	if s3Store, err := storage.NewS3Store(ctx, c); err != nil {
		log.Warn().Err(err).Msg("Asset storage disabled")
	} else {
		assets = s3Store
	}

	var authenticator *auth.Authenticator
	if provider, err := auth.NewSupabaseProvider(c); err != nil {
		log.Warn().Err(err).Msg("Sign-in disabled")
	} else {
		authenticator = auth.NewAuthenticator(provider, config.GetString(c, "SUPABASE_SESSION_TOKEN", ""))
	}

	backend := dataservice.NewBackend(database.New(db), assets, authenticator,
		dataservice.WithTimeout(config.GetDuration(c, "DATA_SERVICE_TIMEOUT_SECONDS", 15, time.Second)))

	store := content.New(backend, content.WithBucket(config.GetString(c, "STORAGE_BUCKET", content.DefaultBucket)))
	defer store.Close()
	store.Bootstrap(ctx)

	projectCatalog := catalog.New()
	projectCatalog.Watch(store)
	defer projectCatalog.Close()

	notifier := services.NewContactNotifierFromConfig(c, store.ContactInfo().Email)
	if !notifier.Enabled() {
		log.Warn().Msg("No contact notification channel configured, contact messages will be rejected")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, store, projectCatalog, notifier)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogging applies LOG_LEVEL and switches to console output when LOG_PRETTY is set.
func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetBool(c, "LOG_PRETTY", false) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-ch)
}
