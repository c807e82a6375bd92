package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	api "github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/images"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

const usage = `usage: portfolio-backend [command]

commands:
  serve             run the HTTP API (default)
  migrate           create or update the database schema
  seed              load the sample profile, skills, projects and experience
  create-admin      create the admin account from ADMIN_EMAIL / ADMIN_PASSWORD
  reconcile-images  sync the image table with the object store (IMAGE_FOLDER, default portfolio)`

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	ctx := context.Background()
	env := config.New()
	if merged, err := config.LoadSSM(ctx, env); err != nil {
		fmt.Printf("Warning: Error loading SSM parameters: %v\n", err)
	} else if merged > 0 {
		fmt.Printf("Loaded %d parameters from SSM\n", merged)
	}
	cfg := config.Load(env)

	setupLogging(cfg)

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	log.Info().Str("command", command).Str("dbType", cfg.Database.Type).Msg("Initializing app...")

	db, err := database.Open(cfg.Database, database.NewGormLogger(gormLogLevel(cfg.LogLevel)))
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	store := database.New(db)
	defer store.Close()

	// If generating models, run generation and exit
	if strings.ToLower(env["GENERATE_MODELS"]) == "true" {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if env["GENERATE_COLUMN_REPORT"] == "true" {
		if _, err := models.GenerateColumnMismatchReport(db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		return
	}

	switch command {
	case "serve":
		err = serve(ctx, cfg, db, store)
	case "migrate":
		err = models.Migrate(db)
		if err == nil {
			log.Info().Msg("Migration complete")
		}
	case "seed":
		err = seed(ctx, db, store)
	case "create-admin":
		err = createAdmin(ctx, cfg, db, store)
	case "reconcile-images":
		err = reconcileImages(ctx, cfg, db, store, config.GetString(env, "IMAGE_FOLDER", images.DefaultFolder))
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Command failed")
	}
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func gormLogLevel(level string) logger.LogLevel {
	if strings.EqualFold(level, "debug") || strings.EqualFold(level, "trace") {
		return logger.Info
	}
	return logger.Warn
}

func serve(ctx context.Context, cfg config.Config, db *gorm.DB, store database.Database) error {
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	imageService, err := newImageService(ctx, cfg, store)
	if err != nil {
		return err
	}

	sessions, err := auth.NewSessionManager(cfg.Session.Secret, time.Duration(cfg.Session.MaxAgeHours)*time.Hour)
	if err != nil {
		return err
	}
	authenticator, err := auth.NewAuthenticator(store.UserRepo(), auth.NewHasher(auth.DefaultCost))
	if err != nil {
		return err
	}

	svc := api.Services{
		Database:      store,
		Images:        imageService,
		Sessions:      sessions,
		Authenticator: authenticator,
	}

	var notifier *services.ContactNotifier
	if mailer := services.NewMailer(cfg.Mail, &http.Client{Timeout: 10 * time.Second}); mailer != nil {
		notifier = services.NewContactNotifier(mailer, store.SettingsRepo(), store.ProfileRepo(), log.With().Str("component", "notifier").Logger())
		svc.Notifier = notifier
	} else {
		log.Info().Msg("RESEND_API_KEY not set, contact notifications disabled")
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		svc.Redis = client
	}

	errChannel := make(chan error)

	server, err := api.NewServer(cfg, svc)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	notifier.Wait()
	return nil
}

func newImageService(ctx context.Context, cfg config.Config, store database.Database) (*images.Service, error) {
	objectStore, err := images.NewStore(ctx, cfg.Images)
	if err != nil {
		return nil, fmt.Errorf("configure image store: %w", err)
	}
	return images.NewService(objectStore, store.ImageRepo(), log.With().Str("component", "images").Logger()), nil
}

func seed(ctx context.Context, db *gorm.DB, store database.Database) error {
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	report, err := services.NewSeeder(store, log.With().Str("component", "seeder").Logger()).Seed(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Int("projects", report.Projects).
		Int("skills", report.Skills).
		Int("experiences", report.Experiences).
		Msg("Database seeded")
	return nil
}

func createAdmin(ctx context.Context, cfg config.Config, db *gorm.DB, store database.Database) error {
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	user, created, err := services.EnsureAdmin(ctx, store.UserRepo(), auth.NewHasher(auth.DefaultCost), cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return err
	}
	if !created {
		log.Info().Str("email", user.Email).Msg("Admin user already exists")
		return nil
	}

	fmt.Println("Admin user created")
	fmt.Printf("  email:    %s\n", user.Email)
	fmt.Printf("  password: %s\n", cfg.Admin.Password)
	fmt.Println("Change the password after the first login.")
	return nil
}

func reconcileImages(ctx context.Context, cfg config.Config, db *gorm.DB, store database.Database, folder string) error {
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	imageService, err := newImageService(ctx, cfg, store)
	if err != nil {
		return err
	}
	report, err := imageService.Reconcile(ctx, folder)
	if err != nil {
		return err
	}
	log.Info().
		Str("folder", report.Folder).
		Int("scanned", report.Scanned).
		Int("upserted", report.Upserted).
		Int64("removed", report.Removed).
		Msg("Image mirror reconciled")
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
