package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/nasermirzaei89/env"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/lookids/lookids/commentread"
	"github.com/lookids/lookids/comments"
	"github.com/lookids/lookids/db/mongodb"
	"github.com/lookids/lookids/db/sqlite3"
	"github.com/lookids/lookids/events/membus"
	"github.com/lookids/lookids/favorites"
	"github.com/lookids/lookids/profiles"
)

type App struct {
	CommentsSvc  *comments.Service
	QuerySvc     *commentread.QueryService
	ProfilesSvc  *profiles.Service
	PetsSvc      *profiles.PetService
	FavoritesSvc *favorites.Service
	Reconciler   *commentread.Reconciler

	stopProjector func()
	db            *sql.DB
	mongoClient   *mongo.Client
}

func NewApp(ctx context.Context) (*App, error) {
	db, err := sqlite3.NewDB(ctx, env.GetString("DB_DSN", "file::memory:?cache=shared"))
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	err = sqlite3.MigrateUp(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	mongoClient, err := mongodb.NewClient(ctx, env.GetString("MONGO_URI", "mongodb://localhost:27017"))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb connection: %w", err)
	}

	readDB := mongoClient.Database(env.GetString("MONGO_DB", "lookids"))

	bus := membus.NewBus()

	commentRepo := sqlite3.NewCommentRepository(db)
	userProfileRepo := sqlite3.NewUserProfileRepository(db)
	petProfileRepo := sqlite3.NewPetProfileRepository(db)
	favoriteRepo := sqlite3.NewFavoriteRepository(db)
	commentReadRepo := mongodb.NewCommentReadRepository(readDB)

	projector := commentread.NewProjector(commentReadRepo)
	stopProjector := projector.Start(bus)

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

	app := &App{
		CommentsSvc:   comments.NewService(commentRepo, bus),
		QuerySvc:      commentread.NewQueryService(commentReadRepo),
		ProfilesSvc:   profiles.NewService(userProfileRepo, bus, rng),
		PetsSvc:       profiles.NewPetService(petProfileRepo, bus),
		FavoritesSvc:  favorites.NewService(favoriteRepo, bus),
		Reconciler:    commentread.NewReconciler(commentRepo, commentReadRepo),
		stopProjector: stopProjector,
		db:            db,
		mongoClient:   mongoClient,
	}

	return app, nil
}

// Run blocks until the context is cancelled or an interrupt arrives,
// keeping the event projection alive. The request surface is mounted by
// the deployment's controller layer, which consumes the services
// directly.
func (app *App) Run(ctx context.Context) error {
	// Handle SIGINT (CTRL+C) gracefully.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	defer app.stopProjector()

	defer func() {
		if app.db != nil {
			err := app.db.Close()
			if err != nil {
				slog.ErrorContext(ctx, "failed to close database", "error", err)
			}
		}

		if app.mongoClient != nil {
			err := app.mongoClient.Disconnect(context.Background())
			if err != nil {
				slog.ErrorContext(ctx, "failed to disconnect mongodb", "error", err)
			}
		}
	}()

	slog.InfoContext(ctx, "comment projection running")

	<-ctx.Done()

	return nil
}

func GetLogLevelFromEnv() slog.Level {
	levelStr := env.GetString("LOG_LEVEL", "info")
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("unknown log level, defaulting to info", "level", levelStr)

		return slog.LevelInfo
	}
}
