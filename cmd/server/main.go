package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zebmuhammad/Student-Management-System/internal/config"
	"github.com/zebmuhammad/Student-Management-System/internal/db"
	"github.com/zebmuhammad/Student-Management-System/internal/logger"
	"github.com/zebmuhammad/Student-Management-System/internal/server"
	"github.com/zebmuhammad/Student-Management-System/internal/session"
	"github.com/zebmuhammad/Student-Management-System/internal/store"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	deps := server.Deps{Secret: cfg.SessionSecret}

	if config.ParseBool("MONGO_DISABLED", false) {
		// Dev mode without a database: everything lives in process memory.
		logger.Warn().Msg("MONGO_DISABLED set; using in-memory stores")
		deps.Students = store.NewMemoryStudentStore()
		deps.Users = store.NewMemoryUserStore()
		deps.Sessions = session.NewMemoryStore()
	} else {
		database, err := db.Connect(context.Background(), cfg.MongoURI, cfg.DBName)
		if err != nil {
			logger.Fatal().Err(err).Msg("database connection failed")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := db.EnsureIndexes(ctx, database); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("index bootstrap failed")
		}
		cancel()
		deps.Students = store.NewMongoStudentStore(database)
		deps.Users = store.NewMongoUserStore(database)
		deps.Sessions = session.NewMongoStore(database)
		deps.HealthCheck = func(ctx context.Context) error {
			return database.Client().Ping(ctx, readpref.Primary())
		}
		defer func() {
			_ = database.Client().Disconnect(context.Background())
		}()
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server.New(deps)}

	go func() {
		logger.Info().Str("env", cfg.Env).Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	logger.Info().Msg("server stopped")
}
