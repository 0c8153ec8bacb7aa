package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/StrayFurther/TimeTrack/internal/config"
	"github.com/StrayFurther/TimeTrack/internal/handler"
	"github.com/StrayFurther/TimeTrack/internal/repository"
	"github.com/StrayFurther/TimeTrack/internal/service"
	"github.com/StrayFurther/TimeTrack/internal/signing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	pics, err := service.NewProfilePicStore(cfg.ProfilePicDir)
	if err != nil {
		slog.Error("profile picture storage unavailable", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo, pics, cfg.JWTSecret)
	userHandler := handler.NewUserHandler(userService)

	router := handler.NewRouter(userHandler, handler.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		Verifier:       signing.NewVerifier(cfg.ClientSecret),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
