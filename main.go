package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bistroboard/config"
	"bistroboard/handlers"
	"bistroboard/logs"
	"bistroboard/mailer"
	"bistroboard/middleware"
	"bistroboard/routes"
	"bistroboard/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logs.New(logs.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})

	db, err := config.OpenDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	log.Info("database connected and migrated")

	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	mail := mailer.New(db, log, mailer.Config{
		Enabled:   cfg.Email.Enabled,
		APIKey:    cfg.Email.APIKey,
		Endpoint:  cfg.Email.Endpoint,
		FromEmail: cfg.Email.FromEmail,
	})
	h := handlers.New(db, log, tokens, mail)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(middleware.RequestID())

	// CORS for the frontend
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "BistroBoard API",
			"version": "1.0.0",
		})
	})

	routes.Setup(r, db, tokens, h)

	srv := &http.Server{
		Addr:    cfg.Server.Address + ":" + cfg.Server.HTTPPort,
		Handler: r,
	}

	go func() {
		log.Infof("server running on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Teardown: close the HTTP server, then the shared connection pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("forced shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
