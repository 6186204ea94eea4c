package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abdalla-ayman/tailor-frontend/internal/config"
	"github.com/abdalla-ayman/tailor-frontend/internal/handlers"
	"github.com/abdalla-ayman/tailor-frontend/internal/middleware"
	"github.com/abdalla-ayman/tailor-frontend/internal/session"
	"github.com/abdalla-ayman/tailor-frontend/internal/tailor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Session init: load the persisted token, then try to resolve the user
	// behind it. A dead token just means the console starts logged out.
	sess, err := session.New(session.NewFileTokenStore(cfg.TokenPath))
	if err != nil {
		slog.Error("failed to initialize session", "error", err)
		os.Exit(1)
	}

	apiClient := tailor.NewClient(cfg.APIBaseURL, sess)
	err = apiClient.RetryWithBackoff(func() error {
		return sess.Resolve(apiClient)
	}, 3)
	if err != nil {
		slog.Warn("could not resolve stored session", "error", err)
	}

	authHandler := handlers.NewAuthHandler(apiClient, sess)
	customersHandler := handlers.NewCustomersHandler(apiClient, sess)
	ordersHandler := handlers.NewOrdersHandler(apiClient, sess)
	accountsHandler := handlers.NewAccountsHandler(apiClient, sess)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", handlers.HealthHandler)
	router.POST("/login", authHandler.Login)

	api := router.Group("/api")
	api.Use(middleware.RequireSession(sess))

	api.POST("/logout", authHandler.Logout)
	api.GET("/me", authHandler.Me)

	api.GET("/customers", customersHandler.List)
	api.GET("/customers/:id", customersHandler.Get)
	api.POST("/customers", customersHandler.Create)
	api.PUT("/customers/:id", customersHandler.Update)
	api.DELETE("/customers/:id", customersHandler.Delete)

	api.GET("/orders", ordersHandler.List)
	api.GET("/orders/:id", ordersHandler.Get)
	api.POST("/orders", ordersHandler.Create)
	api.PATCH("/orders/:id", ordersHandler.Update)
	api.DELETE("/orders/:id", ordersHandler.Delete)

	// Administrative affordances: user management and the Excel
	// export/import are super-admin only.
	admin := api.Group("")
	admin.Use(middleware.RequireSuperAdmin(sess))
	admin.GET("/customers/export", customersHandler.Export)
	admin.POST("/customers/import", customersHandler.Import)
	admin.GET("/accounts", accountsHandler.List)
	admin.POST("/accounts", accountsHandler.Create)
	admin.PATCH("/accounts/:id", accountsHandler.Update)
	admin.DELETE("/accounts/:id", accountsHandler.Delete)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("console starting", "port", cfg.Port, "api", cfg.APIBaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
}
