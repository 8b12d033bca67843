package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tacosmaster/taqueria-api/internal/catalog"
	"github.com/tacosmaster/taqueria-api/internal/config"
	"github.com/tacosmaster/taqueria-api/internal/handlers"
	"github.com/tacosmaster/taqueria-api/internal/kitchen"
	"github.com/tacosmaster/taqueria-api/internal/middleware"
	"github.com/tacosmaster/taqueria-api/internal/notify"
	"github.com/tacosmaster/taqueria-api/internal/service"
	"github.com/tacosmaster/taqueria-api/internal/store"
	"github.com/tacosmaster/taqueria-api/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting taqueria ordering api",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Static menu reference data
	menu := catalog.Default()

	// Durable store plus its change stream
	hub := store.NewHub()
	var orderStore store.OrderStore
	if cfg.Database.DSN != "" {
		gormStore, err := store.OpenGorm(cfg.Database.DSN, hub)
		if err != nil {
			log.Error("failed to connect to mysql", "error", err)
			os.Exit(1)
		}
		orderStore = gormStore
		log.Info("using mysql order store")
	} else {
		orderStore = store.NewMemory(hub)
		log.Warn("MYSQL_DSN not set, using in-memory order store")
	}

	// Notification side channel (best effort)
	var notifier service.Notifier
	if cfg.Mail.APIURL != "" {
		notifier = notify.NewEmailNotifier(cfg.Mail, cfg.Business)
		log.Info("order email notifications enabled", "to", cfg.Mail.To)
	}

	// Services
	orderService := service.NewOrderService(orderStore, menu, notifier, cfg.Business.DeliveryFee, log)

	// Kitchen board synchronizer
	syncCtx, syncCancel := context.WithCancel(context.Background())
	defer syncCancel()

	board := kitchen.New(orderStore, hub, log)
	board.OnNewOrders(func(delta int) {
		log.Info("new orders on the board", "count", delta)
	})
	board.Start(syncCtx)
	defer board.Stop()

	// Session-scoped carts
	sessions := handlers.NewSessions()

	// Handlers
	healthHandler := handlers.NewHealthHandler(log)
	catalogHandler := handlers.NewCatalogHandler(menu, log)
	cartHandler := handlers.NewCartHandler(sessions, menu, log)
	checkoutHandler := handlers.NewCheckoutHandler(sessions, orderService, cfg.Business.WhatsAppNumber, log)
	authHandler := handlers.NewAuthHandler(cfg.Auth, log)
	kitchenHandler := handlers.NewKitchenHandler(board, orderService, hub, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(60 * time.Second))

			// Catalog endpoints
			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{productID}", catalogHandler.GetProduct)
			r.Get("/pickup-times", catalogHandler.ListPickupTimes)

			// Cart endpoints
			r.Get("/cart", cartHandler.GetCart)
			r.Delete("/cart", cartHandler.ClearCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{productID}", cartHandler.UpdateItem)
			r.Delete("/cart/items/{productID}", cartHandler.RemoveItem)
			r.Post("/cart/open", cartHandler.OpenCart)
			r.Post("/cart/close", cartHandler.CloseCart)

			// Checkout
			r.Post("/checkout", checkoutHandler.Checkout)

			// Kitchen login
			r.Post("/kitchen/login", authHandler.Login)

			// Staff endpoints behind the PIN session gate
			r.Group(func(r chi.Router) {
				r.Use(middleware.KitchenAuth(cfg.Auth))
				r.Get("/kitchen/orders", kitchenHandler.ListOrders)
				r.Post("/kitchen/orders/{orderID}/advance", kitchenHandler.Advance)
				r.Post("/kitchen/orders/{orderID}/cancel", kitchenHandler.Cancel)
				r.Post("/kitchen/refresh", kitchenHandler.Refresh)
			})
		})

		// The SSE feed is long-lived, so it lives outside the timeout
		// group.
		r.Group(func(r chi.Router) {
			r.Use(middleware.KitchenAuth(cfg.Auth))
			r.Get("/kitchen/orders/stream", kitchenHandler.Stream)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	// WriteTimeout stays off so the event stream can run for as long
	// as a kitchen tab stays open; regular routes are covered by the
	// timeout middleware instead.
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
