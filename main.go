package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"hotel-manager/config"
	"hotel-manager/controllers"
	"hotel-manager/routes"
	"hotel-manager/services"
)

func main() {
	flags := pflag.NewFlagSet("hotel-manager", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file to load before reading the environment")
	addr := flags.String("addr", "", "listen address (default \":$PORT\")")
	seed := flags.Bool("seed", true, "create the default admin and rooms when missing")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("❌ %v", err)
	}

	// Load .env (optional)
	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("⚠️  %s not found or couldn't load it; continuing with environment variables", *envFile)
	}

	cfg := config.Load()
	if cfg.UsingDefaultSecret() {
		log.Println("⚠️  JWT_SECRET is not set; using the built-in development secret")
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Printf("✅ Database (%s) connected and migrated.", cfg.DBDriver)

	if *seed {
		if err := config.SeedDatabase(db, cfg); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	var sessions services.SessionStore = services.NoopSessionStore{}
	if rdb := config.NewRedisClient(cfg); rdb != nil {
		defer rdb.Close()
		sessions = services.NewRedisSessionStore(rdb, cfg.LoginLimit, cfg.LoginWindow)
		log.Println("✅ Redis connected; token revocation and login throttling enabled.")
	}

	var notifier services.Notifier
	switch cfg.Notifier {
	case "smtp":
		notifier = services.NewSMTPNotifier(cfg.SMTP)
	case "amqp":
		notifier = services.NewAMQPNotifier(cfg.RabbitMQURL)
	default:
		notifier = services.LogNotifier{}
	}

	// Initialize services
	authService := services.NewAuthService(db, cfg.Auth(), sessions)
	roomService := services.NewRoomService(db)
	bookingService := services.NewBookingService(db, notifier)
	reportService := services.NewReportService(db)

	router := routes.SetupRouter(routes.Controllers{
		Auth:     controllers.NewAuthController(authService),
		Rooms:    controllers.NewRoomController(roomService),
		Bookings: controllers.NewBookingController(bookingService),
		Reports:  controllers.NewReportController(reportService),
	}, authService, routes.Options{
		CorsOrigins: cfg.CorsOrigins,
		UploadDir:   cfg.UploadDir,
	})

	listen := *addr
	if listen == "" {
		listen = ":" + cfg.Port
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}
	bookingService.Wait()

	log.Println("✅ Server stopped gracefully")
}
