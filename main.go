package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SpicyTech2823/Car-rental/applications/admin"
	"github.com/SpicyTech2823/Car-rental/applications/auth"
	"github.com/SpicyTech2823/Car-rental/applications/booking"
	"github.com/SpicyTech2823/Car-rental/applications/car"
	"github.com/SpicyTech2823/Car-rental/applications/contact"
	"github.com/SpicyTech2823/Car-rental/applications/feedback"
	"github.com/SpicyTech2823/Car-rental/applications/mailer"
	"github.com/SpicyTech2823/Car-rental/applications/user"
	"github.com/SpicyTech2823/Car-rental/applications/wizard"
	"github.com/SpicyTech2823/Car-rental/config"
	"github.com/SpicyTech2823/Car-rental/controllers"
	"github.com/SpicyTech2823/Car-rental/db"
	"github.com/SpicyTech2823/Car-rental/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logFile, err := logger.SetOutputFile(cfg.LogFile)
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}

	err = run(cfg)
	logFile.Close()
	if err != nil {
		os.Exit(1)
	}
}

// run owns every resource after the logger, so its defers always fire
// before main decides the exit code.
func run(cfg *config.Config) error {
	// --- INITIAL STARTUP LOGGING ---
	logger.Log.Info("[main] program started")
	appLog := logger.Log

	// --- DATABASE CONNECTION LOGGING ---
	logger.Log.Info("[main] Attempting to connect to PostgreSQL...")
	conn, err := db.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Log.Error(fmt.Sprintf("[main] Database connection failed: %v", err))
		return err
	}
	defer conn.Close()

	if err := db.RunMigrations(conn); err != nil {
		logger.Log.Error(fmt.Sprintf("[main] Database migration failed: %v", err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- REPOSITORIES ---
	cars := car.NewSQLRepository(conn)
	bookings := booking.NewSQLRepository(conn)
	reviews := feedback.NewSQLRepository(conn)
	users := user.NewSQLRepository(conn)
	authStore := auth.NewSQLStore(conn)

	if cfg.SeedCatalog {
		if _, err := car.NewSeedCatalogUC(appLog, cars).Invoke(ctx); err != nil {
			logger.Log.Error(fmt.Sprintf("[main] Catalog seeding failed: %v", err))
		}
	}

	// --- SERVICES ---
	mail := mailer.NewResendClient(cfg.ResendAPIKey, cfg.MailFrom)
	authSvc := auth.NewService(appLog, users, authStore, authStore, authStore, mail, auth.Options{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		SiteURL:    cfg.SiteURL,
	})

	wizards := wizard.NewStore(appLog, cars, booking.NewCreateBookingUC(appLog, bookings), booking.NewSendInvoiceUC(appLog, mail), cfg.WizardIdleTimeout)
	unsubscribe := authSvc.OnAuthStateChange(wizards.HandleAuthEvent)
	defer unsubscribe()
	go wizards.RunJanitor(ctx, time.Minute)

	gate := admin.NewGate(appLog, authSvc, admin.NewSQLMembership(conn))

	router := &controllers.Router{
		Sessions: authSvc,
		Gate:     gate,
		Auth:     controllers.NewAuthController(appLog, authSvc),
		Admin: controllers.NewAdminController(appLog,
			admin.NewDashboardUC(appLog, gate, cars, bookings, reviews),
			admin.NewResolveAdminRouteUC(appLog, gate)),
		Cars:     controllers.NewCarController(appLog, cars),
		Bookings: controllers.NewBookingController(appLog, bookings),
		Feedback: controllers.NewFeedbackController(appLog, reviews, cars),
		Wizard:   controllers.NewWizardController(appLog, wizards),
		Contact:  controllers.NewContactController(appLog, contact.NewRelay(appLog, cfg.FormRelayURL, cfg.FormRelayKey)),
	}

	e := echo.New()
	e.HideBanner = true

	// Global Middleware: Logger, Recover and CORS for the web client.
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	router.Register(e)

	serveErr := make(chan error, 1)
	go func() {
		logger.Log.Info(fmt.Sprintf("[main] Starting Echo server on :%s", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error(fmt.Sprintf("[main] Server stopped: %v", err))
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("[main] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error(fmt.Sprintf("[main] Graceful shutdown failed: %v", err))
		return err
	}

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}
