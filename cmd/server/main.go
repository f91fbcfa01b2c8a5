package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"grouppass/config"
	"grouppass/internal/adapters/auth"
	"grouppass/internal/adapters/email"
	delivery "grouppass/internal/delivery/http"
	"grouppass/internal/delivery/http/controllers"
	"grouppass/internal/delivery/http/middleware"
	"grouppass/internal/repository/postgres"
	"grouppass/internal/services"
)

// @title GroupPass API
// @version 1.0
// @description Link-based group reservation and roster collection service.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	runner := postgres.NewTxRunner(db)

	hasher := auth.NewBcryptHasher(12)
	issuer, verifier := auth.NewJWTTokens(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	bookingService := services.NewBookingService(runner, cfg.BaseURL)
	inviteService := services.NewInviteService(runner, emailService, cfg.BaseURL, logger)
	rosterService := services.NewRosterService(runner, cfg.BaseURL)
	memberService := services.NewMemberService(runner)
	groupService := services.NewGroupService(runner)
	authService := services.NewAuthService(cfg.OperatorEmail, cfg.OperatorPasswordHash, hasher, issuer)

	mux := delivery.NewRouter(delivery.Controllers{
		Booking: controllers.NewBookingController(logger, bookingService),
		Invite:  controllers.NewInviteController(logger, inviteService),
		Roster:  controllers.NewRosterController(logger, rosterService),
		Member:  controllers.NewMemberController(logger, memberService),
		Group:   controllers.NewGroupController(logger, groupService),
		Auth:    controllers.NewAuthController(logger, authService),
	}, verifier)

	var origins []string
	for _, o := range strings.Split(cfg.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	handler := middleware.CORS(origins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
