package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"bank-risk-service/internal/config"
	"bank-risk-service/internal/handler"
	"bank-risk-service/internal/integrations/cbr"
	"bank-risk-service/internal/metrics"
	"bank-risk-service/internal/middleware"
	"bank-risk-service/internal/repository"
	"bank-risk-service/internal/service"
	"bank-risk-service/internal/utils"
	"bank-risk-service/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	collector := metrics.NewCollector()
	cbrClient := cbr.NewClient(cfg.CBRURL, logger)

	var mailer *email.Sender
	if cfg.SMTPHost != "" && cfg.SenderEmail != "" {
		mailer = email.NewSender(cfg, logger)
	} else {
		logger.Warn("SMTP not configured, escalation emails disabled")
	}

	clientSvc := service.NewClientService(repo, logger)
	cardSvc := service.NewCardService(repo, utils.NewCardNumberGenerator(nil), cbrClient, collector, logger)
	operationSvc := service.NewOperationService(repo, cardSvc, collector, logger)
	fraudSvc := newFraudService(repo, cardSvc, mailer, collector, logger)
	reportSvc := service.NewReportService(repo, repo)
	authSvc := service.NewAuthService(repo, cfg, logger)

	h := handler.NewHandler(clientSvc, cardSvc, operationSvc, fraudSvc, reportSvc, authSvc, logger)

	// Schedule the periodic fraud sweep
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.FraudSweepSpec, func() {
		fraudSvc.Sweep(context.Background())
	}); err != nil {
		logger.Fatalf("Failed to schedule fraud sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", collector.Handler()).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/clients", h.CreateClient).Methods("POST")
	authRouter.HandleFunc("/clients", h.ListClients).Methods("GET")
	authRouter.HandleFunc("/clients/{id}", h.GetClient).Methods("GET")
	authRouter.HandleFunc("/clients/{id}", h.UpdateClient).Methods("PUT")
	authRouter.HandleFunc("/clients/{id}", h.DeleteClient).Methods("DELETE")
	authRouter.HandleFunc("/clients/{id}/cards", h.ListClientCards).Methods("GET")

	authRouter.HandleFunc("/cards", h.CreateCard).Methods("POST")
	authRouter.HandleFunc("/cards", h.ListCards).Methods("GET")
	authRouter.HandleFunc("/cards/{id}", h.GetCard).Methods("GET")
	authRouter.HandleFunc("/cards/{id}", h.DeleteCard).Methods("DELETE")
	authRouter.HandleFunc("/cards/{id}/activate", h.ActivateCard).Methods("POST")
	authRouter.HandleFunc("/cards/{id}/suspend", h.SuspendCard).Methods("POST")
	authRouter.HandleFunc("/cards/{id}/block", h.BlockCard).Methods("POST")
	authRouter.HandleFunc("/cards/{id}/verify-limit", h.VerifyLimit).Methods("POST")
	authRouter.HandleFunc("/cards/{id}/analyze", h.AnalyzeCard).Methods("POST")
	authRouter.HandleFunc("/cards/{id}/operations", h.ListCardOperations).Methods("GET")
	authRouter.HandleFunc("/cards/{id}/alerts", h.ListCardAlerts).Methods("GET")

	authRouter.HandleFunc("/operations", h.RecordOperation).Methods("POST")
	authRouter.HandleFunc("/operations", h.ListOperations).Methods("GET")
	authRouter.HandleFunc("/operations/{id}", h.GetOperation).Methods("GET")
	authRouter.HandleFunc("/operations/{id}", h.DeleteOperation).Methods("DELETE")

	authRouter.HandleFunc("/alerts", h.CreateAlert).Methods("POST")
	authRouter.HandleFunc("/alerts", h.ListAlerts).Methods("GET")
	authRouter.HandleFunc("/alerts/critical", h.ListCriticalAlerts).Methods("GET")
	authRouter.HandleFunc("/alerts/{id}", h.DeleteAlert).Methods("DELETE")

	authRouter.HandleFunc("/reports/top-cards", h.TopCards).Methods("GET")
	authRouter.HandleFunc("/reports/monthly", h.MonthlyReport).Methods("GET")
	authRouter.HandleFunc("/reports/status-cards", h.StatusCards).Methods("GET")
	authRouter.HandleFunc("/reports/total", h.PeriodTotal).Methods("GET")
	authRouter.HandleFunc("/reports/average", h.AverageAmount).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}

// newFraudService keeps the fraud wiring in one place; a nil mailer disables
// escalation emails.
func newFraudService(repo *repository.Repository, cards *service.CardService, mailer *email.Sender, collector *metrics.Collector, logger *logrus.Logger) *service.FraudService {
	if mailer == nil {
		return service.NewFraudService(repo, repo, cards, repo, repo, nil, collector, logger)
	}
	return service.NewFraudService(repo, repo, cards, repo, repo, mailer, collector, logger)
}
