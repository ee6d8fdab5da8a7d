package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/messenger"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	roleRepo := database.NewRoleRepository(db)

	// 2. Gateways and adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	messengerClient := messenger.NewClient(
		os.Getenv("MESSENGER_API_KEY"),
		envOr("MESSENGER_URL", "https://api.messenger.example.com"),
	)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		envOr("MAIL_FROM", "no-reply@ligue-crm.com"),
		os.Getenv("SALES_ALERT_INBOX"),
	)

	// 3. Use cases. The privileged account is configuration, never a
	// source literal.
	resolver := usecase.NewResolveRoleUseCase(roleRepo, os.Getenv("ADMIN_USER_ID"))
	engine := usecase.NewAutomationEngine(leadRepo, mailSender, envDurationOr("FOLLOW_UP_DELAY", 48*time.Hour))
	transitionUC := usecase.NewRequestManualTransitionUseCase(leadRepo, resolver)
	intakeUC := usecase.NewIntakeLeadUseCase(leadRepo, resolver)
	exportUC := usecase.NewExportLeadsUseCase(leadRepo, resolver)
	deleteUC := usecase.NewDeleteLeadsUseCase(leadRepo, resolver)
	summaryUC := usecase.NewDashboardSummaryUseCase(leadRepo)
	messageUC := usecase.NewSendLeadMessageUseCase(leadRepo, resolver, messengerClient, producer)

	// 4. Background workers
	triggerWorker := queue.NewWorker(rabbitMQ.Ch, engine)
	go triggerWorker.Start(queue.QueueName)

	inactivity := worker.NewInactivityWorker(leadRepo, resolver, producer,
		envDurationOr("INACTIVITY_WINDOW", 7*24*time.Hour))
	go inactivity.Start(context.Background())

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(intakeUC, exportUC, deleteUC, leadRepo)
	transitionHandler := handlers.NewTransitionHandler(transitionUC)
	messageHandler := handlers.NewMessageHandler(messageUC)
	webhookHandler := handlers.NewWebhookHandler(leadRepo, resolver, producer)
	dashboardHandler := handlers.NewDashboardHandler(summaryUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-ID"},
	}))

	r.Post("/leads", leadHandler.Capture)
	r.Get("/leads", leadHandler.Board)
	r.Get("/leads/export", leadHandler.ExportCSV)
	r.Delete("/leads/{leadId}", leadHandler.Delete)
	r.Post("/leads/bulk-delete", leadHandler.BulkDelete)
	r.Post("/leads/{leadId}/transition", transitionHandler.Handle)
	r.Post("/leads/{leadId}/message", messageHandler.Handle)
	r.Post("/webhook/messaging", webhookHandler.Handle)
	r.Get("/dashboard/summary", dashboardHandler.HandleSummary)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Printf("CRM pipeline API listening on %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid %s, using %s", key, fallback)
	}
	return fallback
}
