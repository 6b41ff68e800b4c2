package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookConsultationHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/book_consultation"
	createBlockedDateHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/create_blocked_date"
	createCaseHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/create_case"
	deleteBlockedDateHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/delete_blocked_date"
	getAvailabilityHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_available_slots"
	getBlockedDatesHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_blocked_dates"
	getCaseHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_case"
	getExpertBookingsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_expert_bookings"
	listCasesHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/list_cases"
	updateAvailabilityHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/update_availability"
	updateCaseStatusHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/update_case_status"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/config"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	casesRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/cases"
	scheduleRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/meeting"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	casesService "github.com/m04kA/SMC-ConsultationService/internal/service/cases"
	scheduleService "github.com/m04kA/SMC-ConsultationService/internal/service/schedule"
	bookConsultationUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/book_consultation"
	createCaseUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_case"
	getAvailableSlotsUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/txmanager"
	"github.com/m04kA/SMC-ConsultationService/pkg/validation"
)

// Notifications объединяет оба вида писем, чтобы выбрать реализацию один раз
type Notifications interface {
	bookConsultationUC.Notifier
	createCaseUC.Notifier
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONSULT_CONFIG"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ConsultationService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Slots.Location()
	if err != nil {
		log.Fatal("Invalid slots timezone: %v", err)
	}

	// Метрики опциональны: nil-метрики безопасны для всех вызовов
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	casesRepository := casesRepo.NewRepository(wrappedDB)

	// Инициализируем интеграции
	var meetings bookConsultationUC.MeetingProvider
	switch cfg.Meeting.Provider {
	case config.MeetingProviderHTTP:
		meetings = meeting.NewClient(cfg.Meeting.ServiceURL, time.Duration(cfg.Meeting.Timeout)*time.Second, log)
		log.Info("Meeting provider: http (url=%s, timeout=%ds)", cfg.Meeting.ServiceURL, cfg.Meeting.Timeout)
	default:
		meetings = meeting.NewBuiltin(cfg.Meeting.BaseURL)
		log.Info("Meeting provider: builtin (base_url=%s)", cfg.Meeting.BaseURL)
	}

	var notifications Notifications = notifier.Noop{}
	if cfg.Notifications.Enabled {
		notifications = notifier.NewSMTP(
			cfg.Notifications.SMTPHost,
			cfg.Notifications.SMTPPort,
			cfg.Notifications.SMTPUser,
			cfg.Notifications.SMTPPass,
			cfg.Notifications.From,
			log,
		)
		log.Info("Email notifications enabled (smtp=%s:%d)", cfg.Notifications.SMTPHost, cfg.Notifications.SMTPPort)
	}

	validator := validation.New()

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(scheduleRepository, validator, txMgr, log)
	casesSvc := casesService.NewService(casesRepository, bookingRepository, txMgr, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		getAvailableSlotsUC.Config{
			Location:        location,
			DefaultExpertID: cfg.Slots.DefaultExpertID,
			MaxDays:         cfg.Slots.MaxDays,
			Options: getAvailableSlotsUC.Options{
				HidePastSlotsToday: cfg.Slots.HidePastSlotsToday,
				MinNoticeMinutes:   cfg.Slots.MinBookingNoticeMinutes,
			},
		},
		log,
	)

	bookConsultationUseCase := bookConsultationUC.NewUseCase(
		bookingRepository,
		casesRepository,
		scheduleRepository,
		meetings,
		notifications,
		metricsCollector,
		txMgr,
		bookConsultationUC.Config{
			Location:           location,
			DefaultExpertID:    cfg.Slots.DefaultExpertID,
			MaxConflictRetries: cfg.Booking.MaxConflictRetries,
			MinNoticeMinutes:   cfg.Slots.MinBookingNoticeMinutes,
		},
		log,
	)

	createCaseUseCase := createCaseUC.NewUseCase(
		casesRepository,
		validator,
		notifications,
		metricsCollector,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	bookConsultation := bookConsultationHandler.NewHandler(bookConsultationUseCase, log)
	createCase := createCaseHandler.NewHandler(createCaseUseCase, log)
	getCase := getCaseHandler.NewHandler(casesSvc, log)
	updateCaseStatus := updateCaseStatusHandler.NewHandler(casesSvc, log)
	listCases := listCasesHandler.NewHandler(casesSvc, log)
	getExpertBookings := getExpertBookingsHandler.NewHandler(casesSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(scheduleSvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(scheduleSvc, log)
	getBlockedDates := getBlockedDatesHandler.NewHandler(scheduleSvc, location, log)
	createBlockedDate := createBlockedDateHandler.NewHandler(scheduleSvc, log)
	deleteBlockedDate := deleteBlockedDateHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты консультаций
	api.HandleFunc("/consultations/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Недельное расписание эксперта
	api.HandleFunc("/experts/{expertId:[0-9]+}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Обращения клиента ---
	protected.HandleFunc("/consultations/create", createCase.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/consultations/book", bookConsultation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/consultations/{caseId:[0-9]+}", getCase.Handle).Methods(http.MethodGet)

	// ============================================================
	// STAFF ROUTES (X-User-Role: staff)
	// ============================================================

	staff := protected.PathPrefix("").Subrouter()
	staff.Use(middleware.RequireStaff)

	// --- Обращения ---
	staff.HandleFunc("/consultations/{caseId:[0-9]+}/status", updateCaseStatus.Handle).Methods(http.MethodPatch)
	staff.HandleFunc("/admin/consultations", listCases.Handle).Methods(http.MethodGet)

	// --- Расписание экспертов ---
	staff.HandleFunc("/experts/{expertId:[0-9]+}/availability", updateAvailability.Handle).Methods(http.MethodPut)
	staff.HandleFunc("/experts/{expertId:[0-9]+}/blocked-dates", getBlockedDates.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/experts/{expertId:[0-9]+}/blocked-dates", createBlockedDate.Handle).Methods(http.MethodPost)
	staff.HandleFunc("/experts/{expertId:[0-9]+}/blocked-dates/{date}", deleteBlockedDate.Handle).Methods(http.MethodDelete)
	staff.HandleFunc("/experts/{expertId:[0-9]+}/bookings", getExpertBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
