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

	bookAppointmentHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/cancel_appointment"
	getAppointmentHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/get_available_slots"
	getDoctorAppointmentsHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/get_doctor_appointments"
	getPatientAppointmentsHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/get_patient_appointments"
	getUpcomingRemindersHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/get_upcoming_reminders"
	rescheduleAppointmentHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/reschedule_appointment"
	runReminderSweepHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/run_reminder_sweep"
	sendAppointmentReminderHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/send_appointment_reminder"
	updateAppointmentStatusHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HMS-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/schedule"
	notifyServiceClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/notifyservice"
	registryServiceClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/registryservice"
	appointmentsService "github.com/m04kA/HMS-AppointmentService/internal/service/appointments"
	reminderService "github.com/m04kA/HMS-AppointmentService/internal/service/reminder"
	bookAppointmentUC "github.com/m04kA/HMS-AppointmentService/internal/usecase/book_appointment"
	getAvailableSlotsUC "github.com/m04kA/HMS-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/logger"
	"github.com/m04kA/HMS-AppointmentService/pkg/metrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/HMS-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting HMS-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	registryClient := registryServiceClient.NewClient(
		cfg.RegistryService.URL,
		time.Duration(cfg.RegistryService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (RegistryService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.RegistryService.URL, cfg.RegistryService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	timeProvider := &bookAppointmentUC.RealTimeProvider{}

	// Инициализируем use cases
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		appointmentRepository,
		registryClient,
		notifyClient,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		registryClient,
		log,
	)

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		registryClient,
		notifyClient,
		bookAppointmentUseCase,
		timeProvider,
		log,
	)

	reminderSvc := reminderService.NewService(
		appointmentRepository,
		registryClient,
		notifyClient,
		timeProvider,
		cfg.Reminders.LocalHour,
		cfg.Reminders.MaxConcurrentSends,
		log,
	)

	// Инициализируем handlers
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getDoctorAppointments := getDoctorAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	runReminderSweep := runReminderSweepHandler.NewHandler(reminderSvc, log)
	sendAppointmentReminder := sendAppointmentReminderHandler.NewHandler(reminderSvc, log)
	getUpcomingReminders := getUpcomingRemindersHandler.NewHandler(reminderSvc, log)

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

	// Свободные слоты врача
	api.HandleFunc("/doctors/{doctorId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Записи врача
	api.HandleFunc("/doctors/{doctorId}/appointments",
		getDoctorAppointments.Handle).Methods(http.MethodGet)

	// Сводка предстоящих напоминаний
	api.HandleFunc("/reminders/upcoming",
		getUpcomingReminders.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи на приём ---
	protected.HandleFunc("/appointments", bookAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История записей пациента
	protected.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// --- Напоминания ---
	protected.HandleFunc("/reminders/run", runReminderSweep.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/reminder", sendAppointmentReminder.Handle).Methods(http.MethodPost)

	// Фоновая рассылка напоминаний
	reminderCtx, stopReminder := context.WithCancel(context.Background())
	defer stopReminder()
	if cfg.Reminders.Enabled {
		go reminderSvc.Run(reminderCtx, time.Duration(cfg.Reminders.IntervalMinutes)*time.Minute)
		log.Info("Reminder scheduler enabled: interval=%dm, localHour=%d",
			cfg.Reminders.IntervalMinutes, cfg.Reminders.LocalHour)
	}

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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновую рассылку и сбор метрик
	stopReminder()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
