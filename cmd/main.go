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

	adjustCapacityHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/adjust_capacity"
	cancelReservationHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_reservation"
	getAvailabilityHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_availability"
	getProviderReservationsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_provider_reservations"
	getReservationHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_reservation"
	getScheduleHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_schedule"
	getUserReservationsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_user_reservations"
	setCapacityDefaultHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/set_capacity_default"
	updateHolidaysHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_holidays"
	updateReservationStatusHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_reservation_status"
	updateWorkingHoursHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_working_hours"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/config"
	capacityRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/capacity"
	menuRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/menu"
	reservationRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/reservation"
	scheduleRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/schedule"
	billingServiceClient "github.com/m04kA/SMC-SalonService/internal/integrations/billingservice"
	notifyServiceClient "github.com/m04kA/SMC-SalonService/internal/integrations/notifyservice"
	userServiceClient "github.com/m04kA/SMC-SalonService/internal/integrations/userservice"
	capacityService "github.com/m04kA/SMC-SalonService/internal/service/capacity"
	reservationsService "github.com/m04kA/SMC-SalonService/internal/service/reservations"
	scheduleService "github.com/m04kA/SMC-SalonService/internal/service/schedule"
	createReservationUC "github.com/m04kA/SMC-SalonService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-SalonService/internal/usecase/get_availability"
	reminderWorker "github.com/m04kA/SMC-SalonService/internal/worker/reminder"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
	"github.com/m04kA/SMC-SalonService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
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

	log.Info("Starting SMC-SalonService...")
	log.Info("Configuration loaded from config.toml")

	// Таймзона салонов: календарные сутки считаются в ней
	location, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Booking.Timezone, err)
	}

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
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	billingClient := billingServiceClient.NewClient(
		cfg.BillingService.URL,
		time.Duration(cfg.BillingService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s, BillingService=%s, NotifyService=%s)",
		cfg.UserService.URL, cfg.BillingService.URL, cfg.NotifyService.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		scheduleRepository    *scheduleRepo.Repository
		capacityRepository    *capacityRepo.Repository
		reservationRepository *reservationRepo.Repository
		menuRepository        *menuRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		capacityRepository = capacityRepo.NewRepository(wrappedDB)
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		menuRepository = menuRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		scheduleRepository = scheduleRepo.NewRepository(db)
		capacityRepository = capacityRepo.NewRepository(db)
		reservationRepository = reservationRepo.NewRepository(db)
		menuRepository = menuRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(scheduleRepository, txMgr, log)
	capacitySvc := capacityService.NewService(capacityRepository, txMgr, cfg.Booking.CapacityCeiling, log)
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		capacitySvc,
		notifyClient,
		txMgr,
		location,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		menuRepository,
		scheduleSvc,
		capacitySvc,
		userClient,
		billingClient,
		notifyClient,
		txMgr,
		location,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(scheduleSvc, capacitySvc, log)

	// Запускаем фоновый воркер напоминаний
	var reminder *reminderWorker.Worker
	if cfg.Reminder.Enabled {
		reminder = reminderWorker.NewWorker(
			reservationRepository,
			userClient,
			notifyClient,
			location,
			time.Duration(cfg.Reminder.CheckIntervalMinutes)*time.Minute,
			cfg.Reminder.MaxConcurrentNotifications,
			log,
		)
		reminder.Start(context.Background())
	}

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getProviderReservations := getProviderReservationsHandler.NewHandler(reservationSvc, log)
	adjustCapacity := adjustCapacityHandler.NewHandler(capacitySvc, log)
	setCapacityDefault := setCapacityDefaultHandler.NewHandler(capacitySvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(scheduleSvc, log)
	updateHolidays := updateHolidaysHandler.NewHandler(scheduleSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность слотов на дату
	api.HandleFunc("/providers/{providerId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Недельное расписание салона
	api.HandleFunc("/providers/{providerId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/reservations/{reservationId}", cancelReservation.Handle).Methods(http.MethodDelete)

	// Отметка визита: visited / no_show
	protected.HandleFunc("/reservations/{reservationId}/status", updateReservationStatus.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Управление салоном (для провайдеров) ---
	// Список бронирований салона
	protected.HandleFunc("/providers/{providerId}/reservations", getProviderReservations.Handle).Methods(http.MethodGet)

	// Ручная корректировка вместимости слота
	protected.HandleFunc("/providers/{providerId}/capacity", adjustCapacity.Handle).Methods(http.MethodPatch)

	// Дефолтная вместимость слота
	protected.HandleFunc("/providers/{providerId}/capacity/default", setCapacityDefault.Handle).Methods(http.MethodPut)

	// Рабочие часы
	protected.HandleFunc("/providers/{providerId}/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)

	// Выходные дни
	protected.HandleFunc("/providers/{providerId}/holidays", updateHolidays.Handle).Methods(http.MethodPut)

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

	// Останавливаем воркер напоминаний
	if reminder != nil {
		reminder.Stop()
	}

	// Останавливаем сбор метрик connection pool
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
