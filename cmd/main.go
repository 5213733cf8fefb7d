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

	agendaHandler "github.com/facumancuso/alessi-sub000/internal/api/handlers/agenda"
	appointmentsHandler "github.com/facumancuso/alessi-sub000/internal/api/handlers/appointments"
	billingHandler "github.com/facumancuso/alessi-sub000/internal/api/handlers/billing"
	catalogHandler "github.com/facumancuso/alessi-sub000/internal/api/handlers/catalog"
	clientsHandler "github.com/facumancuso/alessi-sub000/internal/api/handlers/clients"
	settingsHandler "github.com/facumancuso/alessi-sub000/internal/api/handlers/settings"
	usersHandler "github.com/facumancuso/alessi-sub000/internal/api/handlers/users"
	"github.com/facumancuso/alessi-sub000/internal/api/middleware"
	"github.com/facumancuso/alessi-sub000/internal/auth"
	"github.com/facumancuso/alessi-sub000/internal/config"
	"github.com/facumancuso/alessi-sub000/internal/domain"
	appointmentRepo "github.com/facumancuso/alessi-sub000/internal/infra/storage/appointment"
	clientRepo "github.com/facumancuso/alessi-sub000/internal/infra/storage/client"
	"github.com/facumancuso/alessi-sub000/internal/infra/storage/migrate"
	"github.com/facumancuso/alessi-sub000/internal/integrations/whatsapp"
	productRepo "github.com/facumancuso/alessi-sub000/internal/infra/storage/product"
	serviceRepo "github.com/facumancuso/alessi-sub000/internal/infra/storage/service"
	settingsRepo "github.com/facumancuso/alessi-sub000/internal/infra/storage/settings"
	userRepo "github.com/facumancuso/alessi-sub000/internal/infra/storage/user"
	"github.com/facumancuso/alessi-sub000/internal/notify"
	appointmentsService "github.com/facumancuso/alessi-sub000/internal/service/appointments"
	billingService "github.com/facumancuso/alessi-sub000/internal/service/billing"
	catalogService "github.com/facumancuso/alessi-sub000/internal/service/catalog"
	clientsService "github.com/facumancuso/alessi-sub000/internal/service/clients"
	settingsService "github.com/facumancuso/alessi-sub000/internal/service/settings"
	staffService "github.com/facumancuso/alessi-sub000/internal/service/staff"
	createAppointmentUC "github.com/facumancuso/alessi-sub000/internal/usecase/create_appointment"
	getAgendaUC "github.com/facumancuso/alessi-sub000/internal/usecase/get_agenda"
	"github.com/facumancuso/alessi-sub000/pkg/dbmetrics"
	"github.com/facumancuso/alessi-sub000/pkg/logger"
	"github.com/facumancuso/alessi-sub000/pkg/metrics"
	"github.com/facumancuso/alessi-sub000/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}
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

	log.Info("Starting Alessi salon service...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid salon timezone: %v", err)
	}

	// Инициализируем метрики (если включены). nil метрики ничего не пишут
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
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	}

	if cfg.Database.MigrationsFile != "" {
		if err := migrate.Apply(context.Background(), wrappedDB, cfg.Database.MigrationsFile); err != nil {
			log.Fatal("Failed to apply schema: %v", err)
		}
		log.Info("Schema applied from %s", cfg.Database.MigrationsFile)
	}

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)
	productRepository := productRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)
	userRepository := userRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	hub := notify.NewHub()
	authenticator := auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLDuration())

	// Сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		serviceRepository,
		productRepository,
		userRepository,
		hub,
		metricsCollector,
		txMgr,
		log,
		appointmentsService.Config{
			Location:       location,
			WaitingWindow:  cfg.Booking.WaitingWindow(),
			RejectOverlaps: cfg.Booking.RejectOverlaps,
		},
	)
	billingSvc := billingService.NewService(appointmentRepository, productRepository, metricsCollector, txMgr, log, location)
	catalogSvc := catalogService.NewService(serviceRepository, productRepository, log)
	clientsSvc := clientsService.NewService(clientRepository, log)
	staffSvc := staffService.NewService(userRepository, authenticator, log)
	settingsSvc := settingsService.NewService(settingsRepository, log)

	if cfg.Auth.BootstrapEmail != "" {
		created, err := staffSvc.EnsureSuperadmin(context.Background(),
			cfg.Auth.BootstrapName, cfg.Auth.BootstrapEmail, cfg.Auth.BootstrapPassword)
		if err != nil {
			log.Fatal("Failed to create initial superadmin: %v", err)
		}
		if created {
			log.Info("Initial superadmin created: email=%s", cfg.Auth.BootstrapEmail)
		}
	}

	// Шлюз WhatsApp опционален: без url подтверждения не отправляются
	var messenger createAppointmentUC.Messenger
	if cfg.WhatsApp.Enabled() {
		messenger = whatsapp.NewClient(cfg.WhatsApp.URL, cfg.WhatsApp.Token, cfg.WhatsApp.TimeoutDuration(), log)
		log.Info("WhatsApp confirmations enabled: url=%s", cfg.WhatsApp.URL)
	}

	// Use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		serviceRepository,
		productRepository,
		userRepository,
		clientRepository,
		settingsRepository,
		hub,
		messenger,
		txMgr,
		log,
		createAppointmentUC.Config{
			Location:       location,
			RejectOverlaps: cfg.Booking.RejectOverlaps,
		},
	)
	getAgendaUseCase := getAgendaUC.NewUseCase(
		appointmentRepository,
		userRepository,
		log,
		getAgendaUC.Config{
			Location:      location,
			Options:       cfg.Agenda.Options(),
			WaitingWindow: cfg.Booking.WaitingWindow(),
		},
	)

	// Handlers
	appointments := appointmentsHandler.NewHandler(createAppointmentUseCase, appointmentSvc, location, log)
	agenda := agendaHandler.NewHandler(getAgendaUseCase, appointmentSvc, location, cfg.Booking.EventsWait(), log)
	billing := billingHandler.NewHandler(billingSvc, location, log)
	catalog := catalogHandler.NewHandler(catalogSvc, log)
	clients := clientsHandler.NewHandler(clientsSvc, log)
	users := usersHandler.NewHandler(staffSvc, log)
	settings := settingsHandler.NewHandler(settingsSvc, log)

	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()
	limiter, err := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustedProxies)
	if err != nil {
		log.Fatal("Invalid rate limit config: %v", err)
	}
	go limiter.Run(limiterCtx)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.HandleFunc("/public/services", catalog.ListServices).Methods(http.MethodGet)
	public.HandleFunc("/public/settings", settings.Get).Methods(http.MethodGet)

	// Вход и онлайн-запись ограничены по IP
	limited := api.PathPrefix("").Subrouter()
	limited.Use(limiter.Middleware(log))
	limited.HandleFunc("/auth/login", users.Login).Methods(http.MethodPost)
	limited.HandleFunc("/public/appointments", appointments.CreatePublic).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (Authorization: Bearer <token>)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(authenticator, log))

	protected.HandleFunc("/auth/me", users.Me).Methods(http.MethodGet)

	// --- Визиты ---
	protected.HandleFunc("/appointments", appointments.Create).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", appointments.List).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", appointments.Get).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", appointments.Update).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{id}/status", appointments.ChangeStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{id}/cancel", appointments.Cancel).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{id}", appointments.Delete).Methods(http.MethodDelete)

	// --- Агенда и дашборд сотрудника ---
	protected.HandleFunc("/agenda", agenda.Agenda).Methods(http.MethodGet)
	protected.HandleFunc("/agenda/conflicts", agenda.Conflicts).Methods(http.MethodGet)
	protected.HandleFunc("/agenda/next", agenda.Next).Methods(http.MethodGet)
	protected.HandleFunc("/employees/{id}/day", agenda.MyDay).Methods(http.MethodGet)
	protected.HandleFunc("/employees/{id}/events", agenda.Events).Methods(http.MethodGet)

	// --- Справочники (чтение для всех сотрудников) ---
	protected.HandleFunc("/services", catalog.ListServices).Methods(http.MethodGet)
	protected.HandleFunc("/services/{id}", catalog.GetService).Methods(http.MethodGet)
	protected.HandleFunc("/products", catalog.ListProducts).Methods(http.MethodGet)
	protected.HandleFunc("/products/{id}", catalog.GetProduct).Methods(http.MethodGet)

	// --- Клиенты и биллинг (recepcion и выше) ---
	reception := protected.PathPrefix("").Subrouter()
	reception.Use(middleware.RequireRole(domain.RoleRecepcion, log))

	reception.HandleFunc("/clients", clients.List).Methods(http.MethodGet)
	reception.HandleFunc("/clients", clients.Create).Methods(http.MethodPost)
	reception.HandleFunc("/clients/{id}", clients.Get).Methods(http.MethodGet)
	reception.HandleFunc("/clients/{id}", clients.Update).Methods(http.MethodPatch)
	reception.HandleFunc("/clients/{id}", clients.Delete).Methods(http.MethodDelete)

	reception.HandleFunc("/billing/groups", billing.Groups).Methods(http.MethodGet)
	reception.HandleFunc("/billing/bill", billing.Bill).Methods(http.MethodPost)
	reception.HandleFunc("/billing/revert", billing.Revert).Methods(http.MethodPost)

	// --- Управление (gerente и выше) ---
	management := protected.PathPrefix("").Subrouter()
	management.Use(middleware.RequireRole(domain.RoleGerente, log))

	management.HandleFunc("/services", catalog.CreateService).Methods(http.MethodPost)
	management.HandleFunc("/services/{id}", catalog.UpdateService).Methods(http.MethodPatch)
	management.HandleFunc("/services/{id}", catalog.DeleteService).Methods(http.MethodDelete)
	management.HandleFunc("/products", catalog.CreateProduct).Methods(http.MethodPost)
	management.HandleFunc("/products/{id}", catalog.UpdateProduct).Methods(http.MethodPatch)
	management.HandleFunc("/products/{id}", catalog.DeleteProduct).Methods(http.MethodDelete)

	management.HandleFunc("/settings", settings.Update).Methods(http.MethodPut)
	protected.HandleFunc("/settings", settings.Get).Methods(http.MethodGet)

	// Пользователи: список и свой профиль доступны всем, права проверяет сервис
	protected.HandleFunc("/users", users.List).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", users.Get).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}/password", users.ChangePassword).Methods(http.MethodPut)
	management.HandleFunc("/users", users.Create).Methods(http.MethodPost)
	management.HandleFunc("/users/{id}", users.Update).Methods(http.MethodPatch)
	management.HandleFunc("/users/{id}", users.Delete).Methods(http.MethodDelete)

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

	stopLimiter()
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
