package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"medicare/config"
	"medicare/cron"
	"medicare/database"
	appointmentRepo "medicare/database/repository/appointment"
	patientRepo "medicare/database/repository/patient"
	userRepo "medicare/database/repository/user"
	"medicare/handlers"
	"medicare/middleware"
	"medicare/routes"
	"medicare/services/appointment"
	"medicare/services/patient"
	"medicare/services/tasks"
	"medicare/services/user"
	"medicare/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.JWTSecret == "" && config.IsProduction() {
		logger.Fatal("main: JWT_SECRET must be set in production")
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	database.InitDB()
	db := database.DB()

	// Redis only backs caches and reminders; the API keeps serving without it.
	if err := utils.InitCache(); err != nil {
		logger.Warn("main: slot cache disabled", zap.Error(err))
	}
	if err := utils.InitAuthCache(); err != nil {
		logger.Warn("main: auth cache disabled", zap.Error(err))
	}

	apptRepo := appointmentRepo.NewMongoAppointmentRepo(db)
	patRepo := patientRepo.NewMongoPatientRepo(db)
	usrRepo := userRepo.NewMongoUserRepo(db)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := apptRepo.EnsureIndexes(indexCtx); err != nil {
		// Without unique_live_slot double-booking is possible; refuse to start.
		logger.Fatal("main: appointment indexes", zap.Error(err))
	}
	if err := patRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Warn("main: patient indexes", zap.Error(err))
	}
	if err := usrRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Warn("main: user indexes", zap.Error(err))
	}
	cancelIndexes()

	loc := cfg.ClinicLocation()
	apptService := &appointment.DefaultAppointmentService{
		Repo:      apptRepo,
		Checker:   appointment.NewAvailabilityChecker(apptRepo),
		Validator: appointment.NewValidator(cfg.ClinicOpenHour, cfg.ClinicCloseHour, loc),
		Logger:    logger.Named("appointments"),
	}
	if client := utils.GetCacheClient(); client != nil {
		apptService.Cache = appointment.NewRedisBookedSlotCache(client, cfg.SlotCacheTTL())
	}

	var (
		queue  *asynq.Client
		worker *asynq.Server
	)
	if utils.GetCacheClient() != nil {
		queue = asynq.NewClient(cron.QueueRedisOpt())
		apptService.Reminders = tasks.NewReminderScheduler(queue, cfg.ReminderLead(), loc)
		worker = cron.StartReminderWorker(apptRepo, cron.LogNotifier{Logger: logger.Named("reminders")}, logger.Named("worker"))
	}

	var sessions middleware.SessionCache
	var userSessions user.SessionStore
	if client := utils.GetAuthCacheClient(); client != nil {
		store := utils.NewRedisSessionStore(client)
		sessions, userSessions = store, store
	}
	userService := user.NewUserService(usrRepo, userSessions, cfg.TokenTTL(), logger.Named("auth"))
	patientService := patient.NewPatientService(patRepo, logger.Named("patients"))

	handlerBundle := &handlers.HandlerBundle{
		Appointments: handlers.NewAppointmentHandler(apptService),
		Patients:     handlers.NewPatientHandler(patientService),
		Auth:         handlers.NewAuthHandler(userService),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Proxies()); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(middleware.RequestLogger(logger))
	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		AllowedOrigins:    cfg.Origins(),
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
		Users:             userService,
		Sessions:          sessions,
	})

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, time.Minute,
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	port := cfg.AppPort
	if port == "" {
		port = "5000"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queue != nil {
		_ = queue.Close()
	}
	utils.CloseCaches()
	if err := database.Close(ctx); err != nil {
		logger.Error("main: mongo disconnect", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}
