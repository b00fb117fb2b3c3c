package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/cmd"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres/agentrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/otprepo"
	"dispatch/internal/adapters/out/postgres/returnrepo"
	"dispatch/internal/jobs"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	mustMigrate(gormDB)

	root := cmd.NewCompositionRoot(configs, gormDB)

	writer := root.CreateTrackingStreamWriter()
	defer func() {
		_ = writer.Close()
	}()

	jobManager := jobs.NewJobManager(
		root.CreateRemindUnassignedOrdersCommandHandler(),
		root.TrackingOutbox(),
		writer,
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		logger.Error("Failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(&root, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:           goDotEnvVariable("HTTP_PORT"),
		DBHost:             goDotEnvVariable("DB_HOST"),
		DBPort:             goDotEnvVariable("DB_PORT"),
		DBUser:             goDotEnvVariable("DB_USER"),
		DBPassword:         goDotEnvVariable("DB_PASSWORD"),
		DBName:             goDotEnvVariable("DB_NAME"),
		DBSslMode:          goDotEnvVariable("DB_SSLMODE"),
		SmsBaseURL:         goDotEnvVariable("SMS_BASE_URL"),
		SmsAPIKey:          goDotEnvVariable("SMS_API_KEY"),
		KafkaHost:          goDotEnvVariable("KAFKA_HOST"),
		KafkaTrackingTopic: goDotEnvVariable("KAFKA_TRACKING_TOPIC"),
		OtpRateLimitWindow: os.Getenv("OTP_RATE_LIMIT_WINDOW"),
	}
	if raw := os.Getenv("OTP_RATE_LIMIT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			config.OtpRateLimit = parsed
		}
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func mustMigrate(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.TrackingEventDTO{},
		&orderrepo.StatusChangeDTO{},
		&agentrepo.AgentDTO{},
		&otprepo.OtpDTO{},
		&returnrepo.ReturnDTO{},
		&returnrepo.ReturnChangeDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

func startWebServer(root *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpadapter.NewServer(httpadapter.Handlers{
		RegisterAgent:       root.CreateRegisterAgentCommandHandler(),
		CreateOrder:         root.CreateCreateOrderCommandHandler(),
		RecordPayment:       root.CreateRecordPaymentCommandHandler(),
		MarkReady:           root.CreateMarkReadyCommandHandler(),
		AssignOrder:         root.CreateAssignOrderCommandHandler(),
		BulkAssignOrders:    root.CreateBulkAssignOrdersCommandHandler(),
		AcceptOrder:         root.CreateAcceptOrderCommandHandler(),
		RejectOrder:         root.CreateRejectOrderCommandHandler(),
		ConfirmPickup:       root.CreateConfirmPickupCommandHandler(),
		MarkLocationReached: root.CreateMarkLocationReachedCommandHandler(),
		ConfirmDelivery:     root.CreateConfirmDeliveryCommandHandler(),
		CancelOrder:         root.CreateCancelOrderCommandHandler(),
		CreateOtp:           root.CreateCreateOtpCommandHandler(),
		VerifyOtp:           root.CreateVerifyOtpCommandHandler(),
		ResendOtp:           root.CreateResendOtpCommandHandler(),
		RequestReturn:       root.CreateRequestReturnCommandHandler(),
		AssignReturnAgent:   root.CreateAssignReturnAgentCommandHandler(),
		AdvanceReturn:       root.CreateAdvanceReturnStatusCommandHandler(),
		CompleteReturn:      root.CreateCompleteReturnCommandHandler(),
		OrderTracking:       root.CreateGetOrderTrackingQueryHandler(),
		AgentCapacity:       root.CreateGetAgentCapacityQueryHandler(),
		OtpStatus:           root.CreateGetOrderOtpStatusQueryHandler(),
	}, root.ConnectionRegistry())
	server.RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && err != http.ErrServerClosed {
			logger.Error("Web server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Web server shutdown failed", "error", err)
	}
}
