package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	auditmongo "github.com/quickpay/quickpay_backend/internal/adapters/audit/mongodb"
	cacheredis "github.com/quickpay/quickpay_backend/internal/adapters/cache/redis"
	"github.com/quickpay/quickpay_backend/internal/adapters/database/pgsql"
	"github.com/quickpay/quickpay_backend/internal/adapters/messaging/rabbitmq"
	"github.com/quickpay/quickpay_backend/internal/adapters/notification/webhook"
	portssvc "github.com/quickpay/quickpay_backend/internal/core/ports/services"
	"github.com/quickpay/quickpay_backend/internal/core/services"
	"github.com/quickpay/quickpay_backend/internal/handlers"
	"github.com/quickpay/quickpay_backend/internal/middleware"
	"github.com/quickpay/quickpay_backend/internal/platform/config"
	"github.com/quickpay/quickpay_backend/internal/seed"
	"github.com/quickpay/quickpay_backend/pkg/database"
)

// @title QuickPay Backend API
// @version 1.0
// @description Money transfer API with fees, fraud scoring and double-entry history.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	runMigrations(cfg, logger)

	// Repositories and domain services.
	accountRepo := pgsql.NewAccountRepository(dbPool)
	ledgerRepo := pgsql.NewLedgerRepository(dbPool)
	txManager := pgsql.NewTxManager(dbPool)

	feeCalc := services.NewFeeCalculator(cfg.FeePolicy)
	riskScorer := services.NewRiskScorer(cfg.RiskPolicy)
	validator := services.NewTransferValidator(cfg.ValidationPolicy)

	notifier := buildNotifier(cfg, logger)
	auditor := buildAuditor(cfg, logger)

	serviceContainer := &portssvc.ServiceContainer{
		Account: services.NewAccountService(accountRepo, ledgerRepo, cfg.AccountDefaults),
		Transfer: services.NewTransferService(
			accountRepo, ledgerRepo, txManager,
			feeCalc, riskScorer, validator,
			notifier, auditor,
			cfg.DefaultCurrency,
		),
	}

	if cfg.SeedDemoData {
		if err := seed.DemoData(context.Background(), accountRepo, cfg.AccountDefaults, logger); err != nil {
			logger.Error("Failed to seed demo data", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var transferMiddleware []gin.HandlerFunc
	if idempotencyRepo := buildIdempotencyRepo(cfg, logger); idempotencyRepo != nil {
		transferMiddleware = append(transferMiddleware, middleware.Idempotency(idempotencyRepo, cfg.IdempotencyTTL))
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, dbPool, transferMiddleware...)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending schema migrations, exiting on failure.
func runMigrations(cfg *config.Config, logger *slog.Logger) {
	logger.Info("Running database migrations...")

	// A separate database/sql connection keeps migrate decoupled from the pool.
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		os.Exit(1)
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		os.Exit(1)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
}

// buildNotifier picks the configured delivery channel: AMQP when a broker URL
// is set, webhook otherwise, nil when neither is configured.
func buildNotifier(cfg *config.Config, logger *slog.Logger) portssvc.Notifier {
	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		ch, err := conn.Channel()
		if err != nil {
			logger.Error("Failed to open AMQP channel", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := ch.ExchangeDeclare(cfg.AMQPExchange, "topic", true, false, false, false, nil); err != nil {
			logger.Error("Failed to declare AMQP exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("AMQP notifier configured", slog.String("exchange", cfg.AMQPExchange))
		return rabbitmq.NewNotifier(ch, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	}
	if cfg.WebhookURL != "" {
		logger.Info("Webhook notifier configured", slog.String("url", cfg.WebhookURL))
		return webhook.NewNotifier(cfg.WebhookURL)
	}
	logger.Info("No notifier configured, transfer notifications disabled")
	return nil
}

// buildAuditor wires the Mongo audit trail when configured.
func buildAuditor(cfg *config.Config, logger *slog.Logger) portssvc.Auditor {
	if cfg.MongoURL == "" {
		logger.Info("No audit store configured, audit trail disabled")
		return nil
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		logger.Error("Failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Error("Failed to ping MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Mongo audit trail configured", slog.String("database", cfg.MongoDatabase))
	return auditmongo.NewAuditRepository(client, cfg.MongoDatabase)
}

// buildIdempotencyRepo wires the Redis response cache when configured.
func buildIdempotencyRepo(cfg *config.Config, logger *slog.Logger) *cacheredis.IdempotencyRepository {
	if cfg.RedisURL == "" {
		logger.Info("No Redis configured, idempotency replay disabled")
		return nil
	}

	opts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("Failed to parse Redis URL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to ping Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Redis idempotency cache configured")
	return cacheredis.NewIdempotencyRepository(client)
}
