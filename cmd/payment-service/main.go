package main

import (
	"context"
	"fmt"
	"log"

	"github.com/eksporyuk/payment-core-service/internal/config"
	"github.com/eksporyuk/payment-core-service/internal/delivery/httpapi"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/kafka"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/logger"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/metrics"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/migrate"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres/repository"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/redislock"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/xendit"
	"github.com/eksporyuk/payment-core-service/internal/usecase/provisioning"
	"github.com/eksporyuk/payment-core-service/internal/usecase/reconciliation"
	"github.com/eksporyuk/payment-core-service/internal/usecase/transaction"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.PaymentDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.PaymentDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Kafka event publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)
	defer pub.Close()

	// Redis-backed provisioning lock
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	locker := redislock.NewRedisProvisionLocker(redisClient)

	// Xendit gateway client
	gateway := xendit.NewClient(cfg.Xendit.BaseURL, cfg.Xendit.SecretKey, cfg.Xendit.Timeout)

	paymentMetrics := metrics.NewPaymentMetrics()

	// Init repositories
	txRepo := repository.NewDefaultTransactionRepository(db)
	convRepo := repository.NewDefaultConversionRepository(db)
	affiliateDirectory := repository.NewDefaultAffiliateDirectory(db)
	membershipCatalog := repository.NewDefaultMembershipCatalog(db)

	// Audit log of provisioning and repair events
	eventLog := logger.NewPGPaymentEventLogger(db)

	// Init usecases
	provisioner := provisioning.NewProvisioner(txRepo, gateway, locker, pub, paymentMetrics)
	provisioner.EventLog = eventLog
	transactionUC := transaction.NewDefaultTransactionUsecase(txRepo, membershipCatalog, paymentMetrics)
	transactionUC.SettlementCallbackURL = cfg.Callbacks.SettlementURL
	reconciliationEngine := reconciliation.NewEngine(
		txRepo,
		convRepo,
		membershipCatalog,
		affiliateDirectory,
		pub,
		paymentMetrics,
	)
	reconciliationEngine.EventLog = eventLog

	provisionParams := provisioning.Params{
		VAExpiry:        cfg.Channels.VAExpiry,
		InvoiceDuration: cfg.Channels.InvoiceDuration,
		SelfBaseURL:     cfg.HTTPServer.BaseURL,
	}

	// Expiry sweeper
	go transactionUC.StartExpirySweeper(context.Background(), cfg.Channels.SweepInterval)

	handler := httpapi.NewPaymentHandler(provisioner, provisionParams, transactionUC, reconciliationEngine)
	router := httpapi.NewRouter(handler)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("HTTP server started on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
