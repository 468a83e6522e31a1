package routes

import (
	"context"
	"time"

	"gestao_oficina/internal/adapter/http/handlers"
	"gestao_oficina/internal/adapter/persistence/repository"
	"gestao_oficina/internal/infrastructure/auth"
	"gestao_oficina/internal/infrastructure/cache"
	"gestao_oficina/internal/infrastructure/config"
	"gestao_oficina/internal/infrastructure/database"
	"gestao_oficina/internal/infrastructure/payments"
	"gestao_oficina/internal/usecase"
	"gestao_oficina/internal/usecase/interfaces"
	"gestao_oficina/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
)

// Dependencies is the wired application: repositories, use cases and
// handlers sharing one DynamoDB client.
type Dependencies struct {
	DynamoDB  *dynamodb.Client
	Redis     *redis.Client
	Auth      *usecase.AuthUseCase
	Inventory *usecase.InventoryUseCase
	Handlers  Handlers
}

// DynamoOptions maps the configuration onto the DynamoDB client options.
func DynamoOptions(cfg *config.Config) database.Options {
	return database.Options{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.DynamoDBEndpoint,
	}
}

// TableNames maps the configuration onto the table set.
func TableNames(cfg *config.Config) database.Tables {
	return database.Tables{
		Clients:       cfg.ClientsTable,
		Vehicles:      cfg.VehiclesTable,
		Inventory:     cfg.InventoryTable,
		ServiceOrders: cfg.ServiceOrdersTable,
		Users:         cfg.UsersTable,
		Payments:      cfg.PaymentsTable,
	}
}

// BuildDependencies connects to the stores and wires every use case.
// Redis and Mercado Pago are optional: without them reports are not cached
// and payments only work in mock mode.
func BuildDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	log := logger.For("app", "wiring")

	ddb, err := database.ConnectDynamoDB(ctx, DynamoOptions(cfg))
	if err != nil {
		return nil, err
	}
	t := TableNames(cfg)

	clientRepo := repository.NewClientDynamoRepository(ddb, t.Clients)
	vehicleRepo := repository.NewVehicleDynamoRepository(ddb, t.Vehicles)
	inventoryRepo := repository.NewInventoryDynamoRepository(ddb, t.Inventory, t.ServiceOrders)
	orderRepo := repository.NewServiceOrderDynamoRepository(ddb, t.ServiceOrders)
	userRepo := repository.NewUserDynamoRepository(ddb, t.Users)
	paymentRepo := repository.NewBillingPaymentDynamoRepository(ddb, t.Payments)

	tokens, err := auth.NewJWTTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}
	authUseCase := usecase.NewAuthUseCase(userRepo, tokens, auth.NewBcryptHasher(0))

	var reportCache interfaces.IReportCache
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		rdb, err = cache.Connect(pingCtx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		cancel()
		if err != nil {
			log.WithError(err).Warn("report cache disabled")
			rdb = nil
		} else {
			reportCache = cache.NewRedisReportCache(rdb, "oficina:")
		}
	}

	var paymentGateway interfaces.IPaymentGateway
	if !cfg.PaymentGatewayMock {
		mpGateway, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken)
		if err != nil {
			log.WithError(err).Warn("Mercado Pago gateway not configured")
		} else {
			paymentGateway = mpGateway
		}
	}

	inventoryUseCase := usecase.NewInventoryUseCase(inventoryRepo, orderRepo, cfg.StockAllowNegative)
	orderUseCase := usecase.NewServiceOrderUseCase(orderRepo, inventoryUseCase, clientRepo, vehicleRepo)
	clientUseCase := usecase.NewClientUseCase(clientRepo, vehicleRepo)
	reportUseCase := usecase.NewReportUseCase(orderRepo, inventoryRepo, clientRepo, reportCache, cfg.ReportCacheTTL, cfg.Location())
	paymentUseCase := usecase.NewBillingPaymentUseCase(paymentRepo, orderRepo, paymentGateway, usecase.PaymentOptions{
		MockMode:        cfg.PaymentGatewayMock,
		AccessToken:     cfg.MercadoPagoAccessToken,
		TestPayerEmail:  cfg.MercadoPagoTestPayerEmail,
		TestPayerUserID: cfg.MercadoPagoTestPayerID,
	})

	return &Dependencies{
		DynamoDB:  ddb,
		Redis:     rdb,
		Auth:      authUseCase,
		Inventory: inventoryUseCase,
		Handlers: Handlers{
			Auth:      handlers.NewAuthHandler(authUseCase),
			Clients:   handlers.NewClientHandler(clientUseCase),
			Inventory: handlers.NewInventoryHandler(inventoryUseCase),
			Orders:    handlers.NewServiceOrderHandler(orderUseCase),
			Payments:  handlers.NewBillingPaymentHandler(paymentUseCase, cfg.PaymentGatewayMock),
			Reports:   handlers.NewReportHandler(reportUseCase, cfg.Location()),
		},
	}, nil
}

func (d *Dependencies) Close() {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
}
