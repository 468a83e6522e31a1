package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "gestao_oficina/docs"
	"gestao_oficina/internal/adapter/http/handlers"
	"gestao_oficina/internal/adapter/http/middleware"
	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/infrastructure/config"
	"gestao_oficina/internal/infrastructure/scheduler"
	"gestao_oficina/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Clients   *handlers.ClientHandler
	Inventory *handlers.InventoryHandler
	Orders    *handlers.ServiceOrderHandler
	Payments  *handlers.BillingPaymentHandler
	Reports   *handlers.ReportHandler
}

// Run will start the server and block until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.For("http", "server")

	deps, err := BuildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	job := scheduler.NewLowStockJob(deps.Inventory, 30*time.Second)
	sweeper, err := scheduler.Start(ctx, cfg.LowStockCron, job)
	if err != nil {
		return err
	}
	defer sweeper.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := NewRouter(deps.Handlers, deps.Auth)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to startup the application: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewRouter builds the gin engine with every route under /v1.
func NewRouter(h Handlers, auth middleware.Authenticator) *gin.Engine {
	router := gin.New()
	setMiddlewares(router)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	v1.POST("/auth/login", h.Auth.Login)

	private := v1.Group("", middleware.Auth(auth))
	adminOnly := middleware.RequireRole(entities.RoleAdmin)

	addAuthRoutes(private, h.Auth, adminOnly)
	addClientRoutes(private, h.Clients)
	addInventoryRoutes(private, h.Inventory, adminOnly)
	addServiceOrderRoutes(private, h.Orders, h.Payments, adminOnly)
	addReportRoutes(private, h.Reports)

	return router
}

func setMiddlewares(router *gin.Engine) {
	router.Use(middleware.RequestLogger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.For("http", "recovery").WithField("panic", recovered).Error("recovered from panic")
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
