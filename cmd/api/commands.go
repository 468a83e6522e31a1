package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"gestao_oficina/internal/adapter/http/routes"
	"gestao_oficina/internal/adapter/persistence/repository"
	"gestao_oficina/internal/infrastructure/auth"
	"gestao_oficina/internal/infrastructure/config"
	"gestao_oficina/internal/infrastructure/database"
	"gestao_oficina/internal/infrastructure/scheduler"
	"gestao_oficina/internal/usecase"
	"gestao_oficina/pkg/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "oficina",
	Short:         "Auto-repair shop management API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the low-stock scheduler",
	RunE:  runServe,
}

var createTablesCmd = &cobra.Command{
	Use:   "create-tables",
	Short: "Create the DynamoDB tables and indexes that do not exist yet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadUnvalidated()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		ddb, err := database.ConnectDynamoDB(ctx, routes.DynamoOptions(cfg))
		if err != nil {
			return err
		}
		return database.EnsureTables(ctx, ddb, routes.TableNames(cfg))
	},
}

var newUser struct {
	email    string
	name     string
	password string
	role     string
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a staff user (use it to bootstrap the first admin)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		ddb, err := database.ConnectDynamoDB(ctx, routes.DynamoOptions(cfg))
		if err != nil {
			return err
		}
		tokens, err := auth.NewJWTTokenService(cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			return err
		}
		uc := usecase.NewAuthUseCase(repository.NewUserDynamoRepository(ddb, cfg.UsersTable), tokens, auth.NewBcryptHasher(0))

		u, err := uc.CreateUser(ctx, usecase.UserInput{
			Email:    newUser.email,
			FullName: newUser.name,
			Password: newUser.password,
			Role:     newUser.role,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s, %s)\n", u.ID, u.Email, u.Role)
		return nil
	},
}

var sweepLowStockCmd = &cobra.Command{
	Use:   "sweep-low-stock",
	Short: "Run the low-stock sweep once and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadUnvalidated()
		if err != nil {
			return err
		}
		ddb, err := database.ConnectDynamoDB(cmd.Context(), routes.DynamoOptions(cfg))
		if err != nil {
			return err
		}
		t := routes.TableNames(cfg)
		inventory := usecase.NewInventoryUseCase(
			repository.NewInventoryDynamoRepository(ddb, t.Inventory, t.ServiceOrders),
			repository.NewServiceOrderDynamoRepository(ddb, t.ServiceOrders),
			cfg.StockAllowNegative,
		)

		n, err := scheduler.NewLowStockJob(inventory, time.Minute).Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d item(s) at or below minimum stock\n", n)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&newUser.email, "email", "", "login email")
	createUserCmd.Flags().StringVar(&newUser.name, "name", "", "full name")
	createUserCmd.Flags().StringVar(&newUser.password, "password", "", "initial password")
	createUserCmd.Flags().StringVar(&newUser.role, "role", "admin", "admin or mecanico")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("name")
	_ = createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(serveCmd, createTablesCmd, createUserCmd, sweepLowStockCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return routes.Run(ctx, cfg)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Configure(cfg.LogLevel, cfg.IsProduction())
	return cfg, nil
}

// loadUnvalidated is for maintenance commands that never issue tokens.
func loadUnvalidated() (*config.Config, error) {
	config.LoadEnvFiles()
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.LogLevel, cfg.IsProduction())
	return cfg, nil
}
