package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/restaking-dashboard/internal/aggregator"
	"github.com/AlexZinkM/restaking-dashboard/internal/api"
	"github.com/AlexZinkM/restaking-dashboard/internal/client"
	"github.com/AlexZinkM/restaking-dashboard/internal/config"
	"github.com/AlexZinkM/restaking-dashboard/internal/handler"
	"github.com/AlexZinkM/restaking-dashboard/internal/logger"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
	"github.com/AlexZinkM/restaking-dashboard/internal/protocol"
	"github.com/AlexZinkM/restaking-dashboard/internal/wallet"
	"github.com/AlexZinkM/restaking-dashboard/restaking"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 30 * time.Second
	priceTTL        = time.Minute
)

func main() {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	if err := logger.Initialize(&logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.LogEnvironment,
		OutputPaths: []string{"stdout"},
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.GetLogger()

	if config.GetKeystoreFilePath() != "" {
		if err := config.PromptForPassword(); err != nil {
			log.Fatal("Failed to read keystore password", zap.Error(err))
		}
	}

	network := cfg.Network()
	log.Info("Starting restaking dashboard",
		zap.String("port", config.GetPort()),
		zap.String("node_url", config.GetNodeURL()),
		zap.String("network", network.Name),
		zap.String("contract", config.GetContractAddress()),
		zap.Bool("keystore", config.GetKeystoreFilePath() != ""),
		zap.Duration("refresh_interval", cfg.RefreshInterval),
	)

	node := client.NewNodeClient(config.GetNodeURL(), cfg.NodeTimeout)
	contract := protocol.NewContract(config.GetContractAddress())

	session := wallet.NewSession(newExtension(cfg, node))
	pages := aggregator.New(node, contract, newPriceSource(cfg))
	service := restaking.NewService(session, pages, node, contract)
	board := &aggregator.Board[model.DashboardViewModel]{}

	router := api.SetupRouter(api.Handlers{
		Restaking: handler.NewRestakingHandler(pages, service, session, node, board, network),
		Wallet:    handler.NewWalletHandler(session, config.GetKeystoreFilePath(), network.Name),
		Stream:    handler.NewStreamHandler(pages, session, board, cfg.RefreshInterval, api.CheckOrigin(cfg.CORSOrigins)),
	}, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if session.State().Connected {
		if err := session.Disconnect(ctx); err != nil {
			log.Warn("Wallet disconnect failed", zap.Error(err))
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server gracefully stopped")
}

// newExtension returns the keystore backed extension, or nil when no keystore is configured
func newExtension(cfg *config.Config, node *client.NodeClient) wallet.Extension {
	if cfg.KeystoreFilePath == "" {
		return nil
	}
	var approve wallet.Approver
	if cfg.WalletConfirm {
		approve = wallet.TerminalApprover(os.Stdin, os.Stderr)
	}
	return wallet.NewLocalExtension(cfg.KeystoreFilePath, node, config.GetKeystorePasswordBytes, approve)
}

func newPriceSource(cfg *config.Config) aggregator.PriceSource {
	if !cfg.PriceFeedEnabled {
		return aggregator.StaticPrice(cfg.AptPriceUSD)
	}
	return aggregator.NewFeedPrice(client.NewCoinGeckoClient(), priceTTL, cfg.AptPriceUSD)
}
