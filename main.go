package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/farmers-market-api/cartstore"
	"github.com/Kariqs/farmers-market-api/controllers"
	"github.com/Kariqs/farmers-market-api/initializers"
	"github.com/Kariqs/farmers-market-api/payment"
	"github.com/Kariqs/farmers-market-api/receipts"
	"github.com/Kariqs/farmers-market-api/routes"
	"github.com/Kariqs/farmers-market-api/services"
	"github.com/Kariqs/farmers-market-api/storage"
	"github.com/Kariqs/farmers-market-api/utils"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := initializers.LoadConfig()
	if err != nil {
		return err
	}
	log := initializers.NewLogger(cfg.Env, cfg.LogLevel)
	if cfg.Env == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := initializers.ConnectToDB(cfg)
	if err != nil {
		return err
	}
	if err := initializers.SyncDatabase(db); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var carts cartstore.Store = cartstore.NewMemoryStore()
	redisClient, err := initializers.ConnectToRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		carts = cartstore.NewRedisStore(redisClient, cfg.CartTTL)
	} else {
		log.Warn("REDIS_ADDR not set, carts are kept in memory")
	}

	var objects storage.Uploader = storage.NewDiskStorage(cfg.UploadDir, cfg.PublicBaseURL)
	uploadDir := cfg.UploadDir
	if cfg.S3Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3Bucket)
		if err != nil {
			return err
		}
		objects = s3Storage
		uploadDir = ""
	}

	var exporter receipts.Exporter
	switch cfg.ReceiptSink {
	case "email":
		exporter = receipts.NewMailExporter(utils.NewMailer(cfg.SMTP.From, cfg.SMTP.Password, cfg.SMTP.Host, cfg.SMTP.Address))
	case "none":
		exporter = receipts.Nop{}
	default:
		exporter = receipts.NewStorageExporter(objects)
	}

	var gateway payment.Gateway = payment.Approver{}
	if cfg.PaymentGatewayURL != "" {
		gateway = payment.NewHTTPGateway(cfg.PaymentGatewayURL, cfg.PaymentGatewayKey)
	}

	controller := &controllers.Controller{
		Accounts: services.NewAccountService(db, cfg.AdminEmail, 0),
		Catalog:  services.NewCatalogService(db, objects),
		Carts:    services.NewCartService(db, carts),
		Orders:   services.NewOrderService(db, carts, gateway, exporter, log),
		Tokens:   utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Log:      log,
		Ping:     sqlDB.Ping,
	}

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: routes.NewRouter(controller, routes.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			UploadDir:      uploadDir,
			Log:            log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
