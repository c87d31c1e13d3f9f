package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/controller"
	"github.com/mamadbah2/herdbook/internal/repository/mongodb"
	"github.com/mamadbah2/herdbook/internal/repository/sheets"
	"github.com/mamadbah2/herdbook/internal/repository/sqlstore"
	"github.com/mamadbah2/herdbook/internal/scheduler"
	"github.com/mamadbah2/herdbook/internal/server/handlers"
	"github.com/mamadbah2/herdbook/internal/server/router"
	commandsvc "github.com/mamadbah2/herdbook/internal/service/commands"
	reportingsvc "github.com/mamadbah2/herdbook/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/herdbook/internal/service/whatsapp"
	"github.com/mamadbah2/herdbook/pkg/clients/anthropic"
	whatsappclient "github.com/mamadbah2/herdbook/pkg/clients/whatsapp"
	"github.com/mamadbah2/herdbook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	store, err := sqlstore.Open(startCtx, cfg.Database, logger.Named(baseLogger, "repo.sql"))
	if err != nil {
		baseLogger.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			baseLogger.Error("failed to close database", zap.Error(err))
		}
	}()

	if err := store.Sync(startCtx); err != nil {
		baseLogger.Error("schema synchronization incomplete", zap.Error(err))
	}
	if cfg.Database.SeedBreeds {
		seeded, err := store.SeedBreeds(startCtx)
		if err != nil {
			baseLogger.Error("failed to seed reference breeds", zap.Error(err))
		} else if seeded > 0 {
			baseLogger.Info("reference breeds seeded", zap.Int("count", seeded))
		}
	}

	var archive reportingsvc.Archive
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(startCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, report archive disabled")
	}

	var sheet sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(startCtx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheet = sheetsRepo
	} else {
		baseLogger.Warn("google sheets credentials missing, sheet export disabled")
	}

	reportingSvc := reportingsvc.NewService(store.Reports(), archive, sheet, cfg.Location(), logger.Named(baseLogger, "svc.reporting"))

	whatsClient := whatsappclient.NewClient(cfg.WhatsApp)

	var notifier scheduler.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = whatsappclient.NewNotifier(whatsClient, cfg.WhatsApp.ReportTo)
	} else {
		baseLogger.Warn("whatsapp credentials missing, report delivery disabled")
	}

	var webhookHandler *handlers.WebhookHandler
	if cfg.WhatsApp.WebhookEnabled() {
		commandDispatcher := commandsvc.NewService(reportingSvc, store.Lots(), store.Cattle(), logger.Named(baseLogger, "svc.commands"))
		var translator whatsappsvc.Translator
		if cfg.AI.Enabled() {
			translator = anthropic.NewClient(cfg.AI, cfg.Location())
			baseLogger.Info("anthropic ai client enabled")
		} else {
			baseLogger.Warn("anthropic api key missing, free text queries disabled")
		}
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, translator, logger.Named(baseLogger, "svc.whatsapp"))
		webhookHandler = handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp"))
	} else {
		baseLogger.Warn("whatsapp verify token missing, herd queries disabled")
	}

	handlerLogger := logger.Named(baseLogger, "handlers")
	engine := router.New(router.Handlers{
		Cattle:   handlers.NewResourceHandler(controller.NewCattleController(store.Cattle(), logger.Named(baseLogger, "controller.cattle")), handlerLogger),
		Breed:    handlers.NewResourceHandler(controller.NewBreedController(store.Breeds(), logger.Named(baseLogger, "controller.breed")), handlerLogger),
		Lots:     handlers.NewLotHandler(controller.NewLotController(store.Lots(), logger.Named(baseLogger, "controller.lots")), handlerLogger),
		Products: handlers.NewResourceHandler(controller.NewProductController(store.Products(), logger.Named(baseLogger, "controller.products")), handlerLogger),
		Reports:  handlers.NewReportHandler(reportingSvc, cfg.Location(), handlerLogger),
		Webhook:  webhookHandler,
	}, store, logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(cfg.Reporting, cfg.Location(), reportingSvc, store.Lots(), notifier, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("db_driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
