package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Werneck0live/simulador-tributario/internal/admin"
	"github.com/Werneck0live/simulador-tributario/internal/broker"
	"github.com/Werneck0live/simulador-tributario/internal/calc"
	"github.com/Werneck0live/simulador-tributario/internal/config"
	"github.com/Werneck0live/simulador-tributario/internal/db"
	"github.com/Werneck0live/simulador-tributario/internal/fx"
	"github.com/Werneck0live/simulador-tributario/internal/handlers"
	"github.com/Werneck0live/simulador-tributario/internal/repository"
	"github.com/Werneck0live/simulador-tributario/internal/tables"
)

// cmd/api/main.go
func main() {
	cfg := config.Load() // .env

	// Logger JSON "global" - permite usar slog.Info/slog.Error/Warn em qualquer lugar
	_ = config.InitLogger(cfg.LogLevel)
	slog.Info("starting", "port", cfg.Port, "tables_source", cfg.TablesSource)

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: seed")
	flag.Parse()
	if *task != "" {
		switch *task {
		case "seed":
			// conecta somente o necessário para o seed
			client, err := db.NewMongoClient(cfg.MongoURI)
			if err != nil {
				slog.Error("mongo_connect_error", "err", err)
				os.Exit(1)
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			repo := repository.NewTablesRepository(client.Database(cfg.MongoDB))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := repo.EnsureIndexes(ctx); err != nil {
				slog.Error("ensure_indexes_failed", "err", err)
				os.Exit(1)
			}
			if err := admin.SeedReferenceTables(ctx, repo, slog.Default()); err != nil {
				slog.Error("seed_failed", "err", err)
				os.Exit(1)
			}
			slog.Info("seed_done")
			return // encerra o processo sem subir HTTP
		default:
			slog.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
	}

	var versions handlers.VersionStore
	tb := tables.Default()
	if cfg.TablesSource == config.TablesMongo {
		client, err := db.NewMongoClient(cfg.MongoURI)
		if err != nil {
			slog.Warn("mongo_connect_error", "err", err, "fallback", "embedded")
		} else {
			defer func() { _ = client.Disconnect(context.Background()) }()
			repo := repository.NewTablesRepository(client.Database(cfg.MongoDB))
			versions = repo
			tb = loadStoredTables(repo, cfg.TablesVersion, tb)
		}
	}
	slog.Info("tables_loaded", "versao", tb.Version())

	// publisher (Rabbit), opcional
	var pub handlers.EventPublisher
	if cfg.EventsEnabled {
		p, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue)
		if err != nil {
			slog.Warn("rabbitmq_connect_error", "err", err, "events", "disabled")
		} else {
			defer p.Close()
			pub = p
		}
	}

	quotes := fx.NewClient(fx.Config{
		URL:         cfg.FXURL,
		TTL:         cfg.FXTTL,
		Timeout:     cfg.FXTimeout,
		DefaultRate: cfg.FXDefaultRate,
		Retries:     uint64(max(cfg.FXRetries, 0)),
	}, slog.Default())

	h := handlers.NewSimulationHandler(calc.NewEngine(tb), pub, quotes, slog.Default())
	h.Versions = versions

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(h, cfg.CORSOrigins),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful_shutdown_error", "err", err)
	}
	slog.Info("stopped")
}

// loadStoredTables busca a versão pedida (ou a mais recente) no Mongo.
// Qualquer falha mantém as tabelas embutidas.
func loadStoredTables(repo *repository.TablesRepository, versao string, fallback *tables.Tables) *tables.Tables {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		doc *tables.Document
		err error
	)
	if versao != "" {
		doc, err = repo.GetByVersion(ctx, versao)
	} else {
		doc, err = repo.Latest(ctx)
	}
	if err != nil {
		slog.Warn("tables_load_error", "versao", versao, "err", err, "fallback", fallback.Version())
		return fallback
	}
	tb, err := tables.Build(*doc)
	if err != nil {
		slog.Warn("tables_invalid", "versao", doc.Versao, "err", err, "fallback", fallback.Version())
		return fallback
	}
	return tb
}
