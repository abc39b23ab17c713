package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/Ramsey-B/fern/config"
	campaignrepo "github.com/Ramsey-B/fern/internal/repositories/campaign"
	"github.com/Ramsey-B/fern/internal/repositories/campaignnewsitem"
	"github.com/Ramsey-B/fern/internal/repositories/campaignowner"
	"github.com/Ramsey-B/fern/internal/repositories/campaignparticipant"
	"github.com/Ramsey-B/fern/internal/repositories/campaignpolitician"
	"github.com/Ramsey-B/fern/internal/repositories/duplicatepair"
	"github.com/Ramsey-B/fern/internal/repositories/organizationlisting"
	politicianrepo "github.com/Ramsey-B/fern/internal/repositories/politician"
	"github.com/Ramsey-B/fern/internal/repositories/seofriendlypath"
	"github.com/Ramsey-B/fern/internal/repositories/volunteertask"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/locating"
	"github.com/Ramsey-B/fern/pkg/merging"
	"github.com/Ramsey-B/fern/pkg/middleware"
	campaignroutes "github.com/Ramsey-B/fern/pkg/routes/campaign"
	"github.com/Ramsey-B/fern/pkg/routes/health"
	mergeroutes "github.com/Ramsey-B/fern/pkg/routes/merge"
	"github.com/Ramsey-B/fern/pkg/startup"
	"github.com/Ramsey-B/fern/pkg/sweep"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := initTracing(ctx, cfg, logger)
	defer shutdownTracing()

	var writer *sqlx.DB
	var reader *sqlx.DB
	var producer *kafka.Producer

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	boot.AddDependency(&bootDependency{
		name: "database",
		start: func(ctx context.Context) error {
			var err error
			writer, err = connect(cfg, cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword)
			if err != nil {
				return err
			}
			if cfg.DatabaseReaderHost != "" {
				reader, err = connect(cfg, cfg.DatabaseReaderHost, cfg.DatabaseReaderPort, cfg.DatabaseReaderUserName, cfg.DatabaseReaderPassword)
				if err != nil {
					return err
				}
			}
			return nil
		},
		stop: func(ctx context.Context) error {
			if reader != nil {
				reader.Close()
			}
			if writer != nil {
				return writer.Close()
			}
			return nil
		},
	})
	boot.AddDependency(&bootDependency{
		name: "migrations",
		deps: []string{"database"},
		start: func(ctx context.Context) error {
			return runMigrations(cfg, logger, writer)
		},
	})
	if cfg.KafkaProducerEnabled {
		boot.AddDependency(&bootDependency{
			name: "kafka",
			start: func(ctx context.Context) error {
				producer = kafka.NewProducer(kafka.ProducerConfig{
					Brokers:      cfg.KafkaBrokers,
					Topic:        cfg.KafkaOutputTopic,
					BatchSize:    cfg.KafkaBatchSize,
					BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
					RequiredAcks: cfg.KafkaRequiredAcks,
					Compression:  cfg.KafkaCompression,
				}, logger)
				return nil
			},
			stop: func(ctx context.Context) error {
				if producer != nil {
					return producer.Close()
				}
				return nil
			},
		})
	}

	if err := boot.Start(ctx); err != nil {
		logger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}
	defer boot.Stop(context.Background())

	var readerDB database.DB
	if reader != nil {
		readerDB = database.NewDatabaseInstance(reader, logger)
	}
	pair := database.NewPair(database.NewDatabaseInstance(writer, logger), readerDB)

	campaigns := campaignrepo.NewRepository(pair, logger)
	owners := campaignowner.NewRepository(pair, logger)
	participants := campaignparticipant.NewRepository(pair, logger)
	links := campaignpolitician.NewRepository(pair, logger)
	listings := organizationlisting.NewRepository(pair, logger)
	newsItems := campaignnewsitem.NewRepository(pair, logger)
	paths := seofriendlypath.NewRepository(pair, logger)
	politicians := politicianrepo.NewRepository(pair, logger)
	pairs := duplicatepair.NewRepository(pair, logger)
	volunteers := volunteertask.NewRepository(pair, logger)

	var emitter *events.Emitter
	var mergeEmitter merging.EventEmitter
	var pairEmitter sweep.PairEventEmitter
	if producer != nil {
		emitter = events.NewEmitter(producer, logger)
		mergeEmitter = emitter
		pairEmitter = emitter
	}

	locator := locating.NewLocator(campaigns, logger)
	executor := merging.NewExecutor(logger, campaigns, owners, participants, links, listings, newsItems, paths, politicians, pairs, mergeEmitter)
	resolver := merging.NewResolver(logger, executor)
	sweeper := sweep.NewSweeper(logger, campaigns, politicians, pairs, volunteers, locator, resolver, pairEmitter)

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		logger.WithError(err).Error("Failed to create DI container")
		os.Exit(1)
	}
	ectoinject.RegisterInstance[ectologger.Logger](container, logger)
	ectoinject.RegisterInstance[*campaignrepo.Repository](container, campaigns)
	ectoinject.RegisterInstance[*politicianrepo.Repository](container, politicians)
	ectoinject.RegisterInstance[*duplicatepair.Repository](container, pairs)
	ectoinject.RegisterInstance[*volunteertask.Repository](container, volunteers)
	ectoinject.RegisterInstance[*locating.Locator](container, locator)
	ectoinject.RegisterInstance[*merging.Executor](container, executor)
	ectoinject.RegisterInstance[*merging.Resolver](container, resolver)
	ectoinject.RegisterInstance[*sweep.Sweeper](container, sweeper)
	if emitter != nil {
		ectoinject.RegisterInstance[*events.Emitter](container, emitter)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	checker := health.NewChecker(writer, reader, version)
	checker.RegisterRoutes(e)

	api := e.Group("/api/v1")
	if cfg.AuthEnabled {
		api.Use(middleware.Authentication(logger, cfg.AuthIssuerURL, cfg.AuthClientID))
	}
	campaignroutes.Register(api.Group("/campaigns"))
	mergeroutes.Register(api)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		checker.SetReady(true)
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()
	logger.WithField("port", cfg.Port).Infof("%s listening on port %d", cfg.AppName, cfg.Port)

	<-ctx.Done()
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shut down HTTP server cleanly")
	}
}

// bootDependency adapts closures to the startup dependency graph
type bootDependency struct {
	name  string
	deps  []string
	start func(ctx context.Context) error
	stop  func(ctx context.Context) error
}

func (d *bootDependency) GetName() string {
	return d.name
}

func (d *bootDependency) DependsOn() []string {
	return d.deps
}

func (d *bootDependency) Start(ctx context.Context) error {
	if d.start == nil {
		return nil
	}
	return d.start(ctx)
}

func (d *bootDependency) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	return d.stop(ctx)
}

func newLogger(cfg config.Config) ectologger.Logger {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func initTracing(ctx context.Context, cfg config.Config, logger ectologger.Logger) func() {
	if !cfg.TracingEnabled {
		tracing.SetTracer(otel.Tracer(cfg.AppName))
		return func() {}
	}

	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: cfg.OTLPEndpoint,
		Protocol: cfg.OTLPProtocol,
		Insecure: true,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to create OTLP exporter; tracing disabled")
		tracing.SetTracer(otel.Tracer(cfg.AppName))
		return func() {}
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	tracing.SetTracer(provider.Tracer(cfg.AppName))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to shut down tracer provider")
		}
	}
}

func connect(cfg config.Config, host string, port string, user string, password string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, cfg.DatabaseName, cfg.DatabaseSSLMode,
	)

	db, err := sqlx.Connect(cfg.DatabaseDriver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)
	return db, nil
}

func runMigrations(cfg config.Config, logger ectologger.Logger, db *sqlx.DB) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return err
	}

	service := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	return service.Migrate(cfg.DatabaseName, driver)
}
