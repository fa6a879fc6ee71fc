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

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"leadgen-api/internal/auth"
	"leadgen-api/internal/config"
	apphttp "leadgen-api/internal/http"
	"leadgen-api/internal/llm"
	"leadgen-api/internal/metrics"
	"leadgen-api/internal/repository/sqlite"
	"leadgen-api/internal/service"
	"leadgen-api/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("server: %v", err)
	}
	logger.Info("bye")
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	userRepo := sqlite.NewUserRepository(db)
	leadRepo := sqlite.NewLeadRepository(db)
	contactRepo := sqlite.NewContactRepository(db)
	templateRepo := sqlite.NewTemplateRepository(db)

	codec, err := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.TokenTTL())
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}
	userService, err := service.NewUserService(userRepo, auth.NewBcryptHasher(cfg.Auth.BcryptCost), codec)
	if err != nil {
		return fmt.Errorf("user service: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	archive, err := buildArchive(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("setup storage: %w", err)
	}

	researchService := service.NewResearchService(service.ResearchDeps{
		Generator: buildGenerator(cfg, logger),
		Leads:     leadRepo,
		Templates: templateRepo,
		Archive:   archive,
		Metrics:   appMetrics,
		Logger:    logger,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.Deps{
		Users:       userService,
		Leads:       service.NewLeadService(leadRepo),
		Contacts:    service.NewContactService(contactRepo, leadRepo),
		Templates:   service.NewTemplateService(templateRepo),
		Research:    researchService,
		Resolver:    auth.NewResolver(codec, userRepo),
		Metrics:     appMetrics,
		Gatherer:    registry,
		Logger:      logger,
		CORSOrigins: cfg.CORS.Origins,
		SSLRedirect: cfg.Server.SSLRedirect,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("http shutdown: %v", err)
		}
		return nil
	})

	return g.Wait()
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func buildGenerator(cfg config.Config, logger *logrus.Logger) llm.Generator {
	if cfg.LLM.APIKey == "" {
		logger.Warn("llm api key not set; AI endpoints will fail")
		return nil
	}
	client, err := llm.NewClient(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLMTimeout(),
	})
	if err != nil {
		logger.Warnf("llm client disabled: %v", err)
		return nil
	}
	logger.Infof("using text generation model %s", cfg.LLM.Model)
	return client
}

func buildArchive(ctx context.Context, cfg config.Config, logger *logrus.Logger) (service.Archive, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("storage bucket not set; archive disabled")
		return service.Archive{}, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return service.Archive{}, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("archiving to s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return service.Archive{
		Store:  storage.NewS3Service(client),
		Bucket: cfg.Storage.Bucket,
		Prefix: cfg.Storage.KeyPrefix,
	}, nil
}
