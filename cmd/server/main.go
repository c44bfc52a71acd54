package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/Esyonel/vural-enerji-sub001/internal/application/catalog"
	identityapp "github.com/Esyonel/vural-enerji-sub001/internal/application/identity"
	inquiryapp "github.com/Esyonel/vural-enerji-sub001/internal/application/inquiry"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/auth"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/cache"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/config"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/logger"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/migration"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/persistence"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/printing"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/storage"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/telemetry"
	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/handler"
	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/middleware"
	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/router"
	"github.com/Esyonel/vural-enerji-sub001/migrations"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/Esyonel/vural-enerji-sub001/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Solar Package Catalog API
//	@version		1.0
//	@description	Catalog of solar packages and products, bill based package recommendation and customer quote requests.

//	@contact.name	API Support
//	@contact.url	https://github.com/Esyonel/vural-enerji-sub001

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin bearer token. Format: "Bearer {token}"

func main() {
	hashPassword := flag.String("hash-password", "", "Print the bcrypt hash of the given admin password and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}

	// Bootstrap logger until the OTLP log core is available
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	collector := telemetry.Collector{
		Endpoint:       cfg.Telemetry.CollectorEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.App.Version,
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Collector: collector,
		Enabled:   cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}

	log, err := logger.New(logCfg, loggerProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	_ = bootLog.Sync()
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting solar catalog",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Collector:     collector,
		Enabled:       cfg.Telemetry.Enabled,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	if cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
		ProfileTypes:      cfg.Profiling.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiling", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Collector:      collector,
		Enabled:        cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		ExportInterval: cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg.Database.DSN(), log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.Open(ctx, &cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	poolMetrics, err := telemetry.RegisterDBPoolMetrics(meter, db.SQL())
	if err != nil {
		log.Fatal("Failed to register pool metrics", zap.Error(err))
	}

	// Recommendation cache; Redis also backs token revocation and rate limiting
	recommendationCache, err := cache.NewRecommendationCacheFactory(cfg.Redis, cfg.Cache,
		cache.WithLogger(log),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to create recommendation cache", zap.Error(err))
	}
	var redisClient *redis.Client
	if rc, ok := recommendationCache.(*cache.RedisRecommendationCache); ok {
		redisClient = rc.Client()
		defer func() {
			if err := rc.Close(); err != nil {
				log.Warn("Error closing Redis client", zap.Error(err))
			}
		}()
	}

	imageStorage, err := newImageStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	packageRepo := persistence.NewGormSolarPackageRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRequestRepository(db.DB)

	// Services
	recommendationMetrics, err := telemetry.NewRecommendationMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create recommendation metrics", zap.Error(err))
	}
	packageService := catalogapp.NewPackageService(packageRepo, productRepo, recommendationCache)
	packageService.SetLogger(log)
	packageService.SetRecorder(recommendationMetrics)

	productService := catalogapp.NewProductService(productRepo, recommendationCache)
	productService.SetLogger(log)

	importService := catalogapp.NewProductImportService(productRepo, recommendationCache)
	importService.SetLogger(log)

	imageService := catalogapp.NewProductImageService(productRepo, imageStorage, recommendationCache,
		catalogapp.ProductImageServiceConfig{
			UploadURLExpiry: cfg.Storage.PresignExpiration,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
			MaxImageSize:    cfg.Storage.MaxImageSize,
		},
	)
	imageService.SetLogger(log)

	offerPrinter, closePrinter, err := newOfferPrinter(cfg.Printing, log)
	if err != nil {
		log.Fatal("Failed to initialize offer printing", zap.Error(err))
	}
	defer closePrinter()
	offerService := catalogapp.NewOfferService(packageRepo, offerPrinter,
		time.Duration(cfg.Printing.OfferValidDays)*24*time.Hour)
	offerService.SetLogger(log)

	quoteService := inquiryapp.NewQuoteService(quoteRepo, packageRepo, log)

	var revocations auth.RevocationList = auth.NewInMemoryRevocationList()
	if redisClient != nil {
		revocations = auth.NewRedisRevocationList(redisClient)
	}
	jwtService := auth.NewJWTService(cfg.Auth)
	authService := identityapp.NewAuthService(cfg.Auth, jwtService, revocations, log)

	// Handlers
	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, checks)
	handlers := router.Handlers{
		Packages: handler.NewSolarPackageHandler(packageService),
		Products: handler.NewProductHandler(productService, imageService),
		Imports:  handler.NewProductImportHandler(importService),
		Offers:   handler.NewOfferHandler(offerService),
		Quotes:   handler.NewQuoteHandler(quoteService),
		Auth:     handler.NewAuthHandler(authService),
		System:   systemHandler,
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.HSTSEnabled = cfg.App.Env == "production"

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		}),
		middleware.SpanEnricher(),
		logger.GinMiddleware(log),
		middleware.Secure(securityCfg),
		middleware.CORS(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		httpMetrics,
	)
	if cfg.HTTP.RateLimitEnabled {
		var limiter middleware.Limiter = middleware.NewMemoryLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		if redisClient != nil {
			limiter = middleware.NewRedisLimiter(redisClient, "solar:ratelimit:", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		}
		engine.Use(middleware.RateLimit(limiter, log))
	}

	requireAdmin := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:  jwtService,
		Revocations: revocations,
		Logger:      log,
	})

	engine.GET("/health", systemHandler.Health)
	engine.NoRoute(systemHandler.NoRoute)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, requireAdmin),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	router.New(engine, requireAdmin, router.WithAPIVersion("v1")).Mount(router.API(handlers)...)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := poolMetrics.Unregister(); err != nil {
		log.Warn("Failed to unregister pool metrics", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runMigrations applies the embedded migrations over a dedicated connection,
// which the migrator closes when done
func runMigrations(dsn string, log *zap.Logger) error {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	m, err := migration.Open(sqlDB, migration.Embedded(migrations.FS), log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

// newImageStorage returns S3 storage when enabled and the local stub otherwise
func newImageStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (catalogapp.ObjectStorageService, error) {
	if !cfg.Enabled {
		log.Warn("Object storage disabled, image uploads use the local stub")
		return storage.NewStubImageStorage(cfg.PublicBaseURL), nil
	}

	s3Storage, err := storage.NewS3ImageStorage(&cfg,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.PresignExpiration),
	)
	if err != nil {
		return nil, err
	}

	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s3Storage.EnsureBucket(bucketCtx); err != nil {
		return nil, err
	}
	log.Info("Object storage ready", zap.String("bucket", s3Storage.Bucket()))
	return s3Storage, nil
}

// newOfferPrinter returns the Chrome backed offer printer when printing is
// enabled; otherwise a nil printer and offers answer 503
func newOfferPrinter(cfg config.PrintingConfig, log *zap.Logger) (catalogapp.OfferPrinter, func(), error) {
	if !cfg.Enabled {
		log.Info("Offer printing disabled")
		return nil, func() {}, nil
	}

	renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
		DefaultTimeout: cfg.Timeout,
		RemoteURL:      cfg.ChromeRemoteURL,
		NoSandbox:      cfg.NoSandbox,
		Logger:         log.Named("printing"),
	})
	printer, err := printing.NewOfferPrinter(renderer, printing.OfferPrinterConfig{
		CompanyName: cfg.CompanyName,
		Language:    cfg.Language,
	})
	if err != nil {
		_ = renderer.Close()
		return nil, nil, err
	}
	log.Info("Offer printing ready", zap.String("language", cfg.Language), zap.Bool("remote_chrome", cfg.ChromeRemoteURL != ""))
	return printer, func() { _ = renderer.Close() }, nil
}
