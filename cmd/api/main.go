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

	"appraisal_portal_backend/internal/adapters"
	"appraisal_portal_backend/internal/adapters/storage"
	"appraisal_portal_backend/internal/availability"
	availsvc "appraisal_portal_backend/internal/availability/service"
	"appraisal_portal_backend/internal/calendar"
	"appraisal_portal_backend/internal/catalog"
	"appraisal_portal_backend/internal/discounts"
	discountrepo "appraisal_portal_backend/internal/discounts/repository"
	discountsvc "appraisal_portal_backend/internal/discounts/service"
	"appraisal_portal_backend/internal/email"
	apphttp "appraisal_portal_backend/internal/http"
	"appraisal_portal_backend/internal/http/router"
	"appraisal_portal_backend/internal/jobs"
	jobrepo "appraisal_portal_backend/internal/jobs/repository"
	jobsvc "appraisal_portal_backend/internal/jobs/service"
	"appraisal_portal_backend/internal/pricing"
	pricingrepo "appraisal_portal_backend/internal/pricing/repository"
	pricingsvc "appraisal_portal_backend/internal/pricing/service"
	"appraisal_portal_backend/internal/properties"
	"appraisal_portal_backend/internal/scheduler"
	"appraisal_portal_backend/internal/submission"
	"appraisal_portal_backend/internal/wizard"
	wizardsvc "appraisal_portal_backend/internal/wizard/service"
	"appraisal_portal_backend/internal/wizard/store"
	"appraisal_portal_backend/migrations"
	"appraisal_portal_backend/platform/config"
	"appraisal_portal_backend/platform/db"
	"appraisal_portal_backend/platform/logger"
	"appraisal_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, migrations.FS, log)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender, err := email.NewSender(cfg, cfg.GetBusinessName())
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	cal, err := calendar.New(ctx, cfg, cfg.GetBusinessLocation(), log)
	if err != nil {
		log.Error("failed to initialize calendar", "error", err)
		panic("failed to initialize calendar: " + err.Error())
	}

	sessions, closeSessions := initSessionStore(ctx, cfg, log)
	if closeSessions != nil {
		defer closeSessions()
	}

	// Shared validator instance for dependency injection
	val := validator.New()
	services := catalog.Default()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	tierRepo := pricingrepo.New(pool)
	priceResolver := pricingsvc.New(tierRepo, services, log)
	pricingModule := pricing.NewModule(priceResolver, pricingsvc.NewAdmin(tierRepo, priceResolver, services, log), val)

	discountRepo := discountrepo.New(pool)
	discountResolver := discountsvc.NewResolver(discountRepo, log)
	discountsModule := discounts.NewModule(discountResolver, discountsvc.NewAdmin(discountRepo, log), val)

	checker := availsvc.New(cal, cfg.GetBusinessLocation(), log)
	availabilityModule := availability.NewModule(checker, val)

	var jobOpts []jobsvc.Option
	var storageSvc *storage.MinIOService
	bucket := cfg.GetMinioBucketQuotePDFs()
	if cfg.IsMinIOEnabled() {
		storageSvc, err = storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure quote-pdfs bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		jobOpts = append(jobOpts, jobsvc.WithQuotePDFs(storageSvc, bucket))
		log.Info("storage service initialized", "quotePDFsBucket", bucket)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; quote PDFs will not be archived")
	}

	jobService := jobsvc.New(jobrepo.New(pool), log, jobOpts...)
	var archiver submission.Archiver
	if storageSvc != nil {
		archiver = adapters.NewQuoteArchiver(storageSvc, bucket, jobService)
	}
	jobsModule := jobs.NewModule(jobService, val)

	submitter := submission.New(submission.Deps{
		Pricer:       priceResolver,
		Discounts:    discountResolver,
		Jobs:         jobService,
		Calendar:     cal,
		Notifier:     sender,
		Archiver:     archiver,
		Reminders:    reminderScheduler,
		Catalog:      services,
		BusinessName: cfg.GetBusinessName(),
		Location:     cfg.GetBusinessLocation(),
		Log:          log,
	})

	debouncer := discountsvc.NewDebouncer(cfg.GetDiscountDebounce())
	defer debouncer.Close()

	wizardModule := wizard.NewModule(wizardsvc.New(wizardsvc.Deps{
		Store:        sessions,
		Catalog:      services,
		Pricer:       priceResolver,
		Availability: checker,
		Discounts:    discountResolver,
		Debouncer:    debouncer,
		Submitter:    submitter,
		Log:          log,
	}), val)

	propertiesModule := properties.NewModule(properties.NewService(properties.NewHTTPLookup(cfg), log))

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: pool,
		Modules: []apphttp.Module{
			propertiesModule,
			catalog.NewModule(services),
			pricingModule,
			availabilityModule,
			discountsModule,
			wizardModule,
			jobsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; appointment reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

// initSessionStore keeps quote sessions in Redis when configured, otherwise
// in process memory.
func initSessionStore(ctx context.Context, cfg config.SessionConfig, log *logger.Logger) (store.Store, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; quote sessions kept in memory")
		return store.NewMemoryStore(cfg.GetSessionTTL()), nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL", "error", err)
		panic("invalid REDIS_URL: " + err.Error())
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis not reachable at startup", "error", err)
	}

	return store.NewRedisStore(client, cfg.GetSessionTTL()), func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
