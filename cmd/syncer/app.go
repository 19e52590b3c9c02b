package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"content_syncer/internal/config"
	"content_syncer/internal/filter"
	"content_syncer/internal/notify"
	"content_syncer/internal/publisher"
	"content_syncer/internal/scheduler"
	"content_syncer/internal/service"
	"content_syncer/internal/source/site"
	"content_syncer/internal/storage/diskguard"
	"content_syncer/internal/storage/filelock"
	"content_syncer/internal/storage/jsonfile"
	"content_syncer/internal/storage/postgres"
	"content_syncer/internal/telemetry"
	"content_syncer/internal/wordpress"
)

const serviceName = "content_syncer"

// app holds the wired components shared by all subcommands.
type app struct {
	cfg       *config.Config
	content   *config.Content
	logger    *slog.Logger
	db        *sqlx.DB
	state     scheduler.StateStore
	filters   *filter.Service
	scraper   *service.ScrapeService
	uploader  *service.UploadService
	scheduler *scheduler.Scheduler
	publisher *publisher.RabbitMQ
	shutdown  telemetry.ShutdownFunc
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	shutdown, err := telemetry.Setup(ctx, serviceName, telemetry.Config{
		MetricsEndpoint: cfg.Telemetry.MetricsEndpoint,
		Headers:         cfg.Telemetry.Headers,
		Interval:        cfg.Telemetry.Interval,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}
	a.shutdown = shutdown

	content, err := config.LoadContent(cfg.ContentFile)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("load content: %w", err)
	}
	a.content = content

	if err := a.wire(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg
	logger := a.logger

	locker := filelock.New(filelock.Config{
		Attempts: cfg.Storage.Lock.Attempts,
		Timeout:  cfg.Storage.Lock.Timeout,
		Backoff:  cfg.Storage.Lock.Backoff,
	}, logger)
	guard := diskguard.New(newNotifier(cfg.Notify), logger)

	var txManager *postgres.TransactionManager
	if cfg.UsesPostgres() {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return fmt.Errorf("ping database: %w", err)
		}
		logger.Info("connected to database")
		a.db = db
		txManager = postgres.NewTransactionManager(db)
	}

	var (
		records service.RecordStore
		tx      service.TransactionManager
	)
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		records = postgres.NewRecordStore(a.db, txManager)
		tx = txManager
	default:
		store := jsonfile.NewStore(jsonfile.Layout{
			RawDir:      cfg.Paths.RawDir,
			ScrapersDir: cfg.Paths.ScrapersDir,
			FilteredDir: cfg.Paths.FilteredDir,
			UploadedDir: cfg.Paths.UploadedDir,
		}, locker, guard, logger)
		records = store
		tx = store
	}

	switch cfg.Scheduler.StateBackend {
	case config.BackendPostgres:
		a.state = postgres.NewJobStateStore(a.db, txManager)
	default:
		a.state = scheduler.NewFileStateStore(cfg.Paths.StateFile, locker, guard, logger)
	}

	var tags wordpress.TagCache = wordpress.NewMemoryTagCache()
	if cfg.WordPress.TagCache == config.BackendPostgres {
		tags = postgres.NewTagCache(a.db)
	}

	pipeline := filter.NewPipeline(filterTables(a.content), filter.Config{
		DuplicateThreshold: cfg.Filters.DuplicateThreshold,
		HistoryThreshold:   cfg.Filters.HistoryThreshold,
		MaxAgeDays:         cfg.Filters.MaxAgeDays,
		HistoryDays:        cfg.Filters.HistoryDays,
	}, records, logger)
	a.filters = filter.NewService(records, pipeline, logger)

	scraper, err := site.New(site.Config{
		Timeout:          cfg.Scraper.Timeout,
		RetryCount:       cfg.Scraper.RetryCount,
		RetryWait:        cfg.Scraper.RetryWait,
		UserAgent:        cfg.Scraper.UserAgent,
		CloudflareBypass: cfg.Scraper.CloudflareBypass,
		ImageDir:         cfg.Paths.ImageDir,
	}, guard, logger)
	if err != nil {
		return fmt.Errorf("create scraper: %w", err)
	}
	methods := map[string]service.SiteMethod{
		site.MethodHTTP:    scraper,
		"method_lxml":      scraper,
		site.MethodBrowser: site.Browser{},
		"method_selenium":  site.Browser{},
	}
	planner := service.NewSitePlanner(a.content.Schedules, a.state, logger)
	a.scraper = service.NewScrapeService(planner, a.content.Sites, methods, records, tx, logger)

	destinations := make([]service.WordPress, 0, len(cfg.WordPress.Destinations))
	for _, d := range cfg.WordPress.Destinations {
		destinations = append(destinations, wordpress.NewClient(wordpress.Destination{
			Name:            d.Name,
			BaseURL:         d.BaseURL,
			Username:        d.Username,
			Password:        d.Password,
			DefaultCategory: d.DefaultCategory,
		}, cfg.WordPress.Timeout, logger))
	}

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		a.publisher = rabbitMQ
		pub = rabbitMQ
	}

	a.uploader = service.NewUploadService(a.filters, records, destinations, tags, pub, a.content, logger)
	a.scheduler = scheduler.NewScheduler(service.Actions(a.scraper, a.uploader), a.state, logger)
	return nil
}

func (a *app) close(ctx context.Context) {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq", "error", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			a.logger.Warn("failed to shut down telemetry", "error", err)
		}
	}
}

// newNotifier returns nil for "none", which turns a full disk into an error.
func newNotifier(cfg config.NotifyConfig) diskguard.Notifier {
	switch cfg.Method {
	case "email":
		return notify.NewEmail(notify.SMTPConfig{
			Server:   cfg.SMTP.Server,
			Port:     cfg.SMTP.Port,
			From:     cfg.SMTP.From,
			Password: cfg.SMTP.Password,
			To:       cfg.SMTP.To,
		}, cfg.RetryDelay)
	case "none":
		return nil
	default:
		return notify.NewTerminal(os.Stdin, os.Stdout)
	}
}

func filterTables(content *config.Content) filter.Tables {
	priorities := make([]filter.SitePriority, 0, len(content.SitePriorities))
	for _, p := range content.SitePriorities {
		if len(p.Sites) != 2 {
			continue
		}
		priorities = append(priorities, filter.SitePriority{
			Sites: [2]string{p.Sites[0], p.Sites[1]},
			Drop:  p.Drop,
		})
	}
	return filter.Tables{
		BannedWords:      content.BannedWords,
		ModelCorrections: content.ModelCorrections,
		SitePriorities:   priorities,
		PromoLinks:       content.PromoLinks,
	}
}

// registerJobs registers the configured jobs. A job without an action
// runs scrape_upload, and its job_id keyword defaults to its own ID.
func registerJobs(ctx context.Context, sched *scheduler.Scheduler, jobs []config.JobConfig) error {
	var errs []error
	for _, j := range jobs {
		action := scheduler.Action{Name: j.Action, Args: j.Args, Kwargs: map[string]string{}}
		if action.Name == "" {
			action.Name = service.ActionScrapeUpload
		}
		for k, v := range j.Kwargs {
			action.Kwargs[k] = v
		}
		if _, ok := action.Kwargs["job_id"]; !ok && j.ID != "" {
			action.Kwargs["job_id"] = j.ID
		}

		b := sched.Every(j.Every).Unit(scheduler.Unit(j.Unit)).WithID(j.ID)
		if j.At != "" {
			b = b.At(j.At)
		}
		if j.On != "" {
			b = b.On(j.On)
		}

		if _, err := b.Do(ctx, action); err != nil {
			errs = append(errs, fmt.Errorf("register job %s: %w", j.ID, err))
		}
	}
	return errors.Join(errs...)
}
