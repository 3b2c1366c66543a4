package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/agrobot/internal/cli"
	"github.com/alexanderramin/agrobot/internal/collab"
	"github.com/alexanderramin/agrobot/internal/config"
	"github.com/alexanderramin/agrobot/internal/db"
	"github.com/alexanderramin/agrobot/internal/intent"
	"github.com/alexanderramin/agrobot/internal/logging"
	"github.com/alexanderramin/agrobot/internal/pest"
	"github.com/alexanderramin/agrobot/internal/repository"
	"github.com/alexanderramin/agrobot/internal/resolver"
	"github.com/alexanderramin/agrobot/internal/service"
	"github.com/alexanderramin/agrobot/internal/weather"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// stores groups the per-user repositories of one storage backend.
type stores struct {
	credentials repository.CredentialRepo
	history     repository.HistoryRepo
	themes      repository.UserThemeRepo
	close       func() error
}

func openStores(cfg *config.Config) (*stores, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		database, err := db.OpenDB(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		uow := db.NewSQLiteUnitOfWork(database)
		return &stores{
			credentials: repository.NewSQLiteCredentialRepo(database),
			history:     repository.NewSQLiteHistoryRepoWithUoW(database, uow),
			themes:      repository.NewSQLiteUserThemeRepo(database),
			close:       database.Close,
		}, nil
	default:
		store, err := repository.NewJSONStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening data directory: %w", err)
		}
		return &stores{
			credentials: repository.NewJSONCredentialRepo(store),
			history:     repository.NewJSONHistoryRepo(store),
			themes:      repository.NewJSONUserThemeRepo(store),
			close:       func() error { return nil },
		}, nil
	}
}

func run() error {
	cfg, err := config.Load(config.Options{})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	// Warnings go to the log and to the TUI status line.
	warnings := &service.WarningLog{}
	warner := service.MultiWarner{service.ZapWarner{Logger: logger.Named("storage")}, warnings}
	observer := service.NewZapUseCaseObserver(logger.Named("usecase"))

	credentials := service.NewCredentialService(st.credentials, warner, observer)
	history := service.NewHistoryService(st.history, warner, observer)
	themes := service.NewThemeService(repository.NewJSONCatalogRepo(cfg.ThemesFile), st.themes, warner, observer)

	tables, err := intent.Load(cfg.IntentsFile)
	if err != nil {
		return fmt.Errorf("loading intents: %w", err)
	}
	var matcher *intent.Matcher
	if cfg.RandomSeed != 0 {
		matcher, err = intent.NewSeeded(tables, cfg.RandomSeed)
	} else {
		matcher, err = intent.New(tables, nil)
	}
	if err != nil {
		return fmt.Errorf("building intent matcher: %w", err)
	}

	httpCfg := collab.DefaultConfig()
	if cfg.HTTP.Timeout > 0 {
		httpCfg.Timeout = cfg.HTTP.Timeout
	}
	if cfg.HTTP.UserAgent != "" {
		httpCfg.UserAgent = cfg.HTTP.UserAgent
	}
	client := collab.NewHTTPClient(httpCfg, collab.NewZapObserver(logger.Named("collab")))

	weatherCfg := weather.DefaultConfig()
	if cfg.Geo.URL != "" {
		weatherCfg.GeoURL = cfg.Geo.URL
	}
	if cfg.Weather.BaseURL != "" {
		weatherCfg.BaseURL = cfg.Weather.BaseURL
	}
	weatherCfg.APIKey = cfg.Weather.APIKey
	if weatherCfg.APIKey == "" {
		logger.Warn("weather.api_key is empty; weather questions will fail")
	}

	pestURL := cfg.Pest.URL
	if pestURL == "" {
		pestURL = pest.DefaultURL
	}

	responder := resolver.New(
		weather.NewService(client, weatherCfg),
		pest.NewAdvisor(client, pestURL),
		matcher,
		logger.Named("resolver"),
	)

	app := &cli.App{
		Credentials:   credentials,
		History:       history,
		Themes:        themes,
		Responder:     responder,
		Warnings:      warnings,
		ThinkingDelay: cfg.Chat.ThinkingDelay,
		Logger:        logger.Named("chat"),
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	logger.Info("starting",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("data_dir", cfg.DataDir),
	)
	return cli.NewRootCmd(app).Execute()
}
