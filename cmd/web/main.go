package main

import (
	"context"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/myrjola/dvdcluedo/content"
	"github.com/myrjola/dvdcluedo/internal/broker"
	"github.com/myrjola/dvdcluedo/internal/engine"
	"github.com/myrjola/dvdcluedo/internal/envstruct"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/logging"
	"github.com/myrjola/dvdcluedo/internal/models"
	"github.com/myrjola/dvdcluedo/internal/pprofserver"
	"github.com/myrjola/dvdcluedo/internal/repositories"
	"github.com/myrjola/dvdcluedo/internal/scoring"
	"github.com/myrjola/dvdcluedo/internal/sqlite"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"
)

type application struct {
	logger         *slog.Logger
	database       *sqlite.Database
	sessionManager *scs.SessionManager
	hub            *broker.Hub[string, hostEvent]
	players        *players
	secureCookies  bool
	timeout        time.Duration
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"DVDCLUEDO_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the path to the SQLite database or :memory: for an in-memory database.
	SqliteURL string `env:"DVDCLUEDO_SQLITE_URL" envDefault:"./dvdcluedo.sqlite3"`
	// Catalog is an authored catalog file. The bundled catalog is used when empty.
	Catalog string `env:"DVDCLUEDO_CATALOG" envDefault:""`
	// SolutionsURL is the solutions feed. The bundled solutions are used when empty.
	SolutionsURL string `env:"DVDCLUEDO_SOLUTIONS_URL" envDefault:""`
	// MediaBaseURL overrides the catalog's media location when set.
	MediaBaseURL  string        `env:"DVDCLUEDO_MEDIA_BASE_URL" envDefault:""`
	ShowIntro     bool          `env:"DVDCLUEDO_SHOW_INTRO" envDefault:"true"`
	LoadingDelay  time.Duration `env:"DVDCLUEDO_LOADING_DELAY" envDefault:"1.5s"`
	SecureCookies bool          `env:"DVDCLUEDO_SECURE_COOKIES" envDefault:"true"`
	// SessionLifetime bounds both the browser session and how long an idle game stays in memory.
	SessionLifetime time.Duration `env:"DVDCLUEDO_SESSION_LIFETIME" envDefault:"12h"`
	// PprofAddr serves runtime profiles when set, e.g. localhost:6060.
	PprofAddr string `env:"DVDCLUEDO_PPROF_ADDR" envDefault:""`
}

const defaultTimeout = 5 * time.Second

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg config
		err error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if cfg.PprofAddr != "" {
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	var catalog *models.Catalog
	if catalog, err = content.Load(cfg.Catalog); err != nil {
		return errors.Wrap(err, "load catalog", slog.String("path", cfg.Catalog))
	}
	if cfg.MediaBaseURL != "" {
		catalog.MediaBaseURL = cfg.MediaBaseURL
	}

	var solutions scoring.Table
	if solutions, err = loadSolutions(ctx, cfg.SolutionsURL); err != nil {
		return errors.Wrap(err, "load solutions")
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db", slog.Int("cases", len(catalog.Cases)))

	sessionStore := sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, time.Hour)
	defer sessionStore.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = sessionStore
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.Secure = cfg.SecureCookies
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	hub := broker.NewHub[string, hostEvent]()
	go hub.Start()

	prefs := repositories.NewPlayerValueRepository(db, logger)
	newEngine := func(ctx context.Context, playerID string) (*engine.Engine, error) {
		slot := prefs.ForPlayer(playerID)
		return engine.New(ctx, logger.With(slog.String("player_id", playerID)), engine.Config{
			Catalog:      catalog,
			Host:         newPlayerHost(playerID, hub),
			Saves:        slot,
			Settings:     slot,
			Scheduler:    nil,
			Random:       nil,
			Solutions:    solutions,
			ShowIntro:    cfg.ShowIntro,
			LoadingDelay: cfg.LoadingDelay,
		})
	}
	ps := newPlayers(logger, newEngine)
	go ps.startEvictor(ctx, time.Hour, cfg.SessionLifetime)

	app := application{
		logger:         logger,
		database:       db,
		sessionManager: sessionManager,
		hub:            hub,
		players:        ps,
		secureCookies:  cfg.SecureCookies,
		timeout:        defaultTimeout,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func loadSolutions(ctx context.Context, url string) (scoring.Table, error) {
	if url == "" {
		return content.Solutions()
	}
	client := &http.Client{Timeout: defaultTimeout} //nolint:exhaustruct // defaults
	return scoring.FetchSolutions(ctx, client, url)
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
