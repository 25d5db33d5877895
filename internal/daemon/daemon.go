package daemon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nursequest/nursequest/internal/api"
	"github.com/nursequest/nursequest/internal/app/economy"
	"github.com/nursequest/nursequest/internal/domain"
	"github.com/nursequest/nursequest/internal/health"
	"github.com/nursequest/nursequest/internal/infra/catalog"
	"github.com/nursequest/nursequest/internal/infra/guard"
	"github.com/nursequest/nursequest/internal/infra/memstore"
	"github.com/nursequest/nursequest/internal/infra/redisstore"
	"github.com/nursequest/nursequest/internal/infra/sqlite"
	"github.com/nursequest/nursequest/internal/logger"
)

// Daemon is the nursequest runtime. It wires the store, the engine and the
// HTTP server for one profile.
type Daemon struct {
	Config Config
	Log    *logger.Logger
	Store  domain.Store
	Engine *economy.Engine
	Server *api.Server
	Health *health.Checker
	cancel context.CancelFunc
}

// New loads the config and creates a Daemon.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	log, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if created, err := EnsureProfileID(&cfg); err != nil {
		log.Warn("profile id not persisted", "error", err)
	} else if created {
		log.Info("created profile", "profile", cfg.Profile.ID)
	}

	store, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	log.Info("store opened", "backend", cfg.Store.Backend)

	engCfg, err := engineConfig(cfg.Economy)
	if err != nil {
		closeStore(store)
		return nil, err
	}

	sess := economy.NewSession(store,
		economy.WithProfile(cfg.Profile.ID),
		economy.WithPremium(cfg.Profile.Premium),
		economy.WithLevelCap(cfg.Economy.LevelCap),
		economy.WithLogger(log),
	)
	eng, err := economy.NewEngine(sess, engCfg)
	if err != nil {
		closeStore(store)
		return nil, fmt.Errorf("init engine: %w", err)
	}

	dataDir := ""
	if cfg.Store.Backend == "" || cfg.Store.Backend == "sqlite" {
		dataDir = cfg.Store.Dir
	}
	checker := health.NewChecker(store, dataDir)

	srv := api.NewServer(eng, log)
	srv.SetHealth(checker)
	if cfg.API.Metrics {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config: cfg,
		Log:    log,
		Store:  store,
		Engine: eng,
		Server: srv,
		Health: checker,
	}, nil
}

// OpenStore opens the configured key-value backend.
func OpenStore(cfg StoreConfig) (domain.Store, error) {
	switch cfg.Backend {
	case "", "sqlite":
		dir := cfg.Dir
		if dir == "" {
			dir = nursequestHome()
		}
		db, err := sqlite.Open(dir)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return db, nil
	case "redis":
		rs, err := redisstore.Open(redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		// A down Redis fails fast instead of stalling every request.
		return guard.Wrap(rs, guard.DefaultConfig()), nil
	case "memory":
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// engineConfig loads catalogs and tool limits.
func engineConfig(cfg EconomyConfig) (economy.Config, error) {
	cards, err := catalog.LoadCards(cfg.CardsFile)
	if err != nil {
		return economy.Config{}, fmt.Errorf("load cards: %w", err)
	}
	questions, err := catalog.LoadQuestions(cfg.QuestionsFile)
	if err != nil {
		return economy.Config{}, fmt.Errorf("load questions: %w", err)
	}
	compat, err := catalog.LoadCompat(cfg.CompatFile)
	if err != nil {
		return economy.Config{}, fmt.Errorf("load compat table: %w", err)
	}

	limits := economy.DefaultToolLimits()
	for name, n := range cfg.ToolLimits {
		tool := domain.Tool(name)
		if _, ok := limits[tool]; !ok {
			return economy.Config{}, fmt.Errorf("%w: tool_limits.%s", domain.ErrUnknownTool, name)
		}
		limits[tool] = n
	}

	return economy.Config{
		Cards:      cards,
		Questions:  questions,
		Compat:     compat,
		ToolLimits: limits,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go d.Health.Run(ctx)

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		closeStore(d.Store)
	}()

	d.Log.Info("serving", "addr", "http://"+addr, "profile", d.Config.Profile.ID, "premium", d.Config.Profile.Premium)
	if d.Config.API.Metrics {
		d.Log.Info("metrics enabled", "url", "http://"+addr+"/metrics")
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	closeStore(d.Store)
	if d.Log != nil {
		d.Log.Sync()
	}
}

func closeStore(s domain.Store) {
	if c, ok := s.(io.Closer); ok {
		_ = c.Close()
	}
}
