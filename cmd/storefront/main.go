package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/inmobiliaria/storefront/config"
	"github.com/inmobiliaria/storefront/internal/chat"
	"github.com/inmobiliaria/storefront/internal/configstore"
	"github.com/inmobiliaria/storefront/internal/localstate"
	"github.com/inmobiliaria/storefront/internal/logger"
	"github.com/inmobiliaria/storefront/internal/properties"
	"github.com/inmobiliaria/storefront/internal/store"
	"github.com/inmobiliaria/storefront/internal/tui"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to the config file (default ~/.storefront/config.yaml)")
		migrateFlag = flag.Bool("migrate", false, "Create the Postgres config table and exit")
		writeConfig = flag.Bool("write-config", false, "Write the effective config file and exit")
		metricsAddr = flag.String("metrics-addr", "", "Serve prometheus metrics on this address")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	if *writeConfig {
		if err := cfg.Save(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config written")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run migrations if requested
	if *migrateFlag {
		if err := runMigrations(ctx, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running migrations: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations completed successfully")
		return
	}

	// The terminal belongs to the TUI, so logs go to a file
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating log directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.WithLevel(logger.New("storefront", logFile), cfg.Log.Level)

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Stack().Err(err).Msg("storefront exited")
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	timeout := time.Duration(cfg.Chat.RequestTimeoutSeconds) * time.Second

	configGateway, closeConfig, err := openConfigStore(ctx, cfg, timeout, log)
	if err != nil {
		return err
	}
	defer closeConfig()

	local, err := localstate.Open(cfg.LocalState.Path)
	if err != nil {
		return err
	}
	defer local.Close()

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, log)
		defer srv.Shutdown(context.Background())
	}

	st := store.New(store.Deps{
		Config:     configGateway,
		Properties: properties.NewFetcher(timeout),
		Chat:       chat.NewClient(chat.WithTimeout(timeout)),
		Local:      local,
	},
		store.WithLogger(log),
		store.WithTypingDelay(time.Duration(cfg.Chat.TypingDelayMillis)*time.Millisecond),
		store.WithRequestTimeout(timeout),
	)
	defer st.Close()

	// A broken local state only costs the cached session
	if err := st.Restore(); err != nil {
		log.Warn().Err(err).Msg("starting without local state")
	}

	log.Info().Str("backend", cfg.ConfigStore.Backend).Msg("storefront started")
	return tui.NewApp(ctx, st, log).Run()
}

// openConfigStore builds the configured config document backend
func openConfigStore(ctx context.Context, cfg *config.Config, timeout time.Duration, log zerolog.Logger) (configstore.Gateway, func(), error) {
	switch cfg.ConfigStore.Backend {
	case config.BackendPostgres:
		pg, err := configstore.NewPostgres(ctx, cfg.ConfigStore.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		// the table might already exist; reads fall back to defaults either way
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("migration check failed")
		}
		return pg, pg.Close, nil
	default:
		cs := cfg.ConfigStore
		return configstore.NewNocoDB(cs.URL, cs.APIKey, cs.Table, timeout), func() {}, nil
	}
}

// runMigrations creates the config table of the Postgres backend
func runMigrations(ctx context.Context, cfg *config.Config) error {
	if cfg.ConfigStore.Backend != config.BackendPostgres {
		return errors.New("migrations only apply to the postgres config backend")
	}
	pg, err := configstore.NewPostgres(ctx, cfg.ConfigStore.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pg.Close()

	return pg.EnsureSchema(ctx)
}

func serveMetrics(addr string, log zerolog.Logger) *http.Server {
	root := mux.NewRouter()
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	srv := &http.Server{Addr: addr, Handler: root, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	return srv
}
