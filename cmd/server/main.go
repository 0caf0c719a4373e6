package main

import (
	"context"
	"database/sql"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kiryu-dev/battleship/internal/adapters/postgres"
	"github.com/kiryu-dev/battleship/internal/adapters/webapi"
	"github.com/kiryu-dev/battleship/internal/config"
	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/kiryu-dev/battleship/internal/transport/ws"
	"github.com/kiryu-dev/battleship/internal/usecase/game"
	"github.com/kiryu-dev/battleship/internal/usecase/hub"
	"github.com/kiryu-dev/battleship/internal/usecase/match"
	"github.com/kiryu-dev/battleship/internal/usecase/synchronizer"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPort     = "8080"
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	cfgPath := flag.String("config", "./config.yml", "path to config")
	flag.Parse()
	if os.Getenv("STAGE") != "prod" {
		// .env is optional outside production
		_ = godotenv.Load(".env")
	}
	cfg, err := config.New(*cfgPath)
	if err != nil {
		panic(err)
	}
	logger, err := newLogger(cfg.Log.Debug)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	serverName := os.Getenv("SERVER_NAME")
	if serverName == "" {
		if serverName, err = os.Hostname(); err != nil {
			logger.Fatal(err.Error())
		}
	}
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = defaultPort
	}
	db, results, err := newResultsRepository(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal(err.Error())
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.Go(func() error {
		select {
		case s := <-sigChan:
			return errors.Errorf("captured signal: %v", s)
		case <-ctx.Done():
			return nil
		}
	})
	settings := match.Settings{
		GridSize: cfg.Game.GridSize,
		Fleet:    cfg.Game.Fleet,
		Variant:  cfg.Game.Variant,
		Opponent: cfg.Game.Opponent,
	}
	var (
		repo   = webapi.New()
		sync   = synchronizer.New(repo, cfg.Servers, serverName, logger)
		game   = game.New(logger)
		hub    = hub.New(game, results, settings, cfg.Game.Seed, logger)
		server = ws.New(net.JoinHostPort("", port), hub, sync, logger)
	)
	errGroup.Go(func() error {
		server.ListenAndServe(ctx)
		return nil
	})
	if err := errGroup.Wait(); err != nil {
		logger.Info("gracefully shutting down the server: " + err.Error())
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	err = server.Shutdown(shutdownCtx)
	if db != nil {
		err = multierr.Append(err, db.Close())
	}
	if err != nil {
		logger.Info("failed to shutdown: " + err.Error())
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newResultsRepository connects to postgres when a url is configured and
// falls back to logging results otherwise. PSQL_URL overrides the config.
func newResultsRepository(url string, logger *zap.Logger) (*sql.DB, domain.ResultsRepository, error) {
	if envURL := os.Getenv("PSQL_URL"); envURL != "" {
		url = envURL
	}
	if url == "" {
		logger.Warn("database url is not set, match results are only logged")
		return nil, postgres.NewNop(logger), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	db, err := postgres.Connect(ctx, url)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "connect to postgres")
	}
	if err := postgres.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, errors.WithMessage(err, "migrate")
	}
	ipNet, err := postgres.LocalIPNet()
	if err != nil {
		_ = db.Close()
		return nil, nil, errors.WithMessage(err, "detect server ip")
	}
	results := postgres.New(db, ipNet, logger)
	if wins, err := results.CountWins(ctx, domain.PlayerSide); err == nil {
		logger.Info("recorded player wins", zap.String("server_ip", ipNet.String()), zap.Int64("wins", wins))
	}
	return db, results, nil
}
