package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"

	"go.hackfix.me/purr/app/config"
	actx "go.hackfix.me/purr/app/context"
	"go.hackfix.me/purr/cli"
	"go.hackfix.me/purr/db"
	"go.hackfix.me/purr/db/redis"
)

// RedisPasswordEnvVar is the environment variable the Redis password is read
// from. It's never stored in the configuration file.
const RedisPasswordEnvVar = "PURR_REDIS_PASSWORD"

// App is the application.
type App struct {
	name string
	ctx  *actx.Context
	cli  *cli.CLI
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application.
func New(name, configFilePath, dataDir string, opts ...Option) (*App, error) {
	version, err := actx.GetVersion()
	if err != nil {
		return nil, err
	}

	defaultCtx := &actx.Context{
		Ctx:     context.Background(),
		FS:      memoryfs.New(),
		Logger:  slog.Default(),
		Stdout:  io.Discard,
		Stderr:  io.Discard,
		TimeNow: time.Now,
		Version: version,
	}
	app := &App{name: name, ctx: defaultCtx}

	for _, opt := range opts {
		opt(app)
	}

	ver := fmt.Sprintf("%s %s", app.name, app.ctx.Version.String())
	app.cli, err = cli.New(configFilePath, dataDir, ver)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run initializes the application environment and starts execution of the
// application.
func (app *App) Run(args []string) (err error) {
	if err = app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
		slog.SetLogLoggerLevel(app.cli.Log.Level)
	}

	if app.ctx.Config == nil {
		app.ctx.Config = config.NewConfig(app.ctx.FS, app.cli.ConfigFile)
		if err = app.ctx.Config.Load(); err != nil {
			return err
		}
		app.ctx.Config.SetDefaults()
		// Write the defaults on first run, so they're easy to change.
		if !app.ctx.Config.Stored() {
			if err = app.ctx.Config.Save(); err != nil {
				return err
			}
			app.ctx.Logger.Debug("wrote default configuration", "path", app.ctx.Config.Path())
		}
	}
	app.ctx.Config.SetDefaults()
	app.cli.ApplyConfig(app.ctx.Config)

	if app.ctx.Store == nil && app.cli.NeedsStore() {
		closeStore, serr := app.openStore()
		if serr != nil {
			return serr
		}
		defer func() {
			if cerr := closeStore(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("failed closing store: %w", cerr))
			}
			app.ctx.Store = nil
		}()
	}

	return app.cli.Execute(app.ctx)
}

// openStore opens the cat store configured for the application, and returns
// a function that closes it.
func (app *App) openStore() (func() error, error) {
	storeCfg := app.ctx.Config.Store
	logger := app.ctx.Logger.With("component", "store", "backend", storeCfg.Backend.V)

	switch storeCfg.Backend.V {
	case config.StoreRedis:
		var password string
		if app.ctx.Env != nil {
			password = app.ctx.Env.Get(RedisPasswordEnvVar)
		}
		store := redis.New(storeCfg.RedisAddress.V, password, storeCfg.RedisDB.V,
			redis.WithPrefix(storeCfg.KeyPrefix.V))
		if err := store.Ping(app.ctx.Ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed connecting to Redis at %s: %w", storeCfg.RedisAddress.V, err)
		}
		logger.Debug("connected to store", "address", storeCfg.RedisAddress.V)
		app.ctx.Store = store

		return store.Close, nil
	default:
		if err := app.ctx.FS.MkdirAll(app.cli.DataDir, 0o700); err != nil {
			return nil, fmt.Errorf("failed creating data directory: %w", err)
		}
		dbPath := filepath.Join(app.cli.DataDir, "purr.db")
		d, err := db.Open(app.ctx.Ctx, dbPath, app.ctx.TimeNow)
		if err != nil {
			return nil, err
		}
		if err = d.Init(app.ctx.Version.Semantic, logger); err != nil {
			_ = d.Close()
			return nil, err
		}
		logger.Debug("opened store", "path", dbPath)
		app.ctx.Store = d

		return d.Close, nil
	}
}
