package main

import (
	"context"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	auth "github.com/goliatone/go-jobportal"
	"github.com/goliatone/go-jobportal/config"
	"github.com/goliatone/go-jobportal/server"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "database",
			Aliases: []string{"db"},
			Usage:   "Database DSN, overrides " + config.EnvDatabaseDSN,
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level, overrides " + config.EnvLogLevel,
		},
	}
}

func loadConfig(ctx *cli.Context) (config.Config, error) {
	return config.Load(nil, config.Overrides{
		DatabaseDSN: ctx.String("database"),
		LogLevel:    ctx.String("log-level"),
		Address:     ctx.String("bind"),
	})
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the database tables",
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			logger := auth.NewZeroLogger(os.Stderr, cfg.LogLevel()).Named("migrate")

			db, err := server.OpenDB(cfg.DatabaseDSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := server.Migrate(ctx.Context, db); err != nil {
				return err
			}
			logger.Info("tables created")
			return nil
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Migrate and start the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "bind",
				Usage: "Address to listen on, overrides " + config.EnvAddress,
			},
			&cli.DurationFlag{
				Name:  "shutdown-timeout",
				Usage: "Time to wait for in flight requests on shutdown",
				Value: 10 * time.Second,
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			logger := auth.NewZeroLogger(os.Stderr, cfg.LogLevel())

			db, err := server.OpenDB(cfg.DatabaseDSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := server.Migrate(ctx.Context, db); err != nil {
				return err
			}

			app := server.New(server.Deps{
				Config:    cfg,
				DB:        db,
				Logger:    logger,
				AccessLog: logger.Named("access").Zerolog(),
			})

			errc := make(chan error, 1)
			go func() {
				errc <- app.Server.Serve(cfg.Address())
			}()
			logger.Info("listening", "address", cfg.Address())

			select {
			case err := <-errc:
				return err
			case <-ctx.Context.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), ctx.Duration("shutdown-timeout"))
			defer cancel()
			if err := app.Server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return nil
		},
	}
}
