package cmd

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/configs"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/db/seeders"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models/migrations"
	"github.com/gorilla/securecookie"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func RunCli(args []string) error {
	env := configs.LoadEnv()
	log, err := configs.NewLogger(env)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cmd := &cli.Command{
		Name:  "momentum",
		Usage: "Artisan marketplace API",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, env, log)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, log)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Info("migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Fill the database with fake artisans, products and customers",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "artisans", Value: 3},
					&cli.IntFlag{Name: "products", Value: 5, Usage: "products per artisan"},
					&cli.IntFlag{Name: "customers", Value: 5},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, log)
					if err != nil {
						return err
					}
					return seeders.DBSeed(db, seeders.Options{
						Artisans:           int(c.Int("artisans")),
						ProductsPerArtisan: int(c.Int("products")),
						Customers:          int(c.Int("customers")),
					}, log)
				},
			},
			{
				Name:  "worker",
				Usage: "Deliver payment notifications queued in Redis",
				Action: func(ctx context.Context, c *cli.Command) error {
					ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
					defer stop()

					queue, client := newWorker(env, log)
					defer client.Close()

					log.Info("notification worker started", zap.String("redis", env.RedisAddr))
					return queue.Consume(ctx, newDeliverer(env, log))
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Print a random JWT_SECRET for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					key := securecookie.GenerateRandomKey(32)
					if key == nil {
						return errors.New("failed to generate random key")
					}
					fmt.Printf("JWT_SECRET=%s\n", hex.EncodeToString(key))
					return nil
				},
			},
		},
		DefaultCommand: "serve",
	}

	return cmd.Run(context.Background(), args)
}

func serve(ctx context.Context, env configs.ENV, log *zap.Logger) error {
	if env.JWTSecret == "" {
		return errors.New("JWT_SECRET is empty, run generate-keys and set it in .env")
	}

	db, err := configs.OpenConnection(env, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := buildContainer(ctx, env, db, log)
	if err != nil {
		return err
	}
	defer c.Close()

	server := &http.Server{
		Addr:              env.Port,
		Handler:           c.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", server.Addr), zap.String("gateway", env.PaymentGateway))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
