package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authservice "kyc/internal/auth/service"
	resettokenstore "kyc/internal/auth/store/resettoken"
	userstore "kyc/internal/auth/store/user"
	"kyc/internal/platform/config"
	"kyc/internal/platform/httpserver"
	"kyc/internal/platform/logger"
	"kyc/internal/platform/postgres"
)

const shutdownTimeout = 10 * time.Second

type ServeCmd struct {
	AutoMigrate bool `help:"Apply pending migrations before serving." default:"true" env:"KYC_AUTO_MIGRATE" negatable:""`
}

func (c *ServeCmd) Run(ctx context.Context) error {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}

	if a.db != nil && c.AutoMigrate {
		if err := migrateUp(ctx, a.db); err != nil {
			_ = a.close(context.Background())
			return err
		}
	}
	if cfg.Admin.Email != "" {
		if _, created, err := a.auth.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.ErrorContext(ctx, "seeding admin failed", "error", err)
		} else if created {
			log.InfoContext(ctx, "admin account created", "email", cfg.Admin.Email)
		}
	}

	srv := httpserver.New(cfg.Addr, a.router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting kyc", "addr", cfg.Addr, "persistence", persistence(a), "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = a.close(context.Background())
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	return a.close(shutdownCtx)
}

func persistence(a *app) string {
	if a.db == nil {
		return "memory"
	}
	return "postgres"
}

type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" help:"Apply every pending migration."`
	Down   MigrateDownCmd   `cmd:"" help:"Roll back the most recent migration."`
	Status MigrateStatusCmd `cmd:"" help:"List migrations and whether they are applied."`
}

type MigrateUpCmd struct{}

func (c *MigrateUpCmd) Run(ctx context.Context) error {
	return withDB(ctx, func(db *sql.DB) error {
		return migrateUp(ctx, db)
	})
}

type MigrateDownCmd struct{}

func (c *MigrateDownCmd) Run(ctx context.Context) error {
	return withDB(ctx, func(db *sql.DB) error {
		m, err := postgres.NewMigrator(db)
		if err != nil {
			return err
		}
		version, err := m.Down(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("rolled back %d\n", version)
		return nil
	})
}

type MigrateStatusCmd struct{}

func (c *MigrateStatusCmd) Run(ctx context.Context) error {
	return withDB(ctx, func(db *sql.DB) error {
		m, err := postgres.NewMigrator(db)
		if err != nil {
			return err
		}
		states, err := m.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range states {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Printf("%05d  %-8s %s\n", s.Version, state, s.Path)
		}
		return nil
	})
}

type SeedAdminCmd struct {
	Email    string `help:"Operator email." env:"ADMIN_MAIL" required:""`
	Password string `help:"Operator password." env:"ADMIN_PASSWORD" required:""`
}

func (c *SeedAdminCmd) Run(ctx context.Context) error {
	cfg := config.FromEnv()
	return withDB(ctx, func(db *sql.DB) error {
		svc := authservice.New(
			userstore.NewPostgres(db),
			resettokenstore.NewPostgres(db),
			authservice.NewTokenService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL),
			authservice.WithTx(postgres.NewTxRunner(db, cfg.TxTimeout)),
		)
		u, created, err := svc.SeedAdmin(ctx, c.Email, c.Password)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("created operator %s (%s)\n", u.Email, u.ID)
		} else {
			fmt.Printf("operator %s already exists\n", u.Email)
		}
		return nil
	})
}

func migrateUp(ctx context.Context, db *sql.DB) error {
	m, err := postgres.NewMigrator(db)
	if err != nil {
		return err
	}
	versions, err := m.Up(ctx)
	if err != nil {
		return err
	}
	for _, v := range versions {
		fmt.Printf("applied %d\n", v)
	}
	return nil
}

// withDB opens DATABASE_URL for the duration of fn.
func withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	cfg := config.FromEnv()
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}
