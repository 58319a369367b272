// Package app arma y corre el servidor HTTP a partir de la configuración.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medremind/internal/adapters/auth/jwtauth"
	pg "medremind/internal/adapters/storage/postgres"
	"medremind/internal/config"
	"medremind/internal/platform/logger"
	"medremind/internal/platform/metrics"
	"medremind/internal/ports/auth"
	"medremind/internal/router"
)

const shutdownTimeout = 10 * time.Second

// Handler construye el router según cfg. Devuelve también la DB abierta (o nil) para cerrarla.
func Handler(ctx context.Context, cfg *config.Config, log logger.Logger) (http.Handler, *sql.DB, error) {
	var db *sql.DB
	if dsn := strings.TrimSpace(cfg.DBDSN); dsn != "" {
		opened, err := pg.Open(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := pg.Migrate(ctx, opened); err != nil {
			_ = opened.Close()
			return nil, nil, err
		}
		db = opened
		log.Info("connected to database", nil)
	} else {
		log.Warn("DB_DSN not set; using in-memory storage", nil)
	}

	var verifier auth.AuthVerifier
	if secret := strings.TrimSpace(cfg.AuthJWTSecret); secret != "" {
		verifier = jwtauth.NewVerifier(secret, cfg.AuthIssuer)
	} else {
		log.Warn("AUTH_JWT_SECRET not set; accepting X-Debug-User-ID (dev mode)", nil)
	}

	h := router.NewRouter(router.Options{
		AuthVerifier:   verifier,
		DB:             db,
		Logger:         log,
		Metrics:        metrics.New(),
		Location:       cfg.Location(),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	return h, db, nil
}

// Run sirve hasta que ctx se cancela y luego hace shutdown ordenado.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	h, db, err := Handler(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env, "timezone": cfg.Location().String()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("server stopped", nil)
	return nil
}
