package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"medremind/internal/adapters/medremindapi"
	"medremind/internal/adapters/storage/sqlite"
	"medremind/internal/engine"
)

// snapshotCache es lo que la CLI necesita del cache local.
type snapshotCache interface {
	Save(ctx context.Context, key string, s engine.Snapshot) error
	Load(ctx context.Context, key string) (engine.Snapshot, error)
}

type snapshotAPI interface {
	Snapshot(ctx context.Context) (engine.Snapshot, error)
}

// snapshotSource baja el snapshot de la API y lo guarda; si la API no responde usa el último guardado.
type snapshotSource struct {
	api     snapshotAPI
	cache   snapshotCache // puede ser nil
	key     string
	offline bool
	warn    io.Writer
}

func (s *snapshotSource) Load(ctx context.Context) (engine.Snapshot, error) {
	if s.offline {
		return s.fromCache(ctx)
	}

	snap, err := s.api.Snapshot(ctx)
	if err == nil {
		if s.cache != nil {
			if cerr := s.cache.Save(ctx, s.key, snap); cerr != nil {
				fmt.Fprintf(s.warn, "warning: could not update cache: %v\n", cerr)
			}
		}
		return snap, nil
	}

	// errores de credenciales no se tapan con datos viejos
	if errors.Is(err, medremindapi.ErrUnauthorized) || s.cache == nil {
		return engine.Snapshot{}, err
	}

	cached, cerr := s.cache.Load(ctx, s.key)
	if cerr != nil {
		return engine.Snapshot{}, err
	}
	fmt.Fprintf(s.warn, "warning: API unavailable (%v); using snapshot from %s\n", err, cached.FetchedAt.Format("2006-01-02 15:04"))
	return cached, nil
}

func (s *snapshotSource) fromCache(ctx context.Context) (engine.Snapshot, error) {
	if s.cache == nil {
		return engine.Snapshot{}, errors.New("offline mode needs a snapshot cache")
	}
	snap, err := s.cache.Load(ctx, s.key)
	if errors.Is(err, sqlite.ErrNoSnapshot) {
		return engine.Snapshot{}, fmt.Errorf("%w: run any command online first", err)
	}
	return snap, err
}

// cacheKey separa snapshots por servidor y por identidad sin guardar el token.
func cacheKey(apiURL, user, token string) string {
	id := strings.TrimSpace(user)
	if t := strings.TrimSpace(token); t != "" {
		sum := sha256.Sum256([]byte(t))
		id = "token:" + hex.EncodeToString(sum[:8])
	}
	return strings.TrimRight(strings.TrimSpace(apiURL), "/") + "#" + id
}

func newAPIClient() (*medremindapi.Client, error) {
	return medremindapi.New(medremindapi.Options{
		BaseURL:   cfg.APIURL,
		Token:     cfg.APIToken,
		DebugUser: cfg.APIUser,
		Timeout:   cfg.APITimeout,
	})
}

// withSnapshot arma la fuente (API + cache), carga el snapshot y llama a run.
func withSnapshot(ctx context.Context, warn io.Writer, run func(engine.Snapshot) error) error {
	api, err := newAPIClient()
	if err != nil {
		return err
	}

	src := &snapshotSource{
		api:     api,
		key:     cacheKey(cfg.APIURL, cfg.APIUser, cfg.APIToken),
		offline: offline,
		warn:    warn,
	}
	if strings.TrimSpace(cfg.CachePath) != "" {
		cache, err := sqlite.Open(cfg.CachePath)
		if err != nil {
			fmt.Fprintf(warn, "warning: snapshot cache disabled: %v\n", err)
		} else {
			defer cache.Close()
			src.cache = cache
		}
	}

	snap, err := src.Load(ctx)
	if err != nil {
		return err
	}
	return run(snap)
}
