package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/davidhoeppner/LernApp2-sub000/internal/app"
	"github.com/davidhoeppner/LernApp2-sub000/internal/category"
	"github.com/davidhoeppner/LernApp2-sub000/internal/config"
	"github.com/davidhoeppner/LernApp2-sub000/internal/content"
	"github.com/davidhoeppner/LernApp2-sub000/internal/content/bundle"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
	"github.com/davidhoeppner/LernApp2-sub000/internal/infra/memory"
	pgcontent "github.com/davidhoeppner/LernApp2-sub000/internal/infra/postgres"
	redisinfra "github.com/davidhoeppner/LernApp2-sub000/internal/infra/redis"
	"github.com/davidhoeppner/LernApp2-sub000/internal/state"

	"github.com/jackc/pgx/v4/pgxpool"
)

// App bundles the wired core components for the CLI commands.
type App struct {
	Config      config.Config
	Registry    *content.Registry
	Tracker     *state.Tracker
	Store       *state.Store
	Adapter     *state.Adapter
	Quiz        *app.QuizEngine
	Modules     *app.ModuleService
	Progress    *app.ProgressEngine
	Recommend   *app.RecommendationEngine
	Exporter    *app.Exporter
	Diagnostics *domain.Diagnostics

	cleanup []func()
}

// Close releases pools and clients opened during wiring.
func (a *App) Close() {
	for _, fn := range a.cleanup {
		fn()
	}
}

// buildApp wires config to components: key/value store (redis or
// in-memory), persistence adapter, state store, content loader (postgres
// or bundled files), registry and the engines on top.
func buildApp(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	a := &App{Config: cfg, Diagnostics: &domain.Diagnostics{}}

	var kv state.KeyValueStore = memory.NewKVStore(cfg.Storage.CapacityBytes)
	if cfg.Storage.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
		a.cleanup = append(a.cleanup, func() { _ = client.Close() })
		kv = redisinfra.NewKVStore(client)
	}
	a.Adapter = state.NewAdapter(ctx, kv, cfg.Storage.Prefix, cfg.Storage.CapacityBytes, logger)
	a.Store = state.NewStore(ctx, a.Adapter, logger)
	a.Tracker = state.NewTracker(a.Store)

	var loader content.Loader
	var resolver content.QuizResolver
	switch {
	case cfg.Content.PostgresURL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Content.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.cleanup = append(a.cleanup, pool.Close)
		pgLoader := pgcontent.NewContentLoader(pool)
		loader, resolver = pgLoader, pgLoader
	case cfg.Content.Dir != "":
		fsLoader := content.NewFSLoader(os.DirFS(cfg.Content.Dir), logger)
		loader, resolver = fsLoader, fsLoader
	default:
		fsLoader := content.NewFSLoader(bundle.FS(), logger)
		loader, resolver = fsLoader, fsLoader
	}

	mapper := category.NewDefaultMapper()
	a.Registry = content.NewRegistry(loader, mapper, logger)
	a.Registry.SetDiagnostics(a.Diagnostics)
	a.Registry.SetProgressReader(a.Tracker)
	a.Registry.SetQuizResolver(resolver)
	if err := a.Registry.Warm(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Quiz = app.NewQuizEngine(a.Registry, a.Tracker, logger)
	a.Modules = app.NewModuleService(a.Registry, a.Tracker)
	a.Progress = app.NewProgressEngine(a.Registry, a.Tracker)
	a.Recommend = app.NewRecommendationEngine(a.Registry, a.Progress, a.Tracker)
	a.Exporter = app.NewExporter(a.Progress, a.Tracker)
	return a, nil
}

// resolveSpecialization turns the flag/config value into a track; an
// empty value means unscoped.
func resolveSpecialization(cfg config.Config, flag string) (domain.Track, error) {
	raw := flag
	if raw == "" {
		raw = cfg.User.Specialization
	}
	if raw == "" {
		return "", nil
	}
	track := domain.Track(raw)
	if !track.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownTrack, raw)
	}
	return track, nil
}
