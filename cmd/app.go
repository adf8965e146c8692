package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/dqs/internal/application/loader"
	"github.com/zjrosen/dqs/internal/application/search"
	"github.com/zjrosen/dqs/internal/cachemanager"
	"github.com/zjrosen/dqs/internal/config"
	"github.com/zjrosen/dqs/internal/domain/people"
	"github.com/zjrosen/dqs/internal/infrastructure/sqlite"
	"github.com/zjrosen/dqs/internal/log"
	"github.com/zjrosen/dqs/internal/presentation"
	"github.com/zjrosen/dqs/internal/tracing"
	"github.com/zjrosen/dqs/pkg/decode"
	"github.com/zjrosen/dqs/pkg/registry"
)

// application holds everything a command needs to execute serializations.
type application struct {
	db           *sqlite.DB
	registry     *registry.Registry
	descriptions map[string]string
	search       *search.Service
	tracing      *tracing.Provider
}

// openApplication opens the database, registers the definitions against the
// people table and builds the search service.
func openApplication(cfg config.Config) (*application, error) {
	db, err := sqlite.NewDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	defs, err := loader.Load(cfg.Definitions)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	reg := registry.New()
	if err := loader.Register(reg, defs, db.QuerySet().Target()); err != nil {
		_ = db.Close()
		return nil, err
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	opts := []search.Option{
		search.WithTracer(provider.Tracer()),
		search.WithRequest(decode.Request{Prefix: cfg.Request.Prefix, NameField: cfg.Request.NameField}),
	}
	if cfg.Cache.Enabled {
		cache := cachemanager.NewInMemoryCacheManager[string, []*people.Person](
			"query-results", cfg.Cache.TTL, cfg.Cache.CleanupInterval)
		opts = append(opts, search.WithCache(cache, cfg.Cache.TTL))
	}

	log.Debug(log.CatCLI, "Application ready", "serializations", reg.Len(), "cache", cfg.Cache.Enabled,
		"tracing", provider.Enabled())
	return &application{
		db:           db,
		registry:     reg,
		descriptions: loader.Descriptions(defs),
		search:       search.NewService(reg, opts...),
		tracing:      provider,
	}, nil
}

// Close flushes spans and closes the database.
func (a *application) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracing.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatCLI, "Failed to flush traces", err)
	}
	return a.db.Close()
}

// toResultDTO converts a search result for output.
func toResultDTO(r *search.Result) presentation.ResultDTO {
	return presentation.ResultDTO{
		Serialization: r.Serialization,
		ExecutionID:   r.ExecutionID,
		SQL:           r.SQL,
		Cached:        r.Cached,
		Count:         len(r.People),
		People:        presentation.FromPeople(r.People),
	}
}
