// Package search executes registered serializations against the people
// table, whichever wire format the parameters arrive in.
package search

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/dqs/internal/cachemanager"
	"github.com/zjrosen/dqs/internal/domain/people"
	"github.com/zjrosen/dqs/internal/infrastructure/sqlite"
	"github.com/zjrosen/dqs/internal/log"
	"github.com/zjrosen/dqs/internal/tracing"
	"github.com/zjrosen/dqs/pkg/chain"
	"github.com/zjrosen/dqs/pkg/decode"
	"github.com/zjrosen/dqs/pkg/registry"
)

// Wire formats reported in logs and spans.
const (
	FormatParams        = "params"
	FormatValues        = "values"
	FormatPath          = "path"
	FormatOperationPath = "operation_path"
	FormatJSON          = "json"
	FormatRequest       = "request"
)

// Result is the outcome of one execution.
type Result struct {
	Serialization string
	ExecutionID   string
	Format        string
	SQL           string
	Cached        bool
	People        []*people.Person
}

// Service replays serializations into QuerySets and fetches them, caching
// rows by compiled SQL.
type Service struct {
	reg     registry.Provider
	rows    *cachemanager.ReadThroughCache[string, []*people.Person, sqlite.QuerySet]
	ttl     time.Duration
	tracer  trace.Tracer
	request decode.Request
}

// Option configures a Service.
type Option func(*Service)

// WithCache caches fetched rows in cache for ttl.
func WithCache(cache cachemanager.CacheManager[string, []*people.Person], ttl time.Duration) Option {
	return func(s *Service) {
		s.rows = cachemanager.NewReadThroughCache(cache, fetch, false)
		s.ttl = ttl
	}
}

// WithTracer records spans with tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithRequest sets how keyed requests are decoded.
func WithRequest(r decode.Request) Option {
	return func(s *Service) {
		s.request = r
	}
}

// NewService creates a Service over reg. Without WithCache every execution
// hits the database.
func NewService(reg registry.Provider, opts ...Option) *Service {
	s := &Service{
		reg:    reg,
		rows:   cachemanager.NewReadThroughCache[string](nil, fetch, true),
		tracer: noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func fetch(ctx context.Context, qs sqlite.QuerySet) ([]*people.Person, error) {
	return qs.Fetch(ctx)
}

// Execute runs name with keyed params.
func (s *Service) Execute(ctx context.Context, name string, params map[string]any) (*Result, error) {
	return s.run(ctx, FormatParams, name, func() (chain.Target, error) {
		return s.reg.Execute(name, params)
	})
}

// ExecuteValues runs name with positional values.
func (s *Service) ExecuteValues(ctx context.Context, name string, values []any) (*Result, error) {
	return s.run(ctx, FormatValues, name, func() (chain.Target, error) {
		ser, err := s.reg.Get(name)
		if err != nil {
			return nil, err
		}
		return decode.Values(ser, values)
	})
}

// ExecutePath runs a "name/v1/v2" path. A non-empty name makes every segment
// a value.
func (s *Service) ExecutePath(ctx context.Context, path, name string) (*Result, error) {
	reported := name
	if reported == "" {
		reported, _, _ = decode.ParsePath(path)
	}
	return s.run(ctx, FormatPath, reported, func() (chain.Target, error) {
		return decode.Path(s.reg, path, name)
	})
}

// ExecuteOperationPath runs a "name/-op/key-value" path.
func (s *Service) ExecuteOperationPath(ctx context.Context, path string) (*Result, error) {
	doc, err := decode.ParseOperationPath(path)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, FormatOperationPath, doc.Name, func() (chain.Target, error) {
		return decode.FromDocument(s.reg, doc)
	})
}

// ExecuteJSON runs a JSON document.
func (s *Service) ExecuteJSON(ctx context.Context, data []byte) (*Result, error) {
	doc, err := decode.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, FormatJSON, doc.Name, func() (chain.Target, error) {
		return decode.FromDocument(s.reg, doc)
	})
}

// ExecuteRequest runs keyed request values.
func (s *Service) ExecuteRequest(ctx context.Context, values url.Values) (*Result, error) {
	return s.run(ctx, FormatRequest, s.request.Name(values), func() (chain.Target, error) {
		return s.request.Execute(s.reg, values)
	})
}

func (s *Service) run(ctx context.Context, format, name string, replay func() (chain.Target, error)) (*Result, error) {
	execID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, tracing.SpanExecute, trace.WithAttributes(
		attribute.String(tracing.AttrExecutionID, execID),
		attribute.String(tracing.AttrSerialization, name),
		attribute.String(tracing.AttrWireFormat, format),
	))
	defer span.End()

	log.Debug(log.CatSearch, "Executing serialization", "exec_id", execID, "name", name, "format", format)

	qs, err := s.replay(ctx, replay)
	if err != nil {
		log.Debug(log.CatSearch, "Replay failed", "exec_id", execID, "name", name, "error", err)
		tracing.RecordError(span, err)
		return nil, err
	}

	query, args := qs.SQL()
	ctx, fetchSpan := s.tracer.Start(ctx, tracing.SpanFetch, trace.WithAttributes(
		attribute.String(tracing.AttrSQL, query),
	))
	ps, hit, err := s.rows.Get(ctx, cacheKey(query, args), qs, s.ttl)
	fetchSpan.SetAttributes(
		attribute.Bool(tracing.AttrCacheHit, hit),
		attribute.Int(tracing.AttrResultCount, len(ps)),
	)
	tracing.RecordError(fetchSpan, err)
	fetchSpan.End()
	if err != nil {
		log.ErrorErr(log.CatSearch, "Fetch failed", err, "exec_id", execID, "name", name)
		tracing.RecordError(span, err)
		return nil, err
	}

	log.Debug(log.CatSearch, "Executed serialization", "exec_id", execID, "name", name,
		"rows", len(ps), "cached", hit)
	return &Result{
		Serialization: name,
		ExecutionID:   execID,
		Format:        format,
		SQL:           query,
		Cached:        hit,
		People:        clonePeople(ps),
	}, nil
}

func (s *Service) replay(ctx context.Context, replay func() (chain.Target, error)) (sqlite.QuerySet, error) {
	_, span := s.tracer.Start(ctx, tracing.SpanReplay)
	defer span.End()

	target, err := replay()
	if err != nil {
		tracing.RecordError(span, err)
		return sqlite.QuerySet{}, err
	}
	qs, err := sqlite.FromTarget(target)
	if err != nil {
		err = fmt.Errorf("serialization did not produce a people query: %w", err)
		tracing.RecordError(span, err)
		return sqlite.QuerySet{}, err
	}
	return qs, nil
}

// cacheKey identifies a query by its SQL and coerced arguments.
func cacheKey(query string, args []any) string {
	return fmt.Sprintf("%s|%#v", query, args)
}

// clonePeople copies rows so callers never share them with the cache.
func clonePeople(ps []*people.Person) []*people.Person {
	out := make([]*people.Person, len(ps))
	for i, p := range ps {
		c := *p
		out[i] = &c
	}
	return out
}
