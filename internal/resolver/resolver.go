// Package resolver maps human-facing service/category/subcategory references
// (slugs, cached names) to canonical backend identifiers ahead of order
// submission.
package resolver

import (
	"context"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/servease/household-services-platform/internal/cache"
	"github.com/servease/household-services-platform/internal/metrics"
)

type Kind string

const (
	KindService     Kind = "service"
	KindCategory    Kind = "category"
	KindSubcategory Kind = "subcategory"
)

// canonical UUID: 8-4-4-4-12 hex groups, version nibble 1-5, variant nibble
// in {8,9,a,b}.
var uuidPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsCanonical reports whether ref is already a canonical identifier.
func IsCanonical(ref string) bool {
	return uuidPattern.MatchString(ref)
}

// Outcome is the tagged result of one resolution. Fallback means the lookup
// failed and Ref still holds the original, unresolved reference; the
// assembler decides whether that blocks submission.
type Outcome struct {
	Ref      string
	Fallback bool
}

// Lookup is the external resolution service. Implementations: the HTTP
// config-service client and the in-process catalog store.
type Lookup interface {
	LookupRef(ctx context.Context, kind, ref string) (string, error)
}

type Resolver struct {
	lookup         Lookup
	cache          cache.Cache
	cacheTTL       time.Duration
	timeout        time.Duration
	maxConcurrency int
}

func New(lookup Lookup, cacheStore cache.Cache, cacheTTL, timeout time.Duration, maxConcurrency int) *Resolver {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	return &Resolver{
		lookup:         lookup,
		cache:          cacheStore,
		cacheTTL:       cacheTTL,
		timeout:        timeout,
		maxConcurrency: maxConcurrency,
	}
}

// Resolve returns the canonical identifier for ref. A ref that already
// matches the canonical pattern is returned unchanged with no lookup. A
// failed lookup degrades to a fallback outcome carrying the original ref;
// the warning log is the only trace of it, so the caller must inspect
// Outcome.Fallback if it cares.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, ref string) Outcome {

	if IsCanonical(ref) {
		return Outcome{Ref: ref}
	}

	cacheKey := cache.Key(cache.ResolutionKeyPrefix, string(kind)+":"+ref)

	if r.cache != nil {
		var cached string

		if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			return Outcome{Ref: cached}
		}
	}

	lookupCtx := ctx

	if r.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	id, err := r.lookup.LookupRef(lookupCtx, string(kind), ref)
	if err != nil {
		slog.Warn("Identifier resolution failed, falling back to original reference",
			slog.String("kind", string(kind)),
			slog.String("ref", ref),
			slog.String("error", err.Error()),
		)

		metrics.RecordIdentifierFallback()

		return Outcome{Ref: ref, Fallback: true}
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey, id, r.cacheTTL); err != nil {
			slog.Warn("Failed to cache resolution", slog.String("ref", ref), slog.String("error", err.Error()))
		}
	}

	return Outcome{Ref: id}
}

// Request identifies one reference to resolve within a batch.
type Request struct {
	Kind Kind
	Ref  string
}

// ResolveAll resolves every request with bounded fan-out and returns the
// outcomes in request order. It always waits for all of them; order of
// completion does not matter, completeness does.
func (r *Resolver) ResolveAll(ctx context.Context, requests []Request) []Outcome {

	outcomes := make([]Outcome, len(requests))

	sem := make(chan struct{}, r.maxConcurrency)

	var wg sync.WaitGroup

	for idx := range requests {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[idx] = r.Resolve(ctx, requests[idx].Kind, requests[idx].Ref)
		}(idx)
	}

	wg.Wait()

	return outcomes
}
