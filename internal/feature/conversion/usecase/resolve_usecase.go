// Package usecase はISINからティッカーシンボルへの変換ロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fintools/internal/feature/conversion/domain"
	"fintools/internal/feature/conversion/domain/entity"
)

const (
	// DefaultConcurrency は同時に実行するプロバイダ呼び出しの上限です。
	DefaultConcurrency = 8
	// DefaultLookupTimeout は1件のプロバイダ呼び出しのタイムアウトです。
	DefaultLookupTimeout = 10 * time.Second
)

// Provider は外部のシンボル検索サービスを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type Provider interface {
	// Lookup should return promptly once ctx is done. An implementation that does not is
	// abandoned at the lookup timeout and its late answer is discarded.
	Lookup(ctx context.Context, isin string) ([]entity.Candidate, error)
}

// lookupAnswer carries a provider response out of the lookup goroutine.
type lookupAnswer struct {
	candidates []entity.Candidate
	err        error
}

// SymbolCache は解決済みシンボルの永続キャッシュを抽象化します。
type SymbolCache interface {
	// Read は現在のキャッシュを返します。読み込みに失敗した場合は空のマップを返します。
	Read(ctx context.Context) entity.SymbolMap
	// Merge はエラーシンボル以外の追加分をキャッシュへ上書きマージします。
	Merge(ctx context.Context, additions entity.SymbolMap) error
}

// result is one resolved identifier flowing from a worker to the aggregator.
type result struct {
	isin   string
	symbol string
}

// ResolveUsecase is the bounded-concurrency cache-aside resolution engine.
type ResolveUsecase struct {
	provider    Provider
	cache       SymbolCache
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

// NewResolveUsecase creates a ResolveUsecase.
// concurrency <= 0 and timeout <= 0 fall back to DefaultConcurrency and DefaultLookupTimeout.
// A nil logger uses slog.Default().
func NewResolveUsecase(provider Provider, cache SymbolCache, concurrency int, timeout time.Duration, logger *slog.Logger) *ResolveUsecase {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolveUsecase{
		provider:    provider,
		cache:       cache,
		concurrency: concurrency,
		timeout:     timeout,
		logger:      logger,
	}
}

// Resolve は入力行からISINを抽出し、キャッシュ優先でシンボルへ変換します。
//
// The returned map always contains every valid identifier, including the ones that resolved to
// an error symbol. The error is non-nil only when persisting the cache failed; the map is still complete.
func (u *ResolveUsecase) Resolve(ctx context.Context, lines []string) (entity.SymbolMap, error) {
	isins := entity.ExtractIdentifiers(lines)
	log := u.logger.With("batch", uuid.NewString())
	if len(isins) == 0 {
		log.Debug("no identifier to resolve", "lines", len(lines))
		return entity.SymbolMap{}, nil
	}

	// One snapshot for the whole batch; workers only read it.
	cached := u.cache.Read(ctx)

	out := make(entity.SymbolMap, len(isins))
	misses := make([]string, 0, len(isins))
	for _, isin := range isins {
		if symbol, ok := cached[isin]; ok {
			out[isin] = symbol
			continue
		}
		misses = append(misses, isin)
	}
	log.Info("resolving identifiers", "total", len(isins), "cache_hits", len(out), "cache_misses", len(misses))

	results := make(chan result, len(misses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for _, isin := range misses {
		isin := isin
		g.Go(func() error {
			results <- result{isin: isin, symbol: u.lookup(gctx, log, isin)}
			// Lookup failures are folded into error symbols and never cancel siblings.
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	for r := range results {
		out[r.isin] = r.symbol
	}

	if len(misses) > 0 {
		if err := u.cache.Merge(ctx, out); err != nil {
			return out, fmt.Errorf("persist symbol cache: %w", err)
		}
	}
	log.Info("identifiers resolved", "total", len(out), "errors", out.Errors())
	return out, nil
}

// lookup resolves a single cache miss. It never fails: every problem becomes an error symbol.
func (u *ResolveUsecase) lookup(ctx context.Context, log *slog.Logger, isin string) string {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	answer := make(chan lookupAnswer, 1)
	go func() {
		candidates, err := u.provider.Lookup(ctx, isin)
		answer <- lookupAnswer{candidates: candidates, err: err}
	}()

	var candidates []entity.Candidate
	var err error
	select {
	case a := <-answer:
		candidates, err = a.candidates, a.err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		log.Warn("symbol lookup failed", "isin", isin, "error", err)
		return entity.ErrorSymbol(isin)
	}

	symbol, err := entity.ResolveCandidates(isin, candidates)
	switch {
	case errors.Is(err, domain.ErrUnknownExchange):
		log.Warn("exchange not found in exchange table", "isin", isin, "error", err)
	case err != nil:
		log.Info("no symbol found", "isin", isin)
	}
	return symbol
}
