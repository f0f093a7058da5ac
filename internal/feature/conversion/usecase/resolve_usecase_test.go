package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintools/internal/feature/conversion/domain/entity"
	"fintools/internal/feature/conversion/usecase"
)

// ErrNetwork is a sentinel shared by the mocks and the expectations.
var ErrNetwork = errors.New("network error")

// mockProvider is a call-counting Provider. It is safe for concurrent use.
type mockProvider struct {
	LookupFunc  func(ctx context.Context, isin string) ([]entity.Candidate, error)
	LookupCalls atomic.Int32
}

func (m *mockProvider) Lookup(ctx context.Context, isin string) ([]entity.Candidate, error) {
	m.LookupCalls.Add(1)
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, isin)
	}
	return nil, errors.New("LookupFunc is not implemented")
}

// memoryCache is an in-memory SymbolCache with the same merge semantics as the file store.
type memoryCache struct {
	mu         sync.Mutex
	data       entity.SymbolMap
	mergeErr   error
	ReadCalls  int
	MergeCalls int
}

func newMemoryCache(data entity.SymbolMap) *memoryCache {
	if data == nil {
		data = entity.SymbolMap{}
	}
	return &memoryCache{data: data}
}

func (m *memoryCache) Read(ctx context.Context) entity.SymbolMap {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadCalls++
	out := make(entity.SymbolMap, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

func (m *memoryCache) Merge(ctx context.Context, additions entity.SymbolMap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MergeCalls++
	if m.mergeErr != nil {
		return m.mergeErr
	}
	for k, v := range additions.WithoutErrors() {
		m.data[k] = v
	}
	return nil
}

func candidatesFor(table map[string][]entity.Candidate) func(ctx context.Context, isin string) ([]entity.Candidate, error) {
	return func(ctx context.Context, isin string) ([]entity.Candidate, error) {
		return table[isin], nil
	}
}

func TestResolveUsecase_Resolve_DropsInvalidIdentifiers(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{LookupFunc: candidatesFor(map[string][]entity.Candidate{
		"US0378331005": {{Exchange: "NMS", Ticker: "AAPL"}},
	})}
	cache := newMemoryCache(nil)
	uc := usecase.NewResolveUsecase(provider, cache, 8, time.Second, nil)

	got, err := uc.Resolve(context.Background(), []string{"US0378331005", "BAD"})
	require.NoError(t, err)

	assert.Equal(t, entity.SymbolMap{"US0378331005": "NASDAQ:AAPL"}, got)
	assert.EqualValues(t, 1, provider.LookupCalls.Load())
	assert.Equal(t, entity.SymbolMap{"US0378331005": "NASDAQ:AAPL"}, cache.Read(context.Background()))
}

func TestResolveUsecase_Resolve_CacheHitSkipsProvider(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{}
	cache := newMemoryCache(entity.SymbolMap{"US87968A1043": "AMEX:TELL"})
	uc := usecase.NewResolveUsecase(provider, cache, 8, time.Second, nil)

	got, err := uc.Resolve(context.Background(), []string{"US87968A1043;Tellurian"})
	require.NoError(t, err)

	assert.Equal(t, entity.SymbolMap{"US87968A1043": "AMEX:TELL"}, got)
	assert.Zero(t, provider.LookupCalls.Load(), "provider must not be called on cache hit")
	assert.Zero(t, cache.MergeCalls, "nothing new to persist")
}

func TestResolveUsecase_Resolve_FailuresBecomeErrorSymbols(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{LookupFunc: func(ctx context.Context, isin string) ([]entity.Candidate, error) {
		switch isin {
		case "US0378331005":
			return []entity.Candidate{{Exchange: "NMS", Ticker: "AAPL"}}, nil
		case "US0846707026":
			return []entity.Candidate{{Exchange: "NYQ", Ticker: "BRK-B"}}, nil
		case "US26856L1035":
			return nil, ErrNetwork
		case "US6304021057":
			return []entity.Candidate{{Exchange: "ZZZ", Ticker: "NKTR"}}, nil
		default:
			return nil, nil
		}
	}}
	cache := newMemoryCache(nil)
	uc := usecase.NewResolveUsecase(provider, cache, 2, time.Second, nil)

	got, err := uc.Resolve(context.Background(), []string{
		"US0378331005", "US0846707026", "US26856L1035", "US6304021057", "DE0007164600",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SymbolMap{
		"US0378331005": "NASDAQ:AAPL",
		"US0846707026": "NYSE:BRK.B",
		"US26856L1035": "US26856L1035error",
		"US6304021057": "error:NKTR",
		"DE0007164600": "DE0007164600error",
	}, got)

	persisted := cache.Read(context.Background())
	assert.Equal(t, entity.SymbolMap{
		"US0378331005": "NASDAQ:AAPL",
		"US0846707026": "NYSE:BRK.B",
	}, persisted)
	for isin, symbol := range persisted {
		assert.False(t, entity.IsErrorSymbol(symbol), "error symbol leaked into cache for %s", isin)
	}
}

func TestResolveUsecase_Resolve_TimeoutBecomesErrorSymbol(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{LookupFunc: func(ctx context.Context, isin string) ([]entity.Candidate, error) {
		if isin == "US0378331005" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return []entity.Candidate{{Exchange: "NYQ", Ticker: "IBM"}}, nil
	}}
	uc := usecase.NewResolveUsecase(provider, newMemoryCache(nil), 8, 20*time.Millisecond, nil)

	start := time.Now()
	got, err := uc.Resolve(context.Background(), []string{"US0378331005", "US4592001014"})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, "US0378331005error", got["US0378331005"])
	assert.Equal(t, "NYSE:IBM", got["US4592001014"])
}

func TestResolveUsecase_Resolve_ProviderIgnoringContextIsAbandoned(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	provider := &mockProvider{LookupFunc: func(ctx context.Context, isin string) ([]entity.Candidate, error) {
		if isin == "US0378331005" {
			<-release
			return []entity.Candidate{{Exchange: "NMS", Ticker: "LATE"}}, nil
		}
		return []entity.Candidate{{Exchange: "NYQ", Ticker: "IBM"}}, nil
	}}
	cache := newMemoryCache(nil)
	uc := usecase.NewResolveUsecase(provider, cache, 8, 20*time.Millisecond, nil)

	start := time.Now()
	got, err := uc.Resolve(context.Background(), []string{"US0378331005", "US4592001014"})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, "US0378331005error", got["US0378331005"])
	assert.Equal(t, "NYSE:IBM", got["US4592001014"])
	assert.NotContains(t, cache.Read(context.Background()), "US0378331005")
}

func TestResolveUsecase_Resolve_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	const limit = 3
	var inFlight, peak atomic.Int32
	provider := &mockProvider{LookupFunc: func(ctx context.Context, isin string) ([]entity.Candidate, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return []entity.Candidate{{Exchange: "NYQ", Ticker: isin[:4]}}, nil
	}}
	uc := usecase.NewResolveUsecase(provider, newMemoryCache(nil), limit, time.Second, nil)

	lines := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		lines = append(lines, fmt.Sprintf("US%010d", i))
	}
	got, err := uc.Resolve(context.Background(), lines)
	require.NoError(t, err)

	assert.Len(t, got, 20)
	assert.EqualValues(t, 20, provider.LookupCalls.Load())
	assert.LessOrEqual(t, peak.Load(), int32(limit))
}

func TestResolveUsecase_Resolve_DuplicateIdentifiersLookedUpOnce(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{LookupFunc: candidatesFor(map[string][]entity.Candidate{
		"US0378331005": {{Exchange: "NMS", Ticker: "AAPL"}},
	})}
	uc := usecase.NewResolveUsecase(provider, newMemoryCache(nil), 8, time.Second, nil)

	got, err := uc.Resolve(context.Background(), []string{"US0378331005", "US0378331005;again"})
	require.NoError(t, err)

	assert.Len(t, got, 1)
	assert.EqualValues(t, 1, provider.LookupCalls.Load())
}

func TestResolveUsecase_Resolve_MergeFailureIsSurfaced(t *testing.T) {
	t.Parallel()

	errDisk := errors.New("disk full")
	provider := &mockProvider{LookupFunc: candidatesFor(map[string][]entity.Candidate{
		"US0378331005": {{Exchange: "NMS", Ticker: "AAPL"}},
	})}
	cache := newMemoryCache(nil)
	cache.mergeErr = errDisk
	uc := usecase.NewResolveUsecase(provider, cache, 8, time.Second, nil)

	got, err := uc.Resolve(context.Background(), []string{"US0378331005"})

	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, entity.SymbolMap{"US0378331005": "NASDAQ:AAPL"}, got, "mapping is still complete")
}

func TestResolveUsecase_Resolve_NoIdentifiers(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{}
	cache := newMemoryCache(nil)
	uc := usecase.NewResolveUsecase(provider, cache, 0, 0, nil)

	got, err := uc.Resolve(context.Background(), []string{"", "BAD", "too-long-identifier"})
	require.NoError(t, err)

	assert.Empty(t, got)
	assert.Zero(t, provider.LookupCalls.Load())
	assert.Zero(t, cache.ReadCalls)
}
