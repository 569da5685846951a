package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/metrics"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/cache"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	args := m.Called(ctx, key, dst)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Generation(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value any, gen int64) (bool, error) {
	args := m.Called(ctx, key, value, gen)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) InvalidateAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func sampleResult() *metrics.Result {
	return &metrics.Result{
		Table: metrics.Table{
			Headers: []string{"Total", "Average", "1-Aug"},
			Rows:    []metrics.TableRow{{Label: metrics.RowManpower, Values: []float64{3, 3, 3}, Total: 3, Average: 3}},
		},
		Chart:   []metrics.ChartPoint{{Name: "1-Aug", CapacityAt100: 76.76}},
		Summary: metrics.Summary{ManpowerTotal: 3, ManpowerAverage: 3},
		Meta:    metrics.Meta{Month: 8, Year: 2025, Label: "August 2025", Days: 1},
	}
}

func newCached(next metrics.MetricsService, c cache.MetricsCache) metrics.MetricsService {
	return NewCachedMetricsService(next, c, func() time.Time { return fixedNow })
}

func TestCachedMetricsService_MissComputesAndStores(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	inner := &mockMetricsService{}
	svc := newCached(inner, cache.NewRedisMetricsCache(client, time.Minute))

	want := sampleResult()
	raw, _ := json.Marshal(want)
	key := "metrics:group:G1:2025-08"

	redisMock.ExpectGet(key).RedisNil()
	redisMock.ExpectGet(cache.GenerationKey).SetVal("4")
	inner.On("GetGroupMetrics", mock.Anything, "G1", 8, 2025).Return(want, nil).Once()
	// The script body is matched loosely; keys, generation, payload and ttl exactly.
	redisMock.Regexp().ExpectEval("SET", []string{cache.GenerationKey, key}, int64(4), raw, int64(60000)).SetVal("OK")

	// Month 0 resolves to the clock's month before the key is built.
	got, err := svc.GetGroupMetrics(context.Background(), "G1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	inner.AssertExpectations(t)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedMetricsService_HitSkipsComputation(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	inner := &mockMetricsService{}
	svc := newCached(inner, cache.NewRedisMetricsCache(client, time.Minute))

	want := &metrics.AllGroupsResult{Result: *sampleResult(), ActiveGroupsCount: 3}
	raw, _ := json.Marshal(want)
	redisMock.ExpectGet("metrics:all:2025-08").SetVal(string(raw))

	got, err := svc.GetAllGroupsMetrics(context.Background(), 8, 2025)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	inner.AssertNotCalled(t, "GetAllGroupsMetrics", mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedMetricsService_ErrorsAreNotCached(t *testing.T) {
	c := &mockCache{}
	inner := &mockMetricsService{}
	svc := newCached(inner, c)

	fetchErr := metrics.NewFetchError(metrics.StoreAttendance, errors.New("timeout"))
	c.On("Get", mock.Anything, "metrics:all:2025-08", mock.Anything).Return(false, nil)
	c.On("Generation", mock.Anything).Return(int64(0), nil)
	inner.On("GetAllGroupsMetrics", mock.Anything, 8, 2025).Return(nil, fetchErr).Once()

	got, err := svc.GetAllGroupsMetrics(context.Background(), 8, 2025)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, fetchErr)

	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedMetricsService_CacheFailureFallsThrough(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	inner := &mockMetricsService{}
	svc := newCached(inner, cache.NewRedisMetricsCache(client, time.Minute))

	want := sampleResult()
	raw, _ := json.Marshal(want)
	key := "metrics:group:G1:2025-08"

	redisMock.ExpectGet(key).SetErr(errors.New("connection refused"))
	redisMock.ExpectGet(cache.GenerationKey).RedisNil()
	inner.On("GetGroupMetrics", mock.Anything, "G1", 8, 2025).Return(want, nil).Once()
	redisMock.Regexp().ExpectEval("SET", []string{cache.GenerationKey, key}, int64(0), raw, int64(60000)).
		SetErr(errors.New("connection refused"))

	got, err := svc.GetGroupMetrics(context.Background(), "G1", 8, 2025)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCachedMetricsService_BlankGroup(t *testing.T) {
	inner := &mockMetricsService{}
	svc := newCached(inner, cache.NewNoopMetricsCache())

	_, err := svc.GetGroupMetrics(context.Background(), " ", 8, 2025)
	assert.ErrorIs(t, err, metrics.ErrGroupRequired)
	inner.AssertNotCalled(t, "GetGroupMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedMetricsService_CollapsesConcurrentMisses(t *testing.T) {
	inner := &mockMetricsService{}
	svc := newCached(inner, cache.NewNoopMetricsCache())

	release := make(chan struct{})
	inner.On("GetGroupMetrics", mock.Anything, "G1", 8, 2025).
		Run(func(mock.Arguments) { <-release }).
		Return(sampleResult(), nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*metrics.Result, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := svc.GetGroupMetrics(context.Background(), "G1", 8, 2025)
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	inner.AssertNumberOfCalls(t, "GetGroupMetrics", 1)
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestCachedMetricsService_GenerationReadFailureSkipsStore(t *testing.T) {
	c := &mockCache{}
	inner := &mockMetricsService{}
	svc := newCached(inner, c)

	c.On("Get", mock.Anything, "metrics:group:G1:2025-08", mock.Anything).Return(false, nil)
	c.On("Generation", mock.Anything).Return(int64(0), errors.New("connection refused"))
	inner.On("GetGroupMetrics", mock.Anything, "G1", 8, 2025).Return(sampleResult(), nil).Once()

	got, err := svc.GetGroupMetrics(context.Background(), "G1", 8, 2025)
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), got)
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// generationCache is an in-memory cache that applies the same generation
// rule as the Redis script.
type generationCache struct {
	mu      sync.Mutex
	gen     int64
	entries map[string]any
}

func (c *generationCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	return false, nil
}

func (c *generationCache) Generation(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *generationCache) Set(ctx context.Context, key string, value any, gen int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false, nil
	}
	if c.entries == nil {
		c.entries = map[string]any{}
	}
	c.entries[key] = value
	return true, nil
}

func (c *generationCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = nil
	return nil
}

func TestCachedMetricsService_InvalidationDuringComputeDropsStore(t *testing.T) {
	c := &generationCache{}
	inner := &mockMetricsService{}
	svc := newCached(inner, c)

	// An attendance write lands while the computation is still reading.
	inner.On("GetGroupMetrics", mock.Anything, "G1", 8, 2025).
		Run(func(mock.Arguments) { assert.NoError(t, c.InvalidateAll(context.Background())) }).
		Return(sampleResult(), nil).Once()

	got, err := svc.GetGroupMetrics(context.Background(), "G1", 8, 2025)
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), got)
	assert.Empty(t, c.entries, "pre-invalidation result must not be cached")

	inner.On("GetGroupMetrics", mock.Anything, "G1", 8, 2025).Return(sampleResult(), nil).Once()
	_, err = svc.GetGroupMetrics(context.Background(), "G1", 8, 2025)
	require.NoError(t, err)
	assert.Contains(t, c.entries, "metrics:group:G1:2025-08")
}

func TestCachedMetricsService_CancelledCallerDoesNotFailOthers(t *testing.T) {
	inner := &mockMetricsService{}
	svc := newCached(inner, cache.NewNoopMetricsCache())

	started := make(chan struct{})
	release := make(chan struct{})
	var computeErr error
	inner.On("GetGroupMetrics", mock.Anything, "G1", 8, 2025).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
			computeErr = args.Get(0).(context.Context).Err()
		}).
		Return(sampleResult(), nil).Once()

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.GetGroupMetrics(ctxA, "G1", 8, 2025)
		errA <- err
	}()
	<-started

	type outcome struct {
		result *metrics.Result
		err    error
	}
	resB := make(chan outcome, 1)
	go func() {
		r, err := svc.GetGroupMetrics(context.Background(), "G1", 8, 2025)
		resB <- outcome{r, err}
	}()

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, sampleResult(), b.result)
	assert.NoError(t, computeErr, "shared computation must not see the first caller's cancellation")
	inner.AssertNumberOfCalls(t, "GetGroupMetrics", 1)
}
