package marketplace

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/channelgrid/backend/internal/domain/connector"
)

func TestTokenManagerCachesUntilExpiry(t *testing.T) {
	var calls int32
	m := newTokenManager(func(ctx context.Context) (string, time.Time, error) {
		n := atomic.AddInt32(&calls, 1)
		return "token-" + string(rune('0'+n)), time.Now().Add(time.Hour), nil
	}, zap.NewNop())

	first, err := m.ValidToken(context.Background())
	require.NoError(t, err)
	second, err := m.ValidToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTokenManagerSingleFlight(t *testing.T) {
	var calls int32
	m := newTokenManager(func(ctx context.Context) (string, time.Time, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(50 * time.Millisecond)
		return "shared-token", time.Now().Add(time.Hour), nil
	}, zap.NewNop())

	const workers = 20
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.ValidToken(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared-token", results[i])
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent callers must share one refresh")
}

func TestTokenManagerInvalidateForcesRefresh(t *testing.T) {
	var calls int32
	m := newTokenManager(func(ctx context.Context) (string, time.Time, error) {
		atomic.AddInt32(&calls, 1)
		return "tok", time.Now().Add(time.Hour), nil
	}, zap.NewNop())

	_, err := m.ValidToken(context.Background())
	require.NoError(t, err)

	m.Invalidate()

	_, err = m.ValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTokenManagerExpiredTokenRefreshes(t *testing.T) {
	var calls int32
	m := newTokenManager(func(ctx context.Context) (string, time.Time, error) {
		atomic.AddInt32(&calls, 1)
		// Expiry within the safety skew counts as already expired.
		return "tok", time.Now().Add(time.Second), nil
	}, zap.NewNop())

	_, err := m.ValidToken(context.Background())
	require.NoError(t, err)
	_, err = m.ValidToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTokenManagerRefreshFailureIsPermanent(t *testing.T) {
	m := newTokenManager(func(ctx context.Context) (string, time.Time, error) {
		return "", time.Time{}, errors.New("invalid_grant")
	}, zap.NewNop())

	_, err := m.ValidToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, connector.ErrAuthenticationFailed)
}

func TestTokenManagerSeed(t *testing.T) {
	var calls int32
	m := newTokenManager(func(ctx context.Context) (string, time.Time, error) {
		atomic.AddInt32(&calls, 1)
		return "refreshed", time.Now().Add(time.Hour), nil
	}, zap.NewNop())

	m.Seed("preissued", time.Now().Add(time.Hour))

	tok, err := m.ValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "preissued", tok)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
