package marketplace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/channelgrid/backend/internal/domain/connector"
)

// tokenExpirySkew renews tokens slightly before their declared expiry so a
// token is never used in the final seconds of its lifetime.
const tokenExpirySkew = 30 * time.Second

// refreshFunc exchanges credentials for a fresh access token. It returns
// the token value and its absolute expiry.
type refreshFunc func(ctx context.Context) (string, time.Time, error)

// tokenManager caches one access token per connector instance, tracks its
// expiry and refreshes it on demand. Refresh is single-flight: concurrent
// callers during an in-flight refresh all await the same exchange, so the
// token endpoint sees exactly one request. Token state lives and dies with
// the connector instance; it is never persisted or shared.
type tokenManager struct {
	refresh refreshFunc
	logger  *zap.Logger

	group singleflight.Group

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func newTokenManager(refresh refreshFunc, logger *zap.Logger) *tokenManager {
	return &tokenManager{
		refresh: refresh,
		logger:  logger,
	}
}

// ValidToken returns the cached token while it is still fresh, otherwise
// performs a (single-flight) refresh. Refresh failures surface as
// connector.ErrAuthenticationFailed and are not retried here: the caller's
// retry executor treats them as permanent.
func (m *tokenManager) ValidToken(ctx context.Context) (string, error) {
	if tok, ok := m.cached(); ok {
		return tok, nil
	}

	value, err, _ := m.group.Do("refresh", func() (any, error) {
		// A concurrent caller may have refreshed while we queued.
		if tok, ok := m.cached(); ok {
			return tok, nil
		}

		token, expiry, err := m.refresh(ctx)
		if err != nil {
			m.logger.Warn("Token refresh failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", connector.ErrAuthenticationFailed, err)
		}

		m.mu.Lock()
		m.token = token
		m.expiry = expiry.Add(-tokenExpirySkew)
		m.mu.Unlock()

		m.logger.Debug("Access token refreshed", zap.Time("expiry", expiry))
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// Invalidate discards the cached token so the next ValidToken call forces a
// refresh. Called when a request comes back 401 despite a fresh-looking
// token.
func (m *tokenManager) Invalidate() {
	m.mu.Lock()
	m.token = ""
	m.expiry = time.Time{}
	m.mu.Unlock()
}

// Seed installs a pre-issued token, used when the caller supplies an
// accessToken credential up front.
func (m *tokenManager) Seed(token string, expiry time.Time) {
	if token == "" {
		return
	}
	m.mu.Lock()
	m.token = token
	m.expiry = expiry
	m.mu.Unlock()
}

func (m *tokenManager) cached() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token != "" && time.Now().Before(m.expiry) {
		return m.token, true
	}
	return "", false
}
