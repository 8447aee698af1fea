package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredmak/hostel-manager/internal/config"
)

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("X-Custom", "a")
	hdr.Add("X-Custom", "b")
	body := []byte(`{"items":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, []string{"a", "b"}, gotHdr["X-Custom"])
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)

	// Header length pointing past the buffer.
	bs, err := encodePayload(200, http.Header{}, nil)
	require.NoError(t, err)
	bs[7] = 0xFF
	_, _, _, ok = decodePayload(bs)
	assert.False(t, ok)
}

func newTestContext(t *testing.T, method, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/home")
	return c
}

func TestCacheKeyStable(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	a := cacheKeyFrom(cfg, newTestContext(t, http.MethodGet, "/v1/home?x=1"))
	b := cacheKeyFrom(cfg, newTestContext(t, http.MethodGet, "/v1/home?x=1"))
	other := cacheKeyFrom(cfg, newTestContext(t, http.MethodGet, "/v1/home?x=2"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Contains(t, a, "cache:")
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	c := newTestContext(t, http.MethodPost, "/v1/applications")
	c.SetPath("/v1/applications")

	key := buildRateKey(cfg, c)
	assert.Contains(t, key, "rl:ip:")
	assert.Contains(t, key, "route:POST /v1/applications")

	cfg.KeyStrategy = "user"
	c.Set("user_id", "42")
	assert.Equal(t, "rl:user:42", buildRateKey(cfg, c))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(5), asInt64(int64(5)))
	assert.Equal(t, int64(5), asInt64(5))
	assert.Equal(t, int64(5), asInt64(5.0))
	assert.Equal(t, int64(5), asInt64("5"))
	assert.Equal(t, int64(0), asInt64("nope"))
}

func TestDisabledLimiterPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(newTestContext(t, http.MethodGet, "/v1/home")))
	assert.True(t, called)
}

func TestDisabledCachePassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false, TTL: time.Minute}, nil)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(newTestContext(t, http.MethodGet, "/v1/home")))
	assert.True(t, called)
}
