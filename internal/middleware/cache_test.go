package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/cinelane/ticketing/internal/config"
)

func keyFor(cfg config.CacheConfig, target, routePattern string) string {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(routePattern)
	return cacheKeyFrom(cfg, c)
}

func TestCacheKeyDistinguishesPathParams(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	const pattern = "/v1/viewers/:id/image"

	one := keyFor(cfg, "/v1/viewers/1/image", pattern)
	two := keyFor(cfg, "/v1/viewers/2/image", pattern)

	// Two owners resolving through the same route pattern must never
	// share a cache entry.
	assert.NotEqual(t, one, two)
	assert.Equal(t, one, keyFor(cfg, "/v1/viewers/1/image", pattern))
}

func TestCacheKeyDistinguishesQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	const pattern = "/v1/orders/filter"

	a := keyFor(cfg, "/v1/orders/filter?seller_id=1", pattern)
	b := keyFor(cfg, "/v1/orders/filter?seller_id=2", pattern)
	assert.NotEqual(t, a, b)
}

func TestCacheKeyRouteStrategyIgnoresQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}
	const pattern = "/v1/viewers"

	a := keyFor(cfg, "/v1/viewers?x=1", pattern)
	b := keyFor(cfg, "/v1/viewers?x=2", pattern)
	assert.Equal(t, a, b)
}
