package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "leadqualification_backend/internal/http"
	"leadqualification_backend/platform/config"
	"leadqualification_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Root.GET("/echo", func(c *gin.Context) { c.String(http.StatusOK, "echo") })
}

func newApp(metrics bool, storeErr error) *apphttp.App {
	return &apphttp.App{
		Config: &config.Config{
			CORSAllowAll:   true,
			CORSAllowCreds: true,
			CORSOrigins:    []string{"*"},
			MetricsEnabled: metrics,
		},
		Logger:  logger.Discard(),
		Health:  pinger{err: storeErr},
		Modules: []apphttp.Module{echoModule{}},
	}
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestModulesAreMountedAtRoot(t *testing.T) {
	engine := New(newApp(false, nil))

	rec := get(engine, "/echo")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "echo", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHealthEndpoints(t *testing.T) {
	engine := New(newApp(false, nil))

	rec := get(engine, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, get(engine, "/live").Code)
	assert.Equal(t, http.StatusOK, get(engine, "/ready").Code)
}

func TestReadinessFailsWhenStoreIsDown(t *testing.T) {
	engine := New(newApp(false, errors.New("connection refused")))

	assert.Equal(t, http.StatusServiceUnavailable, get(engine, "/ready").Code)
	assert.Equal(t, http.StatusOK, get(engine, "/live").Code)
}

func TestMetricsEndpointFollowsConfig(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(New(newApp(false, nil)), "/metrics").Code)

	engine := New(newApp(true, nil))
	get(engine, "/echo")

	rec := get(engine, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/echo",status_code="200"}`)
}
