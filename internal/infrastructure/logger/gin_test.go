package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(t *testing.T, level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(level)
	l := zap.New(core)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Request-ID"); id != "" {
			c.Set(RequestIDKey, id)
		}
		c.Next()
	})
	router.Use(GinMiddleware(l))
	router.Use(Recovery(l))
	return router, recorded
}

func requestLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"ok", http.StatusOK, zapcore.InfoLevel},
		{"client error", http.StatusBadRequest, zapcore.WarnLevel},
		{"server error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, recorded := newTestRouter(t, zapcore.InfoLevel)
			router.GET("/api/v1/catalog", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog?x=1", nil))

			entry := requestLog(t, recorded)
			assert.Equal(t, tt.level, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, "x=1", fields["query"])
			assert.Equal(t, "/api/v1/catalog", fields["path"])
		})
	}
}

func TestGinMiddleware_BindsRequestAndCustomer(t *testing.T) {
	router, recorded := newTestRouter(t, zapcore.InfoLevel)
	router.POST("/api/v1/customers/:id/reports", func(c *gin.Context) {
		ctx := c.Request.Context()
		assert.Equal(t, "req-9", GetRequestID(ctx))
		assert.Equal(t, "cust-3", GetCustomerID(ctx))
		FromContext(ctx).Info("generating")
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/cust-3/reports", nil)
	req.Header.Set("X-Request-ID", "req-9")
	router.ServeHTTP(httptest.NewRecorder(), req)

	inner := recorded.FilterMessage("generating").All()
	require.Len(t, inner, 1)
	assert.Equal(t, "req-9", inner[0].ContextMap()["request_id"])
	assert.Equal(t, "cust-3", inner[0].ContextMap()["customer_id"])

	assert.Equal(t, "cust-3", requestLog(t, recorded).ContextMap()["customer_id"])
}

func TestGinMiddleware_OtherIDRoutesNotTaggedAsCustomer(t *testing.T) {
	router, recorded := newTestRouter(t, zapcore.InfoLevel)
	router.GET("/api/v1/reports/:id", func(c *gin.Context) {
		assert.Empty(t, GetCustomerID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/reports/r-1", nil))

	assert.NotContains(t, requestLog(t, recorded).ContextMap(), "customer_id")
}

func TestGinMiddleware_LogsErrors(t *testing.T) {
	router, recorded := newTestRouter(t, zapcore.InfoLevel)
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusBadGateway)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Contains(t, requestLog(t, recorded).ContextMap(), "errors")
}

func TestRecovery(t *testing.T) {
	router, recorded := newTestRouter(t, zapcore.ErrorLevel)
	router.GET("/panic", func(c *gin.Context) { panic("ledger exploded") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.NotNil(t, GetGinLogger(c))

	l := zap.NewExample()
	c.Set(GinContextKey, l)
	assert.Same(t, l, GetGinLogger(c))

	c.Set(GinContextKey, "wrong")
	assert.NotNil(t, GetGinLogger(c))
}
