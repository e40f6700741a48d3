package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signup-service/internal/core/auth"
	"signup-service/internal/domain"
	resp "signup-service/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func decode(t *testing.T, w *httptest.ResponseRecorder) resp.Body {
	t.Helper()
	var b resp.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	rid := w.Header().Get(KeyRequestID)
	assert.NotEmpty(t, rid)
	assert.Equal(t, rid, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(KeyRequestID))
}

func TestRecovery_PanicBecomesInternalJSON(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(resp.NewClassifier(domain.EnvProduction, nil)))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	b := decode(t, w)
	assert.False(t, b.Success)
	assert.Equal(t, domain.KindInternal, b.ErrorKind)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestTimeout_ExpiredDeadlineIsUnavailable(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(20*time.Millisecond, resp.NewClassifier(domain.EnvDevelopment, nil)))
	r.GET("/", func(c *gin.Context) { <-c.Request.Context().Done() })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	b := decode(t, w)
	assert.Equal(t, domain.KindServiceUnavailable, b.ErrorKind)
	assert.Equal(t, resp.MsgDatabaseDown, b.Message)
}

func TestTimeout_FastHandlerUntouched(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Second, resp.NewClassifier(domain.EnvDevelopment, nil)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestConcurrencyLimit_CancelledWhileWaiting(t *testing.T) {
	r := gin.New()
	r.Use(ConcurrencyLimit(1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, domain.KindServiceUnavailable, decode(t, w).ErrorKind)
}

func TestAuthJWT(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "signup-service", TTL: time.Hour}
	r := gin.New()
	r.Use(AuthJWT(j, "admin"))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("operatorId")) })

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, call("").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer nope").Code)

	viewer, err := j.Issue("u1", "viewer")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, call("Bearer "+viewer).Code)

	admin, err := j.Issue("op-7", "admin")
	require.NoError(t, err)
	w := call("Bearer " + admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "op-7", w.Body.String())
}
