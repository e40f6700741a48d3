package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"signup-service/internal/core/database"
	"signup-service/internal/domain"
	"signup-service/internal/repo"
	"signup-service/internal/service"
	"signup-service/internal/transport/http/handler"
	resp "signup-service/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

const validBody = `{"name":"Jordan Reyes","email":"Jordan@Example.com ","password":"Sup3rSecret!","dateOfBirth":"2001-04-12","role":"ATHLETE"}`

type apiEnv struct {
	engine *gin.Engine
	logs   *observer.ObservedLogs
}

func newAPI(t *testing.T, accounts domain.AccountRepository, env domain.Environment) apiEnv {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)
	cl := resp.NewClassifier(env, l)
	svc := service.NewSignupService(accounts, service.BcryptHasher{Cost: bcrypt.MinCost})
	r := NewAPIEngine(l, Options{RequestTimeout: 5 * time.Second}, handler.NewSignupHandler(svc, cl), cl)
	return apiEnv{engine: r, logs: logs}
}

func (e apiEnv) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func body(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func refused() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: fmt.Errorf("connect: %w", syscall.ECONNREFUSED)}
}

// 正常注册：201，返回账号不含密码，账号与档案同时存在
func TestRegister_HappyPath(t *testing.T) {
	accounts := newMemAccounts()
	api := newAPI(t, accounts, domain.EnvProduction)

	w := api.post(validBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := body(t, w)
	assert.Equal(t, true, m["success"])
	assert.Equal(t, "Account created successfully", m["message"])

	user := m["user"].(map[string]any)
	assert.Equal(t, "jordan@example.com", user["email"])
	assert.Equal(t, "ATHLETE", user["role"])
	assert.Equal(t, "ACTIVE", user["status"])
	assert.NotNil(t, user["emailVerifiedAt"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, w.Body.String(), "Sup3rSecret!")
	assert.NotContains(t, w.Body.String(), "$2a$")

	nAcc, nProf := accounts.size()
	assert.Equal(t, 1, nAcc)
	assert.Equal(t, 1, nProf)
	p := accounts.profiles[user["id"].(string)]
	require.IsType(t, domain.AthleteProfile{}, p)
	assert.Equal(t, domain.DefaultPrimarySport, p.(domain.AthleteProfile).PrimarySport)
}

func TestRegister_SecondAttemptConflicts(t *testing.T) {
	api := newAPI(t, newMemAccounts(), domain.EnvProduction)
	require.Equal(t, http.StatusCreated, api.post(validBody).Code)

	w := api.post(strings.Replace(validBody, `"role":"ATHLETE"`, `"role":"COACH"`, 1))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ConflictError", body(t, w)["errorKind"])
}

// 两个并发请求都通过查重，唯一约束裁决：一个 201，一个 409
func TestRegister_ConcurrentSameEmail(t *testing.T) {
	accounts := newMemAccounts()
	var gate sync.WaitGroup
	gate.Add(2)
	accounts.afterCheck = func() {
		gate.Done()
		gate.Wait()
	}
	api := newAPI(t, accounts, domain.EnvProduction)

	codes := make([]int, 2)
	var wg sync.WaitGroup
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = api.post(validBody).Code
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, codes)
	nAcc, nProf := accounts.size()
	assert.Equal(t, 1, nAcc)
	assert.Equal(t, 1, nProf)
}

// 本地数据库未启动：开发环境给出操作提示，生产环境给出通用文案
func TestRegister_DatabaseDown(t *testing.T) {
	for env, msg := range map[domain.Environment]string{
		domain.EnvDevelopment: resp.MsgDatabaseDown,
		domain.EnvProduction:  resp.MsgUnavailable,
	} {
		t.Run(string(env), func(t *testing.T) {
			accounts := newMemAccounts()
			accounts.err = domain.ErrUnavailable(refused())
			api := newAPI(t, accounts, env)

			w := api.post(validBody)
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			m := body(t, w)
			assert.Equal(t, false, m["success"])
			assert.Equal(t, "ServiceUnavailableError", m["errorKind"])
			assert.Equal(t, msg, m["message"])
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestRegister_NoDatabaseConfigured(t *testing.T) {
	api := newAPI(t, repo.NewAccountRepo(nil), domain.EnvDevelopment)
	w := api.post(validBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	m := body(t, w)
	assert.Equal(t, "ConfigurationError", m["errorKind"])
	assert.Equal(t, resp.MsgMisconfigured, m["message"])
}

func TestRegister_InvalidInputCreatesNothing(t *testing.T) {
	accounts := newMemAccounts()
	api := newAPI(t, accounts, domain.EnvProduction)

	for _, b := range []string{
		strings.Replace(validBody, "Sup3rSecret!", "short", 1),
		strings.Replace(validBody, "Jordan@Example.com ", "not-an-email", 1),
		strings.Replace(validBody, `"role":"ATHLETE"`, `"role":"REFEREE"`, 1),
		strings.Replace(validBody, "2001-04-12", "2999-01-01", 1),
		`{"name":`,
	} {
		w := api.post(b)
		assert.Equal(t, http.StatusBadRequest, w.Code, b)
		assert.Equal(t, "ValidationError", body(t, w)["errorKind"])
	}
	nAcc, nProf := accounts.size()
	assert.Zero(t, nAcc)
	assert.Zero(t, nProf)
}

func TestRegister_PasswordNeverLogged(t *testing.T) {
	accounts := newMemAccounts()
	api := newAPI(t, accounts, domain.EnvDevelopment)
	api.post(validBody)
	api.post(validBody) // 409 也会写日志
	accounts.err = database.ErrNotConfigured
	api.post(strings.Replace(validBody, "Jordan@", "other@", 1))

	require.NotZero(t, api.logs.Len())
	for _, e := range api.logs.All() {
		line := e.Message + fmt.Sprint(e.ContextMap())
		assert.NotContains(t, line, "Sup3rSecret!")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	api := newAPI(t, newMemAccounts(), domain.EnvProduction)
	api.post(validBody)

	for _, p := range []string{"/health", "/health/db", "/metrics"} {
		w := httptest.NewRecorder()
		api.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, w.Code, p)
		if p == "/metrics" {
			b, _ := io.ReadAll(w.Body)
			assert.Contains(t, string(b), `signup_attempts_total{outcome="created"}`)
		}
	}
}

func TestRequestIDEchoed(t *testing.T) {
	api := newAPI(t, newMemAccounts(), domain.EnvProduction)
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{}`))
	req.Header.Set(resp.RequestIDKey, "trace-42")
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)
	assert.Equal(t, "trace-42", w.Header().Get(resp.RequestIDKey))
}

// 并发名额耗尽时，排队的请求在超时后返回 503
func TestQueuedRequestTimesOut(t *testing.T) {
	cl := resp.NewClassifier(domain.EnvProduction, nil)
	r := gin.New()
	use(r, Options{MaxConcurrent: 1, RequestTimeout: 50 * time.Millisecond}, cl)

	entered := make(chan struct{})
	release := make(chan struct{})
	r.GET("/hold", func(c *gin.Context) {
		close(entered)
		<-release
		c.Status(http.StatusNoContent)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hold", nil))
	}()
	<-entered

	start := time.Now()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, "ServiceUnavailableError", body(t, w)["errorKind"])

	close(release)
	<-done
}
