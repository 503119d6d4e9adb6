package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragbridge/internal/bootstrap"
	"ragbridge/internal/config"
	"ragbridge/internal/logger"
	"ragbridge/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:     "ragbridge",
			Env:      "test",
			Host:     "127.0.0.1",
			Port:     3000,
			BasePath: "http://localhost:3000",
			GinMode:  "test",
		},
		Routes:  config.RoutesConfig{Dir: "testdata/routes"},
		Actions: config.ActionsConfig{Enabled: true},
	}
}

func testApp(cfg *config.Config) *bootstrap.App {
	return &bootstrap.App{
		Config:    cfg,
		Log:       logger.New(&bytes.Buffer{}, &bytes.Buffer{}),
		StartedAt: time.Now(),
	}
}

func TestCORSPreflight(t *testing.T) {
	router, err := NewRouter(testApp(testConfig()))
	require.NoError(t, err)

	// The Origin must differ from httptest's default request host
	// (example.com), otherwise cors treats the request as same-origin.
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/rag/targets", nil)
	req.Header.Set("Origin", "https://client.other-site.io")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Authorization")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	allowed := w.Header().Get("Access-Control-Allow-Headers")
	assert.Contains(t, allowed, "Content-Type")
	assert.Contains(t, allowed, "Authorization")
}

func TestActionsJSON(t *testing.T) {
	router, err := NewRouter(testApp(testConfig()))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/actions.json", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Rules []struct {
			PathPattern string `json:"pathPattern"`
			APIPath     string `json:"apiPath"`
		} `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Rules, 1)
	assert.Equal(t, "http://localhost:3000/api/sendcredits", body.Rules[0].APIPath)
	assert.NotEmpty(t, body.Rules[0].PathPattern)
}

func TestActionsJSONDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Actions.Enabled = false
	router, err := NewRouter(testApp(cfg))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/actions.json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAutoloadedRouteServed(t *testing.T) {
	router, err := NewRouter(testApp(testConfig()))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestMissingRoutesDirIsFatal(t *testing.T) {
	cfg := testConfig()
	cfg.Routes.Dir = "testdata/absent"

	_, err := NewRouter(testApp(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "autoload routes failed")
}

func TestPanicIsNormalized(t *testing.T) {
	errOut := &bytes.Buffer{}
	app := testApp(testConfig())
	app.Log = logger.New(&bytes.Buffer{}, errOut)

	router, err := NewRouter(app)
	require.NoError(t, err)
	router.GET("/boom", func(c *gin.Context) {
		panic("route blew up")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":50000,"message":"internal server error"}`, w.Body.String())
	assert.Contains(t, errOut.String(), "route blew up")
}

func TestRequestIDEchoed(t *testing.T) {
	router, err := NewRouter(testApp(testConfig()))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}

func TestHealthzWithDisabledDependencies(t *testing.T) {
	router, err := NewRouter(testApp(testConfig()))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"disabled"`)
}

func TestSwaggerSpecServed(t *testing.T) {
	router, err := NewRouter(testApp(testConfig()))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var spec struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &spec))
	assert.Equal(t, "ragbridge API", spec.Info.Title)
	assert.Contains(t, spec.Paths, "/actions.json")
	assert.Contains(t, spec.Paths, "/healthz")
}

func TestMetricsEndpoint(t *testing.T) {
	router, err := NewRouter(testApp(testConfig()))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

type fakePublisher struct {
	jobs []model.ScrapeJob
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, job model.ScrapeJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func TestRAGTargets(t *testing.T) {
	router, err := NewRouter(testApp(testConfig()))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rag/targets", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "discordjs/discord.js")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rag/targets/discord", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rag/targets/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRAGRefreshDisabled(t *testing.T) {
	router, err := NewRouter(testApp(testConfig()))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/rag/refresh", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRAGRefreshPublishes(t *testing.T) {
	app := testApp(testConfig())
	pub := &fakePublisher{}
	app.ScrapePublisher = pub

	router, err := NewRouter(app)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rag/refresh", bytes.NewBufferString(`{"target":"discord"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, pub.jobs, 1)
	job := pub.jobs[0]
	assert.Equal(t, "discord", job.Target)
	assert.Equal(t, "https://github.com/discordjs/discord.js", job.RepoURL)
	assert.Equal(t, []string{"ts"}, job.FileExtensions)
	assert.NotEmpty(t, job.JobID)
}

func TestRAGRefreshAllTargets(t *testing.T) {
	app := testApp(testConfig())
	pub := &fakePublisher{}
	app.ScrapePublisher = pub

	router, err := NewRouter(app)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/rag/refresh", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, len(pub.jobs), 1)
}

func TestStartupScenario(t *testing.T) {
	out := &bytes.Buffer{}
	app := testApp(testConfig())
	app.Log = logger.New(out, &bytes.Buffer{})

	router, err := NewRouter(app)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	defer server.Close()

	app.Log.Info("server listening on " + server.Listener.Addr().String())

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("INFO: server listening on")))
	assert.Contains(t, out.String(), server.Listener.Addr().String())
}
