package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingCache wraps MemoryCache to observe hit behavior.
type countingCache struct {
	inner *MemoryCache
	gets  int
	sets  int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.gets++
	return c.inner.Get(ctx, key)
}

func (c *countingCache) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	return c.inner.Set(ctx, key, value)
}

func newTestHandler(cache Cache) http.Handler {
	return NewHandler(zap.NewNop(), cache, "test")
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestVersionEndpoint(t *testing.T) {
	h := newTestHandler(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "test", body["version"])
}

func TestFutureValueEndpoint(t *testing.T) {
	h := newTestHandler(nil)
	rec := postJSON(t, h, "/api/tvm/fv",
		`{"principal":"5000","contribution":"200","annualRate":"0","years":"10","periodsPerYear":1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Value string `json:"value"`
		Valid bool   `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Valid)
	assert.Equal(t, "7000", res.Value)
}

func TestFutureValueValidationMapsTo422(t *testing.T) {
	h := newTestHandler(nil)
	rec := postJSON(t, h, "/api/tvm/fv",
		`{"principal":"-1","contribution":"200","annualRate":"0.05","years":"10","periodsPerYear":12}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error struct {
			Kind   string   `json:"kind"`
			Fields []string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing_field", body.Error.Kind)
	assert.Contains(t, body.Error.Fields, "principal")
}

func TestMalformedJSONMapsTo400(t *testing.T) {
	h := newTestHandler(nil)
	rec := postJSON(t, h, "/api/tvm/fv", `{"principal":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad_request", body.Error.Kind)
}

func TestTVMSolveEndpoint(t *testing.T) {
	h := newTestHandler(nil)
	rec := postJSON(t, h, "/api/tvm/solve",
		`{"solve":"principal","targetFutureValue":"7000",
		  "input":{"contribution":"200","annualRate":"0","years":"10","periodsPerYear":1}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Value string `json:"value"`
		Valid bool   `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Valid)
	assert.Equal(t, "5000", res.Value)
}

func TestTVMSolveUnknownTarget(t *testing.T) {
	h := newTestHandler(nil)
	rec := postJSON(t, h, "/api/tvm/solve",
		`{"solve":"present_value","input":{"principal":"1","annualRate":"0","years":"1","periodsPerYear":1}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLoanScheduleEndpoint(t *testing.T) {
	h := newTestHandler(nil)
	rec := postJSON(t, h, "/api/loan/schedule",
		`{"principal":"12000","annualRate":"0","termYears":"1","graceYears":"0","method":"equal_payment"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Schedule []struct {
			Period        int    `json:"period"`
			PrincipalPaid string `json:"principalPaid"`
		} `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Schedule, 12)
	assert.Equal(t, 1, body.Schedule[0].Period)
	assert.Equal(t, "1000", body.Schedule[0].PrincipalPaid)
}

func TestLoanSolveEndpoint(t *testing.T) {
	h := newTestHandler(nil)
	rec := postJSON(t, h, "/api/loan/solve",
		`{"solve":"amount","targetPayment":"1000",
		  "input":{"annualRate":"0","termYears":"1","graceYears":"0","method":"equal_payment"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Value string `json:"value"`
		Valid bool   `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Valid)
	assert.Equal(t, "12000", res.Value)
}

func TestSimulateEndpointCachesByRequestDigest(t *testing.T) {
	cache := &countingCache{inner: NewMemoryCache()}
	h := newTestHandler(cache)
	body := `{"currentAge":35,"retirementAge":65,"monthlyLivingCost":"50000",
	          "inflationRate":"0.02","currentPrincipal":"1000000","mode":"lenient"}`

	first := postJSON(t, h, "/api/retirement/simulate", body)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, cache.sets)

	second := postJSON(t, h, "/api/retirement/simulate", body)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, cache.sets, "second identical request must be served from cache")
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, first.Body.String(), second.Body.String())

	var res struct {
		RetirementTotalAssets string `json:"retirementTotalAssets"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &res))
	assert.Equal(t, "1000000", res.RetirementTotalAssets)
}

func TestSimulateValidationMapsTo422(t *testing.T) {
	h := newTestHandler(nil)
	rec := postJSON(t, h, "/api/retirement/simulate",
		`{"currentAge":65,"retirementAge":35,"monthlyLivingCost":"50000",
		  "inflationRate":"0.02","currentPrincipal":"1000000"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid_range", body.Error.Kind)
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, ok := c.Get(ctx, "absent")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	value, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), value)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"address: \":9090\"\nredis_addr: \"localhost:6379\"\ncache_ttl: 5m\nlog_level: debug\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address)
}
