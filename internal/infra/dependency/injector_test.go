package dependency

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/groupledger/backend/config"
	"github.com/groupledger/backend/internal/domain/entity"
	"github.com/groupledger/backend/internal/infra/db"
	"github.com/groupledger/backend/internal/infra/metrics"
	"github.com/groupledger/backend/internal/integration/adapters"
	"github.com/groupledger/backend/internal/integration/persistence"
)

type rateAPI struct {
	server *httptest.Server
	hits   atomic.Int32
}

// newRateAPI serves EUR->USD at 1.1 on /latest and nothing else.
func newRateAPI(t *testing.T) *rateAPI {
	t.Helper()
	api := &rateAPI{}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.hits.Add(1)
		if r.URL.Path != "/latest" || r.URL.Query().Get("from") != "EUR" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"amount":1,"base":"EUR","date":"2024-03-08","rates":{"USD":1.1}}`))
	}))
	t.Cleanup(api.server.Close)
	return api
}

func newTestConfig(apiURL string) *config.Config {
	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.JWT.Secret = "injector-test-secret"
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.ExchangeRate.BaseURL = apiURL
	cfg.ExchangeRate.RequestsPerSecond = 50
	cfg.ExchangeRate.CacheEnabled = true
	cfg.Balance.DefaultCurrency = "USD"
	cfg.Balance.DefaultConversionMode = "simple"
	return cfg
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.NewDatabase(conn).Migrate())
	return conn
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func serve(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

// call serves a JSON request and decodes the JSON response.
func call(t *testing.T, engine *gin.Engine, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	rec := serve(t, engine, method, path, token, body)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec.Code, decoded
}

func TestInjector_GroupBalancesEndToEnd(t *testing.T) {
	api := newRateAPI(t)
	injector := NewInjector(newTestConfig(api.server.URL), newTestDB(t), newTestRedis(t), metrics.NewPrometheus())
	engine := injector.Router.Setup("test")

	status, registered := call(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":          "alice@example.com",
		"name":           "Alice",
		"password":       "SecurePass123!",
		"terms_accepted": true,
	})
	require.Equal(t, http.StatusCreated, status, registered)
	token := registered["access_token"].(string)
	aliceID := registered["user"].(map[string]any)["id"].(string)

	status, group := call(t, engine, http.MethodPost, "/api/v1/groups", token, map[string]any{
		"name":           "Lisbon trip",
		"shadow_members": []string{"Bob"},
	})
	require.Equal(t, http.StatusCreated, status, group)
	groupID := group["id"].(string)

	var bobID string
	for _, m := range group["members"].([]any) {
		member := m.(map[string]any)
		if member["is_shadow"] == true {
			bobID = member["user_id"].(string)
		}
	}
	require.NotEmpty(t, bobID)

	status, expense := call(t, engine, http.MethodPost, "/api/v1/groups/"+groupID+"/expenses", token, map[string]any{
		"amount":        "100",
		"currency":      "EUR",
		"date":          "2024-03-01",
		"description":   "Dinner",
		"split_equally": []string{aliceID, bobID},
	})
	require.Equal(t, http.StatusCreated, status, expense)

	balancesPath := "/api/v1/groups/" + groupID + "/balances?currency=USD&mode=simple"
	status, summary := call(t, engine, http.MethodGet, balancesPath, token, nil)
	require.Equal(t, http.StatusOK, status, summary)

	assert.Equal(t, "USD", summary["display_currency"])
	assert.Equal(t, "simple", summary["conversion_mode"])
	assert.Equal(t, "110.00", summary["total_expenses"])

	debts := summary["simplified_debts"].([]any)
	require.Len(t, debts, 1)
	debt := debts[0].(map[string]any)
	assert.Equal(t, bobID, debt["from_user_id"])
	assert.Equal(t, aliceID, debt["to_user_id"])
	assert.Equal(t, "55.00", debt["amount"])

	// The second summary is served from the rate cache.
	status, _ = call(t, engine, http.MethodGet, balancesPath, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int32(1), api.hits.Load())

	rec := serve(t, engine, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `groupledger_balance_summaries_total{mode="simple"} 2`)
}

func TestInjector_HealthWithoutCache(t *testing.T) {
	injector := NewInjector(newTestConfig(""), newTestDB(t), nil, metrics.NewPrometheus())
	engine := injector.Router.Setup("test")

	status, body := call(t, engine, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["cache"])
}

func TestNewRateProvider(t *testing.T) {
	stored := persistence.NewExchangeRateRepository(newTestDB(t))

	t.Run("empty base URL uses stored rates only", func(t *testing.T) {
		provider := NewRateProvider(config.ExchangeRateConfig{}, stored, nil, metrics.Noop{})

		assert.Equal(t, stored, provider)
	})

	t.Run("base URL chains the API before stored rates", func(t *testing.T) {
		provider := NewRateProvider(config.ExchangeRateConfig{
			BaseURL:           "http://rates.invalid",
			Timeout:           time.Second,
			RequestsPerSecond: 1,
			CacheEnabled:      true,
		}, stored, nil, metrics.Noop{})

		assert.IsType(t, &adapters.ChainRateProvider{}, provider)
	})
}

func TestBalanceDefaults(t *testing.T) {
	t.Run("valid settings", func(t *testing.T) {
		defaults := BalanceDefaults(config.BalanceConfig{DefaultCurrency: "EUR", DefaultConversionMode: "smart"})

		assert.Equal(t, "EUR", defaults.DisplayCurrency)
		assert.Equal(t, entity.ConversionModeSmart, defaults.ConversionMode)
	})

	t.Run("invalid settings fall back", func(t *testing.T) {
		defaults := BalanceDefaults(config.BalanceConfig{DefaultCurrency: "EURO", DefaultConversionMode: "fast"})

		assert.Equal(t, "USD", defaults.DisplayCurrency)
		assert.Equal(t, entity.ConversionModeSimple, defaults.ConversionMode)
	})
}
