package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Huyenuiio/backend-rockefeller-finance/internal/config"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/ledger"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/models"
	"github.com/Huyenuiio/backend-rockefeller-finance/internal/pricing"
)

func init() {
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
}

// newTestAPI wires the full router against a throwaway database and a
// stubbed upstream price API.
func newTestAPI(t *testing.T) *gin.Engine {
	t.Helper()

	priceSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/simple/price":
			w.Write([]byte(`{"bitcoin":{"usd":97000}}`))
		case "/coins/bitcoin/market_chart":
			w.Write([]byte(`{"prices":[
				[1756252800000,95000],[1756339200000,95500],[1756425600000,96000],
				[1756512000000,96200],[1756598400000,96400],[1756684800000,96600],
				[1756771200000,97000]]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(priceSrv.Close)

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		JWT:      config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{BcryptCost: 4},
		Pricing: config.PricingConfig{
			CoinGeckoURL:    priceSrv.URL,
			BinanceURL:      priceSrv.URL,
			FallbackPrice:   97_000,
			CacheTTLSeconds: 300,
			BackoffMillis:   1,
		},
		Investment: config.InvestmentConfig{
			Types:            []string{"Bitcoin ETF", "Gold", "Stocks"},
			PriceLinkedTypes: []string{"Bitcoin ETF"},
		},
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Expense{}, &models.Investment{}))

	svc := ledger.NewService(db, zerolog.Nop(), cfg.Investment.Types)
	provider := pricing.NewProvider(cfg.Pricing, pricing.NewMemoryCache(), zerolog.Nop())

	return SetupRouter(cfg, db, svc, provider)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	}
	return w, out
}

func registerAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w, _ := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"username":         username,
		"password":         "Secret123",
		"confirm_password": "Secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, resp := doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{
		"username": username,
		"password": "Secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := resp["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterValidation(t *testing.T) {
	r := newTestAPI(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"short username", gin.H{"username": "ab", "password": "Secret123", "confirm_password": "Secret123"}},
		{"weak password", gin.H{"username": "alice", "password": "password", "confirm_password": "password"}},
		{"mismatched confirm", gin.H{"username": "alice", "password": "Secret123", "confirm_password": "Secret124"}},
	}
	for _, tc := range cases {
		w, _ := doJSON(t, r, http.MethodPost, "/api/register", "", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.name)
	}

	// duplicate usernames differ only by case
	w, _ := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"username": "alice", "password": "Secret123", "confirm_password": "Secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"username": "ALICE", "password": "Secret123", "confirm_password": "Secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestAPI(t)
	registerAndLogin(t, r, "bob")

	w, _ := doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{
		"username": "bob", "password": "Wrong1234",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	r := newTestAPI(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/allocations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/allocations", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBudgetFlow(t *testing.T) {
	r := newTestAPI(t)
	token := registerAndLogin(t, r, "carol")

	w, resp := doJSON(t, r, http.MethodPost, "/api/initial-budget", token, gin.H{"amount": 1_000_000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 1_000_000.0, data["initial_budget"])

	allocations := data["allocations"].(map[string]interface{})
	assert.Equal(t, 500_000.0, allocations["Tiêu dùng thiết yếu"])
	assert.Equal(t, 200_000.0, allocations["Tiết kiệm"])
	assert.Equal(t, 150_000.0, allocations["Đầu tư bản thân"])
	assert.Equal(t, 50_000.0, allocations["Từ thiện"])
	assert.Equal(t, 100_000.0, allocations["Quỹ dự phòng"])

	// expense against the essentials envelope
	w, resp = doJSON(t, r, http.MethodPost, "/api/expenses", token, gin.H{
		"amount":   100_000,
		"category": "Tiêu dùng thiết yếu",
		"purpose":  "groceries",
		"location": "market",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, 900_000.0, data["initial_budget"])
	allocations = data["allocations"].(map[string]interface{})
	assert.Equal(t, 400_000.0, allocations["Tiêu dùng thiết yếu"])

	// deleting it restores both budget and envelope
	w, resp = doJSON(t, r, http.MethodDelete, "/api/expenses/0", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, 1_000_000.0, data["initial_budget"])

	// stale index after the delete
	w, _ = doJSON(t, r, http.MethodDelete, "/api/expenses/0", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpenseRejections(t *testing.T) {
	r := newTestAPI(t)
	token := registerAndLogin(t, r, "dave")

	_, _ = doJSON(t, r, http.MethodPost, "/api/initial-budget", token, gin.H{"amount": 1000})

	// unknown label
	w, _ := doJSON(t, r, http.MethodPost, "/api/expenses", token, gin.H{
		"amount": 10, "category": "Ăn uống", "purpose": "p", "location": "loc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// over the envelope balance
	w, _ = doJSON(t, r, http.MethodPost, "/api/expenses", token, gin.H{
		"amount": 51, "category": "Từ thiện", "purpose": "p", "location": "loc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// future date
	w, _ = doJSON(t, r, http.MethodPost, "/api/expenses", token, gin.H{
		"amount": 10, "category": "Từ thiện", "purpose": "p", "location": "loc", "date": "2999-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvestmentFlow(t *testing.T) {
	r := newTestAPI(t)
	token := registerAndLogin(t, r, "erin")

	_, _ = doJSON(t, r, http.MethodPost, "/api/initial-budget", token, gin.H{"amount": 1_000_000})

	w, resp := doJSON(t, r, http.MethodPost, "/api/investments", token, gin.H{
		"amount": 50_000, "price": 90_000, "type": "Bitcoin ETF",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := resp["data"].(map[string]interface{})
	allocations := data["allocations"].(map[string]interface{})
	assert.Equal(t, 100_000.0, allocations["Đầu tư bản thân"])

	// unknown type maps to a validation error
	w, _ = doJSON(t, r, http.MethodPost, "/api/investments", token, gin.H{
		"amount": 1000, "price": 100, "type": "Real Estate",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// deleting an absent index is a 404 here
	w, _ = doJSON(t, r, http.MethodDelete, "/api/investments/5", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// analysis values Bitcoin-linked types at the stubbed live price
	w, resp = doJSON(t, r, http.MethodGet, "/api/investment-analysis", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, 50_000.0, data["total_invested"])
	// 50000/90000*97000 rounded to 2 places
	assert.InDelta(t, 53_888.89, data["current_value"], 0.01)
	assert.Equal(t, false, data["degraded"])
}

func TestPublicPriceEndpoints(t *testing.T) {
	r := newTestAPI(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/bitcoin-price", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 97_000.0, data["price"])
	_, hasWarning := data["warning"]
	assert.False(t, hasWarning)

	w, resp = doJSON(t, r, http.MethodGet, "/api/bitcoin-history", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = resp["data"].(map[string]interface{})
	history := data["history"].([]interface{})
	assert.Len(t, history, 7)

	w, resp = doJSON(t, r, http.MethodGet, "/api/ping", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestResetAndAccountDeletion(t *testing.T) {
	r := newTestAPI(t)
	token := registerAndLogin(t, r, "frank")

	_, _ = doJSON(t, r, http.MethodPost, "/api/initial-budget", token, gin.H{"amount": 1000})

	w, _ := doJSON(t, r, http.MethodDelete, "/api/budget", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, r, http.MethodGet, "/api/initial-budget", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 0.0, data["initial_budget"])

	w, _ = doJSON(t, r, http.MethodDelete, "/api/account", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// the token now points at a deleted account
	w, _ = doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestAPI(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/ping", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
