package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dukaan/internal/engine"
	"dukaan/internal/models"
	"dukaan/internal/store"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInterpreter struct {
	record models.ActionRecord
	err    error
}

func (s stubInterpreter) Interpret(_ context.Context, _ string, _ []models.InventoryItem) (models.ActionRecord, error) {
	return s.record, s.err
}

func newTestServer(interp Interpreter, secret string) (*Server, *store.Store) {
	gin.SetMode(gin.TestMode)

	state := engine.NewState()
	state = state.AddProduct(models.InventoryItem{Name: "Bread", Quantity: 12, Unit: "pc", Price: 40})
	state = state.AddProduct(models.InventoryItem{Name: "Amul Milk", Quantity: 20, Unit: "packet", Price: 28})
	st := store.New(state)

	return NewServer(st, interp, secret), st
}

func doJSON(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(nil, "")
	w := doJSON(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDispatchAction(t *testing.T) {
	server, st := newTestServer(nil, "")

	w := doJSON(t, server, http.MethodPost, "/api/v1/actions", map[string]any{
		"action": "ADD_TO_CART",
		"items":  []map[string]any{{"name": "milk", "quantity": 2}},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var snapshot engine.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	require.Len(t, snapshot.Cart, 1)
	assert.Equal(t, "Amul Milk", snapshot.Cart[0].Name)
	assert.Equal(t, snapshot.Cart, st.Snapshot().Cart)
}

func TestDispatchMalformedActionIsNoop(t *testing.T) {
	server, st := newTestServer(nil, "")
	before := st.Snapshot()

	req, err := http.NewRequest(http.MethodPost, "/api/v1/actions", bytes.NewBufferString("not json at all"))
	require.NoError(t, err)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	// a malformed payload degrades to a no-op, never an error
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before, st.Snapshot())
}

func TestAssist(t *testing.T) {
	interp := stubInterpreter{record: models.ActionRecord{
		Kind:  models.ActionRecordSale,
		Items: []models.ActionLine{{Name: "bread", Quantity: 1}},
	}}
	server, st := newTestServer(interp, "")

	w := doJSON(t, server, http.MethodPost, "/api/v1/assist", map[string]string{"text": "sold one bread"})

	assert.Equal(t, http.StatusOK, w.Code)
	snap := st.Snapshot()
	require.Len(t, snap.Sales, 1)
	assert.Equal(t, 40.0, snap.Sales[0].TotalAmount)
}

func TestAssistWithoutModelIsUnavailable(t *testing.T) {
	server, _ := newTestServer(nil, "")
	w := doJSON(t, server, http.MethodPost, "/api/v1/assist", map[string]string{"text": "anything"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAddProductAndQuickRestock(t *testing.T) {
	server, st := newTestServer(nil, "")

	w := doJSON(t, server, http.MethodPost, "/api/v1/inventory", map[string]any{
		"name": "Ghee", "quantity": 4, "unit": "l", "price": 25,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	id := st.Snapshot().Inventory[0].ID
	w = doJSON(t, server, http.MethodPost, "/api/v1/inventory/"+id+"/restock", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	snap := st.Snapshot()
	assert.Equal(t, 14, snap.Inventory[0].Quantity)
	require.Len(t, snap.Expenses, 1)
	assert.Equal(t, 200.0, snap.Expenses[0].Amount)
}

func TestQuickRestockUnknownItem(t *testing.T) {
	server, _ := newTestServer(nil, "")
	w := doJSON(t, server, http.MethodPost, "/api/v1/inventory/nope/restock", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartRoundTrip(t *testing.T) {
	server, st := newTestServer(nil, "")

	w := doJSON(t, server, http.MethodPost, "/api/v1/cart", map[string]any{"name": "milk", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, server, http.MethodPost, "/api/v1/cart", map[string]any{"name": "bread", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, server, http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sale models.SaleRecord `json:"sale"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 96.0, resp.Sale.TotalAmount)
	assert.Empty(t, st.Snapshot().Cart)

	// a second checkout has nothing to commit
	w = doJSON(t, server, http.MethodPost, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRemoveFromCartEndpoint(t *testing.T) {
	server, st := newTestServer(nil, "")

	doJSON(t, server, http.MethodPost, "/api/v1/cart", map[string]any{"name": "milk", "quantity": 2})
	w := doJSON(t, server, http.MethodDelete, "/api/v1/cart/Amul%20Milk", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, st.Snapshot().Cart)
}

func TestLedgerReads(t *testing.T) {
	server, _ := newTestServer(nil, "")

	for _, path := range []string{
		"/api/v1/snapshot",
		"/api/v1/inventory",
		"/api/v1/cart",
		"/api/v1/sales",
		"/api/v1/expenses",
	} {
		w := doJSON(t, server, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, "GET %s", path)
	}
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	server, _ := newTestServer(nil, secret)

	w := doJSON(t, server, http.MethodGet, "/api/v1/snapshot", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "shopkeeper",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/snapshot", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", signed)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// health stays open
	w = doJSON(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsNonHMACTokens(t *testing.T) {
	server, _ := newTestServer(nil, "test-secret")

	// a token claiming alg "none" must not pass just because parsing
	// succeeds; only HMAC-signed tokens are acceptable for a shared secret
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "shopkeeper",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/snapshot", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", unsigned)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
