package sheets_test

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/infrastructure/sheets"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchConvierteNumerosEnCadena(t *testing.T) {
	srv := serve(t, http.StatusOK, `[
		{"id":"a1","name":"Towel","size":"M","location":"Gudang Utama","expectedQty":"70","actualQty":30,
		 "minStockThreshold":"abc","dailyUsage":"2.5","status":"APPROVED"}
	]`)

	items, ok, err := sheets.NewClient(time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "Towel", items[0].Name)
	assert.Equal(t, 70, items[0].ExpectedQty)
	assert.Equal(t, 30, items[0].ActualQty)
	assert.Equal(t, 0, items[0].MinStockThreshold)
	assert.True(t, decimal.RequireFromString("2.5").Equal(items[0].DailyUsage))
}

func TestClient_FetchRecortaCantidadesFueraDeRango(t *testing.T) {
	srv := serve(t, http.StatusOK, `[
		{"id":"a1","name":"Towel","expectedQty":"1e20","actualQty":-1e20,"minStockThreshold":"Infinity"}
	]`)

	items, ok, err := sheets.NewClient(time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, math.MaxInt32, items[0].ExpectedQty)
	assert.Equal(t, -math.MaxInt32, items[0].ActualQty)
	assert.Zero(t, items[0].MinStockThreshold)
}

func TestClient_FetchSinArregloEsSinDatos(t *testing.T) {
	for _, body := range []string{`{"error":"x"}`, `not json`, `null`} {
		srv := serve(t, http.StatusOK, body)
		items, ok, err := sheets.NewClient(time.Second).Fetch(context.Background(), srv.URL)
		require.NoError(t, err, body)
		assert.False(t, ok, body)
		assert.Nil(t, items, body)
	}
}

func TestClient_FetchArregloVacio(t *testing.T) {
	srv := serve(t, http.StatusOK, `[]`)
	items, ok, err := sheets.NewClient(time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, items)
}

func TestClient_FetchErrorHTTP(t *testing.T) {
	srv := serve(t, http.StatusInternalServerError, `boom`)
	_, _, err := sheets.NewClient(time.Second).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestClient_PushYLogEnvianAccion(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b map[string]any
		_ = json.NewDecoder(r.Body).Decode(&b)
		mu.Lock()
		bodies = append(bodies, b)
		mu.Unlock()
		// El código de estado no se interpreta.
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	c := sheets.NewClient(time.Second)
	entry := entity.AuditEntry{User: "Leader", Role: entity.RoleLeader, Activity: entity.ActivityPush, Details: "Sinkronisasi 1 item"}
	items := []entity.Item{{ID: "a1", Name: "Towel", DailyUsage: decimal.RequireFromString("1.5"), ActualQty: 3}}

	require.NoError(t, c.Push(context.Background(), srv.URL, items, entry))
	require.NoError(t, c.Log(context.Background(), srv.URL, entity.AuditEntry{Activity: entity.ActivityPullEmpty}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	assert.Equal(t, "sync", bodies[0]["action"])
	payload := bodies[0]["payload"].([]any)
	require.Len(t, payload, 1)
	assert.Equal(t, 1.5, payload[0].(map[string]any)["dailyUsage"])
	assert.Equal(t, "PUSH (Kirim Data)", bodies[0]["log"].(map[string]any)["activity"])

	assert.Equal(t, "log_only", bodies[1]["action"])
	assert.NotContains(t, bodies[1], "payload")
}

func TestClient_PushErrorDeTransporte(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := sheets.NewClient(time.Second).Push(context.Background(), url, nil, entity.AuditEntry{})
	assert.Error(t, err)
}
