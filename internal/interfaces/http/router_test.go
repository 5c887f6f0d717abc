package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-laundry/internal/application/analytics"
	"github.com/jhoicas/stock-laundry/internal/application/auth"
	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/application/inventory"
	"github.com/jhoicas/stock-laundry/internal/application/mirror"
	"github.com/jhoicas/stock-laundry/internal/application/usecase"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/restock"
	"github.com/jhoicas/stock-laundry/internal/infrastructure/memory"
	"github.com/jhoicas/stock-laundry/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-laundry/internal/infrastructure/sheets"
	apphttp "github.com/jhoicas/stock-laundry/internal/interfaces/http"
	"github.com/jhoicas/stock-laundry/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre almacenamiento en memoria
// ──────────────────────────────────────────────────────────────────────────────

var locations = []string{"Gudang Utama", "Gudang Singles", "Repair"}

type apiFixture struct {
	app   *fiber.App
	store *inventory.Store
	users *memory.UserRepo
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	storage := memory.NewStorage()
	clock := testutil.NewStubClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	ids := &testutil.StubIDGenerator{}

	store, err := inventory.NewStore(ctx, inventory.StoreDeps{
		Tx: storage, Snapshots: storage.Snapshots(), Movements: storage.Movements(), State: storage.State(),
		Clock: clock, IDs: ids, PrimaryLocation: locations[0], Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	users := memory.NewUserRepository()
	authUC := auth.NewAuthUseCase(users, storage.State(), clock, ids, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}, zerolog.Nop())
	require.NoError(t, authUC.Bootstrap(ctx))

	coord, err := mirror.NewCoordinator(ctx, mirror.Deps{
		Inventory: store, Mirror: sheets.NewClient(time.Second), State: storage.State(), Clock: clock, Logger: zerolog.Nop(),
	}, mirror.Options{})
	require.NoError(t, err)
	store.Subscribe(coord.NotifyChange)
	t.Cleanup(coord.Close)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:           authUC,
		ItemUC:           inventory.NewItemUseCase(store, locations),
		RegisterMovement: inventory.NewRegisterMovementUseCase(store),
		CatalogUC:        inventory.NewCatalogUseCase(store, locations),
		Replenishment:    inventory.NewReplenishmentUseCase(store, restock.NewCalculator(restock.DefaultSafetyFactor), clock, pdf.NewMarotoPDFGenerator()),
		DashboardUC:      analytics.NewDashboardUseCase(store),
		Sync:             coord,
		UserUC:           usecase.NewUserUseCase(users, ids),
		PreferencesUC:    usecase.NewPreferencesUseCase(storage.State()),
		JWTSecret:        testJWTSecret,
	})
	return &apiFixture{app: app, store: store, users: users}
}

func (f *apiFixture) call(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (f *apiFixture) login(t *testing.T, username, password string) string {
	t.Helper()
	resp, body := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return "Bearer " + out.Token
}

func (f *apiFixture) createItem(t *testing.T, token, name, size, location string, qty int) entity.Item {
	t.Helper()
	resp, body := f.call(t, http.MethodPost, "/api/items", token, map[string]any{
		"name": name, "size": size, "location": location, "expectedQty": qty, "dailyUsage": "5",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var it entity.Item
	require.NoError(t, json.Unmarshal(body, &it))
	return it
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_LoginConCredencialesIncorrectas(t *testing.T) {
	f := newAPI(t)

	resp, body := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_CREDENTIALS")

	resp, _ = f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "admin123", Role: entity.RoleStaff})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "el rol indicado debe coincidir")
}

func TestAPI_TrasladoEntreUbicaciones(t *testing.T) {
	f := newAPI(t)
	tok := f.login(t, "admin", "admin123")
	towel := f.createItem(t, tok, "Towel", "M", "Gudang Utama", 100)

	resp, body := f.call(t, http.MethodPost, "/api/movements", tok, dto.RegisterMovementRequest{
		ItemID: towel.ID, Type: entity.MovementTypeSHIFT, Quantity: 30,
		FromLocation: "Gudang Utama", ToLocation: "Gudang Singles", WorkShift: entity.WorkShift1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var mv dto.MovementResponse
	require.NoError(t, json.Unmarshal(body, &mv))
	assert.True(t, mv.Applied)
	assert.Equal(t, "Leader", mv.Movement.PerformedBy)

	resp, body = f.call(t, http.MethodGet, "/api/locations/Gudang%20Singles/stock", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stock dto.LocationStockDTO
	require.NoError(t, json.Unmarshal(body, &stock))
	assert.Equal(t, "Gudang Singles", stock.Location)
	assert.Equal(t, 30, stock.TotalQty)
	assert.Equal(t, 30, stock.TotalIn)

	resp, body = f.call(t, http.MethodGet, "/api/catalog?q=towel", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 1)
	assert.EqualValues(t, 100, entries[0]["totalQty"])

	resp, body = f.call(t, http.MethodGet, "/api/movements?limit=5", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.MovementListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Movements, 1)
}

func TestAPI_ImportCSVEHistorialPorFila(t *testing.T) {
	f := newAPI(t)
	tok := f.login(t, "admin", "admin123")

	var form bytes.Buffer
	w := multipart.NewWriter(&form)
	part, err := w.CreateFormFile("file", "master.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, "name,category,size,unit,location,usageType,minStockThreshold,dailyUsage\n"+
		"Towel,Linen,M,pcs,Gudang Utama,REUSABLE,10,5\n"+
		"Towel,Linen,M,pcs,Gudang Utama,REUSABLE,10,5\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/items/import", &form)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", tok)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var imported dto.ImportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&imported))
	require.Len(t, imported.Imported, 1)
	require.Len(t, imported.Errors, 1)
	assert.Equal(t, 3, imported.Errors[0].Line)
	towel := imported.Imported[0]

	resp2, body := f.call(t, http.MethodPost, "/api/movements", tok, dto.RegisterMovementRequest{
		ItemID: towel.ID, Type: entity.MovementTypeIN, Quantity: 50, WorkShift: entity.WorkShift1,
	})
	require.Equal(t, http.StatusCreated, resp2.StatusCode, string(body))
	resp2, body = f.call(t, http.MethodPost, "/api/movements", tok, dto.RegisterMovementRequest{
		ItemID: towel.ID, Type: entity.MovementTypeSHIFT, Quantity: 20,
		FromLocation: "Gudang Utama", ToLocation: "Repair", WorkShift: entity.WorkShift1,
	})
	require.Equal(t, http.StatusCreated, resp2.StatusCode, string(body))
	f.createItem(t, tok, "Sheet", "L", "Repair", 5)
	resp2, body = f.call(t, http.MethodPost, "/api/movements", tok, dto.RegisterMovementRequest{
		ItemName: "Sheet", Type: entity.MovementTypeIN, Quantity: 5, WorkShift: entity.WorkShift1,
	})
	require.Equal(t, http.StatusCreated, resp2.StatusCode, string(body))

	resp2, body = f.call(t, http.MethodGet, "/api/movements?itemId="+towel.ID+"&location=Repair", tok, nil)
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	var list dto.MovementListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Movements, 1)
	assert.Equal(t, entity.MovementTypeSHIFT, list.Movements[0].Type)

	resp2, body = f.call(t, http.MethodGet, "/api/movements?location=Repair", tok, nil)
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 2, list.Page.Total)
}

func TestAPI_StockInsuficienteDevuelve409(t *testing.T) {
	f := newAPI(t)
	tok := f.login(t, "admin", "admin123")
	towel := f.createItem(t, tok, "Towel", "M", "Gudang Utama", 10)

	resp, body := f.call(t, http.MethodPost, "/api/movements", tok, dto.RegisterMovementRequest{
		ItemID: towel.ID, Type: entity.MovementTypeOUT, Quantity: 11, FromLocation: "Gudang Utama",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INSUFFICIENT_STOCK")

	resp, body = f.call(t, http.MethodPost, "/api/movements", tok, dto.RegisterMovementRequest{
		ItemID: towel.ID, Type: "LOAN", Quantity: 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_MOVEMENT")
}

func TestAPI_StaffNoGestionaDefinicionesNiUsuarios(t *testing.T) {
	f := newAPI(t)
	tok := f.login(t, "admin", "admin123")
	resp, body := f.call(t, http.MethodPost, "/api/users", tok, dto.CreateUserRequest{
		Name: "Budi", Username: "budi", Password: "secret1", Role: entity.RoleStaff,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	staff := f.login(t, "budi", "secret1")
	resp, _ = f.call(t, http.MethodPost, "/api/items", staff, map[string]any{"name": "Sheet", "location": "Gudang Utama"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = f.call(t, http.MethodGet, "/api/users", staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = f.call(t, http.MethodGet, "/api/restock/report?location=Gudang%20Singles", staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.call(t, http.MethodGet, "/api/dashboard", staff, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_ReposicionYReporte(t *testing.T) {
	f := newAPI(t)
	tok := f.login(t, "admin", "admin123")
	towel := f.createItem(t, tok, "Towel", "M", "Gudang Utama", 200)

	resp, body := f.call(t, http.MethodGet, "/api/restock?location=Gudang%20Singles&period=1W", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var list dto.RestockListDTO
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Lines, 1)
	assert.Equal(t, 70, list.Lines[0].Gap)

	resp, body = f.call(t, http.MethodPost, "/api/restock/"+towel.ID, tok, dto.QuickRestockRequest{Location: "Gudang Singles", Period: "1W"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = f.call(t, http.MethodGet, "/api/restock/report?location=Gudang%20Singles", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, _ = f.call(t, http.MethodGet, "/api/restock?location=Gudang%20Utama", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "la bodega principal no se repone")
}

func TestAPI_SincronizacionSinEndpoint(t *testing.T) {
	f := newAPI(t)
	tok := f.login(t, "admin", "admin123")

	resp, body := f.call(t, http.MethodPost, "/api/sync/push", tok, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "SYNC_NOT_CONFIGURED")

	resp, _ = f.call(t, http.MethodPut, "/api/sync/config", tok, dto.SyncConfigRequest{ScriptURL: "notaurl", IsConnected: true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_PullDesdeEspejoRemoto(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `[{"id":"r1","name":"Pillow","size":"S","location":"Gudang Utama","expectedQty":"12","actualQty":12}]`)
		}
	}))
	defer remote.Close()

	f := newAPI(t)
	tok := f.login(t, "admin", "admin123")
	resp, body := f.call(t, http.MethodPut, "/api/sync/config", tok, dto.SyncConfigRequest{ScriptURL: remote.URL, IsConnected: true, PullLock: true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = f.call(t, http.MethodPost, "/api/sync/pull?force=false", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), mirror.OutcomeLocked)

	resp, body = f.call(t, http.MethodPost, "/api/sync/pull", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res mirror.Result
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, mirror.OutcomeApplied, res.Outcome)

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 12, items[0].ExpectedQty)

	resp, body = f.call(t, http.MethodGet, "/api/sync/status", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"lastSyncedAt"`)
}

func TestAPI_Preferencias(t *testing.T) {
	f := newAPI(t)
	tok := f.login(t, "admin", "admin123")

	resp, body := f.call(t, http.MethodPut, "/api/preferences", tok, map[string]any{"theme": "dark"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var p entity.Preferences
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, entity.ThemeDark, p.Theme)
	assert.Equal(t, entity.LanguageID, p.Language)
}
