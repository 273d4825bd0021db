package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/scrap-api/internal/application/auth"
	"github.com/jhoicas/scrap-api/internal/application/inventory"
	appscrap "github.com/jhoicas/scrap-api/internal/application/scrap"
	"github.com/jhoicas/scrap-api/internal/infrastructure/memory"
	"github.com/jhoicas/scrap-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/scrap-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/scrap-api/pkg/jwt"
	"github.com/jhoicas/scrap-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	demoPassword  = "secreto123"
	testJWTSecret = "clave-api-desechos"
	testIssuer    = "scrap-api-test"
	testExpMin    = 60
)

// newScrapApp arma la API completa sobre el store en memoria con los datos de demo.
func newScrapApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, memory.SeedDemo(store, demoPassword))

	log := logger.Nop()
	replenishment := inventory.NewReplenishmentUseCase(memory.NewReplenishmentRepository(store), log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(memory.NewUserRepository(store), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		ScrapUC:         appscrap.NewScrapUseCase(store, replenishment, appscrap.DefaultConfig(), log),
		ScrapPDF:        appscrap.NewPDFUseCase(store, pdf.NewMarotoScrapPDF()),
		ReplenishmentUC: replenishment,
		JWTSecret:       testJWTSecret,
	})
	return app, store
}

func demoToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, memory.DemoUserID, memory.DemoCompanyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call lanza la petición y decodifica el cuerpo JSON (si lo hay).
func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func scrapBody(qty string, lots ...string) map[string]any {
	return map[string]any{
		"product_id":        memory.DemoProductID,
		"location_id":       memory.DemoStockLocationID,
		"scrap_location_id": memory.DemoScrapLocationID,
		"scrap_qty":         qty,
		"lot_ids":           lots,
	}
}

// idOf exige que la respuesta de alta traiga el id del desecho.
func idOf(t *testing.T, body map[string]any) string {
	t.Helper()
	id, ok := body["id"].(string)
	require.True(t, ok, "respuesta sin id: %v", body)
	return id
}

func qtyOf(t *testing.T, v any) decimal.Decimal {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "las cantidades viajan como string decimal: %v", v)
	return decimal.RequireFromString(s)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestScrapAPI_LoginConUsuarioDemo(t *testing.T) {
	app, _ := newScrapApp(t)

	status, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": memory.DemoUserEmail, "password": demoPassword,
	})

	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": memory.DemoUserEmail, "password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "no-es-email", "password": demoPassword,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestScrapAPI_CrearConLotesYValidar_EjecutaUnMovimientoPorLote(t *testing.T) {
	app, store := newScrapApp(t)
	token := demoToken(t, "bodeguero")

	status, created := call(t, app, http.MethodPost, "/api/scraps", token,
		scrapBody("1", memory.DemoLot1ID, memory.DemoLot2ID))
	require.Equal(t, http.StatusCreated, status, created)
	assert.True(t, qtyOf(t, created["scrap_qty"]).Equal(decimal.NewFromInt(15)), "la cantidad es la suma de los lotes")
	assert.Equal(t, "Nuevo", created["name"])

	id := idOf(t, created)
	status, res := call(t, app, http.MethodPost, "/api/scraps/"+id+"/validate", token, nil)
	require.Equal(t, http.StatusOK, status, res)
	assert.Equal(t, "done", res["status"])

	require.IsType(t, map[string]any{}, res["scrap"])
	scrap := res["scrap"].(map[string]any)
	assert.Equal(t, "SP/00001", scrap["name"])
	assert.Len(t, scrap["moves"], 2)

	lot1, lot2 := memory.DemoLot1ID, memory.DemoLot2ID
	assert.True(t, store.QuantQty(memory.DemoProductID, memory.DemoStockLocationID, &lot1, nil, nil).IsZero())
	assert.True(t, store.QuantQty(memory.DemoProductID, memory.DemoStockLocationID, &lot2, nil, nil).IsZero())
	assert.True(t, store.QuantQty(memory.DemoProductID, memory.DemoScrapLocationID, &lot1, nil, nil).Equal(decimal.NewFromInt(10)))
}

func TestScrapAPI_CantidadInsuficiente_DevuelveAvisoYConfirmarEjecuta(t *testing.T) {
	app, store := newScrapApp(t)
	token := demoToken(t, "admin")

	_, created := call(t, app, http.MethodPost, "/api/scraps", token, scrapBody("3"))
	id := idOf(t, created)

	status, res := call(t, app, http.MethodPost, "/api/scraps/"+id+"/validate", token, nil)
	require.Equal(t, http.StatusOK, status, res)
	require.Equal(t, "insufficient_quantity", res["status"], "sin stock sin lote el desecho sin lotes no alcanza")

	require.IsType(t, map[string]any{}, res["warning"])
	warning := res["warning"].(map[string]any)
	assert.Equal(t, "[YOG-01] Yogur natural: cantidad insuficiente para desechar", warning["title"])
	assert.Equal(t, id, warning["scrap_id"])
	assert.Equal(t, memory.DemoStockLocationID, warning["location_id"])
	assert.Equal(t, "Unidades", warning["product_uom_name"])
	assert.True(t, qtyOf(t, warning["quantity"]).Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "draft", store.Scrap(id).State)

	status, res = call(t, app, http.MethodPost, "/api/scraps/"+id+"/confirm", token, nil)
	require.Equal(t, http.StatusOK, status, res)
	assert.Equal(t, "done", res["status"])
	assert.True(t, store.QuantQty(memory.DemoProductID, memory.DemoStockLocationID, nil, nil, nil).Equal(decimal.NewFromInt(-3)))
}

func TestScrapAPI_CantidadCero_Retorna400SinEscribir(t *testing.T) {
	app, store := newScrapApp(t)
	token := demoToken(t, "bodeguero")

	_, created := call(t, app, http.MethodPost, "/api/scraps", token, scrapBody("0"))
	id := idOf(t, created)

	status, res := call(t, app, http.MethodPost, "/api/scraps/"+id+"/validate", token, nil)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "NON_POSITIVE_QTY", res["code"])
	assert.Equal(t, "draft", store.Scrap(id).State)
	assert.Empty(t, store.Moves(id))
}

func TestScrapAPI_VendedorNoPuedeValidar(t *testing.T) {
	app, _ := newScrapApp(t)
	_, created := call(t, app, http.MethodPost, "/api/scraps", demoToken(t, "bodeguero"), scrapBody("1"))

	status, res := call(t, app, http.MethodPost, "/api/scraps/"+idOf(t, created)+"/validate", demoToken(t, "vendedor"), nil)

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", res["code"])
}

func TestScrapAPI_OnchangeLots_SumaSinEscribir(t *testing.T) {
	app, _ := newScrapApp(t)
	token := demoToken(t, "bodeguero")

	status, res := call(t, app, http.MethodPost, "/api/scraps/onchange-lots", token, map[string]any{
		"product_id": memory.DemoProductID,
		"lot_ids":    []string{memory.DemoLot2ID, memory.DemoLot2ID},
		"scrap_qty":  "1",
	})

	require.Equal(t, http.StatusOK, status, res)
	assert.True(t, qtyOf(t, res["scrap_qty"]).Equal(decimal.NewFromInt(5)), "lotes repetidos cuentan una vez")

	status, list := call(t, app, http.MethodGet, "/api/scraps", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, list["items"])
}

func TestScrapAPI_ValidacionDelCuerpo(t *testing.T) {
	app, _ := newScrapApp(t)

	status, res := call(t, app, http.MethodPost, "/api/scraps", demoToken(t, "bodeguero"), map[string]any{
		"scrap_qty": "1",
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", res["code"])
}

func TestScrapAPI_DesechoInexistente_Retorna404(t *testing.T) {
	app, _ := newScrapApp(t)

	status, res := call(t, app, http.MethodPost, "/api/scraps/no-existe/validate", demoToken(t, "admin"), nil)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", res["code"])
}

func TestScrapAPI_PDFSoloParaDesechosEjecutados(t *testing.T) {
	app, _ := newScrapApp(t)
	token := demoToken(t, "bodeguero")
	_, created := call(t, app, http.MethodPost, "/api/scraps", token, scrapBody("1", memory.DemoLot1ID))
	id := idOf(t, created)

	status, _ := call(t, app, http.MethodGet, "/api/scraps/"+id+"/pdf", token, nil)
	assert.Equal(t, http.StatusBadRequest, status, "un borrador no tiene comprobante")

	status, _ = call(t, app, http.MethodPost, "/api/scraps/"+id+"/validate", token, nil)
	require.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/api/scraps/"+id+"/pdf", nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "desecho-SP-00001.pdf")
}

func TestScrapAPI_ReposicionYLotesDisponibles(t *testing.T) {
	app, _ := newScrapApp(t)
	token := demoToken(t, "bodeguero")

	req := httptest.NewRequest(http.MethodGet, "/api/lots?product_id="+memory.DemoProductID, nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var lots []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lots))
	resp.Body.Close()
	require.Len(t, lots, 2)
	assert.Equal(t, "L-001", lots[0]["name"])

	body := scrapBody("1", memory.DemoLot2ID)
	body["should_replenish"] = true
	_, created := call(t, app, http.MethodPost, "/api/scraps", token, body)
	status, _ := call(t, app, http.MethodPost, "/api/scraps/"+idOf(t, created)+"/validate", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, res := call(t, app, http.MethodGet, "/api/replenishments", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, res["total"])
}
