package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/scrap-api/internal/application/dto"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	apphttp "github.com/jhoicas/scrap-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/scrap-api/pkg/jwt"
)

const (
	mwSecret    = "clave-middleware"
	mwUserID    = "00000000-0000-0000-0000-0000000000aa"
	mwCompanyID = "00000000-0000-0000-0000-0000000000bb"
)

// appValidar replica la cadena de la ruta de validación de desechos.
func appValidar() *fiber.App {
	app := fiber.New()
	app.Post("/scraps/:id/validate",
		apphttp.AuthMiddleware(mwSecret),
		apphttp.RequireRole(entity.RoleAdmin, entity.RoleBodeguero),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"scrap_id":   c.Params("id"),
				"user_id":    apphttp.GetUserID(c),
				"company_id": apphttp.GetCompanyID(c),
				"role":       apphttp.GetRole(c),
			})
		},
	)
	return app
}

func firmar(t *testing.T, secret, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, mwUserID, mwCompanyID, role, "scrap-api-test", expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func postValidar(t *testing.T, authHeader string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/scraps/abc/validate", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := appValidar().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var raw json.RawMessage
	_ = json.NewDecoder(resp.Body).Decode(&raw)
	return resp.StatusCode, raw
}

// ── Roles ────────────────────────────────────────────────────────────────────

func TestValidarDesecho_Roles(t *testing.T) {
	cases := []struct {
		role     string
		wantCode int
		wantErr  string
	}{
		{entity.RoleAdmin, http.StatusOK, ""},
		{entity.RoleBodeguero, http.StatusOK, ""},
		{entity.RoleVendedor, http.StatusForbidden, "FORBIDDEN"},
		{"", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run("rol="+tc.role, func(t *testing.T) {
			status, body := postValidar(t, firmar(t, mwSecret, tc.role, 5))
			assert.Equal(t, tc.wantCode, status)
			if tc.wantErr != "" {
				var e dto.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &e))
				assert.Equal(t, tc.wantErr, e.Code)
			}
		})
	}
}

// ── Token ────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenRechazado(t *testing.T) {
	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto de Bearer", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"bearer vacío", "Bearer   ", "MISSING_TOKEN"},
		{"malformado", "Bearer no.es.jwt", "INVALID_TOKEN"},
		{"firmado con otra clave", firmar(t, "otra-clave", entity.RoleAdmin, 5), "INVALID_TOKEN"},
		{"expirado", firmar(t, mwSecret, entity.RoleAdmin, -1), "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := postValidar(t, tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			var e dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, tc.code, e.Code)
		})
	}
}

func TestAuthMiddleware_CargaIdentidadEnLocals(t *testing.T) {
	status, body := postValidar(t, firmar(t, mwSecret, entity.RoleBodeguero, 5))
	require.Equal(t, http.StatusOK, status)

	var got map[string]string
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, map[string]string{
		"scrap_id":   "abc",
		"user_id":    mwUserID,
		"company_id": mwCompanyID,
		"role":       entity.RoleBodeguero,
	}, got)
}
